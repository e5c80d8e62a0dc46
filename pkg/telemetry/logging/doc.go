// Package logging provides structured logging with credential redaction.
//
// # Overview
//
// The package wraps log/slog:
//   - JSON or text output with a configurable level
//   - request_id and keyword taken from the context of *Context calls
//   - API keys, bearer tokens and passwords masked in attributes
//
// # Usage
//
//	logger, err := logging.Setup(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//	    return err
//	}
//
//	ctx = logging.WithRequestID(ctx, id)
//	slog.InfoContext(ctx, "generation finished",
//	    "provider", "openai",
//	    "api_key", key, // logged as "sk-a***"
//	)
package logging
