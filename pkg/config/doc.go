// Package config provides configuration management for Scribe.
//
// Configuration is read from YAML and may be overridden by environment
// variables. Loading always produces a fully defaulted and validated
// Config.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("scribe.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("scribe.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SCRIBE_SECTION_FIELD:
//
//   - SCRIBE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - SCRIBE_PROVIDERS_OPENAI_API_KEY overrides providers.openai.api_key
//   - SCRIBE_USAGE_BACKEND overrides usage.backend
//   - SCRIBE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Provider variables are honored for every provider named in the file and
// for the openai and anthropic vendors even when the file omits them.
//
// # Hot Reload
//
// Watcher observes the configuration file with fsnotify and delivers each
// valid new Config to a callback. `scribe serve` uses it to swap scoring
// weights without a restart.
package config
