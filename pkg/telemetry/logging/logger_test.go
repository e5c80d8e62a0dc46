package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"mercator-hq/scribe/pkg/config"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	return m
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "json", config: Config{Level: "info", Format: "json"}},
		{name: "text", config: Config{Level: "debug", Format: "text"}},
		{name: "defaults", config: Config{}},
		{name: "invalid level", config: Config{Level: "trace"}, wantErr: true},
		{name: "invalid format", config: Config{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "warn", Writer: buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %s", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn not logged: %s", buf.String())
	}
}

func TestContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Writer: buf})
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithKeyword(WithRequestID(context.Background(), "req-42"), "solar panels")
	logger.InfoContext(ctx, "generation finished", "provider", "openai")

	m := decodeLine(t, buf)
	if m["request_id"] != "req-42" {
		t.Errorf("request_id = %v", m["request_id"])
	}
	if m["keyword"] != "solar panels" {
		t.Errorf("keyword = %v", m["keyword"])
	}
	if m["provider"] != "openai" {
		t.Errorf("provider = %v", m["provider"])
	}
}

func TestRedaction(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Writer: buf, RedactSecrets: true})
	if err != nil {
		t.Fatal(err)
	}

	logger.With("api_key", "sk-live-0123456789abcdef").Info("provider configured",
		"error", errors.New("401: invalid key sk-abcdefghijklmnop"),
		"header", "Bearer abc.def.ghi",
		"keyword", "sk tutorials",
		slog.Group("provider", slog.String("token", "tok-123456789")),
	)

	out := buf.String()
	for _, secret := range []string{"0123456789abcdef", "abcdefghijklmnop", "abc.def.ghi", "tok-123456789"} {
		if strings.Contains(out, secret) {
			t.Errorf("secret %q leaked: %s", secret, out)
		}
	}
	m := decodeLine(t, buf)
	if m["api_key"] != "sk-l***" {
		t.Errorf("api_key = %v, want sk-l***", m["api_key"])
	}
	if m["keyword"] != "sk tutorials" {
		t.Errorf("ordinary value altered: %v", m["keyword"])
	}
}

func TestRedactionDisabled(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Writer: buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("x", "api_key", "sk-0123456789")
	if !strings.Contains(buf.String(), "sk-0123456789") {
		t.Errorf("value redacted although redaction is off: %s", buf.String())
	}
}

func TestRedactAPIKey(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"short":           "***",
		"sk-proj-abcdefg": "sk-p***",
	}
	for in, want := range tests {
		if got := RedactAPIKey(in); got != want {
			t.Errorf("RedactAPIKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromConfig(t *testing.T) {
	c := FromConfig(config.LoggingConfig{Level: "debug", Format: "text", AddSource: true, RedactSecrets: true})
	if c.Level != "debug" || c.Format != "text" || !c.AddSource || !c.RedactSecrets {
		t.Errorf("FromConfig() = %+v", c)
	}
}

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	if _, err := Setup(Config{Writer: buf}); err != nil {
		t.Fatal(err)
	}
	slog.Info("via default")
	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("default logger not installed: %q", buf.String())
	}
}
