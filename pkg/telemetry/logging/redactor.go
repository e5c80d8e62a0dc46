package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redactor masks credentials in log attributes.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

var defaultPatterns = []redactPattern{
	// OpenAI and Anthropic style keys
	{regexp.MustCompile(`sk-(?:ant-)?[a-zA-Z0-9_\-]{8,}`), "sk-***"},
	{regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`), "Bearer ***"},
	{regexp.MustCompile(`(?i)(api[-_]?key|password|passwd|secret)([=:]\s*)[^\s&"]+`), "$1$2***"},
}

var sensitiveKeys = []string{
	"password", "passwd", "secret", "token",
	"api_key", "apikey", "authorization", "private_key",
}

// NewRedactor creates a Redactor with the built-in credential patterns.
func NewRedactor() *Redactor {
	return &Redactor{patterns: defaultPatterns}
}

// RedactString masks credential-looking substrings of value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// Attr returns a with sensitive values masked. Values of sensitive keys
// are replaced outright; other strings and errors are pattern-scrubbed.
// Groups are processed recursively.
func (r *Redactor) Attr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		group := v.Group()
		out := make([]any, len(group))
		for i, ga := range group {
			out[i] = r.Attr(ga)
		}
		return slog.Group(a.Key, out...)
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, RedactAPIKey(v.String()))
	}

	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(v.String()))
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// RedactAPIKey masks an API key, keeping a short prefix for identification.
func RedactAPIKey(apiKey string) string {
	switch {
	case apiKey == "":
		return ""
	case len(apiKey) <= 8:
		return "***"
	default:
		return apiKey[:4] + "***"
	}
}
