package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/scribe/internal/providertest"
	"mercator-hq/scribe/pkg/config"
	"mercator-hq/scribe/pkg/content"
	"mercator-hq/scribe/pkg/moderation"
	"mercator-hq/scribe/pkg/orchestrator"
	"mercator-hq/scribe/pkg/preflight"
	"mercator-hq/scribe/pkg/providers"
	"mercator-hq/scribe/pkg/telemetry/health"
	"mercator-hq/scribe/pkg/telemetry/metrics"
	"mercator-hq/scribe/pkg/usage"

	"github.com/prometheus/client_golang/prometheus"
)

type stubBackend struct {
	generate func(ctx context.Context, req content.Request) (*content.Result, error)
	report   preflight.Report
	usage    map[string]usage.Record
}

func (b *stubBackend) Generate(ctx context.Context, req content.Request) (*content.Result, error) {
	return b.generate(ctx, req)
}

func (b *stubBackend) Preflight(context.Context) preflight.Report { return b.report }

func (b *stubBackend) UsageReport() map[string]usage.Record { return b.usage }

func newOrchestratorBackend(t *testing.T, adapters ...providers.Adapter) *orchestrator.Orchestrator {
	t.Helper()
	reg, err := providers.NewRegistry(adapters...)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	o, err := orchestrator.New(orchestrator.Components{
		Registry: reg,
		Ledger:   usage.NewLedgerForAdapters(reg.All()),
	}, orchestrator.Config{ProviderTimeout: time.Second})
	if err != nil {
		t.Fatalf("orchestrator.New() error = %v", err)
	}
	return o
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp.Error
}

const validBody = `{"keyword":"espresso machines","target_url":"https://example.com/buy"}`

func TestGenerate(t *testing.T) {
	article := providertest.Article("espresso machines", "https://example.com/buy", "espresso machines", 800)
	o := newOrchestratorBackend(t, providertest.NewFakeAdapter("alpha", 0.5, article))
	h := NewServer(config.Default(), o).Handler()

	rec := do(t, h, http.MethodPost, "/v1/generate", validBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing X-Request-ID")
	}

	var result content.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Provider != "alpha" || result.Source != content.SourceProvider {
		t.Errorf("result provider = %q source = %q", result.Provider, result.Source)
	}
	if !strings.Contains(result.Content, "https://example.com/buy") {
		t.Error("article is missing the target link")
	}
}

func TestGenerate_HTML(t *testing.T) {
	b := &stubBackend{generate: func(context.Context, content.Request) (*content.Result, error) {
		return &content.Result{Content: "# Title\n\nBody with [link](https://example.com)."}, nil
	}}
	h := NewServer(config.Default(), b).Handler()

	rec := do(t, h, http.MethodPost, "/v1/generate?format=html", validBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var result content.Result
	_ = json.NewDecoder(rec.Body).Decode(&result)
	if !strings.Contains(result.Content, "<h1>Title</h1>") || !strings.Contains(result.Content, `<a href="https://example.com">`) {
		t.Errorf("Content = %q, want rendered HTML", result.Content)
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		body      string
		genErr    error
		wantCode  int
		wantType  string
		wantParam string
	}{
		{"empty body", "/v1/generate", "", nil, http.StatusBadRequest, errorTypeInvalidRequest, ""},
		{"malformed json", "/v1/generate", `{"keyword":`, nil, http.StatusBadRequest, errorTypeInvalidRequest, ""},
		{"unknown field", "/v1/generate", `{"keyword":"x","target_url":"https://a.io","colour":"red"}`, nil, http.StatusBadRequest, errorTypeInvalidRequest, ""},
		{"missing keyword", "/v1/generate", `{"target_url":"https://a.io"}`, nil, http.StatusBadRequest, errorTypeInvalidRequest, "keyword"},
		{"bad url", "/v1/generate", `{"keyword":"x","target_url":"ftp://a.io"}`, nil, http.StatusBadRequest, errorTypeInvalidRequest, "target_url"},
		{"bad format", "/v1/generate?format=pdf", validBody, nil, http.StatusBadRequest, errorTypeInvalidRequest, "format"},
		{"too large", "/v1/generate", `{"keyword":"` + strings.Repeat("k", 200) + `"}`, nil, http.StatusRequestEntityTooLarge, errorTypeTooLarge, ""},
		{"rejected", "/v1/generate", validBody, &moderation.RejectedError{Categories: []string{"violence"}}, http.StatusUnprocessableEntity, errorTypeRejected, ""},
		{"deadline", "/v1/generate", validBody, context.DeadlineExceeded, http.StatusGatewayTimeout, errorTypeTimeout, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &stubBackend{generate: func(context.Context, content.Request) (*content.Result, error) {
				if tt.genErr != nil {
					return nil, tt.genErr
				}
				return &content.Result{}, nil
			}}
			cfg := config.Default()
			cfg.Server.MaxBodyBytes = 128

			rec := do(t, NewServer(cfg, b).Handler(), http.MethodPost, tt.target, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			detail := decodeError(t, rec)
			if detail.Type != tt.wantType {
				t.Errorf("type = %q, want %q", detail.Type, tt.wantType)
			}
			if detail.Param != tt.wantParam {
				t.Errorf("param = %q, want %q", detail.Param, tt.wantParam)
			}
			if tt.wantType == errorTypeRejected && len(detail.Categories) != 1 {
				t.Errorf("categories = %v", detail.Categories)
			}
		})
	}
}

func TestGenerate_MethodNotAllowed(t *testing.T) {
	h := NewServer(config.Default(), &stubBackend{}).Handler()
	if rec := do(t, h, http.MethodGet, "/v1/generate", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("code = %d, want 405", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	b := &stubBackend{usage: map[string]usage.Record{}}
	h := NewServer(config.Default(), b).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/usage", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "client-id-1" {
		t.Errorf("X-Request-ID = %q, want client value", got)
	}

	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); len(got) != 36 {
		t.Errorf("oversized client ID should be replaced with a UUID, got %q", got)
	}
}

func TestRecovery(t *testing.T) {
	b := &stubBackend{generate: func(context.Context, content.Request) (*content.Result, error) {
		panic("boom")
	}}
	rec := do(t, NewServer(config.Default(), b).Handler(), http.MethodPost, "/v1/generate", validBody)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", rec.Code)
	}
	if d := decodeError(t, rec); d.Type != errorTypeServer || strings.Contains(d.Message, "boom") {
		t.Errorf("error = %+v", d)
	}
}

func TestPreflightAndUsage(t *testing.T) {
	b := &stubBackend{
		report: preflight.Report{State: preflight.StateReady, Ready: true, EligibleProviders: []string{"alpha"}},
		usage: map[string]usage.Record{
			"alpha": {Provider: "alpha", DailyTokens: 1000, DailyCost: 0.002},
			"beta":  {Provider: "beta", DailyTokens: 500, DailyCost: 0.001},
		},
	}
	h := NewServer(config.Default(), b).Handler()

	rec := do(t, h, http.MethodGet, "/v1/preflight", "")
	var report preflight.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil || !report.Ready {
		t.Errorf("preflight = %+v (err %v)", report, err)
	}

	rec = do(t, h, http.MethodGet, "/v1/usage", "")
	var u UsageResponse
	if err := json.NewDecoder(rec.Body).Decode(&u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(u.Providers) != 2 || u.Providers["alpha"].DailyTokens != 1000 {
		t.Errorf("usage = %+v", u)
	}
	if u.DailyCost < 0.0029 || u.DailyCost > 0.0031 {
		t.Errorf("DailyCost = %v, want 0.003", u.DailyCost)
	}
}

func TestTelemetryEndpoints(t *testing.T) {
	cfg := config.Default()
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
	collector.RecordModeration("allowed")

	checker := health.New(time.Second, "test")
	checker.RegisterCheck("providers", func(context.Context) error { return nil })

	h := NewServer(cfg, &stubBackend{}, WithHealth(checker), WithMetrics(collector)).Handler()

	tests := []struct {
		path     string
		wantCode int
		contains string
	}{
		{cfg.Telemetry.Health.LivenessPath, http.StatusOK, `"status":"ok"`},
		{cfg.Telemetry.Health.ReadinessPath, http.StatusOK, `"providers"`},
		{cfg.Telemetry.Metrics.Path, http.StatusOK, "scribe_moderation_decisions_total"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body missing %q:\n%s", tt.contains, rec.Body.String())
			}
		})
	}
}

func TestStartStop(t *testing.T) {
	cfg := config.Default()
	cfg.Server.ListenAddress = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = time.Second
	s := NewServer(cfg, &stubBackend{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	deadline := time.Now().Add(time.Second)
	for !s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !s.IsRunning() {
		t.Fatal("server did not start")
	}

	s.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	if s.IsRunning() {
		t.Error("IsRunning() after stop")
	}
	s.Stop()
}
