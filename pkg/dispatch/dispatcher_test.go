package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mercator-hq/scribe/internal/providertest"
	"mercator-hq/scribe/pkg/config"
	"mercator-hq/scribe/pkg/content"
	"mercator-hq/scribe/pkg/prompts"
	"mercator-hq/scribe/pkg/providers"
	"mercator-hq/scribe/pkg/telemetry/metrics"
	"mercator-hq/scribe/pkg/usage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testRequest(t *testing.T) content.Request {
	t.Helper()
	req, err := content.NewRequest(content.Request{
		Keyword:   "solar panels",
		TargetURL: "https://example.com/solar",
	})
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	return req
}

func newDispatcher(t *testing.T, cfg Config, adapters ...providers.Adapter) (*Dispatcher, *usage.Ledger) {
	t.Helper()
	reg, err := providers.NewRegistry(adapters...)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	ledger := usage.NewLedgerForAdapters(reg.All())
	return New(reg, ledger, nil, cfg), ledger
}

func TestDispatch_MixedOutcomes(t *testing.T) {
	req := testRequest(t)
	ok := providertest.NewFakeAdapter("beta", 0.5, "generated text").SetTokens(1000)
	bad := providertest.NewFailingAdapter("alpha", 0.9, &providers.ProviderError{Provider: "alpha", StatusCode: 502, Message: "bad gateway"})

	d, ledger := newDispatcher(t, Config{ProviderTimeout: time.Second}, ok, bad)
	outcomes, err := d.Dispatch(context.Background(), req, prompts.Build(req, 2))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	if outcomes[0].Provider != "alpha" || outcomes[1].Provider != "beta" {
		t.Errorf("outcomes not in name order: %s, %s", outcomes[0].Provider, outcomes[1].Provider)
	}
	if outcomes[0].Success || outcomes[0].ErrorClass != providers.ClassServerError {
		t.Errorf("alpha outcome = %+v, want server_error failure", outcomes[0])
	}
	if !outcomes[1].Success || outcomes[1].Tokens != 1000 {
		t.Errorf("beta outcome = %+v, want success with 1000 tokens", outcomes[1])
	}
	if outcomes[1].Cost != 0.002 {
		t.Errorf("beta cost = %v, want 0.002", outcomes[1].Cost)
	}

	a, _ := ledger.Get("alpha")
	if a.ConsecutiveFailures != 1 {
		t.Errorf("alpha ConsecutiveFailures = %d, want 1", a.ConsecutiveFailures)
	}
	b, _ := ledger.Get("beta")
	if b.DailyTokens != 1000 || b.ConsecutiveFailures != 0 {
		t.Errorf("beta record = %+v", b)
	}
}

func TestDispatch_NoEligible(t *testing.T) {
	req := testRequest(t)
	off := providertest.NewFakeAdapter("alpha", 0.5, "x").SetConfigured(false)

	d, _ := newDispatcher(t, Config{}, off)
	outcomes, err := d.Dispatch(context.Background(), req, prompts.Build(req, 1))
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("err = %v, want ErrAllProvidersFailed", err)
	}
	if outcomes != nil {
		t.Errorf("outcomes = %v, want nil", outcomes)
	}
	if off.Calls() != 0 {
		t.Error("unconfigured adapter was called")
	}
}

func TestDispatch_AllFailed(t *testing.T) {
	req := testRequest(t)
	authErr := &providers.AuthError{Provider: "alpha", Message: "bad key"}
	d, ledger := newDispatcher(t, Config{},
		providertest.NewFailingAdapter("alpha", 0.5, authErr),
		providertest.NewFailingAdapter("beta", 0.5, &providers.QuotaError{Provider: "beta", Message: "insufficient_quota"}),
	)

	outcomes, err := d.Dispatch(context.Background(), req, prompts.Build(req, 2))
	var apf *AllProvidersFailedError
	if !errors.As(err, &apf) {
		t.Fatalf("err = %v, want *AllProvidersFailedError", err)
	}
	if len(apf.AttemptedProviders) != 2 || len(outcomes) != 2 {
		t.Errorf("attempted %v with %d outcomes", apf.AttemptedProviders, len(outcomes))
	}
	if !strings.Contains(err.Error(), "alpha, beta") {
		t.Errorf("Error() = %q", err.Error())
	}
	if ledger.IsEligible("alpha") || ledger.IsEligible("beta") {
		t.Error("auth and quota failures should disable both providers")
	}
	if got := d.Eligible(); len(got) != 0 {
		t.Errorf("Eligible() = %d adapters, want 0", len(got))
	}
}

func TestDispatch_SlowProviderDoesNotBlock(t *testing.T) {
	req := testRequest(t)
	slow := providertest.NewFakeAdapter("slow", 0.5, "late").SetDelay(2 * time.Second)
	fast := providertest.NewFakeAdapter("fast", 0.5, "early")

	d, ledger := newDispatcher(t, Config{ProviderTimeout: 50 * time.Millisecond}, slow, fast)

	start := time.Now()
	outcomes, err := d.Dispatch(context.Background(), req, prompts.Build(req, 2))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Dispatch took %v, slow provider was not cut off", elapsed)
	}

	byName := map[string]providers.Outcome{}
	for _, o := range outcomes {
		byName[o.Provider] = o
	}
	if byName["slow"].ErrorClass != providers.ClassTimeout {
		t.Errorf("slow class = %q, want timeout", byName["slow"].ErrorClass)
	}
	if !byName["fast"].Success {
		t.Error("fast provider should succeed")
	}
	if rec, _ := ledger.Get("slow"); rec.LastErrorClass != providers.ClassTimeout {
		t.Errorf("ledger class = %q, want timeout", rec.LastErrorClass)
	}
}

func TestDispatch_BatchDeadline(t *testing.T) {
	req := testRequest(t)
	slow := providertest.NewFakeAdapter("slow", 0.5, "late").SetDelay(2 * time.Second)
	fast := providertest.NewFakeAdapter("fast", 0.5, "early")

	d, _ := newDispatcher(t, Config{ProviderTimeout: 10 * time.Second, Deadline: 50 * time.Millisecond}, slow, fast)
	outcomes, err := d.Dispatch(context.Background(), req, prompts.Build(req, 2))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if outcomes[1].Provider != "slow" || outcomes[1].ErrorClass != providers.ClassTimeout {
		t.Errorf("slow outcome = %+v, want timeout", outcomes[1])
	}
	if !outcomes[0].Success {
		t.Error("settled outcome should be kept after the deadline")
	}
}

func TestDispatch_PromptRotation(t *testing.T) {
	req := testRequest(t)
	seen := make(map[string]string)
	var adapters []providers.Adapter
	for _, name := range []string{"a", "b", "c"} {
		f := providertest.NewFakeAdapter(name, 0.5, "")
		f.SetRespond(func(p providers.Prompt) (string, error) {
			return p.Style, nil
		})
		adapters = append(adapters, f)
	}

	d, _ := newDispatcher(t, Config{}, adapters...)
	ps := prompts.Build(req, 3)
	outcomes, err := d.Dispatch(context.Background(), req, ps)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	for i, o := range outcomes {
		seen[o.Provider] = o.Text
		if o.Text != ps[i].Style {
			t.Errorf("%s got style %q, want %q", o.Provider, o.Text, ps[i].Style)
		}
	}
	if len(seen) != 3 {
		t.Errorf("seen = %v", seen)
	}
}

func TestDispatch_FailureThreshold(t *testing.T) {
	req := testRequest(t)
	flaky := providertest.NewFailingAdapter("flaky", 0.5, errors.New("connection reset"))
	good := providertest.NewFakeAdapter("good", 0.5, "text")
	d, _ := newDispatcher(t, Config{}, flaky, good)

	for i := 0; i < usage.DefaultFailureThreshold; i++ {
		if _, err := d.Dispatch(context.Background(), req, prompts.Build(req, 2)); err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
	}
	if flaky.Calls() != usage.DefaultFailureThreshold {
		t.Fatalf("flaky calls = %d", flaky.Calls())
	}

	eligible := d.Eligible()
	if len(eligible) != 1 || eligible[0].Name() != "good" {
		t.Errorf("Eligible() after threshold = %v", eligible)
	}
	if _, err := d.Dispatch(context.Background(), req, prompts.Build(req, 1)); err != nil {
		t.Fatal(err)
	}
	if flaky.Calls() != usage.DefaultFailureThreshold {
		t.Error("provider past the failure threshold was dispatched")
	}
}

func TestDispatch_Metrics(t *testing.T) {
	req := testRequest(t)
	reg, _ := providers.NewRegistry(
		providertest.NewFakeAdapter("alpha", 0.5, "ok").SetTokens(500),
		providertest.NewFailingAdapter("beta", 0.5, &providers.RateLimitError{Provider: "beta"}),
	)
	cfg := config.Default().Telemetry.Metrics
	collector := metrics.NewCollector(&cfg, prometheus.NewRegistry())

	d := New(reg, usage.NewLedgerForAdapters(reg.All()), nil, Config{}, WithMetrics(collector))
	if _, err := d.Dispatch(context.Background(), req, prompts.Build(req, 2)); err != nil {
		t.Fatal(err)
	}

	n, err := testutil.GatherAndCount(collector.Registry(), "scribe_provider_requests_total")
	if err != nil || n != 2 {
		t.Errorf("request series = %d (err %v), want 2", n, err)
	}
	n, err = testutil.GatherAndCount(collector.Registry(), "scribe_provider_errors_total")
	if err != nil || n != 1 {
		t.Errorf("error series = %d (err %v), want 1", n, err)
	}
}
