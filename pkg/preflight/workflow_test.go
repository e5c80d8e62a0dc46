package preflight

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"mercator-hq/scribe/internal/providertest"
	"mercator-hq/scribe/pkg/providers"
	"mercator-hq/scribe/pkg/usage"
)

func newChecker(t *testing.T, timeout time.Duration, adapters ...providers.Adapter) (*Checker, *usage.Ledger) {
	t.Helper()
	reg, err := providers.NewRegistry(adapters...)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	ledger := usage.NewLedgerForAdapters(reg.All())
	return New(reg, ledger, timeout), ledger
}

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		adapters     func() []providers.Adapter
		wantState    State
		wantEligible []string
	}{
		{
			name: "one reachable provider",
			adapters: func() []providers.Adapter {
				return []providers.Adapter{
					providertest.NewFakeAdapter("alpha", 0.5, "x"),
					providertest.NewFakeAdapter("beta", 0.5, "x").SetProbeError(&providers.AuthError{Provider: "beta"}),
				}
			},
			wantState:    StateReady,
			wantEligible: []string{"alpha"},
		},
		{
			name: "all probes fail",
			adapters: func() []providers.Adapter {
				return []providers.Adapter{
					providertest.NewFailingAdapter("alpha", 0.5, errors.New("dial tcp: refused")),
				}
			},
			wantState: StateBlocked,
		},
		{
			name: "nothing configured",
			adapters: func() []providers.Adapter {
				return []providers.Adapter{
					providertest.NewFakeAdapter("alpha", 0.5, "x").SetConfigured(false),
				}
			},
			wantState: StateBlocked,
		},
		{
			name: "quota configured and unused",
			adapters: func() []providers.Adapter {
				return []providers.Adapter{
					providertest.NewFakeAdapter("alpha", 0.5, "x").SetQuota(1),
				}
			},
			wantState: StateReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newChecker(t, time.Second, tt.adapters()...)
			r := c.Run(context.Background())

			if r.State != tt.wantState {
				t.Errorf("State = %q, want %q", r.State, tt.wantState)
			}
			if r.Ready != (tt.wantState == StateReady) {
				t.Errorf("Ready = %v", r.Ready)
			}
			if tt.wantEligible != nil && !reflect.DeepEqual(r.EligibleProviders, tt.wantEligible) {
				t.Errorf("EligibleProviders = %v, want %v", r.EligibleProviders, tt.wantEligible)
			}

			wantPath := []State{StateCheckingProviders, StateScored, tt.wantState}
			if len(r.History) != len(wantPath) {
				t.Fatalf("History = %v", r.History)
			}
			from := StateInit
			for i, tr := range r.History {
				if tr.From != from || tr.To != wantPath[i] {
					t.Errorf("transition %d = %s -> %s, want %s -> %s", i, tr.From, tr.To, from, wantPath[i])
				}
				from = tr.To
			}
		})
	}
}

func TestRun_QuotaExhausted(t *testing.T) {
	alpha := providertest.NewFakeAdapter("alpha", 0.5, "x").SetQuota(100)
	c, ledger := newChecker(t, time.Second, alpha)
	ledger.RecordSuccess("alpha", 100, 0)

	r := c.Run(context.Background())
	if r.State != StateBlocked {
		t.Fatalf("State = %q, want blocked", r.State)
	}
	if len(r.Probes) != 1 || !r.Probes[0].Connected || r.Probes[0].HasQuota {
		t.Errorf("probe = %+v, want connected without quota", r.Probes)
	}
}

func TestRun_ProbeTimeout(t *testing.T) {
	slow := providertest.NewFakeAdapter("slow", 0.5, "x").SetDelay(2 * time.Second)
	fast := providertest.NewFakeAdapter("fast", 0.5, "x")
	c, ledger := newChecker(t, 50*time.Millisecond, slow, fast)

	start := time.Now()
	r := c.Run(context.Background())
	if time.Since(start) > time.Second {
		t.Error("slow probe was not cut off")
	}
	if !r.Ready || !reflect.DeepEqual(r.EligibleProviders, []string{"fast"}) {
		t.Errorf("report = %+v", r)
	}
	for _, p := range r.Probes {
		if p.Provider == "slow" && (p.Connected || p.Error == "") {
			t.Errorf("slow probe = %+v, want timeout error", p)
		}
	}

	rec, _ := ledger.Get("fast")
	if rec.LastTested.IsZero() {
		t.Error("MarkTested was not recorded")
	}
}

func TestRun_ConnectedProviderKeepsFailureStreak(t *testing.T) {
	alpha := providertest.NewFakeAdapter("alpha", 0.5, "x")
	c, ledger := newChecker(t, time.Second, alpha)
	for i := 0; i < usage.DefaultFailureThreshold; i++ {
		ledger.RecordFailure("alpha", providers.ClassServerError)
	}

	for i := 0; i < 2; i++ {
		r := c.Run(context.Background())
		if r.State != StateBlocked || len(r.EligibleProviders) != 0 {
			t.Fatalf("run %d: State = %q, eligible = %v; want blocked with none", i+1, r.State, r.EligibleProviders)
		}
		if !r.Probes[0].Connected || r.Probes[0].Eligible {
			t.Errorf("run %d: result = %+v, want connected but not eligible", i+1, r.Probes[0])
		}
	}
	if ledger.IsEligible("alpha") {
		t.Error("preflight restored eligibility without a RecordSuccess")
	}
	if rec, _ := ledger.Get("alpha"); rec.ConsecutiveFailures != usage.DefaultFailureThreshold {
		t.Errorf("ConsecutiveFailures = %d, want %d", rec.ConsecutiveFailures, usage.DefaultFailureThreshold)
	}
}

func TestMachine(t *testing.T) {
	m := newMachine(time.Now)
	if err := m.to(StateReady); err == nil {
		t.Error("Init -> Ready should be rejected")
	}
	for _, s := range []State{StateCheckingProviders, StateScored, StateBlocked} {
		if err := m.to(s); err != nil {
			t.Fatalf("to(%s) error = %v", s, err)
		}
	}
	if !m.state.Terminal() {
		t.Error("Blocked should be terminal")
	}
	if err := m.to(StateReady); err == nil {
		t.Error("transition out of a terminal state should be rejected")
	}
}
