package orchestrator

import (
	"context"
	"testing"
	"time"

	"mercator-hq/scribe/internal/providertest"
	"mercator-hq/scribe/pkg/providers"
	"mercator-hq/scribe/pkg/telemetry/health"
	"mercator-hq/scribe/pkg/usage"
)

func TestRegisterHealthChecks(t *testing.T) {
	alpha := providertest.NewFakeAdapter("alpha", 0.5, "x")
	o := newTestOrchestrator(t, Config{}, Components{Store: usage.NewMemoryStore()}, alpha)

	c := health.New(time.Second, "")
	o.RegisterHealthChecks(c)
	if got := c.Checks(); len(got) != 2 || got[0] != CheckProviders || got[1] != CheckUsageStore {
		t.Fatalf("Checks() = %v", got)
	}

	if r := c.CheckReadiness(context.Background()); r.Status != health.StatusReady {
		t.Errorf("Status = %q, want ready", r.Status)
	}

	o.ledger.RecordFailure("alpha", providers.ClassAuthFailed)
	r := c.CheckReadiness(context.Background())
	if r.Status != health.StatusDegraded {
		t.Fatalf("Status = %q, want degraded", r.Status)
	}
	if r.Checks[CheckProviders].Status != health.StatusFailing {
		t.Errorf("providers check = %+v", r.Checks[CheckProviders])
	}
	if r.Checks[CheckUsageStore].Status != health.StatusOK {
		t.Errorf("usage_store check = %+v", r.Checks[CheckUsageStore])
	}
}

func TestRegisterHealthChecks_NoStore(t *testing.T) {
	o := newTestOrchestrator(t, Config{}, Components{}, providertest.NewFakeAdapter("alpha", 0.5, "x"))
	c := health.New(time.Second, "")
	o.RegisterHealthChecks(c)
	if got := c.Checks(); len(got) != 1 {
		t.Errorf("Checks() = %v, want only providers", got)
	}
}
