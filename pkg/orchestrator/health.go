package orchestrator

import (
	"context"
	"errors"

	"mercator-hq/scribe/pkg/telemetry/health"
)

// Readiness check names.
const (
	CheckProviders  = "providers"
	CheckUsageStore = "usage_store"
)

var errNoEligible = errors.New("no eligible providers")

// RegisterHealthChecks adds the readiness checks for this orchestrator.
// The usage store check is only registered when a store is configured.
func (o *Orchestrator) RegisterHealthChecks(c *health.Checker) {
	c.RegisterCheck(CheckProviders, func(context.Context) error {
		if len(o.dispatcher.Eligible()) == 0 {
			return errNoEligible
		}
		return nil
	})
	if o.store == nil {
		return
	}
	c.RegisterCheck(CheckUsageStore, func(ctx context.Context) error {
		_, err := o.store.Load(ctx, o.ledger.Day())
		return err
	})
}
