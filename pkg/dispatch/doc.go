// Package dispatch fans a content request out to every eligible provider
// and joins the outcomes.
//
// Each provider call runs in its own goroutine under its own timeout.
// The batch waits for every call to settle, so a fast failure never cuts
// short a slow success. Outcomes are indexed by provider position, which
// makes the result independent of completion order. The usage ledger is
// written only after the join.
package dispatch
