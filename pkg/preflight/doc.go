// Package preflight checks, before a generation, whether any provider can
// serve it.
//
// A run moves Init → CheckingProviders → Scored → Ready | Blocked. The
// probe batch calls TestConnection on every configured provider in
// parallel, each under its own timeout, then consults the usage ledger
// for quota. Ready means at least one provider answered and has quota
// left. Blocked tells the orchestrator it may skip dispatch and go
// straight to the fallback article.
package preflight
