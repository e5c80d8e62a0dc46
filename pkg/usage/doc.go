// Package usage implements the per-provider usage ledger.
//
// The Ledger is the only mutable state shared between concurrent
// generation requests. It answers one question, IsEligible, and is fed by
// RecordSuccess and RecordFailure after each dispatch round completes.
//
// # Eligibility
//
// A provider is eligible when all of the following hold:
//
//   - it is configured (credentials present)
//   - it has not failed authentication during this process lifetime
//   - it has not reported exhausted quota during the current UTC day
//   - its daily token usage is below its quota (zero quota means unlimited)
//   - its consecutive failure count is below the threshold (default 3)
//
// The daily window is derived from the UTC date of the injected clock on
// every call. When the date changes, daily counters, the failure streak and
// any quota block are cleared. There are no background timers.
//
// # Persistence
//
// A Store keeps daily counters across restarts. MemoryStore, SQLiteStore
// and RedisStore are provided; RetentionScheduler prunes old days on a cron
// schedule.
package usage
