package usage

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"mercator-hq/scribe/pkg/providers"
)

// DefaultFailureThreshold is the number of consecutive failures after
// which a provider stops being eligible.
const DefaultFailureThreshold = 3

// Disabled reasons reported in Record.DisabledReason.
const (
	ReasonUnconfigured   = "unconfigured"
	ReasonAuthFailed     = "auth_failed"
	ReasonQuotaExhausted = "quota_exhausted"
	ReasonDailyQuota     = "daily_token_quota"
	ReasonFailureStreak  = "failure_threshold"
	ReasonUnknown        = "unknown_provider"
)

// Account is the static part of a ledger entry.
type Account struct {
	Name            string
	Configured      bool
	DailyTokenQuota int64
}

// AccountOf derives the ledger account of an adapter.
func AccountOf(a providers.Adapter) Account {
	return Account{
		Name:            a.Name(),
		Configured:      a.Configured(),
		DailyTokenQuota: a.Descriptor().DailyTokenQuota,
	}
}

// Record is a point-in-time copy of one provider's usage.
type Record struct {
	Provider            string               `json:"provider"`
	Configured          bool                 `json:"configured"`
	Eligible            bool                 `json:"eligible"`
	DisabledReason      string               `json:"disabled_reason,omitempty"`
	Day                 string               `json:"day"`
	DailyTokens         int64                `json:"daily_tokens"`
	DailyCost           float64              `json:"daily_cost"`
	DailyTokenQuota     int64                `json:"daily_token_quota"`
	TotalTokens         int64                `json:"total_tokens"`
	TotalCost           float64              `json:"total_cost"`
	TotalRequests       int64                `json:"total_requests"`
	FailedRequests      int64                `json:"failed_requests"`
	ConsecutiveFailures int                  `json:"consecutive_failures"`
	LastErrorClass      providers.ErrorClass `json:"last_error_class,omitempty"`
	LastSuccess         time.Time            `json:"last_success,omitempty"`
	LastFailure         time.Time            `json:"last_failure,omitempty"`
	LastTested          time.Time            `json:"last_tested,omitempty"`
}

// DailyUsage is the persisted per-day counter pair for one provider.
type DailyUsage struct {
	Tokens int64
	Cost   float64
}

type entry struct {
	mu sync.Mutex

	account      Account
	rec          Record
	authDisabled bool
	quotaDay     string
}

// Ledger tracks per-provider usage and eligibility for the lifetime of the
// process. Each provider has its own lock, so concurrent requests touching
// different providers never contend.
//
// Eligibility is evaluated lazily on every call: the daily window is
// derived from the clock's UTC date, so there are no timers and no stored
// reset deadlines.
type Ledger struct {
	now       func() time.Time
	threshold int
	entries   map[string]*entry
	logger    *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock injects the time source used for daily windows.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithFailureThreshold sets how many consecutive failures disable a provider.
func WithFailureThreshold(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.threshold = n
		}
	}
}

// WithLogger sets the ledger logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// NewLedger creates a ledger for a fixed set of accounts.
func NewLedger(accounts []Account, opts ...Option) *Ledger {
	l := &Ledger{
		now:       time.Now,
		threshold: DefaultFailureThreshold,
		entries:   make(map[string]*entry, len(accounts)),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	day := l.today()
	for _, a := range accounts {
		l.entries[a.Name] = &entry{
			account: a,
			rec: Record{
				Provider:        a.Name,
				Configured:      a.Configured,
				DailyTokenQuota: a.DailyTokenQuota,
				Day:             day,
			},
		}
	}
	return l
}

// NewLedgerForAdapters creates a ledger covering every adapter.
func NewLedgerForAdapters(adapters []providers.Adapter, opts ...Option) *Ledger {
	accounts := make([]Account, len(adapters))
	for i, a := range adapters {
		accounts[i] = AccountOf(a)
	}
	return NewLedger(accounts, opts...)
}

// Threshold returns the consecutive failure threshold.
func (l *Ledger) Threshold() int {
	return l.threshold
}

// Day returns the current UTC day key (YYYY-MM-DD).
func (l *Ledger) Day() string {
	return l.today()
}

func (l *Ledger) today() string {
	return DayKey(l.now())
}

// DayKey formats t as a UTC day key.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// rollover resets the daily window when the UTC date changed.
// Must be called with e.mu held.
func (e *entry) rollover(day string) {
	if e.rec.Day == day {
		return
	}
	e.rec.Day = day
	e.rec.DailyTokens = 0
	e.rec.DailyCost = 0
	e.rec.ConsecutiveFailures = 0
	e.quotaDay = ""
}

// reason returns why the entry is ineligible, or "" if it is eligible.
// Must be called with e.mu held after rollover.
func (e *entry) reason(threshold int) string {
	switch {
	case !e.account.Configured:
		return ReasonUnconfigured
	case e.authDisabled:
		return ReasonAuthFailed
	case e.quotaDay != "" && e.quotaDay == e.rec.Day:
		return ReasonQuotaExhausted
	case e.account.DailyTokenQuota > 0 && e.rec.DailyTokens >= e.account.DailyTokenQuota:
		return ReasonDailyQuota
	case e.rec.ConsecutiveFailures >= threshold:
		return ReasonFailureStreak
	default:
		return ""
	}
}

// IsEligible reports whether the provider may be dispatched to now.
// Unknown providers are never eligible.
func (l *Ledger) IsEligible(name string) bool {
	e, ok := l.entries[name]
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover(l.today())
	return e.reason(l.threshold) == ""
}

// HasQuota reports whether the provider has daily quota left and is not
// blocked by an exhausted-quota response today.
func (l *Ledger) HasQuota(name string) bool {
	e, ok := l.entries[name]
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover(l.today())
	r := e.reason(l.threshold)
	return r != ReasonQuotaExhausted && r != ReasonDailyQuota
}

// RecordSuccess resets the failure streak and adds usage to the counters.
func (l *Ledger) RecordSuccess(name string, tokens int, cost float64) {
	e, ok := l.entries[name]
	if !ok {
		l.logger.Warn("usage recorded for unknown provider", "provider", name)
		return
	}
	now := l.now()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover(DayKey(now))

	if tokens < 0 {
		tokens = 0
	}
	e.rec.ConsecutiveFailures = 0
	e.rec.TotalRequests++
	e.rec.TotalTokens += int64(tokens)
	e.rec.DailyTokens += int64(tokens)
	e.rec.TotalCost += cost
	e.rec.DailyCost += cost
	e.rec.LastSuccess = now
	e.rec.LastErrorClass = providers.ClassNone
}

// RecordFailure increments the failure streak. AuthFailed disables the
// provider for the process lifetime; QuotaExhausted disables it until the
// next UTC day. Canceled calls are not the provider's fault and are ignored.
func (l *Ledger) RecordFailure(name string, class providers.ErrorClass) {
	if class == providers.ClassCanceled || class == providers.ClassNone {
		return
	}
	e, ok := l.entries[name]
	if !ok {
		l.logger.Warn("failure recorded for unknown provider", "provider", name, "class", class)
		return
	}
	now := l.now()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover(DayKey(now))

	e.rec.ConsecutiveFailures++
	e.rec.TotalRequests++
	e.rec.FailedRequests++
	e.rec.LastFailure = now
	e.rec.LastErrorClass = class

	switch class {
	case providers.ClassAuthFailed:
		if !e.authDisabled {
			l.logger.Error("provider disabled after authentication failure", "provider", name)
		}
		e.authDisabled = true
	case providers.ClassQuotaExhausted:
		if e.quotaDay != e.rec.Day {
			l.logger.Warn("provider quota exhausted for the day", "provider", name, "day", e.rec.Day)
		}
		e.quotaDay = e.rec.Day
	}

	if e.rec.ConsecutiveFailures == l.threshold {
		l.logger.Warn("provider reached failure threshold",
			"provider", name,
			"consecutive_failures", e.rec.ConsecutiveFailures,
			"class", class,
		)
	}
}

// MarkTested records the time of a preflight probe of name. Probes
// never change eligibility: a failure streak ends only with RecordSuccess
// or the UTC day rollover.
func (l *Ledger) MarkTested(name string) {
	e, found := l.entries[name]
	if !found {
		return
	}
	now := l.now()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover(DayKey(now))
	e.rec.LastTested = now
}

// Seed restores persisted daily counters for day. Counters for another
// day are ignored. Seeding adds to what is already recorded.
func (l *Ledger) Seed(day string, usage map[string]DailyUsage) {
	today := l.today()
	if day != today {
		return
	}
	for name, u := range usage {
		e, ok := l.entries[name]
		if !ok {
			continue
		}
		e.mu.Lock()
		e.rollover(today)
		e.rec.DailyTokens += u.Tokens
		e.rec.DailyCost += u.Cost
		e.rec.TotalTokens += u.Tokens
		e.rec.TotalCost += u.Cost
		e.mu.Unlock()
	}
}

// Get returns a copy of one provider's record.
func (l *Ledger) Get(name string) (Record, bool) {
	e, ok := l.entries[name]
	if !ok {
		return Record{}, false
	}
	return l.snapshotEntry(e), true
}

// Snapshot returns a copy of every record keyed by provider name.
func (l *Ledger) Snapshot() map[string]Record {
	out := make(map[string]Record, len(l.entries))
	for name, e := range l.entries {
		out[name] = l.snapshotEntry(e)
	}
	return out
}

// Names returns the tracked provider names in order.
func (l *Ledger) Names() []string {
	names := make([]string, 0, len(l.entries))
	for name := range l.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Ledger) snapshotEntry(e *entry) Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover(l.today())
	rec := e.rec
	rec.DisabledReason = e.reason(l.threshold)
	rec.Eligible = rec.DisabledReason == ""
	return rec
}
