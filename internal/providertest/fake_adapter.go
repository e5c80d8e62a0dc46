// Package providertest contains fake adapters and a mock vendor HTTP
// server for tests.
package providertest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mercator-hq/scribe/pkg/providers"
)

// FakeAdapter is a programmable providers.Adapter.
type FakeAdapter struct {
	desc providers.Descriptor

	mu         sync.Mutex
	configured bool
	text       string
	respond    func(prompt providers.Prompt) (string, error)
	err        error
	probeErr   error
	delay      time.Duration
	tokens     int

	calls  atomic.Int64
	probes atomic.Int64
}

// NewFakeAdapter creates a configured fake that answers with text.
func NewFakeAdapter(name string, weight float64, text string) *FakeAdapter {
	return &FakeAdapter{
		desc: providers.Descriptor{
			Name:            name,
			Type:            providers.TypeGeneric,
			Model:           "fake-model",
			Weight:          weight,
			CostPer1KTokens: 0.002,
		},
		configured: true,
		text:       text,
	}
}

// NewFailingAdapter creates a configured fake that always fails with err.
func NewFailingAdapter(name string, weight float64, err error) *FakeAdapter {
	f := NewFakeAdapter(name, weight, "")
	f.err = err
	f.probeErr = err
	return f
}

// SetConfigured changes the reported credential state.
func (f *FakeAdapter) SetConfigured(ok bool) *FakeAdapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configured = ok
	return f
}

// SetDelay makes every call wait d (or until the context ends).
func (f *FakeAdapter) SetDelay(d time.Duration) *FakeAdapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
	return f
}

// SetError makes Complete fail with err. A nil err restores success.
func (f *FakeAdapter) SetError(err error) *FakeAdapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
	return f
}

// SetProbeError makes TestConnection fail with err.
func (f *FakeAdapter) SetProbeError(err error) *FakeAdapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeErr = err
	return f
}

// SetTokens makes Complete report a fixed token usage.
func (f *FakeAdapter) SetTokens(n int) *FakeAdapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = n
	return f
}

// SetQuota sets the descriptor's daily token quota.
func (f *FakeAdapter) SetQuota(n int64) *FakeAdapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.desc.DailyTokenQuota = n
	return f
}

// SetRespond installs a function computing the reply from the prompt.
func (f *FakeAdapter) SetRespond(fn func(prompt providers.Prompt) (string, error)) *FakeAdapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.respond = fn
	return f
}

// Calls returns the number of Complete invocations.
func (f *FakeAdapter) Calls() int {
	return int(f.calls.Load())
}

// Probes returns the number of TestConnection invocations.
func (f *FakeAdapter) Probes() int {
	return int(f.probes.Load())
}

// Name implements providers.Adapter.
func (f *FakeAdapter) Name() string {
	return f.desc.Name
}

// Descriptor implements providers.Adapter.
func (f *FakeAdapter) Descriptor() providers.Descriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.desc
}

// Configured implements providers.Adapter.
func (f *FakeAdapter) Configured() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configured
}

// TestConnection implements providers.Adapter.
func (f *FakeAdapter) TestConnection(ctx context.Context) error {
	f.probes.Add(1)
	f.mu.Lock()
	delay, err := f.delay, f.probeErr
	f.mu.Unlock()
	if err := wait(ctx, delay); err != nil {
		return err
	}
	return err
}

// Complete implements providers.Adapter.
func (f *FakeAdapter) Complete(ctx context.Context, prompt providers.Prompt, _ providers.Options) (*providers.Completion, error) {
	f.calls.Add(1)
	f.mu.Lock()
	delay, err, text, respond, tokens := f.delay, f.err, f.text, f.respond, f.tokens
	f.mu.Unlock()

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if respond != nil {
		if text, err = respond(prompt); err != nil {
			return nil, err
		}
	}
	return &providers.Completion{
		Text:  text,
		Model: "fake-model",
		Usage: providers.TokenUsage{TotalTokens: tokens},
	}, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Article builds a well-formed markdown article of roughly words words
// that mentions keyword and links url with anchor.
func Article(keyword, url, anchor string, words int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# A Guide to %s\n\n", keyword)
	fmt.Fprintf(&b, "This guide explains %s in plain terms. ", keyword)
	fmt.Fprintf(&b, "Read more at [%s](%s) before you start.\n\n", anchor, url)
	b.WriteString("## Key Points\n\n- Plan ahead.\n- Measure results.\n- Iterate often.\n\n")
	b.WriteString("## Details\n\n")
	sentence := fmt.Sprintf("Teams that study %s carefully see steady gains over time. ", keyword)
	for CountWords(b.String()) < words {
		b.WriteString(sentence)
	}
	return b.String()
}

// CountWords counts whitespace separated words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
