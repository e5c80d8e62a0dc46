package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestProgress(buf *bytes.Buffer) *SimpleProgress {
	p := NewProgressReporter(buf)
	t0 := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	calls := 0
	p.now = func() time.Time {
		calls++
		return t0.Add(time.Duration(calls) * time.Second)
	}
	return p
}

func TestSimpleProgress(t *testing.T) {
	var buf bytes.Buffer
	p := newTestProgress(&buf)

	p.Start(4)
	p.Advance(false, false)
	p.Advance(true, false)
	p.Advance(false, true)
	p.Advance(false, false)
	p.Finish()

	out := buf.String()
	for _, want := range []string{"Generating:", "4/4", "(1 fallback, 1 failed)", "3 generated, 1 fallback, 1 failed in 1s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSimpleProgressZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	p := newTestProgress(&buf)
	p.Start(0)
	p.Advance(false, false)
	if strings.Contains(buf.String(), "Generating:") {
		t.Error("zero total should not render a bar")
	}
}

func TestSimpleProgressConcurrent(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)
	p.Start(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				p.Advance(j%3 == 0, false)
			}
		}()
	}
	wg.Wait()
	p.Finish()

	if !strings.Contains(buf.String(), "100/100") {
		t.Error("expected the bar to reach 100/100")
	}
	if p.fallback != 40 {
		t.Errorf("fallback = %d, want 40", p.fallback)
	}
}

func TestNewProgressReporterNilWriter(t *testing.T) {
	if p := NewProgressReporter(nil); p.writer == nil {
		t.Error("nil writer should default to stderr")
	}
}
