package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports progress through a batch of generations.
type ProgressReporter interface {
	Start(total int)
	// Advance records one finished item. fallback marks an article that
	// came from the offline synthesizer; failed marks a rejected request.
	Advance(fallback, failed bool)
	Finish()
}

// SimpleProgress renders a single-line progress bar.
type SimpleProgress struct {
	mu       sync.Mutex
	total    int
	done     int
	fallback int
	failed   int
	started  time.Time
	writer   io.Writer
	now      func() time.Time
}

// NewProgressReporter creates a reporter that writes to w.
// If w is nil, it defaults to os.Stderr so stdout stays machine readable.
func NewProgressReporter(w io.Writer) *SimpleProgress {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{writer: w, now: time.Now}
}

// Start resets the reporter for total items.
func (p *SimpleProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.done, p.fallback, p.failed = 0, 0, 0
	p.started = p.now()
	p.render()
}

// Advance records one finished item.
func (p *SimpleProgress) Advance(fallback, failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	if fallback {
		p.fallback++
	}
	if failed {
		p.failed++
	}
	p.render()
}

// Finish ends the progress line with a summary.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.render()
	fmt.Fprintf(p.writer, "\n%d generated, %d fallback, %d failed in %s\n",
		p.done-p.failed, p.fallback, p.failed, p.now().Sub(p.started).Round(time.Millisecond))
}

func (p *SimpleProgress) render() {
	if p.total <= 0 {
		return
	}

	done := min(p.done, p.total)
	barWidth := 30
	filled := barWidth * done / p.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Fprintf(p.writer, "\rGenerating: [%s] %d/%d", bar, done, p.total)
	if p.fallback > 0 || p.failed > 0 {
		fmt.Fprintf(p.writer, " (%d fallback, %d failed)", p.fallback, p.failed)
	}
}
