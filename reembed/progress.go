package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports migration progress to a writer at a fixed
// item interval. Safe for concurrent use.
type ProgressTracker struct {
	mu         sync.Mutex
	writer     io.Writer
	total      int
	current    int
	nextReport int
	interval   int
	startTime  time.Time
	started    bool
}

// NewProgressTracker creates a tracker over total items that reports
// every reportInterval items. Output typically goes to os.Stderr.
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	return &ProgressTracker{
		writer:   writer,
		total:    total,
		interval: reportInterval,
	}
}

// Start resets the tracker and begins timing.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.current = 0
	p.nextReport = p.interval
}

// Update sets absolute progress. Values beyond total are clamped.
func (p *ProgressTracker) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance(current)
}

// Increment adds delta to the current progress.
func (p *ProgressTracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance(p.current + delta)
}

// Finish forces progress to total, reports, and terminates the line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time since Start. Zero before Start.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// advance moves progress forward and reports when the interval
// threshold is crossed. Caller holds the lock.
func (p *ProgressTracker) advance(current int) {
	if !p.started {
		return
	}
	if current > p.total {
		current = p.total
	}
	p.current = current

	if p.current >= p.nextReport {
		p.report()
		p.nextReport = p.current + p.interval
	}
}

// report writes one progress line. Caller holds the lock.
func (p *ProgressTracker) report() {
	percentage := 100.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}
	rate := float64(p.current) / time.Since(p.startTime).Seconds()

	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f items/s",
		p.current, p.total, percentage, rate)
}
