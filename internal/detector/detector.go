// Package detector answers whether the game process is currently running.
//
// Enumerating the OS process table is comparatively expensive, so the
// [Detector] only rescans once its interval has elapsed and otherwise
// returns the verdict of the previous scan.
package detector

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the minimum time between two process-table scans.
const DefaultInterval = 10 * time.Second

// ///////////////////////////////////////////////
// Types
// ///////////////////////////////////////////////

// Process is one entry of the OS process table.
type Process struct {
	PID int32
	// Exe is the executable path, or the bare process name when the path
	// is not readable.
	Exe string
}

// Lister enumerates running processes.
type Lister interface {
	Processes(ctx context.Context) ([]Process, error)
}

// State is the detector's cached verdict.
type State struct {
	// LastChecked is when the last scan ran. It only moves when a fresh
	// scan is performed.
	LastChecked time.Time
	// Present is the verdict of the last scan.
	Present bool
}

// Detector is a debounced presence check for one target process.
// It is not safe for concurrent use; the controller goroutine owns it.
type Detector struct {
	lister   Lister
	match    Matcher
	interval time.Duration
	now      func() time.Time
	state    State
}

// Option configures a [Detector].
type Option func(*Detector)

// WithInterval overrides [DefaultInterval].
func WithInterval(d time.Duration) Option {
	return func(det *Detector) { det.interval = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(det *Detector) { det.now = now }
}

// New creates a Detector. The first scan happens once the interval has
// elapsed after construction; until then the verdict is false. A nil match
// matches no process.
func New(lister Lister, match Matcher, opts ...Option) *Detector {
	if match == nil {
		match = func(string) bool { return false }
	}
	d := &Detector{
		lister:   lister,
		match:    match,
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.state.LastChecked = d.now()
	return d
}

// ///////////////////////////////////////////////
// Public API
// ///////////////////////////////////////////////

// Present reports whether the target process is running. It scans the
// process table only when more than the interval has passed since the last
// scan. A failed scan counts as "not present" for that cycle.
func (d *Detector) Present(ctx context.Context) bool {
	now := d.now()
	if now.Sub(d.state.LastChecked) <= d.interval {
		return d.state.Present
	}
	d.state.LastChecked = now
	d.state.Present = d.scan(ctx)
	return d.state.Present
}

// State returns a snapshot of the cached verdict.
func (d *Detector) State() State {
	return d.state
}

// scan enumerates processes once and reports whether any matches.
func (d *Detector) scan(ctx context.Context) bool {
	procs, err := d.lister.Processes(ctx)
	if err != nil {
		slog.Warn("process scan failed, treating target as absent", "error", err)
		return false
	}
	for _, p := range procs {
		if d.match(p.Exe) {
			slog.Debug("target process found", "pid", p.PID, "exe", p.Exe)
			return true
		}
	}
	return false
}
