// Package controller runs the agent's control loop.
//
// The [Controller] is the only scheduler in the program. Each iteration it
// waits for either a user [Command] or the tick interval, whichever comes
// first. Commands change the [Mode] or stop the loop; ticks publish the raid
// clock when the current mode allows it. All mode and detector state lives
// on the goroutine that calls [Controller.Run].
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tools.zach/dev/tarkovtime/internal/clock"
	"tools.zach/dev/tarkovtime/internal/detector"
	"tools.zach/dev/tarkovtime/internal/logger"
)

// DefaultTick is the interval between publish decisions.
const DefaultTick = time.Second

// ErrStopped is returned by [Controller.Submit] once the loop has exited.
var ErrStopped = errors.New("controller stopped")

// ///////////////////////////////////////////////
// Collaborators
// ///////////////////////////////////////////////

// Detector reports whether the game is running.
type Detector interface {
	Present(ctx context.Context) bool
}

// Publisher delivers clock readouts to the engine.
type Publisher interface {
	Publish(ctx context.Context, t clock.Time) error
	Teardown(ctx context.Context) error
	Relocate(ctx context.Context, address string) error
}

// View shows the active mode to the user.
type View interface {
	SetMode(m Mode)
}

// TeardownError reports that the game could not be removed from the engine
// on quit. The engine drops the game on its own once its deinitialize timer
// expires.
type TeardownError struct {
	Err error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("remove game from engine: %v", e.Err)
}

func (e *TeardownError) Unwrap() error { return e.Err }

// ///////////////////////////////////////////////
// Controller
// ///////////////////////////////////////////////

// Options configures a [Controller]. Detector and Publisher are required.
type Options struct {
	Detector  Detector
	Publisher Publisher
	// View is notified after every mode change. Optional.
	View View
	// Tick defaults to [DefaultTick].
	Tick time.Duration
	// InitialMode defaults to [ModeGameDetection].
	InitialMode Mode
	// Relocations delivers new engine addresses. Optional.
	Relocations <-chan string
	// Clock defaults to [clock.Now].
	Clock func() clock.Time
	// After defaults to [time.After]; tests substitute a manual ticker.
	After func(time.Duration) <-chan time.Time
}

// Controller owns the current mode and decides, each tick, whether to
// publish.
type Controller struct {
	detector    Detector
	publisher   Publisher
	view        View
	tick        time.Duration
	relocations <-chan string
	now         func() clock.Time
	after       func(time.Duration) <-chan time.Time

	// commands holds at most one undelivered command.
	commands chan Command
	// done is closed when Run returns.
	done chan struct{}

	mode Mode
}

// New creates a Controller.
func New(opts Options) *Controller {
	c := &Controller{
		detector:    opts.Detector,
		publisher:   opts.Publisher,
		view:        opts.View,
		tick:        opts.Tick,
		relocations: opts.Relocations,
		now:         opts.Clock,
		after:       opts.After,
		commands:    make(chan Command, 1),
		done:        make(chan struct{}),
		mode:        opts.InitialMode,
	}
	if c.tick <= 0 {
		c.tick = DefaultTick
	}
	if c.now == nil {
		c.now = clock.Now
	}
	if c.after == nil {
		c.after = time.After
	}
	if c.view == nil {
		c.view = nopView{}
	}
	return c
}

// Submit hands a command to the control loop. It blocks while a previous
// command is still undelivered, until ctx ends, or until the loop exits.
// Safe to call from any goroutine.
func (c *Controller) Submit(ctx context.Context, cmd Command) error {
	select {
	case <-c.done:
		return ErrStopped
	default:
	}
	select {
	case c.commands <- cmd:
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run has returned.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Run executes the control loop until a quit command arrives or ctx is
// cancelled. Cancelling ctx behaves like [CmdQuit]. A failed teardown is
// returned as a [*TeardownError].
//
// Network calls made by the loop are not cancelled when ctx ends; an
// in-flight request is allowed to finish.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	callCtx := context.WithoutCancel(ctx)

	slog.Info("control loop started", "mode", c.mode, "tick", c.tick)
	c.view.SetMode(c.mode)

	for {
		// A queued command is handled before the timer is considered, and
		// that iteration publishes nothing.
		select {
		case cmd := <-c.commands:
			if stop, err := c.handle(callCtx, cmd); stop {
				return err
			}
			continue
		default:
		}

		select {
		case <-ctx.Done():
			slog.Info("control loop cancelled")
			return nil
		case cmd := <-c.commands:
			if stop, err := c.handle(callCtx, cmd); stop {
				return err
			}
		case addr := <-c.relocations:
			c.relocate(callCtx, addr)
		case <-c.after(c.tick):
			// A command that became ready alongside the timer still wins.
			select {
			case cmd := <-c.commands:
				if stop, err := c.handle(callCtx, cmd); stop {
					return err
				}
				continue
			default:
			}
			c.onTick(callCtx)
		}
	}
}

// handle applies one command. It reports whether the loop must stop and,
// if so, the error to return.
func (c *Controller) handle(ctx context.Context, cmd Command) (bool, error) {
	switch cmd {
	case CmdQuit:
		slog.Info("quit requested")
		return true, nil
	case CmdQuitWithTeardown:
		slog.Info("quit with teardown requested")
		if err := c.publisher.Teardown(ctx); err != nil {
			return true, &TeardownError{Err: err}
		}
		slog.Info("game removed from engine")
		return true, nil
	}

	m, ok := cmd.target()
	if !ok {
		slog.Warn("ignoring unknown command", "command", cmd)
		return false, nil
	}
	if m != c.mode {
		slog.Info("mode changed", "from", c.mode, "to", m)
	}
	c.mode = m
	c.view.SetMode(m)
	return false, nil
}

// onTick publishes the clock if the current mode allows it.
func (c *Controller) onTick(ctx context.Context) {
	switch c.mode {
	case ModeDisabled:
		return
	case ModeGameDetection:
		if !c.detector.Present(ctx) {
			logger.Trace(slog.Default(), "game not running, skipping publish", c.detectorState()...)
			return
		}
	}

	t := c.now()
	if err := c.publisher.Publish(ctx, t); err != nil {
		slog.Warn("failed to publish clock", "error", err)
		return
	}
	logger.Trace(slog.Default(), "clock published", "left", t.Left, "right", t.Right)
}

// detectorState returns log attributes describing the cached scan, when the
// detector exposes one.
func (c *Controller) detectorState() []any {
	s, ok := c.detector.(interface{ State() detector.State })
	if !ok {
		return nil
	}
	st := s.State()
	return []any{"last_checked", st.LastChecked.Format(time.RFC3339), "present", st.Present}
}

// relocate re-registers with an engine that moved to a new address.
func (c *Controller) relocate(ctx context.Context, addr string) {
	if err := c.publisher.Relocate(ctx, addr); err != nil {
		slog.Warn("failed to register with relocated engine", "address", addr, "error", err)
	}
}

// nopView is used when no View is configured.
type nopView struct{}

func (nopView) SetMode(Mode) {}
