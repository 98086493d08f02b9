// Package tray shows the agent's menu in the system notification area.
//
// Menu clicks are turned into [controller.Command] values and handed to the
// control loop; the loop reports mode changes back through [Tray.SetMode].
// [Run] must be called on the main goroutine.
package tray

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"fyne.io/systray"

	"tools.zach/dev/tarkovtime/internal/controller"
)

// Submitter accepts commands for the control loop.
type Submitter interface {
	Submit(ctx context.Context, cmd controller.Command) error
}

// Tray owns the menu items. Create with [New].
type Tray struct {
	sub     Submitter
	tooltip string
	icon    []byte

	mu            sync.Mutex
	mode          controller.Mode
	gameDetection *systray.MenuItem
	enable        *systray.MenuItem
	disable       *systray.MenuItem
	quitRemove    *systray.MenuItem
	quit          *systray.MenuItem
}

// New prepares a tray. icon is PNG data; it is converted to ICO on Windows.
func New(tooltip string, icon []byte) *Tray {
	return &Tray{tooltip: tooltip, icon: icon}
}

// Run shows the tray and blocks until [Quit] is called. Clicks are handed to
// sub. onReady runs once the menu exists; onExit runs after the tray is torn
// down.
func (t *Tray) Run(sub Submitter, onReady, onExit func()) {
	t.sub = sub
	systray.Run(func() {
		t.build()
		if onReady != nil {
			onReady()
		}
		go t.handleClicks()
	}, onExit)
}

// Quit removes the tray icon and makes [Tray.Run] return.
func Quit() {
	systray.Quit()
}

// SetMode relabels the mode items. Safe to call from any goroutine.
func (t *Tray) SetMode(m controller.Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mode = m
	t.applyLabels()
}

func (t *Tray) build() {
	if icon := t.platformIcon(); icon != nil {
		systray.SetIcon(icon)
	}
	systray.SetTitle("")
	systray.SetTooltip(t.tooltip)

	t.mu.Lock()
	defer t.mu.Unlock()

	l := Labels(t.mode)
	t.gameDetection = systray.AddMenuItem(l.GameDetection, "Publish only while the game is running")
	t.enable = systray.AddMenuItem(l.Enable, "Always publish the raid clock")
	t.disable = systray.AddMenuItem(l.Disable, "Never publish the raid clock")
	systray.AddSeparator()
	t.quitRemove = systray.AddMenuItem(labelQuitRemove, "Remove the clock from the engine and exit")
	t.quit = systray.AddMenuItem(labelQuit, "Exit and leave the engine to time out")
}

// applyLabels must be called with mu held.
func (t *Tray) applyLabels() {
	if t.gameDetection == nil {
		return
	}
	l := Labels(t.mode)
	t.gameDetection.SetTitle(l.GameDetection)
	t.enable.SetTitle(l.Enable)
	t.disable.SetTitle(l.Disable)
}

func (t *Tray) platformIcon() []byte {
	if len(t.icon) == 0 {
		return nil
	}
	if runtime.GOOS != "windows" {
		return t.icon
	}
	ico, err := WrapICO(t.icon)
	if err != nil {
		slog.Warn("tray icon unusable, using default", "error", err)
		return nil
	}
	return ico
}

// handleClicks forwards one command per click until the loop stops.
func (t *Tray) handleClicks() {
	for {
		var cmd controller.Command
		select {
		case <-t.gameDetection.ClickedCh:
			cmd = controller.CmdSetGameDetection
		case <-t.enable.ClickedCh:
			cmd = controller.CmdSetEnabled
		case <-t.disable.ClickedCh:
			cmd = controller.CmdSetDisabled
		case <-t.quitRemove.ClickedCh:
			cmd = controller.CmdQuitWithTeardown
		case <-t.quit.ClickedCh:
			cmd = controller.CmdQuit
		}
		slog.Debug("tray click", "command", cmd)
		if !deliver(t.sub, cmd) {
			return
		}
	}
}

// deliver submits cmd and reports whether the loop can take more commands.
func deliver(sub Submitter, cmd controller.Command) bool {
	err := sub.Submit(context.Background(), cmd)
	switch {
	case err == nil:
		return true
	case errors.Is(err, controller.ErrStopped):
		return false
	default:
		slog.Warn("tray command not delivered", "command", cmd, "error", err)
		return true
	}
}
