package controller

import (
	"fmt"
	"strings"
)

// ///////////////////////////////////////////////
// Mode
// ///////////////////////////////////////////////

// Mode decides whether a tick publishes the clock.
type Mode int

const (
	// ModeGameDetection publishes only while the game process is running.
	ModeGameDetection Mode = iota
	// ModeEnabled publishes on every tick.
	ModeEnabled
	// ModeDisabled never publishes.
	ModeDisabled
)

// String returns the config spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeGameDetection:
		return "game_detection"
	case ModeEnabled:
		return "enabled"
	case ModeDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a config string to a Mode (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "game_detection", "":
		return ModeGameDetection, nil
	case "enabled":
		return ModeEnabled, nil
	case "disabled":
		return ModeDisabled, nil
	default:
		return 0, fmt.Errorf("unknown mode %q: must be game_detection, enabled, or disabled", s)
	}
}

// ///////////////////////////////////////////////
// Command
// ///////////////////////////////////////////////

// Command is a user request handed from the tray to the control loop.
type Command int

const (
	CmdQuit Command = iota + 1
	CmdQuitWithTeardown
	CmdSetEnabled
	CmdSetDisabled
	CmdSetGameDetection
)

func (c Command) String() string {
	switch c {
	case CmdQuit:
		return "quit"
	case CmdQuitWithTeardown:
		return "quit_with_teardown"
	case CmdSetEnabled:
		return "set_enabled"
	case CmdSetDisabled:
		return "set_disabled"
	case CmdSetGameDetection:
		return "set_game_detection"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// target returns the mode a mode-change command selects.
func (c Command) target() (Mode, bool) {
	switch c {
	case CmdSetEnabled:
		return ModeEnabled, true
	case CmdSetDisabled:
		return ModeDisabled, true
	case CmdSetGameDetection:
		return ModeGameDetection, true
	default:
		return 0, false
	}
}
