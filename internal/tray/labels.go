package tray

import "tools.zach/dev/tarkovtime/internal/controller"

// Menu item titles. The active mode is shown wrapped in asterisks.
const (
	labelGameDetection = "Game Detection"
	labelEnable        = "Enable"
	labelDisable       = "Disable"
	labelQuitRemove    = "Quit and Remove"
	labelQuit          = "Quit"
)

// ModeLabels are the titles of the three mode items, in menu order.
type ModeLabels struct {
	GameDetection string
	Enable        string
	Disable       string
}

// Labels returns the mode item titles with the active mode marked.
func Labels(m controller.Mode) ModeLabels {
	l := ModeLabels{
		GameDetection: labelGameDetection,
		Enable:        labelEnable,
		Disable:       labelDisable,
	}
	switch m {
	case controller.ModeGameDetection:
		l.GameDetection = mark(l.GameDetection)
	case controller.ModeEnabled:
		l.Enable = mark(l.Enable)
	case controller.ModeDisabled:
		l.Disable = mark(l.Disable)
	}
	return l
}

func mark(s string) string { return "* " + s + " *" }
