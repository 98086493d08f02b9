// Package notify raises desktop alerts for failures the user must see even
// when the agent has no console.
package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// AppName is used as the alert title prefix.
const AppName = "Tarkov Time"

// alert is replaced in tests.
var alert = beeep.Alert

// Alert shows a desktop alert. A failure to show it is logged and otherwise
// ignored.
func Alert(title, message string) {
	full := AppName
	if title != "" {
		full += ": " + title
	}
	if err := alert(full, message, ""); err != nil {
		slog.Warn("desktop alert failed", "title", full, "error", err)
	}
}
