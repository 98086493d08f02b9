package tray

import (
	"testing"

	"tools.zach/dev/tarkovtime/internal/controller"
)

func TestLabels(t *testing.T) {
	tests := []struct {
		mode controller.Mode
		want ModeLabels
	}{
		{controller.ModeGameDetection, ModeLabels{"* Game Detection *", "Enable", "Disable"}},
		{controller.ModeEnabled, ModeLabels{"Game Detection", "* Enable *", "Disable"}},
		{controller.ModeDisabled, ModeLabels{"Game Detection", "Enable", "* Disable *"}},
		{controller.Mode(42), ModeLabels{"Game Detection", "Enable", "Disable"}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := Labels(tt.mode); got != tt.want {
				t.Errorf("Labels(%v) = %+v, want %+v", tt.mode, got, tt.want)
			}
		})
	}
}
