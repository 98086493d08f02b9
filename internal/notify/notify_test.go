package notify

import (
	"errors"
	"testing"
)

func stubAlert(t *testing.T, err error) *[]string {
	t.Helper()
	var calls []string
	orig := alert
	alert = func(title, message string, _ any) error {
		calls = append(calls, title+"|"+message)
		return err
	}
	t.Cleanup(func() { alert = orig })
	return &calls
}

func TestAlert(t *testing.T) {
	calls := stubAlert(t, nil)
	Alert("Startup failed", "engine not running")

	if len(*calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(*calls))
	}
	if got := (*calls)[0]; got != "Tarkov Time: Startup failed|engine not running" {
		t.Errorf("alert = %q", got)
	}
}

func TestAlert_EmptyTitle(t *testing.T) {
	calls := stubAlert(t, nil)
	Alert("", "msg")
	if got := (*calls)[0]; got != "Tarkov Time|msg" {
		t.Errorf("alert = %q", got)
	}
}

func TestAlert_ErrorIgnored(t *testing.T) {
	calls := stubAlert(t, errors.New("no notification daemon"))
	Alert("x", "y")
	if len(*calls) != 1 {
		t.Errorf("calls = %d, want 1", len(*calls))
	}
}
