package detector

import "testing"

func TestNewMatcher(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		target string
		exe    string
		want   bool
	}{
		{"exact windows path", MatchExact, "EscapeFromTarkov.exe", `C:\Games\EFT\EscapeFromTarkov.exe`, true},
		{"exact unix path", MatchExact, "EscapeFromTarkov.exe", "/opt/wine/EscapeFromTarkov.exe", true},
		{"exact bare name", MatchExact, "EscapeFromTarkov.exe", "EscapeFromTarkov.exe", true},
		{"exact default mode", "", "EscapeFromTarkov.exe", "EscapeFromTarkov.exe", true},
		{"exact is case sensitive", MatchExact, "EscapeFromTarkov.exe", "escapefromtarkov.exe", false},
		{"exact rejects directory hit", MatchExact, "EscapeFromTarkov.exe", `C:\EscapeFromTarkov.exe.bak\launcher.exe`, false},
		{"exact rejects prefix", MatchExact, "EscapeFromTarkov.exe", "EscapeFromTarkov.exe.old", false},
		{"substring legacy hit", MatchSubstring, "EscapeFromTarkov.exe", `C:\EscapeFromTarkov.exe.bak\launcher.exe`, true},
		{"substring miss", MatchSubstring, "EscapeFromTarkov.exe", `C:\Windows\explorer.exe`, false},
		{"glob hit", MatchGlob, "EscapeFromTarkov*.exe", `D:\EFT\EscapeFromTarkov_BE.exe`, true},
		{"glob miss", MatchGlob, "EscapeFromTarkov*.exe", `D:\EFT\BsgLauncher.exe`, false},
		{"empty exe", MatchExact, "EscapeFromTarkov.exe", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.mode, tt.target)
			if err != nil {
				t.Fatalf("NewMatcher: %v", err)
			}
			if got := m(tt.exe); got != tt.want {
				t.Errorf("match(%q) = %v, want %v", tt.exe, got, tt.want)
			}
		})
	}
}

func TestNewMatcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		target string
	}{
		{"empty target", MatchExact, ""},
		{"unknown mode", "regex", "x.exe"},
		{"bad glob", MatchGlob, "[unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMatcher(tt.mode, tt.target); err == nil {
				t.Error("expected error")
			}
		})
	}
}
