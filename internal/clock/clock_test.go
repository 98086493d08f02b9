package clock

import (
	"regexp"
	"testing"
	"time"
)

var hhmmss = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`)

// ///////////////////////////////////////////////
// Map
// ///////////////////////////////////////////////

func TestMap_Epoch(t *testing.T) {
	if got := Map(0, Left); got != 3*3600 {
		t.Errorf("Map(0, Left) = %d, want %d", got, 3*3600)
	}
	if got := Map(0, Right); got != 15*3600 {
		t.Errorf("Map(0, Right) = %d, want %d", got, 15*3600)
	}
}

func TestMap_AlwaysWithinDay(t *testing.T) {
	for _, unix := range []uint64{0, 1, 59, 86399, 86400, 1_700_000_000, 1<<63 + 12345, ^uint64(0)} {
		for _, side := range []Side{Left, Right} {
			if got := Map(unix, side); got >= Day {
				t.Errorf("Map(%d, %d) = %d, want < %d", unix, side, got, Day)
			}
		}
	}
}

func TestMap_SidesTwelveHoursApart(t *testing.T) {
	for unix := uint64(0); unix < 200_000; unix += 997 {
		l := Map(unix, Left)
		r := Map(unix, Right)
		if (l+HalfDay)%Day != r {
			t.Fatalf("unix=%d: left=%d right=%d, want right = left+12h mod 24h", unix, l, r)
		}
	}
}

func TestMap_SevenfoldSpeed(t *testing.T) {
	// One real hour advances the raid clock by seven hours.
	a := Map(1000, Left)
	b := Map(1000+3600, Left)
	if (a+7*3600)%Day != b {
		t.Errorf("Map after one hour = %d, want %d", b, (a+7*3600)%Day)
	}
}

// ///////////////////////////////////////////////
// Format / At
// ///////////////////////////////////////////////

func TestFormat(t *testing.T) {
	tests := []struct {
		seconds uint64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{3600 + 61, "01:01:01"},
		{Day - 1, "23:59:59"},
	}
	for _, tt := range tests {
		if got := Format(tt.seconds); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestAt_Epoch(t *testing.T) {
	got := At(time.Unix(0, 0))
	if got.Left != "03:00:00" || got.Right != "15:00:00" {
		t.Errorf("At(epoch) = %+v, want {03:00:00 15:00:00}", got)
	}
}

func TestAt_KnownInstant(t *testing.T) {
	// 1000 real seconds -> 7000 raid seconds = 01:56:40, plus 3h / 15h.
	got := At(time.Unix(1000, 0))
	if got.Left != "04:56:40" {
		t.Errorf("Left = %q, want 04:56:40", got.Left)
	}
	if got.Right != "16:56:40" {
		t.Errorf("Right = %q, want 16:56:40", got.Right)
	}
}

func TestAt_Deterministic(t *testing.T) {
	ts := time.Unix(1_712_345_678, 999_000_000)
	a := At(ts)
	b := At(ts)
	if a != b {
		t.Errorf("At not deterministic: %+v vs %+v", a, b)
	}
}

func TestAt_ValidFormat(t *testing.T) {
	for sec := int64(0); sec < 100_000; sec += 4093 {
		got := At(time.Unix(sec, 0))
		if !hhmmss.MatchString(got.Left) || !hhmmss.MatchString(got.Right) {
			t.Fatalf("At(%d) = %+v, want HH:MM:SS strings", sec, got)
		}
	}
}

func TestAt_BeforeEpochClamps(t *testing.T) {
	if got := At(time.Unix(-50, 0)); got != At(time.Unix(0, 0)) {
		t.Errorf("At(-50) = %+v, want epoch readout", got)
	}
}
