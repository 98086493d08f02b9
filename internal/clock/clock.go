// Package clock maps real wall-clock time onto the accelerated in-raid
// day/night cycle shown on the keyboard display.
//
// The raid clock runs seven times faster than real time and is shifted by
// three hours. Two readouts are produced, twelve raid-hours apart, matching
// the two times offered on the raid selection screen.
package clock

import "time"

// ///////////////////////////////////////////////
// Constants
// ///////////////////////////////////////////////

const (
	// Ratio is how many raid seconds elapse per real second.
	Ratio = 7
	// Day is the length of one raid day in seconds.
	Day = 24 * 60 * 60
	// ZoneShift is the fixed offset applied to both readouts.
	ZoneShift = 3 * 60 * 60
	// HalfDay separates the right readout from the left one.
	HalfDay = 12 * 60 * 60
)

// Side selects one of the two readouts.
type Side int

const (
	Left Side = iota
	Right
)

// ///////////////////////////////////////////////
// Types
// ///////////////////////////////////////////////

// Time is a pair of "HH:MM:SS" readouts of the raid clock.
type Time struct {
	Left  string
	Right string
}

// ///////////////////////////////////////////////
// Mapping
// ///////////////////////////////////////////////

// Map converts seconds since the Unix epoch into seconds since raid midnight
// for the given side. Arithmetic is unsigned and wraps like uint64.
func Map(unix uint64, side Side) uint64 {
	var offset uint64 = ZoneShift
	if side == Right {
		offset += HalfDay
	}
	return (offset + unix*Ratio) % Day
}

// Format renders seconds since midnight as a 24-hour "HH:MM:SS" string.
func Format(seconds uint64) string {
	return time.Unix(int64(seconds%Day), 0).UTC().Format("15:04:05")
}

// At returns the raid clock for the given instant. Instants before the
// epoch are clamped to the epoch.
func At(t time.Time) Time {
	sec := t.Unix()
	if sec < 0 {
		sec = 0
	}
	unix := uint64(sec)
	return Time{
		Left:  Format(Map(unix, Left)),
		Right: Format(Map(unix, Right)),
	}
}

// Now returns the raid clock for the current system time.
func Now() Time {
	return At(time.Now())
}
