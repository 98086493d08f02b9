package gamesense

import "tools.zach/dev/tarkovtime/internal/clock"

// Defaults for the Tarkov clock registration.
const (
	DefaultGameKey         = "TARKOV_TIME"
	DefaultGameDisplayName = "Escape From Tarkov Time"
	DefaultDeveloper       = "marcin212"
	DefaultDeinitTimerMS   = 5000
)

// Event and frame keys shared by the binding and every update.
const (
	EventTime     = "TIME"
	FrameKeyLeft  = "time-left"
	FrameKeyRight = "time-right"
)

const (
	frameKeyTime   = "time"
	clockIconID    = 15
	screenedDevice = "screened"
	screenZone     = "one"
	screenMode     = "screen"
	timeEventValue = 1
)

// Registration is everything sent to the engine at startup.
type Registration struct {
	Metadata GameMetadata
	Binding  BindEventDefinition
}

// Identity holds the user-overridable parts of the registration.
type Identity struct {
	Game                string
	DisplayName         string
	Developer           string
	DeinitializeTimerMS int
}

// DefaultIdentity returns the stock registration identity.
func DefaultIdentity() Identity {
	return Identity{
		Game:                DefaultGameKey,
		DisplayName:         DefaultGameDisplayName,
		Developer:           DefaultDeveloper,
		DeinitializeTimerMS: DefaultDeinitTimerMS,
	}
}

// ClockRegistration builds the metadata and event binding for the raid
// clock: one screen frame with the left and right readouts on two lines.
func ClockRegistration(id Identity) Registration {
	return Registration{
		Metadata: GameMetadata{
			Game:                      id.Game,
			GameDisplayName:           id.DisplayName,
			Developer:                 id.Developer,
			DeinitializeTimerLengthMS: id.DeinitializeTimerMS,
		},
		Binding: BindEventDefinition{
			Game:          id.Game,
			Event:         EventTime,
			IconID:        clockIconID,
			ValueOptional: true,
			Handlers: []ScreenHandler{
				{
					DeviceType: screenedDevice,
					Zone:       screenZone,
					Mode:       screenMode,
					Datas: []ScreenHandlerData{
						{
							IconID: clockIconID,
							Lines: []ScreenHandlerDataLine{
								{HasText: true, ContextFrameKey: FrameKeyLeft},
								{HasText: true, ContextFrameKey: FrameKeyRight},
							},
						},
					},
				},
			},
			DataFields: []DataField{
				{ContextFrameKey: frameKeyTime, Label: "Time"},
			},
		},
	}
}

// TimeEvent builds the per-tick event carrying both clock readouts.
func TimeEvent(game string, t clock.Time) Event {
	return Event{
		Game:  game,
		Event: EventTime,
		Data: EventData{
			Value: timeEventValue,
			Frame: map[string]string{
				FrameKeyLeft:  t.Left,
				FrameKeyRight: t.Right,
			},
		},
	}
}
