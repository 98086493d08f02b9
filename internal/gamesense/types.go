package gamesense

// ///////////////////////////////////////////////
// Wire Types
// ///////////////////////////////////////////////

// GameMetadata registers a game with the engine (POST game_metadata).
type GameMetadata struct {
	Game                      string `json:"game"`
	GameDisplayName           string `json:"game_display_name"`
	Developer                 string `json:"developer"`
	DeinitializeTimerLengthMS int    `json:"deinitialize_timer_length_ms"`
}

// Game identifies a registered game (POST remove_game).
type Game struct {
	Game string `json:"game"`
}

// BindEventDefinition declares an event and how devices render it
// (POST bind_game_event).
type BindEventDefinition struct {
	Game          string          `json:"game"`
	Event         string          `json:"event"`
	IconID        int             `json:"icon_id"`
	ValueOptional bool            `json:"value_optional"`
	Handlers      []ScreenHandler `json:"handlers"`
	DataFields    []DataField     `json:"data_fields"`
}

// ScreenHandler renders an event on an OLED-equipped device.
type ScreenHandler struct {
	DeviceType string              `json:"device-type"`
	Zone       string              `json:"zone"`
	Mode       string              `json:"mode"`
	Datas      []ScreenHandlerData `json:"datas"`
}

// ScreenHandlerData is one screen frame made of text lines.
type ScreenHandlerData struct {
	Lines  []ScreenHandlerDataLine `json:"lines"`
	IconID int                     `json:"icon-id"`
}

// ScreenHandlerDataLine shows the value of one context-frame key.
type ScreenHandlerDataLine struct {
	HasText         bool   `json:"has-text"`
	ContextFrameKey string `json:"context-frame-key"`
	Wrap            int    `json:"wrap"`
}

// DataField labels a context-frame key in the engine UI.
type DataField struct {
	ContextFrameKey string `json:"context-frame-key"`
	Label           string `json:"label"`
}

// Event is a single state update (POST game_event).
type Event struct {
	Game  string    `json:"game"`
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

// EventData carries the event value and its named string fields.
type EventData struct {
	Value int               `json:"value"`
	Frame map[string]string `json:"frame"`
}
