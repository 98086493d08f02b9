// Package config loads the agent's TOML configuration.
//
// The file lives at <data-dir>/config.toml. Missing keys keep their
// defaults, so a config that sets only [detection] process is valid.
package config

//go:generate go run ../../cmd/genconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"tools.zach/dev/tarkovtime/internal/atomicfile"
	"tools.zach/dev/tarkovtime/internal/controller"
	"tools.zach/dev/tarkovtime/internal/detector"
	"tools.zach/dev/tarkovtime/internal/gamesense"
	"tools.zach/dev/tarkovtime/internal/logger"
	"tools.zach/dev/tarkovtime/internal/paths"
	"tools.zach/dev/tarkovtime/internal/update"
)

// CurrentVersion is the config schema version written by this build.
const CurrentVersion = 1

// DefaultProcess is the game executable watched in game-detection mode.
const DefaultProcess = "EscapeFromTarkov.exe"

// ///////////////////////////////////////////////
// Configuration Types
// ///////////////////////////////////////////////

// Config is the top-level configuration.
type Config struct {
	// Version is the schema version.
	Version   int             `toml:"version"`
	Engine    EngineConfig    `toml:"engine"`
	Game      GameConfig      `toml:"game"`
	Detection DetectionConfig `toml:"detection"`
	Behavior  BehaviorConfig  `toml:"behavior"`
	Log       LogConfig       `toml:"log"`
	Update    UpdateConfig    `toml:"update"`
}

// EngineConfig locates the SteelSeries Engine.
type EngineConfig struct {
	// CorePropsPath overrides the platform location of coreProps.json.
	CorePropsPath string `toml:"core_props_path"`
	// Address skips coreProps.json entirely when set (host:port).
	Address string `toml:"address"`
	// WatchCoreProps re-registers when the engine restarts on a new port.
	WatchCoreProps bool `toml:"watch_core_props"`
}

// GameConfig is the identity registered with the engine.
type GameConfig struct {
	Key                 string `toml:"key"`
	DisplayName         string `toml:"display_name"`
	Developer           string `toml:"developer"`
	DeinitializeTimerMS int    `toml:"deinitialize_timer_ms"`
}

// DetectionConfig controls how the game process is found.
type DetectionConfig struct {
	// Process is compared against each running executable's base name.
	Process string `toml:"process"`
	// Match is exact, substring, or glob.
	Match string `toml:"match"`
	// IntervalSeconds is the minimum time between process scans.
	IntervalSeconds int `toml:"interval_seconds"`
}

// BehaviorConfig controls the control loop.
type BehaviorConfig struct {
	// TickSeconds is the time between publish decisions.
	TickSeconds int `toml:"tick_seconds"`
	// InitialMode is game_detection, enabled, or disabled.
	InitialMode string `toml:"initial_mode"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is trace, debug, info, warn, or error.
	Level     string `toml:"level"`
	MaxSizeMB int    `toml:"max_size_mb"`
}

// UpdateConfig controls the startup release check.
type UpdateConfig struct {
	Check bool `toml:"check"`
	// ManifestURL overrides the release manifest location.
	ManifestURL string `toml:"manifest_url,omitempty"`
}

// ///////////////////////////////////////////////
// Defaults
// ///////////////////////////////////////////////

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	id := gamesense.DefaultIdentity()
	return &Config{
		Version: CurrentVersion,
		Engine: EngineConfig{
			WatchCoreProps: true,
		},
		Game: GameConfig{
			Key:                 id.Game,
			DisplayName:         id.DisplayName,
			Developer:           id.Developer,
			DeinitializeTimerMS: id.DeinitializeTimerMS,
		},
		Detection: DetectionConfig{
			Process:         DefaultProcess,
			Match:           detector.MatchExact,
			IntervalSeconds: int(detector.DefaultInterval / time.Second),
		},
		Behavior: BehaviorConfig{
			TickSeconds: int(controller.DefaultTick / time.Second),
			InitialMode: controller.ModeGameDetection.String(),
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 5,
		},
		Update: UpdateConfig{
			Check: true,
		},
	}
}

// ExampleConfig is the config written to config.default.toml.
func ExampleConfig() *Config {
	return DefaultConfig()
}

// ///////////////////////////////////////////////
// Loading and Saving
// ///////////////////////////////////////////////

// Load reads dataDir/config.toml. A missing file yields [DefaultConfig].
func Load(dataDir string) (*Config, error) {
	path := paths.DataDir{Root: dataDir}.Config()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parse config: unknown keys %s", strings.Join(keys, ", "))
	}
	if !md.IsDefined("version") {
		cfg.Version = CurrentVersion
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Seed writes the example config to path if no file exists there.
func Seed(path string, example []byte) (bool, error) {
	return atomicfile.WriteNew(path, example, 0o644)
}

// ///////////////////////////////////////////////
// Validation
// ///////////////////////////////////////////////

// Validate checks every value and reports the first problem found.
func (c *Config) Validate() error {
	if c.Version > CurrentVersion {
		return fmt.Errorf("config version %d is newer than this build supports (%d)", c.Version, CurrentVersion)
	}

	if strings.TrimSpace(c.Game.Key) == "" {
		return fmt.Errorf("game.key must not be empty")
	}
	if c.Game.DeinitializeTimerMS < 1000 || c.Game.DeinitializeTimerMS > 60000 {
		return fmt.Errorf("game.deinitialize_timer_ms must be between 1000 and 60000, got %d", c.Game.DeinitializeTimerMS)
	}

	if strings.TrimSpace(c.Detection.Process) == "" {
		return fmt.Errorf("detection.process must not be empty")
	}
	if _, err := detector.NewMatcher(c.Detection.Match, c.Detection.Process); err != nil {
		return fmt.Errorf("detection: %w", err)
	}
	if c.Detection.IntervalSeconds <= 0 {
		return fmt.Errorf("detection.interval_seconds must be > 0, got %d", c.Detection.IntervalSeconds)
	}

	if c.Behavior.TickSeconds <= 0 {
		return fmt.Errorf("behavior.tick_seconds must be > 0, got %d", c.Behavior.TickSeconds)
	}
	if _, err := controller.ParseMode(c.Behavior.InitialMode); err != nil {
		return fmt.Errorf("behavior.initial_mode: %w", err)
	}

	if _, ok := logger.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("invalid log.level %q: must be trace, debug, info, warn, error, or fail", c.Log.Level)
	}
	if c.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log.max_size_mb must be > 0, got %d", c.Log.MaxSizeMB)
	}

	return nil
}

// ///////////////////////////////////////////////
// Derived values
// ///////////////////////////////////////////////

// Identity returns the registration identity.
func (c *Config) Identity() gamesense.Identity {
	return gamesense.Identity{
		Game:                c.Game.Key,
		DisplayName:         c.Game.DisplayName,
		Developer:           c.Game.Developer,
		DeinitializeTimerMS: c.Game.DeinitializeTimerMS,
	}
}

// ScanInterval returns detection.interval_seconds as a duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Detection.IntervalSeconds) * time.Second
}

// Tick returns behavior.tick_seconds as a duration.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.Behavior.TickSeconds) * time.Second
}

// InitialMode returns the parsed starting mode. Validate has already
// rejected bad values.
func (c *Config) InitialMode() controller.Mode {
	m, _ := controller.ParseMode(c.Behavior.InitialMode)
	return m
}

// ManifestURL returns the release manifest location, or "" if checking is
// off or no location is known.
func (c *Config) ManifestURL() string {
	if !c.Update.Check {
		return ""
	}
	if c.Update.ManifestURL != "" {
		return c.Update.ManifestURL
	}
	return update.DefaultManifestURL()
}
