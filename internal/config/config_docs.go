package config

// FieldDoc annotates one field in the generated config.default.toml.
type FieldDoc struct {
	// Comment is written above the field.
	Comment string
	// Alternatives are written below the field as commented-out lines.
	Alternatives []string
}

// ConfigDocs maps dotted TOML paths (e.g. "detection.match") to their docs.
// cmd/genconfig fails if a field has no entry here.
var ConfigDocs = map[string]FieldDoc{
	"version": {
		Comment: "Config schema version. Do not edit.",
	},

	// ── Engine ───────────────────────────────────────────────────
	"engine": {
		Comment: "Where to find the SteelSeries Engine.",
	},
	"engine.core_props_path": {
		Comment: "Path to coreProps.json. Empty uses the platform default:\n  Windows: %ProgramData%\\SteelSeries\\SteelSeries Engine 3\\coreProps.json\n  macOS:   /Library/Application Support/SteelSeries Engine 3/coreProps.json",
	},
	"engine.address": {
		Comment: "Fixed engine address (host:port). When set, coreProps.json is not read.",
		Alternatives: []string{
			`address = "127.0.0.1:51234"`,
		},
	},
	"engine.watch_core_props": {
		Comment: "Follow coreProps.json and re-register when the engine restarts on a new port.",
	},

	// ── Game ─────────────────────────────────────────────────────
	"game": {
		Comment: "Identity registered with the engine. Changing key registers a separate game.",
	},
	"game.key":          {},
	"game.display_name": {},
	"game.developer":    {},
	"game.deinitialize_timer_ms": {
		Comment: "How long the engine keeps the clock after the last update (1000-60000 ms).",
	},

	// ── Detection ────────────────────────────────────────────────
	"detection": {
		Comment: "How the game process is recognised in game_detection mode.",
	},
	"detection.process": {
		Comment: "Executable to look for.",
	},
	"detection.match": {
		Comment: "How process is compared with each running executable. Options: \"exact\", \"substring\", \"glob\"\n  exact:     base name equals process (case-sensitive)\n  substring: full path contains process\n  glob:      base name matches process as a glob (e.g. \"EscapeFromTarkov*.exe\")",
		Alternatives: []string{
			`match = "substring"`,
			`match = "glob"`,
		},
	},
	"detection.interval_seconds": {
		Comment: "Minimum seconds between process scans.",
	},

	// ── Behavior ─────────────────────────────────────────────────
	"behavior.tick_seconds": {
		Comment: "Seconds between clock updates.",
	},
	"behavior.initial_mode": {
		Comment: "Mode on startup. Options: \"game_detection\", \"enabled\", \"disabled\"",
		Alternatives: []string{
			`initial_mode = "enabled"`,
		},
	},

	// ── Log ──────────────────────────────────────────────────────
	"log": {
		Comment: "Logging configuration",
	},
	"log.level": {
		Comment: "Minimum log level. Options: \"trace\", \"debug\", \"info\", \"warn\", \"error\"\n  trace logs every tick decision.",
		Alternatives: []string{
			`level = "debug"`,
			`level = "trace"`,
		},
	},
	"log.max_size_mb": {
		Comment: "Maximum log file size in megabytes before rotation.",
	},

	// ── Update ───────────────────────────────────────────────────
	"update.check": {
		Comment: "Check for a newer release on startup.",
	},
	"update.manifest_url": {
		Alternatives: []string{
			`manifest_url = "https://example.com/.release-manifest.json"`,
		},
	},
}
