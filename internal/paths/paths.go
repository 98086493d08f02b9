// Package paths names every file the agent keeps in its data directory.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// Data directory file names.
const (
	PIDFile    = "tarkovtime.pid"
	ConfigFile = "config.toml"
	LogFile    = "tarkovtime.log"
)

const (
	BinaryName = "tarkovtime"
	// DataDirRel is the default data directory, relative to $HOME.
	DataDirRel = ".tarkovtime"
	// EnvDataDir overrides the data directory when set.
	EnvDataDir = "TARKOVTIME_DATA_DIR"
)

// ///////////////////////////////////////////////
// DataDir
// ///////////////////////////////////////////////

// DataDir builds paths rooted at a data directory.
type DataDir struct {
	Root string
}

func (d DataDir) PID() string    { return filepath.Join(d.Root, PIDFile) }
func (d DataDir) Config() string { return filepath.Join(d.Root, ConfigFile) }
func (d DataDir) Log() string    { return filepath.Join(d.Root, LogFile) }

// Ensure creates the directory if it does not exist.
func (d DataDir) Ensure() error {
	if err := os.MkdirAll(d.Root, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}

// Resolve picks the data directory: an explicit value first, then
// $TARKOVTIME_DATA_DIR, then ~/.tarkovtime.
func Resolve(explicit string) (DataDir, error) {
	if explicit != "" {
		return DataDir{Root: explicit}, nil
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return DataDir{Root: env}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DataDir{}, fmt.Errorf("locate home directory: %w", err)
	}
	return DataDir{Root: filepath.Join(home, DataDirRel)}, nil
}
