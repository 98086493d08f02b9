// Package coreprops reads the SteelSeries Engine discovery file.
//
// The engine writes coreProps.json on every start. Its "address" field holds
// the host:port of the local GameSense HTTP server, which changes between
// engine restarts.
package coreprops

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// FileName is the discovery file written by the engine.
const FileName = "coreProps.json"

var (
	// ErrNoAddress is returned when the discovery file has no address.
	ErrNoAddress = errors.New("coreProps has no address")
	// ErrUnsupportedPlatform is returned by [DefaultPath] on systems where
	// the engine does not run.
	ErrUnsupportedPlatform = errors.New("no default coreProps location on this platform")
)

// Props is the subset of coreProps.json the agent uses.
type Props struct {
	Address string `json:"address"`
	// EncryptedAddress is present on newer engine builds (HTTPS endpoint).
	EncryptedAddress string `json:"encryptedAddress,omitempty"`
}

// Read parses the discovery file at path.
func Read(path string) (Props, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Props{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes coreProps JSON and checks that an address is present.
func Parse(data []byte) (Props, error) {
	var p Props
	if err := json.Unmarshal(data, &p); err != nil {
		return Props{}, fmt.Errorf("parsing coreProps: %w", err)
	}
	p.Address = strings.TrimSpace(p.Address)
	if p.Address == "" {
		return Props{}, ErrNoAddress
	}
	return p, nil
}

// DefaultPath returns the platform location of coreProps.json.
func DefaultPath() (string, error) {
	return defaultPath(runtime.GOOS, os.Getenv)
}

func defaultPath(goos string, getenv func(string) string) (string, error) {
	switch goos {
	case "windows":
		base := getenv("ProgramData")
		if base == "" {
			base = `C:\ProgramData`
		}
		return filepath.Join(base, "SteelSeries", "SteelSeries Engine 3", FileName), nil
	case "darwin":
		return filepath.Join("/Library", "Application Support", "SteelSeries Engine 3", FileName), nil
	default:
		return "", fmt.Errorf("%w (%s): set engine.core_props_path", ErrUnsupportedPlatform, goos)
	}
}
