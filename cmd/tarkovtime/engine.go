package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tools.zach/dev/tarkovtime/internal/config"
	"tools.zach/dev/tarkovtime/internal/coreprops"
	"tools.zach/dev/tarkovtime/internal/gamesense"
)

// setupTimeout bounds the two startup registration requests.
const setupTimeout = 10 * time.Second

// stopTimeout bounds the wait for the control loop after the tray closes.
const stopTimeout = 30 * time.Second

// engineLocation is where the engine was found.
type engineLocation struct {
	Address string
	// PropsPath is the coreProps.json that supplied Address; empty when the
	// address came from the config.
	PropsPath string
}

// locateEngine returns the engine address from the config override or from
// coreProps.json.
func locateEngine(cfg *config.Config) (engineLocation, error) {
	if cfg.Engine.Address != "" {
		return engineLocation{Address: cfg.Engine.Address}, nil
	}

	path := cfg.Engine.CorePropsPath
	if path == "" {
		var err error
		if path, err = coreprops.DefaultPath(); err != nil {
			return engineLocation{}, err
		}
	}
	props, err := coreprops.Read(path)
	if err != nil {
		return engineLocation{}, fmt.Errorf("is SteelSeries Engine running? %w", err)
	}
	return engineLocation{Address: props.Address, PropsPath: path}, nil
}

// registerClock performs the startup registration and returns a publisher
// for the registered game.
func registerClock(ctx context.Context, cfg *config.Config, address string) (*gamesense.Publisher, error) {
	client := gamesense.NewClient(address)
	reg := gamesense.ClockRegistration(cfg.Identity())

	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()
	if err := client.Setup(ctx, reg); err != nil {
		return nil, err
	}
	slog.Info("registered with engine", "address", client.BaseURL(), "game", reg.Metadata.Game)
	return gamesense.NewPublisher(client, reg), nil
}

// watchEngine follows coreProps.json for engine restarts. It returns nil
// when following is off or impossible.
func watchEngine(cfg *config.Config, loc engineLocation) *coreprops.Watcher {
	if !cfg.Engine.WatchCoreProps || loc.PropsPath == "" {
		return nil
	}
	w, err := coreprops.NewWatcher(loc.PropsPath, loc.Address)
	if err != nil {
		slog.Warn("cannot follow coreProps, engine restarts will need an agent restart", "error", err)
		return nil
	}
	if w.Polling() {
		slog.Info("following coreProps by polling", "path", loc.PropsPath)
	}
	return w
}
