// Command tarkovtime shows the Escape From Tarkov in-raid clock on
// SteelSeries OLED devices.
//
// It registers a game with the local SteelSeries Engine, then publishes the
// two raid clocks every tick while the mode chosen in the tray menu allows it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	rootpkg "tools.zach/dev/tarkovtime"
	"tools.zach/dev/tarkovtime/internal/config"
	"tools.zach/dev/tarkovtime/internal/controller"
	"tools.zach/dev/tarkovtime/internal/detector"
	"tools.zach/dev/tarkovtime/internal/logger"
	"tools.zach/dev/tarkovtime/internal/notify"
	"tools.zach/dev/tarkovtime/internal/paths"
	"tools.zach/dev/tarkovtime/internal/tray"
	"tools.zach/dev/tarkovtime/internal/update"
)

// ///////////////////////////////////////////////
// Version
// ///////////////////////////////////////////////

// version is set at build time with -X main.version=...
var version = "dev"

// resolveVersion returns version, or "dev+<hash>" from the embedded VCS
// info when no version was set at build time.
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return version
	}
	v := "dev+" + revision[:min(7, len(revision))]
	if dirty {
		v += ".dirty"
	}
	return v
}

// ///////////////////////////////////////////////
// Flags
// ///////////////////////////////////////////////

type options struct {
	dataDir     string
	headless    bool
	logTail     int
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet(paths.BinaryName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.dataDir, "data-dir", "", "Data directory for config, log and PID file (default ~/"+paths.DataDirRel+")")
	fs.BoolVar(&o.headless, "headless", false, "Run without a tray icon; stop with Ctrl+C")
	fs.IntVar(&o.logTail, "log-tail", 0, "Print the last N log lines and exit")
	fs.BoolVar(&o.showVersion, "version", false, "Print the version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.logTail < 0 {
		return o, fmt.Errorf("-log-tail must be positive")
	}
	return o, nil
}

// ///////////////////////////////////////////////
// Main
// ///////////////////////////////////////////////

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the agent and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	ver := resolveVersion()
	if opts.showVersion {
		fmt.Fprintln(stdout, ver)
		return 0
	}

	dirs, err := paths.Resolve(opts.dataDir)
	if err != nil {
		return fatal(stderr, "locate data directory", err)
	}

	if opts.logTail > 0 {
		tail, err := logger.ReadTail(dirs.Log(), opts.logTail)
		if err != nil {
			fmt.Fprintf(stderr, "read log: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, tail)
		return 0
	}

	if err := dirs.Ensure(); err != nil {
		return fatal(stderr, "create data directory", err)
	}

	inst, err := acquireInstance(dirs.PID())
	if err != nil {
		if isRunning(err) {
			fmt.Fprintf(stderr, "%s %v\n", paths.BinaryName, err)
			return 1
		}
		return fatal(stderr, "lock PID file", err)
	}
	defer inst.release()

	if created, err := config.Seed(dirs.Config(), rootpkg.DefaultConfigTOML); err != nil {
		fmt.Fprintf(stderr, "warning: write default config: %v\n", err)
	} else if created {
		fmt.Fprintf(stderr, "wrote default config to %s\n", dirs.Config())
	}

	cfg, err := config.Load(dirs.Root)
	if err != nil {
		return fatal(stderr, "load config", err)
	}

	level, _ := logger.ParseLevel(cfg.Log.Level)
	logOpts := logger.Options{Path: dirs.Log(), Level: level, MaxSizeMB: cfg.Log.MaxSizeMB}
	if opts.headless {
		logOpts.Console = stderr
	}
	log, logCloser, err := logger.New(logOpts)
	if err != nil {
		return fatal(stderr, "open log", err)
	}
	defer logCloser.Close()
	slog.SetDefault(log)

	slog.Info("tarkovtime starting", "version", ver, "data_dir", dirs.Root, "headless", opts.headless)

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	go checkForUpdate(ctx, cfg, ver)

	return runAgent(ctx, cfg, opts.headless, stderr)
}

// runAgent registers with the engine and runs the control loop until quit.
func runAgent(ctx context.Context, cfg *config.Config, headless bool, stderr io.Writer) int {
	loc, err := locateEngine(cfg)
	if err != nil {
		return fatal(stderr, "locate SteelSeries Engine", err)
	}
	pub, err := registerClock(ctx, cfg, loc.Address)
	if err != nil {
		return fatal(stderr, "register with SteelSeries Engine", err)
	}

	match, err := detector.NewMatcher(cfg.Detection.Match, cfg.Detection.Process)
	if err != nil {
		return fatal(stderr, "build process matcher", err)
	}
	det := detector.New(detector.SystemLister{}, match, detector.WithInterval(cfg.ScanInterval()))

	ctrlOpts := controller.Options{
		Detector:    det,
		Publisher:   pub,
		Tick:        cfg.Tick(),
		InitialMode: cfg.InitialMode(),
	}
	if w := watchEngine(cfg, loc); w != nil {
		defer w.Close()
		ctrlOpts.Relocations = w.Addresses()
	}

	var runErr error
	if headless {
		runErr = controller.New(ctrlOpts).Run(ctx)
	} else {
		runErr = runWithTray(ctx, ctrlOpts)
	}

	var te *controller.TeardownError
	if errors.As(runErr, &te) {
		return fatal(stderr, "remove clock from engine", te.Err)
	}
	if runErr != nil {
		return fatal(stderr, "control loop", runErr)
	}
	slog.Info("tarkovtime stopped")
	return 0
}

// runWithTray runs the tray on the calling goroutine and the control loop
// beside it. Whichever stops first stops the other.
func runWithTray(ctx context.Context, ctrlOpts controller.Options) error {
	icon, err := tray.RenderIcon(tray.DefaultIconStyle())
	if err != nil {
		slog.Warn("tray icon render failed", "error", err)
	}
	t := tray.New("Tarkov Time", icon)
	ctrlOpts.View = t
	ctrl := controller.New(ctrlOpts)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	ready := make(chan struct{})
	t.Run(ctrl, func() {
		close(ready)
		go func() {
			errCh <- ctrl.Run(ctx)
			tray.Quit()
		}()
	}, nil)

	// The tray can also be closed by the desktop session.
	cancel()
	select {
	case <-ready:
	default:
		return errors.New("tray exited before it was ready")
	}
	select {
	case err := <-errCh:
		return err
	case <-time.After(stopTimeout):
		return errors.New("control loop did not stop")
	}
}

// checkForUpdate logs and announces a newer release. Failures are logged
// at debug level only.
func checkForUpdate(ctx context.Context, cfg *config.Config, current string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("update check panic", "error", r)
		}
	}()
	checker := update.NewChecker(cfg.ManifestURL())
	if !checker.Enabled() {
		slog.Debug("skipping update check")
		return
	}
	res, err := checker.Check(ctx, current)
	if err != nil {
		slog.Debug("update check failed", "error", err)
		return
	}
	if res.Newer {
		slog.Info("new version available", "current", res.Current, "latest", res.Latest)
		notify.Alert("Update available", fmt.Sprintf("Version %s is available (running %s).", res.Latest, res.Current))
	}
}

// fatal reports an error that ends the process and returns exit code 1.
func fatal(stderr io.Writer, what string, err error) int {
	logger.Fail(slog.Default(), what+" failed", "error", err)
	fmt.Fprintf(stderr, "fatal: %s: %v\n", what, err)
	notify.Alert(what+" failed", err.Error())
	return 1
}
