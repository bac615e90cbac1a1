// Package cli provides the command-line interface for screengraph.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/screengraph/pkg/config"
	"github.com/devicelab-dev/screengraph/pkg/core"
	"github.com/devicelab-dev/screengraph/pkg/driver/mock"
	"github.com/devicelab-dev/screengraph/pkg/engine"
	"github.com/devicelab-dev/screengraph/pkg/graph"
	"github.com/devicelab-dev/screengraph/pkg/logger"
	"github.com/devicelab-dev/screengraph/pkg/signature"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Usage:   "Path to workspace config.yaml",
		EnvVars: []string{"SCREENGRAPH_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "signatures",
		Usage:   "Directory of signature YAML files (overrides config)",
		EnvVars: []string{"SCREENGRAPH_SIGNATURES"},
	},
	&cli.StringFlag{
		Name:    "graphs",
		Usage:   "Directory of navigation graph YAML files (overrides config)",
		EnvVars: []string{"SCREENGRAPH_GRAPHS"},
	},
	&cli.StringFlag{
		Name:    "app",
		Aliases: []string{"a"},
		Usage:   "Application id to operate on",
		EnvVars: []string{"SCREENGRAPH_APP"},
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"udid"},
		Usage:   "Device ID to operate on",
		Value:   "default",
		EnvVars: []string{"SCREENGRAPH_DEVICE"},
	},
	&cli.StringFlag{
		Name:    "driver",
		Aliases: []string{"d"},
		Usage:   "Driver to use (mock)",
		Value:   "mock",
		EnvVars: []string{"SCREENGRAPH_DRIVER"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"SCREENGRAPH_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write JSON logs to file instead of stderr",
		EnvVars: []string{"SCREENGRAPH_LOG_FILE"},
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "screengraph",
		Usage:   "Screen detection and graph navigation for mobile apps",
		Version: Version,
		Description: `Screengraph identifies which screen of an app a device is showing by
matching UI element signatures, and drives the device between screens
along a configured navigation graph.

Examples:
  screengraph --app com.example.shop detect
  screengraph --app com.example.shop navigate checkout
  screengraph --app com.example.shop recover
  screengraph --app com.example.shop graph
  screengraph dump`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			detectCommand,
			navigateCommand,
			recoverCommand,
			graphCommand,
			screensCommand,
			statsCommand,
			dumpCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// session is the loaded workspace plus the engine with its device attached.
type session struct {
	cfg      *config.Config
	engine   *engine.Engine
	watcher  *signature.Watcher
	deviceID string
	appID    string
}

func (s *session) close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
	logger.Close()
}

// newSession loads the workspace config, signatures, and graphs, then
// attaches the selected driver as a device.
func newSession(c *cli.Context) (*session, error) {
	var cfg *config.Config
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return nil, err
	}
	if dir := c.String("signatures"); dir != "" {
		cfg.SignaturesDir = dir
	}
	if dir := c.String("graphs"); dir != "" {
		cfg.GraphsDir = dir
	}
	if app := c.String("app"); app != "" {
		cfg.AppID = app
	}

	level := cfg.LogLevel
	if c.Bool("verbose") {
		level = "debug"
	}
	logFile := cfg.LogFile
	if f := c.String("log-file"); f != "" {
		logFile = f
	}
	if err := logger.Init(logFile, level); err != nil {
		return nil, err
	}

	store := signature.NewStore()
	var watcher *signature.Watcher
	if cfg.WatchSignatures {
		watcher, err = signature.NewWatcher(store, cfg.SignaturesDir)
	} else {
		err = signature.LoadDir(cfg.SignaturesDir, store)
	}
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Close()
			return nil, err
		}
		logger.Warn("signatures directory %s not found", cfg.SignaturesDir)
	}

	eng := engine.New(store, cfg.DetectorConfig(), cfg.NavigatorConfig())
	graphs, err := graph.LoadDir(cfg.GraphsDir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Close()
			return nil, err
		}
		logger.Warn("graphs directory %s not found", cfg.GraphsDir)
	}
	for _, g := range graphs {
		eng.SetGraph(g)
	}

	driver, err := buildDriver(c.String("driver"))
	if err != nil {
		logger.Close()
		return nil, err
	}
	deviceID := c.String("device")
	eng.AddDevice(deviceID, driver)

	return &session{
		cfg:      cfg,
		engine:   eng,
		watcher:  watcher,
		deviceID: deviceID,
		appID:    cfg.AppID,
	}, nil
}

// buildDriver constructs the requested driver. Only the scripted mock
// driver ships with the CLI; device drivers are wired in by embedding
// programs through engine.AddDevice.
func buildDriver(name string) (core.Driver, error) {
	switch name {
	case "mock":
		return mock.New(""), nil
	default:
		return nil, fmt.Errorf("unknown driver %q (available: mock)", name)
	}
}

// requireApp returns the app id or a usage error.
func (s *session) requireApp() (string, error) {
	if s.appID == "" {
		return "", fmt.Errorf("no app id: pass --app or set app in config.yaml")
	}
	return s.appID, nil
}

// printJSON writes a value as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
