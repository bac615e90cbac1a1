package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/screengraph/pkg/navigator"
)

var detectCommand = &cli.Command{
	Name:  "detect",
	Usage: "Identify the screen currently shown on the device",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Bypass the hierarchy cache",
		},
	},
	Action: func(c *cli.Context) error {
		s, err := newSession(c)
		if err != nil {
			return err
		}
		defer s.close()
		appID, err := s.requireApp()
		if err != nil {
			return err
		}
		result, err := s.engine.DetectScreen(s.deviceID, appID, c.Bool("force"))
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var navigateCommand = &cli.Command{
	Name:      "navigate",
	Usage:     "Drive the device to a target screen",
	ArgsUsage: "<target-screen>",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "max-attempts",
			Usage: "Plan/re-plan attempts before giving up (default 3)",
		},
		&cli.BoolFlag{
			Name:  "no-verify",
			Usage: "Only verify the final screen, not every step",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Abort navigation after this long",
			Value: 2 * time.Minute,
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("expected exactly one target screen, got %d", c.NArg())
		}
		s, err := newSession(c)
		if err != nil {
			return err
		}
		defer s.close()
		appID, err := s.requireApp()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(c.Duration("timeout"))
		defer cancel()

		opts := navigator.Options{MaxAttempts: c.Int("max-attempts")}
		if c.Bool("no-verify") {
			verify := false
			opts.VerifyEachStep = &verify
		}
		result, err := s.engine.NavigateTo(ctx, s.deviceID, appID, c.Args().First(), opts)
		if err != nil {
			return err
		}
		if err := printJSON(result); err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("navigation %s: %s", result.Status, result.ErrorMessage)
		}
		return nil
	},
}

var recoverCommand = &cli.Command{
	Name:  "recover",
	Usage: "Return the device to a known safe screen",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "context",
			Usage: "Named safe-context from config (default: any safe state)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Abort recovery after this long",
			Value: 2 * time.Minute,
		},
	},
	Action: func(c *cli.Context) error {
		s, err := newSession(c)
		if err != nil {
			return err
		}
		defer s.close()
		appID, err := s.requireApp()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(c.Duration("timeout"))
		defer cancel()

		result, err := s.engine.RecoverToSafeState(ctx, s.deviceID, appID, c.String("context"))
		if err != nil {
			return err
		}
		if err := printJSON(result); err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("recovery %s: %s", result.Status, result.ErrorMessage)
		}
		return nil
	},
}

var graphCommand = &cli.Command{
	Name:  "graph",
	Usage: "Show the navigation graph loaded for the app",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "from",
			Usage: "Only show edges leaving this screen",
		},
	},
	Action: func(c *cli.Context) error {
		s, err := newSession(c)
		if err != nil {
			return err
		}
		defer s.close()
		appID, err := s.requireApp()
		if err != nil {
			return err
		}
		summary, err := s.engine.NavigationGraph(appID, c.String("from"))
		if err != nil {
			return err
		}
		return printJSON(summary)
	},
}

var screensCommand = &cli.Command{
	Name:      "screens",
	Usage:     "List known screens, or describe one",
	ArgsUsage: "[screen-id]",
	Action: func(c *cli.Context) error {
		s, err := newSession(c)
		if err != nil {
			return err
		}
		defer s.close()
		appID, err := s.requireApp()
		if err != nil {
			return err
		}
		if c.NArg() > 0 {
			info, err := s.engine.ScreenInfo(appID, c.Args().First())
			if err != nil {
				return err
			}
			return printJSON(info)
		}
		return printJSON(s.engine.Screens(appID))
	},
}

var statsCommand = &cli.Command{
	Name:  "stats",
	Usage: "Show detection and navigation counters for the device",
	Action: func(c *cli.Context) error {
		s, err := newSession(c)
		if err != nil {
			return err
		}
		defer s.close()
		appID, err := s.requireApp()
		if err != nil {
			return err
		}
		detection, err := s.engine.DetectionStats(s.deviceID)
		if err != nil {
			return err
		}
		navigation, err := s.engine.NavigationStats(s.deviceID, appID)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"detection":  detection,
			"navigation": navigation,
		})
	},
}

var dumpCommand = &cli.Command{
	Name:  "dump",
	Usage: "Dump the current screen's elements grouped for signature authoring",
	Action: func(c *cli.Context) error {
		s, err := newSession(c)
		if err != nil {
			return err
		}
		defer s.close()
		dump, err := s.engine.DumpForSignature(s.deviceID)
		if err != nil {
			return err
		}
		return printJSON(dump)
	},
}

// commandContext builds a context cancelled by timeout or Ctrl-C.
func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, cancel
	}
	tctx, tcancel := context.WithTimeout(ctx, timeout)
	return tctx, func() {
		tcancel()
		cancel()
	}
}
