package navigator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/devicelab-dev/screengraph/pkg/core"
	"github.com/devicelab-dev/screengraph/pkg/detector"
	"github.com/devicelab-dev/screengraph/pkg/graph"
	"github.com/devicelab-dev/screengraph/pkg/logger"
	"github.com/devicelab-dev/screengraph/pkg/signature"
)

// Defaults for Options and Config.
const (
	DefaultMaxAttempts = 3
	DefaultSettleDelay = 500 * time.Millisecond
	DefaultRetryDelay  = time.Second
)

// Config tunes a Navigator. The zero value gets defaults.
type Config struct {
	// SettleDelay is the pause before each post-step verification detect.
	SettleDelay time.Duration
	// RetryDelay is the backoff after detecting an unknown screen.
	RetryDelay time.Duration
	// SafeContexts maps a recovery context name to an ordered list of
	// acceptable target screens, preferred first. Contexts not listed here
	// fall back to the store's safe states.
	SafeContexts map[string][]string
}

func (c Config) withDefaults() Config {
	if c.SettleDelay == 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	return c
}

// Options tunes one NavigateTo call.
type Options struct {
	// MaxAttempts bounds plan/re-plan cycles. Zero means the default (3).
	MaxAttempts int
	// VerifyEachStep re-detects after every edge. Nil means true.
	VerifyEachStep *bool
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.VerifyEachStep == nil {
		verify := true
		o.VerifyEachStep = &verify
	}
	return o
}

// Navigator drives one device through one app's navigation graph:
// detect, plan, execute an edge, verify, re-plan on deviation, give up
// after a bounded number of attempts.
//
// Callers must serialize navigations per device; concurrent navigations
// on the same device would race on the UI state.
type Navigator struct {
	appID      string
	driver     core.Driver
	detector   *detector.Detector
	store      *signature.Store
	pathfinder *Pathfinder
	graph      *graph.Graph
	cfg        Config

	// sleep is swappable so tests do not wait out settle delays.
	sleep func(time.Duration)

	stats statsCounters
}

// New creates a Navigator for one app on one device.
func New(appID string, driver core.Driver, det *detector.Detector, g *graph.Graph, store *signature.Store, cfg Config) *Navigator {
	return &Navigator{
		appID:      appID,
		driver:     driver,
		detector:   det,
		store:      store,
		pathfinder: NewPathfinder(g),
		graph:      g,
		cfg:        cfg.withDefaults(),
		sleep:      time.Sleep,
	}
}

// Graph returns the underlying navigation graph.
func (n *Navigator) Graph() *graph.Graph {
	return n.graph
}

// FindPath plans a route without executing it.
func (n *Navigator) FindPath(from, to string) *graph.Path {
	return n.pathfinder.FindPath(from, to)
}

// NavigateTo moves the device to the target screen.
func (n *Navigator) NavigateTo(ctx context.Context, target string, opts Options) *Result {
	opts = opts.withDefaults()
	n.stats.recordStart()

	runID := uuid.NewString()
	start := time.Now()
	startScreen := detector.UnknownScreenID
	var summary []string
	recovery := 0

	result := func(status Status, final string, failure error) *Result {
		r := &Result{
			Status:           status,
			RunID:            runID,
			StartScreen:      startScreen,
			TargetScreen:     target,
			FinalScreen:      final,
			StepsCompleted:   len(summary),
			PathSummary:      summary,
			TotalTime:        time.Since(start),
			RecoveryAttempts: recovery,
		}
		if failure != nil {
			r.ErrorMessage = failure.Error()
			var execErr *core.ExecutionError
			if errors.As(failure, &execErr) {
				r.ErrorCode = execErr.Code
			}
		}
		return r
	}

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return result(StatusFailed, startScreen, core.ErrCanceled.WithCause(err))
		}
		logger.Info("navigation %s attempt %d/%d to %s", runID, attempt, opts.MaxAttempts, target)

		det := n.detector.Detect(n.appID, true)
		if det.Error != "" {
			// Dump failures mean the device connection itself is suspect;
			// do not retry blindly.
			r := result(StatusFailed, det.ScreenID, errors.New(det.Error))
			r.ErrorCode = det.ErrorCode
			return r
		}
		current := det.ScreenID
		if startScreen == detector.UnknownScreenID {
			startScreen = current
		}

		if det.IsUnknown() {
			logger.Warn("navigation %s: unknown screen on attempt %d", runID, attempt)
			recovery++
			n.sleep(n.cfg.RetryDelay)
			continue
		}

		if current == target {
			n.stats.recordSuccess(time.Since(start))
			status := StatusSuccess
			if attempt == 1 && len(summary) == 0 {
				status = StatusAlreadyThere
			}
			return result(status, current, nil)
		}

		path := n.pathfinder.FindPath(current, target)
		if path == nil {
			return result(StatusNoPath, current,
				core.ErrNoPath.WithMessage(fmt.Sprintf("no path from %s to %s", current, target)))
		}
		logger.Info("navigation %s: path found, %d steps, reliability %.0f%%",
			runID, path.Len(), path.EstimatedReliability*100)

		deviated := false
		for i, step := range path.Steps {
			if err := ctx.Err(); err != nil {
				return result(StatusFailed, step.From, core.ErrCanceled.WithCause(err))
			}
			logger.Info("navigation %s: step %d/%d: %s → %s", runID, i+1, path.Len(), step.From, step.To)

			if err := n.executeStep(step); err != nil {
				if errors.Is(err, core.ErrDriverUnavailable) {
					return result(StatusFailed, step.From, err)
				}
				// An action failure surfaces as a deviation; the next
				// attempt re-plans from wherever the device actually is.
				logger.Warn("navigation %s: step execution failed: %v", runID, err)
				recovery++
				deviated = true
				break
			}
			summary = append(summary, step.From+" → "+step.To)
			n.stats.recordStep()

			last := i == len(path.Steps)-1
			if *opts.VerifyEachStep || last {
				n.sleep(n.cfg.SettleDelay)
				verify := n.detector.Detect(n.appID, true)
				if verify.ScreenID != step.To {
					logger.Warn("navigation %s: deviated, expected %s, got %s",
						runID, step.To, verify.ScreenID)
					recovery++
					deviated = true
					break
				}
			}
			if last {
				n.stats.recordSuccess(time.Since(start))
				return result(StatusSuccess, step.To, nil)
			}
		}
		_ = deviated // loop re-detects and re-plans
	}

	final := n.detector.Detect(n.appID, true)
	return result(StatusFailed, final.ScreenID,
		core.ErrVerificationMismatch.WithMessage(fmt.Sprintf("failed to reach %s after %d attempts", target, opts.MaxAttempts)))
}

// executeStep runs every action of an edge in order. Wait actions are
// handled here rather than by the driver; everything else is a device
// primitive.
func (n *Navigator) executeStep(step graph.Step) error {
	for _, action := range step.Edge.Actions {
		if wait, ok := action.(graph.Wait); ok {
			n.sleep(wait.Duration())
		} else if err := n.driver.Execute(action); err != nil {
			if errors.Is(err, core.ErrDriverUnavailable) {
				return err
			}
			return core.ErrActionFailed.WithCause(err).WithDetails(map[string]interface{}{
				"action": action.Describe(),
				"edge":   step.From + " → " + step.To,
			})
		}
		if d := action.WaitAfter(); d > 0 {
			n.sleep(d)
		}
	}
	return nil
}

// RecoverToSafeState brings the device to any acceptable screen for the
// given context. The context resolves to an ordered target list (preferred
// first) from Config.SafeContexts, falling back to the store's safe
// states. Targets are tried in order until one succeeds; on total failure
// the last attempt's result is returned.
func (n *Navigator) RecoverToSafeState(ctx context.Context, contextName string) *Result {
	targets := n.cfg.SafeContexts[contextName]
	if len(targets) == 0 {
		targets = n.store.SafeStates(n.appID)
	}
	if len(targets) == 0 {
		return &Result{
			Status:       StatusNoPath,
			RunID:        uuid.NewString(),
			StartScreen:  detector.UnknownScreenID,
			FinalScreen:  detector.UnknownScreenID,
			ErrorMessage: "no safe states defined for context " + contextName,
			ErrorCode:    core.ErrNoPath.Code,
		}
	}
	logger.Info("recovering to safe state, context %s, targets %v", contextName, targets)

	det := n.detector.Detect(n.appID, true)
	for _, t := range targets {
		if det.ScreenID == t {
			return &Result{
				Status:       StatusAlreadyThere,
				RunID:        uuid.NewString(),
				StartScreen:  det.ScreenID,
				TargetScreen: t,
				FinalScreen:  det.ScreenID,
			}
		}
	}

	var last *Result
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return &Result{
				Status:       StatusFailed,
				RunID:        uuid.NewString(),
				StartScreen:  det.ScreenID,
				TargetScreen: t,
				FinalScreen:  det.ScreenID,
				ErrorMessage: core.ErrCanceled.WithCause(err).Error(),
				ErrorCode:    core.ErrCanceled.Code,
			}
		}
		last = n.NavigateTo(ctx, t, Options{MaxAttempts: 2})
		if last.Success() {
			return last
		}
		logger.Warn("recovery target %s failed (%s), trying next", t, last.Status)
	}
	return last
}
