// Package engine is the top-level facade tying signatures, graphs,
// detection, and navigation together per attached device. The CLI and any
// embedding program talk to this package only.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/devicelab-dev/screengraph/pkg/core"
	"github.com/devicelab-dev/screengraph/pkg/detector"
	"github.com/devicelab-dev/screengraph/pkg/graph"
	"github.com/devicelab-dev/screengraph/pkg/logger"
	"github.com/devicelab-dev/screengraph/pkg/navigator"
	"github.com/devicelab-dev/screengraph/pkg/signature"
)

// Engine holds the loaded signature store and per-app graphs, and manages
// a detector/navigator pair for every attached device.
type Engine struct {
	store       *signature.Store
	detectorCfg detector.Config
	navCfg      navigator.Config

	mu      sync.Mutex
	graphs  map[string]*graph.Graph
	devices map[string]*deviceState
}

// deviceState serializes all operations against one device. Concurrent
// callers queue on the mutex rather than failing.
type deviceState struct {
	mu         sync.Mutex
	driver     core.Driver
	detector   *detector.Detector
	navigators map[string]navigatorEntry
}

// navigatorEntry pins the graph a navigator was built against, so a graph
// swap is detected on next use without touching other devices' state.
type navigatorEntry struct {
	nav   *navigator.Navigator
	graph *graph.Graph
}

// New creates an engine over a signature store.
func New(store *signature.Store, detectorCfg detector.Config, navCfg navigator.Config) *Engine {
	return &Engine{
		store:       store,
		detectorCfg: detectorCfg,
		navCfg:      navCfg,
		graphs:      make(map[string]*graph.Graph),
		devices:     make(map[string]*deviceState),
	}
}

// Store returns the signature store backing the engine.
func (e *Engine) Store() *signature.Store {
	return e.store
}

// RegisterSignatures compiles and installs an app's signature collection,
// replacing any previous one. Detectors pick up the change on their next
// detection.
func (e *Engine) RegisterSignatures(appID string, sigs []*signature.ScreenSignature) error {
	return e.store.Register(appID, sigs)
}

// SetGraph installs (or replaces) the navigation graph for an app. Each
// device rebuilds its navigator on next use when it notices the swap; the
// navigator caches are never touched here, so e.mu stays independent of
// the per-device mutexes.
func (e *Engine) SetGraph(g *graph.Graph) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.graphs[g.AppID()] = g
}

// Graph returns the navigation graph loaded for an app, or nil.
func (e *Engine) Graph(appID string) *graph.Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graphs[appID]
}

// AddDevice attaches a driver under a device id. Attaching over an
// existing id replaces its driver and drops cached state.
func (e *Engine) AddDevice(deviceID string, driver core.Driver) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.devices[deviceID] = &deviceState{
		driver:     driver,
		detector:   detector.New(driver, e.store, e.detectorCfg),
		navigators: make(map[string]navigatorEntry),
	}
	logger.Info("device attached: %s", deviceID)
}

// RemoveDevice detaches a device. Unknown ids are a no-op.
func (e *Engine) RemoveDevice(deviceID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.devices, deviceID)
}

// Devices lists attached device ids.
func (e *Engine) Devices() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.devices))
	for id := range e.devices {
		ids = append(ids, id)
	}
	return ids
}

func (e *Engine) device(deviceID string) (*deviceState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	dev, ok := e.devices[deviceID]
	if !ok {
		return nil, core.ErrUnknownDevice.WithDetails(map[string]any{"device": deviceID})
	}
	return dev, nil
}

// navigatorFor is called with dev.mu held and may take e.mu through
// e.Graph; nothing takes the mutexes in the opposite order.
func (dev *deviceState) navigatorFor(e *Engine, appID string) (*navigator.Navigator, error) {
	g := e.Graph(appID)
	if g == nil {
		return nil, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("no navigation graph loaded for app %s", appID))
	}
	if entry, ok := dev.navigators[appID]; ok && entry.graph == g {
		return entry.nav, nil
	}
	nav := navigator.New(appID, dev.driver, dev.detector, g, e.store, e.navCfg)
	dev.navigators[appID] = navigatorEntry{nav: nav, graph: g}
	return nav, nil
}

// DetectScreen identifies the screen currently shown on a device.
func (e *Engine) DetectScreen(deviceID, appID string, forceRefresh bool) (*detector.Result, error) {
	dev, err := e.device(deviceID)
	if err != nil {
		return nil, err
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.detector.Detect(appID, forceRefresh), nil
}

// NavigateTo drives a device to the target screen of an app.
func (e *Engine) NavigateTo(ctx context.Context, deviceID, appID, target string, opts navigator.Options) (*navigator.Result, error) {
	dev, err := e.device(deviceID)
	if err != nil {
		return nil, err
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	nav, err := dev.navigatorFor(e, appID)
	if err != nil {
		return nil, err
	}
	return nav.NavigateTo(ctx, target, opts), nil
}

// RecoverToSafeState returns a device to a known safe screen of an app.
// contextName selects a configured safe-context list; empty means any
// safe-state signature of the app.
func (e *Engine) RecoverToSafeState(ctx context.Context, deviceID, appID, contextName string) (*navigator.Result, error) {
	dev, err := e.device(deviceID)
	if err != nil {
		return nil, err
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	nav, err := dev.navigatorFor(e, appID)
	if err != nil {
		return nil, err
	}
	return nav.RecoverToSafeState(ctx, contextName), nil
}

// DumpForSignature captures the current screen of a device grouped for
// signature authoring.
func (e *Engine) DumpForSignature(deviceID string) (*detector.SignatureDump, error) {
	dev, err := e.device(deviceID)
	if err != nil {
		return nil, err
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.detector.DumpForSignature()
}

// CheckPatterns probes the current screen of a device for interrupt
// overlays such as permission dialogs.
func (e *Engine) CheckPatterns(deviceID string, pairs []detector.PatternPair) ([]detector.PatternMatch, error) {
	dev, err := e.device(deviceID)
	if err != nil {
		return nil, err
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.detector.CheckPatterns(pairs)
}

// DetectionStats returns detector counters for a device.
func (e *Engine) DetectionStats(deviceID string) (detector.Stats, error) {
	dev, err := e.device(deviceID)
	if err != nil {
		return detector.Stats{}, err
	}
	return dev.detector.Stats(), nil
}

// NavigationStats returns navigator counters for a device and app. A
// device that never navigated the app reports zeroes.
func (e *Engine) NavigationStats(deviceID, appID string) (navigator.Stats, error) {
	dev, err := e.device(deviceID)
	if err != nil {
		return navigator.Stats{}, err
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	nav, err := dev.navigatorFor(e, appID)
	if err != nil {
		return navigator.Stats{}, err
	}
	return nav.Stats(), nil
}
