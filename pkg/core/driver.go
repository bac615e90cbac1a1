// Package core defines the contracts shared by screen detection and
// graph navigation: the device driver interface, the raw UI tree model,
// normalized element sets, and structured errors.
package core

import (
	"github.com/devicelab-dev/screengraph/pkg/graph"
)

// Driver is the device-side collaborator contract.
// Implementations: uiautomator2, appium, mock, etc.
// The engine handles detection and pathfinding; the Driver just dumps the
// screen and executes individual primitive actions.
type Driver interface {
	// DumpHierarchy captures a fresh UI tree of the current screen.
	// Implementations must not cache; the detector owns caching.
	DumpHierarchy() (*UITreeNode, error)

	// Execute performs a single primitive action. Errors are returned,
	// never panicked.
	Execute(action graph.Action) error

	// Info returns device identification for logging and stats keys.
	Info() *DeviceInfo
}

// DeviceInfo identifies the device behind a driver.
type DeviceInfo struct {
	ID       string `json:"id"`
	Platform string `json:"platform"` // android, ios, mock
	Model    string `json:"model,omitempty"`
}
