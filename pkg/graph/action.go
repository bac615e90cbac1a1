// Package graph holds the navigation graph data model: typed actions,
// edges between screens, paths, and the YAML loader for per-app graph
// configuration.
package graph

import (
	"fmt"
	"time"
)

// ActionType identifies a navigation action variant.
type ActionType string

// Action type constants.
const (
	ActionPressBack     ActionType = "pressBack"
	ActionClickText     ActionType = "clickText"
	ActionClickLabel    ActionType = "clickLabel"
	ActionClickSelector ActionType = "clickSelector"
	ActionSwipe         ActionType = "swipe"
	ActionWait          ActionType = "wait"
	ActionLaunchApp     ActionType = "launchApp"
)

// Action is a single primitive step inside a navigation edge. Variants are
// a closed set; executors switch exhaustively on Type().
type Action interface {
	Type() ActionType
	Describe() string
	// WaitAfter is how long the executor settles after the action before
	// moving on.
	WaitAfter() time.Duration
}

// BaseAction carries the fields every variant shares.
type BaseAction struct {
	WaitAfterMs int    `yaml:"waitAfterMs" json:"waitAfterMs,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// WaitAfter returns the settle delay after the action.
func (b BaseAction) WaitAfter() time.Duration {
	return time.Duration(b.WaitAfterMs) * time.Millisecond
}

func (b BaseAction) describeOr(fallback string) string {
	if b.Description != "" {
		return b.Description
	}
	return fallback
}

// PressBack presses the platform back control.
type PressBack struct {
	BaseAction `yaml:",inline"`
}

func (a PressBack) Type() ActionType { return ActionPressBack }
func (a PressBack) Describe() string { return a.describeOr("press back") }

// ClickText taps the element with the given exact visible text.
type ClickText struct {
	BaseAction `yaml:",inline"`
	Text       string `yaml:"text" json:"text"`
}

func (a ClickText) Type() ActionType { return ActionClickText }
func (a ClickText) Describe() string { return a.describeOr("click text: " + a.Text) }

// ClickLabel taps the element with the given accessibility label.
type ClickLabel struct {
	BaseAction `yaml:",inline"`
	Label      string `yaml:"label" json:"label"`
}

func (a ClickLabel) Type() ActionType { return ActionClickLabel }
func (a ClickLabel) Describe() string { return a.describeOr("click label: " + a.Label) }

// ClickSelector taps the element matching a driver-native selector
// expression (XPath on Android).
type ClickSelector struct {
	BaseAction `yaml:",inline"`
	Selector   string `yaml:"selector" json:"selector"`
}

func (a ClickSelector) Type() ActionType { return ActionClickSelector }
func (a ClickSelector) Describe() string { return a.describeOr("click: " + a.Selector) }

// Swipe performs a swipe gesture, either by direction or by fractional
// screen coordinates.
type Swipe struct {
	BaseAction `yaml:",inline"`
	Direction  string  `yaml:"direction" json:"direction,omitempty"` // up, down, left, right
	StartX     float64 `yaml:"startX" json:"startX,omitempty"`       // 0.0–1.0 screen fraction
	StartY     float64 `yaml:"startY" json:"startY,omitempty"`
	EndX       float64 `yaml:"endX" json:"endX,omitempty"`
	EndY       float64 `yaml:"endY" json:"endY,omitempty"`
	DurationMs int     `yaml:"durationMs" json:"durationMs,omitempty"`
}

func (a Swipe) Type() ActionType { return ActionSwipe }
func (a Swipe) Describe() string {
	if a.Direction != "" {
		return a.describeOr("swipe " + a.Direction)
	}
	return a.describeOr(fmt.Sprintf("swipe (%.2f,%.2f) -> (%.2f,%.2f)", a.StartX, a.StartY, a.EndX, a.EndY))
}

// Wait pauses the sequence. Executed by the navigator, not the driver.
type Wait struct {
	BaseAction `yaml:",inline"`
	Seconds    float64 `yaml:"seconds" json:"seconds"`
}

func (a Wait) Type() ActionType { return ActionWait }
func (a Wait) Describe() string { return a.describeOr(fmt.Sprintf("wait %.1fs", a.Seconds)) }

// Duration returns the wait as a time.Duration.
func (a Wait) Duration() time.Duration {
	return time.Duration(a.Seconds * float64(time.Second))
}

// LaunchApp starts (or foregrounds) the given application.
type LaunchApp struct {
	BaseAction `yaml:",inline"`
	AppID      string `yaml:"app" json:"app"`
}

func (a LaunchApp) Type() ActionType { return ActionLaunchApp }
func (a LaunchApp) Describe() string { return a.describeOr("launch " + a.AppID) }
