// Package mock provides a scripted in-memory driver for testing the
// detection and navigation engine without a real device. Screens are UI
// trees keyed by id; executing an action moves between screens according
// to a scripted transition table.
package mock

import (
	"fmt"
	"sync"

	"github.com/devicelab-dev/screengraph/pkg/core"
	"github.com/devicelab-dev/screengraph/pkg/graph"
)

// Driver is a mock implementation of core.Driver.
type Driver struct {
	mu sync.Mutex

	// Screens maps screen ids to the UI tree dumped for that screen.
	Screens map[string]*core.UITreeNode
	// Transitions maps a screen id and an action key (see Key) to the
	// screen the action lands on. Actions without an entry leave the
	// screen unchanged, which shows up as a verification mismatch.
	Transitions map[string]map[string]string
	// Current is the screen the device is showing.
	Current string

	// FailActions makes the listed action keys return an execution error.
	FailActions map[string]bool
	// Unavailable makes every call fail as if the connection dropped.
	Unavailable bool

	// DumpCount counts DumpHierarchy calls, for cache assertions.
	DumpCount int
	// Executed records action keys in execution order.
	Executed []string
}

// New creates an empty mock driver showing the given screen.
func New(current string) *Driver {
	return &Driver{
		Screens:     make(map[string]*core.UITreeNode),
		Transitions: make(map[string]map[string]string),
		FailActions: make(map[string]bool),
		Current:     current,
	}
}

// AddScreen registers the UI tree dumped while the given screen is shown.
func (d *Driver) AddScreen(id string, tree *core.UITreeNode) *Driver {
	d.Screens[id] = tree
	return d
}

// AddTransition scripts an action moving the device from one screen to
// another.
func (d *Driver) AddTransition(from string, action graph.Action, to string) *Driver {
	if d.Transitions[from] == nil {
		d.Transitions[from] = make(map[string]string)
	}
	d.Transitions[from][Key(action)] = to
	return d
}

// Key canonicalizes an action for the transition table.
func Key(action graph.Action) string {
	switch a := action.(type) {
	case graph.PressBack:
		return "pressBack"
	case graph.ClickText:
		return "clickText:" + a.Text
	case graph.ClickLabel:
		return "clickLabel:" + a.Label
	case graph.ClickSelector:
		return "clickSelector:" + a.Selector
	case graph.Swipe:
		return "swipe:" + a.Direction
	case graph.Wait:
		return "wait"
	case graph.LaunchApp:
		return "launchApp:" + a.AppID
	default:
		return string(action.Type())
	}
}

// DumpHierarchy returns the tree of the current screen.
func (d *Driver) DumpHierarchy() (*core.UITreeNode, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Unavailable {
		return nil, core.ErrDriverUnavailable
	}
	d.DumpCount++
	if tree, ok := d.Screens[d.Current]; ok {
		return tree, nil
	}
	return Tree(), nil
}

// Execute records the action and applies any scripted transition.
func (d *Driver) Execute(action graph.Action) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Unavailable {
		return core.ErrDriverUnavailable
	}
	key := Key(action)
	d.Executed = append(d.Executed, key)
	if d.FailActions[key] {
		return fmt.Errorf("mock failure executing %s", key)
	}
	if next, ok := d.Transitions[d.Current][key]; ok {
		d.Current = next
	}
	return nil
}

// Info returns mock device identification.
func (d *Driver) Info() *core.DeviceInfo {
	return &core.DeviceInfo{ID: "mock-device", Platform: "mock", Model: "mock-model"}
}

// SetCurrent force-moves the device to a screen.
func (d *Driver) SetCurrent(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Current = id
}

// CurrentScreen returns the screen the device is showing.
func (d *Driver) CurrentScreen() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Current
}

// Tree builds a visible full-screen root around the given children.
func Tree(children ...*core.UITreeNode) *core.UITreeNode {
	return &core.UITreeNode{
		Class:    "android.widget.FrameLayout",
		Visible:  true,
		Bounds:   core.Bounds{Width: 1080, Height: 2400},
		Children: children,
	}
}

// IDNode builds a visible node with a resource identifier.
func IDNode(identifier string) *core.UITreeNode {
	return &core.UITreeNode{
		Identifier: identifier,
		Class:      "android.view.View",
		Visible:    true,
		Bounds:     core.Bounds{Width: 100, Height: 100},
	}
}

// TextNode builds a visible node with text.
func TextNode(text string) *core.UITreeNode {
	return &core.UITreeNode{
		Text:    text,
		Class:   "android.widget.TextView",
		Visible: true,
		Bounds:  core.Bounds{Width: 100, Height: 40},
	}
}

// LabelNode builds a visible clickable node with an accessibility label.
func LabelNode(label string) *core.UITreeNode {
	return &core.UITreeNode{
		Label:     label,
		Class:     "android.widget.Button",
		Clickable: true,
		Visible:   true,
		Bounds:    core.Bounds{Width: 100, Height: 100},
	}
}
