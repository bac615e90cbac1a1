package core

// UITreeNode is one node of a raw UI hierarchy dump.
type UITreeNode struct {
	// Identifier is the platform resource identifier, including any
	// namespace/package prefix (e.g. "com.example.app:id/search_bar").
	Identifier string `json:"identifier,omitempty"`
	Text       string `json:"text,omitempty"`
	// Label is the accessibility label (content-desc on Android).
	Label     string        `json:"label,omitempty"`
	Class     string        `json:"class,omitempty"`
	Clickable bool          `json:"clickable,omitempty"`
	Visible   bool          `json:"visible"`
	Bounds    Bounds        `json:"bounds"`
	Children  []*UITreeNode `json:"children,omitempty"`
}

// Walk visits the node and all descendants depth-first.
func (n *UITreeNode) Walk(visit func(*UITreeNode)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// Bounds represents element position and size.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the center point of the bounds.
func (b Bounds) Center() (int, int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// Empty reports whether the bounds cover zero area.
func (b Bounds) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}
