package graph

import (
	"sort"
)

// Default edge weights applied when configuration leaves them unset.
const (
	DefaultCost        = 1.0
	DefaultReliability = 0.95
)

// Edge is a directed transition between two screens. Edges are asymmetric:
// A->B does not imply B->A.
type Edge struct {
	To          string   `json:"to"`
	Actions     []Action `json:"-"`
	Cost        float64  `json:"cost"`
	Reliability float64  `json:"reliability"`
	Description string   `json:"description,omitempty"`
}

// Graph maps screen ids to their outgoing edges for one application.
// It is loaded once as static configuration and read-only afterwards,
// so concurrent reads need no locking.
type Graph struct {
	appID string
	edges map[string][]Edge
	order []string // source screens in insertion order
}

// New creates an empty graph for an app.
func New(appID string) *Graph {
	return &Graph{
		appID: appID,
		edges: make(map[string][]Edge),
	}
}

// AppID returns the application this graph belongs to.
func (g *Graph) AppID() string { return g.appID }

// AddEdge appends a directed edge. Zero cost/reliability get defaults.
func (g *Graph) AddEdge(from string, e Edge) {
	if e.Cost == 0 {
		e.Cost = DefaultCost
	}
	if e.Reliability == 0 {
		e.Reliability = DefaultReliability
	}
	if _, ok := g.edges[from]; !ok {
		g.order = append(g.order, from)
	}
	g.edges[from] = append(g.edges[from], e)
}

// EdgesFrom returns the outgoing edges of a screen in stored order.
// Terminal or unlisted screens yield an empty slice, not an error.
func (g *Graph) EdgesFrom(screen string) []Edge {
	return g.edges[screen]
}

// Sources returns the screens with at least one outgoing edge, in
// insertion order.
func (g *Graph) Sources() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Size returns the number of source screens, the figure reported in
// navigation stats.
func (g *Graph) Size() int {
	return len(g.edges)
}

// Screens returns the sorted set of screens with at least one outgoing or
// incoming edge, plus any extra screens (isolated safe states declared in
// the signature store).
func (g *Graph) Screens(extra ...string) []string {
	seen := make(map[string]struct{})
	for from, edges := range g.edges {
		seen[from] = struct{}{}
		for _, e := range edges {
			seen[e.To] = struct{}{}
		}
	}
	for _, s := range extra {
		if s != "" {
			seen[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// HasInbound reports whether any edge leads into the screen.
func (g *Graph) HasInbound(screen string) bool {
	for _, edges := range g.edges {
		for _, e := range edges {
			if e.To == screen {
				return true
			}
		}
	}
	return false
}

// HasPath reports whether any route exists between two screens.
func (g *Graph) HasPath(from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]struct{}{from: {}}
	queue := []string{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, edge := range g.edges[current] {
			if edge.To == to {
				return true
			}
			if _, ok := visited[edge.To]; !ok {
				visited[edge.To] = struct{}{}
				queue = append(queue, edge.To)
			}
		}
	}
	return false
}
