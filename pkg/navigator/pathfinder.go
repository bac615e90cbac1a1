// Package navigator plans routes through the navigation graph with BFS
// and executes them step by step, verifying each transition and
// re-planning from the actually observed screen on deviation.
package navigator

import (
	"github.com/devicelab-dev/screengraph/pkg/graph"
)

// Pathfinder runs breadth-first search over one app's navigation graph.
// BFS rather than Dijkstra: step count is what costs wall-clock time and
// failure risk; edge cost and reliability are accumulated for reporting
// only and never alter the level-order expansion.
type Pathfinder struct {
	graph *graph.Graph
}

// NewPathfinder creates a pathfinder over a graph.
func NewPathfinder(g *graph.Graph) *Pathfinder {
	return &Pathfinder{graph: g}
}

type bfsEntry struct {
	screen      string
	steps       []graph.Step
	cost        float64
	reliability float64
}

// FindPath returns a minimal-step path between two screens, or nil if no
// route exists. FindPath(a, a) returns an empty path.
func (p *Pathfinder) FindPath(from, to string) *graph.Path {
	return p.search(from, map[string]struct{}{to: {}})
}

// FindPathToAny returns a minimal-step path to any of the target screens,
// or nil if none is reachable. An empty path is returned when from is
// already a target.
func (p *Pathfinder) FindPathToAny(from string, targets []string) *graph.Path {
	if len(targets) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	return p.search(from, set)
}

func (p *Pathfinder) search(from string, targets map[string]struct{}) *graph.Path {
	if _, ok := targets[from]; ok {
		return &graph.Path{TotalCost: 0, EstimatedReliability: 1.0}
	}

	queue := []bfsEntry{{screen: from, cost: 0, reliability: 1.0}}
	visited := map[string]struct{}{from: {}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, edge := range p.graph.EdgesFrom(current.screen) {
			if _, seen := visited[edge.To]; seen {
				continue
			}

			steps := make([]graph.Step, len(current.steps), len(current.steps)+1)
			copy(steps, current.steps)
			steps = append(steps, graph.Step{From: current.screen, To: edge.To, Edge: edge})
			cost := current.cost + edge.Cost
			reliability := current.reliability * edge.Reliability

			if _, ok := targets[edge.To]; ok {
				return &graph.Path{
					Steps:                steps,
					TotalCost:            cost,
					EstimatedReliability: reliability,
				}
			}

			visited[edge.To] = struct{}{}
			queue = append(queue, bfsEntry{
				screen:      edge.To,
				steps:       steps,
				cost:        cost,
				reliability: reliability,
			})
		}
	}
	return nil
}
