package graph

// Step is one hop of a path: the edge plus the screen it leaves from.
type Step struct {
	From string `json:"from"`
	To   string `json:"to"`
	Edge Edge   `json:"edge"`
}

// Path is an ordered list of steps from a start screen to a target.
// A path is empty iff start == target.
type Path struct {
	Steps                []Step  `json:"steps"`
	TotalCost            float64 `json:"totalCost"`
	EstimatedReliability float64 `json:"estimatedReliability"`
}

// Len returns the number of steps.
func (p *Path) Len() int {
	return len(p.Steps)
}

// Summary renders the path as "from → to" strings.
func (p *Path) Summary() []string {
	out := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		out = append(out, s.From+" → "+s.To)
	}
	return out
}
