package detector

import (
	"github.com/devicelab-dev/screengraph/pkg/signature"
)

// PatternPair is one check for a background watcher: a selector that
// detects a condition (typically a popup) and an optional selector for
// the element that dismisses it.
type PatternPair struct {
	Name    string `json:"name"`
	Detect  string `json:"detect"`
	Dismiss string `json:"dismiss,omitempty"`
}

// PatternMatch reports a pattern that is currently on screen.
type PatternMatch struct {
	Name    string `json:"name"`
	Matched string `json:"matched"`
	Dismiss string `json:"dismiss,omitempty"`
}

// CheckPatterns evaluates all pairs against a single dump (cached within
// the TTL, so a polling watcher does not hammer the device). The caller
// decides whether and how to act on the dismiss selectors; scheduling is
// out of scope here.
func (d *Detector) CheckPatterns(pairs []PatternPair) ([]PatternMatch, error) {
	elements, err := d.Elements(false)
	if err != nil {
		return nil, err
	}

	var matches []PatternMatch
	for _, pair := range pairs {
		if pair.Detect == "" {
			continue
		}
		if signature.Parse(pair.Detect).Matches(elements) {
			matches = append(matches, PatternMatch{
				Name:    pair.Name,
				Matched: pair.Detect,
				Dismiss: pair.Dismiss,
			})
		}
	}
	return matches, nil
}
