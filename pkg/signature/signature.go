package signature

import (
	"fmt"

	"github.com/devicelab-dev/screengraph/pkg/core"
)

// DefaultPriority is used when a signature declares none. Overlays
// (dialogs, permission prompts) are conventionally 100, base screens 10-50.
const DefaultPriority = 50

// ScreenSignature fingerprints one screen of one application as a
// constellation of element selectors.
type ScreenSignature struct {
	AppID       string `json:"appId"`
	ScreenID    string `json:"screenId"`
	Description string `json:"description,omitempty"`
	// Priority is a human-authoring concern and a tie-break key between
	// equally scored signatures. It never excludes a signature from scoring.
	Priority int `json:"priority"`
	// Required selectors must all be present for full confidence; the match
	// ratio drives the base score.
	Required []string `json:"required,omitempty"`
	// Forbidden selectors disqualify the signature outright, overriding
	// unique matches.
	Forbidden []string `json:"forbidden,omitempty"`
	// Unique selectors where any single match means full confidence.
	Unique []string `json:"unique,omitempty"`
	// Optional selectors boost confidence slightly when present.
	Optional []string `json:"optional,omitempty"`
	// RecoveryAction is a hint for callers stuck on this screen.
	RecoveryAction string `json:"recoveryAction,omitempty"`
	// SafeState marks screens that are acceptable to pause or recover to.
	SafeState bool `json:"safeState"`

	required  []Selector
	forbidden []Selector
	unique    []Selector
	optional  []Selector
	compiled  bool
}

// FullID returns "app_id/screen_id".
func (s *ScreenSignature) FullID() string {
	return s.AppID + "/" + s.ScreenID
}

// Compile validates the signature and parses its selector strings. It must
// be called before Score; the store compiles on registration.
func (s *ScreenSignature) Compile() error {
	if s.AppID == "" || s.ScreenID == "" {
		return core.ErrInvalidConfig.WithMessage("signature missing app or screen id")
	}
	if len(s.Required) == 0 && len(s.Unique) == 0 {
		return core.ErrInvalidConfig.WithMessage(
			fmt.Sprintf("signature %s must declare required or unique selectors", s.FullID()))
	}
	if s.Priority == 0 {
		s.Priority = DefaultPriority
	}
	s.required = parseAll(s.Required)
	s.forbidden = parseAll(s.Forbidden)
	s.unique = parseAll(s.Unique)
	s.optional = parseAll(s.Optional)
	s.compiled = true
	return nil
}

func parseAll(raw []string) []Selector {
	out := make([]Selector, 0, len(raw))
	for _, r := range raw {
		out = append(out, Parse(r))
	}
	return out
}

// Score rates how well an element set matches this signature, returning a
// confidence in [0,1] and the selectors that matched.
//
// Rules, in order:
//   - any forbidden selector present: 0.0, regardless of everything else
//   - any unique selector present: 1.0
//   - otherwise the ratio of matched required selectors, plus up to 0.1
//     from optional selectors, capped at 1.0. No required match means 0.
func (s *ScreenSignature) Score(elements core.ElementSet) (float64, []string) {
	if !s.compiled {
		if err := s.Compile(); err != nil {
			return 0, nil
		}
	}

	// Forbidden disqualifies before unique gets a say.
	for _, sel := range s.forbidden {
		if sel.Matches(elements) {
			return 0, nil
		}
	}

	var matched []string
	for _, sel := range s.unique {
		if sel.Matches(elements) {
			matched = append(matched, "unique:"+sel.Raw)
			return 1.0, matched
		}
	}

	requiredMatches := 0
	for _, sel := range s.required {
		if sel.Matches(elements) {
			requiredMatches++
			matched = append(matched, "required:"+sel.Raw)
		}
	}
	if len(s.required) == 0 || requiredMatches == 0 {
		// A signature with neither a unique hit nor a required hit cannot
		// win; without required selectors at all there is nothing to score.
		return 0, nil
	}
	base := float64(requiredMatches) / float64(len(s.required))

	optionalMatches := 0
	for _, sel := range s.optional {
		if sel.Matches(elements) {
			optionalMatches++
			matched = append(matched, "optional:"+sel.Raw)
		}
	}
	boost := 0.0
	if len(s.optional) > 0 {
		boost = 0.1 * float64(optionalMatches) / float64(len(s.optional))
	}

	score := base + boost
	if score > 1.0 {
		score = 1.0
	}
	return score, matched
}
