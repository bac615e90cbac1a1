package detector

import (
	"time"
)

// UnknownScreenID is reported when no signature clears the confidence
// floor. It is a valid result, not an error.
const UnknownScreenID = "unknown"

// Candidate is a runner-up signature and its score.
type Candidate struct {
	ScreenID string  `json:"screenId"`
	Score    float64 `json:"score"`
}

// Result is the outcome of one screen detection.
type Result struct {
	AppID         string        `json:"appId"`
	ScreenID      string        `json:"screenId"`
	Confidence    float64       `json:"confidence"`
	Confident     bool          `json:"confident"`
	DetectionTime time.Duration `json:"detectionTime"`
	// MatchedElements lists the selectors that matched, tagged with their
	// role ("unique:...", "required:...", "optional:...").
	MatchedElements []string `json:"matchedElements,omitempty"`
	// Candidates holds the top alternative matches, best first.
	Candidates     []Candidate `json:"candidates,omitempty"`
	Description    string      `json:"description,omitempty"`
	SafeState      bool        `json:"safeState"`
	RecoveryAction string      `json:"recoveryAction,omitempty"`
	Error          string      `json:"error,omitempty"`
	// ErrorCode is the taxonomy code behind Error when one applies.
	ErrorCode string `json:"errorCode,omitempty"`
}

// IsUnknown reports whether the screen could not be identified.
func (r *Result) IsUnknown() bool {
	return r.ScreenID == UnknownScreenID
}

// FullID returns "app_id/screen_id".
func (r *Result) FullID() string {
	return r.AppID + "/" + r.ScreenID
}
