package navigator

import (
	"time"
)

// Status classifies the outcome of a navigation attempt.
type Status string

// Status values.
const (
	StatusSuccess      Status = "success"
	StatusAlreadyThere Status = "already_there"
	StatusFailed       Status = "failed"
	StatusNoPath       Status = "no_path"
)

// Result is the outcome of one navigation or recovery call.
type Result struct {
	Status       Status `json:"status"`
	RunID        string `json:"runId"`
	StartScreen  string `json:"startScreen"`
	TargetScreen string `json:"targetScreen"`
	FinalScreen  string `json:"finalScreen"`
	// StepsCompleted counts edges whose actions all executed, across
	// re-plans.
	StepsCompleted int `json:"stepsCompleted"`
	// PathSummary lists completed transitions as "from → to" strings.
	PathSummary      []string      `json:"pathSummary,omitempty"`
	TotalTime        time.Duration `json:"totalTime"`
	RecoveryAttempts int           `json:"recoveryAttempts"`
	ErrorMessage     string        `json:"errorMessage,omitempty"`
	// ErrorCode is the machine-readable taxonomy code (no_path,
	// verification_mismatch, canceled, ...) when one applies.
	ErrorCode string `json:"errorCode,omitempty"`
}

// Success reports whether the caller ended up on the target screen.
func (r *Result) Success() bool {
	return r.Status == StatusSuccess || r.Status == StatusAlreadyThere
}
