package navigator

import (
	"sync"
	"time"
)

// Stats is a value snapshot of navigation quality counters.
type Stats struct {
	TotalNavigations int           `json:"totalNavigations"`
	Successful       int           `json:"successful"`
	SuccessRate      float64       `json:"successRate"`
	StepsExecuted    int           `json:"stepsExecuted"`
	AverageTime      time.Duration `json:"averageTime"`
	GraphSize        int           `json:"graphSize"`
}

type statsCounters struct {
	mu        sync.Mutex
	total     int
	successes int
	steps     int
	totalTime time.Duration
}

func (s *statsCounters) recordStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
}

func (s *statsCounters) recordStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps++
}

func (s *statsCounters) recordSuccess(elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successes++
	s.totalTime += elapsed
}

// Stats returns a copy of the rolling counters.
func (n *Navigator) Stats() Stats {
	n.stats.mu.Lock()
	defer n.stats.mu.Unlock()

	out := Stats{
		TotalNavigations: n.stats.total,
		Successful:       n.stats.successes,
		StepsExecuted:    n.stats.steps,
		GraphSize:        n.graph.Size(),
	}
	if n.stats.total > 0 {
		out.SuccessRate = float64(n.stats.successes) / float64(n.stats.total)
	}
	if n.stats.successes > 0 {
		out.AverageTime = n.stats.totalTime / time.Duration(n.stats.successes)
	}
	return out
}
