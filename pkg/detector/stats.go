package detector

import (
	"time"
)

// Stats is a value snapshot of detection quality counters.
type Stats struct {
	Detections   int           `json:"detections"`
	AverageTime  time.Duration `json:"averageTime"`
	UnknownCount int           `json:"unknownCount"`
	UnknownRate  float64       `json:"unknownRate"`
}

func (d *Detector) record(elapsed time.Duration, unknown bool) {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	d.detections++
	d.totalTime += elapsed
	if unknown {
		d.unknownCount++
	}
}

// Stats returns a copy of the rolling counters; callers never observe a
// partially updated state.
func (d *Detector) Stats() Stats {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()

	s := Stats{
		Detections:   d.detections,
		UnknownCount: d.unknownCount,
	}
	if d.detections > 0 {
		s.AverageTime = d.totalTime / time.Duration(d.detections)
		s.UnknownRate = float64(d.unknownCount) / float64(d.detections)
	}
	return s
}
