package detector

import (
	"time"
)

// SignatureDump is a structured view of the current screen's elements,
// meant for authoring new signatures offline when detection reports
// unknown. It is a diagnostic aid; detection never consumes it.
type SignatureDump struct {
	Timestamp     time.Time `json:"timestamp"`
	Identifiers   []string  `json:"identifiers"`
	Labels        []string  `json:"labels"`
	Texts         []string  `json:"texts"`
	Classes       []string  `json:"classes"`
	Clickables    []string  `json:"clickables"`
	TotalElements int       `json:"totalElements"`
	Hint          string    `json:"hint"`
}

// DumpForSignature captures a fresh dump and organizes its elements by
// token type.
func (d *Detector) DumpForSignature() (*SignatureDump, error) {
	elements, err := d.Elements(true)
	if err != nil {
		return nil, err
	}
	return &SignatureDump{
		Timestamp:     time.Now(),
		Identifiers:   elements.WithPrefix("id:"),
		Labels:        elements.WithPrefix("label:"),
		Texts:         elements.WithPrefix("text:"),
		Classes:       elements.WithPrefix("class-short:"),
		Clickables:    elements.WithPrefix("clickable:"),
		TotalElements: elements.Len(),
		Hint:          "prefer id suffixes for stable signatures (clone-safe with the :id/xxx format)",
	}, nil
}
