package geom

import "strings"

// ClashSeverity grades a clash record from the clash detection collaborator.
type ClashSeverity string

const (
	SeverityCritical ClashSeverity = "CRITICAL"
	SeverityHigh     ClashSeverity = "HIGH"
	SeverityMedium   ClashSeverity = "MEDIUM"
	SeverityLow      ClashSeverity = "LOW"
)

// Clash is a spatial conflict between the proposed route and another
// building element, as reported by clash detection.
type Clash struct {
	Severity    ClashSeverity `json:"severity"`
	Type        string        `json:"type"`
	Description string        `json:"description,omitempty"`
}

// structuralKeywords identify clash types that always stop a design.
var structuralKeywords = []string{"beam", "column", "slab"}

// IsBlocking reports whether the clash must stop the design outright:
// critical/high severity, or any type referencing a structural element.
func (c Clash) IsBlocking() bool {
	switch c.Severity {
	case SeverityCritical, SeverityHigh:
		return true
	}
	t := strings.ToLower(c.Type)
	for _, kw := range structuralKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
