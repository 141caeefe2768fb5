package model

// Urgency is the three-level severity label assigned by the classifier.
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// ValidUrgency reports whether u is one of the three urgency levels.
func ValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// Classification is the structured result of classifying an issue's text.
type Classification struct {
	Category       Category `json:"category"`
	SuggestedTitle string   `json:"suggested_title"`
	Summary        string   `json:"summary"`
	Tags           []string `json:"tags"`
	Urgency        Urgency  `json:"urgency"`
}
