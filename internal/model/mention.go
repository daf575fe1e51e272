package model

// Confidence grades how sure the normalizer is about a mention mapping.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ClampConfidence coerces an arbitrary string into the confidence enum.
// Anything outside the enum becomes low rather than propagating raw.
func ClampConfidence(s string) Confidence {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(s)
	default:
		return ConfidenceLow
	}
}

// NameMention maps one free-text player reference to a best-guess canonical
// name. Normalized is nil when no plausible candidate exists.
type NameMention struct {
	Original   string     `json:"original"`
	Normalized *string    `json:"normalized"`
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason,omitempty"`
}

// Normalization is the canonical internal representation of the normalizer's
// output, regardless of which response shape the oracle produced.
type Normalization struct {
	Players []NameMention `json:"players"`
}
