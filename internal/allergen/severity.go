package allergen

// Severity is how strict a declared restriction is.
type Severity string

const (
	SeverityPreference      Severity = "preference"
	SeverityAllergy         Severity = "allergy"
	SeverityLifeThreatening Severity = "life_threatening"
)

// Confidence thresholds per severity. A restriction passes only when
// the item's allergen-free confidence meets its severity's threshold:
//   - preference: low bar, user just prefers to avoid
//   - allergy: must be fairly certain the item is safe
//   - life_threatening: near certainty, only explicitly safe items
var severityThresholds = map[Severity]float64{
	SeverityPreference:      0.25,
	SeverityAllergy:         0.80,
	SeverityLifeThreatening: 0.95,
}

// cautionBand scales the threshold down to define the buffer zone where
// an item is neither confidently safe nor clearly unsafe.
const cautionBand = 0.8

// DefaultNoDataConfidence is the confidence assigned when no allergen
// data exists for an item. Positioned so it passes preference-level
// thresholds but fails allergy and life-threatening ones.
const DefaultNoDataConfidence = 0.30

// Normalize returns a populated severity, defaulting to preference for
// empty or unrecognized values. Every downstream component assumes
// severities have passed through here.
func Normalize(s Severity) Severity {
	switch s {
	case SeverityAllergy, SeverityLifeThreatening, SeverityPreference:
		return s
	default:
		return SeverityPreference
	}
}

// Threshold returns the required allergen-free confidence for a severity.
func Threshold(s Severity) float64 {
	return severityThresholds[Normalize(s)]
}

// Strictest returns the most conservative severity in the list:
// life_threatening > allergy > preference. Empty input yields preference.
func Strictest(severities []Severity) Severity {
	out := SeverityPreference
	for _, s := range severities {
		switch Normalize(s) {
		case SeverityLifeThreatening:
			return SeverityLifeThreatening
		case SeverityAllergy:
			out = SeverityAllergy
		}
	}
	return out
}

// Category is the classification of one item against one restriction.
type Category string

const (
	CategorySafe     Category = "safe"
	CategoryCaution  Category = "caution"
	CategoryExcluded Category = "excluded"
)

// Classify maps a confidence score against a threshold. Confidence at
// or above the threshold is safe; below 80% of the threshold is
// excluded; the band in between is caution and must be surfaced to the
// user rather than silently hidden or silently allowed.
func Classify(confidence, threshold float64) Category {
	switch {
	case confidence >= threshold:
		return CategorySafe
	case confidence >= threshold*cautionBand:
		return CategoryCaution
	default:
		return CategoryExcluded
	}
}

// RiskLevel is a venue-level qualitative cross-contamination signal for
// a specific allergen, derived from kitchen equipment sharing.
type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Adjustment returns the signed confidence delta for a risk level.
// Dedicated equipment increases confidence beyond ingredient evidence
// alone; shared high-risk equipment decreases it even when ingredients
// look clean.
func (r RiskLevel) Adjustment() float64 {
	switch r {
	case RiskNone:
		return 0.20
	case RiskLow:
		return 0.10
	case RiskHigh:
		return -0.20
	default:
		return 0
	}
}
