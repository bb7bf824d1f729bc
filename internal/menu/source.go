package menu

import "context"

// Representation declares which allergen data shape a source provides.
// The orchestrator selects its deterministic filter from this declared
// capability instead of sniffing the first item at runtime.
type Representation string

const (
	// RepresentationColumns: items carry tri-state Profile maps.
	RepresentationColumns Representation = "columns"
	// RepresentationConfidence: items carry precomputed Confidence maps.
	RepresentationConfidence Representation = "confidence"
)

// Source provides menu items for one venue. Implementations are
// external collaborators (database, spreadsheet import); the filtering
// core only ever reads from them.
type Source interface {
	Representation() Representation
	Fetch(ctx context.Context) ([]MenuItem, error)
}

// HasColumn reports whether any item in the set carries structured
// data for the given column. An allergen whose column is absent across
// the whole set has no structured data and is routed to AI analysis.
func HasColumn(items []MenuItem, column string) bool {
	for _, it := range items {
		if _, ok := it.Profile[column]; ok {
			return true
		}
	}
	return false
}
