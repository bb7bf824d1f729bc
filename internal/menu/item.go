package menu

import (
	"strings"

	"github.com/google/uuid"
)

// TriState is a per-item, per-allergen structured value entered by the
// venue. The raw column values come from venue spreadsheets as
// "YES" / "NO" / "CAN BE".
type TriState string

const (
	TriStateSafe        TriState = "YES"    // item is safe for this allergen
	TriStateUnsafe      TriState = "NO"     // item contains this allergen
	TriStateConditional TriState = "CAN BE" // item can be made safe on request
)

// NormalizeTriState maps a raw column cell to a TriState. Anything
// other than an explicit YES or CAN BE is treated as NO: an unreadable
// cell must never default to safe.
func NormalizeTriState(raw string) TriState {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "YES":
		return TriStateSafe
	case "CAN BE":
		return TriStateConditional
	default:
		return TriStateUnsafe
	}
}

// MenuItem is one dish on a venue's menu. Exactly one of Profile or
// Confidence is populated depending on the source's representation;
// the filtering core reads items, never mutates them.
type MenuItem struct {
	ID          uuid.UUID `json:"id,omitempty"`
	Name        string    `json:"name"`
	Ingredients string    `json:"ingredients"`
	Price       float64   `json:"price"`

	// Profile maps column name to tri-state value. A missing entry
	// means the venue has no structured data for that allergen.
	Profile map[string]TriState `json:"allergenProfile,omitempty"`

	// Confidence maps allergen ID to the estimated probability [0,1]
	// that the item is free of that allergen.
	Confidence map[string]float64 `json:"allergenConfidence,omitempty"`
}

// Venue identifies a restaurant whose menu is being filtered.
// Representation is the venue's declared allergen-data shape: the
// orchestrator trusts this declaration instead of inspecting items.
type Venue struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	Representation Representation `json:"representation"`
}
