package filter

import (
	"github.com/safeplate/safeplate/internal/allergen"
	"github.com/safeplate/safeplate/internal/menu"
)

// Restriction is a user-declared constraint against a cataloged
// allergen. Severity is always populated; callers normalize it once at
// the boundary via NormalizeRestrictions.
type Restriction struct {
	AllergenID string            `json:"id"`
	Severity   allergen.Severity `json:"severity"`
}

// CustomTag is a free-text restriction that did not resolve to a
// cataloged allergen.
type CustomTag struct {
	Text     string            `json:"text"`
	Label    string            `json:"label,omitempty"`
	Severity allergen.Severity `json:"severity,omitempty"`
}

// FilteredItem is one menu item with the warnings and exclusion
// reasons accumulated while evaluating restrictions against it.
// Warnings preserve the allergen or tag that triggered them, in the
// order restrictions were evaluated.
type FilteredItem struct {
	Item     menu.MenuItem `json:"item"`
	Safe     bool          `json:"safe"`
	Warnings []string      `json:"warnings"`
	Excluded []string      `json:"excluded"`
}

// FilterResult partitions a menu into safe items, caution items, and a
// count of excluded items. Every input item lands in exactly one
// partition. Exclusion reasons for excluded items are not retained.
type FilterResult struct {
	SafeItems     []FilteredItem `json:"safeItems"`
	CautionItems  []FilteredItem `json:"cautionItems"`
	ExcludedCount int            `json:"excludedCount"`
}

// NormalizeRestrictions returns a copy with severities populated and
// restrictions referencing uncataloged allergens dropped. Skipping
// unknown references rather than failing the request is a deliberate
// availability-over-strictness choice.
func NormalizeRestrictions(reg *allergen.Registry, restrictions []Restriction) []Restriction {
	out := make([]Restriction, 0, len(restrictions))
	for _, r := range restrictions {
		if !reg.Contains(r.AllergenID) {
			continue
		}
		r.Severity = allergen.Normalize(r.Severity)
		out = append(out, r)
	}
	return out
}

func allSafe(items []menu.MenuItem) FilterResult {
	result := FilterResult{SafeItems: make([]FilteredItem, 0, len(items))}
	for _, it := range items {
		result.SafeItems = append(result.SafeItems, FilteredItem{
			Item: it, Safe: true, Warnings: []string{}, Excluded: []string{},
		})
	}
	return result
}
