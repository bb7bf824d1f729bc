package filter

import (
	"github.com/safeplate/safeplate/internal/allergen"
	"github.com/safeplate/safeplate/internal/menu"
)

// FilterByConfidence partitions items carrying precomputed confidence
// maps, classifying each restriction's confidence against its
// severity threshold. An allergen missing from the item's map scores
// the no-data constant. The first excluded verdict excludes the item
// and stops further evaluation for it; caution verdicts accumulate
// into warnings in restriction order.
func FilterByConfidence(reg *allergen.Registry, items []menu.MenuItem, restrictions []Restriction) FilterResult {
	restrictions = NormalizeRestrictions(reg, restrictions)
	if len(restrictions) == 0 {
		return allSafe(items)
	}

	var result FilterResult
	for _, it := range items {
		warnings := []string{}
		excluded := []string{}
		isExcluded := false

		for _, r := range restrictions {
			confidence, ok := it.Confidence[r.AllergenID]
			if !ok {
				confidence = allergen.DefaultNoDataConfidence
			}

			switch allergen.Classify(confidence, allergen.Threshold(r.Severity)) {
			case allergen.CategoryExcluded:
				isExcluded = true
				excluded = append(excluded, r.AllergenID)
			case allergen.CategoryCaution:
				warnings = append(warnings, r.AllergenID)
			}
			if isExcluded {
				break
			}
		}

		switch {
		case isExcluded:
			result.ExcludedCount++
		case len(warnings) > 0:
			result.CautionItems = append(result.CautionItems, FilteredItem{
				Item: it, Warnings: warnings, Excluded: excluded,
			})
		default:
			result.SafeItems = append(result.SafeItems, FilteredItem{
				Item: it, Safe: true, Warnings: warnings, Excluded: excluded,
			})
		}
	}
	return result
}
