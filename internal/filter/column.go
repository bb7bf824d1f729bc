package filter

import (
	"github.com/safeplate/safeplate/internal/allergen"
	"github.com/safeplate/safeplate/internal/menu"
)

// FilterByColumns partitions items using explicit tri-state columns.
// For each requested allergen with structured data: NO excludes the
// item, CAN BE adds a warning, YES passes. A column absent for an item
// means "no information" and is skipped here; routing such allergens to
// AI analysis is the orchestrator's job, never an assumption of safety.
// All exclusion reasons for an item are collected even after the first
// unsafe value.
func FilterByColumns(reg *allergen.Registry, items []menu.MenuItem, allergenIDs []string) FilterResult {
	if len(allergenIDs) == 0 {
		return allSafe(items)
	}

	var result FilterResult
	for _, it := range items {
		warnings := []string{}
		excluded := []string{}

		for _, id := range allergenIDs {
			column, ok := reg.Column(id)
			if !ok {
				continue // uncataloged allergen, no-op
			}
			value, ok := it.Profile[column]
			if !ok {
				continue // no structured data for this allergen
			}

			switch value {
			case menu.TriStateUnsafe:
				excluded = append(excluded, id)
			case menu.TriStateConditional:
				warnings = append(warnings, id)
			}
		}

		switch {
		case len(excluded) > 0:
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
