package filter

import (
	"fmt"

	"github.com/safeplate/safeplate/internal/allergen"
)

// FormatWarnings turns allergen IDs into human-readable request
// phrases. Dietary preferences read "can be made Vegan on request";
// allergens read "can be made Dairy-free on request". Free-text tags
// that never resolved to the catalog pass through by label.
func FormatWarnings(reg *allergen.Registry, warnings []string) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		if !reg.Contains(w) {
			out = append(out, w)
			continue
		}
		label := reg.Label(w)
		if reg.IsPreference(w) {
			out = append(out, fmt.Sprintf("Can be made %s on request", label))
		} else {
			out = append(out, fmt.Sprintf("Can be made %s-free on request", label))
		}
	}
	return out
}
