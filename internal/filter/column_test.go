package filter

import (
	"testing"

	"github.com/safeplate/safeplate/internal/allergen"
	"github.com/safeplate/safeplate/internal/menu"
)

func columnItems() []menu.MenuItem {
	return []menu.MenuItem{
		{Name: "Grilled Salmon", Profile: map[string]menu.TriState{
			"DAIRY FREE":  menu.TriStateSafe,
			"GLUTEN FREE": menu.TriStateSafe,
			"FISH FREE":   menu.TriStateUnsafe,
		}},
		{Name: "Mac and Cheese", Profile: map[string]menu.TriState{
			"DAIRY FREE":  menu.TriStateUnsafe,
			"GLUTEN FREE": menu.TriStateUnsafe,
			"FISH FREE":   menu.TriStateSafe,
		}},
		{Name: "Veggie Stir Fry", Profile: map[string]menu.TriState{
			"DAIRY FREE":  menu.TriStateConditional,
			"GLUTEN FREE": menu.TriStateSafe,
			"FISH FREE":   menu.TriStateSafe,
		}},
	}
}

func TestFilterByColumns(t *testing.T) {
	reg := allergen.Default()
	items := columnItems()

	t.Run("no restrictions passes everything", func(t *testing.T) {
		result := FilterByColumns(reg, items, nil)
		if len(result.SafeItems) != len(items) {
			t.Errorf("got %d safe items, want %d", len(result.SafeItems), len(items))
		}
		if result.ExcludedCount != 0 || len(result.CautionItems) != 0 {
			t.Errorf("unexpected non-safe results: %+v", result)
		}
	})

	t.Run("unsafe column excludes", func(t *testing.T) {
		result := FilterByColumns(reg, items, []string{"dairy"})
		if result.ExcludedCount != 1 {
			t.Errorf("ExcludedCount = %d, want 1", result.ExcludedCount)
		}
		if len(result.SafeItems) != 1 || result.SafeItems[0].Item.Name != "Grilled Salmon" {
			t.Errorf("unexpected safe items: %+v", result.SafeItems)
		}
		if len(result.CautionItems) != 1 || result.CautionItems[0].Item.Name != "Veggie Stir Fry" {
			t.Errorf("unexpected caution items: %+v", result.CautionItems)
		}
	})

	t.Run("conditional column warns with allergen id", func(t *testing.T) {
		result := FilterByColumns(reg, items, []string{"dairy"})
		got := result.CautionItems[0].Warnings
		if len(got) != 1 || got[0] != "dairy" {
			t.Errorf("Warnings = %v, want [dairy]", got)
		}
	})

	t.Run("all exclusion reasons collected", func(t *testing.T) {
		result := FilterByColumns(reg, items, []string{"dairy", "gluten"})
		if result.ExcludedCount != 1 {
			t.Errorf("ExcludedCount = %d, want 1", result.ExcludedCount)
		}
	})

	t.Run("missing column is skipped", func(t *testing.T) {
		// No SESAME FREE column anywhere: every item passes.
		result := FilterByColumns(reg, items, []string{"sesame"})
		if len(result.SafeItems) != len(items) {
			t.Errorf("got %d safe items, want %d", len(result.SafeItems), len(items))
		}
	})

	t.Run("partition is complete", func(t *testing.T) {
		result := FilterByColumns(reg, items, []string{"dairy", "gluten", "fish"})
		total := len(result.SafeItems) + len(result.CautionItems) + result.ExcludedCount
		if total != len(items) {
			t.Errorf("partition covers %d items, want %d", total, len(items))
		}
	})
}

func TestFilterByConfidence(t *testing.T) {
	reg := allergen.Default()
	items := []menu.MenuItem{
		{Name: "Garden Salad", Confidence: map[string]float64{"dairy": 0.95, "gluten": 0.90}},
		{Name: "Cheese Pizza", Confidence: map[string]float64{"dairy": 0.05, "gluten": 0.05}},
		{Name: "Soup of the Day", Confidence: map[string]float64{"dairy": 0.70, "gluten": 0.85}},
		{Name: "Mystery Special", Confidence: nil},
	}

	t.Run("severity drives classification", func(t *testing.T) {
		result := FilterByConfidence(reg, items, []Restriction{
			{AllergenID: "dairy", Severity: allergen.SeverityAllergy},
		})
		// 0.95 safe, 0.05 excluded, 0.70 caution, missing data 0.30 excluded.
		if len(result.SafeItems) != 1 || result.SafeItems[0].Item.Name != "Garden Salad" {
			t.Errorf("safe = %+v", result.SafeItems)
		}
		if len(result.CautionItems) != 1 || result.CautionItems[0].Item.Name != "Soup of the Day" {
			t.Errorf("caution = %+v", result.CautionItems)
		}
		if result.ExcludedCount != 2 {
			t.Errorf("ExcludedCount = %d, want 2", result.ExcludedCount)
		}
	})

	t.Run("preference severity admits missing data", func(t *testing.T) {
		result := FilterByConfidence(reg, items, []Restriction{
			{AllergenID: "dairy", Severity: allergen.SeverityPreference},
		})
		// Only the explicit 0.05 fails a 0.25 threshold.
		if result.ExcludedCount != 1 {
			t.Errorf("ExcludedCount = %d, want 1", result.ExcludedCount)
		}
		for _, f := range result.SafeItems {
			if f.Item.Name == "Cheese Pizza" {
				t.Error("Cheese Pizza should not be safe for a dairy preference")
			}
		}
	})

	t.Run("life threatening admits only near certainty", func(t *testing.T) {
		result := FilterByConfidence(reg, items, []Restriction{
			{AllergenID: "dairy", Severity: allergen.SeverityLifeThreatening},
		})
		if len(result.SafeItems) != 1 || result.SafeItems[0].Item.Name != "Garden Salad" {
			t.Errorf("safe = %+v", result.SafeItems)
		}
	})

	t.Run("uncataloged restriction dropped", func(t *testing.T) {
		result := FilterByConfidence(reg, items, []Restriction{
			{AllergenID: "kryptonite", Severity: allergen.SeverityAllergy},
		})
		if len(result.SafeItems) != len(items) {
			t.Errorf("got %d safe items, want %d", len(result.SafeItems), len(items))
		}
	})

	t.Run("exclusion short circuits remaining restrictions", func(t *testing.T) {
		result := FilterByConfidence(reg, items, []Restriction{
			{AllergenID: "dairy", Severity: allergen.SeverityAllergy},
			{AllergenID: "gluten", Severity: allergen.SeverityAllergy},
		})
		total := len(result.SafeItems) + len(result.CautionItems) + result.ExcludedCount
		if total != len(items) {
			t.Errorf("partition covers %d items, want %d", total, len(items))
		}
	})
}

func TestNormalizeRestrictions(t *testing.T) {
	reg := allergen.Default()
	out := NormalizeRestrictions(reg, []Restriction{
		{AllergenID: "dairy"},
		{AllergenID: "unobtanium", Severity: allergen.SeverityAllergy},
		{AllergenID: "gluten", Severity: allergen.SeverityLifeThreatening},
	})

	if len(out) != 2 {
		t.Fatalf("got %d restrictions, want 2", len(out))
	}
	if out[0].Severity != allergen.SeverityPreference {
		t.Errorf("empty severity normalized to %q, want preference", out[0].Severity)
	}
	if out[1].AllergenID != "gluten" || out[1].Severity != allergen.SeverityLifeThreatening {
		t.Errorf("unexpected restriction: %+v", out[1])
	}
}

func TestFormatWarnings(t *testing.T) {
	reg := allergen.Default()
	got := FormatWarnings(reg, []string{"vegan", "dairy", "no cilantro"})
	want := []string{
		"Can be made Vegan on request",
		"Can be made Dairy-free on request",
		"no cilantro",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d warnings, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("warning %d = %q, want %q", i, got[i], want[i])
		}
	}
}
