package filter

import (
	"math"
	"strings"

	"github.com/safeplate/safeplate/internal/allergen"
	"github.com/safeplate/safeplate/internal/menu"
)

// Base confidence scores by evidence source. The resolution order is:
// explicit venue flag, then ingredient keyword scan, then the no-data
// constant. Cross-contamination adjustments apply on top.
const (
	baseExplicitFree     = 0.95 // venue marked the item free of the allergen
	baseExplicitContains = 0.05 // venue marked the item as containing it
	baseKeywordFound     = 0.10 // allergen keyword found in the ingredients
	baseNoKeywordFound   = 0.60 // ingredients listed, no keyword found
	baseNoIngredientData = allergen.DefaultNoDataConfidence
)

// ScoreInput carries the evidence for one menu item.
type ScoreInput struct {
	// Ingredients is the item's free-text ingredient list; empty means
	// no ingredient data is available.
	Ingredients string

	// Flags maps profile keys like "dairy_free" to the venue's explicit
	// declaration. A missing key means no explicit flag.
	Flags map[string]bool

	// Risks is the venue's per-allergen cross-contamination levels.
	// Nil or a missing entry means no adjustment.
	Risks map[string]allergen.RiskLevel
}

// profileKey converts an allergen ID to its explicit-flag key,
// e.g. "dairy" -> "dairy_free".
func profileKey(allergenID string) string {
	return allergenID + "_free"
}

// Score computes the probability that an item is free of one allergen.
// Pure: the same input always yields the same score.
func Score(reg *allergen.Registry, allergenID string, in ScoreInput) float64 {
	ingredients := strings.ToLower(in.Ingredients)

	var score float64
	if flag, ok := in.Flags[profileKey(allergenID)]; ok {
		if flag {
			score = baseExplicitFree
		} else {
			score = baseExplicitContains
		}
	} else if strings.TrimSpace(ingredients) == "" {
		score = baseNoIngredientData
	} else if containsKeyword(reg, allergenID, ingredients) {
		score = baseKeywordFound
	} else {
		score = baseNoKeywordFound
	}

	if risk, ok := in.Risks[allergenID]; ok {
		score = clamp(score + risk.Adjustment())
	}

	// Two decimal places, matching stored precision.
	return math.Round(score*100) / 100
}

// ScoreAll computes the full confidence map for one item across every
// cataloged allergen.
func ScoreAll(reg *allergen.Registry, in ScoreInput) map[string]float64 {
	out := make(map[string]float64)
	for _, a := range reg.All() {
		out[a.ID] = Score(reg, a.ID, in)
	}
	return out
}

// ScoreBatch computes confidence maps for multiple items. Each item is
// scored independently; there is no cross-item state.
func ScoreBatch(reg *allergen.Registry, items []menu.MenuItem, flags map[string]map[string]bool, risks map[string]allergen.RiskLevel) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(items))
	for _, it := range items {
		out[it.Name] = ScoreAll(reg, ScoreInput{
			Ingredients: it.Ingredients,
			Flags:       flags[it.Name],
			Risks:       risks,
		})
	}
	return out
}

func containsKeyword(reg *allergen.Registry, allergenID, ingredientsLower string) bool {
	for _, kw := range reg.Keywords(allergenID) {
		if strings.Contains(ingredientsLower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
