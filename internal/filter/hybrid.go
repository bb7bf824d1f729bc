package filter

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/safeplate/safeplate/internal/allergen"
	"github.com/safeplate/safeplate/internal/menu"
)

// DefaultBatchSize caps how many items one AI call may carry, bounding
// request size and latency.
const DefaultBatchSize = 20

// RestrictionPhrase is one entry of the AI query: the restriction text
// with its severity context.
type RestrictionPhrase struct {
	Text     string            `json:"text"`
	Severity allergen.Severity `json:"severity,omitempty"`
}

// Judgment is the AI capability's per-item verdict. Confidence is
// 0-100 on the wire, meaning how certain the item is FREE of the
// restrictions.
type Judgment struct {
	ItemName   string   `json:"itemName"`
	Status     string   `json:"status"`
	Confidence float64  `json:"confidence"`
	Warnings   []string `json:"warnings"`
	Reason     string   `json:"reason"`
}

// Judge is the external AI judgment capability, invoked on one batch
// of items at a time. Items missing from the returned map are handled
// by the caller, which defaults them to caution.
type Judge interface {
	JudgeItems(ctx context.Context, items []menu.MenuItem, restrictions []RestrictionPhrase) (map[string]Judgment, error)
}

// Hybrid composes deterministic filtering with AI-assisted ingredient
// analysis. The deterministic pass always runs first so the expensive
// judgment is applied to the smallest possible item set.
type Hybrid struct {
	reg       *allergen.Registry
	judge     Judge
	batchSize int
}

// NewHybrid creates the orchestrator. batchSize <= 0 selects the default.
func NewHybrid(reg *allergen.Registry, judge Judge, batchSize int) *Hybrid {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Hybrid{reg: reg, judge: judge, batchSize: batchSize}
}

// Filter is the composition entry point. It partitions restrictions
// into those with structured data and those needing AI analysis, runs
// the deterministic filter, then delegates only the surviving items to
// the AI capability.
//
// AI failures never surface as errors: each failed batch degrades to
// caution items with a verify-with-staff warning at the no-data
// confidence, which the severity thresholds then classify.
func (h *Hybrid) Filter(ctx context.Context, rep menu.Representation, items []menu.MenuItem, restrictions []Restriction, customTags []CustomTag) FilterResult {
	restrictions = NormalizeRestrictions(h.reg, restrictions)

	structured, needsAI := h.partition(rep, items, restrictions)

	// Fast path: everything is answerable deterministically.
	if len(needsAI) == 0 && len(customTags) == 0 {
		return h.deterministic(rep, items, structured)
	}

	// Stage 1: deterministic pass over the full item set, restricted to
	// allergens with structured data. Only items it does not exclude go
	// on to AI analysis.
	stage := h.deterministic(rep, items, structured)

	reduced := make([]menu.MenuItem, 0, len(stage.SafeItems)+len(stage.CautionItems))
	carried := make(map[string][]string, len(stage.CautionItems))
	for _, f := range stage.SafeItems {
		reduced = append(reduced, f.Item)
	}
	for _, f := range stage.CautionItems {
		reduced = append(reduced, f.Item)
		carried[f.Item.Name] = f.Warnings
	}

	result := FilterResult{ExcludedCount: stage.ExcludedCount}
	if len(reduced) == 0 {
		return result
	}

	// Stage 2: AI judgment over the reduced set.
	phrases := h.buildPhrases(needsAI, customTags)
	judgments := h.judgeAll(ctx, reduced, phrases)

	// The most conservative severity among all AI-evaluated restrictions
	// sets the threshold for the whole unresolved set.
	severities := make([]allergen.Severity, 0, len(phrases))
	for _, p := range phrases {
		severities = append(severities, p.Severity)
	}
	threshold := allergen.Threshold(allergen.Strictest(severities))

	texts := make([]string, 0, len(phrases))
	for _, p := range phrases {
		texts = append(texts, p.Text)
	}

	for _, it := range reduced {
		j := judgments[it.Name]
		category := allergen.Classify(j.Confidence/100, threshold)

		if category == allergen.CategoryExcluded {
			result.ExcludedCount++
			continue
		}

		warnings := append([]string{}, carried[it.Name]...)
		warnings = append(warnings, j.Warnings...)

		if category == allergen.CategorySafe && len(warnings) == 0 {
			result.SafeItems = append(result.SafeItems, FilteredItem{
				Item: it, Safe: true, Warnings: []string{}, Excluded: []string{},
			})
			continue
		}

		if len(warnings) == 0 {
			warnings = texts
		}
		result.CautionItems = append(result.CautionItems, FilteredItem{
			Item: it, Warnings: warnings, Excluded: []string{},
		})
	}

	return result
}

// partition splits restrictions by structured-data availability. A
// confidence-map source covers the whole catalog, so every cataloged
// restriction is structured; a column source covers an allergen only
// when its column is populated somewhere in the item set.
func (h *Hybrid) partition(rep menu.Representation, items []menu.MenuItem, restrictions []Restriction) (structured, needsAI []Restriction) {
	if rep == menu.RepresentationConfidence {
		return restrictions, nil
	}
	for _, r := range restrictions {
		column, ok := h.reg.Column(r.AllergenID)
		if ok && menu.HasColumn(items, column) {
			structured = append(structured, r)
		} else {
			needsAI = append(needsAI, r)
		}
	}
	return structured, needsAI
}

// deterministic runs the filter matching the source's declared
// representation. Confidence maps supersede columns: they encode
// finer-grained severity-aware evidence.
func (h *Hybrid) deterministic(rep menu.Representation, items []menu.MenuItem, restrictions []Restriction) FilterResult {
	if rep == menu.RepresentationConfidence {
		return FilterByConfidence(h.reg, items, restrictions)
	}
	ids := make([]string, 0, len(restrictions))
	for _, r := range restrictions {
		ids = append(ids, r.AllergenID)
	}
	return FilterByColumns(h.reg, items, ids)
}

// buildPhrases assembles the AI query: one entry per unresolved
// allergen by label, plus one per custom tag by its raw text.
func (h *Hybrid) buildPhrases(needsAI []Restriction, customTags []CustomTag) []RestrictionPhrase {
	phrases := make([]RestrictionPhrase, 0, len(needsAI)+len(customTags))
	for _, r := range needsAI {
		phrases = append(phrases, RestrictionPhrase{
			Text:     h.reg.Label(r.AllergenID),
			Severity: r.Severity,
		})
	}
	for _, t := range customTags {
		phrases = append(phrases, RestrictionPhrase{
			Text:     t.Text,
			Severity: allergen.Normalize(t.Severity),
		})
	}
	return phrases
}

// judgeAll runs sequential batches through the judge. A failure in one
// batch substitutes the fallback verdict for that batch only; completed
// batches keep their results.
func (h *Hybrid) judgeAll(ctx context.Context, items []menu.MenuItem, phrases []RestrictionPhrase) map[string]Judgment {
	restrictionList := make([]string, 0, len(phrases))
	for _, p := range phrases {
		restrictionList = append(restrictionList, p.Text)
	}

	judgments := make(map[string]Judgment, len(items))
	for start := 0; start < len(items); start += h.batchSize {
		end := start + h.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		batchResults, err := h.judge.JudgeItems(ctx, batch, phrases)
		if err != nil {
			log.Printf("ai batch analysis failed (%d items): %v", len(batch), err)
			for _, it := range batch {
				judgments[it.Name] = fallbackJudgment(it.Name, restrictionList)
			}
			continue
		}

		for _, it := range batch {
			j, ok := batchResults[it.Name]
			if !ok {
				// Item not echoed back: default to caution.
				j = Judgment{
					ItemName:   it.Name,
					Status:     string(allergen.CategoryCaution),
					Confidence: allergen.DefaultNoDataConfidence * 100,
					Warnings:   []string{"Unable to determine - please ask staff"},
					Reason:     "Item not analyzed",
				}
			}
			judgments[it.Name] = j
		}
	}
	return judgments
}

// fallbackJudgment is the substituted verdict when the AI capability
// fails: caution at the no-data confidence, never safe, never silently
// excluded. The severity threshold downstream decides the net effect.
func fallbackJudgment(itemName string, restrictions []string) Judgment {
	return Judgment{
		ItemName:   itemName,
		Status:     string(allergen.CategoryCaution),
		Confidence: allergen.DefaultNoDataConfidence * 100,
		Warnings:   []string{fmt.Sprintf("Please verify with staff regarding: %s", strings.Join(restrictions, ", "))},
		Reason:     "AI analysis unavailable",
	}
}
