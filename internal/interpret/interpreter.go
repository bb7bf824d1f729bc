package interpret

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/safeplate/safeplate/internal/allergen"
)

// Resolver is the external AI text-resolution capability: free text in,
// IDs from the allowed vocabulary out.
type Resolver interface {
	ResolveText(ctx context.Context, text string, vocabulary []string) ([]string, error)
}

// Result is the outcome of resolving free-form restriction text.
// Unmatched text is reported back to the caller to surface to the
// user; it is never silently dropped.
type Result struct {
	MatchedIDs []string `json:"matchedAllergens"`
	Unmatched  string   `json:"unmatchedText,omitempty"`
	Method     string   `json:"method"` // local, ai, none
}

// Interpreter maps free-form restriction text to cataloged allergen
// IDs: a deterministic token-matching stage first, an AI fallback only
// when that stage finds nothing.
type Interpreter struct {
	reg      *allergen.Registry
	resolver Resolver
}

// New creates an interpreter. resolver may be nil, in which case
// unresolved text goes straight to the unmatched remainder.
func New(reg *allergen.Registry, resolver Resolver) *Interpreter {
	return &Interpreter{reg: reg, resolver: resolver}
}

var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// stopWords drops pronouns, articles, negations, and generic allergy
// vocabulary so only substance terms survive tokenization.
var stopWords = map[string]bool{
	"i": true, "im": true, "me": true, "my": true, "we": true, "you": true,
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"to": true, "is": true, "am": true, "are": true, "it": true, "have": true,
	"has": true, "had": true, "with": true, "any": true, "some": true,
	"no": true, "not": true, "can": true, "cant": true, "cannot": true, "dont": true,
	"wont": true, "never": true, "avoid": true, "without": true,
	"eat": true, "eating": true, "food": true, "foods": true,
	"product": true, "products": true, "stuff": true, "things": true,
	"allergic": true, "allergy": true, "allergies": true, "allergen": true,
	"intolerant": true, "intolerance": true, "sensitive": true,
	"sensitivity": true, "free": true, "please": true, "really": true,
	"very": true, "severe": true, "mild": true,
}

type matchRank int

const (
	rankExact matchRank = iota
	rankSubstring
	rankFuzzy
)

// Resolve maps free text to cataloged allergen IDs. Stage A is pure
// and synchronous; Stage B invokes the AI capability only when Stage A
// finds nothing. Resolving the same text twice yields the same result.
func (in *Interpreter) Resolve(ctx context.Context, text string) (Result, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{MatchedIDs: []string{}, Method: "none"}, nil
	}

	if matched := in.localMatch(trimmed); len(matched) > 0 {
		return Result{MatchedIDs: matched, Method: "local"}, nil
	}

	if in.resolver == nil {
		return Result{MatchedIDs: []string{}, Unmatched: trimmed, Method: "none"}, nil
	}

	ids, err := in.resolver.ResolveText(ctx, trimmed, in.reg.IDs())
	if err != nil {
		return Result{MatchedIDs: []string{}, Unmatched: trimmed, Method: "none"}, err
	}

	// Discard anything outside the catalog; the capability may
	// hallucinate identifiers.
	valid := []string{}
	for _, id := range ids {
		if in.reg.Contains(id) {
			valid = append(valid, id)
		}
	}
	sort.Strings(valid)

	if len(valid) == 0 {
		return Result{MatchedIDs: []string{}, Unmatched: trimmed, Method: "ai"}, nil
	}
	return Result{MatchedIDs: valid, Method: "ai"}, nil
}

// localMatch is Stage A: tokenize, then try exact, substring, and
// fuzzy matching of each candidate term against the catalog's IDs and
// synonyms. Matches are deduplicated per allergen and ranked
// exact > substring > fuzzy, alphabetical by ID as the tiebreak.
func (in *Interpreter) localMatch(text string) []string {
	candidates := tokenize(text)
	// The full normalized phrase catches multi-word terms like "tree nuts".
	phrase := strings.TrimSpace(punctuationRegex.ReplaceAllString(strings.ToLower(text), " "))
	if phrase != "" {
		candidates = append(candidates, phrase)
	}

	best := map[string]matchRank{}
	for _, term := range candidates {
		for _, a := range in.reg.All() {
			rank, ok := matchTerm(term, a)
			if !ok {
				continue
			}
			if prev, seen := best[a.ID]; !seen || rank < prev {
				best[a.ID] = rank
			}
		}
	}

	ids := make([]string, 0, len(best))
	for id := range best {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if best[ids[i]] != best[ids[j]] {
			return best[ids[i]] < best[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}

// matchTerm tries one candidate term against one allergen's ID and
// synonyms, returning the best rank that applies.
func matchTerm(term string, a allergen.Allergen) (matchRank, bool) {
	names := append([]string{a.ID}, a.Synonyms...)

	for _, name := range names {
		if term == strings.ToLower(name) {
			return rankExact, true
		}
	}
	// Substring and fuzzy matching need enough signal to be meaningful;
	// two-letter fragments match half the catalog.
	if len(term) >= 3 {
		for _, name := range names {
			lower := strings.ToLower(name)
			if strings.Contains(term, lower) || strings.Contains(lower, term) {
				return rankSubstring, true
			}
		}
	}
	// Fuzzy matching applies to single-word terms only.
	if len(term) >= 3 && !strings.Contains(term, " ") {
		budget := 2
		if len(term) <= 3 {
			budget = 1
		}
		for _, name := range names {
			lower := strings.ToLower(name)
			if strings.Contains(lower, " ") {
				continue
			}
			if fuzzyMatch(term, lower, budget) {
				return rankFuzzy, true
			}
		}
	}
	return 0, false
}

// tokenize lowercases, strips punctuation, and drops stop words.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 1 || stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// fuzzyMatch reports whether two tokens are within the edit-distance
// budget. The length-difference check is a cheap pre-filter before
// computing full edit distance.
func fuzzyMatch(a, b string, budget int) bool {
	if a == b {
		return true
	}
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > budget {
		return false
	}
	return levenshtein(a, b) <= budget
}

// levenshtein computes edit distance using two rows instead of the
// full matrix.
func levenshtein(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}
