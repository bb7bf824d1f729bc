package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/safeplate/safeplate/internal/allergen"
	"github.com/safeplate/safeplate/internal/filter"
	"github.com/safeplate/safeplate/internal/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completionServer returns an httptest server that answers every chat
// completion request with the given assistant message content,
// capturing request bodies for inspection.
func completionServer(t *testing.T, content string, requests *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if requests != nil {
			*requests = append(*requests, string(body))
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestJudgeItems(t *testing.T) {
	content := `{"items": [
		{"itemName": "Pad Thai", "status": "caution", "confidence": 45, "warnings": ["peanut sauce likely"], "reason": "Thai dishes commonly use peanuts"},
		{"itemName": "Green Salad", "status": "safe", "confidence": 92, "reason": "No restricted ingredients"}
	]}`

	var requests []string
	srv := completionServer(t, content, &requests)
	defer srv.Close()

	client := NewClient("test-key", "gpt-4o-mini", WithBaseURL(srv.URL), WithRateLimit(1000, 1000))

	items := []menu.MenuItem{
		{Name: "Pad Thai", Ingredients: "rice noodles, egg, bean sprouts"},
		{Name: "Green Salad", Ingredients: "lettuce, cucumber"},
	}
	restrictions := []filter.RestrictionPhrase{
		{Text: "Peanuts", Severity: allergen.SeverityAllergy},
	}

	results, err := client.JudgeItems(context.Background(), items, restrictions)
	require.NoError(t, err)
	require.Len(t, results, 2)

	padThai := results["Pad Thai"]
	assert.Equal(t, "caution", padThai.Status)
	assert.Equal(t, 45.0, padThai.Confidence)
	assert.Equal(t, []string{"peanut sauce likely"}, padThai.Warnings)

	// Missing warnings field parses as an empty slice, not nil.
	assert.NotNil(t, results["Green Salad"].Warnings)
	assert.Empty(t, results["Green Salad"].Warnings)

	// The request carries both the item names and the severity context.
	require.Len(t, requests, 1)
	assert.Contains(t, requests[0], "Pad Thai")
	assert.Contains(t, requests[0], "Peanuts (severity: allergy)")
}

func TestJudgeItemsMalformedResponse(t *testing.T) {
	srv := completionServer(t, "not json at all", nil)
	defer srv.Close()

	client := NewClient("test-key", "gpt-4o-mini", WithBaseURL(srv.URL), WithRateLimit(1000, 1000))
	_, err := client.JudgeItems(context.Background(), []menu.MenuItem{{Name: "X"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse judge response")
}

func TestJudgeItemsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", "gpt-4o-mini", WithBaseURL(srv.URL), WithRateLimit(1000, 1000))
	_, err := client.JudgeItems(context.Background(), []menu.MenuItem{{Name: "X"}}, nil)
	require.Error(t, err)
}

func TestResolveText(t *testing.T) {
	var requests []string
	srv := completionServer(t, `{"allergens": ["dairy", "gluten"]}`, &requests)
	defer srv.Close()

	client := NewClient("test-key", "gpt-4o-mini", WithBaseURL(srv.URL), WithRateLimit(1000, 1000))

	ids, err := client.ResolveText(context.Background(), "no bread or milk please", []string{"dairy", "gluten", "soy"})
	require.NoError(t, err)
	assert.Equal(t, []string{"dairy", "gluten"}, ids)

	// The allowed vocabulary is embedded in the prompt.
	require.Len(t, requests, 1)
	assert.Contains(t, requests[0], "dairy, gluten, soy")
}

func TestResolveTextEmptyMatch(t *testing.T) {
	srv := completionServer(t, `{"allergens": []}`, nil)
	defer srv.Close()

	client := NewClient("test-key", "gpt-4o-mini", WithBaseURL(srv.URL), WithRateLimit(1000, 1000))
	ids, err := client.ResolveText(context.Background(), "something unrelated", []string{"dairy"})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestClientRespectsContextCancellation(t *testing.T) {
	client := NewClient("test-key", "gpt-4o-mini", WithRateLimit(0.0001, 1))
	// Exhaust the single burst token, then a cancelled context must
	// fail in the limiter rather than hanging.
	_ = client.limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ResolveText(ctx, "dairy", []string{"dairy"})
	require.Error(t, err)
}
