package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/safeplate/safeplate/internal/filter"
	"github.com/safeplate/safeplate/internal/menu"
)

const judgeSystemPrompt = `You are a food safety analyzer for a restaurant. Analyze each menu item against the diner's dietary restrictions.

For each item, provide:
1. "status": your assessment
   - "safe": the item clearly does NOT contain any of the restricted ingredients
   - "caution": the item MIGHT contain restricted items, or it's unclear
   - "excluded": the item DEFINITELY contains one or more restricted ingredients

2. "confidence": a score from 0-100 for how certain you are that the item is FREE of the restrictions
   - 90-100: ingredients clearly show no presence of restricted items
   - 70-89: likely safe, but the ingredient list may be incomplete
   - 40-69: uncertain, might contain hidden sources
   - 0-39: likely contains or definitely contains restricted items

Consider when determining confidence:
- Is the ingredient list detailed and complete?
- Are there common hidden sources of these ingredients?
- Could this dish typically contain these items even if not listed?

Common knowledge:
- FODMAPs include onions, garlic, wheat, certain fruits, legumes, honey, etc.
- Nightshades include tomatoes, potatoes, peppers, eggplant, paprika
- Cruciferous vegetables include broccoli, cauliflower, cabbage, kale, brussels sprouts
- Stone fruits include peaches, plums, cherries, apricots
- Citrus includes oranges, lemons, limes, grapefruit

Be conservative - if you're not sure, lower the confidence score.

Respond with a JSON object in this exact format, no other text:
{
  "items": [
    {
      "itemName": "Exact Item Name",
      "status": "safe",
      "confidence": 85,
      "warnings": [],
      "reason": "No restricted ingredients found in listed ingredients"
    }
  ]
}`

type judgeItem struct {
	Name        string `json:"name"`
	Ingredients string `json:"ingredients"`
}

type judgeOutput struct {
	Items []filter.Judgment `json:"items"`
}

// JudgeItems analyzes one batch of menu items against restriction
// phrases, returning per-item verdicts keyed by item name. The caller
// owns batching and failure substitution.
func (c *Client) JudgeItems(ctx context.Context, items []menu.MenuItem, restrictions []filter.RestrictionPhrase) (map[string]filter.Judgment, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	descriptions := make([]judgeItem, 0, len(items))
	for _, it := range items {
		descriptions = append(descriptions, judgeItem{Name: it.Name, Ingredients: it.Ingredients})
	}
	itemsJSON, err := json.MarshalIndent(descriptions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}

	phrases := make([]string, 0, len(restrictions))
	for _, r := range restrictions {
		if r.Severity != "" {
			phrases = append(phrases, fmt.Sprintf("%s (severity: %s)", r.Text, r.Severity))
		} else {
			phrases = append(phrases, r.Text)
		}
	}

	userPrompt := fmt.Sprintf("RESTRICTIONS: %s\n\nMENU ITEMS:\n%s",
		strings.Join(phrases, ", "), string(itemsJSON))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: judgeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("judge items: %w", err)
	}

	var output judgeOutput
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &output); err != nil {
		return nil, fmt.Errorf("parse judge response: %w", err)
	}

	results := make(map[string]filter.Judgment, len(output.Items))
	for _, j := range output.Items {
		if j.Warnings == nil {
			j.Warnings = []string{}
		}
		results[j.ItemName] = j
	}
	return results, nil
}
