package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const resolverPromptTemplate = `You are an allergy text interpreter for a restaurant menu system.

Map the following user text to any matching allergens from this list:
%s

User text: %q

Rules:
- Handle spelling errors (e.g., "dary" means dairy, "glutin" means gluten)
- Handle synonyms (e.g., "lactose" means dairy, "wheat" relates to gluten)
- Handle related terms (e.g., "tree nuts" covers pistachio, walnut, almond)
- Only return allergens from the known list
- If no matches, return an empty array

Respond with a JSON object: {"allergens": ["dairy", "gluten"]}`

type resolverOutput struct {
	Allergens []string `json:"allergens"`
}

// ResolveText maps free text to identifiers from the allowed
// vocabulary. The caller validates the output against its own catalog;
// this method only parses.
func (c *Client) ResolveText(ctx context.Context, text string, vocabulary []string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(resolverPromptTemplate, strings.Join(vocabulary, ", "), text)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   100,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve text: %w", err)
	}

	var output resolverOutput
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &output); err != nil {
		return nil, fmt.Errorf("parse resolver response: %w", err)
	}
	return output.Allergens, nil
}
