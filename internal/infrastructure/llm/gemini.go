package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/labelcheck/backend/internal/domain"
	"google.golang.org/api/option"
)

// GeminiClient generates text with the Google Gemini API
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a new Gemini API client
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelName: model}, nil
}

// Generate sends the prompt pair and returns the concatenated text parts of the first candidate
func (c *GeminiClient) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	// a fresh model per call keeps request settings out of shared state
	model := c.client.GenerativeModel(c.modelName)
	if prompt.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.System)}}
	}
	if prompt.JSONSchema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = schemaFromJSON(prompt.JSONSchema)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no content generated", domain.ErrLLMFailure)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: generated content is not text", domain.ErrLLMFailure)
	}
	return sb.String(), nil
}

// Close closes the underlying Gemini client
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

var schemaTypes = map[string]genai.Type{
	"object":  genai.TypeObject,
	"array":   genai.TypeArray,
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
}

// schemaFromJSON converts a JSON Schema document into the Gemini schema subset.
// Keywords Gemini has no field for, such as additionalProperties, are dropped.
func schemaFromJSON(doc map[string]interface{}) *genai.Schema {
	if doc == nil {
		return nil
	}
	schema := &genai.Schema{}
	if t, ok := doc["type"].(string); ok {
		schema.Type = schemaTypes[strings.ToLower(t)]
	}
	if d, ok := doc["description"].(string); ok {
		schema.Description = d
	}
	if n, ok := doc["nullable"].(bool); ok {
		schema.Nullable = n
	}
	if props, ok := doc["properties"].(map[string]interface{}); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if sub, ok := raw.(map[string]interface{}); ok {
				schema.Properties[name] = schemaFromJSON(sub)
			}
		}
	}
	if items, ok := doc["items"].(map[string]interface{}); ok {
		schema.Items = schemaFromJSON(items)
	}
	schema.Required = stringList(doc["required"])
	schema.Enum = stringList(doc["enum"])
	return schema
}

func stringList(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
