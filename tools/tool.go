package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

type Tool interface {
	Name() string
	Title() string
	Description() string
	InputSchema() *jsonschema.Schema
	OutputSchema() *jsonschema.Schema
	Run(ctx context.Context, input map[string]any) (output map[string]any, err error)
}

type Call struct {
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// toMap round-trips v through JSON to keep tool outputs uniform.
func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal output: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal output: %w", err)
	}
	return m, nil
}

func stringInput(input map[string]any, key string) string {
	s, _ := input[key].(string)
	return s
}

// stringsInput accepts both decoded JSON arrays and Go string slices.
func stringsInput(input map[string]any, key string) ([]string, error) {
	switch v := input[key].(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: expected string items, got %T", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: expected array of strings, got %T", key, v)
	}
}

func recipeSchema() *jsonschema.Schema {
	minCalories := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":            {Type: "string"},
			"name":          {Type: "string"},
			"ingredients":   {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			"totalCalories": {Type: "integer", Minimum: &minCalories},
			"createdDate":   {Type: "string"},
		},
		Required: []string{"id", "name", "ingredients", "totalCalories", "createdDate"},
	}
}

func ingredientSchema() *jsonschema.Schema {
	minCalories := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":       {Type: "string"},
			"name":     {Type: "string"},
			"category": {Type: "string", Enum: []any{"protein", "vegetable", "grain"}},
			"calories": {Type: "integer", Minimum: &minCalories},
		},
		Required: []string{"id", "name", "category", "calories"},
	}
}
