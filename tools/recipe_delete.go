package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"recipebuilder"
)

type RecipeDelete struct{ store recipebuilder.RecipeStore }

func NewRecipeDelete(store recipebuilder.RecipeStore) *RecipeDelete {
	return &RecipeDelete{store: store}
}

func (t *RecipeDelete) Name() string  { return "recipe_delete" }
func (t *RecipeDelete) Title() string { return "Delete Recipe" }
func (t *RecipeDelete) Description() string {
	return "Deletes every saved recipe with the given id and reports how many recipes remain."
}

func (t *RecipeDelete) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id": {Type: "string"},
		},
		Required: []string{"id"},
	}
}

func (t *RecipeDelete) OutputSchema() *jsonschema.Schema {
	minRemaining := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"deleted":   {Type: "string"},
			"remaining": {Type: "integer", Minimum: &minRemaining},
		},
		Required: []string{"deleted", "remaining"},
	}
}

func (t *RecipeDelete) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	id := stringInput(input, "id")
	if id == "" {
		return nil, fmt.Errorf("recipe_delete: id is required")
	}

	if err := t.store.DeleteRecipe(ctx, id); err != nil {
		return nil, fmt.Errorf("delete recipe %q: %w", id, err)
	}

	return map[string]any{
		"deleted":   id,
		"remaining": len(t.store.GetAllRecipes(ctx)),
	}, nil
}
