package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"recipebuilder"
)

type RecipeList struct{ store recipebuilder.RecipeStore }

func NewRecipeList(store recipebuilder.RecipeStore) *RecipeList { return &RecipeList{store: store} }

func (t *RecipeList) Name() string  { return "recipe_list" }
func (t *RecipeList) Title() string { return "List Saved Recipes" }
func (t *RecipeList) Description() string {
	return "Lists saved recipes, most recently saved first. An optional limit caps the number returned."
}

func (t *RecipeList) InputSchema() *jsonschema.Schema {
	minLimit := 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"limit": {Type: "integer", Minimum: &minLimit},
		},
	}
}

func (t *RecipeList) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"recipes": {Type: "array", Items: recipeSchema()},
			"count":   {Type: "integer"},
		},
		Required: []string{"recipes", "count"},
	}
}

func (t *RecipeList) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	recipes := t.store.GetAllRecipes(ctx)
	total := len(recipes)

	limit := 0
	switch v := input["limit"].(type) {
	case float64:
		limit = int(v)
	case int:
		limit = v
	}
	if limit >= 1 && limit < len(recipes) {
		recipes = recipes[:limit]
	}

	return toMap(struct {
		Recipes []recipebuilder.Recipe `json:"recipes"`
		Count   int                    `json:"count"`
	}{Recipes: recipes, Count: total})
}
