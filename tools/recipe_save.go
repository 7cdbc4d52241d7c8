package tools

import (
	"context"
	"fmt"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"recipebuilder"
	"recipebuilder/builder"
)

// RecipeSave builds and saves a recipe in one call. Each run uses a fresh
// Builder so validation, de-duplication and the calorie snapshot behave
// exactly as in an interactive session.
type RecipeSave struct {
	catalog []recipebuilder.Ingredient
	store   recipebuilder.RecipeStore
	opts    []builder.Option
}

func NewRecipeSave(catalog []recipebuilder.Ingredient, store recipebuilder.RecipeStore, opts ...builder.Option) *RecipeSave {
	return &RecipeSave{catalog: slices.Clone(catalog), store: store, opts: opts}
}

func (t *RecipeSave) Name() string  { return "recipe_save" }
func (t *RecipeSave) Title() string { return "Save Recipe" }
func (t *RecipeSave) Description() string {
	return "Saves a named combination of catalog ingredient ids and returns the stored recipe with its calorie total."
}

func (t *RecipeSave) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":        {Type: "string"},
			"ingredients": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
		Required: []string{"name", "ingredients"},
	}
}

func (t *RecipeSave) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"recipe": recipeSchema(),
		},
		Required: []string{"recipe"},
	}
}

func (t *RecipeSave) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	ids, err := stringsInput(input, "ingredients")
	if err != nil {
		return nil, err
	}

	b := builder.New(ctx, t.store, t.opts...)
	b.SetCatalog(t.catalog)
	b.SetName(stringInput(input, "name"))
	for _, id := range ids {
		b.AddIngredient(id)
	}

	recipe, err := b.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("save recipe: %w", err)
	}
	return toMap(map[string]any{"recipe": recipe})
}
