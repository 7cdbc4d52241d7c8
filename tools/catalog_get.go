package tools

import (
	"context"
	"fmt"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"recipebuilder"
	"recipebuilder/builder"
)

type CatalogGet struct{ catalog []recipebuilder.Ingredient }

func NewCatalogGet(catalog []recipebuilder.Ingredient) *CatalogGet {
	return &CatalogGet{catalog: slices.Clone(catalog)}
}

func (t *CatalogGet) Name() string  { return "catalog_get" }
func (t *CatalogGet) Title() string { return "Get Ingredient Catalog" }
func (t *CatalogGet) Description() string {
	return "Returns the selectable ingredients, optionally limited to one category, plus the catalog grouped by category."
}

func (t *CatalogGet) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"category": {Type: "string", Enum: []any{"protein", "vegetable", "grain"}},
		},
	}
}

func (t *CatalogGet) OutputSchema() *jsonschema.Schema {
	group := &jsonschema.Schema{Type: "array", Items: ingredientSchema()}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"ingredients": {Type: "array", Items: ingredientSchema()},
			"grouped": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"protein":   group,
					"vegetable": group,
					"grain":     group,
				},
				Required: []string{"protein", "vegetable", "grain"},
			},
		},
		Required: []string{"ingredients", "grouped"},
	}
}

func (t *CatalogGet) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	grouped := builder.GroupByCategory(t.catalog)

	ingredients := t.catalog
	if c := stringInput(input, "category"); c != "" {
		members, ok := grouped[recipebuilder.Category(c)]
		if !ok {
			return nil, fmt.Errorf("unknown category %q", c)
		}
		ingredients = members
	}

	return toMap(struct {
		Ingredients []recipebuilder.Ingredient                            `json:"ingredients"`
		Grouped     map[recipebuilder.Category][]recipebuilder.Ingredient `json:"grouped"`
	}{Ingredients: ingredients, Grouped: grouped})
}
