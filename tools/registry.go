package tools

import (
	"context"
	"fmt"
	"sort"

	"recipebuilder"
	"recipebuilder/builder"
)

// Registry maps tool names to implementations
type Registry map[string]Tool

// NewRegistry creates a new tool registry over the given catalog and recipe store.
// Builder options are applied to the builder each recipe_save run creates.
func NewRegistry(catalog []recipebuilder.Ingredient, store recipebuilder.RecipeStore, opts ...builder.Option) (*Registry, error) {
	if store == nil {
		return nil, fmt.Errorf("recipe store is required")
	}

	tools := []Tool{
		NewCatalogGet(catalog),
		NewRecipeList(store),
		NewRecipeSave(catalog, store, opts...),
		NewRecipeDelete(store),
	}

	registry := make(Registry, len(tools))
	for _, t := range tools {
		registry[t.Name()] = t
	}
	return &registry, nil
}

// GetTools returns all tools in the registry sorted by name
func (r *Registry) GetTools() []Tool {
	tools := make([]Tool, 0, len(*r))
	for _, tool := range *r {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// GetTool retrieves a tool by name from the registry
func (r Registry) GetTool(name string) (Tool, error) {
	tool, exists := r[name]
	if !exists {
		return nil, fmt.Errorf("tool %q not found in registry", name)
	}
	return tool, nil
}

// Run dispatches call to the named tool.
func (r Registry) Run(ctx context.Context, call Call) (map[string]any, error) {
	tool, err := r.GetTool(call.Name)
	if err != nil {
		return nil, err
	}
	input := call.Input
	if input == nil {
		input = map[string]any{}
	}
	return tool.Run(ctx, input)
}
