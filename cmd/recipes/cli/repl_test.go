package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebuilder"
	"recipebuilder/builder"
	"recipebuilder/storage"
)

func runScript(t *testing.T, kv storage.KV, lines ...string) string {
	t.Helper()
	ctx := context.Background()

	catalog, err := loadCatalog(ctx, storage.NewStaticCatalog([]byte(`[
		{"id":"1","name":"Chicken Breast","category":"protein","calories":165},
		{"id":"4","name":"Rice","category":"grain","calories":130},
		{"id":"6","name":"Broccoli","category":"vegetable","calories":25}
	]`)))
	require.NoError(t, err)

	b := builder.New(ctx, storage.NewRecipeStore(kv))
	b.SetCatalog(catalog)

	var out bytes.Buffer
	r := &repl{b: b, in: strings.NewReader(strings.Join(lines, "\n") + "\n"), out: &out}
	require.NoError(t, r.run(ctx))
	return out.String()
}

func TestREPL_SaveAndList(t *testing.T) {
	kv := storage.NewMemoryKV()
	out := runScript(t, kv,
		"catalog",
		"add 1 4",
		"total",
		"name Yummy Mix",
		"save",
		"list",
		"quit",
	)

	assert.Contains(t, out, "protein:")
	assert.Contains(t, out, "Chicken Breast")
	assert.Contains(t, out, "295 cal\n")
	assert.Contains(t, out, "saved Yummy Mix (recipe-")
	assert.Contains(t, out, "Yummy Mix  295 cal")
	assert.Contains(t, out, "[Chicken Breast, Rice]")

	saved := storage.NewRecipeStore(kv).GetAllRecipes(context.Background())
	require.Len(t, saved, 1)
	assert.Equal(t, []string{"1", "4"}, saved[0].Ingredients)
}

func TestREPL_SaveValidation(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{name: "missing name", lines: []string{"add 1", "save"}, want: "recipe name is required"},
		{name: "short name", lines: []string{"add 1", "name ab", "save"}, want: "at least 3 characters"},
		{name: "no ingredients", lines: []string{"name Empty", "save"}, want: "select at least one ingredient"},
		{name: "unknown command", lines: []string{"bake"}, want: `unknown command "bake"`},
		{name: "delete usage", lines: []string{"delete"}, want: "usage: delete <recipe id>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryKV()
			out := runScript(t, kv, tt.lines...)
			assert.Contains(t, out, tt.want)
			assert.Empty(t, storage.NewRecipeStore(kv).GetAllRecipes(context.Background()))
		})
	}
}

func TestREPL_Delete(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := storage.NewRecipeStore(kv)
	require.NoError(t, store.SaveRecipe(context.Background(), recipebuilder.Recipe{
		ID: "recipe-old", Name: "Old", Ingredients: []string{"6"}, TotalCalories: 25,
	}))

	out := runScript(t, kv, "list", "delete recipe-old", "list")
	assert.Contains(t, out, "recipe-old  Old  25 cal")
	assert.Contains(t, out, "deleted recipe-old")
	assert.Contains(t, out, "no saved recipes")
	assert.Empty(t, store.GetAllRecipes(context.Background()))
}

func TestREPL_PersistFailure(t *testing.T) {
	kv := storage.NewMemoryKV()
	kv.FailSets(assert.AnError)

	out := runScript(t, kv, "add 6", "name Greens", "save", "show", "dump")
	assert.Contains(t, out, "failed to save recipe, please try again")
	assert.Contains(t, out, "Greens\n  Broccoli")
	assert.Contains(t, out, `Name: (string) (len=6) "Greens"`)
	assert.Contains(t, out, "TotalCalories: (int) 25")
}

func TestNewEventLogger(t *testing.T) {
	logger, cleanup, err := newEventLogger("")
	require.NoError(t, err)
	assert.IsType(t, &recipebuilder.NoOpEventLogger{}, logger)
	assert.NoError(t, cleanup())

	path := t.TempDir() + "/logs/events.json"
	logger, cleanup, err = newEventLogger(path)
	require.NoError(t, err)
	require.NoError(t, logger.LogEvent(recipebuilder.RecipeEvent{Name: recipebuilder.EventRecipeDeleted, RecipeID: "recipe-1"}))
	require.NoError(t, cleanup())
	assert.FileExists(t, path)
}
