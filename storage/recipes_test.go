package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebuilder"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(kv KV) *RecipeStore {
	return NewRecipeStore(kv, WithClock(func() time.Time { return fixedNow }))
}

func recipe(id string, ingredients ...string) recipebuilder.Recipe {
	return recipebuilder.Recipe{
		ID:            id,
		Name:          "Recipe " + id,
		Ingredients:   ingredients,
		TotalCalories: 100 * len(ingredients),
		CreatedDate:   time.Date(2026, 1, 2, 3, 4, 5, 6000000, time.UTC),
	}
}

func TestRecipeStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := newTestStore(kv)

	r1 := recipe("r1", "1", "2")
	require.NoError(t, store.SaveRecipe(ctx, r1))

	loaded := store.GetAllRecipes(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, r1.ID, loaded[0].ID)
	assert.Equal(t, r1.Name, loaded[0].Name)
	assert.Equal(t, r1.Ingredients, loaded[0].Ingredients)
	assert.Equal(t, r1.TotalCalories, loaded[0].TotalCalories)
	assert.True(t, r1.CreatedDate.Equal(loaded[0].CreatedDate))

	t.Run("newest first", func(t *testing.T) {
		require.NoError(t, store.SaveRecipe(ctx, recipe("r2", "3")))
		require.NoError(t, store.SaveRecipe(ctx, recipe("r3", "4")))

		var ids []string
		for _, r := range store.GetAllRecipes(ctx) {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, []string{"r3", "r2", "r1"}, ids)
	})

	t.Run("stored layout", func(t *testing.T) {
		raw, err := kv.Get(ctx, DefaultRecipesKey)
		require.NoError(t, err)

		var docs []map[string]any
		require.NoError(t, json.Unmarshal(raw, &docs))
		require.Len(t, docs, 3)
		assert.ElementsMatch(t,
			[]string{"id", "name", "ingredients", "totalCalories", "createdDate"},
			keys(docs[0]))
		assert.Equal(t, "2026-01-02T03:04:05.006Z", docs[2]["createdDate"])
	})
}

func TestRecipeStore_EmptyIngredientsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(NewMemoryKV())

	require.NoError(t, store.SaveRecipe(ctx, recipebuilder.Recipe{ID: "r1", Name: "Test"}))
	loaded := store.GetAllRecipes(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, []string{}, loaded[0].Ingredients)
}

func TestRecipeStore_GetAllRecipesDegrades(t *testing.T) {
	tests := []struct {
		name string
		kv   func() *MemoryKV
	}{
		{name: "absent key", kv: NewMemoryKV},
		{name: "not json", kv: func() *MemoryKV { return NewMemoryKVWith(DefaultRecipesKey, []byte("not-json")) }},
		{name: "empty value", kv: func() *MemoryKV { return NewMemoryKVWith(DefaultRecipesKey, []byte("")) }},
		{name: "json null", kv: func() *MemoryKV { return NewMemoryKVWith(DefaultRecipesKey, []byte("null")) }},
		{name: "object instead of array", kv: func() *MemoryKV {
			return NewMemoryKVWith(DefaultRecipesKey, []byte(`{"id":"r1","name":"x","ingredients":[],"totalCalories":1}`))
		}},
		{name: "string instead of array", kv: func() *MemoryKV { return NewMemoryKVWith(DefaultRecipesKey, []byte(`"[]"`)) }},
		{name: "backend read error", kv: func() *MemoryKV {
			kv := NewMemoryKVWith(DefaultRecipesKey, []byte(`[]`))
			kv.FailGets(errors.New("corrupted backend"))
			return kv
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := newTestStore(tt.kv()).GetAllRecipes(context.Background())
			require.NotNil(t, list)
			assert.Empty(t, list)
		})
	}
}

func TestRecipeStore_ElementValidation(t *testing.T) {
	raw := `[
		{"id":"ok","name":"Good","ingredients":["1","1"],"totalCalories":330,"createdDate":"2026-01-02T03:04:05.000Z"},
		{"id":1,"name":"numeric id","ingredients":[],"totalCalories":0},
		{"name":"missing id","ingredients":[],"totalCalories":0},
		{"id":"x","name":null,"ingredients":[],"totalCalories":0},
		{"id":"x","name":"no ingredients","totalCalories":0},
		{"id":"x","name":"ingredients not strings","ingredients":[1,2],"totalCalories":0},
		{"id":"x","name":"ingredients object","ingredients":{"a":"1"},"totalCalories":0},
		{"id":"x","name":"string calories","ingredients":[],"totalCalories":"12"},
		{"id":"x","name":"missing calories","ingredients":[]},
		{"id":"x","name":"huge calories","ingredients":[],"totalCalories":1e300},
		{"id":"x","name":"negative calories","ingredients":[],"totalCalories":-5},
		42,
		"recipe",
		null,
		{"id":"ok2","name":"Fractional","ingredients":[],"totalCalories":12.9}
	]`
	store := newTestStore(NewMemoryKVWith(DefaultRecipesKey, []byte(raw)))

	list := store.GetAllRecipes(context.Background())
	require.Len(t, list, 2)
	assert.Equal(t, "ok", list[0].ID)
	assert.Equal(t, []string{"1", "1"}, list[0].Ingredients, "duplicates are kept as stored")
	assert.Equal(t, 330, list[0].TotalCalories)
	assert.Equal(t, "ok2", list[1].ID)
	assert.Equal(t, 12, list[1].TotalCalories)
}

func TestRecipeStore_CreatedDateCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{name: "iso with millis", value: `"2026-03-04T05:06:07.891Z"`, want: time.Date(2026, 3, 4, 5, 6, 7, 891000000, time.UTC)},
		{name: "rfc3339 with offset", value: `"2026-03-04T05:06:07+02:00"`, want: time.Date(2026, 3, 4, 3, 6, 7, 0, time.UTC)},
		{name: "date only", value: `"2026-03-04"`, want: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},
		{name: "epoch millis", value: `1700000000000`, want: time.UnixMilli(1700000000000)},
		{name: "unparseable string", value: `"yesterday"`, want: fixedNow},
		{name: "null", value: `null`, want: fixedNow},
		{name: "boolean", value: `true`, want: fixedNow},
		{name: "epoch past year 9999", value: `1e17`, want: fixedNow},
		{name: "epoch before year 0", value: `-1e17`, want: fixedNow},
		{name: "epoch beyond int64", value: `1e300`, want: fixedNow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `[{"id":"r","name":"n","ingredients":[],"totalCalories":1,"createdDate":` + tt.value + `}]`
			list := newTestStore(NewMemoryKVWith(DefaultRecipesKey, []byte(raw))).GetAllRecipes(context.Background())
			require.Len(t, list, 1, "date coercion never rejects an element")
			assert.True(t, tt.want.Equal(list[0].CreatedDate), "got %s", list[0].CreatedDate)
		})
	}

	for _, value := range []string{`1e17`, `-1e17`} {
		t.Run("out of range date still writable "+value, func(t *testing.T) {
			ctx := context.Background()
			raw := `[{"id":"old","name":"n","ingredients":[],"totalCalories":1,"createdDate":` + value + `}]`
			store := newTestStore(NewMemoryKVWith(DefaultRecipesKey, []byte(raw)))

			require.NoError(t, store.SaveRecipe(ctx, recipe("new", "1")))
			list := store.GetAllRecipes(ctx)
			require.Len(t, list, 2)
			assert.Equal(t, "new", list[0].ID)
			assert.True(t, fixedNow.Equal(list[1].CreatedDate))

			require.NoError(t, store.DeleteRecipe(ctx, "new"))
			assert.Len(t, store.GetAllRecipes(ctx), 1)
		})
	}

	t.Run("missing", func(t *testing.T) {
		raw := `[{"id":"r","name":"n","ingredients":[],"totalCalories":1}]`
		list := newTestStore(NewMemoryKVWith(DefaultRecipesKey, []byte(raw))).GetAllRecipes(context.Background())
		require.Len(t, list, 1)
		assert.True(t, fixedNow.Equal(list[0].CreatedDate))
	})
}

func TestRecipeStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(NewMemoryKV())

	for _, id := range []string{"a", "b", "c", "b", "d"} {
		require.NoError(t, store.SaveRecipe(ctx, recipe(id, "1")))
	}

	require.NoError(t, store.DeleteRecipe(ctx, "b"))

	var ids []string
	for _, r := range store.GetAllRecipes(ctx) {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"d", "c", "a"}, ids)

	t.Run("absent id leaves list intact", func(t *testing.T) {
		require.NoError(t, store.DeleteRecipe(ctx, "zzz"))
		assert.Len(t, store.GetAllRecipes(ctx), 3)
	})
}

func TestRecipeStore_WriteErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := newTestStore(kv)
	require.NoError(t, store.SaveRecipe(ctx, recipe("r1", "1")))

	quota := errors.New("quota exceeded")
	kv.FailSets(quota)

	assert.ErrorIs(t, store.SaveRecipe(ctx, recipe("r2", "1")), quota)
	assert.ErrorIs(t, store.DeleteRecipe(ctx, "r1"), quota)
	assert.ErrorIs(t, store.Clear(ctx), quota)

	kv.FailSets(nil)
	list := store.GetAllRecipes(ctx)
	require.Len(t, list, 1, "failed writes leave the stored list untouched")
	assert.Equal(t, "r1", list[0].ID)
}

func TestRecipeStore_SaveOverUnreadableList(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKVWith(DefaultRecipesKey, []byte("not-json"))
	store := newTestStore(kv)

	require.NoError(t, store.SaveRecipe(ctx, recipe("r1", "1")))
	list := store.GetAllRecipes(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].ID)
}

func TestRecipeStore_CustomKeyAndClear(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewRecipeStore(kv, WithKey("alt"))
	assert.Equal(t, "alt", store.Key())

	require.NoError(t, store.SaveRecipe(ctx, recipe("r1", "1")))
	_, err := kv.Get(ctx, DefaultRecipesKey)
	assert.ErrorIs(t, err, recipebuilder.ErrNotFound)

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.GetAllRecipes(ctx))
}

// interleavingKV runs hook once, right after the first Get, to simulate a
// second writer sneaking in between a read and the following write.
type interleavingKV struct {
	KV
	hook func()
}

func (k *interleavingKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := k.KV.Get(ctx, key)
	if k.hook != nil {
		h := k.hook
		k.hook = nil
		h()
	}
	return b, err
}

// Two stores sharing a key have no coordination: the write that lands last
// replaces the other's change entirely.
func TestRecipeStore_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryKV()
	other := newTestStore(shared)

	racing := &interleavingKV{KV: shared}
	racing.hook = func() {
		require.NoError(t, other.SaveRecipe(ctx, recipe("from-other-tab", "1")))
	}
	store := newTestStore(racing)

	require.NoError(t, store.SaveRecipe(ctx, recipe("from-this-tab", "2")))

	list := store.GetAllRecipes(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "from-this-tab", list[0].ID)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
