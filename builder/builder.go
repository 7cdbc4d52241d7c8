// Package builder holds the in-progress recipe: the ingredient catalog, the
// user's selection and the recipe name. Totals and groupings are derived from
// that state on every call; saving validates it, persists through the
// injected store and notifies subscribers.
//
// A Builder serves a single user session and is not safe for concurrent use.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"recipebuilder"
)

// MinNameLength is the shortest name Submit accepts.
const MinNameLength = 3

// UnknownIngredient is the display name for ids missing from the catalog.
const UnknownIngredient = "Unknown"

// Builder is the recipe-builder state.
type Builder struct {
	store  recipebuilder.RecipeStore
	log    *slog.Logger
	events recipebuilder.EventLogger
	newID  func() string
	now    func() time.Time

	catalog  []recipebuilder.Ingredient
	name     string
	selected []string
	saved    []recipebuilder.Recipe

	subscribers []func(recipebuilder.Recipe)
}

type Option func(*Builder)

func WithLogger(log *slog.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithEventLogger records recipe book changes to events.
func WithEventLogger(events recipebuilder.EventLogger) Option {
	return func(b *Builder) {
		if events != nil {
			b.events = events
		}
	}
}

// WithIDGenerator replaces the recipe id scheme. Ids must be unique within a session.
func WithIDGenerator(newID func() string) Option {
	return func(b *Builder) {
		if newID != nil {
			b.newID = newID
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a Builder persisting to store and loads the saved recipe list.
func New(ctx context.Context, store recipebuilder.RecipeStore, opts ...Option) *Builder {
	b := &Builder{
		store:    store,
		log:      slog.Default(),
		events:   recipebuilder.NewNoOpEventLogger(),
		newID:    newRecipeID,
		now:      time.Now,
		catalog:  []recipebuilder.Ingredient{},
		selected: []string{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.RefreshSaved(ctx)
	return b
}

func newRecipeID() string {
	return "recipe-" + uuid.NewString()
}

// SetCatalog replaces the available ingredients. Any slice is accepted.
func (b *Builder) SetCatalog(ingredients []recipebuilder.Ingredient) {
	b.catalog = slices.Clone(ingredients)
	if b.catalog == nil {
		b.catalog = []recipebuilder.Ingredient{}
	}
}

// Catalog returns a copy of the current catalog.
func (b *Builder) Catalog() []recipebuilder.Ingredient {
	return slices.Clone(b.catalog)
}

// GroupedByCategory maps every category to its catalog ingredients in catalog
// order. Categories with no members map to an empty slice.
func (b *Builder) GroupedByCategory() map[recipebuilder.Category][]recipebuilder.Ingredient {
	return GroupByCategory(b.catalog)
}

// GroupByCategory buckets catalog by the fixed categories. Ingredients with any
// other category are left out.
func GroupByCategory(catalog []recipebuilder.Ingredient) map[recipebuilder.Category][]recipebuilder.Ingredient {
	grouped := make(map[recipebuilder.Category][]recipebuilder.Ingredient, len(recipebuilder.Categories))
	for _, c := range recipebuilder.Categories {
		grouped[c] = []recipebuilder.Ingredient{}
	}
	for _, ing := range catalog {
		if _, ok := grouped[ing.Category]; ok {
			grouped[ing.Category] = append(grouped[ing.Category], ing)
		}
	}
	return grouped
}

// TotalCalories sums the catalog calories of the selected ids. Ids missing
// from the catalog contribute nothing.
func (b *Builder) TotalCalories() int {
	return totalCalories(b.selected, b.catalog)
}

func totalCalories(ids []string, catalog []recipebuilder.Ingredient) int {
	total := 0
	for _, id := range ids {
		if ing, ok := findIngredient(catalog, id); ok {
			total += ing.Calories
		}
	}
	return total
}

func findIngredient(catalog []recipebuilder.Ingredient, id string) (recipebuilder.Ingredient, bool) {
	i := slices.IndexFunc(catalog, func(ing recipebuilder.Ingredient) bool { return ing.ID == id })
	if i < 0 {
		return recipebuilder.Ingredient{}, false
	}
	return catalog[i], true
}

// IngredientByID looks an id up in the catalog.
func (b *Builder) IngredientByID(id string) (recipebuilder.Ingredient, bool) {
	return findIngredient(b.catalog, id)
}

// IngredientName returns the catalog name for id, or UnknownIngredient.
func (b *Builder) IngredientName(id string) string {
	if ing, ok := b.IngredientByID(id); ok {
		return ing.Name
	}
	return UnknownIngredient
}

// IngredientCalories returns the catalog calories for id, or 0.
func (b *Builder) IngredientCalories(id string) int {
	ing, _ := b.IngredientByID(id)
	return ing.Calories
}

func (b *Builder) IsSelected(id string) bool {
	return slices.Contains(b.selected, id)
}

// AddIngredient appends id to the selection unless it is already there. The
// id is not checked against the catalog.
func (b *Builder) AddIngredient(id string) {
	if !b.IsSelected(id) {
		b.selected = append(b.selected, id)
	}
}

// RemoveIngredient drops id from the selection, if present.
func (b *Builder) RemoveIngredient(id string) {
	b.selected = slices.DeleteFunc(b.selected, func(s string) bool { return s == id })
}

// Selected returns a copy of the selection in insertion order.
func (b *Builder) Selected() []string {
	return slices.Clone(b.selected)
}

func (b *Builder) SetName(name string) { b.name = name }

func (b *Builder) Name() string { return b.name }

// ClearCurrent resets the name and selection. Saved recipes are untouched.
func (b *Builder) ClearCurrent() {
	b.name = ""
	b.selected = []string{}
}

// OnRecipeCreated registers fn to be called once for every successful save.
func (b *Builder) OnRecipeCreated(fn func(recipebuilder.Recipe)) {
	if fn != nil {
		b.subscribers = append(b.subscribers, fn)
	}
}

// SaveRecipe saves the current recipe and reports whether it succeeded.
func (b *Builder) SaveRecipe(ctx context.Context) bool {
	_, err := b.Save(ctx)
	return err == nil
}

// Save validates the current inputs, persists the recipe and, on success,
// notifies subscribers and clears the inputs. A failed save changes nothing.
func (b *Builder) Save(ctx context.Context) (recipebuilder.Recipe, error) {
	name := strings.TrimSpace(b.name)
	if name == "" {
		return recipebuilder.Recipe{}, recipebuilder.ErrEmptyName
	}
	if len(b.selected) == 0 {
		return recipebuilder.Recipe{}, recipebuilder.ErrNoIngredients
	}

	recipe := recipebuilder.Recipe{
		ID:            b.newID(),
		Name:          name,
		Ingredients:   slices.Clone(b.selected),
		TotalCalories: b.TotalCalories(),
		CreatedDate:   b.now(),
	}

	if err := b.store.SaveRecipe(ctx, recipe); err != nil {
		b.log.Error("BUILDER: Failed to persist recipe", "name", recipe.Name, "error", err)
		b.logEvent(recipebuilder.RecipeEvent{
			Name:      recipebuilder.EventRecipeSaveFailed,
			Timestamp: b.now(),
			RecipeID:  recipe.ID,
			Error:     err.Error(),
		})
		return recipebuilder.Recipe{}, fmt.Errorf("%w: %w", recipebuilder.ErrPersist, err)
	}

	b.log.Info("BUILDER: Recipe created",
		"id", recipe.ID,
		"name", recipe.Name,
		"ingredients_count", len(recipe.Ingredients),
		"total_calories", recipe.TotalCalories,
	)
	b.logEvent(recipebuilder.RecipeEvent{
		Name:      recipebuilder.EventRecipeCreated,
		Timestamp: recipe.CreatedDate,
		RecipeID:  recipe.ID,
		Recipe:    &recipe,
	})
	for _, fn := range b.subscribers {
		fn(recipe)
	}

	b.ClearCurrent()
	b.RefreshSaved(ctx)
	return recipe, nil
}

// Submit applies the stricter form rules (a trimmed name of at least
// MinNameLength characters) before saving.
func (b *Builder) Submit(ctx context.Context) (recipebuilder.Recipe, error) {
	if err := b.validateForm(); err != nil {
		return recipebuilder.Recipe{}, err
	}
	return b.Save(ctx)
}

func (b *Builder) validateForm() error {
	name := strings.TrimSpace(b.name)
	if name == "" {
		return recipebuilder.ErrEmptyName
	}
	if utf8.RuneCountInString(name) < MinNameLength {
		return fmt.Errorf("%w: need at least %d characters", recipebuilder.ErrNameTooShort, MinNameLength)
	}
	return nil
}

// SavedRecipes returns the recipe list as last read from the store.
func (b *Builder) SavedRecipes() []recipebuilder.Recipe {
	return slices.Clone(b.saved)
}

// RefreshSaved reloads the saved recipe list from the store.
func (b *Builder) RefreshSaved(ctx context.Context) {
	b.saved = b.store.GetAllRecipes(ctx)
}

// DeleteRecipe removes a saved recipe. Store errors are returned unchanged.
func (b *Builder) DeleteRecipe(ctx context.Context, id string) error {
	if err := b.store.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	b.logEvent(recipebuilder.RecipeEvent{
		Name:      recipebuilder.EventRecipeDeleted,
		Timestamp: b.now(),
		RecipeID:  id,
	})
	b.RefreshSaved(ctx)
	return nil
}

func (b *Builder) logEvent(event recipebuilder.RecipeEvent) {
	if err := b.events.LogEvent(event); err != nil {
		b.log.Error("Failed to log recipe event", "error", err, "event", event.Name)
	}
}
