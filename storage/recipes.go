package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"recipebuilder"
)

// DefaultRecipesKey is the key the recipe book is stored under.
const DefaultRecipesKey = "saved-recipes"

var _ recipebuilder.RecipeStore = (*RecipeStore)(nil)

// RecipeStore keeps the recipe book as a JSON array under a single key,
// newest first. Every operation is a plain read-modify-write of that key with
// no locking, so concurrent writers race and the last write wins.
type RecipeStore struct {
	kv  KV
	key string
	log *slog.Logger
	now func() time.Time
}

type StoreOption func(*RecipeStore)

func WithKey(key string) StoreOption {
	return func(s *RecipeStore) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(log *slog.Logger) StoreOption {
	return func(s *RecipeStore) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock sets the time used for records whose createdDate cannot be read.
func WithClock(now func() time.Time) StoreOption {
	return func(s *RecipeStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewRecipeStore(kv KV, opts ...StoreOption) *RecipeStore {
	s := &RecipeStore{
		kv:  kv,
		key: DefaultRecipesKey,
		log: slog.Default(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the key the recipe book lives under.
func (s *RecipeStore) Key() string { return s.key }

// SaveRecipe prepends recipe to the stored list. A list that cannot be read is
// treated as empty; write errors are returned.
func (s *RecipeStore) SaveRecipe(ctx context.Context, recipe recipebuilder.Recipe) error {
	existing := s.GetAllRecipes(ctx)
	next := make([]recipebuilder.Recipe, 0, len(existing)+1)
	next = append(next, recipe)
	next = append(next, existing...)

	if err := s.write(ctx, next); err != nil {
		return err
	}
	s.log.Debug("STORE: Recipe saved", "id", recipe.ID, "name", recipe.Name, "count", len(next))
	return nil
}

// GetAllRecipes returns the stored recipes, newest first. It never fails: an
// absent key, a backend error, malformed JSON or a non-array document all
// yield an empty list, and elements that are not structurally recipes are
// dropped.
func (s *RecipeStore) GetAllRecipes(ctx context.Context) []recipebuilder.Recipe {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, recipebuilder.ErrNotFound) {
			s.log.Warn("STORE: Failed to read recipes, treating as empty", "key", s.key, "error", err)
		}
		return []recipebuilder.Recipe{}
	}
	if len(data) == 0 {
		return []recipebuilder.Recipe{}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		s.log.Warn("STORE: Stored recipes are not a JSON array, treating as empty", "key", s.key, "error", err)
		return []recipebuilder.Recipe{}
	}

	out := make([]recipebuilder.Recipe, 0, len(elems))
	dropped := 0
	for _, raw := range elems {
		r, ok := decodeRecipe(raw, s.now)
		if !ok {
			dropped++
			continue
		}
		out = append(out, r)
	}
	if dropped > 0 {
		s.log.Warn("STORE: Dropped malformed recipe records", "key", s.key, "dropped", dropped, "kept", len(out))
	}
	return out
}

// DeleteRecipe removes every recipe with the given id, keeping the rest in order.
func (s *RecipeStore) DeleteRecipe(ctx context.Context, id string) error {
	existing := s.GetAllRecipes(ctx)
	next := make([]recipebuilder.Recipe, 0, len(existing))
	for _, r := range existing {
		if r.ID != id {
			next = append(next, r)
		}
	}

	if err := s.write(ctx, next); err != nil {
		return err
	}
	s.log.Debug("STORE: Recipe deleted", "id", id, "removed", len(existing)-len(next), "count", len(next))
	return nil
}

// Clear removes the whole recipe book.
func (s *RecipeStore) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("clear recipes: %w", err)
	}
	return nil
}

func (s *RecipeStore) write(ctx context.Context, list []recipebuilder.Recipe) error {
	data, err := encodeRecipes(list)
	if err != nil {
		return fmt.Errorf("encode recipes: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("write recipes: %w", err)
	}
	return nil
}
