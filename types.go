package recipebuilder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Category is the fixed set of groups an ingredient can belong to.
type Category string

const (
	CategoryProtein   Category = "protein"
	CategoryVegetable Category = "vegetable"
	CategoryGrain     Category = "grain"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryProtein, CategoryVegetable, CategoryGrain}

// Ingredient is a selectable catalog entry.
type Ingredient struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Calories int      `json:"calories"`
}

// Recipe is a named, saved combination of ingredient ids with a calorie snapshot.
type Recipe struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Ingredients   []string  `json:"ingredients"`
	TotalCalories int       `json:"totalCalories"`
	CreatedDate   time.Time `json:"createdDate"`
}

// RecipeStore persists the ordered recipe book, newest first.
type RecipeStore interface {
	SaveRecipe(ctx context.Context, recipe Recipe) error
	GetAllRecipes(ctx context.Context) []Recipe
	DeleteRecipe(ctx context.Context, id string) error
}

// Sentinel errors used across packages.
var (
	ErrNotFound      = errors.New("not found")
	ErrEmptyName     = errors.New("recipe name is empty")
	ErrNameTooShort  = errors.New("recipe name is too short")
	ErrNoIngredients = errors.New("no ingredients selected")
	ErrPersist       = errors.New("failed to persist recipe")
)

// DecodeCatalog parses an ingredient catalog. Both a bare JSON array and an
// object of the form {"ingredients": [...]} are accepted.
func DecodeCatalog(data []byte) ([]Ingredient, error) {
	var list []Ingredient
	if err := json.Unmarshal(data, &list); err == nil {
		if list == nil {
			list = []Ingredient{}
		}
		return list, nil
	}

	var wrapped struct {
		Ingredients []Ingredient `json:"ingredients"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if wrapped.Ingredients == nil {
		wrapped.Ingredients = []Ingredient{}
	}
	return wrapped.Ingredients, nil
}
