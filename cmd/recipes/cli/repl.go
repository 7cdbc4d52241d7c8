package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"recipebuilder"
	"recipebuilder/builder"
)

// recipeBuilder is satisfied by both builder.Builder and builder.Instrumented.
type recipeBuilder interface {
	Catalog() []recipebuilder.Ingredient
	GroupedByCategory() map[recipebuilder.Category][]recipebuilder.Ingredient
	IsSelected(id string) bool
	AddIngredient(id string)
	RemoveIngredient(id string)
	Selected() []string
	SetName(name string)
	Name() string
	TotalCalories() int
	IngredientName(id string) string
	IngredientCalories(id string) int
	ClearCurrent()
	Submit(ctx context.Context) (recipebuilder.Recipe, error)
	SavedRecipes() []recipebuilder.Recipe
	DeleteRecipe(ctx context.Context, id string) error
}

var (
	_ recipeBuilder = (*builder.Builder)(nil)
	_ recipeBuilder = (*builder.Instrumented)(nil)
)

const helpText = `commands:
  catalog              list ingredients by category
  add <id>...          select ingredients
  remove <id>...       deselect ingredients
  name <recipe name>   set the recipe name
  show                 show the recipe in progress
  total                print the calorie total
  save                 save the recipe
  clear                reset name and selection
  list                 list saved recipes
  delete <recipe id>   delete a saved recipe
  dump                 dump builder state
  help                 show this help
  quit                 exit`

type repl struct {
	b   recipeBuilder
	in  io.Reader
	out io.Writer
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintln(r.out, "recipe builder, type 'help' for commands")
	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd, rest, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		rest = strings.TrimSpace(rest)
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		r.exec(ctx, cmd, rest)
	}
}

func (r *repl) exec(ctx context.Context, cmd, rest string) {
	switch cmd {
	case "":
	case "help":
		fmt.Fprintln(r.out, helpText)
	case "catalog":
		r.printCatalog()
	case "add":
		for _, id := range strings.Fields(rest) {
			r.b.AddIngredient(id)
		}
		r.printCurrent()
	case "remove":
		for _, id := range strings.Fields(rest) {
			r.b.RemoveIngredient(id)
		}
		r.printCurrent()
	case "name":
		r.b.SetName(rest)
	case "show":
		r.printCurrent()
	case "total":
		fmt.Fprintf(r.out, "%d cal\n", r.b.TotalCalories())
	case "save":
		r.save(ctx)
	case "clear":
		r.b.ClearCurrent()
	case "list":
		r.printSaved()
	case "delete":
		if rest == "" {
			fmt.Fprintln(r.out, "usage: delete <recipe id>")
			return
		}
		if err := r.b.DeleteRecipe(ctx, rest); err != nil {
			fmt.Fprintf(r.out, "delete failed: %v\n", err)
			return
		}
		fmt.Fprintf(r.out, "deleted %s\n", rest)
	case "dump":
		recipebuilder.Fdump(r.out, struct {
			Name          string
			Selected      []string
			TotalCalories int
			Saved         []recipebuilder.Recipe
		}{r.b.Name(), r.b.Selected(), r.b.TotalCalories(), r.b.SavedRecipes()})
	default:
		fmt.Fprintf(r.out, "unknown command %q, type 'help'\n", cmd)
	}
}

func (r *repl) save(ctx context.Context) {
	recipe, err := r.b.Submit(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(r.out, "saved %s (%s, %d cal)\n", recipe.Name, recipe.ID, recipe.TotalCalories)
	case errors.Is(err, recipebuilder.ErrEmptyName):
		fmt.Fprintln(r.out, "recipe name is required")
	case errors.Is(err, recipebuilder.ErrNameTooShort):
		fmt.Fprintf(r.out, "recipe name needs at least %d characters\n", builder.MinNameLength)
	case errors.Is(err, recipebuilder.ErrNoIngredients):
		fmt.Fprintln(r.out, "select at least one ingredient")
	default:
		fmt.Fprintln(r.out, "failed to save recipe, please try again")
	}
}

func (r *repl) printCatalog() {
	grouped := r.b.GroupedByCategory()
	for _, category := range recipebuilder.Categories {
		fmt.Fprintf(r.out, "%s:\n", category)
		for _, ing := range grouped[category] {
			mark := " "
			if r.b.IsSelected(ing.ID) {
				mark = "*"
			}
			fmt.Fprintf(r.out, " %s %-4s %-20s %4d cal\n", mark, ing.ID, ing.Name, ing.Calories)
		}
	}
}

func (r *repl) printCurrent() {
	name := r.b.Name()
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(r.out, "%s\n", name)
	for _, id := range r.b.Selected() {
		fmt.Fprintf(r.out, "  %-20s %4d cal\n", r.b.IngredientName(id), r.b.IngredientCalories(id))
	}
	fmt.Fprintf(r.out, "  total %d cal\n", r.b.TotalCalories())
}

func (r *repl) printSaved() {
	saved := r.b.SavedRecipes()
	if len(saved) == 0 {
		fmt.Fprintln(r.out, "no saved recipes")
		return
	}
	for _, recipe := range saved {
		names := make([]string, 0, len(recipe.Ingredients))
		for _, id := range recipe.Ingredients {
			names = append(names, r.b.IngredientName(id))
		}
		fmt.Fprintf(r.out, "%s  %s  %d cal  %s  [%s]\n",
			recipe.ID, recipe.Name, recipe.TotalCalories,
			recipe.CreatedDate.Format("2006-01-02 15:04"), strings.Join(names, ", "))
	}
}
