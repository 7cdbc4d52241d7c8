package slack

import (
	"context"
	"fmt"
	"strings"

	"recipebuilder"
)

// Notifier announces newly created recipes on a Slack channel.
type Notifier struct {
	client  *Client
	channel string
	lookup  func(id string) string
}

// NewNotifier returns a Notifier posting to channel. lookup resolves
// ingredient ids to display names; a nil lookup prints the raw ids.
func NewNotifier(client *Client, channel string, lookup func(id string) string) *Notifier {
	return &Notifier{client: client, channel: channel, lookup: lookup}
}

func (n *Notifier) RecipeCreated(ctx context.Context, recipe recipebuilder.Recipe) error {
	if err := n.client.PostMessage(ctx, n.channel, FormatRecipe(recipe, n.lookup)); err != nil {
		return fmt.Errorf("notify recipe %q: %w", recipe.ID, err)
	}
	return nil
}

// FormatRecipe renders recipe as a Slack mrkdwn message.
func FormatRecipe(recipe recipebuilder.Recipe, lookup func(id string) string) string {
	names := make([]string, 0, len(recipe.Ingredients))
	for _, id := range recipe.Ingredients {
		if lookup != nil {
			names = append(names, lookup(id))
			continue
		}
		names = append(names, id)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, ":bowl_with_spoon: New recipe *%s* (%d cal)\n", recipe.Name, recipe.TotalCalories)
	if len(names) == 0 {
		sb.WriteString("_no ingredients_")
	} else {
		sb.WriteString(strings.Join(names, ", "))
	}
	return sb.String()
}
