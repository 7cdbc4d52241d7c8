package storage

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"recipebuilder"
)

// Layouts tried, in order, when createdDate is a string.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

func encodeRecipes(list []recipebuilder.Recipe) ([]byte, error) {
	out := make([]recipebuilder.Recipe, len(list))
	for i, r := range list {
		// null would not read back as an ingredient list
		if r.Ingredients == nil {
			r.Ingredients = []string{}
		}
		out[i] = r
	}
	return json.Marshal(out)
}

// decodeRecipe accepts an element only when it has a string id and name, an
// array of strings for ingredients and a numeric totalCalories.
func decodeRecipe(raw json.RawMessage, now func() time.Time) (recipebuilder.Recipe, bool) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return recipebuilder.Recipe{}, false
	}

	id, ok := m["id"].(string)
	if !ok {
		return recipebuilder.Recipe{}, false
	}
	name, ok := m["name"].(string)
	if !ok {
		return recipebuilder.Recipe{}, false
	}
	list, ok := m["ingredients"].([]any)
	if !ok {
		return recipebuilder.Recipe{}, false
	}
	ingredients := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			return recipebuilder.Recipe{}, false
		}
		ingredients = append(ingredients, s)
	}
	total, ok := m["totalCalories"].(float64)
	if !ok || !validCalories(total) {
		return recipebuilder.Recipe{}, false
	}

	return recipebuilder.Recipe{
		ID:            id,
		Name:          name,
		Ingredients:   ingredients,
		TotalCalories: int(total),
		CreatedDate:   coerceDate(m["createdDate"], now),
	}, true
}

// validCalories reports whether v truncates to a non-negative int.
func validCalories(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v < float64(math.MaxInt)
}

// Epoch milliseconds for 0000-01-01 and 10000-01-01, the span JSON can encode.
const (
	minDateMillis = -62167219200000
	maxDateMillis = 253402300800000
)

// coerceDate reads strings as ISO-8601 and numbers as epoch milliseconds.
// Anything else, or a time outside years 0 to 9999, falls back to now.
func coerceDate(v any, now func() time.Time) time.Time {
	switch d := v.(type) {
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil && encodableYear(t) {
				return t
			}
		}
	case float64:
		if d >= minDateMillis && d < maxDateMillis {
			if t := time.UnixMilli(int64(d)).UTC(); encodableYear(t) {
				return t
			}
		}
	}
	return now()
}

func encodableYear(t time.Time) bool {
	y := t.Year()
	return y >= 0 && y <= 9999
}
