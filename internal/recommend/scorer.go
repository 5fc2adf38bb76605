package recommend

import (
	"slices"
	"strings"

	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/store"
)

// Affinity is what a user implicitly prefers, flattened from their favorites.
type Affinity struct {
	Cuisines    map[string]struct{}
	Categories  map[string]struct{}
	Ingredients map[string]struct{}

	// first-seen order, for building queries
	cuisines   []string
	categories []string
}

func NewAffinity(favorites []models.Recipe) Affinity {
	a := Affinity{
		Cuisines:    map[string]struct{}{},
		Categories:  map[string]struct{}{},
		Ingredients: map[string]struct{}{},
	}
	for _, r := range favorites {
		if c := string(r.Cuisine); c != "" {
			if _, ok := a.Cuisines[c]; !ok {
				a.Cuisines[c] = struct{}{}
				a.cuisines = append(a.cuisines, c)
			}
		}
		if c := string(r.Category); c != "" {
			if _, ok := a.Categories[c]; !ok {
				a.Categories[c] = struct{}{}
				a.categories = append(a.categories, c)
			}
		}
		for _, ing := range r.Ingredients {
			a.Ingredients[ing] = struct{}{}
		}
	}
	return a
}

// Empty reports whether a can match nothing in the catalog.
func (a Affinity) Empty() bool {
	return len(a.cuisines) == 0 && len(a.categories) == 0
}

// FieldMatch is the catalog filter "cuisine in favorites OR category in favorites".
func (a Affinity) FieldMatch() *store.FieldMatch {
	return &store.FieldMatch{
		Cuisines:   slices.Clone(a.cuisines),
		Categories: slices.Clone(a.categories),
	}
}

// Score ranks r against a: +3 cuisine, +2 category, +1 per ingredient equal
// to a favorite ingredient, plus the mean rating when r has ratings.
func Score(r *models.Recipe, a Affinity) float64 {
	var score float64
	if _, ok := a.Cuisines[string(r.Cuisine)]; ok {
		score += 3
	}
	if _, ok := a.Categories[string(r.Category)]; ok {
		score += 2
	}
	score += float64(len(sharedIngredients(r, a)))
	if avg, ok := r.AverageRating(); ok {
		score += avg
	}
	return score
}

// Explain describes which parts of r matched a, for display only.
func Explain(r *models.Recipe, a Affinity) string {
	var parts []string
	if _, ok := a.Cuisines[string(r.Cuisine)]; ok {
		parts = append(parts, "cuisine: "+string(r.Cuisine))
	}
	if _, ok := a.Categories[string(r.Category)]; ok {
		parts = append(parts, "category: "+string(r.Category))
	}
	if shared := sharedIngredients(r, a); len(shared) > 0 {
		parts = append(parts, "with shared ingredients: "+strings.Join(shared, ", "))
	}
	if len(parts) == 0 {
		return "Matched on your favorites"
	}
	return "Matched on " + strings.Join(parts, " ")
}

// sharedIngredients keeps duplicates in r, each counts.
func sharedIngredients(r *models.Recipe, a Affinity) []string {
	var shared []string
	for _, ing := range r.Ingredients {
		if _, ok := a.Ingredients[ing]; ok {
			shared = append(shared, ing)
		}
	}
	return shared
}
