package recommend

import (
	"bytes"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/store"
)

// Filter is the diet/allergy candidacy predicate for one user.
type Filter struct {
	// Diets are matched exactly against a recipe's category or cuisine.
	// Empty passes every recipe.
	Diets []string
	// Allergies are lowercased, trimmed and never blank.
	Allergies []string
	// ExcludeIDs holds the user's favorites.
	ExcludeIDs map[uuid.UUID]struct{}
}

// NewFilter builds the filter for p. Blank diet and allergy entries are
// dropped; a blank allergy would otherwise exclude every recipe.
func NewFilter(p *Profile) Filter {
	f := Filter{ExcludeIDs: make(map[uuid.UUID]struct{}, len(p.Favorites))}
	for _, d := range p.DietPreferences {
		if strings.TrimSpace(d) != "" {
			f.Diets = append(f.Diets, d)
		}
	}
	for _, a := range p.Allergies {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			f.Allergies = append(f.Allergies, a)
		}
	}
	for _, fav := range p.Favorites {
		f.ExcludeIDs[fav.ID] = struct{}{}
	}
	return f
}

// Match reports whether r is a candidate under f.
func (f Filter) Match(r *models.Recipe) bool {
	if _, fav := f.ExcludeIDs[r.ID]; fav {
		return false
	}
	if len(f.Diets) > 0 &&
		!slices.Contains(f.Diets, string(r.Category)) &&
		!slices.Contains(f.Diets, string(r.Cuisine)) {
		return false
	}
	for _, ing := range r.Ingredients {
		l := strings.ToLower(ing)
		for _, a := range f.Allergies {
			if strings.Contains(l, a) {
				return false
			}
		}
	}
	return true
}

// Query converts f into a catalog query so the database can pre-filter.
// Order and Limit are left to the caller.
func (f Filter) Query() store.RecipeQuery {
	q := store.RecipeQuery{
		ExcludeIngredients: slices.Clone(f.Allergies),
		ExcludeIDs:         sortedIDs(f.ExcludeIDs),
	}
	if len(f.Diets) > 0 {
		q.Match = &store.FieldMatch{
			Cuisines:   slices.Clone(f.Diets),
			Categories: slices.Clone(f.Diets),
		}
	}
	return q
}

func sortedIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	if len(set) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return ids
}
