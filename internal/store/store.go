// Package store implements the recipe catalog and user profile stores on gorm.
package store

import (
	"errors"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("record not found")

// Order is the sort applied to catalog results. Ties are broken on id in the
// same direction so results are reproducible.
type Order int

const (
	// OldestFirst is the catalog's natural retrieval order.
	OldestFirst Order = iota
	NewestFirst
)

// FieldMatch restricts results to recipes whose cuisine is in Cuisines OR
// whose category is in Categories. Both sets empty matches nothing.
type FieldMatch struct {
	Cuisines   []string
	Categories []string
}

func (m *FieldMatch) empty() bool {
	return len(m.Cuisines) == 0 && len(m.Categories) == 0
}

// RecipeQuery is the filter accepted by Catalog.FindByFields.
type RecipeQuery struct {
	// Match is optional; nil means no cuisine/category restriction.
	Match *FieldMatch
	// ExcludeIngredients drops recipes where any ingredient, lowercased,
	// contains any of these substrings (case-insensitive).
	ExcludeIngredients []string
	ExcludeIDs         []uuid.UUID
	Order              Order
	// Limit caps the result; zero means unlimited.
	Limit int
}

// sqlSafeSubstring reports whether s can be matched against the JSON text of
// the ingredients column without crossing element boundaries or tripping
// over escaping differences between databases.
func sqlSafeSubstring(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) || strings.ContainsRune(`"\,[]`, r) {
			return false
		}
	}
	return true
}

// escapeLike escapes LIKE metacharacters using backslash as the escape char.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// LikeEscape is the escape clause that goes with ContainsPattern.
const LikeEscape = `ESCAPE '\'`

// ContainsPattern is a LIKE pattern matching s anywhere in a lowercased
// column. % and _ in s match literally.
func ContainsPattern(s string) string {
	return "%" + escapeLike(strings.ToLower(s)) + "%"
}

// containsAny reports whether any ingredient contains any needle, ignoring case.
// needles must already be lowercased.
func containsAny(ingredients []string, needles []string) bool {
	for _, ing := range ingredients {
		l := strings.ToLower(ing)
		for _, n := range needles {
			if strings.Contains(l, n) {
				return true
			}
		}
	}
	return false
}
