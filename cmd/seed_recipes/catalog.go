package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pageza/recipenest/backend/internal/models"
)

// catalogRecipe is one entry of a catalog export. Keys follow the exported
// document layout, which is camelCase.
type catalogRecipe struct {
	Title            string           `json:"title"`
	Ingredients      []string         `json:"ingredients"`
	Instructions     []string         `json:"instructions"`
	Cuisine          string           `json:"cuisine"`
	Category         string           `json:"category"`
	Difficulty       string           `json:"difficulty"`
	Image            string           `json:"image"`
	PrepTime         int              `json:"prepTime"`
	CookTime         int              `json:"cookTime"`
	Servings         int              `json:"servings"`
	DietType         string           `json:"dietType"`
	MealType         string           `json:"mealType"`
	MainCourseRegion string           `json:"mainCourseRegion"`
	Nutrition        models.Nutrition `json:"nutrition"`
}

var errNotAnArray = errors.New("catalog must contain an array of recipes")

// parseCatalog accepts either a bare array or an object with a "recipes" array.
func parseCatalog(r io.Reader) ([]catalogRecipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	data = bytes.TrimSpace(data)

	var entries []catalogRecipe
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Recipes *[]catalogRecipe `json:"recipes"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
		if wrapped.Recipes == nil {
			return nil, errNotAnArray
		}
		return *wrapped.Recipes, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return entries, nil
}

// toModel converts an entry. Image paths that are not absolute URLs are
// dropped since binary uploads are not handled here.
func (c catalogRecipe) toModel() (models.Recipe, error) {
	r := models.Recipe{
		Title:        strings.TrimSpace(c.Title),
		Ingredients:  models.JSONBStringArray(nonEmpty(c.Ingredients)),
		Instructions: models.JSONBStringArray(nonEmpty(c.Instructions)),
		Cuisine:      models.Cuisine(c.Cuisine),
		Category:     models.Category(c.Category),
		Difficulty:   models.Difficulty(c.Difficulty),
		PrepTime:     c.PrepTime,
		CookTime:     c.CookTime,
		Servings:     c.Servings,
		DietType:     c.DietType,
		MealType:     c.MealType,
		Region:       c.MainCourseRegion,
		Nutrition:    c.Nutrition,
	}
	if strings.HasPrefix(c.Image, "https://") || strings.HasPrefix(c.Image, "http://") {
		r.ImageURL = c.Image
	}

	if r.Title == "" {
		return r, fmt.Errorf("%w: missing title", models.ErrInvalidRecipe)
	}
	if len(r.Ingredients) == 0 {
		return r, fmt.Errorf("%w: %q has no ingredients", models.ErrInvalidRecipe, r.Title)
	}
	if err := r.Validate(); err != nil {
		return r, err
	}
	return r, nil
}

type importResult struct {
	Imported int
	Skipped  int
}

// importCatalog converts every entry and inserts the valid ones in a single
// transaction. Invalid entries are logged and skipped.
func importCatalog(ctx context.Context, db *gorm.DB, entries []catalogRecipe, batchSize int, dryRun bool, log zerolog.Logger) (importResult, error) {
	var res importResult
	recipes := make([]models.Recipe, 0, len(entries))
	for i, e := range entries {
		r, err := e.toModel()
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("skipping recipe")
			res.Skipped++
			continue
		}
		recipes = append(recipes, r)
	}

	if dryRun || len(recipes) == 0 {
		res.Imported = len(recipes)
		return res, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&recipes, batchSize).Error
	})
	if err != nil {
		return importResult{Skipped: res.Skipped}, fmt.Errorf("failed to insert recipes: %w", err)
	}
	res.Imported = len(recipes)
	return res, nil
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
