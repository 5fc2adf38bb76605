package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/testhelpers"
)

const catalogJSON = `[
  {"title": "Masala Dosa", "ingredients": ["rice", "urad dal", " "], "instructions": ["soak", "grind"],
   "cuisine": "Indian", "category": "snacks", "difficulty": "Medium", "image": "dosa.jpg",
   "prepTime": 480, "cookTime": 20, "servings": 4, "mainCourseRegion": "South",
   "nutrition": {"calories": 350, "protein": 8}},
  {"title": "Gelato", "ingredients": ["milk", "sugar"], "cuisine": "Italian", "category": "ice creams",
   "image": "https://cdn.example.com/gelato.png"},
  {"title": "Mystery", "ingredients": ["x"], "difficulty": "Impossible"},
  {"title": "", "ingredients": ["y"]}
]`

func TestParseCatalog(t *testing.T) {
	entries, err := parseCatalog(strings.NewReader(catalogJSON))
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	wrapped, err := parseCatalog(strings.NewReader(`{"recipes": ` + catalogJSON + `}`))
	require.NoError(t, err)
	assert.Equal(t, entries, wrapped)

	_, err = parseCatalog(strings.NewReader(`{"items": []}`))
	assert.ErrorIs(t, err, errNotAnArray)

	_, err = parseCatalog(strings.NewReader(`"nope"`))
	assert.Error(t, err)
}

func TestCatalogRecipeToModel(t *testing.T) {
	entries, err := parseCatalog(strings.NewReader(catalogJSON))
	require.NoError(t, err)

	dosa, err := entries[0].toModel()
	require.NoError(t, err)
	assert.Equal(t, models.JSONBStringArray{"rice", "urad dal"}, dosa.Ingredients)
	assert.Equal(t, "South", dosa.Region)
	assert.Empty(t, dosa.ImageURL, "local image paths are not uploaded")
	assert.Equal(t, 350.0, dosa.Nutrition.Calories)

	gelato, err := entries[1].toModel()
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/gelato.png", gelato.ImageURL)

	_, err = entries[2].toModel()
	assert.True(t, errors.Is(err, models.ErrInvalidRecipe))
	_, err = entries[3].toModel()
	assert.True(t, errors.Is(err, models.ErrInvalidRecipe))
}

func TestImportCatalog(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	entries, err := parseCatalog(strings.NewReader(catalogJSON))
	require.NoError(t, err)

	res, err := importCatalog(context.Background(), db, entries, 1, true, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, importResult{Imported: 2, Skipped: 2}, res)
	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count, "dry run writes nothing")

	res, err = importCatalog(context.Background(), db, entries, 1, false, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, importResult{Imported: 2, Skipped: 2}, res)
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
