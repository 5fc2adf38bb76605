package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/recipenest/backend/internal/models"
)

// SetupSQLite opens a private in-memory sqlite database with the schema
// migrated. Each test gets its own database.
func SetupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	require.NoError(t, db.Create(models.DefaultIngredientNutrition()).Error)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Clock hands out strictly increasing creation times so recency ordering in
// tests does not depend on wall clock resolution.
type Clock struct {
	next time.Time
}

func NewClock() *Clock {
	return &Clock{next: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Tick() time.Time {
	t := c.next
	c.next = c.next.Add(time.Minute)
	return t
}

// CreateRecipe inserts r, stamping CreatedAt from the clock when unset.
func CreateRecipe(t *testing.T, db *gorm.DB, clock *Clock, r models.Recipe) models.Recipe {
	t.Helper()
	if r.CreatedAt.IsZero() && clock != nil {
		r.CreatedAt = clock.Tick()
	}
	if r.Ingredients == nil {
		r.Ingredients = models.JSONBStringArray{}
	}
	if r.Instructions == nil {
		r.Instructions = models.JSONBStringArray{}
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

// CreateUser inserts a user together with a profile holding the given preferences.
func CreateUser(t *testing.T, db *gorm.DB, username string, diets, allergies []string) models.UserProfile {
	t.Helper()
	user := models.User{Name: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(&user).Error)

	profile := models.UserProfile{
		UserID:          user.ID,
		Username:        username,
		DietPreferences: models.JSONBStringArray(nonNil(diets)),
		Allergies:       models.JSONBStringArray(nonNil(allergies)),
		Recommendations: models.JSONBStringArray{},
	}
	require.NoError(t, db.Create(&profile).Error)
	return profile
}

// AddFavorite marks recipeID as a favorite of userID, after any earlier favorites.
func AddFavorite(t *testing.T, db *gorm.DB, clock *Clock, userID, recipeID uuid.UUID) {
	t.Helper()
	fav := models.RecipeFavorite{UserID: userID, RecipeID: recipeID}
	if clock != nil {
		fav.CreatedAt = clock.Tick()
	}
	require.NoError(t, db.Create(&fav).Error)
}

// Rate stores a rating for a recipe.
func Rate(t *testing.T, db *gorm.DB, recipeID, userID uuid.UUID, score int) {
	t.Helper()
	require.NoError(t, db.Create(&models.RecipeRating{RecipeID: recipeID, UserID: userID, Score: score}).Error)
}

// CachedIDs reads the persisted recommendation cache of a user.
func CachedIDs(t *testing.T, db *gorm.DB, userID uuid.UUID) []string {
	t.Helper()
	var p models.UserProfile
	require.NoError(t, db.Where("user_id = ?", userID).First(&p).Error)
	return []string(p.Recommendations)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
