package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidRecipe = errors.New("invalid recipe")

type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

type Recipe struct {
	ID           uuid.UUID        `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt    time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Ingredients  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	Cuisine      Cuisine          `gorm:"size:50;index" json:"cuisine"`
	Category     Category         `gorm:"size:50;index" json:"category"`
	Difficulty   Difficulty       `gorm:"size:10" json:"difficulty"`
	PrepTime     int              `json:"prep_time"`
	CookTime     int              `json:"cook_time"`
	Servings     int              `json:"servings"`
	DietType     string           `gorm:"size:50" json:"diet_type"`
	MealType     string           `gorm:"size:50" json:"meal_type"`
	Region       string           `gorm:"size:100" json:"region"`
	ImageURL     string           `gorm:"size:255" json:"image_url"`
	Nutrition    Nutrition        `gorm:"embedded;embeddedPrefix:nutrition_" json:"nutrition"`
	CreatedBy    *uuid.UUID       `gorm:"type:varchar(36)" json:"created_by,omitempty"`
	Ratings      []RecipeRating   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ratings,omitempty"`
}

// BeforeCreate assigns an id when the caller left it empty.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the closed string sets closed on every write path.
func (r *Recipe) BeforeSave(tx *gorm.DB) error {
	return r.Validate()
}

// Validate checks the enum-like fields. Empty values mean "unspecified".
func (r *Recipe) Validate() error {
	if r.Difficulty != "" && !r.Difficulty.Valid() {
		return fmt.Errorf("%w: difficulty %q", ErrInvalidRecipe, r.Difficulty)
	}
	if r.Category != "" && !r.Category.Valid() {
		return fmt.Errorf("%w: category %q", ErrInvalidRecipe, r.Category)
	}
	if r.Cuisine != "" && !r.Cuisine.Valid() {
		return fmt.Errorf("%w: cuisine %q", ErrInvalidRecipe, r.Cuisine)
	}
	return nil
}

// AverageRating returns the mean score and whether there were any ratings.
func (r *Recipe) AverageRating() (float64, bool) {
	if len(r.Ratings) == 0 {
		return 0, false
	}
	var sum int
	for _, rt := range r.Ratings {
		sum += rt.Score
	}
	return float64(sum) / float64(len(r.Ratings)), true
}

// RecipeRating is one user's score for a recipe. A user re-rating a recipe
// updates their existing row.
type RecipeRating struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ratings_recipe_user" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ratings_recipe_user" json:"user_id"`
	Score     int       `gorm:"not null;check:score >= 1 AND score <= 5" json:"score"`
}

func (r *RecipeRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
