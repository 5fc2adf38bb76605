package types

import (
	"github.com/google/uuid"

	"github.com/pageza/recipenest/backend/internal/models"
)

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title        string           `json:"title" binding:"required,max=255"`
	Ingredients  []string         `json:"ingredients" binding:"required,min=1,dive,required,max=200"`
	Instructions []string         `json:"instructions" binding:"omitempty,dive,max=2000"`
	Cuisine      string           `json:"cuisine" binding:"omitempty,recipe_cuisine"`
	Category     string           `json:"category" binding:"omitempty,recipe_category"`
	Difficulty   string           `json:"difficulty" binding:"omitempty,recipe_difficulty"`
	PrepTime     int              `json:"prep_time" binding:"min=0"`
	CookTime     int              `json:"cook_time" binding:"min=0"`
	Servings     int              `json:"servings" binding:"min=0"`
	DietType     string           `json:"diet_type" binding:"max=50"`
	MealType     string           `json:"meal_type" binding:"max=50"`
	Region       string           `json:"region" binding:"max=100"`
	ImageURL     string           `json:"image_url" binding:"omitempty,url,max=255"`
	Nutrition    models.Nutrition `json:"nutrition"`
}

// ToModel builds the recipe described by the request.
func (r *CreateRecipeRequest) ToModel(createdBy uuid.UUID) *models.Recipe {
	recipe := &models.Recipe{
		Title:        r.Title,
		Ingredients:  models.JSONBStringArray(r.Ingredients),
		Instructions: models.JSONBStringArray(r.Instructions),
		Cuisine:      models.Cuisine(r.Cuisine),
		Category:     models.Category(r.Category),
		Difficulty:   models.Difficulty(r.Difficulty),
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		DietType:     r.DietType,
		MealType:     r.MealType,
		Region:       r.Region,
		ImageURL:     r.ImageURL,
		Nutrition:    r.Nutrition,
	}
	if recipe.Instructions == nil {
		recipe.Instructions = models.JSONBStringArray{}
	}
	if createdBy != uuid.Nil {
		recipe.CreatedBy = &createdBy
	}
	return recipe
}

// RateRecipeRequest represents the request body for rating a recipe
type RateRecipeRequest struct {
	Score int `json:"score" binding:"required,min=1,max=5"`
}

// UpdatePreferencesRequest replaces a user's diet preferences and allergies
type UpdatePreferencesRequest struct {
	DietPreferences []string `json:"diet_preferences" binding:"omitempty,max=10,dive,diet_preference"`
	Allergies       []string `json:"allergies" binding:"omitempty,max=50,dive,required,max=100"`
}

// CreateUserRequest is used by tooling to provision users with a profile
type CreateUserRequest struct {
	Name            string   `json:"name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Username        string   `json:"username" binding:"required,min=3,max=50"`
	DietPreferences []string `json:"diet_preferences" binding:"omitempty,dive,diet_preference"`
	Allergies       []string `json:"allergies"`
}

// RecipeListQuery holds the query parameters of GET /recipes
type RecipeListQuery struct {
	Category string `form:"category"`
	Cuisine  string `form:"cuisine"`
	Query    string `form:"q" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// FavoritesQuery holds the query parameters of GET /favorites
type FavoritesQuery struct {
	Search string `form:"search" binding:"max=100"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// NutritionFilter holds the query parameters of GET /nutrition/filter. Unset
// bounds do not filter.
type NutritionFilter struct {
	MaxCalories *float64 `form:"maxCalories" binding:"omitempty,min=0"`
	MinProtein  *float64 `form:"minProtein" binding:"omitempty,min=0"`
	MaxFat      *float64 `form:"maxFat" binding:"omitempty,min=0"`
	MaxCarbs    *float64 `form:"maxCarbs" binding:"omitempty,min=0"`
	Page        int      `form:"page" binding:"omitempty,min=1"`
	Limit       int      `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Pagination is returned alongside paged lists
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"total"`
}

// Normalize fills the defaults used by paged list endpoints.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
