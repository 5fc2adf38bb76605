package types

import (
	"github.com/google/uuid"

	"github.com/pageza/recipenest/backend/internal/models"
)

// SaveMealPlanRequest replaces the plan of one week. Days left out have no
// meals planned.
type SaveMealPlanRequest struct {
	Days []MealPlanDay `json:"days" binding:"required,max=7,dive"`
}

type MealPlanDay struct {
	Day       string      `json:"day" binding:"required,meal_day"`
	Breakfast *uuid.UUID  `json:"breakfast"`
	Lunch     *uuid.UUID  `json:"lunch"`
	Dinner    *uuid.UUID  `json:"dinner"`
	Snacks    []uuid.UUID `json:"snacks" binding:"max=10"`
}

// MealPlanView is a stored plan with its recipes resolved, days in week order.
type MealPlanView struct {
	ID   uuid.UUID     `json:"id"`
	Week string        `json:"week"`
	Days []DayPlanView `json:"days"`
}

type DayPlanView struct {
	Day       models.MealDay  `json:"day"`
	Breakfast *models.Recipe  `json:"breakfast"`
	Lunch     *models.Recipe  `json:"lunch"`
	Dinner    *models.Recipe  `json:"dinner"`
	Snacks    []models.Recipe `json:"snacks"`
}

// ShoppingListView groups a week's items by the recipe they came from.
type ShoppingListView struct {
	Week   string          `json:"week"`
	Groups []ShoppingGroup `json:"items"`
}

type ShoppingGroup struct {
	RecipeName  string                    `json:"recipe_name"`
	RecipeID    *uuid.UUID                `json:"recipe_id,omitempty"`
	Ingredients []models.ShoppingListItem `json:"ingredients"`
}

// OtherItemsGroup holds items that did not come from a single recipe.
const OtherItemsGroup = "Other Items"

// UpdateShoppingItemRequest ticks an item off or back on.
type UpdateShoppingItemRequest struct {
	Added *bool `json:"added" binding:"required"`
}
