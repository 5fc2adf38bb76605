package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserProfile carries the preference data recommendations are computed from.
// Recommendations is a cache of recipe ids, replaced wholesale on every
// recomputation.
type UserProfile struct {
	ID                       uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID                   uuid.UUID        `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Username                 string           `gorm:"size:50;not null;uniqueIndex" json:"username"`
	DietPreferences          JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"diet_preferences"`
	Allergies                JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"allergies"`
	Recommendations          JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"recommendations"`
	RecommendationsUpdatedAt *time.Time       `json:"recommendations_updated_at,omitempty"`
	CreatedAt                time.Time        `json:"created_at"`
	UpdatedAt                time.Time        `json:"updated_at"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// RecipeFavorite links a user to a recipe they marked as liked. CreatedAt
// gives favorites their insertion order.
type RecipeFavorite struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_favorites_user_recipe" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_favorites_user_recipe;index" json:"user_id"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
}

func (RecipeFavorite) TableName() string {
	return "recipe_favorites"
}

func (f *RecipeFavorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// AllModels is the set AutoMigrate manages for sqlite and integration tests.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&UserProfile{},
		&Recipe{},
		&RecipeRating{},
		&RecipeFavorite{},
		&IngredientNutrition{},
		&MealPlan{},
		&MealPlanEntry{},
		&ShoppingList{},
		&ShoppingListItem{},
	}
}
