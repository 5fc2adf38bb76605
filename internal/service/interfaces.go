package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/types"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyFavorited   = errors.New("recipe already in favorites")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidPreferences = errors.New("invalid preferences")
	ErrForbidden          = errors.New("not allowed to modify this recipe")

	ErrInvalidMealPlan      = errors.New("invalid meal plan")
	ErrMealPlanNotFound     = errors.New("meal plan not found")
	ErrShoppingListNotFound = errors.New("shopping list not found")
	ErrShoppingItemNotFound = errors.New("item not found in shopping list")
)

// IAuthService defines the interface for token operations
type IAuthService interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	CreateUser(ctx context.Context, req *types.CreateUserRequest) (*models.UserProfile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, req *types.UpdatePreferencesRequest) (*models.UserProfile, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	ListRecipes(ctx context.Context, q *types.RecipeListQuery) ([]models.Recipe, int64, error)
	RateRecipe(ctx context.Context, recipeID, userID uuid.UUID, score int) error
	AverageRating(ctx context.Context, recipeID uuid.UUID) (float64, int64, error)
	UpdateRecipe(ctx context.Context, id, userID uuid.UUID, update *models.Recipe) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id, userID uuid.UUID) error
	AnalyzeNutrition(ctx context.Context, recipeID uuid.UUID) (*models.Nutrition, error)
	FilterByNutrition(ctx context.Context, f *types.NutritionFilter) ([]models.Recipe, int64, error)
}

// IFavoriteService defines the interface for favorite operations
type IFavoriteService interface {
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	ListFavorites(ctx context.Context, userID uuid.UUID, q *types.FavoritesQuery) ([]models.Recipe, int64, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
}

// IMealPlanService defines the interface for weekly meal plans
type IMealPlanService interface {
	SavePlan(ctx context.Context, userID uuid.UUID, week string, req *types.SaveMealPlanRequest) (*types.MealPlanView, error)
	GetPlan(ctx context.Context, userID uuid.UUID, week string) (*types.MealPlanView, error)
}

// IShoppingListService defines the interface for weekly shopping lists
type IShoppingListService interface {
	Generate(ctx context.Context, userID uuid.UUID, week string) (*models.ShoppingList, error)
	AddRecipe(ctx context.Context, userID uuid.UUID, week string, recipeID uuid.UUID) (*models.ShoppingList, error)
	GetList(ctx context.Context, userID uuid.UUID, week string) (*types.ShoppingListView, error)
	RemoveRecipe(ctx context.Context, userID uuid.UUID, week string, recipeID uuid.UUID) (int64, error)
	SetItemAdded(ctx context.Context, userID, itemID uuid.UUID, added bool) (*models.ShoppingListItem, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}
