package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/store"
	"github.com/pageza/recipenest/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateRecipe creates a new recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID with its ratings
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Preload("Ratings").First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

// ListRecipes returns one page of recipes, newest first, and the total match count
func (s *RecipeService) ListRecipes(ctx context.Context, q *types.RecipeListQuery) ([]models.Recipe, int64, error) {
	page, limit := types.Normalize(q.Page, q.Limit)

	query := s.db.WithContext(ctx).Model(&models.Recipe{})
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Cuisine != "" {
		query = query.Where("cuisine = ?", q.Cuisine)
	}
	if search := strings.TrimSpace(q.Query); search != "" {
		query = query.Where("LOWER(title) LIKE ? "+store.LikeEscape, store.ContainsPattern(search))
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := query.
		Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// RateRecipe records the user's score, replacing their earlier score if any
func (s *RecipeService) RateRecipe(ctx context.Context, recipeID, userID uuid.UUID, score int) error {
	if err := s.ensureRecipe(ctx, recipeID); err != nil {
		return err
	}
	rating := models.RecipeRating{RecipeID: recipeID, UserID: userID, Score: score}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).Create(&rating).Error
	if err != nil {
		return fmt.Errorf("failed to rate recipe: %w", err)
	}
	return nil
}

// AverageRating returns the mean score of a recipe and how many ratings it has.
// A recipe without ratings averages 0.
func (s *RecipeService) AverageRating(ctx context.Context, recipeID uuid.UUID) (float64, int64, error) {
	if err := s.ensureRecipe(ctx, recipeID); err != nil {
		return 0, 0, err
	}
	var row struct {
		Average float64
		Count   int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.RecipeRating{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS count").
		Where("recipe_id = ?", recipeID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to average ratings: %w", err)
	}
	return row.Average, row.Count, nil
}

func (s *RecipeService) ensureRecipe(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up recipe: %w", err)
	}
	if count == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// UpdateRecipe replaces the editable fields of a recipe the user created.
// Imported recipes have no creator and cannot be edited.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, userID uuid.UUID, update *models.Recipe) (*models.Recipe, error) {
	recipe, err := s.ownedRecipe(s.db.WithContext(ctx), id, userID)
	if err != nil {
		return nil, err
	}

	recipe.Title = update.Title
	recipe.Ingredients = update.Ingredients
	recipe.Instructions = update.Instructions
	recipe.Cuisine = update.Cuisine
	recipe.Category = update.Category
	recipe.Difficulty = update.Difficulty
	recipe.PrepTime = update.PrepTime
	recipe.CookTime = update.CookTime
	recipe.Servings = update.Servings
	recipe.DietType = update.DietType
	recipe.MealType = update.MealType
	recipe.Region = update.Region
	recipe.ImageURL = update.ImageURL
	recipe.Nutrition = update.Nutrition

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return recipe, nil
}

// DeleteRecipe removes a recipe the user created together with its ratings,
// favorites and meal plan entries. Shopping list items keep their name and
// lose the link.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.ownedRecipe(tx, id, userID); err != nil {
			return err
		}
		for _, m := range []interface{}{&models.RecipeRating{}, &models.RecipeFavorite{}, &models.MealPlanEntry{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to delete recipe references: %w", err)
			}
		}
		err := tx.Model(&models.ShoppingListItem{}).Where("recipe_id = ?", id).Update("recipe_id", nil).Error
		if err != nil {
			return fmt.Errorf("failed to unlink shopping list items: %w", err)
		}
		if err := tx.Delete(&models.Recipe{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
}

// AnalyzeNutrition recomputes a recipe's nutrition from the ingredient table
// and stores it. Every listed ingredient counts once per occurrence; unknown
// ingredients contribute nothing.
func (s *RecipeService) AnalyzeNutrition(ctx context.Context, recipeID uuid.UUID) (*models.Nutrition, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	keys := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		if k := models.IngredientKey(ing); k != "" {
			keys = append(keys, k)
		}
	}
	table := map[string]models.IngredientNutrition{}
	if len(keys) > 0 {
		var rows []models.IngredientNutrition
		if err := s.db.WithContext(ctx).Where("name IN ?", keys).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to load ingredient nutrition: %w", err)
		}
		for _, r := range rows {
			table[r.Name] = r
		}
	}

	var total models.Nutrition
	for _, k := range keys {
		total.Add(table[k])
	}

	err = s.db.WithContext(ctx).Model(&recipe).Updates(map[string]interface{}{
		"nutrition_calories": total.Calories,
		"nutrition_protein":  total.Protein,
		"nutrition_fat":      total.Fat,
		"nutrition_carbs":    total.Carbs,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save nutrition: %w", err)
	}
	return &total, nil
}

// FilterByNutrition returns one page of recipes within the given bounds,
// newest first, and the total match count.
func (s *RecipeService) FilterByNutrition(ctx context.Context, f *types.NutritionFilter) ([]models.Recipe, int64, error) {
	page, limit := types.Normalize(f.Page, f.Limit)

	query := s.db.WithContext(ctx).Model(&models.Recipe{})
	if f.MaxCalories != nil {
		query = query.Where("nutrition_calories <= ?", *f.MaxCalories)
	}
	if f.MinProtein != nil {
		query = query.Where("nutrition_protein >= ?", *f.MinProtein)
	}
	if f.MaxFat != nil {
		query = query.Where("nutrition_fat <= ?", *f.MaxFat)
	}
	if f.MaxCarbs != nil {
		query = query.Where("nutrition_carbs <= ?", *f.MaxCarbs)
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := query.
		Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to filter recipes: %w", err)
	}
	return recipes, total, nil
}

func (s *RecipeService) ownedRecipe(tx *gorm.DB, id, userID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := tx.First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if recipe.CreatedBy == nil || *recipe.CreatedBy != userID {
		return nil, ErrForbidden
	}
	return &recipe, nil
}
