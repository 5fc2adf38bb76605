package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/store"
	"github.com/pageza/recipenest/backend/internal/types"
)

// FavoriteService manages the recipes a user has marked as liked
type FavoriteService struct {
	db *gorm.DB
}

var _ IFavoriteService = (*FavoriteService)(nil)

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// AddFavorite favorites a recipe and drops it from the user's cached
// recommendations, which must never contain a favorite.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipes int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&recipes).Error; err != nil {
			return fmt.Errorf("failed to look up recipe: %w", err)
		}
		if recipes == 0 {
			return ErrRecipeNotFound
		}

		var profile models.UserProfile
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		var existing int64
		err = tx.Model(&models.RecipeFavorite{}).
			Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to check favorites: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyFavorited
		}

		if err := tx.Create(&models.RecipeFavorite{UserID: userID, RecipeID: recipeID}).Error; err != nil {
			return fmt.Errorf("failed to add favorite: %w", err)
		}

		if !profile.Recommendations.Contains(recipeID.String()) {
			return nil
		}
		kept := make(models.JSONBStringArray, 0, len(profile.Recommendations))
		for _, id := range profile.Recommendations {
			if id != recipeID.String() {
				kept = append(kept, id)
			}
		}
		err = tx.Model(&models.UserProfile{}).
			Where("user_id = ?", userID).
			Update("recommendations", kept).Error
		if err != nil {
			return fmt.Errorf("failed to update cached recommendations: %w", err)
		}
		return nil
	})
}

// ListFavorites returns one page of the user's favorites, newest recipe first,
// optionally filtered by a case-insensitive title search.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID uuid.UUID, q *types.FavoritesQuery) ([]models.Recipe, int64, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, 0, err
	}
	page, limit := types.Normalize(q.Page, q.Limit)

	query := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Joins("JOIN recipe_favorites ON recipe_favorites.recipe_id = recipes.id").
		Where("recipe_favorites.user_id = ?", userID)
	if search := strings.TrimSpace(q.Search); search != "" {
		query = query.Where("LOWER(recipes.title) LIKE ? "+store.LikeEscape, store.ContainsPattern(search))
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count favorites: %w", err)
	}

	var recipes []models.Recipe
	err := query.
		Order("recipes.created_at DESC").Order("recipes.id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list favorites: %w", err)
	}
	return recipes, total, nil
}

// RemoveFavorite unfavorites a recipe. Removing a recipe that is not a
// favorite is not an error.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.RecipeFavorite{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *FavoriteService) ensureUser(ctx context.Context, userID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserProfile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}
