package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipenest/backend/internal/metrics"
	"github.com/pageza/recipenest/backend/internal/models"
)

// ProfileStore reads user preference data and writes the recommendation cache.
type ProfileStore struct {
	db *gorm.DB
}

func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// GetByID loads the profile of a user. It returns ErrNotFound when the user
// has no profile.
func (s *ProfileStore) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	start := time.Now()
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = fmt.Errorf("profile for user %s: %w", userID, ErrNotFound)
	case err != nil:
		err = fmt.Errorf("failed to load profile for user %s: %w", userID, err)
	}
	metrics.RecordStoreQuery("profile", "get_by_id", time.Since(start), ignoreNotFound(err))
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Favorites returns the user's favorite recipes in the order they were added.
func (s *ProfileStore) Favorites(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	start := time.Now()
	var favs []models.RecipeFavorite
	err := s.db.WithContext(ctx).
		Preload("Recipe.Ratings").
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&favs).Error
	if err != nil {
		err = fmt.Errorf("failed to load favorites for user %s: %w", userID, err)
	}
	metrics.RecordStoreQuery("profile", "favorites", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	recipes := make([]models.Recipe, 0, len(favs))
	for _, f := range favs {
		if f.Recipe != nil {
			recipes = append(recipes, *f.Recipe)
		}
	}
	return recipes, nil
}

// SaveRecommendations replaces the cached recommendation list of a user.
// It is a single UPDATE, so the cache is either fully replaced or untouched.
// Concurrent writers for the same user are last-writer-wins.
func (s *ProfileStore) SaveRecommendations(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) error {
	start := time.Now()
	ids := make(models.JSONBStringArray, len(recipeIDs))
	for i, id := range recipeIDs {
		ids[i] = id.String()
	}

	res := s.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"recommendations":            ids,
			"recommendations_updated_at": time.Now().UTC(),
		})

	var err error
	switch {
	case res.Error != nil:
		err = fmt.Errorf("failed to save recommendations for user %s: %w", userID, res.Error)
	case res.RowsAffected == 0:
		err = fmt.Errorf("profile for user %s: %w", userID, ErrNotFound)
	}
	metrics.RecordStoreQuery("profile", "save_recommendations", time.Since(start), ignoreNotFound(err))
	return err
}

// ListUserIDs returns every user with a profile, oldest first.
func (s *ProfileStore) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	start := time.Now()
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Order("created_at ASC").Order("user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		err = fmt.Errorf("failed to list users: %w", err)
	}
	metrics.RecordStoreQuery("profile", "list_user_ids", time.Since(start), err)
	return ids, err
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
