package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/types"
)

// ProfileService handles user profile operations
type ProfileService struct {
	db *gorm.DB
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// CreateUser creates a user and their profile in one transaction
func (s *ProfileService) CreateUser(ctx context.Context, req *types.CreateUserRequest) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", req.Email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrUserExists
		}

		user := models.User{Name: req.Name, Email: req.Email}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile = models.UserProfile{
			UserID:          user.ID,
			Username:        req.Username,
			DietPreferences: cleanList(req.DietPreferences),
			Allergies:       cleanList(req.Allergies),
			Recommendations: models.JSONBStringArray{},
		}
		return tx.Create(&profile).Error
	})
	if errors.Is(err, ErrUserExists) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &profile, nil
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// UpdatePreferences replaces a user's diet preferences and allergies. The
// cached recommendations are left alone until the next recomputation.
func (s *ProfileService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req *types.UpdatePreferencesRequest) (*models.UserProfile, error) {
	for _, d := range req.DietPreferences {
		if !models.DietPreference(d).Valid() {
			return nil, fmt.Errorf("%w: unknown diet preference %q", ErrInvalidPreferences, d)
		}
	}

	res := s.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"diet_preferences": cleanList(req.DietPreferences),
			"allergies":        cleanList(req.Allergies),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.GetProfile(ctx, userID)
}

// cleanList trims entries and drops blanks and duplicates, keeping order.
func cleanList(in []string) models.JSONBStringArray {
	out := models.JSONBStringArray{}
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
