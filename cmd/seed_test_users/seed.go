package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/service"
	"github.com/pageza/recipenest/backend/internal/types"
)

// testUsers cover every diet preference plus users with allergies only and
// with nothing set at all.
var testUsers = []types.CreateUserRequest{
	{Name: "John Doe", Email: "john.doe@example.com", Username: "johndoe", DietPreferences: []string{"Vegetarian"}, Allergies: []string{"peanut"}},
	{Name: "Jane Smith", Email: "jane.smith@example.com", Username: "janesmith", DietPreferences: []string{"Vegan", "High-Protein"}},
	{Name: "Bob Wilson", Email: "bob.wilson@example.com", Username: "bobwilson", DietPreferences: []string{"Keto"}, Allergies: []string{"dairy", "egg"}},
	{Name: "Alice Cooper", Email: "alice.cooper@example.com", Username: "alicecooper", DietPreferences: []string{"Balanced"}},
	{Name: "Sam Allergic", Email: "sam@example.com", Username: "samallergic", Allergies: []string{"shellfish", "sesame"}},
	{Name: "Test Blank", Email: "blank@example.com", Username: "blank_user"},
}

type seededUser struct {
	Username string
	Email    string
	Token    string
	Created  bool
}

// seedUsers provisions the test users, skipping those that already exist,
// and issues a bearer token for each.
func seedUsers(ctx context.Context, db *gorm.DB, profiles service.IProfileService, auth service.IAuthService, users []types.CreateUserRequest, log zerolog.Logger) ([]seededUser, error) {
	out := make([]seededUser, 0, len(users))
	for i := range users {
		req := users[i]
		created := true

		profile, err := profiles.CreateUser(ctx, &req)
		if errors.Is(err, service.ErrUserExists) {
			log.Info().Str("email", req.Email).Msg("user already exists, skipping")
			created = false
			profile, err = existingProfile(ctx, db, req.Username)
		}
		if err != nil {
			return out, fmt.Errorf("failed to seed %s: %w", req.Email, err)
		}

		token, err := auth.GenerateToken(&types.TokenClaims{UserID: profile.UserID, Username: profile.Username})
		if err != nil {
			return out, fmt.Errorf("failed to issue token for %s: %w", req.Email, err)
		}

		out = append(out, seededUser{
			Username: profile.Username,
			Email:    req.Email,
			Token:    token,
			Created:  created,
		})
	}
	return out, nil
}

func existingProfile(ctx context.Context, db *gorm.DB, username string) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := db.WithContext(ctx).Where("username = ?", username).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
