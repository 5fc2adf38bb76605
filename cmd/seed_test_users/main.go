package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/pageza/recipenest/backend/config"
	"github.com/pageza/recipenest/backend/internal/database"
	"github.com/pageza/recipenest/backend/internal/logging"
	"github.com/pageza/recipenest/backend/internal/service"
)

func main() {
	log := logging.Component("seed_test_users")
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.Database, logging.Component("database"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	auth := service.NewAuthService(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	seeded, err := seedUsers(ctx, db, service.NewProfileService(db), auth, testUsers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	fmt.Println("Test users:")
	for _, u := range seeded {
		status := "existing"
		if u.Created {
			status = "created"
		}
		fmt.Printf("  %-14s %-26s %s\n    Authorization: Bearer %s\n", u.Username, u.Email, status, u.Token)
	}
}
