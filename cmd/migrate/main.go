package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/pageza/recipenest/backend/config"
	"github.com/pageza/recipenest/backend/internal/database"
	"github.com/pageza/recipenest/backend/internal/logging"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "", "Migrations directory (defaults to database.migrations_dir)")
	flag.Parse()

	log := logging.Component("migrate")
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *dir == "" {
		*dir = cfg.Database.MigrationsDir
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()

	if *rollback {
		name, err := database.Rollback(ctx, db, *dir, log)
		if err != nil {
			log.Fatal().Err(err).Msg("rollback failed")
		}
		fmt.Printf("Successfully rolled back migration: %s\n", name)
		return
	}

	applied, err := database.Migrate(ctx, db, *dir, log)
	if err != nil {
		log.Fatal().Err(err).Strs("applied", applied).Msg("migration failed")
	}
	for _, name := range applied {
		fmt.Printf("Successfully applied migration: %s\n", name)
	}
	fmt.Println("All migrations applied successfully.")
}
