package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pageza/recipenest/backend/config"
	"github.com/pageza/recipenest/backend/internal/database"
	"github.com/pageza/recipenest/backend/internal/logging"
)

func main() {
	source := flag.String("source", "", "Catalog JSON file or s3://bucket/key (defaults to the configured storage bucket, then recipes.json)")
	batchSize := flag.Int("batch", 100, "Insert batch size")
	dryRun := flag.Bool("dry-run", false, "Validate the catalog without writing to the database")
	flag.Parse()

	log := logging.Component("seed_recipes")
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src := *source
	if src == "" {
		src = "recipes.json"
		if cfg.Storage.Bucket != "" {
			src = "s3://" + cfg.Storage.Bucket + "/" + cfg.Storage.CatalogKey
		}
	}

	r, err := openSource(ctx, cfg.Storage, src)
	if err != nil {
		log.Fatal().Err(err).Str("source", src).Msg("failed to open catalog")
	}
	entries, err := parseCatalog(r)
	r.Close()
	if err != nil {
		log.Fatal().Err(err).Str("source", src).Msg("failed to parse catalog")
	}

	db, err := database.Open(ctx, cfg.Database, logging.Component("database"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	res, err := importCatalog(ctx, db, entries, *batchSize, *dryRun, log)
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
	log.Info().
		Str("source", src).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Bool("dry_run", *dryRun).
		Msg("recipes imported successfully")
}

// openSource opens a local file or an object in S3.
func openSource(ctx context.Context, storage config.StorageConfig, src string) (io.ReadCloser, error) {
	bucket, key, ok := config.ParseS3URI(src)
	if !ok {
		return os.Open(src)
	}
	storage.Bucket = bucket
	s3cfg, err := config.NewS3Config(ctx, storage)
	if err != nil {
		return nil, err
	}
	return s3cfg.Open(ctx, key)
}
