package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipenest/backend/config"
	"github.com/pageza/recipenest/backend/internal/api"
	"github.com/pageza/recipenest/backend/internal/database"
	"github.com/pageza/recipenest/backend/internal/logging"
	"github.com/pageza/recipenest/backend/internal/middleware"
	"github.com/pageza/recipenest/backend/internal/recommend"
	"github.com/pageza/recipenest/backend/internal/router"
	"github.com/pageza/recipenest/backend/internal/server"
	"github.com/pageza/recipenest/backend/internal/service"
	"github.com/pageza/recipenest/backend/internal/store"
	"github.com/pageza/recipenest/backend/internal/supervisor"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	log := logging.Component("main")

	// .env is optional; real deployments use the environment or a config file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	log = logging.Component("main")
	log.Info().
		Str("version", version).
		Str("environment", cfg.Environment.String()).
		Msg("starting recipenest api")

	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := api.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register request validators")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database, logging.Component("database"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsDir, logging.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	redisClient, refreshLimiter := setupRateLimiting(ctx, cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	catalog := store.NewBreakerCatalog(store.NewCatalogStore(db), store.BreakerConfig{
		Name:        "catalog",
		MaxFailures: cfg.Recommend.BreakerMaxFailures,
		Timeout:     cfg.Recommend.BreakerTimeout,
	}, logging.Component("store"))
	profiles := store.NewProfileStore(db)

	engine := recommend.NewEngine(catalog, profiles, recommend.Config{
		SimilarityLimit:   cfg.Recommend.SimilarityLimit,
		PersonalizedLimit: cfg.Recommend.PersonalizedLimit,
		RefreshLimit:      cfg.Recommend.RefreshLimit,
		QueryTimeout:      cfg.Recommend.QueryTimeout,
	}, logging.Component("recommend"))

	authService := service.NewAuthService(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	recipeService := service.NewRecipeService(db)

	r := router.SetupRouter(router.Handlers{
		Health:          api.NewHealthHandler(db, redisClient, catalog, version),
		Recommendations: api.NewRecommendationHandler(engine, authService, refreshLimiter),
		Recipes:         api.NewRecipeHandler(recipeService, authService),
		Favorites:       api.NewFavoriteHandler(service.NewFavoriteService(db), authService),
		Profile:         api.NewProfileHandler(service.NewProfileService(db), authService),
		Nutrition:       api.NewNutritionHandler(recipeService, authService),
		MealPlans:       api.NewMealPlanHandler(service.NewMealPlanService(db), authService),
		ShoppingLists:   api.NewShoppingListHandler(service.NewShoppingListService(db), authService),
	}, logging.Component("http"), cfg.Security.CORSOrigins)

	tree := supervisor.NewTree(logging.Component("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(supervisor.NewHTTPServerService(server.New(cfg.Server, r), cfg.Server.ShutdownTimeout))

	if cfg.Recommend.RefreshEnabled {
		tree.AddJob(recommend.NewRefreshJob(engine, profiles, recommend.RefreshJobConfig{
			Hour:         cfg.Recommend.RefreshHour,
			Minute:       cfg.Recommend.RefreshMinute,
			RunOnStartup: cfg.Recommend.RefreshOnStartup,
		}, logging.Component("refresh")))
	}

	log.Info().Str("addr", cfg.Server.Addr()).Msg("server listening")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("supervisor stopped with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		log.Warn().Int("count", len(report)).Msg("services did not stop within the shutdown timeout")
	}
	log.Info().Msg("server stopped")
}

// setupRateLimiting returns the Redis client, or nil when Redis is optional
// and unreachable, and the limiter guarding manual refreshes.
func setupRateLimiting(ctx context.Context, cfg *config.Config) (*redis.Client, middleware.Limiter) {
	log := logging.Component("ratelimit")
	limit, window := cfg.Security.RefreshRateLimit, cfg.Security.RefreshRateWindow

	client, err := database.NewRedisClient(ctx, cfg.Redis, logging.Component("redis"))
	if err != nil {
		if !cfg.Redis.Optional {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		log.Warn().Err(err).Msg("Redis unavailable, using in-process rate limiting")
		return nil, middleware.NewLocalRateLimiter(middleware.RateLimitConfig{
			Window:    window,
			Limit:     limit,
			KeyPrefix: "rate_limit:recommendation_refresh",
		})
	}
	return client, middleware.NewRefreshRateLimiter(client, limit, window)
}
