package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/recipenest/backend/internal/api"
	"github.com/pageza/recipenest/backend/internal/middleware"
)

// Handlers groups the route handlers mounted by SetupRouter.
type Handlers struct {
	Health          *api.HealthHandler
	Recommendations *api.RecommendationHandler
	Recipes         *api.RecipeHandler
	Favorites       *api.FavoriteHandler
	Profile         *api.ProfileHandler
	Nutrition       *api.NutritionHandler
	MealPlans       *api.MealPlanHandler
	ShoppingLists   *api.ShoppingListHandler
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, logger zerolog.Logger, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(corsOrigins))

	if h.Health != nil {
		h.Health.RegisterRoutes(router)
	}

	v1 := router.Group("/api/v1")
	if h.Recommendations != nil {
		h.Recommendations.RegisterRoutes(v1)
	}
	if h.Recipes != nil {
		h.Recipes.RegisterRoutes(v1)
	}
	if h.Favorites != nil {
		h.Favorites.RegisterRoutes(v1)
	}
	if h.Profile != nil {
		h.Profile.RegisterRoutes(v1)
	}
	if h.Nutrition != nil {
		h.Nutrition.RegisterRoutes(v1)
	}
	if h.MealPlans != nil {
		h.MealPlans.RegisterRoutes(v1)
	}
	if h.ShoppingLists != nil {
		h.ShoppingLists.RegisterRoutes(v1)
	}

	return router
}
