package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipenest/backend/internal/middleware"
	"github.com/pageza/recipenest/backend/internal/service"
	"github.com/pageza/recipenest/backend/internal/types"
)

type NutritionHandler struct {
	recipeService service.IRecipeService
	authService   middleware.TokenValidator
}

func NewNutritionHandler(recipeService service.IRecipeService, authService middleware.TokenValidator) *NutritionHandler {
	return &NutritionHandler{
		recipeService: recipeService,
		authService:   authService,
	}
}

func (h *NutritionHandler) RegisterRoutes(router *gin.RouterGroup) {
	nutrition := router.Group("/nutrition")
	{
		nutrition.POST("/analyze/:recipeId", middleware.AuthMiddleware(h.authService), h.Analyze)
		nutrition.GET("/filter", h.Filter)
	}
}

// Analyze recomputes and stores the nutrition of a recipe.
func (h *NutritionHandler) Analyze(c *gin.Context) {
	id, ok := recipeIDParam(c, "recipeId")
	if !ok {
		return
	}

	nutrition, err := h.recipeService.AnalyzeNutrition(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Nutrition calculated and saved successfully.",
		"nutrition": nutrition,
	})
}

func (h *NutritionHandler) Filter(c *gin.Context) {
	var f types.NutritionFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		badRequest(c, err.Error())
		return
	}

	recipes, total, err := h.recipeService.FilterByNutrition(c.Request.Context(), &f)
	if err != nil {
		respondError(c, err)
		return
	}

	page, limit := types.Normalize(f.Page, f.Limit)
	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"pagination": types.Pagination{
			CurrentPage: page,
			PageSize:    limit,
			Total:       total,
		},
	})
}
