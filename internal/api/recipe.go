package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipenest/backend/internal/middleware"
	"github.com/pageza/recipenest/backend/internal/service"
	"github.com/pageza/recipenest/backend/internal/types"
)

type RecipeHandler struct {
	recipeService service.IRecipeService
	authService   middleware.TokenValidator
}

func NewRecipeHandler(recipeService service.IRecipeService, authService middleware.TokenValidator) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		authService:   authService,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/average-rating", h.AverageRating)
		recipes.POST("", middleware.AuthMiddleware(h.authService), h.CreateRecipe)
		recipes.PUT("/:id", middleware.AuthMiddleware(h.authService), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.authService), h.DeleteRecipe)
		recipes.POST("/:id/rate", middleware.AuthMiddleware(h.authService), h.RateRecipe)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var q types.RecipeListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}

	recipes, total, err := h.recipeService.ListRecipes(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}

	page, limit := types.Normalize(q.Page, q.Limit)
	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"pagination": types.Pagination{
			CurrentPage: page,
			PageSize:    limit,
			Total:       total,
		},
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), req.ToModel(userID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe replaces a recipe the caller created. The body has the same
// shape as for creation.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeIDParam(c, "id")
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, userID, req.ToModel(userID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe updated successfully!", "recipe": recipe})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully!"})
}

// RateRecipe stores the caller's score, replacing an earlier one.
func (h *RecipeHandler) RateRecipe(c *gin.Context) {
	id, ok := recipeIDParam(c, "id")
	if !ok {
		return
	}

	var req types.RateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.recipeService.RateRecipe(c.Request.Context(), id, userID, req.Score); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating submitted successfully."})
}

func (h *RecipeHandler) AverageRating(c *gin.Context) {
	id, ok := recipeIDParam(c, "id")
	if !ok {
		return
	}

	avg, count, err := h.recipeService.AverageRating(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recipe_id":      id,
		"average_rating": avg,
		"ratings_count":  count,
	})
}

func recipeIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid recipe id")
		return uuid.Nil, false
	}
	return id, true
}
