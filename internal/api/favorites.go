package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipenest/backend/internal/middleware"
	"github.com/pageza/recipenest/backend/internal/service"
	"github.com/pageza/recipenest/backend/internal/types"
)

type FavoriteHandler struct {
	favoriteService service.IFavoriteService
	authService     middleware.TokenValidator
}

func NewFavoriteHandler(favoriteService service.IFavoriteService, authService middleware.TokenValidator) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		authService:     authService,
	}
}

func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup) {
	favorites := router.Group("/favorites")
	favorites.Use(middleware.AuthMiddleware(h.authService))
	{
		favorites.GET("", h.ListFavorites)
		favorites.POST("/:recipeId", h.AddFavorite)
		favorites.DELETE("/:recipeId", h.RemoveFavorite)
	}
}

func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, ok := recipeIDParam(c, "recipeId")
	if !ok {
		return
	}

	if err := h.favoriteService.AddFavorite(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Recipe added to favorites."})
}

func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var q types.FavoritesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}

	recipes, total, err := h.favoriteService.ListFavorites(c.Request.Context(), userID, &q)
	if err != nil {
		respondError(c, err)
		return
	}

	page, limit := types.Normalize(q.Page, q.Limit)
	c.JSON(http.StatusOK, gin.H{
		"favorites": recipes,
		"pagination": types.Pagination{
			CurrentPage: page,
			PageSize:    limit,
			Total:       total,
		},
	})
}

func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, ok := recipeIDParam(c, "recipeId")
	if !ok {
		return
	}

	if err := h.favoriteService.RemoveFavorite(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe removed from favorites."})
}
