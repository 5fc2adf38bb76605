package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipenest/backend/internal/middleware"
	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/recommend"
)

// Recommender is the part of recommend.Engine the HTTP layer uses.
type Recommender interface {
	RankBySimilarity(ctx context.Context, userID uuid.UUID) ([]recommend.Recommendation, error)
	RankByDietAndAllergy(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	CachedRecommendations(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
}

// RecommendationResponse is one entry of a similarity-ranked list.
type RecommendationResponse struct {
	models.Recipe
	SimilarityScore float64 `json:"similarity_score"`
	Reason          string  `json:"reason"`
}

type RecommendationHandler struct {
	recommender    Recommender
	authService    middleware.TokenValidator
	refreshLimiter middleware.Limiter
}

// NewRecommendationHandler builds the handler. A nil limiter leaves refresh unthrottled.
func NewRecommendationHandler(recommender Recommender, authService middleware.TokenValidator, refreshLimiter middleware.Limiter) *RecommendationHandler {
	return &RecommendationHandler{
		recommender:    recommender,
		authService:    authService,
		refreshLimiter: refreshLimiter,
	}
}

// RegisterRoutes registers the recommendation routes. The static segments
// take precedence over :userId.
func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup) {
	recs := router.Group("/recommendations")
	auth := middleware.AuthMiddleware(h.authService)

	refresh := []gin.HandlerFunc{auth}
	if h.refreshLimiter != nil {
		refresh = append(refresh, middleware.RateLimitMiddleware(h.refreshLimiter, "recommendation_refresh"))
	}
	refresh = append(refresh, h.Refresh)

	recs.GET("/personalized", auth, h.Personalized)
	recs.GET("/cached", auth, h.Cached)
	recs.POST("/refresh", refresh...)
	recs.GET("/:userId", h.ForUser)
}

// ForUser returns the tiered similarity ranking for the user in the path.
func (h *RecommendationHandler) ForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil || userID == uuid.Nil {
		badRequest(c, "invalid user id")
		return
	}

	recs, err := h.recommender.RankBySimilarity(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]RecommendationResponse, len(recs))
	for i, r := range recs {
		out[i] = RecommendationResponse{Recipe: r.Recipe, SimilarityScore: r.Score, Reason: r.Reason}
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": out})
}

// Personalized computes and caches the diet and allergy filtered list.
func (h *RecommendationHandler) Personalized(c *gin.Context) {
	h.dietAndAllergy(c, "Personalized recommendations generated successfully.")
}

// Refresh recomputes the cached list on demand.
func (h *RecommendationHandler) Refresh(c *gin.Context) {
	h.dietAndAllergy(c, "Recommendations refreshed successfully.")
}

func (h *RecommendationHandler) dietAndAllergy(c *gin.Context, message string) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipes, err := h.recommender.RankByDietAndAllergy(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         message,
		"recommendations": recipes,
	})
}

// Cached returns the persisted recommendation list without recomputing it.
func (h *RecommendationHandler) Cached(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipes, err := h.recommender.CachedRecommendations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recipes})
}
