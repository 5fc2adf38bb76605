package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipenest/backend/internal/middleware"
	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/service"
	"github.com/pageza/recipenest/backend/internal/types"
)

type ProfileHandler struct {
	profileService service.IProfileService
	authService    middleware.TokenValidator
}

func NewProfileHandler(profileService service.IProfileService, authService middleware.TokenValidator) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		authService:    authService,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(h.authService))
	{
		profile.GET("/preferences", h.GetPreferences)
		profile.PUT("/preferences", h.UpdatePreferences)
	}
}

func (h *ProfileHandler) GetPreferences(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preferences(profile))
}

// UpdatePreferences replaces the caller's diet preferences and allergies.
func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	profile, err := h.profileService.UpdatePreferences(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preferences(profile))
}

func preferences(p *models.UserProfile) gin.H {
	diets := []string(p.DietPreferences)
	if diets == nil {
		diets = []string{}
	}
	allergies := []string(p.Allergies)
	if allergies == nil {
		allergies = []string{}
	}
	return gin.H{
		"diet_preferences": diets,
		"allergies":        allergies,
	}
}
