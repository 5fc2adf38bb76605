package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipenest/backend/internal/middleware"
	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/recommend"
	"github.com/pageza/recipenest/backend/internal/service"
)

// respondError writes the error payload matching err's kind.
func respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		middleware.LoggerFromContext(c).Error().Err(err).Int("status", status).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		return http.StatusNotFound, "recipe not found"
	case errors.Is(err, recommend.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, service.ErrMealPlanNotFound), errors.Is(err, service.ErrShoppingListNotFound),
		errors.Is(err, service.ErrShoppingItemNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrAlreadyFavorited):
		return http.StatusBadRequest, "recipe already in favorites"
	case errors.Is(err, service.ErrInvalidPreferences), errors.Is(err, models.ErrInvalidRecipe),
		errors.Is(err, service.ErrInvalidMealPlan), errors.Is(err, models.ErrInvalidWeek):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, recommend.ErrValidation):
		return http.StatusBadRequest, "invalid user id"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, recommend.ErrTransient):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
