package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/recommend"
	"github.com/pageza/recipenest/backend/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("op: %w", recommend.ErrNotFound), http.StatusNotFound},
		{service.ErrRecipeNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", service.ErrUserNotFound), http.StatusNotFound},
		{fmt.Errorf("op: %w", recommend.ErrValidation), http.StatusBadRequest},
		{service.ErrAlreadyFavorited, http.StatusBadRequest},
		{fmt.Errorf("%w: diet %q", service.ErrInvalidPreferences, "x"), http.StatusBadRequest},
		{fmt.Errorf("save: %w", models.ErrInvalidRecipe), http.StatusBadRequest},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrMealPlanNotFound, http.StatusNotFound},
		{service.ErrShoppingListNotFound, http.StatusNotFound},
		{service.ErrShoppingItemNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: Monday planned twice", service.ErrInvalidMealPlan), http.StatusBadRequest},
		{fmt.Errorf("%w: %q", models.ErrInvalidWeek, "2025-W99"), http.StatusBadRequest},
		{service.ErrUserExists, http.StatusConflict},
		{fmt.Errorf("op: %w: %w", recommend.ErrTransient, errBoom), http.StatusServiceUnavailable},
		{errBoom, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, msg := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.NotEmpty(t, msg)
	}
}
