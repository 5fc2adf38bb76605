package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipenest/backend/internal/mocks"
	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/service"
	"github.com/pageza/recipenest/backend/internal/types"
)

func profileRouter(t *testing.T, svc *mocks.MockProfileService, userID uuid.UUID) *gin.Engine {
	h := NewProfileHandler(svc, authFor(userID))
	return newTestRouter(t, h.RegisterRoutes)
}

func TestGetPreferences(t *testing.T) {
	svc := new(mocks.MockProfileService)
	userID := uuid.New()
	svc.On("GetProfile", mock.Anything, userID).Return(&models.UserProfile{
		UserID:          userID,
		DietPreferences: models.JSONBStringArray{"Vegan"},
	}, nil)

	w := performRequest(profileRouter(t, svc, userID), http.MethodGet, "/api/v1/profile/preferences", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"diet_preferences":["Vegan"],"allergies":[]}`, w.Body.String())
}

func TestGetPreferencesUnknownUser(t *testing.T) {
	svc := new(mocks.MockProfileService)
	userID := uuid.New()
	svc.On("GetProfile", mock.Anything, userID).Return(nil, service.ErrUserNotFound)

	w := performRequest(profileRouter(t, svc, userID), http.MethodGet, "/api/v1/profile/preferences", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePreferences(t *testing.T) {
	svc := new(mocks.MockProfileService)
	userID := uuid.New()
	req := &types.UpdatePreferencesRequest{DietPreferences: []string{"Keto"}, Allergies: []string{"peanut"}}
	svc.On("UpdatePreferences", mock.Anything, userID, req).Return(&models.UserProfile{
		UserID:          userID,
		DietPreferences: models.JSONBStringArray{"Keto"},
		Allergies:       models.JSONBStringArray{"peanut"},
	}, nil)
	router := profileRouter(t, svc, userID)

	w := performRequest(router, http.MethodPut, "/api/v1/profile/preferences", req, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"diet_preferences":["Keto"],"allergies":["peanut"]}`, w.Body.String())

	w = performRequest(router, http.MethodPut, "/api/v1/profile/preferences",
		types.UpdatePreferencesRequest{DietPreferences: []string{"Carnivore"}}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "UpdatePreferences", 1)
}
