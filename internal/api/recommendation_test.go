package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipenest/backend/internal/middleware"
	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/recommend"
)

func recommendationRouter(t *testing.T, rec *mockRecommender, userID uuid.UUID, limiter middleware.Limiter) *gin.Engine {
	h := NewRecommendationHandler(rec, authFor(userID), limiter)
	return newTestRouter(t, h.RegisterRoutes)
}

func TestRecommendationsForUser(t *testing.T) {
	rec := new(mockRecommender)
	userID := uuid.New()
	recipe := models.Recipe{ID: uuid.New(), Title: "Pad Thai", Cuisine: "Thai"}
	rec.On("RankBySimilarity", mock.Anything, userID).Return([]recommend.Recommendation{
		{Recipe: recipe, Score: 3.5, Reason: "Matched on cuisine: Thai", Tier: recommend.TierPersonalized},
	}, nil)

	router := recommendationRouter(t, rec, uuid.New(), nil)
	w := performRequest(router, http.MethodGet, "/api/v1/recommendations/"+userID.String(), nil, false)

	require.Equal(t, http.StatusOK, w.Code)
	recs := decode(t, w)["recommendations"].([]interface{})
	require.Len(t, recs, 1)
	entry := recs[0].(map[string]interface{})
	assert.Equal(t, "Pad Thai", entry["title"])
	assert.Equal(t, recipe.ID.String(), entry["id"])
	assert.Equal(t, 3.5, entry["similarity_score"])
	assert.Equal(t, "Matched on cuisine: Thai", entry["reason"])
	rec.AssertExpectations(t)
}

func TestRecommendationsForUserEmptyList(t *testing.T) {
	rec := new(mockRecommender)
	userID := uuid.New()
	rec.On("RankBySimilarity", mock.Anything, userID).Return([]recommend.Recommendation{}, nil)

	w := performRequest(recommendationRouter(t, rec, userID, nil), http.MethodGet, "/api/v1/recommendations/"+userID.String(), nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recommendations":[]}`, w.Body.String())
}

func TestRecommendationsForUserErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown user", fmt.Errorf("similarity: %w", recommend.ErrNotFound), http.StatusNotFound},
		{"store down", fmt.Errorf("similarity: %w: %w", recommend.ErrTransient, errBoom), http.StatusServiceUnavailable},
		{"unexpected", errBoom, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := new(mockRecommender)
			userID := uuid.New()
			rec.On("RankBySimilarity", mock.Anything, userID).Return(nil, tt.err)

			w := performRequest(recommendationRouter(t, rec, userID, nil), http.MethodGet, "/api/v1/recommendations/"+userID.String(), nil, false)
			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.NotEmpty(t, body["error"])
			assert.NotContains(t, body, "recommendations")
		})
	}
}

func TestRecommendationsForUserMalformedID(t *testing.T) {
	rec := new(mockRecommender)
	router := recommendationRouter(t, rec, uuid.New(), nil)

	for _, id := range []string{"not-a-uuid", uuid.Nil.String()} {
		w := performRequest(router, http.MethodGet, "/api/v1/recommendations/"+id, nil, false)
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}
	rec.AssertNotCalled(t, "RankBySimilarity", mock.Anything, mock.Anything)
}

func TestPersonalizedRecommendations(t *testing.T) {
	rec := new(mockRecommender)
	userID := uuid.New()
	rec.On("RankByDietAndAllergy", mock.Anything, userID).Return([]models.Recipe{{ID: uuid.New(), Title: "Tofu Bowl"}}, nil)

	router := recommendationRouter(t, rec, userID, nil)
	w := performRequest(router, http.MethodGet, "/api/v1/recommendations/personalized", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Personalized recommendations generated successfully.", body["message"])
	assert.Len(t, body["recommendations"], 1)
	rec.AssertNotCalled(t, "RankBySimilarity", mock.Anything, mock.Anything)
}

func TestPersonalizedRequiresAuth(t *testing.T) {
	rec := new(mockRecommender)
	router := recommendationRouter(t, rec, uuid.New(), nil)

	w := performRequest(router, http.MethodGet, "/api/v1/recommendations/personalized", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	rec.AssertNotCalled(t, "RankByDietAndAllergy", mock.Anything, mock.Anything)
}

func TestPersonalizedNilResultIsEmptyList(t *testing.T) {
	rec := new(mockRecommender)
	userID := uuid.New()
	rec.On("RankByDietAndAllergy", mock.Anything, userID).Return(nil, nil)

	w := performRequest(recommendationRouter(t, rec, userID, nil), http.MethodGet, "/api/v1/recommendations/personalized", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["recommendations"])
}

func TestRefreshRecommendations(t *testing.T) {
	rec := new(mockRecommender)
	userID := uuid.New()
	rec.On("RankByDietAndAllergy", mock.Anything, userID).Return([]models.Recipe{}, nil)

	w := performRequest(recommendationRouter(t, rec, userID, nil), http.MethodPost, "/api/v1/recommendations/refresh", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Recommendations refreshed successfully.", decode(t, w)["message"])

	rec2 := new(mockRecommender)
	rec2.On("RankByDietAndAllergy", mock.Anything, userID).Return(nil, fmt.Errorf("diet: %w", recommend.ErrNotFound))
	w = performRequest(recommendationRouter(t, rec2, userID, nil), http.MethodPost, "/api/v1/recommendations/refresh", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefreshIsRateLimited(t *testing.T) {
	rec := new(mockRecommender)
	userID := uuid.New()
	rec.On("RankByDietAndAllergy", mock.Anything, userID).Return([]models.Recipe{}, nil)

	limiter := middleware.NewLocalRateLimiter(middleware.RateLimitConfig{Window: time.Hour, Limit: 1, KeyPrefix: "test"})
	router := recommendationRouter(t, rec, userID, limiter)

	w := performRequest(router, http.MethodPost, "/api/v1/recommendations/refresh", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	w = performRequest(router, http.MethodPost, "/api/v1/recommendations/refresh", nil, true)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// the personalized read path is not throttled
	w = performRequest(router, http.MethodGet, "/api/v1/recommendations/personalized", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	rec.AssertNumberOfCalls(t, "RankByDietAndAllergy", 2)
}

func TestCachedRecommendations(t *testing.T) {
	rec := new(mockRecommender)
	userID := uuid.New()
	rec.On("CachedRecommendations", mock.Anything, userID).Return([]models.Recipe{{ID: uuid.New(), Title: "Laksa"}}, nil)

	w := performRequest(recommendationRouter(t, rec, userID, nil), http.MethodGet, "/api/v1/recommendations/cached", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	recs := decode(t, w)["recommendations"].([]interface{})
	require.Len(t, recs, 1)
	assert.Equal(t, "Laksa", recs[0].(map[string]interface{})["title"])
	rec.AssertNotCalled(t, "RankBySimilarity", mock.Anything, mock.Anything)
}
