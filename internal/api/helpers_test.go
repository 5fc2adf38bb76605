package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipenest/backend/internal/mocks"
	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/recommend"
	"github.com/pageza/recipenest/backend/internal/service"
	"github.com/pageza/recipenest/backend/internal/types"
)

const testToken = "valid-token"

// mockRecommender lives here because the recommend package's own tests
// import internal/mocks.
type mockRecommender struct {
	mock.Mock
}

func (m *mockRecommender) RankBySimilarity(ctx context.Context, userID uuid.UUID) ([]recommend.Recommendation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recommend.Recommendation), args.Error(1)
}

func (m *mockRecommender) RankByDietAndAllergy(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *mockRecommender) CachedRecommendations(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

// authFor returns an auth mock that accepts testToken for userID.
func authFor(userID uuid.UUID) *mocks.MockAuthService {
	auth := new(mocks.MockAuthService)
	auth.On("ValidateToken", testToken).Return(&types.TokenClaims{UserID: userID, Username: "tester"}, nil)
	auth.On("ValidateToken", mock.Anything).Return(nil, service.ErrInvalidToken)
	return auth
}

func newTestRouter(t *testing.T, register func(*gin.RouterGroup)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())
	router := gin.New()
	register(router.Group("/api/v1"))
	return router
}

func performRequest(router http.Handler, method, path string, body interface{}, authenticated bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var errBoom = errors.New("boom")
