package api

import (
	"fmt"
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

func recipeRouter(t *testing.T, svc *mocks.MockRecipeService, userID uuid.UUID) *gin.Engine {
	h := NewRecipeHandler(svc, authFor(userID))
	return newTestRouter(t, h.RegisterRoutes)
}

func TestListRecipes(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	svc.On("ListRecipes", mock.Anything, &types.RecipeListQuery{Cuisine: "Thai", Query: "curry", Page: 2, Limit: 5}).
		Return([]models.Recipe{{ID: uuid.New(), Title: "Green Curry"}}, int64(6), nil)

	w := performRequest(recipeRouter(t, svc, uuid.New()), http.MethodGet, "/api/v1/recipes?cuisine=Thai&q=curry&page=2&limit=5", nil, false)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["recipes"], 1)
	assert.Equal(t, map[string]interface{}{"current_page": 2.0, "page_size": 5.0, "total": 6.0}, body["pagination"])
	svc.AssertExpectations(t)
}

func TestListRecipesRejectsBadPaging(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	w := performRequest(recipeRouter(t, svc, uuid.New()), http.MethodGet, "/api/v1/recipes?limit=500", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ListRecipes", mock.Anything, mock.Anything)
}

func TestGetRecipe(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	id := uuid.New()
	svc.On("GetRecipe", mock.Anything, id).Return(&models.Recipe{ID: id, Title: "Dal"}, nil)
	missing := uuid.New()
	svc.On("GetRecipe", mock.Anything, missing).Return(nil, service.ErrRecipeNotFound)
	router := recipeRouter(t, svc, uuid.New())

	w := performRequest(router, http.MethodGet, "/api/v1/recipes/"+id.String(), nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dal", decode(t, w)["title"])

	w = performRequest(router, http.MethodGet, "/api/v1/recipes/"+missing.String(), nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"recipe not found"}`, w.Body.String())

	w = performRequest(router, http.MethodGet, "/api/v1/recipes/nope", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRecipe(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	userID := uuid.New()
	svc.On("CreateRecipe", mock.Anything, mock.MatchedBy(func(r *models.Recipe) bool {
		return r.Title == "Miso Soup" && r.CreatedBy != nil && *r.CreatedBy == userID && r.Cuisine == "Japanese"
	})).Return(&models.Recipe{ID: uuid.New(), Title: "Miso Soup"}, nil)

	router := recipeRouter(t, svc, userID)
	req := types.CreateRecipeRequest{
		Title:       "Miso Soup",
		Ingredients: []string{"miso", "tofu"},
		Cuisine:     "Japanese",
		Category:    "Vegan",
		Difficulty:  "Easy",
	}

	w := performRequest(router, http.MethodPost, "/api/v1/recipes", req, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	svc.AssertExpectations(t)

	w = performRequest(router, http.MethodPost, "/api/v1/recipes", req, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeValidatesEnums(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	router := recipeRouter(t, svc, uuid.New())

	tests := []struct {
		name string
		req  types.CreateRecipeRequest
	}{
		{"bad cuisine", types.CreateRecipeRequest{Title: "X", Ingredients: []string{"a"}, Cuisine: "Martian"}},
		{"bad category", types.CreateRecipeRequest{Title: "X", Ingredients: []string{"a"}, Category: "Snacks"}},
		{"bad difficulty", types.CreateRecipeRequest{Title: "X", Ingredients: []string{"a"}, Difficulty: "Extreme"}},
		{"no ingredients", types.CreateRecipeRequest{Title: "X"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPost, "/api/v1/recipes", tt.req, true)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	svc.AssertNotCalled(t, "CreateRecipe", mock.Anything, mock.Anything)
}

func TestRateRecipe(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	userID, recipeID := uuid.New(), uuid.New()
	svc.On("RateRecipe", mock.Anything, recipeID, userID, 4).Return(nil)
	router := recipeRouter(t, svc, userID)

	w := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/recipes/%s/rate", recipeID), types.RateRecipeRequest{Score: 4}, true)
	require.Equal(t, http.StatusOK, w.Code)

	for _, score := range []int{0, 6} {
		w = performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/recipes/%s/rate", recipeID), types.RateRecipeRequest{Score: score}, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	svc.AssertNumberOfCalls(t, "RateRecipe", 1)
}

func TestAverageRating(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	recipeID := uuid.New()
	svc.On("AverageRating", mock.Anything, recipeID).Return(3.5, int64(2), nil)

	w := performRequest(recipeRouter(t, svc, uuid.New()), http.MethodGet, fmt.Sprintf("/api/v1/recipes/%s/average-rating", recipeID), nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 3.5, body["average_rating"])
	assert.Equal(t, 2.0, body["ratings_count"])
}

func TestUpdateRecipe(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	userID := uuid.New()
	own, foreign, missing := uuid.New(), uuid.New(), uuid.New()
	titled := func(r *models.Recipe) bool { return r.Title == "Miso Ramen" }
	svc.On("UpdateRecipe", mock.Anything, own, userID, mock.MatchedBy(titled)).
		Return(&models.Recipe{ID: own, Title: "Miso Ramen"}, nil)
	svc.On("UpdateRecipe", mock.Anything, foreign, userID, mock.Anything).Return(nil, service.ErrForbidden)
	svc.On("UpdateRecipe", mock.Anything, missing, userID, mock.Anything).Return(nil, service.ErrRecipeNotFound)
	router := recipeRouter(t, svc, userID)
	req := types.CreateRecipeRequest{Title: "Miso Ramen", Ingredients: []string{"miso", "noodles"}}

	w := performRequest(router, http.MethodPut, "/api/v1/recipes/"+own.String(), req, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Recipe updated successfully!", body["message"])
	assert.Equal(t, "Miso Ramen", body["recipe"].(map[string]interface{})["title"])

	w = performRequest(router, http.MethodPut, "/api/v1/recipes/"+foreign.String(), req, true)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"not allowed to modify this recipe"}`, w.Body.String())

	w = performRequest(router, http.MethodPut, "/api/v1/recipes/"+missing.String(), req, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(router, http.MethodPut, "/api/v1/recipes/"+own.String(), types.CreateRecipeRequest{Title: "No Ingredients"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodPut, "/api/v1/recipes/"+own.String(), req, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNumberOfCalls(t, "UpdateRecipe", 3)
}

func TestDeleteRecipe(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	userID := uuid.New()
	own, missing := uuid.New(), uuid.New()
	svc.On("DeleteRecipe", mock.Anything, own, userID).Return(nil)
	svc.On("DeleteRecipe", mock.Anything, missing, userID).Return(service.ErrRecipeNotFound)
	router := recipeRouter(t, svc, userID)

	w := performRequest(router, http.MethodDelete, "/api/v1/recipes/"+own.String(), nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Recipe deleted successfully!"}`, w.Body.String())

	w = performRequest(router, http.MethodDelete, "/api/v1/recipes/"+missing.String(), nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(router, http.MethodDelete, "/api/v1/recipes/nope", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodDelete, "/api/v1/recipes/"+own.String(), nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNumberOfCalls(t, "DeleteRecipe", 2)
}
