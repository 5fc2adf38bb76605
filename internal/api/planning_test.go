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

	"github.com/pageza/recipenest/backend/internal/mocks"
	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/service"
	"github.com/pageza/recipenest/backend/internal/types"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC) }

func mealPlanRouter(t *testing.T, svc *mocks.MockMealPlanService, userID uuid.UUID) *gin.Engine {
	h := NewMealPlanHandler(svc, authFor(userID))
	h.now = fixedNow
	return newTestRouter(t, h.RegisterRoutes)
}

func shoppingRouter(t *testing.T, svc *mocks.MockShoppingListService, userID uuid.UUID) *gin.Engine {
	h := NewShoppingListHandler(svc, authFor(userID))
	h.now = fixedNow
	return newTestRouter(t, h.RegisterRoutes)
}

func TestSaveMealPlan(t *testing.T) {
	svc := new(mocks.MockMealPlanService)
	userID, dal := uuid.New(), uuid.New()
	svc.On("SavePlan", mock.Anything, userID, "2025-W10", mock.MatchedBy(func(r *types.SaveMealPlanRequest) bool {
		return len(r.Days) == 1 && r.Days[0].Day == "Monday" && *r.Days[0].Dinner == dal && len(r.Days[0].Snacks) == 1
	})).Return(&types.MealPlanView{Week: "2025-W10", Days: []types.DayPlanView{{Day: models.Monday}}}, nil)
	router := mealPlanRouter(t, svc, userID)

	req := types.SaveMealPlanRequest{Days: []types.MealPlanDay{{Day: "Monday", Dinner: &dal, Snacks: []uuid.UUID{dal}}}}
	w := performRequest(router, http.MethodPut, "/api/v1/meal-plans/current", req, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Meal plan saved", decode(t, w)["message"])
	svc.AssertExpectations(t)

	bad := []struct {
		name string
		path string
		body interface{}
	}{
		{"unknown day", "/api/v1/meal-plans/2025-W10", types.SaveMealPlanRequest{Days: []types.MealPlanDay{{Day: "Funday"}}}},
		{"missing days", "/api/v1/meal-plans/2025-W10", map[string]interface{}{}},
		{"bad week", "/api/v1/meal-plans/2025-10", req},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPut, tt.path, tt.body, true)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w = performRequest(router, http.MethodPut, "/api/v1/meal-plans/2025-W10", req, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNumberOfCalls(t, "SavePlan", 1)
}

func TestSaveMealPlanErrors(t *testing.T) {
	svc := new(mocks.MockMealPlanService)
	userID := uuid.New()
	svc.On("SavePlan", mock.Anything, userID, "2025-W11", mock.Anything).Return(nil, service.ErrRecipeNotFound)
	svc.On("SavePlan", mock.Anything, userID, "2025-W12", mock.Anything).
		Return(nil, fmt.Errorf("%w: Monday planned twice", service.ErrInvalidMealPlan))
	router := mealPlanRouter(t, svc, userID)
	req := types.SaveMealPlanRequest{Days: []types.MealPlanDay{{Day: "Monday"}, {Day: "Monday"}}}

	w := performRequest(router, http.MethodPut, "/api/v1/meal-plans/2025-W11", req, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = performRequest(router, http.MethodPut, "/api/v1/meal-plans/2025-W12", req, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "planned twice")
}

func TestGetMealPlan(t *testing.T) {
	svc := new(mocks.MockMealPlanService)
	userID := uuid.New()
	svc.On("GetPlan", mock.Anything, userID, "2025-W10").Return(&types.MealPlanView{Week: "2025-W10", Days: []types.DayPlanView{}}, nil)
	svc.On("GetPlan", mock.Anything, userID, "2025-W11").Return(nil, service.ErrMealPlanNotFound)
	router := mealPlanRouter(t, svc, userID)

	w := performRequest(router, http.MethodGet, "/api/v1/meal-plans/2025-W10", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-W10", decode(t, w)["week"])

	w = performRequest(router, http.MethodGet, "/api/v1/meal-plans/2025-W11", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"meal plan not found"}`, w.Body.String())
}

func TestGenerateShoppingList(t *testing.T) {
	svc := new(mocks.MockShoppingListService)
	userID := uuid.New()
	svc.On("Generate", mock.Anything, userID, "2025-W10").Return(&models.ShoppingList{
		Week:  "2025-W10",
		Items: []models.ShoppingListItem{{Name: "rice", Quantity: "2"}},
	}, nil)
	svc.On("Generate", mock.Anything, userID, "2025-W11").Return(nil, service.ErrMealPlanNotFound)
	router := shoppingRouter(t, svc, userID)

	w := performRequest(router, http.MethodPost, "/api/v1/shopping-lists/current/generate", nil, true)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Shopping list generated", body["message"])
	items := body["shopping_list"].(map[string]interface{})["items"].([]interface{})
	assert.Equal(t, "2", items[0].(map[string]interface{})["quantity"])

	w = performRequest(router, http.MethodPost, "/api/v1/shopping-lists/2025-W11/generate", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"meal plan not found"}`, w.Body.String())
}

func TestShoppingListRecipes(t *testing.T) {
	svc := new(mocks.MockShoppingListService)
	userID, recipeID, missing := uuid.New(), uuid.New(), uuid.New()
	svc.On("AddRecipe", mock.Anything, userID, "2025-W10", recipeID).Return(&models.ShoppingList{Week: "2025-W10"}, nil)
	svc.On("AddRecipe", mock.Anything, userID, "2025-W10", missing).Return(nil, service.ErrRecipeNotFound)
	svc.On("RemoveRecipe", mock.Anything, userID, "2025-W10", recipeID).Return(int64(3), nil)
	svc.On("RemoveRecipe", mock.Anything, userID, "2025-W09", recipeID).Return(int64(0), service.ErrShoppingListNotFound)
	router := shoppingRouter(t, svc, userID)

	w := performRequest(router, http.MethodPost, "/api/v1/shopping-lists/2025-W10/recipes/"+recipeID.String(), nil, true)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Recipe ingredients added to shopping list", decode(t, w)["message"])

	w = performRequest(router, http.MethodPost, "/api/v1/shopping-lists/2025-W10/recipes/"+missing.String(), nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(router, http.MethodPost, "/api/v1/shopping-lists/2025-W10/recipes/nope", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodDelete, "/api/v1/shopping-lists/current/recipes/"+recipeID.String(), nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"3 items removed from shopping list","removed":3}`, w.Body.String())

	w = performRequest(router, http.MethodDelete, "/api/v1/shopping-lists/2025-W09/recipes/"+recipeID.String(), nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"shopping list not found"}`, w.Body.String())
}

func TestGetShoppingList(t *testing.T) {
	svc := new(mocks.MockShoppingListService)
	userID := uuid.New()
	svc.On("GetList", mock.Anything, userID, "2025-W10").Return(&types.ShoppingListView{
		Week: "2025-W10",
		Groups: []types.ShoppingGroup{{
			RecipeName:  types.OtherItemsGroup,
			Ingredients: []models.ShoppingListItem{{Name: "rice", Quantity: "2"}},
		}},
	}, nil)
	router := shoppingRouter(t, svc, userID)

	w := performRequest(router, http.MethodGet, "/api/v1/shopping-lists/current", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	groups := decode(t, w)["items"].([]interface{})
	require.Len(t, groups, 1)
	assert.Equal(t, "Other Items", groups[0].(map[string]interface{})["recipe_name"])

	w = performRequest(router, http.MethodGet, "/api/v1/shopping-lists/current", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestShoppingListItems(t *testing.T) {
	svc := new(mocks.MockShoppingListService)
	userID, itemID, missing := uuid.New(), uuid.New(), uuid.New()
	svc.On("SetItemAdded", mock.Anything, userID, itemID, true).Return(&models.ShoppingListItem{ID: itemID, Name: "rice", Added: true}, nil)
	svc.On("SetItemAdded", mock.Anything, userID, missing, false).Return(nil, service.ErrShoppingItemNotFound)
	svc.On("RemoveItem", mock.Anything, userID, itemID).Return(nil)
	svc.On("RemoveItem", mock.Anything, userID, missing).Return(service.ErrShoppingItemNotFound)
	router := shoppingRouter(t, svc, userID)

	w := performRequest(router, http.MethodPatch, "/api/v1/shopping-list-items/"+itemID.String(), map[string]bool{"added": true}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["item"].(map[string]interface{})["added"])

	w = performRequest(router, http.MethodPatch, "/api/v1/shopping-list-items/"+missing.String(), map[string]bool{"added": false}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"item not found in shopping list"}`, w.Body.String())

	w = performRequest(router, http.MethodPatch, "/api/v1/shopping-list-items/"+itemID.String(), map[string]string{}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodDelete, "/api/v1/shopping-list-items/"+itemID.String(), nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodDelete, "/api/v1/shopping-list-items/"+missing.String(), nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(router, http.MethodDelete, "/api/v1/shopping-list-items/nope", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "SetItemAdded", 2)
	svc.AssertNumberOfCalls(t, "RemoveItem", 2)
}
