package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/types"
)

// MockMealPlanService is a mock implementation of the MealPlanService interface
type MockMealPlanService struct {
	mock.Mock
}

func (m *MockMealPlanService) SavePlan(ctx context.Context, userID uuid.UUID, week string, req *types.SaveMealPlanRequest) (*types.MealPlanView, error) {
	args := m.Called(ctx, userID, week, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MealPlanView), args.Error(1)
}

func (m *MockMealPlanService) GetPlan(ctx context.Context, userID uuid.UUID, week string) (*types.MealPlanView, error) {
	args := m.Called(ctx, userID, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MealPlanView), args.Error(1)
}

// MockShoppingListService is a mock implementation of the ShoppingListService interface
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Generate(ctx context.Context, userID uuid.UUID, week string) (*models.ShoppingList, error) {
	args := m.Called(ctx, userID, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShoppingList), args.Error(1)
}

func (m *MockShoppingListService) AddRecipe(ctx context.Context, userID uuid.UUID, week string, recipeID uuid.UUID) (*models.ShoppingList, error) {
	args := m.Called(ctx, userID, week, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShoppingList), args.Error(1)
}

func (m *MockShoppingListService) GetList(ctx context.Context, userID uuid.UUID, week string) (*types.ShoppingListView, error) {
	args := m.Called(ctx, userID, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ShoppingListView), args.Error(1)
}

func (m *MockShoppingListService) RemoveRecipe(ctx context.Context, userID uuid.UUID, week string, recipeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, week, recipeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShoppingListService) SetItemAdded(ctx context.Context, userID, itemID uuid.UUID, added bool) (*models.ShoppingListItem, error) {
	args := m.Called(ctx, userID, itemID, added)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShoppingListItem), args.Error(1)
}

func (m *MockShoppingListService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}
