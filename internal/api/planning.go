package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipenest/backend/internal/middleware"
	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/service"
	"github.com/pageza/recipenest/backend/internal/types"
)

// currentWeek is accepted wherever a week label is expected.
const currentWeek = "current"

type MealPlanHandler struct {
	mealPlanService service.IMealPlanService
	authService     middleware.TokenValidator
	now             func() time.Time
}

func NewMealPlanHandler(mealPlanService service.IMealPlanService, authService middleware.TokenValidator) *MealPlanHandler {
	return &MealPlanHandler{
		mealPlanService: mealPlanService,
		authService:     authService,
		now:             time.Now,
	}
}

func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/meal-plans")
	plans.Use(middleware.AuthMiddleware(h.authService))
	{
		plans.GET("/:week", h.GetPlan)
		plans.PUT("/:week", h.SavePlan)
	}
}

func (h *MealPlanHandler) SavePlan(c *gin.Context) {
	userID, week, ok := userAndWeek(c, h.now)
	if !ok {
		return
	}

	var req types.SaveMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	plan, err := h.mealPlanService.SavePlan(c.Request.Context(), userID, week, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal plan saved", "meal_plan": plan})
}

func (h *MealPlanHandler) GetPlan(c *gin.Context) {
	userID, week, ok := userAndWeek(c, h.now)
	if !ok {
		return
	}

	plan, err := h.mealPlanService.GetPlan(c.Request.Context(), userID, week)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

type ShoppingListHandler struct {
	shoppingService service.IShoppingListService
	authService     middleware.TokenValidator
	now             func() time.Time
}

func NewShoppingListHandler(shoppingService service.IShoppingListService, authService middleware.TokenValidator) *ShoppingListHandler {
	return &ShoppingListHandler{
		shoppingService: shoppingService,
		authService:     authService,
		now:             time.Now,
	}
}

func (h *ShoppingListHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	lists := router.Group("/shopping-lists")
	lists.Use(auth)
	{
		lists.GET("/:week", h.GetList)
		lists.POST("/:week/generate", h.Generate)
		lists.POST("/:week/recipes/:recipeId", h.AddRecipe)
		lists.DELETE("/:week/recipes/:recipeId", h.RemoveRecipe)
	}

	items := router.Group("/shopping-list-items")
	items.Use(auth)
	{
		items.PATCH("/:itemId", h.UpdateItem)
		items.DELETE("/:itemId", h.RemoveItem)
	}
}

func (h *ShoppingListHandler) GetList(c *gin.Context) {
	userID, week, ok := userAndWeek(c, h.now)
	if !ok {
		return
	}

	view, err := h.shoppingService.GetList(c.Request.Context(), userID, week)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Generate rebuilds the list from the week's meal plan.
func (h *ShoppingListHandler) Generate(c *gin.Context) {
	userID, week, ok := userAndWeek(c, h.now)
	if !ok {
		return
	}

	list, err := h.shoppingService.Generate(c.Request.Context(), userID, week)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Shopping list generated", "shopping_list": list})
}

func (h *ShoppingListHandler) AddRecipe(c *gin.Context) {
	userID, week, ok := userAndWeek(c, h.now)
	if !ok {
		return
	}
	recipeID, ok := recipeIDParam(c, "recipeId")
	if !ok {
		return
	}

	list, err := h.shoppingService.AddRecipe(c.Request.Context(), userID, week, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Recipe ingredients added to shopping list", "shopping_list": list})
}

func (h *ShoppingListHandler) RemoveRecipe(c *gin.Context) {
	userID, week, ok := userAndWeek(c, h.now)
	if !ok {
		return
	}
	recipeID, ok := recipeIDParam(c, "recipeId")
	if !ok {
		return
	}

	removed, err := h.shoppingService.RemoveRecipe(c.Request.Context(), userID, week, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d items removed from shopping list", removed),
		"removed": removed,
	})
}

func (h *ShoppingListHandler) UpdateItem(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}

	var req types.UpdateShoppingItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	item, err := h.shoppingService.SetItemAdded(c.Request.Context(), userID, itemID, *req.Added)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated", "item": item})
}

func (h *ShoppingListHandler) RemoveItem(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.shoppingService.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from shopping list"})
}

// userAndWeek reads the caller and the :week parameter, writing the error
// response itself when either is missing or malformed.
func userAndWeek(c *gin.Context, now func() time.Time) (uuid.UUID, string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, "", false
	}
	week := c.Param("week")
	if week == currentWeek {
		week = models.CurrentWeek(now())
	}
	if _, _, err := models.ParseWeek(week); err != nil {
		badRequest(c, "invalid week")
		return uuid.Nil, "", false
	}
	return userID, week, true
}

func itemIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		badRequest(c, "invalid item id")
		return uuid.Nil, false
	}
	return id, true
}
