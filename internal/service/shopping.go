package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/types"
)

// ShoppingListService keeps one shopping list per user and ISO week
type ShoppingListService struct {
	db *gorm.DB
}

var _ IShoppingListService = (*ShoppingListService)(nil)

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Generate rebuilds the plan-derived part of the week's list: one item per
// distinct ingredient of the planned meals, its quantity the number of meals
// using it. Items added from single recipes are kept.
func (s *ShoppingListService) Generate(ctx context.Context, userID uuid.UUID, week string) (*models.ShoppingList, error) {
	if _, _, err := models.ParseWeek(week); err != nil {
		return nil, err
	}

	var list *models.ShoppingList
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := loadPlan(tx, userID, week)
		if err != nil {
			return err
		}

		var names []string
		counts := map[string]int{}
		display := map[string]string{}
		for _, e := range plan.Entries {
			if e.Recipe == nil {
				continue
			}
			for _, ing := range e.Recipe.Ingredients {
				key := models.IngredientKey(ing)
				if key == "" {
					continue
				}
				if _, ok := counts[key]; !ok {
					names = append(names, key)
					display[key] = strings.TrimSpace(ing)
				}
				counts[key]++
			}
		}

		list, err = getOrCreateList(tx, userID, week)
		if err != nil {
			return err
		}
		err = tx.Where("shopping_list_id = ? AND recipe_id IS NULL AND (recipe_name = '' OR recipe_name IS NULL)", list.ID).
			Delete(&models.ShoppingListItem{}).Error
		if err != nil {
			return fmt.Errorf("failed to clear generated items: %w", err)
		}

		items := make([]models.ShoppingListItem, 0, len(names))
		for _, key := range names {
			items = append(items, models.ShoppingListItem{
				Name:     display[key],
				Quantity: strconv.Itoa(counts[key]),
			})
		}
		return appendItems(tx, list.ID, items)
	})
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, list)
}

// AddRecipe appends every ingredient of a recipe to the week's list with a
// quantity of 1, creating the list when needed.
func (s *ShoppingListService) AddRecipe(ctx context.Context, userID uuid.UUID, week string, recipeID uuid.UUID) (*models.ShoppingList, error) {
	if _, _, err := models.ParseWeek(week); err != nil {
		return nil, err
	}

	var list *models.ShoppingList
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		err := tx.First(&recipe, "id = ?", recipeID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get recipe: %w", err)
		}
		if err := ensureUserRow(tx, userID); err != nil {
			return err
		}

		list, err = getOrCreateList(tx, userID, week)
		if err != nil {
			return err
		}
		items := make([]models.ShoppingListItem, 0, len(recipe.Ingredients))
		for _, ing := range recipe.Ingredients {
			name := strings.TrimSpace(ing)
			if name == "" {
				continue
			}
			id := recipe.ID
			items = append(items, models.ShoppingListItem{
				Name:       name,
				Quantity:   "1",
				RecipeID:   &id,
				RecipeName: recipe.Title,
			})
		}
		return appendItems(tx, list.ID, items)
	})
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, list)
}

// GetList returns the week's items grouped by recipe name in the order the
// groups first appear. A week without a list has no groups.
func (s *ShoppingListService) GetList(ctx context.Context, userID uuid.UUID, week string) (*types.ShoppingListView, error) {
	if _, _, err := models.ParseWeek(week); err != nil {
		return nil, err
	}
	view := &types.ShoppingListView{Week: week, Groups: []types.ShoppingGroup{}}

	var list models.ShoppingList
	err := s.db.WithContext(ctx).Where("user_id = ? AND week = ?", userID, week).First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return view, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}
	full, err := s.withItems(ctx, &list)
	if err != nil {
		return nil, err
	}

	index := map[string]int{}
	for _, item := range full.Items {
		name := item.RecipeName
		if name == "" {
			name = types.OtherItemsGroup
		}
		i, ok := index[name]
		if !ok {
			i = len(view.Groups)
			index[name] = i
			view.Groups = append(view.Groups, types.ShoppingGroup{RecipeName: name, RecipeID: item.RecipeID})
		}
		view.Groups[i].Ingredients = append(view.Groups[i].Ingredients, item)
	}
	return view, nil
}

// RemoveRecipe drops every item a recipe contributed to the week's list and
// reports how many were removed.
func (s *ShoppingListService) RemoveRecipe(ctx context.Context, userID uuid.UUID, week string, recipeID uuid.UUID) (int64, error) {
	if _, _, err := models.ParseWeek(week); err != nil {
		return 0, err
	}

	var list models.ShoppingList
	err := s.db.WithContext(ctx).Where("user_id = ? AND week = ?", userID, week).First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrShoppingListNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load shopping list: %w", err)
	}

	res := s.db.WithContext(ctx).
		Where("shopping_list_id = ? AND recipe_id = ?", list.ID, recipeID).
		Delete(&models.ShoppingListItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to remove recipe items: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// SetItemAdded marks one of the user's items as bought or not.
func (s *ShoppingListService) SetItemAdded(ctx context.Context, userID, itemID uuid.UUID, added bool) (*models.ShoppingListItem, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(item).Update("added", added).Error; err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	item.Added = added
	return item, nil
}

func (s *ShoppingListService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(item).Error; err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

func (s *ShoppingListService) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*models.ShoppingListItem, error) {
	var item models.ShoppingListItem
	err := s.db.WithContext(ctx).
		Joins("JOIN shopping_lists ON shopping_lists.id = shopping_list_items.shopping_list_id").
		Where("shopping_list_items.id = ? AND shopping_lists.user_id = ?", itemID, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShoppingItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return &item, nil
}

func (s *ShoppingListService) withItems(ctx context.Context, list *models.ShoppingList) (*models.ShoppingList, error) {
	list.Items = []models.ShoppingListItem{}
	err := s.db.WithContext(ctx).
		Where("shopping_list_id = ?", list.ID).
		Order("position ASC").
		Find(&list.Items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list items: %w", err)
	}
	return list, nil
}

func getOrCreateList(tx *gorm.DB, userID uuid.UUID, week string) (*models.ShoppingList, error) {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "week"}},
		DoNothing: true,
	}).Create(&models.ShoppingList{UserID: userID, Week: week}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create shopping list: %w", err)
	}
	var list models.ShoppingList
	if err := tx.Where("user_id = ? AND week = ?", userID, week).First(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}
	return &list, nil
}

// appendItems stores items after the list's current last position.
func appendItems(tx *gorm.DB, listID uuid.UUID, items []models.ShoppingListItem) error {
	if len(items) == 0 {
		return nil
	}
	var last struct{ Max int }
	err := tx.Model(&models.ShoppingListItem{}).
		Select("COALESCE(MAX(position), -1) AS max").
		Where("shopping_list_id = ?", listID).
		Scan(&last).Error
	if err != nil {
		return fmt.Errorf("failed to read shopping list positions: %w", err)
	}
	for i := range items {
		items[i].ShoppingListID = listID
		items[i].Position = last.Max + 1 + i
	}
	if err := tx.Create(&items).Error; err != nil {
		return fmt.Errorf("failed to add shopping list items: %w", err)
	}
	return nil
}
