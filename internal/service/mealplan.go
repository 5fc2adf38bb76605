package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/types"
)

// MealPlanService stores one plan per user and ISO week
type MealPlanService struct {
	db *gorm.DB
}

var _ IMealPlanService = (*MealPlanService)(nil)

func NewMealPlanService(db *gorm.DB) *MealPlanService {
	return &MealPlanService{db: db}
}

var slotOrder = map[models.MealSlot]int{
	models.SlotBreakfast: 0,
	models.SlotLunch:     1,
	models.SlotDinner:    2,
	models.SlotSnack:     3,
}

// SavePlan replaces the user's plan for week.
func (s *MealPlanService) SavePlan(ctx context.Context, userID uuid.UUID, week string, req *types.SaveMealPlanRequest) (*types.MealPlanView, error) {
	if _, _, err := models.ParseWeek(week); err != nil {
		return nil, err
	}
	entries, err := planEntries(req)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUserRow(tx, userID); err != nil {
			return err
		}
		if err := ensureRecipes(tx, entries); err != nil {
			return err
		}

		var plan models.MealPlan
		err := tx.Where("user_id = ? AND week = ?", userID, week).First(&plan).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			plan = models.MealPlan{UserID: userID, Week: week}
			if err := tx.Create(&plan).Error; err != nil {
				return fmt.Errorf("failed to create meal plan: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to load meal plan: %w", err)
		default:
			if err := tx.Omit(clause.Associations).Save(&plan).Error; err != nil {
				return fmt.Errorf("failed to touch meal plan: %w", err)
			}
		}

		if err := tx.Where("meal_plan_id = ?", plan.ID).Delete(&models.MealPlanEntry{}).Error; err != nil {
			return fmt.Errorf("failed to clear meal plan: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}
		for i := range entries {
			entries[i].MealPlanID = plan.ID
		}
		if err := tx.Create(&entries).Error; err != nil {
			return fmt.Errorf("failed to save meal plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetPlan(ctx, userID, week)
}

// GetPlan returns the user's plan for week. Days without meals are left out.
func (s *MealPlanService) GetPlan(ctx context.Context, userID uuid.UUID, week string) (*types.MealPlanView, error) {
	if _, _, err := models.ParseWeek(week); err != nil {
		return nil, err
	}
	plan, err := loadPlan(s.db.WithContext(ctx), userID, week)
	if err != nil {
		return nil, err
	}

	view := &types.MealPlanView{ID: plan.ID, Week: plan.Week, Days: []types.DayPlanView{}}
	byDay := map[models.MealDay]int{}
	for _, e := range plan.Entries {
		if e.Recipe == nil {
			continue
		}
		i, ok := byDay[e.Day]
		if !ok {
			i = len(view.Days)
			byDay[e.Day] = i
			view.Days = append(view.Days, types.DayPlanView{Day: e.Day, Snacks: []models.Recipe{}})
		}
		day := &view.Days[i]
		recipe := *e.Recipe
		switch e.Slot {
		case models.SlotBreakfast:
			day.Breakfast = &recipe
		case models.SlotLunch:
			day.Lunch = &recipe
		case models.SlotDinner:
			day.Dinner = &recipe
		case models.SlotSnack:
			day.Snacks = append(day.Snacks, recipe)
		}
	}
	return view, nil
}

// loadPlan reads a plan with its entries in day, slot and position order.
func loadPlan(tx *gorm.DB, userID uuid.UUID, week string) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := tx.Preload("Entries.Recipe").Where("user_id = ? AND week = ?", userID, week).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMealPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}
	sort.SliceStable(plan.Entries, func(i, j int) bool {
		a, b := plan.Entries[i], plan.Entries[j]
		if a.Day != b.Day {
			return a.Day.Index() < b.Day.Index()
		}
		if a.Slot != b.Slot {
			return slotOrder[a.Slot] < slotOrder[b.Slot]
		}
		return a.Position < b.Position
	})
	return &plan, nil
}

func planEntries(req *types.SaveMealPlanRequest) ([]models.MealPlanEntry, error) {
	seen := map[models.MealDay]bool{}
	var entries []models.MealPlanEntry
	for _, d := range req.Days {
		day := models.MealDay(d.Day)
		if !day.Valid() {
			return nil, fmt.Errorf("%w: unknown day %q", ErrInvalidMealPlan, d.Day)
		}
		if seen[day] {
			return nil, fmt.Errorf("%w: %s planned twice", ErrInvalidMealPlan, day)
		}
		seen[day] = true

		for slot, id := range map[models.MealSlot]*uuid.UUID{
			models.SlotBreakfast: d.Breakfast,
			models.SlotLunch:     d.Lunch,
			models.SlotDinner:    d.Dinner,
		} {
			if id != nil {
				entries = append(entries, models.MealPlanEntry{Day: day, Slot: slot, RecipeID: *id})
			}
		}
		for i, id := range d.Snacks {
			entries = append(entries, models.MealPlanEntry{Day: day, Slot: models.SlotSnack, Position: i, RecipeID: id})
		}
	}
	return entries, nil
}

func ensureRecipes(tx *gorm.DB, entries []models.MealPlanEntry) error {
	ids := map[uuid.UUID]struct{}{}
	for _, e := range entries {
		ids[e.RecipeID] = struct{}{}
	}
	if len(ids) == 0 {
		return nil
	}
	list := make([]uuid.UUID, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	var count int64
	if err := tx.Model(&models.Recipe{}).Where("id IN ?", list).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up recipes: %w", err)
	}
	if count != int64(len(list)) {
		return ErrRecipeNotFound
	}
	return nil
}

func ensureUserRow(tx *gorm.DB, userID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}
