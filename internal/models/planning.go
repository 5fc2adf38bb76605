package models

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidWeek = errors.New("invalid week")

// MealDay is a day of the planned week.
type MealDay string

const (
	Monday    MealDay = "Monday"
	Tuesday   MealDay = "Tuesday"
	Wednesday MealDay = "Wednesday"
	Thursday  MealDay = "Thursday"
	Friday    MealDay = "Friday"
	Saturday  MealDay = "Saturday"
	Sunday    MealDay = "Sunday"
)

// MealDays lists the days in week order.
var MealDays = []MealDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d MealDay) Valid() bool {
	return d.Index() >= 0
}

// Index is the position of d in MealDays, or -1.
func (d MealDay) Index() int {
	for i, v := range MealDays {
		if d == v {
			return i
		}
	}
	return -1
}

// MealSlot is the meal a planned recipe is eaten at.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnack     MealSlot = "snack"
)

// ParseWeek checks an ISO week label such as "2025-W10".
func ParseWeek(s string) (year, week int, err error) {
	if len(s) != 8 || s[4:6] != "-W" || !digits(s[:4]) || !digits(s[6:]) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidWeek, s)
	}
	year, _ = strconv.Atoi(s[:4])
	week, _ = strconv.Atoi(s[6:])
	if year < 1 || week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidWeek, s)
	}
	return year, week, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CurrentWeek is the ISO week label containing t.
func CurrentWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MealPlan is one user's plan for one ISO week.
type MealPlan struct {
	ID        uuid.UUID       `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	UserID    uuid.UUID       `gorm:"type:varchar(36);not null;uniqueIndex:idx_meal_plans_user_week" json:"user_id"`
	Week      string          `gorm:"size:8;not null;uniqueIndex:idx_meal_plans_user_week" json:"week"`
	Entries   []MealPlanEntry `gorm:"foreignKey:MealPlanID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// MealPlanEntry places one recipe at a day and slot. Position orders the
// snacks of a day.
type MealPlanEntry struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	MealPlanID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"meal_plan_id"`
	Day        MealDay   `gorm:"size:10;not null" json:"day"`
	Slot       MealSlot  `gorm:"size:10;not null" json:"slot"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	RecipeID   uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	Recipe     *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
}

func (e *MealPlanEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ShoppingList is one user's list for one ISO week.
type ShoppingList struct {
	ID        uuid.UUID          `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	UserID    uuid.UUID          `gorm:"type:varchar(36);not null;uniqueIndex:idx_shopping_lists_user_week" json:"user_id"`
	Week      string             `gorm:"size:8;not null;uniqueIndex:idx_shopping_lists_user_week" json:"week"`
	Items     []ShoppingListItem `gorm:"foreignKey:ShoppingListID;constraint:OnDelete:CASCADE" json:"items"`
}

func (l *ShoppingList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ShoppingListItem is one ingredient to buy. Quantity is free text; generated
// items carry the number of planned meals that use the ingredient. Position
// keeps items in the order they were added.
type ShoppingListItem struct {
	ID             uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	ShoppingListID uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"-"`
	Name           string     `gorm:"size:200;not null" json:"name"`
	Quantity       string     `gorm:"size:50;not null;default:'1'" json:"quantity"`
	Position       int        `gorm:"not null;default:0" json:"-"`
	Added          bool       `gorm:"not null;default:false" json:"added"`
	RecipeID       *uuid.UUID `gorm:"type:varchar(36);index" json:"recipe_id,omitempty"`
	RecipeName     string     `gorm:"size:255" json:"recipe_name,omitempty"`
}

func (i *ShoppingListItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
