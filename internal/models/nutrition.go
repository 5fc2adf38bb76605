package models

import "strings"

// IngredientNutrition holds the per-serving values of one ingredient. Name
// is stored lowercased.
type IngredientNutrition struct {
	Name     string  `gorm:"size:100;primaryKey" json:"name"`
	Calories float64 `gorm:"not null;default:0" json:"calories"`
	Protein  float64 `gorm:"not null;default:0" json:"protein"`
	Fat      float64 `gorm:"not null;default:0" json:"fat"`
	Carbs    float64 `gorm:"not null;default:0" json:"carbs"`
}

func (IngredientNutrition) TableName() string {
	return "ingredient_nutrition"
}

// IngredientKey is the lookup key for an ingredient name.
func IngredientKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add accumulates the values of one ingredient.
func (n *Nutrition) Add(in IngredientNutrition) {
	n.Calories += in.Calories
	n.Protein += in.Protein
	n.Fat += in.Fat
	n.Carbs += in.Carbs
}

// DefaultIngredientNutrition is the table the schema ships with.
func DefaultIngredientNutrition() []IngredientNutrition {
	return []IngredientNutrition{
		{Name: "rice", Calories: 130, Protein: 2.7, Fat: 0.3, Carbs: 28},
		{Name: "chicken", Calories: 239, Protein: 27, Fat: 14, Carbs: 0},
		{Name: "tomato", Calories: 18, Protein: 0.9, Fat: 0.2, Carbs: 3.9},
		{Name: "onion", Calories: 40, Protein: 1.1, Fat: 0.1, Carbs: 9.3},
		{Name: "potato", Calories: 77, Protein: 2, Fat: 0.1, Carbs: 17},
	}
}
