package models

// Difficulty of a recipe.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// DietPreference is one of the diets a user can opt into. Recipes match a
// diet when their category or cuisine carries the same label.
type DietPreference string

const (
	DietVegetarian  DietPreference = "Vegetarian"
	DietVegan       DietPreference = "Vegan"
	DietKeto        DietPreference = "Keto"
	DietHighProtein DietPreference = "High-Protein"
	DietBalanced    DietPreference = "Balanced"
)

var DietPreferences = []DietPreference{
	DietVegetarian, DietVegan, DietKeto, DietHighProtein, DietBalanced,
}

func (d DietPreference) Valid() bool {
	for _, v := range DietPreferences {
		if d == v {
			return true
		}
	}
	return false
}

// Category of a recipe. Diet labels are categories too.
type Category string

var Categories = func() []Category {
	c := []Category{
		"veg", "non-veg", "ice creams", "sweets", "desserts", "snacks",
		"breads", "drinks", "salads", "starters", "juices",
	}
	for _, d := range DietPreferences {
		c = append(c, Category(d))
	}
	return c
}()

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Cuisine of a recipe. Diet labels are accepted so diet matching on cuisine
// stays reachable.
type Cuisine string

var Cuisines = func() []Cuisine {
	c := []Cuisine{
		"Indian", "Italian", "Chinese", "Mexican", "Thai", "Japanese",
		"French", "Mediterranean", "American", "Continental", "Other",
	}
	for _, d := range DietPreferences {
		c = append(c, Cuisine(d))
	}
	return c
}()

func (c Cuisine) Valid() bool {
	for _, v := range Cuisines {
		if c == v {
			return true
		}
	}
	return false
}
