package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/recipenest/backend/internal/models"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the enum tags used in request binding.
// Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		tags := map[string]validator.Func{
			"recipe_cuisine": func(fl validator.FieldLevel) bool {
				return models.Cuisine(fl.Field().String()).Valid()
			},
			"recipe_category": func(fl validator.FieldLevel) bool {
				return models.Category(fl.Field().String()).Valid()
			},
			"recipe_difficulty": func(fl validator.FieldLevel) bool {
				return models.Difficulty(fl.Field().String()).Valid()
			},
			"diet_preference": func(fl validator.FieldLevel) bool {
				return models.DietPreference(fl.Field().String()).Valid()
			},
			"meal_day": func(fl validator.FieldLevel) bool {
				return models.MealDay(fl.Field().String()).Valid()
			},
		}
		for tag, fn := range tags {
			if err := v.RegisterValidation(tag, fn); err != nil {
				registerErr = fmt.Errorf("register %s: %w", tag, err)
				return
			}
		}
	})
	return registerErr
}
