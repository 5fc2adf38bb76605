package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipenest/backend/internal/metrics"
	"github.com/pageza/recipenest/backend/internal/models"
)

// Catalog is the read side of the recipe catalog used by recommendations.
type Catalog interface {
	FindByFields(ctx context.Context, q RecipeQuery) ([]models.Recipe, error)
	FindRecent(ctx context.Context, limit int) ([]models.Recipe, error)
	SampleRandom(ctx context.Context, limit int) ([]models.Recipe, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error)
}

// CatalogStore serves catalog queries from the recipes table. Ratings are
// always preloaded since scoring reads them.
type CatalogStore struct {
	db *gorm.DB
}

var _ Catalog = (*CatalogStore)(nil)

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) FindByFields(ctx context.Context, q RecipeQuery) ([]models.Recipe, error) {
	start := time.Now()
	recipes, err := s.findByFields(ctx, q)
	metrics.RecordStoreQuery("catalog", "find_by_fields", time.Since(start), err)
	return recipes, err
}

func (s *CatalogStore) findByFields(ctx context.Context, q RecipeQuery) ([]models.Recipe, error) {
	if q.Match != nil && q.Match.empty() {
		return []models.Recipe{}, nil
	}

	tx := s.db.WithContext(ctx).Preload("Ratings")

	if m := q.Match; m != nil {
		switch {
		case len(m.Cuisines) > 0 && len(m.Categories) > 0:
			tx = tx.Where("(cuisine IN ? OR category IN ?)", m.Cuisines, m.Categories)
		case len(m.Cuisines) > 0:
			tx = tx.Where("cuisine IN ?", m.Cuisines)
		default:
			tx = tx.Where("category IN ?", m.Categories)
		}
	}

	// Substrings that cannot be expressed safely against the JSON column text
	// are applied after the fetch.
	var residual []string
	column := s.ingredientsText()
	for _, needle := range q.ExcludeIngredients {
		needle = strings.ToLower(needle)
		if strings.TrimSpace(needle) == "" {
			continue
		}
		if sqlSafeSubstring(needle) {
			tx = tx.Where(column+" NOT LIKE ? "+LikeEscape, ContainsPattern(needle))
		} else {
			residual = append(residual, needle)
		}
	}

	if len(q.ExcludeIDs) > 0 {
		tx = tx.Where("id NOT IN ?", q.ExcludeIDs)
	}

	tx = applyOrder(tx, q.Order)
	if q.Limit > 0 && len(residual) == 0 {
		tx = tx.Limit(q.Limit)
	}

	var recipes []models.Recipe
	if err := tx.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}

	if len(residual) > 0 {
		kept := recipes[:0]
		for _, r := range recipes {
			if !containsAny(r.Ingredients, residual) {
				kept = append(kept, r)
			}
		}
		recipes = kept
		if q.Limit > 0 && len(recipes) > q.Limit {
			recipes = recipes[:q.Limit]
		}
	}

	return recipes, nil
}

// FindRecent returns the newest recipes system-wide.
func (s *CatalogStore) FindRecent(ctx context.Context, limit int) ([]models.Recipe, error) {
	start := time.Now()
	var recipes []models.Recipe
	err := applyOrder(s.db.WithContext(ctx).Preload("Ratings"), NewestFirst).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		err = fmt.Errorf("failed to query recent recipes: %w", err)
	}
	metrics.RecordStoreQuery("catalog", "find_recent", time.Since(start), err)
	return recipes, err
}

// SampleRandom draws up to limit recipes uniformly at random.
func (s *CatalogStore) SampleRandom(ctx context.Context, limit int) ([]models.Recipe, error) {
	start := time.Now()
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).Preload("Ratings").
		Order("RANDOM()").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		err = fmt.Errorf("failed to sample recipes: %w", err)
	}
	metrics.RecordStoreQuery("catalog", "sample_random", time.Since(start), err)
	return recipes, err
}

// FindByIDs returns the recipes that still exist for ids, in no particular order.
func (s *CatalogStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}
	start := time.Now()
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).Preload("Ratings").Where("id IN ?", ids).Find(&recipes).Error
	if err != nil {
		err = fmt.Errorf("failed to load recipes by id: %w", err)
	}
	metrics.RecordStoreQuery("catalog", "find_by_ids", time.Since(start), err)
	return recipes, err
}

func (s *CatalogStore) ingredientsText() string {
	if s.db.Dialector.Name() == "postgres" {
		return "LOWER(ingredients::text)"
	}
	return "LOWER(ingredients)"
}

func applyOrder(tx *gorm.DB, o Order) *gorm.DB {
	if o == NewestFirst {
		return tx.Order("created_at DESC").Order("id DESC")
	}
	return tx.Order("created_at ASC").Order("id ASC")
}
