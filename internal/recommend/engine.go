// Package recommend computes recipe recommendations from a user's favorites
// and dietary profile, and keeps the per-user recommendation cache fresh.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pageza/recipenest/backend/internal/metrics"
	"github.com/pageza/recipenest/backend/internal/models"
	"github.com/pageza/recipenest/backend/internal/store"
)

const (
	TierPersonalized = "personalized"
	TierTrending     = "trending"
	TierRandom       = "random"

	ReasonTrending = "Trending recipe based on latest uploads."
	ReasonRandom   = "Random recipe selection."
)

// Catalog is the recipe query surface the engine reads from.
type Catalog interface {
	FindByFields(ctx context.Context, q store.RecipeQuery) ([]models.Recipe, error)
	FindRecent(ctx context.Context, limit int) ([]models.Recipe, error)
	SampleRandom(ctx context.Context, limit int) ([]models.Recipe, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error)
}

// ProfileStore reads user preferences and owns the recommendation cache.
type ProfileStore interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	Favorites(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	SaveRecommendations(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) error
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Config caps the result size of each operation.
type Config struct {
	SimilarityLimit   int
	PersonalizedLimit int
	RefreshLimit      int
	// QueryTimeout bounds every store call. Zero disables the bound.
	QueryTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		SimilarityLimit:   10,
		PersonalizedLimit: 20,
		RefreshLimit:      10,
		QueryTimeout:      5 * time.Second,
	}
}

// Profile is the engine's view of a user.
type Profile struct {
	UserID          uuid.UUID
	DietPreferences []string
	Allergies       []string
	// Favorites in the order they were added.
	Favorites       []models.Recipe
	Recommendations []uuid.UUID
}

// Recommendation is one ranked entry of RankBySimilarity.
type Recommendation struct {
	Recipe models.Recipe
	Score  float64
	Reason string
	Tier   string
}

type Engine struct {
	catalog  Catalog
	profiles ProfileStore
	cfg      Config
	logger   zerolog.Logger
}

func NewEngine(catalog Catalog, profiles ProfileStore, cfg Config, logger zerolog.Logger) *Engine {
	def := DefaultConfig()
	if cfg.SimilarityLimit <= 0 {
		cfg.SimilarityLimit = def.SimilarityLimit
	}
	if cfg.PersonalizedLimit <= 0 {
		cfg.PersonalizedLimit = def.PersonalizedLimit
	}
	if cfg.RefreshLimit <= 0 {
		cfg.RefreshLimit = def.RefreshLimit
	}
	return &Engine{
		catalog:  catalog,
		profiles: profiles,
		cfg:      cfg,
		logger:   logger.With().Str("service", "recommend").Logger(),
	}
}

// RankBySimilarity ranks unfavorited recipes by similarity to the user's
// favorites. It falls back to the newest recipes, then to a random sample,
// when the previous tier is empty. Nothing is persisted.
func (e *Engine) RankBySimilarity(ctx context.Context, userID uuid.UUID) ([]Recommendation, error) {
	const op = "similarity"
	recs, err := e.rankBySimilarity(ctx, userID)
	if err != nil {
		metrics.RecommendationErrors.WithLabelValues(op, errorKind(err)).Inc()
		return nil, err
	}
	tier := TierRandom
	if len(recs) > 0 {
		tier = recs[0].Tier
	}
	metrics.Recommendations.WithLabelValues(op, tier).Inc()
	return recs, nil
}

func (e *Engine) rankBySimilarity(ctx context.Context, userID uuid.UUID) ([]Recommendation, error) {
	p, err := e.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(p.Favorites) > 0 {
		recs, err := e.personalizedTier(ctx, p)
		if err != nil {
			return nil, err
		}
		if len(recs) > 0 {
			return recs, nil
		}
	}

	recent, err := e.queryRecipes(ctx, func(ctx context.Context) ([]models.Recipe, error) {
		return e.catalog.FindRecent(ctx, e.cfg.SimilarityLimit)
	})
	if err != nil {
		return nil, classify("find recent recipes", err)
	}
	if len(recent) > 0 {
		return annotate(recent, TierTrending, ReasonTrending), nil
	}

	sample, err := e.queryRecipes(ctx, func(ctx context.Context) ([]models.Recipe, error) {
		return e.catalog.SampleRandom(ctx, e.cfg.SimilarityLimit)
	})
	if err != nil {
		return nil, classify("sample recipes", err)
	}
	return annotate(sample, TierRandom, ReasonRandom), nil
}

func (e *Engine) personalizedTier(ctx context.Context, p *Profile) ([]Recommendation, error) {
	aff := NewAffinity(p.Favorites)
	if aff.Empty() {
		return nil, nil
	}
	exclude := NewFilter(&Profile{Favorites: p.Favorites})

	candidates, err := e.queryRecipes(ctx, func(ctx context.Context) ([]models.Recipe, error) {
		return e.catalog.FindByFields(ctx, store.RecipeQuery{
			Match:      aff.FieldMatch(),
			ExcludeIDs: sortedIDs(exclude.ExcludeIDs),
			Order:      store.OldestFirst,
		})
	})
	if err != nil {
		return nil, classify("find similar recipes", err)
	}

	recs := make([]Recommendation, 0, len(candidates))
	for i := range candidates {
		r := &candidates[i]
		if _, fav := exclude.ExcludeIDs[r.ID]; fav {
			continue
		}
		recs = append(recs, Recommendation{
			Recipe: *r,
			Score:  Score(r, aff),
			Reason: Explain(r, aff),
			Tier:   TierPersonalized,
		})
	}
	// stable, so equal scores keep catalog order
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > e.cfg.SimilarityLimit {
		recs = recs[:e.cfg.SimilarityLimit]
	}
	return recs, nil
}

// RankByDietAndAllergy returns the newest recipes matching the user's diet
// preferences that contain none of their allergens and are not already
// favorites. The result, even when empty, replaces the user's cache.
func (e *Engine) RankByDietAndAllergy(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	const op = "diet_allergy"
	recipes, err := e.rankByDietAndAllergy(ctx, userID)
	if err != nil {
		metrics.RecommendationErrors.WithLabelValues(op, errorKind(err)).Inc()
		return nil, err
	}
	metrics.Recommendations.WithLabelValues(op, TierPersonalized).Inc()
	return recipes, nil
}

func (e *Engine) rankByDietAndAllergy(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	p, err := e.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := NewFilter(p)
	q := f.Query()
	q.Order = store.NewestFirst
	q.Limit = e.cfg.PersonalizedLimit

	found, err := e.queryRecipes(ctx, func(ctx context.Context) ([]models.Recipe, error) {
		return e.catalog.FindByFields(ctx, q)
	})
	if err != nil {
		return nil, classify("find personalized recipes", err)
	}

	recipes := make([]models.Recipe, 0, len(found))
	for i := range found {
		if f.Match(&found[i]) {
			recipes = append(recipes, found[i])
		}
	}
	if len(recipes) > e.cfg.PersonalizedLimit {
		recipes = recipes[:e.cfg.PersonalizedLimit]
	}

	if err := e.save(ctx, userID, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// RefreshCached recomputes the cache of one user from their favorites'
// cuisines and categories, in catalog order. A user without favorites ends
// up with an empty cache.
func (e *Engine) RefreshCached(ctx context.Context, userID uuid.UUID) error {
	const op = "refresh"
	if err := e.refreshCached(ctx, userID); err != nil {
		metrics.RecommendationErrors.WithLabelValues(op, errorKind(err)).Inc()
		return err
	}
	metrics.Recommendations.WithLabelValues(op, TierPersonalized).Inc()
	return nil
}

func (e *Engine) refreshCached(ctx context.Context, userID uuid.UUID) error {
	p, err := e.loadProfile(ctx, userID)
	if err != nil {
		return err
	}

	aff := NewAffinity(p.Favorites)
	if aff.Empty() {
		return e.save(ctx, userID, nil)
	}
	exclude := NewFilter(&Profile{Favorites: p.Favorites})

	found, err := e.queryRecipes(ctx, func(ctx context.Context) ([]models.Recipe, error) {
		return e.catalog.FindByFields(ctx, store.RecipeQuery{
			Match:      aff.FieldMatch(),
			ExcludeIDs: sortedIDs(exclude.ExcludeIDs),
			Order:      store.OldestFirst,
			Limit:      e.cfg.RefreshLimit,
		})
	})
	if err != nil {
		return classify("find refresh candidates", err)
	}

	recipes := make([]models.Recipe, 0, len(found))
	for _, r := range found {
		if _, fav := exclude.ExcludeIDs[r.ID]; !fav {
			recipes = append(recipes, r)
		}
	}
	if len(recipes) > e.cfg.RefreshLimit {
		recipes = recipes[:e.cfg.RefreshLimit]
	}
	return e.save(ctx, userID, recipes)
}

// CachedRecommendations resolves the user's cache in cached order. Recipes
// deleted since the cache was written are skipped.
func (e *Engine) CachedRecommendations(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	p, err := e.loadProfile(ctx, userID)
	if err != nil {
		metrics.RecommendationErrors.WithLabelValues("cached", errorKind(err)).Inc()
		return nil, err
	}
	if len(p.Recommendations) == 0 {
		return []models.Recipe{}, nil
	}

	found, err := e.queryRecipes(ctx, func(ctx context.Context) ([]models.Recipe, error) {
		return e.catalog.FindByIDs(ctx, p.Recommendations)
	})
	if err != nil {
		err = classify("load cached recipes", err)
		metrics.RecommendationErrors.WithLabelValues("cached", errorKind(err)).Inc()
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Recipe, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	recipes := make([]models.Recipe, 0, len(p.Recommendations))
	for _, id := range p.Recommendations {
		if r, ok := byID[id]; ok {
			recipes = append(recipes, r)
		}
	}
	metrics.Recommendations.WithLabelValues("cached", TierPersonalized).Inc()
	return recipes, nil
}

func (e *Engine) loadProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is empty: %w", ErrValidation)
	}

	qctx, cancel := e.withTimeout(ctx)
	defer cancel()

	up, err := e.profiles.GetByID(qctx, userID)
	if err != nil {
		return nil, classify("load profile", err)
	}
	favorites, err := e.profiles.Favorites(qctx, userID)
	if err != nil {
		return nil, classify("load favorites", err)
	}

	p := &Profile{
		UserID:          userID,
		DietPreferences: []string(up.DietPreferences),
		Allergies:       []string(up.Allergies),
		Favorites:       favorites,
	}
	for _, s := range up.Recommendations {
		id, err := uuid.Parse(s)
		if err != nil {
			e.logger.Warn().Str("user_id", userID.String()).Str("recipe_id", s).Msg("skipping malformed cached recipe id")
			continue
		}
		p.Recommendations = append(p.Recommendations, id)
	}
	return p, nil
}

// save replaces the cache with the ids of recipes in order.
func (e *Engine) save(ctx context.Context, userID uuid.UUID, recipes []models.Recipe) error {
	ids := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}

	qctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if err := e.profiles.SaveRecommendations(qctx, userID, ids); err != nil {
		return classify("save recommendations", err)
	}
	e.logger.Debug().Str("user_id", userID.String()).Int("count", len(ids)).Msg("recommendation cache replaced")
	return nil
}

func (e *Engine) queryRecipes(ctx context.Context, fn func(context.Context) ([]models.Recipe, error)) ([]models.Recipe, error) {
	qctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return fn(qctx)
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.cfg.QueryTimeout)
}

func annotate(recipes []models.Recipe, tier, reason string) []Recommendation {
	recs := make([]Recommendation, len(recipes))
	for i, r := range recipes {
		recs[i] = Recommendation{Recipe: r, Score: 0, Reason: reason, Tier: tier}
	}
	return recs
}
