package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/pageza/recipenest/backend/internal/metrics"
	"github.com/pageza/recipenest/backend/internal/models"
)

// BreakerConfig configures the catalog circuit breaker.
type BreakerConfig struct {
	Name string
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before probing again.
	Timeout time.Duration
}

// BreakerCatalog guards a Catalog with a circuit breaker. While the circuit is
// open calls fail fast with gobreaker.ErrOpenState instead of reaching the
// database.
type BreakerCatalog struct {
	next Catalog
	cb   *gobreaker.CircuitBreaker[[]models.Recipe]
}

var _ Catalog = (*BreakerCatalog)(nil)

func NewBreakerCatalog(next Catalog, cfg BreakerConfig, logger zerolog.Logger) *BreakerCatalog {
	if cfg.Name == "" {
		cfg.Name = "catalog"
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	metrics.BreakerState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]models.Recipe](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// a caller giving up is not a sign the database is unhealthy
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("catalog circuit breaker state change")
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &BreakerCatalog{next: next, cb: cb}
}

func (b *BreakerCatalog) FindByFields(ctx context.Context, q RecipeQuery) ([]models.Recipe, error) {
	return b.cb.Execute(func() ([]models.Recipe, error) {
		return b.next.FindByFields(ctx, q)
	})
}

func (b *BreakerCatalog) FindRecent(ctx context.Context, limit int) ([]models.Recipe, error) {
	return b.cb.Execute(func() ([]models.Recipe, error) {
		return b.next.FindRecent(ctx, limit)
	})
}

func (b *BreakerCatalog) SampleRandom(ctx context.Context, limit int) ([]models.Recipe, error) {
	return b.cb.Execute(func() ([]models.Recipe, error) {
		return b.next.SampleRandom(ctx, limit)
	})
}

func (b *BreakerCatalog) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error) {
	return b.cb.Execute(func() ([]models.Recipe, error) {
		return b.next.FindByIDs(ctx, ids)
	})
}

// State exposes the breaker state for health reporting.
func (b *BreakerCatalog) State() gobreaker.State {
	return b.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
