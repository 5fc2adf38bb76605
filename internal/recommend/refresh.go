package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pageza/recipenest/backend/internal/metrics"
)

// Refresher recomputes one user's cache. Satisfied by *Engine.
type Refresher interface {
	RefreshCached(ctx context.Context, userID uuid.UUID) error
}

// UserLister enumerates the users the job walks.
type UserLister interface {
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

// RefreshJobConfig schedules the job once a day at Hour:Minute UTC.
type RefreshJobConfig struct {
	Hour         int
	Minute       int
	RunOnStartup bool
}

// RunResult summarizes one pass over all users.
type RunResult struct {
	Users     int
	Refreshed int
	Failed    int
}

// RefreshJob rebuilds every user's recommendation cache once a day. It runs
// as a suture service.
type RefreshJob struct {
	refresher Refresher
	users     UserLister
	cfg       RefreshJobConfig
	logger    zerolog.Logger
	now       func() time.Time
}

func NewRefreshJob(refresher Refresher, users UserLister, cfg RefreshJobConfig, logger zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		refresher: refresher,
		users:     users,
		cfg:       cfg,
		logger:    logger.With().Str("service", "recommendation-refresh").Logger(),
		now:       time.Now,
	}
}

// Serve implements suture.Service.
func (j *RefreshJob) Serve(ctx context.Context) error {
	j.logger.Info().
		Int("hour", j.cfg.Hour).
		Int("minute", j.cfg.Minute).
		Bool("run_on_startup", j.cfg.RunOnStartup).
		Msg("recommendation refresh job starting")

	if j.cfg.RunOnStartup {
		j.RunOnce(ctx)
	}

	for {
		next := nextRun(j.now(), j.cfg.Hour, j.cfg.Minute)
		j.logger.Debug().Time("next_run", next).Msg("refresh scheduled")
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			j.logger.Info().Msg("recommendation refresh job shutting down")
			return ctx.Err()
		case <-timer.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce refreshes every user sequentially. A failing user is logged and
// skipped; a failure to list users abandons the run.
func (j *RefreshJob) RunOnce(ctx context.Context) RunResult {
	start := time.Now()
	var res RunResult
	defer func() {
		metrics.RefreshRuns.Inc()
		metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	}()

	ids, err := j.users.ListUserIDs(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to list users, refresh abandoned")
		return res
	}
	res.Users = len(ids)

	for _, id := range ids {
		if ctx.Err() != nil {
			j.logger.Warn().Err(ctx.Err()).Int("remaining", res.Users-res.Refreshed-res.Failed).Msg("refresh interrupted")
			break
		}
		if err := j.refresher.RefreshCached(ctx, id); err != nil {
			res.Failed++
			metrics.RefreshUsers.WithLabelValues("failed").Inc()
			j.logger.Warn().Err(err).Str("user_id", id.String()).Msg("failed to refresh recommendations")
			continue
		}
		res.Refreshed++
		metrics.RefreshUsers.WithLabelValues("refreshed").Inc()
	}

	j.logger.Info().
		Int("users", res.Users).
		Int("refreshed", res.Refreshed).
		Int("failed", res.Failed).
		Dur("duration", time.Since(start)).
		Msg("daily recommendations updated")
	return res
}

func (j *RefreshJob) String() string {
	return "recommendation-refresh"
}

// nextRun is the first hour:minute UTC strictly after now.
func nextRun(now time.Time, hour, minute int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
