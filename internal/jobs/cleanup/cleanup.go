package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Job sweeps read notifications past their retention window.
type Job struct {
	notifications notificationCleaner
	retention     time.Duration
	interval      time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

type notificationCleaner interface {
	DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

func New(notifications notificationCleaner, retention, interval time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		notifications: notifications,
		retention:     retention,
		interval:      interval,
		now:           time.Now,
		logger:        logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.notifications == nil {
		return nil
	}

	cutoff := j.now().UTC().Add(-j.retention)
	rows, err := j.notifications.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("cleanup read notifications: %w", err)
	}
	if rows > 0 {
		j.logger.Info("cleanup read notifications completed", zap.Int64("deleted", rows))
	}

	return nil
}

// Start runs the sweep on a ticker until the context is cancelled.
func (j *Job) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Warn("cleanup run failed", zap.Error(err))
			}
		}
	}
}
