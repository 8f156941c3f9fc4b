package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RefreshJobName is the name of the scheduled dataset refresh job
const RefreshJobName = "dataset_refresh"

// RefreshService reloads the registration snapshot from the tabular source.
// The interface keeps this package from importing the service package.
type RefreshService interface {
	Refresh(ctx context.Context) (int, error)
}

// RefreshJob periodically re-fetches the full dataset so queries keep
// answering against recent registrations between manual refreshes.
type RefreshJob struct {
	service RefreshService
	logger  *zap.Logger
	timeout time.Duration
}

// NewRefreshJob creates a new dataset refresh job. The timeout bounds one
// full fetch-and-parse cycle.
func NewRefreshJob(service RefreshService, logger *zap.Logger, timeout time.Duration) *RefreshJob {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &RefreshJob{
		service: service,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes one refresh. Failures leave the previous snapshot in place;
// the next scheduled run tries again.
func (j *RefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	count, err := j.service.Refresh(ctx)
	if err != nil {
		j.logger.Error("scheduled dataset refresh failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}

	j.logger.Info("scheduled dataset refresh completed",
		zap.Int("registrations", count),
		zap.Duration("duration", time.Since(start)),
	)
}
