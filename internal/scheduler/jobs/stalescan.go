package jobs

import (
	"context"
	"time"

	"github.com/Reathyze20/akcion/pkg/logger"
)

// staleAfter is how long a thesis may sit untouched before the nightly
// sweep flags it for review.
const staleAfter = 30 * 24 * time.Hour

// StaleLister finds theses that have not been merged into recently.
type StaleLister interface {
	StaleTickers(ctx context.Context, cutoff time.Time) ([]string, error)
}

// ReviewMarker flags a thesis for manual review.
type ReviewMarker interface {
	MarkNeedsReview(ctx context.Context, ticker string) error
}

// StaleScanJob is the nightly sweep: any active thesis without a merge
// in the stale window gets flagged. A belief nobody has re-validated is
// treated as suspect, not as safe.
type StaleScanJob struct {
	lister StaleLister
	review ReviewMarker
	logger *logger.Logger
}

// NewStaleScanJob creates the sweep job.
func NewStaleScanJob(lister StaleLister, review ReviewMarker, log *logger.Logger) *StaleScanJob {
	return &StaleScanJob{
		lister: lister,
		review: review,
		logger: log.Component("jobs.stalescan"),
	}
}

func (j *StaleScanJob) Name() string { return "stale_thesis_scan" }

// Run executes one sweep.
func (j *StaleScanJob) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-staleAfter)

	tickers, err := j.lister.StaleTickers(ctx, cutoff)
	if err != nil {
		return err
	}

	flagged := 0
	for _, ticker := range tickers {
		if err := j.review.MarkNeedsReview(ctx, ticker); err != nil {
			j.logger.WithError(err).WithField("ticker", ticker).Warn("Failed to flag stale thesis")
			continue
		}
		flagged++
		j.logger.WithField("ticker", ticker).Info("Stale thesis flagged for review")
	}

	j.logger.WithFields(map[string]interface{}{
		"stale":   len(tickers),
		"flagged": flagged,
	}).Info("Stale thesis scan completed")
	return nil
}
