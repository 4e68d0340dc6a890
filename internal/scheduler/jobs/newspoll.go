package jobs

import (
	"context"
	"errors"

	"github.com/Reathyze20/akcion/internal/brain"
	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/internal/external/news"
	"github.com/Reathyze20/akcion/pkg/logger"
)

// headlinesPerTicker bounds how much of the news tail one poll ingests.
const headlinesPerTicker = 3

// TickerLister supplies the tickers a poll should cover.
type TickerLister interface {
	ActiveTickers(ctx context.Context) ([]string, error)
}

// HeadlineFetcher pulls recent headlines for one ticker.
type HeadlineFetcher interface {
	FetchHeadlines(ctx context.Context, ticker string, limit int) ([]news.Headline, error)
}

// Merger feeds scraped text into the synthesis pipeline.
type Merger interface {
	Merge(ctx context.Context, req brain.MergeRequest) (*contracts.MergeResult, error)
}

// NewsPollJob scrapes headlines for every active ticker and merges each
// one into its thesis. Per-ticker failures are logged and skipped.
type NewsPollJob struct {
	tickers TickerLister
	fetcher HeadlineFetcher
	merger  Merger
	logger  *logger.Logger
}

// NewNewsPollJob creates the poll job.
func NewNewsPollJob(tickers TickerLister, fetcher HeadlineFetcher, merger Merger, log *logger.Logger) *NewsPollJob {
	return &NewsPollJob{
		tickers: tickers,
		fetcher: fetcher,
		merger:  merger,
		logger:  log.Component("jobs.newspoll"),
	}
}

func (j *NewsPollJob) Name() string { return "news_poll" }

// Run executes one poll cycle.
func (j *NewsPollJob) Run(ctx context.Context) error {
	tickers, err := j.tickers.ActiveTickers(ctx)
	if err != nil {
		return err
	}

	merged, skipped := 0, 0
	for _, ticker := range tickers {
		headlines, err := j.fetcher.FetchHeadlines(ctx, ticker, headlinesPerTicker)
		if err != nil {
			j.logger.WithError(err).WithField("ticker", ticker).Warn("Headline fetch failed, skipping ticker")
			skipped++
			continue
		}

		for _, h := range headlines {
			_, err := j.merger.Merge(ctx, brain.MergeRequest{
				Ticker: ticker,
				Text:   h.Title,
				Source: "news:" + h.URL,
			})
			if err != nil {
				if errors.Is(err, contracts.ErrConcurrencyConflict) {
					// 다른 머지가 진행 중이면 다음 주기에 다시 시도
					j.logger.WithField("ticker", ticker).Debug("Merge busy, deferring to next poll")
				} else {
					j.logger.WithError(err).WithField("ticker", ticker).Warn("Headline merge failed")
				}
				skipped++
				continue
			}
			merged++
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"merged":  merged,
		"skipped": skipped,
	}).Info("News poll completed")
	return nil
}
