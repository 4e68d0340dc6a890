package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Reathyze20/akcion/internal/brain"
	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/internal/external/news"
	"github.com/Reathyze20/akcion/pkg/logger"
)

type fakeLister struct {
	tickers []string
	stale   []string
}

func (f *fakeLister) ActiveTickers(ctx context.Context) ([]string, error) { return f.tickers, nil }
func (f *fakeLister) StaleTickers(ctx context.Context, cutoff time.Time) ([]string, error) {
	return f.stale, nil
}

type fakeFetcher struct {
	byTicker map[string][]news.Headline
	failFor  string
}

func (f *fakeFetcher) FetchHeadlines(ctx context.Context, ticker string, limit int) ([]news.Headline, error) {
	if ticker == f.failFor {
		return nil, errors.New("scrape failed")
	}
	return f.byTicker[ticker], nil
}

type fakeJobMerger struct {
	requests []brain.MergeRequest
	busyFor  string
}

func (f *fakeJobMerger) Merge(ctx context.Context, req brain.MergeRequest) (*contracts.MergeResult, error) {
	if req.Ticker == f.busyFor {
		return nil, contracts.ErrConcurrencyConflict
	}
	f.requests = append(f.requests, req)
	return &contracts.MergeResult{Ticker: req.Ticker}, nil
}

func TestNewsPollJob(t *testing.T) {
	fetcher := &fakeFetcher{
		byTicker: map[string][]news.Headline{
			"AAA": {{Ticker: "AAA", Title: "contract win", URL: "https://x/1"}},
			"BBB": {{Ticker: "BBB", Title: "lawsuit filed", URL: "https://x/2"}},
		},
		failFor: "CCC",
	}
	merger := &fakeJobMerger{}
	job := NewNewsPollJob(&fakeLister{tickers: []string{"AAA", "BBB", "CCC"}}, fetcher, merger, logger.NewNop())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// CCC의 스크랩 실패가 나머지 티커 처리를 막으면 안 됨
	if len(merger.requests) != 2 {
		t.Fatalf("merges = %d, want 2", len(merger.requests))
	}
	if merger.requests[0].Source != "news:https://x/1" {
		t.Errorf("source = %q", merger.requests[0].Source)
	}
}

func TestNewsPollJob_BusyTickerDeferred(t *testing.T) {
	fetcher := &fakeFetcher{byTicker: map[string][]news.Headline{
		"AAA": {{Ticker: "AAA", Title: "update", URL: "https://x/1"}},
		"BBB": {{Ticker: "BBB", Title: "update", URL: "https://x/2"}},
	}}
	merger := &fakeJobMerger{busyFor: "AAA"}
	job := NewNewsPollJob(&fakeLister{tickers: []string{"AAA", "BBB"}}, fetcher, merger, logger.NewNop())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(merger.requests) != 1 || merger.requests[0].Ticker != "BBB" {
		t.Errorf("requests = %+v, want only BBB", merger.requests)
	}
}

type fakeReview struct {
	marked []string
	fail   string
}

func (f *fakeReview) MarkNeedsReview(ctx context.Context, ticker string) error {
	if ticker == f.fail {
		return errors.New("update failed")
	}
	f.marked = append(f.marked, ticker)
	return nil
}

func TestStaleScanJob(t *testing.T) {
	review := &fakeReview{fail: "BBB"}
	job := NewStaleScanJob(&fakeLister{stale: []string{"AAA", "BBB", "CCC"}}, review, logger.NewNop())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(review.marked) != 2 {
		t.Errorf("flagged = %v, want AAA and CCC", review.marked)
	}
}
