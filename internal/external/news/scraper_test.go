package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Reathyze20/akcion/pkg/config"
	"github.com/Reathyze20/akcion/pkg/httputil"
	"github.com/Reathyze20/akcion/pkg/logger"
)

const fixtureHTML = `
<html><body>
<table class="fullview-news-outer">
<tr><td>Jun-02-25 08:30AM</td><td><a href="https://example.com/a1">Company wins defense contract</a></td></tr>
<tr><td>Jun-01-25 04:10PM</td><td><a href="https://example.com/a2">Shareholder lawsuit filed over disclosure</a></td></tr>
<tr><td>May-30-25 09:00AM</td><td><a href="https://example.com/a3">CEO interview on growth plans</a></td></tr>
</table>
</body></html>`

func newTestScraper(t *testing.T, handler http.HandlerFunc) *Scraper {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := httputil.New(logger.NewNop(), 5*time.Second).DisableRetry()
	return NewScraper(config.NewsConfig{BaseURL: srv.URL}, client, nil, logger.NewNop())
}

func TestFetchHeadlines(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("t") != "OTCX" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(fixtureHTML))
	})

	headlines, err := s.FetchHeadlines(context.Background(), "OTCX", 0)
	if err != nil {
		t.Fatalf("FetchHeadlines() error = %v", err)
	}
	if len(headlines) != 3 {
		t.Fatalf("headlines = %d, want 3", len(headlines))
	}
	if headlines[0].Title != "Company wins defense contract" {
		t.Errorf("title = %q", headlines[0].Title)
	}
	if headlines[0].URL != "https://example.com/a1" {
		t.Errorf("url = %q", headlines[0].URL)
	}
	if headlines[0].Published == "" {
		t.Error("published timestamp missing")
	}
}

func TestFetchHeadlines_Limit(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fixtureHTML))
	})

	headlines, err := s.FetchHeadlines(context.Background(), "OTCX", 2)
	if err != nil {
		t.Fatalf("FetchHeadlines() error = %v", err)
	}
	if len(headlines) != 2 {
		t.Errorf("headlines = %d, want 2", len(headlines))
	}
}

func TestFetchHeadlines_UpstreamError(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := s.FetchHeadlines(context.Background(), "OTCX", 0); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestFetchHeadlines_RequiresTicker(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, err := s.FetchHeadlines(context.Background(), "", 0); err == nil {
		t.Fatal("expected error on empty ticker")
	}
}
