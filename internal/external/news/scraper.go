package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/pkg/config"
	"github.com/Reathyze20/akcion/pkg/httputil"
	"github.com/Reathyze20/akcion/pkg/logger"
	"github.com/Reathyze20/akcion/pkg/redis"
)

// Headline is one scraped news item for a ticker.
type Headline struct {
	Ticker    string `json:"ticker"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Published string `json:"published"` // raw site timestamp, not normalized
}

// Scraper pulls recent headlines for a ticker from the configured quote
// page. Headlines feed the synthesis engine as merge text.
type Scraper struct {
	client  *httputil.Client
	limiter *redis.RateLimiter // nil이면 리밋 없이 동작
	baseURL string
	logger  *logger.Logger
}

// NewScraper creates a headline scraper.
func NewScraper(cfg config.NewsConfig, client *httputil.Client, limiter *redis.RateLimiter, log *logger.Logger) *Scraper {
	return &Scraper{
		client:  client,
		limiter: limiter,
		baseURL: cfg.BaseURL,
		logger:  log.Component("news.scraper"),
	}
}

// FetchHeadlines scrapes the news table of one ticker's quote page.
func (s *Scraper) FetchHeadlines(ctx context.Context, ticker string, limit int) ([]Headline, error) {
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", contracts.ErrInputRejected)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, redis.NewsRateLimit); err != nil {
			return nil, fmt.Errorf("news rate limit wait: %w", err)
		}
	}

	pageURL := fmt.Sprintf("%s?t=%s", s.baseURL, url.QueryEscape(ticker))

	resp, err := s.client.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: news fetch failed: %v", contracts.ErrCollaboratorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("%w: news page returned status %d", contracts.ErrCollaboratorUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news page: %w", err)
	}

	var headlines []Headline
	doc.Find("table.fullview-news-outer tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if limit > 0 && len(headlines) >= limit {
			return false
		}

		link := row.Find("td a").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return true
		}

		href, _ := link.Attr("href")
		published := strings.TrimSpace(row.Find("td").First().Text())

		headlines = append(headlines, Headline{
			Ticker:    ticker,
			Title:     title,
			URL:       href,
			Published: published,
		})
		return true
	})

	s.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(headlines),
	}).Debug("Headlines scraped")

	return headlines, nil
}
