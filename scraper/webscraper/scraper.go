// Package webscraper scrapes the "load more" catalog pages of the
// webscraper.io e-commerce test site.
package webscraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"ecommerce-scraper/browser"
	"ecommerce-scraper/config"
	"ecommerce-scraper/models"
	"ecommerce-scraper/utils"
)

// Robots decides whether a URL may be fetched.
type Robots interface {
	Allowed(ctx context.Context, rawURL string) (bool, error)
}

// PageResult is what one catalog page yielded.
type PageResult struct {
	Products        []models.Product
	Clicks          int
	BannerDismissed bool
}

// Scraper loads catalog pages in a browser and parses their listings.
type Scraper struct {
	driver    browser.Driver
	cfg       *config.Config
	selectors Selectors
	metrics   *Metrics
	limiter   *rate.Limiter
	robots    Robots
	logger    *slog.Logger
}

// Option customizes a Scraper or Runner.
type Option func(*Scraper)

func WithMetrics(m *Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// WithRobots gates every page load on r; a disallowed page fails with ErrDisallowed.
func WithRobots(r Robots) Option {
	return func(s *Scraper) { s.robots = r }
}

func WithSelectors(sel Selectors) Option {
	return func(s *Scraper) { s.selectors = sel }
}

func NewScraper(cfg *config.Config, d browser.Driver, opts ...Option) *Scraper {
	limit := rate.Inf
	if cfg.PageInterval > 0 {
		limit = rate.Every(cfg.PageInterval)
	}

	s := &Scraper{
		driver:    d,
		cfg:       cfg,
		selectors: DefaultSelectors(),
		limiter:   rate.NewLimiter(limit, 1),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScrapePage loads url, dismisses the cookie banner, expands the listing with
// the load-more control and parses every listing container. The first
// listing that fails to parse aborts the page.
func (s *Scraper) ScrapePage(ctx context.Context, url string) (PageResult, error) {
	start := time.Now()
	result, err := s.scrapePage(ctx, url)
	s.metrics.ObservePage(time.Since(start).Seconds())
	if err != nil {
		s.metrics.IncError(err)
		return result, err
	}

	s.metrics.AddProducts(len(result.Products))
	s.metrics.AddClicks(result.Clicks)
	if result.BannerDismissed {
		s.metrics.IncBanner()
	}
	return result, nil
}

func (s *Scraper) scrapePage(ctx context.Context, url string) (PageResult, error) {
	var result PageResult

	if s.robots != nil {
		allowed, err := s.robots.Allowed(ctx, url)
		if err != nil {
			return result, fmt.Errorf("check robots.txt: %w", err)
		}
		if !allowed {
			return result, ErrDisallowed{URL: url}
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return result, fmt.Errorf("wait for page slot: %w", err)
	}

	err := utils.Retry(ctx, s.cfg.MaxRetries, func(ctx context.Context) error {
		navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigateTimeout)
		defer cancel()
		return s.driver.Navigate(navCtx, url)
	})
	if err != nil {
		return result, err
	}
	s.logger.Debug("page loaded", slog.String("url", url))

	dismissed, err := DismissBanner(ctx, s.driver, s.selectors.CookieAccept)
	if err != nil {
		return result, err
	}
	result.BannerDismissed = dismissed
	if dismissed {
		s.logger.Debug("cookie banner dismissed", slog.String("url", url))
	}

	paginator := &Paginator{
		LoadMoreSelector: s.selectors.LoadMore,
		ListingSelector:  s.selectors.Listing,
		Timeout:          s.cfg.LoadMoreTimeout,
		Delay:            s.cfg.LoadMoreDelay,
		MaxClicks:        s.cfg.MaxLoadMore,
		Logger:           s.logger,
	}
	listings, err := paginator.Run(ctx, s.driver)
	result.Clicks = listings.Clicks
	if err != nil {
		return result, err
	}

	products := make([]models.Product, 0, len(listings.Nodes))
	for i, node := range listings.Nodes {
		product, err := ParseProduct(ctx, node, s.selectors)
		if err != nil {
			return result, fmt.Errorf("listing %d: %w", i, err)
		}
		products = append(products, product)
	}
	result.Products = products
	return result, nil
}
