package webscraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"ecommerce-scraper/browser"
	"ecommerce-scraper/config"
	"ecommerce-scraper/models"
	"ecommerce-scraper/storage"
)

// Runner scrapes every target in order over one browser session and writes
// one CSV file per target.
type Runner struct {
	cfg     *config.Config
	driver  browser.Driver
	targets []models.Target
	scraper *Scraper
}

// NewRunner takes ownership of d; it is closed when Run returns.
func NewRunner(cfg *config.Config, d browser.Driver, targets []models.Target, opts ...Option) *Runner {
	return &Runner{
		cfg:     cfg,
		driver:  d,
		targets: targets,
		scraper: NewScraper(cfg, d, opts...),
	}
}

// Run processes the targets sequentially and stops at the first failure. The
// results of the targets completed before it are returned with the error and
// their files are left in place.
func (r *Runner) Run(ctx context.Context) (results []models.TargetResult, err error) {
	logger := r.scraper.logger
	defer func() {
		if closeErr := r.driver.Close(); closeErr != nil {
			logger.Warn("close browser", slog.Any("error", closeErr))
			err = errors.Join(err, fmt.Errorf("close browser: %w", closeErr))
		}
	}()

	results = make([]models.TargetResult, 0, len(r.targets))
	for _, target := range r.targets {
		result, err := r.runTarget(ctx, target)
		if err != nil {
			r.scraper.metrics.IncTarget("failed")
			logger.Error("target failed",
				slog.String("target", target.Name),
				slog.String("error_type", ErrorKind(err)),
				slog.Any("error", err),
			)
			return results, fmt.Errorf("target %s: %w", target.Name, err)
		}

		r.scraper.metrics.IncTarget("success")
		logger.Info("target saved",
			slog.String("target", target.Name),
			slog.String("file", result.File),
			slog.Int("products", len(result.Products)),
			slog.Int("load_more_clicks", result.LoadMoreClicks),
			slog.Duration("duration", result.Duration),
		)
		results = append(results, result)
	}
	return results, nil
}

func (r *Runner) runTarget(ctx context.Context, target models.Target) (models.TargetResult, error) {
	start := time.Now()
	result := models.TargetResult{Target: target}

	pageURL, err := ResolveURL(r.cfg.BaseURL, target.Path)
	if err != nil {
		return result, err
	}
	writer := storage.NewCSVWriter(filepath.Join(r.cfg.OutputDir, target.Name+".csv"))
	result.URL = pageURL
	result.File = writer.Path()

	r.scraper.logger.Info("scraping target",
		slog.String("base_url", r.cfg.BaseURL),
		slog.String("target", target.Name),
		slog.String("url", pageURL),
	)

	page, err := r.scraper.ScrapePage(ctx, pageURL)
	if err != nil {
		return result, err
	}
	result.Products = page.Products
	result.LoadMoreClicks = page.Clicks
	result.BannerDismissed = page.BannerDismissed

	if err := writer.Write(page.Products); err != nil {
		r.scraper.metrics.IncError(err)
		return result, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

// ResolveURL resolves path against base following RFC 3986, so
// "https://webscraper.io/" and "test-sites/e-commerce/more/phones" give
// "https://webscraper.io/test-sites/e-commerce/more/phones".
func ResolveURL(base, path string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", base, err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse target path %q: %w", path, err)
	}
	return b.ResolveReference(ref).String(), nil
}
