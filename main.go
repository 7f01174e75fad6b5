package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"ecommerce-scraper/browser"
	"ecommerce-scraper/config"
	"ecommerce-scraper/scraper/webscraper"
	"ecommerce-scraper/services"
	"ecommerce-scraper/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ecommerce-scraper",
		Short:         "Scrape the webscraper.io load-more e-commerce catalog into CSV files",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := utils.NewLogger(cfg.Verbose, os.Stderr)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "site root the target paths are resolved against")
	flags.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "directory the CSV files are written to")
	flags.StringSliceVar(&cfg.Targets, "target", cfg.Targets, "scrape only the named targets (repeatable)")
	flags.BoolVar(&cfg.Headless, "headless", cfg.Headless, "run Chrome without a window")
	flags.IntVar(&cfg.MaxLoadMore, "max-load-more", cfg.MaxLoadMore, "maximum load-more clicks per page, 0 for unlimited")
	flags.BoolVar(&cfg.RespectRobots, "respect-robots", cfg.RespectRobots, "fail the run when robots.txt disallows a target")
	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address during the run (e.g. :9090)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "enable debug logging")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	targets, err := config.SelectTargets(config.DefaultTargets(), cfg.Targets)
	if err != nil {
		return err
	}

	metrics := webscraper.NewMetrics()
	opts := []webscraper.Option{webscraper.WithMetrics(metrics)}
	if cfg.RespectRobots {
		opts = append(opts, webscraper.WithRobots(webscraper.NewRobotsChecker(&http.Client{Timeout: 10 * time.Second}, cfg.UserAgent)))
	}

	if cfg.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", slog.Any("error", err))
			}
		}()
	}

	slog.Info("launching browser", slog.Bool("headless", cfg.Headless))
	chrome, err := browser.NewChrome(browser.ChromeOptions{
		Headless:  cfg.Headless,
		UserAgent: cfg.UserAgent,
	})
	if err != nil {
		return err
	}

	slog.Info("starting scrape",
		slog.String("base_url", cfg.BaseURL),
		slog.Int("targets", len(targets)),
		slog.String("output_dir", cfg.OutputDir),
	)
	start := time.Now()
	results, err := webscraper.NewRunner(cfg, chrome, targets, opts...).Run(ctx)
	if err != nil {
		return err
	}
	slog.Info("scrape finished", slog.Int("targets", len(results)), slog.Duration("duration", time.Since(start)))

	services.PrintSummary(out, services.BuildSummary(results))
	return nil
}
