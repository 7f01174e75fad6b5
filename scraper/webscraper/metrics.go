package webscraper

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for a scrape run.
type Metrics struct {
	Registry              *prometheus.Registry
	TargetsTotal          *prometheus.CounterVec
	PageDuration          prometheus.Histogram
	ProductsScrapedTotal  prometheus.Counter
	LoadMoreClicksTotal   prometheus.Counter
	BannersDismissedTotal prometheus.Counter
	ErrorsTotal           *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	targets := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_targets_total",
			Help: "Catalog pages processed, by outcome.",
		},
		[]string{"status"},
	)
	pageDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_page_duration_seconds",
			Help:    "Time spent loading, expanding and parsing one catalog page.",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
		},
	)
	products := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_products_scraped_total",
			Help: "Total number of products parsed.",
		},
	)
	clicks := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_load_more_clicks_total",
			Help: "Total number of load-more clicks.",
		},
	)
	banners := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_banners_dismissed_total",
			Help: "Total number of cookie banners dismissed.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total number of scraper errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(targets, pageDuration, products, clicks, banners, errorsTotal)

	return &Metrics{
		Registry:              registry,
		TargetsTotal:          targets,
		PageDuration:          pageDuration,
		ProductsScrapedTotal:  products,
		LoadMoreClicksTotal:   clicks,
		BannersDismissedTotal: banners,
		ErrorsTotal:           errorsTotal,
	}
}

func (m *Metrics) IncTarget(status string) {
	if m == nil {
		return
	}
	m.TargetsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObservePage(seconds float64) {
	if m == nil {
		return
	}
	m.PageDuration.Observe(seconds)
}

func (m *Metrics) AddProducts(n int) {
	if m == nil {
		return
	}
	m.ProductsScrapedTotal.Add(float64(n))
}

func (m *Metrics) AddClicks(n int) {
	if m == nil {
		return
	}
	m.LoadMoreClicksTotal.Add(float64(n))
}

func (m *Metrics) IncBanner() {
	if m == nil {
		return
	}
	m.BannersDismissedTotal.Inc()
}

// IncError increments the errors counter for the kind of err.
func (m *Metrics) IncError(err error) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(ErrorKind(err)).Inc()
}
