package services

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"ecommerce-scraper/models"
)

// TargetSummary condenses one scraped catalog page.
type TargetSummary struct {
	Name           string
	File           string
	Products       int
	LoadMoreClicks int
	MinPrice       float64
	AvgPrice       float64
	MaxPrice       float64
	TopRated       string
	Duration       time.Duration
}

type Summary struct {
	Targets       []TargetSummary
	TotalProducts int
	TotalClicks   int
}

// BuildSummary computes per-target price statistics and the top-rated
// product. Ties on rating go to the product with more reviews, then to the
// one listed first.
func BuildSummary(results []models.TargetResult) Summary {
	var summary Summary

	for _, r := range results {
		ts := TargetSummary{
			Name:           r.Target.Name,
			File:           r.File,
			Products:       len(r.Products),
			LoadMoreClicks: r.LoadMoreClicks,
			Duration:       r.Duration,
		}

		if len(r.Products) > 0 {
			var (
				priceSum float64
				minPrice = math.MaxFloat64
				maxPrice = -1.0
				best     = r.Products[0]
			)
			for _, p := range r.Products {
				priceSum += p.Price
				minPrice = math.Min(minPrice, p.Price)
				maxPrice = math.Max(maxPrice, p.Price)

				if p.Rating > best.Rating || (p.Rating == best.Rating && p.NumOfReviews > best.NumOfReviews) {
					best = p
				}
			}
			ts.MinPrice = minPrice
			ts.MaxPrice = maxPrice
			ts.AvgPrice = priceSum / float64(len(r.Products))
			ts.TopRated = best.Title
		}

		summary.Targets = append(summary.Targets, ts)
		summary.TotalProducts += ts.Products
		summary.TotalClicks += ts.LoadMoreClicks
	}

	return summary
}

// PrintSummary renders the summary as a table on w.
func PrintSummary(w io.Writer, s Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Scrape complete")
	t.AppendHeader(table.Row{"Target", "Products", "Clicks", "Min", "Avg", "Max", "Top rated", "File"})

	for _, ts := range s.Targets {
		if ts.Products == 0 {
			t.AppendRow(table.Row{ts.Name, 0, ts.LoadMoreClicks, "-", "-", "-", "-", ts.File})
			continue
		}
		t.AppendRow(table.Row{
			ts.Name,
			ts.Products,
			ts.LoadMoreClicks,
			formatMoney(ts.MinPrice),
			formatMoney(ts.AvgPrice),
			formatMoney(ts.MaxPrice),
			truncateText(ts.TopRated, 32),
			ts.File,
		})
	}

	t.AppendFooter(table.Row{"Total", s.TotalProducts, s.TotalClicks, "", "", "", "", ""})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func truncateText(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
