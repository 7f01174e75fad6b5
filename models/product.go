package models

import "time"

// Product is one listing card scraped from a catalog page.
type Product struct {
	Title        string
	Description  string
	Price        float64
	Rating       int
	NumOfReviews int
}

// Target pairs an output file stem with the catalog path it is scraped from.
type Target struct {
	Name string
	Path string
}

type TargetResult struct {
	Target          Target
	URL             string
	File            string
	Products        []Product
	LoadMoreClicks  int
	BannerDismissed bool
	Duration        time.Duration
}
