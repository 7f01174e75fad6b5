package config

import (
	"fmt"

	"ecommerce-scraper/models"
)

// DefaultTargets returns the catalog pages scraped on every run, in run order.
func DefaultTargets() []models.Target {
	return []models.Target{
		{Name: "home", Path: "test-sites/e-commerce/more/"},
		{Name: "laptops", Path: "test-sites/e-commerce/more/computers/laptops"},
		{Name: "tablets", Path: "test-sites/e-commerce/more/computers/tablets"},
		{Name: "phones", Path: "test-sites/e-commerce/more/phones"},
		{Name: "touch", Path: "test-sites/e-commerce/more/phones/touch"},
		{Name: "computers", Path: "test-sites/e-commerce/more/computers"},
	}
}

// SelectTargets keeps the targets whose names appear in names, preserving the
// order of targets. An empty names list selects everything.
func SelectTargets(targets []models.Target, names []string) ([]models.Target, error) {
	if len(names) == 0 {
		return targets, nil
	}

	known := make(map[string]bool, len(targets))
	for _, t := range targets {
		known[t.Name] = true
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if !known[name] {
			return nil, fmt.Errorf("unknown target %q", name)
		}
		wanted[name] = true
	}

	selected := make([]models.Target, 0, len(wanted))
	for _, t := range targets {
		if wanted[t.Name] {
			selected = append(selected, t)
		}
	}
	return selected, nil
}
