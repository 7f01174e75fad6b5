package webscraper

import (
	"context"
	"errors"
	"fmt"

	"ecommerce-scraper/browser"
)

// DismissBanner clicks the cookie-consent button when the page shows one.
// It reports whether a banner was dismissed; a missing banner is not an error.
func DismissBanner(ctx context.Context, d browser.Finder, selector string) (bool, error) {
	button, err := d.FindElement(ctx, selector)
	if err != nil {
		if errors.Is(err, browser.ErrNoSuchElement) {
			return false, nil
		}
		return false, fmt.Errorf("look up cookie banner: %w", err)
	}

	if err := button.Click(ctx); err != nil {
		return false, fmt.Errorf("dismiss cookie banner: %w", err)
	}
	return true, nil
}
