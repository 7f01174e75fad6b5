package webscraper

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"ecommerce-scraper/browser"
	"ecommerce-scraper/models"
)

// Selectors holds the CSS selectors for the catalog markup.
type Selectors struct {
	Title        string
	Description  string
	Price        string
	Star         string
	Reviews      string
	CookieAccept string
	LoadMore     string
	Listing      string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Title:        "h4 > a",
		Description:  "p.description",
		Price:        "h4.float-end",
		Star:         "span.ws-icon-star",
		Reviews:      "p.review-count",
		CookieAccept: "button.acceptCookies",
		LoadMore:     "a.ecomerce-items-scroll-more",
		Listing:      ".product-wrapper",
	}
}

// ParseProduct extracts one product from a listing container. Every field
// except the rating requires its element; the rating is the number of star
// icons and may be zero.
func ParseProduct(ctx context.Context, node browser.Element, sel Selectors) (models.Product, error) {
	title, err := attribute(ctx, node, "title", sel.Title, "title")
	if err != nil {
		return models.Product{}, err
	}

	description, err := text(ctx, node, "description", sel.Description)
	if err != nil {
		return models.Product{}, err
	}

	rawPrice, err := text(ctx, node, "price", sel.Price)
	if err != nil {
		return models.Product{}, err
	}
	price, err := parsePrice(rawPrice)
	if err != nil {
		return models.Product{}, err
	}

	stars, err := node.FindElements(ctx, sel.Star)
	if err != nil {
		return models.Product{}, fmt.Errorf("rating: %w", err)
	}

	rawReviews, err := text(ctx, node, "num_of_reviews", sel.Reviews)
	if err != nil {
		return models.Product{}, err
	}
	reviews, err := parseReviewCount(rawReviews)
	if err != nil {
		return models.Product{}, err
	}

	return models.Product{
		Title:        title,
		Description:  description,
		Price:        price,
		Rating:       len(stars),
		NumOfReviews: reviews,
	}, nil
}

func find(ctx context.Context, node browser.Element, field, selector string) (browser.Element, error) {
	el, err := node.FindElement(ctx, selector)
	if err != nil {
		if errors.Is(err, browser.ErrNoSuchElement) {
			return nil, ErrElementNotFound{Field: field, Selector: selector, Err: err}
		}
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return el, nil
}

func text(ctx context.Context, node browser.Element, field, selector string) (string, error) {
	el, err := find(ctx, node, field, selector)
	if err != nil {
		return "", err
	}
	value, err := el.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	return value, nil
}

func attribute(ctx context.Context, node browser.Element, field, selector, name string) (string, error) {
	el, err := find(ctx, node, field, selector)
	if err != nil {
		return "", err
	}
	value, err := el.Attribute(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	return value, nil
}

// parsePrice drops every "$" and the surrounding whitespace, so "$199.99",
// "$ 199.99" and "199.99" all parse. Thousands separators are not
// recognised, so "$1,299.00" is an error.
func parsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "$", ""))
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrParse{Field: "price", Text: raw, Err: err}
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, ErrParse{Field: "price", Text: raw, Err: errors.New("not a valid price")}
	}
	return price, nil
}

// parseReviewCount reads the leading integer of labels like "14 reviews".
func parseReviewCount(raw string) (int, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0, ErrParse{Field: "num_of_reviews", Text: raw, Err: errors.New("empty label")}
	}
	n, err := strconv.ParseUint(fields[0], 10, 31)
	if err != nil {
		return 0, ErrParse{Field: "num_of_reviews", Text: raw, Err: err}
	}
	return int(n), nil
}
