package webscraper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"ecommerce-scraper/browser"
	"ecommerce-scraper/browser/browsertest"
	"ecommerce-scraper/models"
)

const testURL = "https://webscraper.io/test-sites/e-commerce/more/computers/laptops"

func listingNodes(t *testing.T, cards ...browsertest.Card) []browser.Element {
	t.Helper()
	ctx := context.Background()
	d := browsertest.NewDriver()
	d.AddPage(testURL, browsertest.Catalog(cards, nil, browsertest.CatalogOptions{}))
	require.NoError(t, d.Navigate(ctx, testURL))

	nodes, err := d.FindElements(ctx, DefaultSelectors().Listing)
	require.NoError(t, err)
	require.Len(t, nodes, len(cards))
	return nodes
}

func validCard() browsertest.Card {
	return browsertest.Card{
		Title:       "Asus VivoBook X441NA-GA190",
		Description: "Asus VivoBook X441NA-GA190 Chocolate Black, 14\", Celeron N3450",
		Price:       "$295.99",
		Stars:       3,
		Reviews:     "14 reviews",
	}
}

func TestParseProduct(t *testing.T) {
	nodes := listingNodes(t, validCard())

	product, err := ParseProduct(context.Background(), nodes[0], DefaultSelectors())
	require.NoError(t, err)
	require.Equal(t, models.Product{
		Title:        "Asus VivoBook X441NA-GA190",
		Description:  "Asus VivoBook X441NA-GA190 Chocolate Black, 14\", Celeron N3450",
		Price:        295.99,
		Rating:       3,
		NumOfReviews: 14,
	}, product)
}

func TestParseProductUsesFullTitleAttribute(t *testing.T) {
	card := validCard()
	card.Title = "Lenovo ThinkPad Yoga 370 Black"
	nodes := listingNodes(t, card)

	product, err := ParseProduct(context.Background(), nodes[0], DefaultSelectors())
	require.NoError(t, err)
	require.Equal(t, "Lenovo ThinkPad Yoga 370 Black", product.Title)
}

func TestParseProductFieldVariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*browsertest.Card)
		check  func(*testing.T, models.Product)
	}{
		{
			name:   "zero stars",
			mutate: func(c *browsertest.Card) { c.Stars = 0 },
			check:  func(t *testing.T, p models.Product) { require.Equal(t, 0, p.Rating) },
		},
		{
			name:   "price without dollar sign",
			mutate: func(c *browsertest.Card) { c.Price = "1299.00" },
			check:  func(t *testing.T, p models.Product) { require.Equal(t, 1299.0, p.Price) },
		},
		{
			name:   "price with surrounding whitespace",
			mutate: func(c *browsertest.Card) { c.Price = "  $24.99 \n" },
			check:  func(t *testing.T, p models.Product) { require.Equal(t, 24.99, p.Price) },
		},
		{
			name:   "space after dollar sign",
			mutate: func(c *browsertest.Card) { c.Price = "$ 199.99" },
			check:  func(t *testing.T, p models.Product) { require.Equal(t, 199.99, p.Price) },
		},
		{
			name:   "single review",
			mutate: func(c *browsertest.Card) { c.Reviews = "1 review" },
			check:  func(t *testing.T, p models.Product) { require.Equal(t, 1, p.NumOfReviews) },
		},
		{
			name:   "bare review number",
			mutate: func(c *browsertest.Card) { c.Reviews = "7" },
			check:  func(t *testing.T, p models.Product) { require.Equal(t, 7, p.NumOfReviews) },
		},
		{
			name:   "empty description",
			mutate: func(c *browsertest.Card) { c.Description = "" },
			check:  func(t *testing.T, p models.Product) { require.Empty(t, p.Description) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.mutate(&card)
			nodes := listingNodes(t, card)

			product, err := ParseProduct(context.Background(), nodes[0], DefaultSelectors())
			require.NoError(t, err)
			tt.check(t, product)
		})
	}
}

func TestParseProductMissingElement(t *testing.T) {
	tests := []struct {
		missing  string
		field    string
		selector string
	}{
		{missing: "title", field: "title", selector: "h4 > a"},
		{missing: "description", field: "description", selector: "p.description"},
		{missing: "price", field: "price", selector: "h4.float-end"},
		{missing: "reviews", field: "num_of_reviews", selector: "p.review-count"},
	}

	for _, tt := range tests {
		t.Run(tt.missing, func(t *testing.T) {
			card := validCard()
			card.Missing = tt.missing
			nodes := listingNodes(t, card)

			_, err := ParseProduct(context.Background(), nodes[0], DefaultSelectors())
			var notFound ErrElementNotFound
			require.True(t, errors.As(err, &notFound), "got %v", err)
			require.Equal(t, tt.field, notFound.Field)
			require.Equal(t, tt.selector, notFound.Selector)
			require.ErrorIs(t, err, browser.ErrNoSuchElement)
		})
	}
}

func TestParseProductParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*browsertest.Card)
		field  string
	}{
		{name: "thousands separator", mutate: func(c *browsertest.Card) { c.Price = "$1,299.00" }, field: "price"},
		{name: "non-numeric price", mutate: func(c *browsertest.Card) { c.Price = "$free" }, field: "price"},
		{name: "dollar sign only", mutate: func(c *browsertest.Card) { c.Price = "$" }, field: "price"},
		{name: "empty price", mutate: func(c *browsertest.Card) { c.Price = "" }, field: "price"},
		{name: "negative price", mutate: func(c *browsertest.Card) { c.Price = "$-5.00" }, field: "price"},
		{name: "not a number price", mutate: func(c *browsertest.Card) { c.Price = "NaN" }, field: "price"},
		{name: "non-numeric reviews", mutate: func(c *browsertest.Card) { c.Reviews = "no reviews" }, field: "num_of_reviews"},
		{name: "negative reviews", mutate: func(c *browsertest.Card) { c.Reviews = "-3 reviews" }, field: "num_of_reviews"},
		{name: "empty reviews", mutate: func(c *browsertest.Card) { c.Reviews = "   " }, field: "num_of_reviews"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.mutate(&card)
			nodes := listingNodes(t, card)

			_, err := ParseProduct(context.Background(), nodes[0], DefaultSelectors())
			var parseErr ErrParse
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			require.Equal(t, tt.field, parseErr.Field)
			require.Equal(t, "parse", ErrorKind(err))
		})
	}
}
