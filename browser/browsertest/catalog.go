package browsertest

import (
	"fmt"
	"html"
	"strings"
)

// Card is one product card in the markup used by the e-commerce test site.
type Card struct {
	Title       string
	Description string
	Price       string
	Stars       int
	Reviews     string

	// Missing names a part left out of the markup: "title", "description",
	// "price" or "reviews".
	Missing string
}

func (c Card) HTML() string {
	var b strings.Builder
	b.WriteString(`<div class="col-md-4 col-xl-4 col-lg-4"><div class="card thumbnail"><div class="product-wrapper card-body">`)
	b.WriteString(`<img class="img-fluid card-img-top image img-responsive" alt="item" src="/images/test-sites/e-commerce/items/cart2.png">`)
	b.WriteString(`<div class="caption">`)
	if c.Missing != "price" {
		fmt.Fprintf(&b, `<h4 class="price float-end card-title pull-right">%s</h4>`, html.EscapeString(c.Price))
	}
	if c.Missing != "title" {
		fmt.Fprintf(&b, `<h4><a href="/test-sites/e-commerce/more/product/1" class="title" title="%s">%s</a></h4>`,
			html.EscapeString(c.Title), html.EscapeString(truncate(c.Title, 20)))
	}
	if c.Missing != "description" {
		fmt.Fprintf(&b, `<p class="description card-text">%s</p>`, html.EscapeString(c.Description))
	}
	b.WriteString(`</div><div class="ratings">`)
	if c.Missing != "reviews" {
		fmt.Fprintf(&b, `<p class="review-count float-end">%s</p>`, html.EscapeString(c.Reviews))
	}
	fmt.Fprintf(&b, `<p data-rating="%d">`, c.Stars)
	for i := 0; i < c.Stars; i++ {
		b.WriteString(`<span class="ws-icon ws-icon-star"></span>`)
	}
	b.WriteString(`</p></div></div></div></div>`)
	return b.String()
}

const (
	LoadMoreSelector  = "a.ecomerce-items-scroll-more"
	ContainerSelector = "div.ecomerce-items"
	BannerSelector    = "button.acceptCookies"
)

type CatalogOptions struct {
	Banner   bool
	LoadMore bool
}

// CatalogPage renders a catalog page holding cards.
func CatalogPage(cards []Card, opts CatalogOptions) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="en"><body>`)
	if opts.Banner {
		b.WriteString(`<div id="cookieBanner" class="cookie-banner"><p>We use cookies.</p><button class="acceptCookies">Accept &amp; Continue</button></div>`)
	}
	b.WriteString(`<div class="container test-site"><div class="row"><div class="col-lg-9">`)
	b.WriteString(`<div class="row ecomerce-items ecomerce-items-more">`)
	b.WriteString(Cards(cards))
	b.WriteString(`</div>`)
	if opts.LoadMore {
		b.WriteString(`<a href="#" class="btn btn-lg btn-block btn-primary ecomerce-items-scroll-more">More</a>`)
	}
	b.WriteString(`</div></div></div></body></html>`)
	return b.String()
}

// Cards renders cards back to back, for use as a load-more batch.
func Cards(cards []Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.HTML())
	}
	return b.String()
}

// Catalog wraps CatalogPage in a Page wired for the load-more control and
// the cookie banner. Each entry of batches is appended by one click.
func Catalog(initial []Card, batches [][]Card, opts CatalogOptions) *Page {
	page := &Page{
		HTML:      CatalogPage(initial, opts),
		LoadMore:  LoadMoreSelector,
		Container: ContainerSelector,
		Dismiss:   []string{BannerSelector},
	}
	for _, batch := range batches {
		page.Batches = append(page.Batches, Cards(batch))
	}
	return page
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
