// Package browsertest provides an in-memory browser.Driver for tests.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ecommerce-scraper/browser"
)

// Page is the fake content served for one URL.
type Page struct {
	HTML string

	// LoadMore is the selector of the load-more control. Each click appends
	// the next entry of Batches to the element matching Container; the
	// control is removed once every batch has been appended.
	LoadMore  string
	Container string
	Batches   []string

	// Dismiss lists selectors of overlays that disappear when clicked.
	Dismiss []string
}

// Driver serves registered Pages from goquery documents and records what the
// code under test did with them.
type Driver struct {
	mu    sync.Mutex
	pages map[string]*Page

	doc    *goquery.Document
	page   *Page
	loaded int

	navigations []string
	clicks      []string
	waits       []time.Duration
	closed      int

	// WaitErr, when set, is returned by WaitClickable instead of looking the
	// selector up.
	WaitErr error
	// NavigateErr, when set, is returned by Navigate for the given URLs.
	NavigateErr map[string]error
}

func NewDriver() *Driver {
	return &Driver{
		pages:       make(map[string]*Page),
		NavigateErr: make(map[string]error),
	}
}

// AddPage registers the page served at url.
func (d *Driver) AddPage(url string, page *Page) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pages[url] = page
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.navigations = append(d.navigations, url)
	if err := d.NavigateErr[url]; err != nil {
		return err
	}
	page, ok := d.pages[url]
	if !ok {
		return fmt.Errorf("browsertest: no page registered for %s", url)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return fmt.Errorf("browsertest: parse page %s: %w", url, err)
	}
	d.doc = doc
	d.page = page
	d.loaded = 0
	return nil
}

func (d *Driver) FindElement(ctx context.Context, selector string) (browser.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil, fmt.Errorf("browsertest: no page loaded")
	}
	return d.findOne(d.doc.Selection, selector)
}

func (d *Driver) FindElements(ctx context.Context, selector string) ([]browser.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil, fmt.Errorf("browsertest: no page loaded")
	}
	return d.findAll(d.doc.Selection, selector), nil
}

// WaitClickable never sleeps: a missing, hidden or disabled element times
// out immediately.
func (d *Driver) WaitClickable(ctx context.Context, selector string, timeout time.Duration) (browser.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.waits = append(d.waits, timeout)
	if d.WaitErr != nil {
		return nil, d.WaitErr
	}
	if d.doc == nil {
		return nil, fmt.Errorf("browsertest: no page loaded")
	}

	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 || !clickable(sel) {
		return nil, fmt.Errorf("%w: %s after %s", browser.ErrTimeout, selector, timeout)
	}
	return &element{driver: d, sel: sel}, nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed++
	return nil
}

// Navigations returns every URL passed to Navigate, in call order.
func (d *Driver) Navigations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.navigations...)
}

// Clicks describes every clicked element as tag.class.
func (d *Driver) Clicks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clicks...)
}

// Waits returns the timeout of every WaitClickable call.
func (d *Driver) Waits() []time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]time.Duration(nil), d.waits...)
}

func (d *Driver) CloseCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Driver) findAll(root *goquery.Selection, selector string) []browser.Element {
	matches := root.Find(selector)
	elements := make([]browser.Element, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &element{driver: d, sel: s})
	})
	return elements
}

func (d *Driver) findOne(root *goquery.Selection, selector string) (browser.Element, error) {
	match := root.Find(selector).First()
	if match.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", browser.ErrNoSuchElement, selector)
	}
	return &element{driver: d, sel: match}, nil
}

func (d *Driver) click(sel *goquery.Selection) {
	d.clicks = append(d.clicks, describe(sel))

	page := d.page
	if page == nil {
		return
	}

	if page.LoadMore != "" && sel.Is(page.LoadMore) {
		if d.loaded < len(page.Batches) {
			d.doc.Find(page.Container).First().AppendHtml(page.Batches[d.loaded])
			d.loaded++
		}
		if d.loaded >= len(page.Batches) {
			sel.Remove()
		}
		return
	}

	for _, dismiss := range page.Dismiss {
		if sel.Is(dismiss) {
			sel.Remove()
			return
		}
	}
}

func clickable(sel *goquery.Selection) bool {
	if _, disabled := sel.Attr("disabled"); disabled {
		return false
	}
	if _, hidden := sel.Attr("hidden"); hidden {
		return false
	}
	style, _ := sel.Attr("style")
	return !strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none")
}

func describe(sel *goquery.Selection) string {
	name := goquery.NodeName(sel)
	if class, ok := sel.Attr("class"); ok && class != "" {
		name += "." + strings.Join(strings.Fields(class), ".")
	}
	return name
}

type element struct {
	driver *Driver
	sel    *goquery.Selection
}

func (e *element) FindElement(ctx context.Context, selector string) (browser.Element, error) {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()
	return e.driver.findOne(e.sel, selector)
}

func (e *element) FindElements(ctx context.Context, selector string) ([]browser.Element, error) {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()
	return e.driver.findAll(e.sel, selector), nil
}

func (e *element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()
	e.driver.click(e.sel)
	return nil
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()
	value, _ := e.sel.Attr(name)
	return value, nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()
	return strings.TrimSpace(e.sel.Text()), nil
}
