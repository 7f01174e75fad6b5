// Package browser defines the browser automation capability the scrapers run
// against, and a Chrome implementation of it.
package browser

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoSuchElement is returned by FindElement when nothing matches the selector.
	ErrNoSuchElement = errors.New("no such element")
	// ErrTimeout is returned by WaitClickable when the element never became clickable.
	ErrTimeout = errors.New("timed out waiting for element")
)

// Finder looks up elements by CSS selector.
type Finder interface {
	FindElement(ctx context.Context, selector string) (Element, error)
	// FindElements returns matches in document order and an empty slice when
	// nothing matches.
	FindElements(ctx context.Context, selector string) ([]Element, error)
}

// Driver is one browser session showing one page at a time.
type Driver interface {
	Finder
	Navigate(ctx context.Context, url string) error
	WaitClickable(ctx context.Context, selector string, timeout time.Duration) (Element, error)
	Close() error
}

// Element is a handle to a DOM node of the current page. Lookups on an
// Element are scoped to the node's subtree.
type Element interface {
	Finder
	Click(ctx context.Context) error
	// Attribute returns "" when the attribute is absent.
	Attribute(ctx context.Context, name string) (string, error)
	// Text returns the rendered text of the node, trimmed.
	Text(ctx context.Context) (string, error)
}
