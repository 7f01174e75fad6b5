package webscraper

import (
	"context"
	"errors"
	"fmt"

	"ecommerce-scraper/browser"
	"ecommerce-scraper/storage"
)

// ErrElementNotFound reports a required element missing from a listing.
type ErrElementNotFound struct {
	Field    string
	Selector string
	Err      error
}

func (e ErrElementNotFound) Error() string {
	return fmt.Sprintf("%s: element %q not found", e.Field, e.Selector)
}

func (e ErrElementNotFound) Unwrap() error {
	if e.Err == nil {
		return browser.ErrNoSuchElement
	}
	return e.Err
}

// ErrParse reports text that could not be converted to a numeric field.
type ErrParse struct {
	Field string
	Text  string
	Err   error
}

func (e ErrParse) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: cannot parse %q", e.Field, e.Text)
	}
	return fmt.Sprintf("%s: cannot parse %q: %v", e.Field, e.Text, e.Err)
}

func (e ErrParse) Unwrap() error {
	return e.Err
}

// ErrDisallowed reports a page excluded by the site's robots.txt.
type ErrDisallowed struct {
	URL string
}

func (e ErrDisallowed) Error() string {
	return fmt.Sprintf("disallowed by robots.txt: %s", e.URL)
}

// ErrorKind maps err to the label used for the errors metric and log records.
func ErrorKind(err error) string {
	if err == nil {
		return "unknown"
	}
	var notFound ErrElementNotFound
	if errors.As(err, &notFound) {
		return "not_found"
	}
	var parse ErrParse
	if errors.As(err, &parse) {
		return "parse"
	}
	var ioErr storage.ErrIO
	if errors.As(err, &ioErr) {
		return "io"
	}
	var disallowed ErrDisallowed
	if errors.As(err, &disallowed) {
		return "disallowed"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	if errors.Is(err, browser.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "other"
}
