package webscraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ecommerce-scraper/browser"
	"ecommerce-scraper/utils"
)

type paginationState int

const (
	stateExpanding paginationState = iota
	stateDone
)

func (s paginationState) String() string {
	switch s {
	case stateExpanding:
		return "expanding"
	case stateDone:
		return "done"
	default:
		return fmt.Sprintf("paginationState(%d)", int(s))
	}
}

// Paginator clicks the load-more control until it stops being clickable and
// then collects every listing container on the page.
type Paginator struct {
	LoadMoreSelector string
	ListingSelector  string

	// Timeout bounds each wait for the control.
	Timeout time.Duration
	// Delay is the pause after each click, a heuristic for the time the site
	// needs to insert the next batch.
	Delay time.Duration
	// MaxClicks stops expanding after that many clicks. 0 means unlimited.
	MaxClicks int

	Logger *slog.Logger
}

// Listings is the outcome of a pagination run.
type Listings struct {
	Nodes  []browser.Element
	Clicks int
}

// Run expands the page and returns the listing containers in document order.
// The control timing out, disappearing or failing to click all end
// expansion. A cancelled ctx is returned as an error.
func (p *Paginator) Run(ctx context.Context, d browser.Driver) (Listings, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	state := stateExpanding
	clicks := 0
	for state == stateExpanding {
		next, err := p.expand(ctx, d)
		if err != nil {
			return Listings{Clicks: clicks}, err
		}
		if next == stateDone {
			logger.Debug("load more exhausted", slog.Int("clicks", clicks))
			state = stateDone
			continue
		}

		clicks++
		if p.MaxClicks > 0 && clicks >= p.MaxClicks {
			logger.Debug("load more click limit reached", slog.Int("clicks", clicks))
			state = stateDone
		}
	}

	nodes, err := d.FindElements(ctx, p.ListingSelector)
	if err != nil {
		return Listings{Clicks: clicks}, fmt.Errorf("collect listings: %w", err)
	}
	return Listings{Nodes: nodes, Clicks: clicks}, nil
}

// expand performs one Expanding step: wait for the control, click it and
// pause. It returns stateDone when the control could not be used.
func (p *Paginator) expand(ctx context.Context, d browser.Driver) (paginationState, error) {
	more, err := d.WaitClickable(ctx, p.LoadMoreSelector, p.Timeout)
	if err != nil {
		if ctx.Err() != nil {
			return stateDone, ctx.Err()
		}
		return stateDone, nil
	}

	if err := more.Click(ctx); err != nil {
		if ctx.Err() != nil {
			return stateDone, ctx.Err()
		}
		return stateDone, nil
	}

	if err := utils.Sleep(ctx, p.Delay); err != nil {
		return stateDone, err
	}
	return stateExpanding, nil
}
