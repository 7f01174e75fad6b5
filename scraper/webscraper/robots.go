package webscraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// RobotsChecker answers whether a URL may be fetched according to the
// robots.txt of its host. Files are fetched once per host.
type RobotsChecker struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	cache map[string]*robotstxt.Group
}

func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = "*"
	}
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		cache:     make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether rawURL may be fetched. An unreachable or
// unparsable robots.txt allows everything.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse url %s: %w", rawURL, err)
	}

	group := r.group(ctx, u)
	if group == nil {
		return true, nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path), nil
}

func (r *RobotsChecker) group(ctx context.Context, u *url.URL) *robotstxt.Group {
	r.mu.Lock()
	defer r.mu.Unlock()

	if group, ok := r.cache[u.Host]; ok {
		return group
	}

	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	var group *robotstxt.Group

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err == nil {
		var resp *http.Response
		resp, err = r.client.Do(req)
		if err == nil {
			defer resp.Body.Close()
			var data *robotstxt.RobotsData
			data, err = robotstxt.FromResponse(resp)
			if err == nil {
				group = data.FindGroup(r.userAgent)
			}
		}
	}
	if err != nil {
		slog.Debug("robots.txt unavailable, allowing all", slog.String("url", robotsURL), slog.Any("error", err))
		if ctx.Err() != nil {
			return nil
		}
	}

	r.cache[u.Host] = group
	return group
}
