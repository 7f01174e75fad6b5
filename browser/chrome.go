package browser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// ChromeOptions configures the browser launched by NewChrome.
type ChromeOptions struct {
	Headless bool
	// UserAgent overrides the browser's own user agent when set.
	UserAgent string
}

// launchFlags returns the Chrome command-line switches for a session.
func launchFlags(opts ChromeOptions) map[string]interface{} {
	// the load-more control sits below the fold on narrow windows, hence
	// the fixed window size
	flags := map[string]interface{}{
		"no-first-run":             true,
		"no-default-browser-check": true,
		"no-sandbox":               true,
		"disable-dev-shm-usage":    true,
		"disable-gpu":              true,
		"window-size":              "1920,1080",
	}

	if opts.UserAgent != "" {
		flags["user-agent"] = opts.UserAgent
	}
	if opts.Headless {
		flags["headless"] = "new"
	}
	return flags
}

// AllocatorOptions returns the chromedp launch options for a scraping session,
// sorted by flag name.
func AllocatorOptions(opts ChromeOptions) []chromedp.ExecAllocatorOption {
	flags := launchFlags(opts)

	names := make([]string, 0, len(flags))
	for name := range flags {
		names = append(names, name)
	}
	sort.Strings(names)

	allocOpts := make([]chromedp.ExecAllocatorOption, 0, len(names))
	for _, name := range names {
		allocOpts = append(allocOpts, chromedp.Flag(name, flags[name]))
	}
	return allocOpts
}

// Chrome drives a single Chrome tab through chromedp.
type Chrome struct {
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	closeOnce   sync.Once
	closeErr    error
}

// NewChrome launches Chrome and opens the tab every call will run in.
func NewChrome(opts ChromeOptions) (*Chrome, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), AllocatorOptions(opts)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// an empty Run starts the browser, so launch failures surface here
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	return &Chrome{
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}, nil
}

// run executes actions on the tab while honoring cancellation and the
// deadline of the caller's ctx.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancelCause(c.tabCtx)
	defer cancel(nil)

	stop := context.AfterFunc(ctx, func() {
		cancel(context.Cause(ctx))
	})
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}

	return chromedp.Run(runCtx, actions...)
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	if err := c.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (c *Chrome) FindElement(ctx context.Context, selector string) (Element, error) {
	return c.findOne(ctx, selector, nil)
}

func (c *Chrome) FindElements(ctx context.Context, selector string) ([]Element, error) {
	return c.findAll(ctx, selector, nil)
}

func (c *Chrome) WaitClickable(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var nodes []*cdp.Node
	err := c.run(waitCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.WaitEnabled(selector, chromedp.ByQuery),
		chromedp.Nodes(selector, &nodes, chromedp.ByQuery),
	)
	if err != nil {
		// Only our own wait deadline means "never became clickable". If the
		// caller's ctx is done too, the run was cancelled or ran out of time
		// and the paginator has to see that error, not a timeout.
		if ctx.Err() == nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", ErrTimeout, selector, timeout)
		}
		return nil, fmt.Errorf("wait for %s: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, selector)
	}
	return &chromeElement{chrome: c, node: nodes[0]}, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (c *Chrome) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = chromedp.Cancel(c.tabCtx)
		c.tabCancel()
		c.allocCancel()
	})
	return c.closeErr
}

func (c *Chrome) findAll(ctx context.Context, selector string, root *cdp.Node) ([]Element, error) {
	// chromedp's default is AtLeast(1), which polls until a node shows up.
	// A banner or field that is simply absent would then block until the
	// ctx deadline, so the query returns whatever is there right now.
	opts := []chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}
	if root != nil {
		opts = append(opts, chromedp.FromNode(root))
	}

	var nodes []*cdp.Node
	if err := c.run(ctx, chromedp.Nodes(selector, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}

	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromeElement{chrome: c, node: n})
	}
	return elements, nil
}

func (c *Chrome) findOne(ctx context.Context, selector string, root *cdp.Node) (Element, error) {
	elements, err := c.findAll(ctx, selector, root)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, selector)
	}
	return elements[0], nil
}

type chromeElement struct {
	chrome *Chrome
	node   *cdp.Node
}

func (e *chromeElement) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *chromeElement) FindElement(ctx context.Context, selector string) (Element, error) {
	return e.chrome.findOne(ctx, selector, e.node)
}

func (e *chromeElement) FindElements(ctx context.Context, selector string) ([]Element, error) {
	return e.chrome.findAll(ctx, selector, e.node)
}

func (e *chromeElement) Click(ctx context.Context) error {
	if err := e.chrome.run(ctx, chromedp.Click(e.ids(), chromedp.ByNodeID)); err != nil {
		return fmt.Errorf("click <%s>: %w", strings.ToLower(e.node.NodeName), err)
	}
	return nil
}

func (e *chromeElement) Attribute(ctx context.Context, name string) (string, error) {
	var (
		value string
		ok    bool
	)
	if err := e.chrome.run(ctx, chromedp.AttributeValue(e.ids(), name, &value, &ok, chromedp.ByNodeID)); err != nil {
		return "", fmt.Errorf("read attribute %q: %w", name, err)
	}
	if !ok {
		return "", nil
	}
	return value, nil
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	if err := e.chrome.run(ctx, chromedp.Text(e.ids(), &text, chromedp.ByNodeID)); err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return strings.TrimSpace(text), nil
}
