// Package browser is a thin automation driver over the Chrome DevTools
// protocol, aimed at remote browser providers (a token-bearing WebSocket
// debugger URL). It covers just what a solve flow needs: navigate, read
// attributes, fill fields, click, and wait for navigation.
package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Session is a connection to a remote browser instance.
type Session struct {
	allocCtx context.Context
	cancel   context.CancelFunc
}

// Connect attaches to a remote browser over the DevTools protocol.
// endpoint is the WebSocket debugger URL, token included if the provider
// requires one (e.g. wss://chrome.example.io?token=...).
func Connect(ctx context.Context, endpoint string) (*Session, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("browser: empty endpoint")
	}
	allocCtx, cancel := chromedp.NewRemoteAllocator(ctx, endpoint)
	return &Session{allocCtx: allocCtx, cancel: cancel}, nil
}

// Close releases the session and every page opened from it.
func (s *Session) Close() error {
	s.cancel()
	return nil
}

// Page is a single browser tab.
type Page struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPage opens a new tab. The WebSocket dial happens here, so connection
// problems with the remote endpoint surface from this call; ctx bounds the
// dial, the page itself lives until Close.
func (s *Session) NewPage(ctx context.Context) (*Page, error) {
	pctx, cancel := chromedp.NewContext(s.allocCtx)

	dialed := make(chan error, 1)
	go func() { dialed <- chromedp.Run(pctx) }()

	select {
	case err := <-dialed:
		if err != nil {
			cancel()
			return nil, fmt.Errorf("browser: attach page: %w", err)
		}
	case <-ctx.Done():
		cancel()
		return nil, fmt.Errorf("browser: attach page: %w", ctx.Err())
	}
	return &Page{ctx: pctx, cancel: cancel}, nil
}

// Close closes the tab.
func (p *Page) Close() error {
	p.cancel()
	return nil
}

// Navigate loads url and waits until the document is ready.
func (p *Page) Navigate(url string) error {
	err := chromedp.Run(p.ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	return nil
}

// Attribute reads an attribute from the first element matching selector.
func (p *Page) Attribute(selector, name string) (string, error) {
	var value string
	var ok bool
	err := chromedp.Run(p.ctx,
		chromedp.AttributeValue(selector, name, &value, &ok, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("browser: attribute %s of %s: %w", name, selector, err)
	}
	if !ok {
		return "", fmt.Errorf("browser: %s has no %s attribute", selector, name)
	}
	return value, nil
}

// SetFieldValue sets the value of the element with the given DOM id and
// dispatches input and change events so framework listeners notice. It works
// on hidden elements, which is what CAPTCHA response fields usually are.
func (p *Page) SetFieldValue(id, value string) error {
	expr := fmt.Sprintf(`(function(id, value) {
		const el = document.getElementById(id);
		if (!el) throw new Error("no element with id " + id);
		el.value = value;
		el.dispatchEvent(new Event("input", { bubbles: true }));
		el.dispatchEvent(new Event("change", { bubbles: true }));
	})(%s, %s)`, jsString(id), jsString(value))

	if err := chromedp.Run(p.ctx, chromedp.Evaluate(expr, nil)); err != nil {
		return fmt.Errorf("browser: set field %s: %w", id, err)
	}
	return nil
}

// Click clicks the first visible element matching selector.
func (p *Page) Click(selector string) error {
	err := chromedp.Run(p.ctx,
		chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible),
	)
	if err != nil {
		return fmt.Errorf("browser: click %s: %w", selector, err)
	}
	return nil
}

// WaitForNavigation blocks until the page fires its next load event or ctx
// expires. Register interest before triggering the navigation when exact
// event ordering matters; see SubmitSolution for the pattern.
func (p *Page) WaitForNavigation(ctx context.Context) error {
	loaded, stop := p.loadSignal()
	defer stop()

	select {
	case <-loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CurrentURL returns the page's current location.
func (p *Page) CurrentURL() (string, error) {
	var url string
	if err := chromedp.Run(p.ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("browser: location: %w", err)
	}
	return url, nil
}

// Content returns the page's rendered HTML.
func (p *Page) Content() (string, error) {
	var html string
	if err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("browser: content: %w", err)
	}
	return html, nil
}

// loadSignal subscribes to the tab's load events. The returned channel
// receives once per load; stop unsubscribes.
func (p *Page) loadSignal() (<-chan struct{}, context.CancelFunc) {
	ch := make(chan struct{}, 1)
	lctx, stop := context.WithCancel(p.ctx)
	chromedp.ListenTarget(lctx, func(ev any) {
		if _, ok := ev.(*page.EventLoadEventFired); ok {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	})
	return ch, stop
}

// jsString embeds s into a JS expression as a quoted string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
