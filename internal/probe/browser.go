package probe

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// identities is the pool of browser fingerprints rotated across lookups.
// All are current desktop Chrome builds so the fingerprint stays plausible.
var identities = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
}

// pickIdentity returns a random user agent from the rotation pool.
func pickIdentity() string {
	return identities[rand.Intn(len(identities))]
}

// extraHeaders accompany every navigation so requests resemble a real
// browsing session rather than a bare automated fetch.
var extraHeaders = network.Headers{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "uk-UA,uk;q=0.9,en-US;q=0.8,en;q=0.7",
	"Cache-Control":             "no-cache",
	"Upgrade-Insecure-Requests": "1",
}

// Browser is a chromedp-backed Navigator. One allocator and browser process
// live for the whole run; each lookup gets its own isolated tab context that
// is always torn down, so a crashed page never poisons the next one.
type Browser struct {
	navTimeout time.Duration
	verbose    bool
	delay      DelayFunc

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// BrowserOptions configures a Browser session.
type BrowserOptions struct {
	NavTimeout time.Duration
	Verbose    bool

	// Delay overrides the pre-navigation jitter; nil uses randomized defaults.
	Delay DelayFunc
}

// StartBrowser launches the long-lived headless browser session.
// Close must be called when the run finishes.
func StartBrowser(ctx context.Context, opts BrowserOptions) (*Browser, error) {
	navTimeout := opts.NavTimeout
	if navTimeout <= 0 {
		navTimeout = 60 * time.Second
	}
	delay := opts.Delay
	if delay == nil {
		delay = defaultDelay
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.Flag("disable-infobars", true),
			chromedp.Flag("lang", "uk-UA"),
		)...,
	)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Spin the browser process up front so a broken Chrome install fails
	// the run immediately instead of on the first lookup.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Browser{
		navTimeout:    navTimeout,
		verbose:       opts.Verbose,
		delay:         delay,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close tears down the browser process and its allocator.
func (b *Browser) Close() {
	b.browserCancel()
	b.allocCancel()
}

// FetchRenderedHTML opens a fresh tab, navigates to url with a rotated
// identity, lets the page settle, and returns the rendered HTML.
func (b *Browser) FetchRenderedHTML(ctx context.Context, url string) (string, error) {
	// Fresh tab per lookup, torn down no matter how navigation ends.
	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	defer cancel()

	tabCtx, cancel = context.WithTimeout(tabCtx, b.navTimeout)
	defer cancel()

	userAgent := pickIdentity()
	if b.verbose {
		log.Printf("[BROWSER] Navigating to %s as %q", url, userAgent)
	}

	// Small pause before navigating so lookups are not metronomic.
	if err := b.delay(ctx, 500*time.Millisecond, 2*time.Second); err != nil {
		return "", err
	}

	var html string
	err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(extraHeaders),
		emulation.SetUserAgentOverride(userAgent),
		chromedp.EmulateViewport(1366, 768),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(2*time.Second),
		// Scroll a bit so lazy-loaded price blocks render.
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight / 3)`, nil),
		chromedp.Sleep(1*time.Second),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight / 2)`, nil),
		chromedp.Sleep(1*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if b.verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}

	return html, nil
}
