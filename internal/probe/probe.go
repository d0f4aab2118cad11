// Package probe drives a batched, rate-limited automated-browser session
// that extracts the lowest listed competitor price per catalog item.
//
// Probing is best-effort by design: any navigation or extraction failure
// degrades to an empty observation and the run continues. Final-price
// resolution has an explicit no-data branch for exactly this case.
package probe

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/jonathan/price-agent/internal/types"
)

// Navigator fetches the fully rendered HTML of a page. The production
// implementation drives a headless browser; tests substitute a stub.
type Navigator interface {
	FetchRenderedHTML(ctx context.Context, url string) (string, error)
}

// DelayFunc introduces a randomized pause between actions. Injectable so
// tests run with deterministic zero delays.
type DelayFunc func(ctx context.Context, min, max time.Duration) error

// defaultDelay sleeps a random duration in [min, max], honoring ctx.
func defaultDelay(ctx context.Context, min, max time.Duration) error {
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min + 1)))
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Options configures a Prober.
type Options struct {
	// Selector matches the price-bearing nodes on the competitor page.
	Selector string

	// BatchSize is the number of items processed per sequential batch.
	BatchSize int

	Verbose bool

	// Delay overrides the jitter strategy; nil uses randomized defaults.
	Delay DelayFunc

	// Out receives progress lines; nil uses stdout.
	Out io.Writer
}

// Prober runs the per-item probe state machine over one long-lived browser
// session. Items are processed strictly sequentially: concurrency is capped
// at one browser on purpose to avoid detection and throttling.
type Prober struct {
	nav       Navigator
	selector  string
	batchSize int
	verbose   bool
	delay     DelayFunc
	out       io.Writer
}

// NewProber builds a Prober over the given navigator.
func NewProber(nav Navigator, opts Options) *Prober {
	delay := opts.Delay
	if delay == nil {
		delay = defaultDelay
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 3
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Prober{
		nav:       nav,
		selector:  opts.Selector,
		batchSize: batchSize,
		verbose:   opts.Verbose,
		delay:     delay,
		out:       out,
	}
}

// shouldProbe reports whether an item warrants a competitor lookup: it
// needs both a lookup target and a viable wholesale price.
func shouldProbe(item types.MergedItem) bool {
	return item.CompetitorLookupURL != "" && item.BestOffer != nil
}

// Observe probes one URL and returns the lowest listed price found.
// Every failure path returns an empty observation and the soft error that
// caused it; the caller decides whether to surface it.
func (p *Prober) Observe(ctx context.Context, url string) (types.CompetitorObservation, error) {
	if url == "" {
		return types.CompetitorObservation{}, nil
	}

	html, err := p.nav.FetchRenderedHTML(ctx, url)
	if err != nil {
		return types.CompetitorObservation{}, &ProbeError{URL: url, Message: "navigation failed", Cause: err}
	}

	price, err := ExtractLowestPrice(html, p.selector)
	if err != nil {
		return types.CompetitorObservation{}, &ProbeError{URL: url, Message: "extraction failed", Cause: err}
	}

	return types.CompetitorObservation{Price: price}, nil
}

// ProbeAll processes every merged item in fixed-size sequential batches and
// returns one observation per item, index-aligned with the input. Items
// without a lookup target or best offer are skipped with an empty
// observation.
func (p *Prober) ProbeAll(ctx context.Context, items []types.MergedItem) []types.CompetitorObservation {
	observations := make([]types.CompetitorObservation, len(items))
	totalBatches := (len(items) + p.batchSize - 1) / p.batchSize

	for start := 0; start < len(items); start += p.batchSize {
		end := start + p.batchSize
		if end > len(items) {
			end = len(items)
		}

		fmt.Fprintf(p.out, "Probing batch %d/%d (items %d-%d)\n", start/p.batchSize+1, totalBatches, start+1, end)

		for i := start; i < end; i++ {
			item := items[i]
			if !shouldProbe(item) {
				if p.verbose {
					fmt.Fprintf(p.out, "[VERBOSE] Skipping probe for %s (no lookup target or no best offer)\n", item.Title)
				}
				continue
			}

			fmt.Fprintf(p.out, "Probing competitor price: %s (%s) - [%d/%d]\n", item.Title, item.PartNumber, i+1, len(items))

			observation, err := p.Observe(ctx, item.CompetitorLookupURL)
			if err != nil {
				// Soft failure: price stays unknown, the run continues.
				fmt.Fprintf(p.out, "Warning: competitor probe failed for %s: %v\n", item.Title, err)
			}
			observations[i] = observation

			// Pause between items to look less like automated traffic.
			if err := p.delay(ctx, time.Second, 4*time.Second); err != nil {
				return observations
			}
		}
	}

	return observations
}
