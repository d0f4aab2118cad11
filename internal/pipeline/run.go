// Package pipeline provides the high-level orchestration for one price
// reconciliation run: aggregate supplier offers, reconcile them against the
// catalog, price every item, probe competitor prices, resolve final prices,
// and push the result as a bulk update job.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/price-agent/internal/config"
	"github.com/jonathan/price-agent/internal/observability"
	"github.com/jonathan/price-agent/internal/pricing"
	"github.com/jonathan/price-agent/internal/probe"
	"github.com/jonathan/price-agent/internal/reconcile"
	"github.com/jonathan/price-agent/internal/retry"
	"github.com/jonathan/price-agent/internal/shopify"
	"github.com/jonathan/price-agent/internal/supplier"
	"github.com/jonathan/price-agent/internal/types"
)

// PlatformClient is the catalog platform surface the pipeline needs.
// *shopify.Client satisfies it; tests substitute a fake.
type PlatformClient interface {
	FetchCatalog(ctx context.Context) ([]types.CatalogItem, error)
	RunBulkUpdate(ctx context.Context, lines []string, opts shopify.BulkOptions) (types.BulkJob, error)
}

// RunOptions holds everything one pipeline run needs.
type RunOptions struct {
	Config   *config.Config
	Sources  []supplier.Source
	Strategy *pricing.StrategyTable
	Platform PlatformClient

	// Navigator overrides the probe browser; nil launches a real headless
	// browser unless probing is disabled.
	Navigator probe.Navigator

	// ProbeDelay and PollSleep are injectable waits for tests.
	ProbeDelay probe.DelayFunc
	PollSleep  retry.SleepFunc
}

// RunPipeline executes the full batch run and returns the terminal bulk job.
// Every stage consumes the complete output of the previous stage; there is
// no stage overlap and no mid-flight cancellation beyond ctx.
func RunPipeline(ctx context.Context, opts RunOptions) (types.BulkJob, error) {
	cfg := opts.Config
	printer := observability.NewPrinter(os.Stdout)

	fmt.Println("Step 1/7: Fetching catalog items...")
	items, err := opts.Platform.FetchCatalog(ctx)
	if err != nil {
		return types.BulkJob{}, &StageError{Stage: StageCatalog, Cause: err}
	}

	fmt.Printf("Step 2/7: Aggregating offers from %d suppliers...\n", len(opts.Sources))
	offers, err := supplier.Aggregate(ctx, opts.Sources)
	if err != nil {
		return types.BulkJob{}, &StageError{Stage: StageAggregate, Cause: err}
	}
	fmt.Printf("Aggregated %d offers\n", len(offers))

	fmt.Println("Step 3/7: Reconciling catalog against offers...")
	merged := reconcile.Merge(items, offers)
	if cfg.Verbose {
		printer.PrintMergeStats(merged)
	}

	fmt.Println("Step 4/7: Computing price bounds...")
	points := make([]*types.PricePoints, len(merged))
	for i, item := range merged {
		points[i] = opts.Strategy.PricePoints(item.BestOffer)
	}

	observations := make([]types.CompetitorObservation, len(merged))
	if cfg.DisableProbing {
		fmt.Println("Step 5/7: Competitor probing disabled, skipping...")
	} else {
		fmt.Println("Step 5/7: Probing competitor prices...")
		navigator := opts.Navigator
		if navigator == nil {
			browser, err := probe.StartBrowser(ctx, probe.BrowserOptions{
				NavTimeout: cfg.NavTimeout,
				Verbose:    cfg.Verbose,
				Delay:      opts.ProbeDelay,
			})
			if err != nil {
				return types.BulkJob{}, &StageError{Stage: StageProbe, Cause: err}
			}
			defer browser.Close()
			navigator = browser
		}

		prober := probe.NewProber(navigator, probe.Options{
			Selector:  cfg.PriceSelector,
			BatchSize: cfg.ProbeBatchSize,
			Verbose:   cfg.Verbose,
			Delay:     opts.ProbeDelay,
		})
		observations = prober.ProbeAll(ctx, merged)
	}

	fmt.Println("Step 6/7: Resolving final prices...")
	resolved := make([]types.ResolvedItem, len(merged))
	for i, item := range merged {
		resolved[i] = types.ResolvedItem{
			MergedItem: item,
			Points:     points[i],
			Competitor: observations[i],
			FinalPrice: pricing.ResolveFinalPrice(item.BestOffer, observations[i], item.CompetitorFloorPrice, points[i]),
		}
	}
	if cfg.Verbose {
		printer.PrintResolvedSummary(resolved)
	}

	fmt.Println("Step 7/7: Submitting bulk update...")
	lines, err := shopify.BuildBulkLines(resolved, shopify.PayloadOptions{
		LocationID:           cfg.LocationID,
		DeltaExclusionMarker: cfg.DeltaExclusionMarker,
	})
	if err != nil {
		return types.BulkJob{}, &StageError{Stage: StageSerialize, Cause: err}
	}

	job, err := opts.Platform.RunBulkUpdate(ctx, lines, shopify.BulkOptions{
		PollInterval: cfg.PollInterval,
		MaxAttempts:  cfg.MaxPollAttempts,
		Sleep:        opts.PollSleep,
	})
	if err != nil {
		return job, &StageError{Stage: StageSync, Cause: err}
	}
	if cfg.Verbose {
		printer.PrintBulkJob(job)
	}

	return job, nil
}
