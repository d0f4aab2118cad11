package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/jonathan/price-agent/internal/config"
	"github.com/jonathan/price-agent/internal/pipeline"
	"github.com/jonathan/price-agent/internal/pricing"
	"github.com/jonathan/price-agent/internal/shopify"
	"github.com/jonathan/price-agent/internal/supplier"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full price reconciliation pipeline end-to-end",
	Long: `Orchestrates the entire batch run: catalog fetch -> offer aggregation ->
reconciliation -> price bounds -> competitor probing -> resolution -> bulk sync.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values. Store credentials fall back to the
SHOPIFY_STORE_URL and SHOPIFY_ACCESS_TOKEN environment variables.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath      string
	runStoreURL        string
	runAccessToken     string
	runAPIVersion      string
	runLocationID      string
	runPriceSelector   string
	runProbeBatchSize  int
	runNavTimeoutSecs  int
	runDisableProbing  bool
	runPollSecs        int
	runMaxPollAttempts int
	runExclusionMarker string
	runOffers          []string
	runVerbose         bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVar(&runStoreURL, "store-url", "", "Shopify store URL (defaults to SHOPIFY_STORE_URL env var)")
	runCommand.Flags().StringVar(&runAccessToken, "access-token", "", "Shopify Admin API access token (defaults to SHOPIFY_ACCESS_TOKEN env var)")
	runCommand.Flags().StringVar(&runAPIVersion, "api-version", "", "Shopify Admin API version")
	runCommand.Flags().StringVar(&runLocationID, "location-id", "", "Inventory location GID for stock updates")
	runCommand.Flags().StringVar(&runPriceSelector, "price-selector", "", "CSS selector for competitor price nodes")
	runCommand.Flags().IntVar(&runProbeBatchSize, "probe-batch-size", 0, "Items probed per batch")
	runCommand.Flags().IntVar(&runNavTimeoutSecs, "nav-timeout-secs", 0, "Per-page navigation timeout in seconds")
	runCommand.Flags().BoolVar(&runDisableProbing, "disable-probing", false, "Skip competitor probing (prices fall back to the max bound)")
	runCommand.Flags().IntVar(&runPollSecs, "poll-interval-secs", 0, "Bulk job poll interval in seconds")
	runCommand.Flags().IntVar(&runMaxPollAttempts, "max-poll-attempts", 0, "Bulk job poll attempts before timing out")
	runCommand.Flags().StringVar(&runExclusionMarker, "delta-exclusion-marker", "", "Supplier-name substring that triggers the delta offset")
	runCommand.Flags().StringArrayVar(&runOffers, "offers", nil, "Supplier feed as name=path (repeatable, overrides config sources)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("store-url") {
		cfg.StoreURL = runStoreURL
	}
	if cmd.Flags().Changed("access-token") {
		cfg.AccessToken = runAccessToken
	}
	if cmd.Flags().Changed("api-version") {
		cfg.APIVersion = runAPIVersion
	}
	if cmd.Flags().Changed("location-id") {
		cfg.LocationID = runLocationID
	}
	if cmd.Flags().Changed("price-selector") {
		cfg.PriceSelector = runPriceSelector
	}
	if cmd.Flags().Changed("probe-batch-size") {
		cfg.ProbeBatchSize = runProbeBatchSize
	}
	if cmd.Flags().Changed("nav-timeout-secs") {
		cfg.NavTimeoutSecs = runNavTimeoutSecs
		cfg.NavTimeout = time.Duration(runNavTimeoutSecs) * time.Second
	}
	if cmd.Flags().Changed("disable-probing") {
		cfg.DisableProbing = runDisableProbing
	}
	if cmd.Flags().Changed("poll-interval-secs") {
		cfg.PollIntervalSecs = runPollSecs
		cfg.PollInterval = time.Duration(runPollSecs) * time.Second
	}
	if cmd.Flags().Changed("max-poll-attempts") {
		cfg.MaxPollAttempts = runMaxPollAttempts
	}
	if cmd.Flags().Changed("delta-exclusion-marker") {
		cfg.DeltaExclusionMarker = runExclusionMarker
	}
	if cmd.Flags().Changed("offers") {
		sources, err := parseOfferFlags(runOffers)
		if err != nil {
			return err
		}
		cfg.Sources = sources
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	// Step 3: Environment fallbacks for credentials
	if cfg.StoreURL == "" {
		cfg.StoreURL = os.Getenv("SHOPIFY_STORE_URL")
	}
	if cfg.AccessToken == "" {
		cfg.AccessToken = os.Getenv("SHOPIFY_ACCESS_TOKEN")
	}

	// Step 4: Apply defaults for unset values, then validate
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 5: Validate required fields
	if cfg.StoreURL == "" {
		return fmt.Errorf("SHOPIFY_STORE_URL environment variable or --store-url flag is required")
	}
	if cfg.AccessToken == "" {
		return fmt.Errorf("SHOPIFY_ACCESS_TOKEN environment variable or --access-token flag is required")
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("at least one supplier feed is required (via --offers or config sources)")
	}

	strategy, err := pricing.NewStrategyTable(cfg.AggressiveSuppliers, cfg.PremiumSuppliers)
	if err != nil {
		return err
	}

	client, err := shopify.NewClient(shopify.ClientOptions{
		StoreURL:    cfg.StoreURL,
		AccessToken: cfg.AccessToken,
		APIVersion:  cfg.APIVersion,
		Verbose:     cfg.Verbose,
	})
	if err != nil {
		return err
	}

	sources := lo.Map(cfg.Sources, func(src config.SourceConfig, _ int) supplier.Source {
		return supplier.FileSource(supplier.FileSourceConfig{
			Name:                src.Name,
			Path:                src.Path,
			NormalizationFactor: src.NormalizationFactor,
			MinCount:            src.MinCount,
		})
	})

	_, err = pipeline.RunPipeline(ctx, pipeline.RunOptions{
		Config:   &cfg,
		Sources:  sources,
		Strategy: strategy,
		Platform: client,
	})
	return err
}

// parseOfferFlags turns repeated name=path flags into source configs.
func parseOfferFlags(flags []string) ([]config.SourceConfig, error) {
	sources := make([]config.SourceConfig, 0, len(flags))
	for _, raw := range flags {
		name, path, ok := strings.Cut(raw, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid --offers value %q, expected name=path", raw)
		}
		sources = append(sources, config.SourceConfig{Name: name, Path: path})
	}
	return sources, nil
}
