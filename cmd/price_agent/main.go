package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "price_agent",
	Short: "Reconcile supplier price feeds against a Shopify catalog",
	Long: `price_agent merges wholesale supplier feeds into a merchant catalog,
computes resale prices bounded by competitor pricing, and pushes the result
to Shopify as one bulk update job.`,
}

func main() {
	// Load .env file if present (ignore errors, env vars may be set directly)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
