// Package types provides type definitions for structured data used throughout the price-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// CatalogItem represents one product fetched from the merchant catalog.
// Identity is the platform id; items are immutable once fetched.
type CatalogItem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Handle        string `json:"handle"`
	PartNumber    string `json:"part_number"`
	AltPartNumber string `json:"alt_part_number,omitempty"`
	SKU           string `json:"sku,omitempty"`

	// CompetitorLookupURL is the page probed for competitor pricing.
	// Empty means the item is never probed.
	CompetitorLookupURL string `json:"competitor_lookup_url,omitempty"`

	// CompetitorFloorPrice is an explicit competitor minimum maintained as a
	// catalog metafield. Nil when the metafield is unset or unparseable.
	CompetitorFloorPrice *float64 `json:"competitor_floor_price,omitempty"`
}
