package shopify

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/samber/lo"

	"github.com/jonathan/price-agent/internal/pricing"
	intschemas "github.com/jonathan/price-agent/internal/schemas"
	"github.com/jonathan/price-agent/internal/types"
	"github.com/jonathan/price-agent/schemas"
)

// stockBuffer is added to the supplier's stock level when in stock, so the
// storefront keeps selling while the next feed run is pending.
const stockBuffer = 10

// Wire shape of one bulk update line. Field names are part of the platform
// contract and must not change.
type bulkLine struct {
	Input bulkLineInput `json:"input"`
}

type bulkLineInput struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Variants   []bulkVariant   `json:"variants"`
	Metafields []bulkMetafield `json:"metafields"`
}

type bulkVariant struct {
	Price               string              `json:"price"`
	Barcode             string              `json:"barcode"`
	SKU                 string              `json:"sku"`
	InventoryManagement string              `json:"inventoryManagement"`
	InventoryQuantities inventoryQuantities `json:"inventoryQuantities"`
	InventoryItem       inventoryItem       `json:"inventoryItem"`
}

type inventoryQuantities struct {
	AvailableQuantity int    `json:"availableQuantity"`
	LocationID        string `json:"locationId"`
}

type inventoryItem struct {
	Cost string `json:"cost"`
}

type bulkMetafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

// PayloadOptions parameterizes payload serialization.
type PayloadOptions struct {
	LocationID           string
	DeltaExclusionMarker string
}

// formatWhole renders a price-like value as an integer-formatted string.
func formatWhole(v float64) string {
	return strconv.FormatInt(int64(math.Round(v)), 10)
}

// buildLine maps one resolved item onto the wire shape. Items without a
// best offer degrade to zero price/cost rather than being dropped, matching
// the platform-side expectation that every listed product gets an update.
func buildLine(item types.ResolvedItem, opts PayloadOptions) bulkLine {
	var wholesale float64
	var inStock int
	var warranty string
	if item.BestOffer != nil {
		wholesale = item.BestOffer.WholesalePrice
		inStock = item.BestOffer.InStock
		warranty = item.BestOffer.Warranty
	}

	var finalPrice float64
	if item.FinalPrice != nil {
		finalPrice = *item.FinalPrice
	}

	availableQuantity := 0
	if inStock > 0 {
		availableQuantity = inStock + stockBuffer
	}

	delta := pricing.AdjustedDelta(finalPrice, wholesale, item.BestSupplierName(), opts.DeltaExclusionMarker)

	return bulkLine{
		Input: bulkLineInput{
			ID:    item.ID,
			Title: item.Title,
			Variants: []bulkVariant{{
				Price:               formatWhole(finalPrice),
				Barcode:             item.PartNumber,
				SKU:                 fmt.Sprintf("%s^%s", item.SKU, item.BestSupplierName()),
				InventoryManagement: "SHOPIFY",
				InventoryQuantities: inventoryQuantities{
					AvailableQuantity: availableQuantity,
					LocationID:        opts.LocationID,
				},
				InventoryItem: inventoryItem{Cost: formatWhole(wholesale)},
			}},
			Metafields: []bulkMetafield{
				{Namespace: "custom", Key: "delta", Value: formatWhole(delta), Type: "number_integer"},
				{Namespace: "custom", Key: "warranty", Value: warranty, Type: "single_line_text_field"},
			},
		},
	}
}

// BuildBulkLines serializes resolved items into JSONL lines and validates
// every line against the embedded payload schema. A validation failure is
// fatal: it means the serializer and the platform contract have diverged.
func BuildBulkLines(items []types.ResolvedItem, opts PayloadOptions) ([]string, error) {
	lines := lo.Map(items, func(item types.ResolvedItem, _ int) bulkLine {
		return buildLine(item, opts)
	})

	serialized := make([]string, 0, len(lines))
	for i, line := range lines {
		raw, err := json.Marshal(line)
		if err != nil {
			return nil, fmt.Errorf("serializing line %d (%s): %w", i, line.Input.ID, err)
		}
		if err := intschemas.ValidateJSONString(schemas.BulkLine, string(raw)); err != nil {
			return nil, fmt.Errorf("payload line %d (%s) violates the platform contract: %w", i, line.Input.ID, err)
		}
		serialized = append(serialized, string(raw))
	}

	return serialized, nil
}
