package shopify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/price-agent/internal/types"
)

// catalogPageSize is the GraphQL page size for the products query.
const catalogPageSize = 250

const productsQuery = `
query getProducts($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    edges {
      node {
        id
        title
        handle
        variants(first: 1) {
          edges {
            node {
              barcode
            }
          }
        }
        competitorLookup: metafield(namespace: "custom", key: "hotline_href") {
          value
        }
        productSku: metafield(namespace: "custom", key: "product_number_1") {
          value
        }
        altPartNumber: metafield(namespace: "custom", key: "alternative_part_number") {
          value
        }
        competitorFloor: metafield(namespace: "custom", key: "competitor_minimum_price") {
          value
        }
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

type metafieldValue struct {
	Value string `json:"value"`
}

type productsPage struct {
	Products struct {
		Edges []struct {
			Node struct {
				ID       string `json:"id"`
				Title    string `json:"title"`
				Handle   string `json:"handle"`
				Variants struct {
					Edges []struct {
						Node struct {
							Barcode string `json:"barcode"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"variants"`
				CompetitorLookup *metafieldValue `json:"competitorLookup"`
				ProductSKU       *metafieldValue `json:"productSku"`
				AltPartNumber    *metafieldValue `json:"altPartNumber"`
				CompetitorFloor  *metafieldValue `json:"competitorFloor"`
			} `json:"node"`
		} `json:"edges"`
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
	} `json:"products"`
}

func metafield(m *metafieldValue) string {
	if m == nil {
		return ""
	}
	return m.Value
}

// FetchCatalog pages through the store's product list and maps each product
// to a CatalogItem. The first variant's barcode is the part number. An empty
// catalog is a fatal error: a run against nothing would only mask a broken
// store connection.
func (c *Client) FetchCatalog(ctx context.Context) ([]types.CatalogItem, error) {
	var items []types.CatalogItem
	var cursor *string

	for {
		variables := map[string]any{"first": catalogPageSize}
		if cursor != nil {
			variables["after"] = *cursor
		}

		var page productsPage
		if err := c.execute(ctx, "products", productsQuery, variables, &page); err != nil {
			return nil, err
		}

		for _, edge := range page.Products.Edges {
			node := edge.Node

			partNumber := ""
			if len(node.Variants.Edges) > 0 {
				partNumber = node.Variants.Edges[0].Node.Barcode
			}

			item := types.CatalogItem{
				ID:                  node.ID,
				Title:               node.Title,
				Handle:              node.Handle,
				PartNumber:          partNumber,
				AltPartNumber:       metafield(node.AltPartNumber),
				SKU:                 metafield(node.ProductSKU),
				CompetitorLookupURL: metafield(node.CompetitorLookup),
			}

			if raw := strings.TrimSpace(metafield(node.CompetitorFloor)); raw != "" {
				if floor, err := strconv.ParseFloat(raw, 64); err == nil && floor > 0 {
					item.CompetitorFloorPrice = &floor
				}
			}

			items = append(items, item)
		}

		fmt.Printf("Fetched %d products from Shopify\n", len(items))

		if !page.Products.PageInfo.HasNextPage {
			break
		}
		endCursor := page.Products.PageInfo.EndCursor
		cursor = &endCursor
	}

	if len(items) == 0 {
		return nil, errors.New("no products found in the store catalog")
	}

	return items, nil
}
