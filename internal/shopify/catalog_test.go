package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productNode(id, title, barcode, lookup, sku, alt, floor string) string {
	node := fmt.Sprintf(`{
		"id": %q, "title": %q, "handle": "h",
		"variants": {"edges": [{"node": {"barcode": %q}}]},
		"competitorLookup": {"value": %q},
		"productSku": {"value": %q},
		"altPartNumber": {"value": %q}`, id, title, barcode, lookup, sku, alt)
	if floor != "" {
		node += fmt.Sprintf(`, "competitorFloor": {"value": %q}`, floor)
	} else {
		node += `, "competitorFloor": null`
	}
	return node + "}"
}

func TestFetchCatalog_PagesUntilExhausted(t *testing.T) {
	page := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(250), req.Variables["first"])

		page++
		switch page {
		case 1:
			assert.Nil(t, req.Variables["after"])
			fmt.Fprintf(w, `{"data":{"products":{"edges":[{"node":%s}],
				"pageInfo":{"hasNextPage":true,"endCursor":"cur-1"}}}}`,
				productNode("gid://shopify/Product/1", "First", "ABC-1", "https://hotline.ua/p/1", "SKU-1", "ALT-1", "1500"))
		case 2:
			assert.Equal(t, "cur-1", req.Variables["after"])
			fmt.Fprintf(w, `{"data":{"products":{"edges":[{"node":%s}],
				"pageInfo":{"hasNextPage":false,"endCursor":"cur-2"}}}}`,
				productNode("gid://shopify/Product/2", "Second", "ABC-2", "", "", "", ""))
		default:
			t.Fatalf("unexpected page %d", page)
		}
	}))

	items, err := client.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, page)

	first := items[0]
	assert.Equal(t, "gid://shopify/Product/1", first.ID)
	assert.Equal(t, "ABC-1", first.PartNumber)
	assert.Equal(t, "https://hotline.ua/p/1", first.CompetitorLookupURL)
	assert.Equal(t, "SKU-1", first.SKU)
	assert.Equal(t, "ALT-1", first.AltPartNumber)
	require.NotNil(t, first.CompetitorFloorPrice)
	assert.InDelta(t, 1500.0, *first.CompetitorFloorPrice, 1e-9)

	second := items[1]
	assert.Equal(t, "ABC-2", second.PartNumber)
	assert.Nil(t, second.CompetitorFloorPrice)
}

func TestFetchCatalog_UnparseableFloorIgnored(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"data":{"products":{"edges":[{"node":%s}],
			"pageInfo":{"hasNextPage":false,"endCursor":""}}}}`,
			productNode("gid://shopify/Product/1", "First", "ABC-1", "", "", "", "n/a"))
	}))

	items, err := client.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].CompetitorFloorPrice)
}

func TestFetchCatalog_MissingVariantMeansEmptyPartNumber(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"products":{"edges":[{"node":{
			"id":"gid://shopify/Product/1","title":"NoVariant","handle":"h",
			"variants":{"edges":[]}}}],
			"pageInfo":{"hasNextPage":false,"endCursor":""}}}}`))
	}))

	items, err := client.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "", items[0].PartNumber)
}

func TestFetchCatalog_EmptyCatalogIsFatal(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"products":{"edges":[],
			"pageInfo":{"hasNextPage":false,"endCursor":""}}}}`))
	}))

	_, err := client.FetchCatalog(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no products")
}
