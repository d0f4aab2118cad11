package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestBulkLineSchema_ValidJSON(t *testing.T) {
	var v interface{}
	err := json.Unmarshal([]byte(BulkLine), &v)
	assert.NoError(t, err, "embedded schema should be valid JSON")
}

func TestBulkLineSchema_Compiles(t *testing.T) {
	_, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(BulkLine))
	require.NoError(t, err, "embedded schema should compile")
}

func TestBulkLineSchema_AcceptsWellFormedLine(t *testing.T) {
	line := `{
		"input": {
			"id": "gid://shopify/Product/1",
			"title": "Compressor X",
			"variants": [{
				"price": "215",
				"barcode": "ABC-1",
				"sku": "SKU-1^acme",
				"inventoryManagement": "SHOPIFY",
				"inventoryQuantities": {
					"availableQuantity": 12,
					"locationId": "gid://shopify/Location/97195786556"
				},
				"inventoryItem": { "cost": "100" }
			}],
			"metafields": [
				{ "namespace": "custom", "key": "delta", "value": "126", "type": "number_integer" },
				{ "namespace": "custom", "key": "warranty", "value": "12m", "type": "single_line_text_field" }
			]
		}
	}`

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(BulkLine), gojsonschema.NewStringLoader(line))
	require.NoError(t, err)
	assert.True(t, result.Valid(), "errors: %v", result.Errors())
}

func TestBulkLineSchema_RejectsNonIntegerPrice(t *testing.T) {
	line := `{
		"input": {
			"id": "gid://shopify/Product/1",
			"title": "Compressor X",
			"variants": [{
				"price": "215.50",
				"barcode": "ABC-1",
				"sku": "SKU-1^acme",
				"inventoryManagement": "SHOPIFY",
				"inventoryQuantities": {
					"availableQuantity": 12,
					"locationId": "gid://shopify/Location/97195786556"
				},
				"inventoryItem": { "cost": "100" }
			}],
			"metafields": [
				{ "namespace": "custom", "key": "delta", "value": "126", "type": "number_integer" },
				{ "namespace": "custom", "key": "warranty", "value": "12m", "type": "single_line_text_field" }
			]
		}
	}`

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(BulkLine), gojsonschema.NewStringLoader(line))
	require.NoError(t, err)
	assert.False(t, result.Valid())
}
