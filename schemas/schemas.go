// Package schemas embeds the JSON Schemas that external payloads are
// validated against before leaving the process.
package schemas

import _ "embed"

// BulkLine is the schema for one line of the bulk update JSONL payload.
//
//go:embed bulk_line.schema.json
var BulkLine string
