package supplier

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOffersFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "offers.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSource_ReadsOffers(t *testing.T) {
	path := writeOffersFile(t, `[
		{"part_number": "abc-1", "wholesale_price": 100, "instock": 2, "warranty": "12m"},
		{"part_number": "abc-2", "wholesale_price": 250, "instock": 0}
	]`)

	source := FileSource(FileSourceConfig{Name: "acme", Path: path})
	assert.Equal(t, "acme", source.Name)

	offers, err := source.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, "abc-1", offers[0].PartNumber)
	assert.InDelta(t, 100.0, offers[0].WholesalePrice, 1e-9)
	assert.Equal(t, 2, offers[0].InStock)
	assert.Equal(t, "12m", offers[0].Warranty)
}

func TestFileSource_MissingFile(t *testing.T) {
	source := FileSource(FileSourceConfig{Name: "acme", Path: "/nonexistent/offers.json"})

	_, err := source.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read offers file")
}

func TestFileSource_MalformedJSON(t *testing.T) {
	path := writeOffersFile(t, `{"not": "an array"`)

	source := FileSource(FileSourceConfig{Name: "acme", Path: path})

	_, err := source.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse offers file")
}

func TestFileSource_MinCountGuard(t *testing.T) {
	path := writeOffersFile(t, `[{"part_number": "abc-1", "wholesale_price": 100}]`)

	source := FileSource(FileSourceConfig{Name: "acme", Path: path, MinCount: 50})

	_, err := source.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "less than 50 offers found from acme")
}
