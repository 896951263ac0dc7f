package summary

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cache", "summary.png")
	ts := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	err := NewRenderer().Render(Data{
		TotalCountries: 3,
		Top: []Entry{
			{Name: "France", EstimatedGDP: 2_500_000_000},
			{Name: "Brazil", EstimatedGDP: 1_200_000_000},
		},
		Timestamp: &ts,
	}, out)
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Greater(t, len(raw), 8)
	assert.Equal(t, "\x89PNG\r\n\x1a\n", string(raw[:8]))
}

func TestRenderEmptyDataset(t *testing.T) {
	out := filepath.Join(t.TempDir(), "summary.png")

	// No rows and no timestamp still yields a valid image.
	require.NoError(t, NewRenderer().Render(Data{}, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
