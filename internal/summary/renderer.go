package summary

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fogleman/gg"
)

const (
	imageWidth  = 1200
	imageHeight = 800

	backgroundColor = "#0f1724"
	textColor       = "#ffffff"
	mutedColor      = "#94a3b8"
	barColor        = "#2563eb"
)

// Entry is one top-ranked country on the summary image.
type Entry struct {
	Name         string
	EstimatedGDP float64
}

// Data is everything the summary image shows.
type Data struct {
	TotalCountries int64
	Top            []Entry
	Timestamp      *time.Time
}

// Renderer writes a raster summary of the latest refresh. Implementations
// must be safe to call after every refresh; failures are the caller's to log,
// never to propagate.
type Renderer interface {
	Render(data Data, outPath string) error
}

type pngRenderer struct{}

func NewRenderer() Renderer {
	return &pngRenderer{}
}

// Render draws a fixed-layout 1200x800 PNG: title, total count, the top
// countries by estimated GDP with proportional bars, and the refresh
// timestamp. Any prior image at outPath is overwritten.
func (r *pngRenderer) Render(data Data, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetHexColor(backgroundColor)
	dc.Clear()

	dc.SetHexColor(textColor)
	dc.DrawString("Countries Summary", 40, 60)

	dc.SetHexColor(mutedColor)
	dc.DrawString(fmt.Sprintf("Total countries: %d", data.TotalCountries), 40, 104)

	maxGDP := 0.0
	for _, entry := range data.Top {
		if entry.EstimatedGDP > maxGDP {
			maxGDP = entry.EstimatedGDP
		}
	}

	for i, entry := range data.Top {
		y := 160.0 + float64(i)*72.0

		if maxGDP > 0 {
			barWidth := (entry.EstimatedGDP / maxGDP) * (imageWidth - 80)
			dc.SetHexColor(barColor)
			dc.DrawRectangle(40, y+10, barWidth, 28)
			dc.Fill()
		}

		dc.SetHexColor(textColor)
		gdp := humanize.CommafWithDigits(entry.EstimatedGDP, 2)
		dc.DrawString(fmt.Sprintf("%d. %s - %s", i+1, entry.Name, gdp), 40, y)
	}

	dc.SetHexColor(mutedColor)
	timestamp := "never"
	if data.Timestamp != nil {
		timestamp = data.Timestamp.UTC().Format(time.RFC3339)
	}
	dc.DrawString("Last refreshed: "+timestamp, 40, imageHeight-40)

	return dc.SavePNG(outPath)
}
