package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// CanvasEngine is the fallback document engine: low-level page drawing
// with no HTML layer. It draws the title, the location/range lines, and
// the chart scaled to the page width on a single page.
type CanvasEngine struct{}

// NewCanvasEngine creates the fallback document engine.
func NewCanvasEngine() *CanvasEngine {
	return &CanvasEngine{}
}

// Name returns the engine name.
func (e *CanvasEngine) Name() string {
	return "fpdf"
}

// Render draws the report onto a single letter-sized page.
func (e *CanvasEngine) Render(_ context.Context, meta ReportMeta, chartPNG []byte) ([]byte, error) {
	const margin = 15.0

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle("Weather Report", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(margin, 22, "Weather Report")

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(margin, 30, "Location: "+meta.Location)
	pdf.Text(margin, 35, fmt.Sprintf("Range: %s to %s (UTC)",
		meta.Start.UTC().Format(time.RFC3339), meta.End.UTC().Format(time.RFC3339)))

	options := fpdf.ImageOptions{ImageType: "PNG"}
	info := pdf.RegisterImageOptionsReader("chart", options, bytes.NewReader(chartPNG))
	if pdf.Err() {
		return nil, fmt.Errorf("register chart image: %w", pdf.Error())
	}

	// Fit to page width, preserving the chart's aspect ratio.
	pageWidth, _ := pdf.GetPageSize()
	imageWidth := pageWidth - 2*margin
	imageHeight := imageWidth * info.Height() / info.Width()
	pdf.ImageOptions("chart", margin, 42, imageWidth, imageHeight, false, options, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("finalize page: %w", err)
	}
	return buf.Bytes(), nil
}

// Ensure CanvasEngine implements DocumentEngine.
var _ DocumentEngine = (*CanvasEngine)(nil)
