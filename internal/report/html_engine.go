package report

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// reportTemplate is the styled layout rendered by the primary engine.
// The chart is inlined as a base64 data URI so the document is
// self-contained.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Weather Report</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 24px; }
    h1 { margin-bottom: 4px; }
    .meta { color: #555; margin-bottom: 16px; }
    img { width: 100%; height: auto; }
  </style>
</head>
<body>
  <h1>Weather Report</h1>
  <div class="meta">Location: {{.Location}}<br/>Range: {{.Start}} to {{.End}} (UTC)</div>
  <img src="data:image/png;base64,{{.ChartBase64}}" />
</body>
</html>
`))

type reportTemplateData struct {
	Location    string
	Start       string
	End         string
	ChartBase64 string
}

// HTMLEngine is the primary document engine: a full-layout HTML renderer
// with CSS styling, converted to PDF by wkhtmltopdf. The converter is
// located fresh on every render, so a missing binary surfaces as an
// engine failure rather than a cached verdict.
type HTMLEngine struct{}

// NewHTMLEngine creates the primary document engine.
func NewHTMLEngine() *HTMLEngine {
	return &HTMLEngine{}
}

// Name returns the engine name.
func (e *HTMLEngine) Name() string {
	return "wkhtmltopdf"
}

// Render builds the styled HTML and converts it to PDF.
func (e *HTMLEngine) Render(ctx context.Context, meta ReportMeta, chartPNG []byte) ([]byte, error) {
	var html bytes.Buffer
	err := reportTemplate.Execute(&html, reportTemplateData{
		Location:    meta.Location,
		Start:       meta.Start.UTC().Format(time.RFC3339),
		End:         meta.End.UTC().Format(time.RFC3339),
		ChartBase64: base64.StdEncoding.EncodeToString(chartPNG),
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	generator, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("locate wkhtmltopdf: %w", err)
	}
	generator.AddPage(wkhtmltopdf.NewPageReader(&html))

	if err := generator.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("convert html to pdf: %w", err)
	}
	return generator.Bytes(), nil
}

// Ensure HTMLEngine implements DocumentEngine.
var _ DocumentEngine = (*HTMLEngine)(nil)
