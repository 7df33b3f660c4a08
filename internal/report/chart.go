// Package report renders the 48-hour weather report artifacts: the
// dual-axis chart, the xlsx workbook, and the PDF document.
package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/skyreport/skyreport/internal/observation"
)

// Chart raster dimensions, a 10:4 canvas at 160 DPI equivalent.
const (
	chartWidth  = 1600
	chartHeight = 640
)

// RenderChart draws the temperature/humidity series as a single PNG with
// a shared time axis: temperature on the left axis, humidity on the
// right. Pure function of the window; callers must not pass an empty
// window.
func RenderChart(window observation.SeriesWindow) ([]byte, error) {
	if window.Empty() {
		return nil, fmt.Errorf("%w: chart requires at least one observation", observation.ErrEmptyWindow)
	}

	times := make([]float64, len(window.Observations))
	temps := make([]float64, len(window.Observations))
	hums := make([]float64, len(window.Observations))
	for i, obs := range window.Observations {
		times[i] = chart.TimeToFloat64(obs.Timestamp)
		temps[i] = obs.Temperature
		hums[i] = obs.Humidity
	}

	tempColor := drawing.Color{R: 0xd6, G: 0x2e, B: 0x28, A: 0xff}
	humColor := drawing.Color{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

	graph := chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:           "Time (UTC)",
			ValueFormatter: chart.TimeValueFormatterWithFormat("01-02 15:04"),
			TickStyle: chart.Style{
				TextRotationDegrees: 45.0,
			},
		},
		YAxis: chart.YAxis{
			Name: "Temperature (°C)",
			Style: chart.Style{
				FontColor: tempColor,
			},
			GridMajorStyle: chart.Style{
				StrokeColor:     chart.ColorAlternateGray,
				StrokeWidth:     1.0,
				StrokeDashArray: []float64{2.0, 2.0},
			},
		},
		YAxisSecondary: chart.YAxis{
			// Gridlines stay on the primary axis only.
			Name: "Humidity (%)",
			Style: chart.Style{
				FontColor: humColor,
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Temperature (°C)",
				XValues: times,
				YValues: temps,
				Style: chart.Style{
					StrokeColor: tempColor,
					StrokeWidth: 2.0,
				},
			},
			chart.ContinuousSeries{
				Name:    "Humidity (%)",
				YAxis:   chart.YAxisSecondary,
				XValues: times,
				YValues: hums,
				Style: chart.Style{
					StrokeColor: humColor,
					StrokeWidth: 2.0,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
