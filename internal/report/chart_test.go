package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyreport/skyreport/internal/observation"
	"github.com/skyreport/skyreport/internal/report"
)

func sampleWindow(hours int) observation.SeriesWindow {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	window := observation.SeriesWindow{
		Start: start,
		End:   start.Add(time.Duration(hours) * time.Hour),
	}
	for i := 0; i < hours; i++ {
		window.Observations = append(window.Observations, observation.Observation{
			Timestamp:   start.Add(time.Duration(i) * time.Hour),
			Latitude:    47.0,
			Longitude:   8.0,
			Temperature: 5.0 + float64(i)*0.5,
			Humidity:    60.0 - float64(i),
		})
	}
	return window
}

func TestRenderChart(t *testing.T) {
	png, err := report.RenderChart(sampleWindow(6))
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// PNG signature.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestRenderChart_Deterministic(t *testing.T) {
	window := sampleWindow(6)

	first, err := report.RenderChart(window)
	require.NoError(t, err)
	second, err := report.RenderChart(window)
	require.NoError(t, err)

	assert.Equal(t, first, second, "chart is a pure function of the window")
}

func TestRenderChart_EmptyWindow(t *testing.T) {
	_, err := report.RenderChart(observation.SeriesWindow{})
	assert.ErrorIs(t, err, observation.ErrEmptyWindow)
}
