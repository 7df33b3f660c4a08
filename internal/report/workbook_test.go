package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/skyreport/skyreport/internal/report"
)

func TestBuildWorkbook(t *testing.T) {
	data, err := report.BuildWorkbook(sampleWindow(2))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("weather")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two observations")

	assert.Equal(t, []string{"timestamp", "temperature_2m", "relative_humidity_2m"}, rows[0])

	// Timestamps are timezone-naive UTC strings.
	assert.Equal(t, "2024-01-01 00:00:00", rows[1][0])
	assert.Equal(t, "2024-01-01 01:00:00", rows[2][0])
	assert.Equal(t, "5", rows[1][1])
	assert.Equal(t, "60", rows[1][2])
}
