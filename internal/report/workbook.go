package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/skyreport/skyreport/internal/observation"
)

// workbookSheet is the single sheet holding the exported window.
const workbookSheet = "weather"

// naiveTimeLayout renders a UTC instant without timezone information.
// The xlsx format cannot represent timezone-aware datetimes.
const naiveTimeLayout = "2006-01-02 15:04:05"

// BuildWorkbook serializes the window as an xlsx workbook with one row
// per observation. Timestamps are normalized to UTC and emitted
// timezone-naive.
func BuildWorkbook(window observation.SeriesWindow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // in-memory file

	index, err := f.NewSheet(workbookSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headers := []string{"timestamp", "temperature_2m", "relative_humidity_2m"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(workbookSheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, obs := range window.Observations {
		row := i + 2
		values := []any{
			obs.Timestamp.UTC().Format(naiveTimeLayout),
			obs.Temperature,
			obs.Humidity,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(workbookSheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
