package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyreport/skyreport/internal/observation"
)

// exportWindow is the trailing range covered by both export flavors.
const exportWindow = 48 * time.Hour

// Fetcher retrieves an hourly observation series for a coordinate.
type Fetcher interface {
	FetchSeries(ctx context.Context, lat, lon float64) ([]observation.Observation, error)
}

// ServiceConfig holds configuration for the report pipeline.
type ServiceConfig struct {
	// Fetcher is the upstream series source.
	Fetcher Fetcher

	// Store persists and queries observations.
	Store observation.Store

	// Composer renders the report document.
	Composer *Composer

	// Logger for pipeline operations.
	Logger zerolog.Logger

	// Now is the clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

// Service orchestrates the ingestion path (fetch then store) and the two
// export paths (tabular and document) over the last 48 hours.
type Service struct {
	fetcher  Fetcher
	store    observation.Store
	composer *Composer
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a new report pipeline.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		fetcher:  cfg.Fetcher,
		store:    cfg.Store,
		composer: cfg.Composer,
		logger:   cfg.Logger,
		now:      now,
	}
}

// IngestSummary reports the outcome of one ingestion.
type IngestSummary struct {
	Inserted   int                      `json:"inserted"`
	SampleLast *observation.Observation `json:"sample_last"`
}

// Export is a downloadable artifact produced by an export path.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Ingest fetches the trailing series for a coordinate and upserts it.
// An empty fetched series skips the upsert entirely.
func (s *Service) Ingest(ctx context.Context, lat, lon float64) (*IngestSummary, error) {
	if err := observation.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	series, err := s.fetcher.FetchSeries(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	if len(series) > 0 {
		if err := s.store.Upsert(ctx, lat, lon, series); err != nil {
			return nil, err
		}
	}

	last, err := s.store.LatestFor(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Float64("lat", lat).
		Float64("lon", lon).
		Int("inserted", len(series)).
		Msg("ingested observation series")

	return &IngestSummary{Inserted: len(series), SampleLast: last}, nil
}

// ExportWorkbook serializes the last 48 hours as an xlsx download.
func (s *Service) ExportWorkbook(ctx context.Context) (*Export, error) {
	window, err := s.window(ctx)
	if err != nil {
		return nil, err
	}

	data, err := BuildWorkbook(window)
	if err != nil {
		return nil, err
	}

	return &Export{
		Filename:    "weather_last_48h.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

// ExportDocument renders the last 48 hours as a PDF report download.
func (s *Service) ExportDocument(ctx context.Context) (*Export, error) {
	window, err := s.window(ctx)
	if err != nil {
		return nil, err
	}

	chartPNG, err := RenderChart(window)
	if err != nil {
		return nil, err
	}

	meta := ReportMeta{
		Location: representativeLocation(window),
		Start:    window.Start,
		End:      window.End,
	}

	doc, err := s.composer.Compose(ctx, meta, chartPNG)
	if err != nil {
		return nil, err
	}

	return &Export{
		Filename:    "weather_report.pdf",
		ContentType: "application/pdf",
		Data:        doc,
	}, nil
}

// window queries the trailing 48-hour range, failing with ErrNoData when
// it is empty.
func (s *Service) window(ctx context.Context) (observation.SeriesWindow, error) {
	end := s.now().UTC()
	start := end.Add(-exportWindow)

	records, err := s.store.QueryRange(ctx, start, end)
	if err != nil {
		return observation.SeriesWindow{}, err
	}
	if len(records) == 0 {
		return observation.SeriesWindow{}, fmt.Errorf("%w: last 48 hours", observation.ErrNoData)
	}

	return observation.SeriesWindow{Start: start, End: end, Observations: records}, nil
}

// representativeLocation derives the location string from the first
// record in range.
func representativeLocation(window observation.SeriesWindow) string {
	if window.Empty() {
		return "Unknown"
	}
	first := window.Observations[0]
	return fmt.Sprintf("lat=%g, lon=%g", first.Latitude, first.Longitude)
}
