// Package handler provides HTTP handlers for the skyreport API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/skyreport/skyreport/internal/api/response"
	"github.com/skyreport/skyreport/internal/config"
	"github.com/skyreport/skyreport/internal/observation"
	"github.com/skyreport/skyreport/internal/report"
)

// ReportHandler serves the ingestion and export endpoints.
type ReportHandler struct {
	pipeline *report.Service
	config   config.Config
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(pipeline *report.Service, cfg config.Config) *ReportHandler {
	return &ReportHandler{
		pipeline: pipeline,
		config:   cfg,
	}
}

// IngestWeather handles GET /v1/reports/weather - fetch and store the
// trailing series for the requested (or default) coordinate.
func (h *ReportHandler) IngestWeather(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := h.resolveCoordinate(r)
	if !ok {
		response.BadRequest(w, r,
			"lat and lon are required float query params, or set DEFAULT_LAT/DEFAULT_LON")
		return
	}

	summary, err := h.pipeline.Ingest(r.Context(), lat, lon)
	if err != nil {
		switch {
		case errors.Is(err, observation.ErrInvalidCoordinates):
			response.BadRequest(w, r, "coordinates out of range")
		case errors.Is(err, observation.ErrUpstream), errors.Is(err, observation.ErrMalformedResponse):
			response.BadGateway(w, r, err.Error())
		default:
			response.InternalError(w, r, err.Error())
		}
		return
	}

	response.JSON(w, r, http.StatusOK, summary)
}

// ExportExcel handles GET /v1/exports/excel - xlsx of the last 48 hours.
func (h *ReportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	export, err := h.pipeline.ExportWorkbook(r.Context())
	if err != nil {
		h.writeExportError(w, r, err)
		return
	}
	response.Attachment(w, r, export.Filename, export.ContentType, export.Data)
}

// ExportPDF handles GET /v1/exports/pdf - PDF report of the last 48 hours.
func (h *ReportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	export, err := h.pipeline.ExportDocument(r.Context())
	if err != nil {
		h.writeExportError(w, r, err)
		return
	}
	response.Attachment(w, r, export.Filename, export.ContentType, export.Data)
}

func (h *ReportHandler) writeExportError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, observation.ErrNoData):
		response.NotFound(w, r, "No data in the last 48 hours")
	default:
		response.InternalError(w, r, err.Error())
	}
}

// resolveCoordinate reads lat/lon from query parameters, falling back to
// the configured default coordinate.
func (h *ReportHandler) resolveCoordinate(r *http.Request) (float64, float64, bool) {
	latParam := r.URL.Query().Get("lat")
	lonParam := r.URL.Query().Get("lon")

	if latParam == "" && lonParam == "" {
		if coord, ok := h.config.DefaultCoordinate(); ok {
			return coord.Lat, coord.Lon, true
		}
		return 0, 0, false
	}

	lat, errLat := strconv.ParseFloat(latParam, 64)
	lon, errLon := strconv.ParseFloat(lonParam, 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
