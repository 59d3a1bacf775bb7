package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"market-twin/src/helpers"
	"market-twin/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Report Request Parsing
// -----------------------------------------------------------------------------

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid timestamp: %s", raw)
}

// -----------------------------------------------------------------------------

// parseReportRequest maps query parameters onto a report request. Enum
// values are validated here, before any request object is constructed.
func parseReportRequest(c *gin.Context) (models.MReportRequest, error) {
	var req models.MReportRequest

	rtype, ok := models.ParseReportType(c.DefaultQuery("rtype", string(models.ReportTypeFull)))
	if !ok {
		return req, helpers.NewValidationError(fmt.Sprintf("unknown report type: %s", c.Query("rtype")))
	}

	format, ok := models.ParseExportFormat(c.DefaultQuery("fmt", string(models.ExportFormatJSON)))
	if !ok {
		return req, helpers.NewValidationError(fmt.Sprintf("unknown export format: %s", c.Query("fmt")))
	}

	dateFrom, err := parseDateParam(c.Query("date_from"))
	if err != nil {
		return req, helpers.NewValidationError(err.Error())
	}
	dateTo, err := parseDateParam(c.Query("date_to"))
	if err != nil {
		return req, helpers.NewValidationError(err.Error())
	}

	includeRaw := false
	if raw := c.Query("include_raw"); raw != "" {
		includeRaw, err = strconv.ParseBool(raw)
		if err != nil {
			return req, helpers.NewValidationError(fmt.Sprintf("invalid include_raw: %s", raw))
		}
	}

	req = models.MReportRequest{
		ReportType:   rtype,
		ExportFormat: format,
		Tickers:      c.QueryArray("tickers"),
		DateFrom:     dateFrom,
		DateTo:       dateTo,
		IncludeRaw:   includeRaw,
	}
	return req, nil
}

// -----------------------------------------------------------------------------
// Public Report Endpoint
// -----------------------------------------------------------------------------

// generateReport builds an artifact for the query parameters and serves it
// as an attachment.
func (s *DashboardServer) generateReport(c *gin.Context) {
	req, err := parseReportRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	artifact, err := s.Pipeline.Generate(c.Request.Context(), req)
	if err != nil {
		s.respondPipelineError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", artifact.Filename))
	c.Data(http.StatusOK, artifact.MIME, artifact.Data)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) respondPipelineError(c *gin.Context, err error) {
	var validationErr *helpers.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	s.Logger.Error("Report generation failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
}
