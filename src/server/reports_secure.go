package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"market-twin/src/helpers"
	"market-twin/src/reports"

	"github.com/gin-gonic/gin"
)

const adminTokenHeader = "X-Admin-Token"

// -----------------------------------------------------------------------------
// Token Gate
// -----------------------------------------------------------------------------

// requireAdminToken rejects the request before any pipeline or filesystem
// work when the caller token is missing or wrong.
func (s *DashboardServer) requireAdminToken(c *gin.Context) {
	provided := c.GetHeader(adminTokenHeader)
	if provided == "" || provided != s.adminToken {
		err := helpers.NewAuthenticationError("Invalid or missing admin token")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
		return
	}
	c.Next()
}

// -----------------------------------------------------------------------------
// Secure Report Endpoint
// -----------------------------------------------------------------------------

// generateReportSecure is the admin variant of report generation: same
// request shape plus an optional archival write with a second-resolution
// timestamp prefix.
func (s *DashboardServer) generateReportSecure(c *gin.Context) {
	req, err := parseReportRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	save := false
	if raw := c.Query("save"); raw != "" {
		save, err = strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("invalid save: %s", raw)})
			return
		}
	}

	artifact, err := s.Pipeline.Generate(c.Request.Context(), req)
	if err != nil {
		s.respondPipelineError(c, err)
		return
	}

	if save {
		name, err := s.Archive.Write(time.Now(), reports.SecurePrefixLayout, artifact.Filename, artifact.Data)
		if err != nil {
			s.Logger.Error("Report archive failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
		s.Logger.Info("Report archived as %s", name)
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", artifact.Filename))
	c.Data(http.StatusOK, artifact.MIME, artifact.Data)
}

// -----------------------------------------------------------------------------
// Archive Listing
// -----------------------------------------------------------------------------

const recentReportsLimit = 50

func (s *DashboardServer) recentReports(c *gin.Context) {
	entries, err := s.Archive.Recent(recentReportsLimit, "/admin/reports/file/")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// -----------------------------------------------------------------------------
// Archive Retrieval
// -----------------------------------------------------------------------------

func (s *DashboardServer) getReportFile(c *gin.Context) {
	path, err := s.Archive.Resolve(c.Param("name"))
	if err != nil {
		var notFound *helpers.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	name := filepath.Base(path)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, reports.MIMEForFile(name), data)
}
