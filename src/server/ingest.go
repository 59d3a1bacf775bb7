package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Ingest Endpoint
// -----------------------------------------------------------------------------

// handleIngest accepts one JSON object or an array of objects and queues
// each object for broadcast in input order. Non-object array entries are
// skipped, unrecognized payload shapes report "ignored", and internal
// failures surface as a soft 200-level error so publishers never see a 5xx
// from subscriber misbehavior.
func (s *DashboardServer) handleIngest(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Warning("ingest failed: %v", r)
			c.JSON(http.StatusOK, gin.H{"status": "error", "detail": "internal ingest failure"})
		}
	}()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.Logger.Warning("ingest failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "error", "detail": err.Error()})
		return
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	switch value := payload.(type) {
	case []interface{}:
		for _, item := range value {
			if event, ok := item.(map[string]interface{}); ok {
				s.Broadcast(event)
			}
			// Non-object entries are silently skipped
		}
	case map[string]interface{}:
		s.Broadcast(value)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
