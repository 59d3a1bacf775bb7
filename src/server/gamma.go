package server

import (
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Gamma Seed CSV
// -----------------------------------------------------------------------------

// getGamma serves the locally-cached options gamma seed. Missing cache is an
// empty result, not an error; a parse failure is reported inline.
func (s *DashboardServer) getGamma(c *gin.Context) {
	path := gammaSeedPath()
	if path == "" {
		c.JSON(http.StatusOK, gin.H{"rows": []gin.H{}})
		return
	}

	f, err := os.Open(path)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"rows": []gin.H{}})
		return
	}
	defer f.Close()

	rows, err := parseGammaCSV(f)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"rows": []gin.H{}, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// -----------------------------------------------------------------------------

// parseGammaCSV normalizes headers to trimmed lower-case and drops rows
// missing a symbol or gamma_notional value.
func parseGammaCSV(r io.Reader) ([]map[string]interface{}, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	raw, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []map[string]interface{}{}, nil
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]map[string]interface{}, 0, len(raw)-1)
	for _, record := range raw[1:] {
		row := make(map[string]interface{}, len(headers))
		for i, h := range headers {
			if i >= len(record) {
				break
			}
			value := strings.TrimSpace(record[i])
			if num, err := strconv.ParseFloat(value, 64); err == nil {
				row[h] = num
			} else {
				row[h] = value
			}
		}

		if sym, ok := row["symbol"]; !ok || sym == "" {
			continue
		}
		if _, ok := row["gamma_notional"]; !ok {
			continue
		}
		if str, isStr := row["gamma_notional"].(string); isStr && str == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
