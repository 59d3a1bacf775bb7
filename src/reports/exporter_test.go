package reports

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"market-twin/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func testPayload() *models.MReportPayload {
	return &models.MReportPayload{
		ReportType:  models.ReportTypeSummary,
		GeneratedAt: time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC),
		Summaries: []models.MTickerSummary{
			{Ticker: "AAPL", Records: 3, MinPrice: 100, MaxPrice: 110, Mean: 105, StdDev: 4.08, Last: 110},
			{Ticker: "MSFT", Records: 2, MinPrice: 300, MaxPrice: 310, Mean: 305, StdDev: 5, Last: 300},
		},
		RawData: []models.MSimulationRecord{
			{Ticker: "AAPL", Price: 100, Volume: 1000, Timestamp: 1700000000},
		},
	}
}

// -----------------------------------------------------------------------------

func TestExportJSON(t *testing.T) {
	e := NewDefaultExporter()

	artifact, err := e.ExportPayload(testPayload(), models.ExportFormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "summary_report_20260828.json", artifact.Filename)
	assert.Equal(t, "application/json", artifact.MIME)

	var decoded models.MReportPayload
	require.NoError(t, json.Unmarshal(artifact.Data, &decoded))
	assert.Equal(t, models.ReportTypeSummary, decoded.ReportType)
	assert.Len(t, decoded.Summaries, 2)
	assert.Len(t, decoded.RawData, 1)
}

// -----------------------------------------------------------------------------

func TestExportCSV(t *testing.T) {
	e := NewDefaultExporter()

	artifact, err := e.ExportPayload(testPayload(), models.ExportFormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "summary_report_20260828.csv", artifact.Filename)
	assert.Equal(t, "text/csv", artifact.MIME)

	rows, err := csv.NewReader(bytes.NewReader(artifact.Data)).ReadAll()
	require.NoError(t, err)

	// Header + 2 summaries + raw header + 1 raw record
	require.Len(t, rows, 5)
	assert.Equal(t, "ticker", rows[0][0])
	assert.Equal(t, "AAPL", rows[1][0])
	assert.Equal(t, "MSFT", rows[2][0])
}

// -----------------------------------------------------------------------------

func TestExportPDF(t *testing.T) {
	e := NewDefaultExporter()

	artifact, err := e.ExportPayload(testPayload(), models.ExportFormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "summary_report_20260828.pdf", artifact.Filename)
	assert.Equal(t, "application/pdf", artifact.MIME)
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF-1.4")))
	assert.Contains(t, string(artifact.Data), "AAPL")
	assert.True(t, bytes.HasSuffix(artifact.Data, []byte("%%EOF\n")))
}

// -----------------------------------------------------------------------------

func TestExportPNG(t *testing.T) {
	e := NewDefaultExporter()

	artifact, err := e.ExportPayload(testPayload(), models.ExportFormatPNG)
	require.NoError(t, err)

	assert.Equal(t, "summary_report_20260828.png", artifact.Filename)
	assert.Equal(t, "image/png", artifact.MIME)
	// PNG signature
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte{0x89, 'P', 'N', 'G'}))
}

// -----------------------------------------------------------------------------

func TestExportPNGNeedsTwoSummaries(t *testing.T) {
	e := NewDefaultExporter()

	payload := testPayload()
	payload.Summaries = payload.Summaries[:1]

	_, err := e.ExportPayload(payload, models.ExportFormatPNG)
	assert.Error(t, err)
}

// -----------------------------------------------------------------------------

func TestPDFEscapesDelimiters(t *testing.T) {
	data := buildPDF([]string{`line with (parens) and \backslash`})
	assert.Contains(t, string(data), `\(parens\)`)
	assert.Contains(t, string(data), `\\backslash`)
}
