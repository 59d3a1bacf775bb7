package models

import "time"

// -----------------------------------------------------------------------------
// Report Enumerations
// -----------------------------------------------------------------------------

type ReportType string

const (
	ReportTypeFull        ReportType = "full"
	ReportTypeSummary     ReportType = "summary"
	ReportTypePerformance ReportType = "performance"
)

// ParseReportType validates a raw query value against the known report kinds.
func ParseReportType(raw string) (ReportType, bool) {
	switch ReportType(raw) {
	case ReportTypeFull, ReportTypeSummary, ReportTypePerformance:
		return ReportType(raw), true
	}
	return "", false
}

// -----------------------------------------------------------------------------

type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatPNG  ExportFormat = "png"
)

// ParseExportFormat validates a raw query value against the known formats.
func ParseExportFormat(raw string) (ExportFormat, bool) {
	switch ExportFormat(raw) {
	case ExportFormatJSON, ExportFormatCSV, ExportFormatPDF, ExportFormatPNG:
		return ExportFormat(raw), true
	}
	return "", false
}

// -----------------------------------------------------------------------------
// Report Request (immutable once constructed)
// -----------------------------------------------------------------------------

// MReportRequest describes one report the caller wants built.
// Nil time bounds mean unbounded; empty Tickers means all tickers.
type MReportRequest struct {
	ReportType   ReportType   `json:"report_type"`
	ExportFormat ExportFormat `json:"export_format"`
	Tickers      []string     `json:"tickers,omitempty"`
	DateFrom     *time.Time   `json:"date_from,omitempty"`
	DateTo       *time.Time   `json:"date_to,omitempty"`
	IncludeRaw   bool         `json:"include_raw"`
}

// -----------------------------------------------------------------------------
// Report Artifact
// -----------------------------------------------------------------------------

// MReportArtifact is the named, typed byte output of the report pipeline.
type MReportArtifact struct {
	Filename string
	Data     []byte
	MIME     string
}

// -----------------------------------------------------------------------------
// Archive Entry
// -----------------------------------------------------------------------------

// MArchiveEntry describes one persisted artifact under the managed directory.
type MArchiveEntry struct {
	Name  string    `json:"name"`
	Size  int64     `json:"size"`
	MTime time.Time `json:"mtime"`
	URL   string    `json:"url"`
}
