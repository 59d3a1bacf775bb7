package models

import "time"

// MSimulationRecord represents one stored simulation tick for a ticker.
type MSimulationRecord struct {
	Ticker    string  `json:"ticker"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

// -----------------------------------------------------------------------------
// Report Payload (builder output, exporter input)
// -----------------------------------------------------------------------------

// MTickerSummary holds the aggregate statistics for one ticker.
type MTickerSummary struct {
	Ticker   string  `json:"ticker"`
	Records  int     `json:"records"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Last     float64 `json:"last"`
}

// MReportPayload is the structured report content handed to the exporter.
type MReportPayload struct {
	ReportType  ReportType          `json:"report_type"`
	GeneratedAt time.Time           `json:"generated_at"`
	DateFrom    *time.Time          `json:"date_from,omitempty"`
	DateTo      *time.Time          `json:"date_to,omitempty"`
	Summaries   []MTickerSummary    `json:"summaries"`
	RawData     []MSimulationRecord `json:"raw_data,omitempty"`
}
