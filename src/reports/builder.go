package reports

import (
	"time"

	"market-twin/src/analysis"
	"market-twin/src/helpers"
	"market-twin/src/interfaces"
	"market-twin/src/models"
)

// -----------------------------------------------------------------------------
// StorageReportBuilder
// -----------------------------------------------------------------------------

// StorageReportBuilder aggregates stored simulation records into a report
// payload. It is the default IReportBuilder collaborator.
type StorageReportBuilder struct {
	DB interfaces.IDatabase
}

// -----------------------------------------------------------------------------

func NewStorageReportBuilder(db interfaces.IDatabase) *StorageReportBuilder {
	return &StorageReportBuilder{DB: db}
}

// -----------------------------------------------------------------------------

// BuildReport queries records for the request window and computes per-ticker
// summary statistics. Raw records are embedded only when the request asks
// for them.
func (b *StorageReportBuilder) BuildReport(req models.MReportRequest) (*models.MReportPayload, error) {
	if req.DateFrom != nil && req.DateTo != nil && req.DateFrom.After(*req.DateTo) {
		return nil, helpers.NewValidationError("date_from must not be after date_to")
	}

	records, err := b.DB.QuerySimulationRecords(req.Tickers, req.DateFrom, req.DateTo)
	if err != nil {
		return nil, helpers.NewPipelineError("report query failed", err)
	}

	// Group prices by ticker, preserving first-seen order.
	order := make([]string, 0)
	prices := make(map[string][]float64)
	last := make(map[string]float64)
	for _, rec := range records {
		if _, seen := prices[rec.Ticker]; !seen {
			order = append(order, rec.Ticker)
		}
		prices[rec.Ticker] = append(prices[rec.Ticker], rec.Price)
		last[rec.Ticker] = rec.Price
	}

	summaries := make([]models.MTickerSummary, 0, len(order))
	for _, ticker := range order {
		series := prices[ticker]
		mean, std := analysis.MeanStd(series)
		min, max := analysis.MinMax(series)
		summaries = append(summaries, models.MTickerSummary{
			Ticker:   ticker,
			Records:  len(series),
			MinPrice: min,
			MaxPrice: max,
			Mean:     mean,
			StdDev:   std,
			Last:     last[ticker],
		})
	}

	payload := &models.MReportPayload{
		ReportType:  req.ReportType,
		GeneratedAt: time.Now().UTC(),
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		Summaries:   summaries,
	}

	if req.IncludeRaw {
		payload.RawData = records
	}

	return payload, nil
}
