package reports

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"market-twin/src/helpers"
	"market-twin/src/models"
)

// -----------------------------------------------------------------------------
// DefaultExporter
// -----------------------------------------------------------------------------

// DefaultExporter serializes report payloads. It is the default IExporter
// collaborator.
type DefaultExporter struct{}

// -----------------------------------------------------------------------------

func NewDefaultExporter() *DefaultExporter {
	return &DefaultExporter{}
}

// -----------------------------------------------------------------------------

// ExportPayload serializes a payload into a named artifact for the format.
func (e *DefaultExporter) ExportPayload(payload *models.MReportPayload, format models.ExportFormat) (*models.MReportArtifact, error) {
	name := fmt.Sprintf("%s_report_%s.%s", payload.ReportType, payload.GeneratedAt.Format("20060102"), format)

	var data []byte
	var mime string
	var err error

	switch format {
	case models.ExportFormatJSON:
		data, err = json.MarshalIndent(payload, "", "  ")
		mime = "application/json"
	case models.ExportFormatCSV:
		data, err = e.exportCSV(payload)
		mime = "text/csv"
	case models.ExportFormatPNG:
		data, err = renderSummaryChart(payload)
		mime = "image/png"
	case models.ExportFormatPDF:
		data, err = renderSummaryPDF(payload)
		mime = "application/pdf"
	default:
		return nil, helpers.NewValidationError(fmt.Sprintf("unsupported export format: %s", format))
	}

	if err != nil {
		return nil, helpers.NewPipelineError(fmt.Sprintf("%s export failed", format), err)
	}

	return &models.MReportArtifact{Filename: name, Data: data, MIME: mime}, nil
}

// -----------------------------------------------------------------------------

// exportCSV writes one summary row per ticker, followed by raw records when
// the payload carries them.
func (e *DefaultExporter) exportCSV(payload *models.MReportPayload) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"ticker", "records", "min_price", "max_price", "mean", "std_dev", "last"}); err != nil {
		return nil, err
	}
	for _, s := range payload.Summaries {
		row := []string{
			s.Ticker,
			fmt.Sprintf("%d", s.Records),
			fmt.Sprintf("%.4f", s.MinPrice),
			fmt.Sprintf("%.4f", s.MaxPrice),
			fmt.Sprintf("%.4f", s.Mean),
			fmt.Sprintf("%.4f", s.StdDev),
			fmt.Sprintf("%.4f", s.Last),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	if len(payload.RawData) > 0 {
		if err := w.Write([]string{"ticker", "price", "volume", "timestamp"}); err != nil {
			return nil, err
		}
		for _, rec := range payload.RawData {
			row := []string{
				rec.Ticker,
				fmt.Sprintf("%.4f", rec.Price),
				fmt.Sprintf("%.2f", rec.Volume),
				fmt.Sprintf("%d", rec.Timestamp),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
