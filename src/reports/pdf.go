package reports

import (
	"bytes"
	"fmt"
	"strings"

	"market-twin/src/models"
)

// renderSummaryPDF builds a single-page PDF with the per-ticker summary
// table as monospaced text lines. The document is assembled by hand since
// only PDF generation (not reading) is needed here.
func renderSummaryPDF(payload *models.MReportPayload) ([]byte, error) {
	lines := []string{
		fmt.Sprintf("%s report - generated %s", payload.ReportType, payload.GeneratedAt.Format("2006-01-02 15:04:05 MST")),
		"",
		fmt.Sprintf("%-10s %8s %12s %12s %12s %12s %12s", "ticker", "records", "min", "max", "mean", "std", "last"),
	}
	for _, s := range payload.Summaries {
		lines = append(lines, fmt.Sprintf("%-10s %8d %12.4f %12.4f %12.4f %12.4f %12.4f",
			s.Ticker, s.Records, s.MinPrice, s.MaxPrice, s.Mean, s.StdDev, s.Last))
	}
	if len(payload.Summaries) == 0 {
		lines = append(lines, "(no data in range)")
	}
	if len(payload.RawData) > 0 {
		lines = append(lines, "", fmt.Sprintf("raw records: %d", len(payload.RawData)))
	}

	return buildPDF(lines), nil
}

// -----------------------------------------------------------------------------

// buildPDF assembles a one-page PDF document from text lines.
func buildPDF(lines []string) []byte {
	var content bytes.Buffer
	content.WriteString("BT /F1 9 Tf 11 TL 40 760 Td\n")
	for _, line := range lines {
		content.WriteString(fmt.Sprintf("(%s) Tj T*\n", escapePDFText(line)))
	}
	content.WriteString("ET\n")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		buf.WriteString(fmt.Sprintf("%d 0 obj\n%s\nendobj\n", i+1, obj))
	}

	xrefPos := buf.Len()
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", len(objects)+1))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefPos))

	return buf.Bytes()
}

// -----------------------------------------------------------------------------

func escapePDFText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
