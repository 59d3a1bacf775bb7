package reports

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"market-twin/src/models"
)

// renderSummaryChart renders per-ticker mean prices as a PNG bar-style line
// chart with min/max whisker bounds. Returns raw PNG bytes.
func renderSummaryChart(payload *models.MReportPayload) ([]byte, error) {
	if len(payload.Summaries) < 2 {
		return nil, fmt.Errorf("need at least 2 ticker summaries to chart, got %d", len(payload.Summaries))
	}

	xValues := make([]float64, len(payload.Summaries))
	meanY := make([]float64, len(payload.Summaries))
	minY := make([]float64, len(payload.Summaries))
	maxY := make([]float64, len(payload.Summaries))
	labels := make(map[float64]string, len(payload.Summaries))

	for i, s := range payload.Summaries {
		x := float64(i)
		xValues[i] = x
		meanY[i] = s.Mean
		minY[i] = s.MinPrice
		maxY[i] = s.MaxPrice
		labels[x] = s.Ticker
	}

	meanSeries := chart.ContinuousSeries{
		Name: "Mean Price",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: meanY,
	}

	minSeries := chart.ContinuousSeries{
		Name: "Min",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: minY,
	}

	maxSeries := chart.ContinuousSeries{
		Name: "Max",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: maxY,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s report %s", payload.ReportType, payload.GeneratedAt.Format("2006-01-02")),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					if label, ok := labels[f]; ok {
						return label
					}
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			meanSeries,
			minSeries,
			maxSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
