package reports

import (
	"context"

	"market-twin/src/interfaces"
	"market-twin/src/models"
)

// -----------------------------------------------------------------------------
// Pipeline
// -----------------------------------------------------------------------------

// Pipeline shapes report requests through the builder/exporter collaborators
// so the public endpoint, the admin endpoint and the scheduled job all
// produce byte-identical artifacts for identical requests.
type Pipeline struct {
	Builder  interfaces.IReportBuilder
	Exporter interfaces.IExporter

	// Bounds concurrent generations so CPU-bound report work cannot
	// starve the hub or other in-flight requests.
	slots chan struct{}
}

// -----------------------------------------------------------------------------

func NewPipeline(builder interfaces.IReportBuilder, exporter interfaces.IExporter, maxConcurrent int) *Pipeline {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Pipeline{
		Builder:  builder,
		Exporter: exporter,
		slots:    make(chan struct{}, maxConcurrent),
	}
}

// -----------------------------------------------------------------------------

// Generate builds and exports one report. Collaborator errors propagate
// unchanged; there is no retry.
func (p *Pipeline) Generate(ctx context.Context, req models.MReportRequest) (*models.MReportArtifact, error) {
	select {
	case p.slots <- struct{}{}:
		defer func() { <-p.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	payload, err := p.Builder.BuildReport(req)
	if err != nil {
		return nil, err
	}

	return p.Exporter.ExportPayload(payload, req.ExportFormat)
}
