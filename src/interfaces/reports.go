package interfaces

import "market-twin/src/models"

// -----------------------------------------------------------------------------
// Report collaborator contracts. Content construction and serialization are
// external to the distribution plane; the pipeline only shapes inputs and
// outputs around these two calls.
// -----------------------------------------------------------------------------

type IReportBuilder interface {

	// -----------------------------------------------------------------------------

	// BuildReport aggregates stored simulation data into a report payload.
	BuildReport(req models.MReportRequest) (*models.MReportPayload, error)
}

// -----------------------------------------------------------------------------

type IExporter interface {

	// -----------------------------------------------------------------------------

	// ExportPayload serializes a payload into a named artifact for the format.
	ExportPayload(payload *models.MReportPayload, format models.ExportFormat) (*models.MReportArtifact, error)
}
