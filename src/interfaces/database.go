package interfaces

import (
	"time"

	"market-twin/src/models"
)

// -----------------------------------------------------------------------------
// IDatabase defines the contract for simulation record storage.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveSimulationRecords inserts a batch of simulation ticks.
	SaveSimulationRecords(records []models.MSimulationRecord) error

	// -----------------------------------------------------------------------------

	// QuerySimulationRecords returns records filtered by tickers and time range.
	// Empty tickers means all tickers; nil bounds mean unbounded.
	QuerySimulationRecords(tickers []string, from, to *time.Time) ([]models.MSimulationRecord, error)

	// -----------------------------------------------------------------------------

	// CleanupOldData removes data older than the retention policy.
	CleanupOldData() error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
