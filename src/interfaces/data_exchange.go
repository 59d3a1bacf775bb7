package interfaces

// -----------------------------------------------------------------------------
// IDataExchanger defines the contract for pushing events to external listeners.
// -----------------------------------------------------------------------------

type IDataExchanger interface {
	// -----------------------------------------------------------------------------
	// Broadcast fans one event out to every connected subscriber (best effort).
	Broadcast(event map[string]interface{})

	// -----------------------------------------------------------------------------
	// Start the server
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop() error
}
