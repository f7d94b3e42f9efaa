// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the core business logic

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Storage provides the synced key/value settings store
	Storage Storage

	// Secrets holds the API token; may be nil, in which case the token
	// lives in Storage like every other setting
	Secrets SecretStore

	// HTTPClient provides HTTP request functionality
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger

	// Browser provides the host-platform capability surface
	Browser Browser
}
