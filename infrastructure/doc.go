// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as persistence, HTTP communication, logging, and the host-platform
// browser surface.
//
// The infrastructure package is organized by technical concern:
//
// - storage/memory: In-memory key/value store using sync.Map
// - storage/sqlite: File-based key/value store that survives restarts
// - storage/redis: Redis-backed key/value store for shared deployments
// - secrets/keyring: OS-keyring secret store for the API token
// - http/standard: Standard library HTTP client with retry logic
// - logger/logrus: Structured logger backed by logrus
// - browser/local: Local binding of the Browser capability interface
// - page/goquery: DOM-like page surface over parsed HTML
//
// # Design Philosophy
//
// Infrastructure components are designed to be:
// - Pluggable: Easy to swap implementations
// - Configurable: Accept configuration objects
// - Testable: Include both unit and integration tests
// - Production-ready: Include retries, timeouts, and error handling
//
// # Storage Implementations
//
// Memory Storage Example:
//
//	storage := memory.NewMemoryStorage()
//	err := storage.Set(ctx, "key", []byte("value"))
//	value, err := storage.Get(ctx, "key")
//
// SQLite Storage Example:
//
//	storage, err := sqlite.NewSQLiteStorage("/var/lib/mealie-bridge/bridge.db")
//
// # HTTP Client
//
// The HTTP client includes automatic retry logic for transient GET
// failures and carries per-request headers for authenticated calls:
//
//	client := standard.NewStandardHTTPClient(30 * time.Second)
//	header := http.Header{}
//	header.Set("Authorization", "Bearer "+token)
//	resp, err := client.Get(ctx, "https://mealie.local/api/users/self", header)
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
// The logger supports structured logging with fields:
//
//	logger := logrus.NewLogger("info")
//	logger.Info("Recipe imported", map[string]interface{}{
//	    "url":  pageURL,
//	    "slug": recipe.Slug,
//	})
package infrastructure
