// Package api provides the HTTP API layer for the Mealie bridge.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: Huma API configuration and setup
// - handlers/: HTTP request handlers
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Surfaces
//
// The API exposes three groups of endpoints:
//
// - /messages/*: the cross-context message protocol (import, duplicate
//   check, recipe detection, popup)
// - /pages/*: page lifecycle, permission warnings, and the button-mount
//   pipeline
// - /settings, /sites, /send-current: the popup surface
//
// # Key Features
//
// 1. Automatic OpenAPI Generation
//
// The API automatically generates OpenAPI 3.0 documentation:
// - JSON spec available at /openapi.json
// - Interactive Swagger UI at /docs
//
// 2. Request/Response Validation
//
// Huma provides automatic validation based on struct tags:
//
//	type MessageInput struct {
//	    Body struct {
//	        URL string `json:"url" minLength:"1"`
//	    }
//	}
//
// 3. Middleware Support
//
// The API includes middleware for:
// - Request logging with unique request IDs
// - Rate limiting per client IP
// - CORS handling
//
// # Error Handling
//
// The API uses a consistent error format based on RFC 7807. Domain
// errors are automatically mapped to appropriate HTTP status codes.
// Import failures are not HTTP errors: the coordinator's replies are
// closed shapes carrying fixed generic error strings.
package api
