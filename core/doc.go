// Package core contains the business logic of the Mealie bridge: the
// API client, the background coordinator, the content controller, and the
// settings service. Core packages depend only on the interfaces defined
// in core/interfaces, never on concrete infrastructure.
package core
