// ABOUTME: Custom error types for the core business logic
// ABOUTME: Provides the failure taxonomy shared by the API client and coordinator

package errors

import (
	"errors"
	"fmt"
)

// ConfigurationMissingError indicates the Mealie server URL or API token
// is not configured. It is always resolved by directing the user to the
// settings UI, never by attempting a network call.
type ConfigurationMissingError struct {
	Field string
}

// Error implements the error interface
func (e *ConfigurationMissingError) Error() string {
	return fmt.Sprintf("configuration missing: %s", e.Field)
}

// NetworkError represents a transport-level failure (connection refused,
// DNS failure, timeout) talking to the Mealie server.
type NetworkError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError represents a non-2xx response from the Mealie server
type APIError struct {
	StatusCode int
	Endpoint   string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("mealie API error: %s returned %d", e.Endpoint, e.StatusCode)
}

// ValidationError indicates user-supplied input failed validation
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PermissionDeniedError indicates the host platform refused the page
// access required to inject the content controller.
type PermissionDeniedError struct {
	Origin string
}

// Error implements the error interface
func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied for origin %s", e.Origin)
}

// IsConfigurationMissing checks if an error is a ConfigurationMissingError
func IsConfigurationMissing(err error) bool {
	var cfgErr *ConfigurationMissingError
	return errors.As(err, &cfgErr)
}

// IsNetwork checks if an error is a NetworkError
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsAPI checks if an error is an APIError
func IsAPI(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// APIStatus returns the status code of an APIError, or 0 if the error
// is not one.
func APIStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsPermissionDenied checks if an error is a PermissionDeniedError
func IsPermissionDenied(err error) bool {
	var permErr *PermissionDeniedError
	return errors.As(err, &permErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
