// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to appropriate HTTP responses

package handlers

import (
	"github.com/danielgtaylor/huma/v2"

	"mealie-bridge-api/core/errors"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors.
// The underlying error is never attached to the response: network and API
// failures carry raw transport detail (dial targets, DNS text) that must
// not cross this boundary. Only our own typed validation messages are
// safe to echo.
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	// Check for specific error types
	if errors.IsConfigurationMissing(err) {
		return huma.Error400BadRequest(err.Error())
	}

	if errors.IsValidation(err) {
		return huma.Error400BadRequest(err.Error())
	}

	if errors.IsPermissionDenied(err) {
		return huma.Error403Forbidden(err.Error())
	}

	if errors.IsNetwork(err) {
		return huma.Error503ServiceUnavailable("Mealie server unreachable")
	}

	if errors.IsAPI(err) {
		// Map Mealie status codes to our API status codes
		switch status := errors.APIStatus(err); {
		case status >= 500:
			return huma.Error503ServiceUnavailable("Mealie server error")
		case status == 429:
			return huma.Error429TooManyRequests("Rate limited by Mealie server")
		case status == 401 || status == 403:
			return huma.Error400BadRequest("Mealie rejected the API token")
		case status >= 400:
			return huma.Error400BadRequest("Mealie request error")
		default:
			return huma.Error500InternalServerError("Unexpected Mealie response")
		}
	}

	// Default to internal server error for unknown errors
	return huma.Error500InternalServerError("Internal server error")
}
