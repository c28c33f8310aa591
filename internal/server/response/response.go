// Package response provides the JSON envelope of the servicesync ops
// server. Successful responses carry a data field and failures an error
// field.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/agentstation/servicesync/pkg/errors"
)

// Response is the envelope of every JSON response.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error is an API error with a stable code.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{Error: &Error{Code: code, Message: message, Details: details}}
}

// JSON writes resp with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding error cannot be reported.
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// Unauthorized writes a 401 error response.
func Unauthorized(w http.ResponseWriter, details string) {
	JSON(w, http.StatusUnauthorized, Fail("UNAUTHORIZED", "Invalid or missing API key", details))
}

// InternalError writes a 500 error response without exposing err.
func InternalError(w http.ResponseWriter) {
	JSON(w, http.StatusInternalServerError, Fail(
		"INTERNAL_ERROR",
		"Internal server error",
		"An unexpected error occurred",
	))
}

// ErrorFromType maps servicesync errors to HTTP responses.
func ErrorFromType(w http.ResponseWriter, err error) {
	var tgErr *pkgerrors.TargetGroupError
	switch {
	case errors.Is(err, pkgerrors.ErrImportInProgress):
		JSON(w, http.StatusConflict, Fail("IMPORT_IN_PROGRESS", "Import already in progress", ""))
	case errors.As(err, &tgErr):
		JSON(w, http.StatusUnprocessableEntity, Fail("UNRECOGNIZED_TARGET_GROUP", tgErr.Error(), ""))
	case pkgerrors.IsValidationError(err):
		JSON(w, http.StatusBadRequest, Fail("BAD_REQUEST", err.Error(), ""))
	case pkgerrors.IsNotFound(err):
		JSON(w, http.StatusNotFound, Fail("NOT_FOUND", err.Error(), ""))
	case pkgerrors.IsRegistryUnavailable(err):
		JSON(w, http.StatusBadGateway, Fail("REGISTRY_UNAVAILABLE", "Registry unavailable", err.Error()))
	case errors.Is(err, pkgerrors.ErrStoreUnavailable):
		JSON(w, http.StatusServiceUnavailable, Fail("STORE_UNAVAILABLE", "Catalog store unavailable", ""))
	default:
		InternalError(w)
	}
}
