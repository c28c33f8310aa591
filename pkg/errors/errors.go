// Package errors provides custom error types for the servicesync system.
// These errors let callers tell fatal reconciliation failures apart from
// collaborator failures (registry, catalog store) with errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the servicesync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnrecognizedTargetGroup indicates a registry target group code with no mapping
	ErrUnrecognizedTargetGroup = errors.New("unrecognized target group code")

	// ErrUnknownCollection indicates an operation against a collection outside the writable set
	ErrUnknownCollection = errors.New("unknown collection name")

	// ErrRegistryUnavailable indicates that the registry could not serve the request
	ErrRegistryUnavailable = errors.New("registry unavailable")

	// ErrStoreUnavailable indicates that the catalog store could not serve the request
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	// ErrImportInProgress indicates that an import was triggered while another was running
	ErrImportInProgress = errors.New("import already in progress")
)

// TargetGroupError is returned when a raw target group code cannot be
// translated. It aborts the whole import run.
type TargetGroupError struct {
	Code      string
	ServiceID string
}

// Error implements the error interface
func (e *TargetGroupError) Error() string {
	if e.ServiceID != "" {
		return fmt.Sprintf("unrecognized target group %q in service %s", e.Code, e.ServiceID)
	}
	return fmt.Sprintf("unrecognized target group %q", e.Code)
}

// Is implements errors.Is support
func (e *TargetGroupError) Is(target error) bool {
	return target == ErrUnrecognizedTargetGroup
}

// NewTargetGroupError creates a new TargetGroupError
func NewTargetGroupError(code, serviceID string) *TargetGroupError {
	return &TargetGroupError{Code: code, ServiceID: serviceID}
}

// CollectionError is returned when a store operation names a collection
// outside the fixed writable set. It indicates a programming error.
type CollectionError struct {
	Collection string
	Operation  string
}

// Error implements the error interface
func (e *CollectionError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("collection %q not recognized for %s", e.Collection, e.Operation)
	}
	return fmt.Sprintf("collection %q not recognized", e.Collection)
}

// Is implements errors.Is support
func (e *CollectionError) Is(target error) bool {
	return target == ErrUnknownCollection
}

// NewCollectionError creates a new CollectionError
func NewCollectionError(collection, operation string) *CollectionError {
	return &CollectionError{Collection: collection, Operation: operation}
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error from the registry API
type APIError struct {
	Registry   string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Registry, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Registry, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if target != ErrRegistryUnavailable {
		return false
	}
	return e.StatusCode == 0 || e.StatusCode >= http.StatusInternalServerError
}

// NewAPIError creates a new APIError
func NewAPIError(registry string, statusCode int, message string) *APIError {
	return &APIError{
		Registry:   registry,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "timestamp"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "fetch", "load", "replace", "query"
	Resource  string // "services", "channel", "municipalities"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnrecognizedTargetGroup checks if an error aborted a run on a target group code
func IsUnrecognizedTargetGroup(err error) bool {
	return errors.Is(err, ErrUnrecognizedTargetGroup)
}

// IsUnknownCollection checks if an error names a collection outside the writable set
func IsUnknownCollection(err error) bool {
	return errors.Is(err, ErrUnknownCollection)
}

// IsRegistryUnavailable checks if an error indicates registry unavailability
func IsRegistryUnavailable(err error) bool {
	return errors.Is(err, ErrRegistryUnavailable)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(registry, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Registry: registry,
		Endpoint: endpoint,
		Message:  err.Error(),
		Err:      err,
	}
}
