// Package util holds the error types and context helpers shared by the
// routing packages.
//
// # Errors
//
// Stable, well-known conditions are sentinel errors checked with
// errors.Is (ErrUnsupportedMethod, ErrInvalidCacheData). Errors that
// carry context are structured types (CacheDataError, ConfigError) whose
// Is method matches both the concrete type and the corresponding
// sentinel, so callers can branch on either. One-off context is added
// with fmt.Errorf and %w rather than a new type.
package util

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedMethod = errors.New("unsupported http method")
	ErrInvalidCacheData  = errors.New("invalid cache data")
	ErrConfigInvalid     = errors.New("invalid configuration")
)

// UnsupportedMethodError is returned when a forced or resolved HTTP method
// is outside the supported set.
type UnsupportedMethodError struct {
	Method string
}

// Error implements the error interface.
func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unsupported http method: %s", e.Method)
}

// Is checks if the error matches the target.
func (e *UnsupportedMethodError) Is(target error) bool {
	if target == ErrUnsupportedMethod {
		return true
	}
	_, ok := target.(*UnsupportedMethodError)
	return ok
}

// NewUnsupportedMethodError creates a new UnsupportedMethodError.
func NewUnsupportedMethodError(method string) *UnsupportedMethodError {
	return &UnsupportedMethodError{Method: method}
}

// CacheDataError is returned when a compiled callback table loaded from the
// cache is malformed.
type CacheDataError struct {
	Filename string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *CacheDataError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("invalid cache data in %s: %s", e.Filename, e.Message)
	}
	return fmt.Sprintf("invalid cache data: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *CacheDataError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *CacheDataError) Is(target error) bool {
	if target == ErrInvalidCacheData {
		return true
	}
	_, ok := target.(*CacheDataError)
	return ok || errors.Is(e.Cause, target)
}

// NewCacheDataError creates a new CacheDataError.
func NewCacheDataError(filename, message string) *CacheDataError {
	return &CacheDataError{Filename: filename, Message: message}
}

// NewCacheDataErrorWithCause creates a new CacheDataError with a cause.
func NewCacheDataErrorWithCause(filename, message string, cause error) *CacheDataError {
	return &CacheDataError{Filename: filename, Message: message, Cause: cause}
}

// ConfigError represents a configuration-related error.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok || errors.Is(e.Cause, target)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// RouteNotFoundError is returned by the gateway when no configured class
// produces a match for a request.
type RouteNotFoundError struct {
	Method string
	Path   string
}

// Error implements the error interface.
func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route found for %s %s", e.Method, e.Path)
}

// Is checks if the error matches the target.
func (e *RouteNotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	_, ok := target.(*RouteNotFoundError)
	return ok
}

// NewRouteNotFoundError creates a new RouteNotFoundError.
func NewRouteNotFoundError(method, path string) *RouteNotFoundError {
	return &RouteNotFoundError{Method: method, Path: path}
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsClientError returns true if the error is a client error (4xx).
func IsClientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrNotFound) {
		return true
	}

	if errors.Is(err, ErrInvalidInput) {
		return true
	}

	return errors.Is(err, ErrUnsupportedMethod)
}

// IsServerError returns true if the error is a server error (5xx).
func IsServerError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrInvalidCacheData)
}
