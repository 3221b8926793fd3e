package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Resource string
		ID       string
	}

	// ValidationError indicates invalid input. Field names the offending
	// input field when the error can be attached to one.
	ValidationError struct {
		Field   string
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates the caller lacks a required grant
	ForbiddenError struct {
		Permission string
		Message    string
	}
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *UnauthorizedError) Error() string { return e.Message }

func (e *ForbiddenError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("permission %s required", e.Permission)
}

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Is lets errors.Is() match the typed errors against their sentinels
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// DuplicateLabelError reports a label collision among sibling cabinets.
type DuplicateLabelError struct {
	Label      string
	ParentID   *string // nil when the collision is among root cabinets
	ExistingID string  // ID of the cabinet already holding the label, if known
}

// Error implements the error interface
func (e *DuplicateLabelError) Error() string {
	if e.ParentID == nil {
		return fmt.Sprintf("a root cabinet labeled %q already exists", e.Label)
	}
	return fmt.Sprintf("a cabinet labeled %q already exists under this parent", e.Label)
}

// StatusCode implements the HTTPError interface
func (e *DuplicateLabelError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *DuplicateLabelError) Is(target error) bool {
	return target == ErrConflict
}

// NewNotFound builds a NotFoundError for the given resource kind and ID.
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewValidation builds a field-level ValidationError.
func NewValidation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewForbidden builds a ForbiddenError for a missing permission.
func NewForbidden(permission string) error {
	return &ForbiddenError{Permission: permission}
}
