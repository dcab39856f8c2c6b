package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP statuses by the handler layer.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")

	// ErrNoStudentSelected means the occurrence form was submitted without a
	// student confirmed from search results. Free-typed text in the name field
	// never satisfies this requirement, so it is reported separately from
	// field validation errors.
	ErrNoStudentSelected = errors.New("no student selected")

	// ErrDeliveryFailed means the webhook could not be delivered after the
	// retry bound was exhausted. The submission record carries the details.
	ErrDeliveryFailed = errors.New("delivery failed")
)

// DirectoryFetchError wraps failures reading the external student directory.
type DirectoryFetchError struct {
	Resource string
	Err      error
}

func (e *DirectoryFetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s from directory: %v", e.Resource, e.Err)
}

func (e *DirectoryFetchError) Unwrap() error {
	return e.Err
}

func NewDirectoryFetchError(resource string, err error) *DirectoryFetchError {
	return &DirectoryFetchError{Resource: resource, Err: err}
}
