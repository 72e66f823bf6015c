// Package apperror defines the client-visible error taxonomy and its wire payload.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Codes shared by every resource
const (
	CodeInvalidRequest         = "request.invalid"
	CodeMalformedRequest       = "request.malformed"
	CodeInvalidID              = "request.invalidId"
	CodeConcurrentModification = "resource.concurrentModification"
	CodeServerError            = "server.error"
)

// FieldError describes a single failed field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RestError is the body of every error response.
type RestError struct {
	Status        int          `json:"status"`
	Code          string       `json:"code"`
	Message       string       `json:"message"`
	DeveloperInfo string       `json:"developerInfo,omitempty"`
	FieldErrors   []FieldError `json:"fieldErrors,omitempty"`
}

// ValidationError is returned when a request fails shape or field validation.
// It is raised before any service call.
type ValidationError struct {
	Code        string
	Message     string
	FieldErrors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return e.Message
	}
	fields := make([]string, len(e.FieldErrors))
	for i, fe := range e.FieldErrors {
		fields[i] = fe.Field
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(fields, ", "))
}

// StatusCode returns the HTTP status code for this error.
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// EntityNotFoundError is returned when the requested identifier is absent from storage.
type EntityNotFoundError struct {
	ID            int64
	Code          string
	Message       string
	DeveloperInfo string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s (id %d)", e.Message, e.ID)
}

// StatusCode returns the HTTP status code for this error.
func (e *EntityNotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// NotFound builds an EntityNotFoundError for the given resource specific code
func NotFound(id int64, code, message string) *EntityNotFoundError {
	return &EntityNotFoundError{
		ID:            id,
		Code:          code,
		Message:       message,
		DeveloperInfo: fmt.Sprintf("no record with id %d", id),
	}
}

// DuplicatedPropertyError is returned when a write collides with a uniqueness rule.
type DuplicatedPropertyError struct {
	Property      string
	Value         string
	Code          string
	Message       string
	DeveloperInfo string
}

func (e *DuplicatedPropertyError) Error() string {
	return fmt.Sprintf("%s (%s %q)", e.Message, e.Property, e.Value)
}

// StatusCode returns the HTTP status code for this error.
func (e *DuplicatedPropertyError) StatusCode() int {
	return http.StatusConflict
}

// Duplicated builds a DuplicatedPropertyError for the given resource specific code
func Duplicated(property, value, code, message string) *DuplicatedPropertyError {
	return &DuplicatedPropertyError{
		Property:      property,
		Value:         value,
		Code:          code,
		Message:       message,
		DeveloperInfo: fmt.Sprintf("%s %q is already in use", property, value),
	}
}

// ConcurrentModificationError is returned when a record changed between read and write.
type ConcurrentModificationError struct {
	ID int64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("record %d was modified concurrently", e.ID)
}

// StatusCode returns the HTTP status code for this error.
func (e *ConcurrentModificationError) StatusCode() int {
	return http.StatusConflict
}

// StatusCodeError is an interface for errors that have an HTTP status code.
type StatusCodeError interface {
	error
	StatusCode() int
}

// ToRestError converts an error to a RestError.
// Unknown errors become a generic 500 without leaking their text.
func ToRestError(err error) *RestError {
	var (
		validation *ValidationError
		notFound   *EntityNotFoundError
		duplicated *DuplicatedPropertyError
		concurrent *ConcurrentModificationError
	)

	switch {
	case errors.As(err, &validation):
		return &RestError{
			Status:      validation.StatusCode(),
			Code:        validation.Code,
			Message:     validation.Message,
			FieldErrors: validation.FieldErrors,
		}
	case errors.As(err, &notFound):
		return &RestError{
			Status:        notFound.StatusCode(),
			Code:          notFound.Code,
			Message:       notFound.Message,
			DeveloperInfo: notFound.DeveloperInfo,
		}
	case errors.As(err, &duplicated):
		return &RestError{
			Status:        duplicated.StatusCode(),
			Code:          duplicated.Code,
			Message:       duplicated.Message,
			DeveloperInfo: duplicated.DeveloperInfo,
		}
	case errors.As(err, &concurrent):
		return &RestError{
			Status:        concurrent.StatusCode(),
			Code:          CodeConcurrentModification,
			Message:       "The record was modified by another request, fetch it and retry",
			DeveloperInfo: concurrent.Error(),
		}
	default:
		return &RestError{
			Status:  http.StatusInternalServerError,
			Code:    CodeServerError,
			Message: "Internal server error",
		}
	}
}
