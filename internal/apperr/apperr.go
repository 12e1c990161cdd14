// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the business error taxonomy shared by the
// builder and export subsystems. Codes are string-based for natural JSON
// serialization; validation errors carry field-level detail.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code classifies an error condition.
type Code string

const (
	// CodeValidation indicates a structural or SEO rule violation.
	// Recoverable by the caller; never retried automatically.
	CodeValidation Code = "VALIDATION"

	// CodeNotFound indicates a missing project, page, export, or artifact.
	CodeNotFound Code = "NOT_FOUND"

	// CodeConflict indicates an optimistic-concurrency mismatch, a
	// not-ready download attempt, or a duplicate in-flight request.
	CodeConflict Code = "CONFLICT"

	// CodeStorage indicates a blob store or archive failure. Fatal to the
	// current operation; the surrounding job runner decides on retries.
	CodeStorage Code = "STORAGE"

	// CodeForbidden indicates the caller lacks permission. Responses must
	// be constant-shape so resource existence does not leak.
	CodeForbidden Code = "FORBIDDEN"
)

// Error is a classified business error with optional field details.
type Error struct {
	Code    Code
	Message string
	Fields  map[string][]string // field path -> messages, validation only
	Err     error               // wrapped cause, if any
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	paths := make([]string, 0, len(e.Fields))
	for p := range e.Fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(paths, ", "))
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap classifies an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Validation creates a validation error scoped to a single field.
func Validation(field, message string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: message,
		Fields:  map[string][]string{field: {message}},
	}
}

// ValidationFields creates a validation error aggregating several fields.
func ValidationFields(message string, fields map[string][]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

// NotFound creates a not-found error for the named resource.
func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found"}
}

// CodeOf extracts the classification from err, or "" for plain errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return CodeOf(err) == CodeValidation }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return CodeOf(err) == CodeConflict }
