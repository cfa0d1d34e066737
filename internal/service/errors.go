package service

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a service failure so the HTTP layer can pick a status.
type Kind int

const (
	KindInvalidArgument Kind = iota + 1 // malformed identifier or missing patch document
	KindValidation                      // field constraint violation or duplicate nombre
	KindNotFound                        // no villa with the requested id
	KindInternal                        // invariant violation, e.g. client-supplied id on create
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

// Error is returned for every expected failure of VillaService.  Fields
// carries per-field messages for validation failures, keyed by field name
// (or NombreExiste for a duplicate name).
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(keys, ", "))
}

// KindOf returns the Kind of err, or 0 when err is not a service error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

func invalidArgument(msg string) *Error { return &Error{Kind: KindInvalidArgument, Message: msg} }
func notFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func internal(msg string) *Error        { return &Error{Kind: KindInternal, Message: msg} }

func validationFailed(fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// nombreTaken is the failure for a name already used by another villa.
func nombreTaken() *Error {
	return validationFailed(map[string][]string{
		"NombreExiste": {"a villa with that name already exists"},
	})
}
