package store

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindIO
	KindSchema
	KindAmbiguous
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindIO:
		return "io"
	case KindSchema:
		return "schema"
	case KindAmbiguous:
		return "ambiguous"
	case KindConflict:
		return "conflict"
	}
	return "unknown"
}

// FieldError is used to indicate an error with a specific record field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is what every store operation returns on failure.
type Error struct {
	Kind   Kind
	Op     string
	Name   string
	Fields []FieldError
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("store")
	if e.Op != "" {
		b.WriteString(": " + e.Op)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, " %q", e.Name)
	}
	b.WriteString(": " + e.Kind.String())
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the bare sentinels below by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Op == "" && t.Kind == e.Kind
}

var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrValidation = &Error{Kind: KindValidation}
	ErrIO         = &Error{Kind: KindIO}
	ErrSchema     = &Error{Kind: KindSchema}
	ErrAmbiguous  = &Error{Kind: KindAmbiguous}
	ErrConflict   = &Error{Kind: KindConflict}
)

// KindOf returns the kind of a store error, or 0 for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// FieldsOf returns per-field validation details, if any.
func FieldsOf(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// Message is the text shown to a person when an operation fails.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return "Something went wrong: " + err.Error()
	}
	who := "the record"
	if e.Name != "" {
		who = fmt.Sprintf("%q", e.Name)
	}
	switch e.Kind {
	case KindNotFound:
		if e.Op == "check out" {
			return fmt.Sprintf("%s is not checked in.", who)
		}
		return fmt.Sprintf("No child named %s was found.", who)
	case KindValidation:
		if len(e.Fields) == 0 {
			return "Some fields are missing or invalid."
		}
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = f.Field + ": " + f.Message
		}
		return "Please fix: " + strings.Join(parts, "; ") + "."
	case KindIO:
		return "The data files could not be read or written. Check that the data folder exists and is writable."
	case KindSchema:
		return "The data file layout could not be upgraded."
	case KindAmbiguous:
		return fmt.Sprintf("More than one record matches %s; fix the duplicates before changing it.", who)
	case KindConflict:
		if e.Op == "check in" {
			return fmt.Sprintf("%s is already checked in.", who)
		}
		return fmt.Sprintf("A child named %s is already registered.", who)
	}
	return e.Error()
}
