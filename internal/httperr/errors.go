package httperr

import (
	"errors"
	"fmt"
)

// ===============================
// Error kinds
// ===============================

type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindConfig     Kind = "config"
	KindDatabase   Kind = "database"
)

// Machine-readable codes carried to the caller.
const (
	CodeSlotOverlap       = "SLOT_OVERLAP"
	CodeSlotNotFound      = "SLOT_NOT_FOUND"
	CodeSlotNotAvailable  = "SLOT_NOT_AVAILABLE"
	CodeBookingNotFound   = "BOOKING_NOT_FOUND"
	CodeBookingConflict   = "BOOKING_CONFLICT"
	CodeIllegalTransition = "ILLEGAL_TRANSITION"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeConfigError       = "CONFIG_ERROR"
)

// AppError is the engine-wide error type. Kind drives the HTTP status
// and the retry policy (kinded errors are never retried), Code is the
// stable identifier exposed to clients.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ===============================
// Constructors
// ===============================

func Validation(code, message string) error {
	return &AppError{Kind: KindValidation, Code: code, Message: message}
}

func NotFound(code, message string) error {
	return &AppError{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) error {
	return &AppError{Kind: KindConflict, Code: code, Message: message}
}

func Config(code, message string) error {
	return &AppError{Kind: KindConfig, Code: code, Message: message}
}

func Database(message string, err error) error {
	return &AppError{Kind: KindDatabase, Code: CodeDatabaseError, Message: message, Err: err}
}

// ===============================
// Checks
// ===============================

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	if ae, ok := As(err); ok {
		return ae.Kind == kind
	}
	return false
}

func IsCode(err error, code string) bool {
	if ae, ok := As(err); ok {
		return ae.Code == code
	}
	return false
}
