package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes. Every error returned by the store, report and export
// layers matches exactly one of these with errors.Is.
var (
	ErrDuplicateKey       = errors.New("already exists")
	ErrReference          = errors.New("referenced record does not exist")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrStorage            = errors.New("storage failure")
	ErrExport             = errors.New("export failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// FieldError is used to indicate an error with a specific field.
type FieldError struct {
	Field string
	Error string
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Field   string
	Fields  []FieldError
	Cause   error
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes both the error class and the underlying cause.
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewDuplicateKeyError reports a uniqueness violation on field.
func NewDuplicateKeyError(field string, cause error) error {
	msg := ErrDuplicateKey.Error()
	if field != "" {
		msg = fmt.Sprintf("%s already exists", field)
	}
	return &CustomError{Err: ErrDuplicateKey, Message: msg, Field: field, Cause: cause, Code: "duplicate_key"}
}

// NewReferenceError reports a dangling foreign key.
func NewReferenceError(field string, cause error) error {
	msg := ErrReference.Error()
	if field != "" {
		msg = fmt.Sprintf("%s: %s", field, ErrReference.Error())
	}
	return &CustomError{Err: ErrReference, Message: msg, Field: field, Cause: cause, Code: "reference"}
}

// NewNotFoundError reports that entity with the given id does not exist.
func NewNotFoundError(entity string, id interface{}) error {
	return &CustomError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s %v not found", entity, id),
		Code:    "not_found",
		Details: map[string]interface{}{"entity": entity, "id": id},
	}
}

// NewValidationError collects field level failures into a single error.
func NewValidationError(fields ...FieldError) error {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	msg := ErrValidation.Error()
	if len(parts) > 0 {
		msg += ": " + strings.Join(parts, "; ")
	}
	field := ""
	if len(fields) == 1 {
		field = fields[0].Field
	}
	return &CustomError{Err: ErrValidation, Message: msg, Field: field, Fields: fields, Code: "validation"}
}

// NewStorageError wraps a generic storage failure that occurred during op.
func NewStorageError(op string, cause error) error {
	return &CustomError{
		Err:     ErrStorage,
		Message: fmt.Sprintf("%s: %s: %v", ErrStorage.Error(), op, cause),
		Cause:   cause,
		Code:    "storage",
	}
}

// NewExportError wraps a failure to render format to path.
func NewExportError(format, path string, cause error) error {
	return &CustomError{
		Err:     ErrExport,
		Message: fmt.Sprintf("%s export to %s failed: %v", format, path, cause),
		Cause:   cause,
		Code:    "export",
		Details: map[string]interface{}{"format": format, "path": path},
	}
}

// FieldErrors returns the field level failures carried by err, if any.
func FieldErrors(err error) []FieldError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Fields
	}
	return nil
}

// UserMessage renders err as a single line suitable for an end user.
func UserMessage(err error) string {
	var ce *CustomError
	if !errors.As(err, &ce) {
		return err.Error()
	}
	switch {
	case errors.Is(ce, ErrDuplicateKey):
		if ce.Field != "" {
			return fmt.Sprintf("A record with this %s already exists", strings.ReplaceAll(ce.Field, "_", " "))
		}
		return "A record with these values already exists"
	case errors.Is(ce, ErrReference) && ce.Field != "":
		return "The selected " + strings.ReplaceAll(strings.TrimSuffix(ce.Field, "_id"), "_", " ") + " does not exist"
	}
	return ce.Error()
}
