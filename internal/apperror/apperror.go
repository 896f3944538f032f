package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindConflict   Kind = "conflict"
	KindInternal   Kind = "internal"
)

// Error carries the failure kind so controllers can map it to a status code
// without inspecting messages.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code so sentinel values like ErrNotAssigned work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

func (e *Error) HTTPStatus() int {
	// an invalid transition is a state conflict, not a malformed request
	if e.Code == ErrInvalidTransition.Code {
		return http.StatusConflict
	}

	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (e *Error) WithField(field string) *Error {
	cp := *e
	cp.Field = field
	return &cp
}

func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

func Validation(msg string, err error) *Error {
	return &Error{Kind: KindValidation, Code: "validation", Message: msg, Err: err}
}

func NotFound(msg string, err error) *Error {
	return &Error{Kind: KindNotFound, Code: "not_found", Message: msg, Err: err}
}

func Forbidden(msg string, err error) *Error {
	return &Error{Kind: KindForbidden, Code: "forbidden", Message: msg, Err: err}
}

func Conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Code: "conflict", Message: msg, Err: err}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal", Message: msg, Err: err}
}

var (
	ErrInvalidStatus     = &Error{Kind: KindValidation, Code: "invalid_status", Message: "selection status is not allowed", Field: "selection_status"}
	ErrInvalidTransition = &Error{Kind: KindValidation, Code: "invalid_transition", Message: "movie status does not allow this transition", Field: "selection_status"}
	ErrInvalidNote       = &Error{Kind: KindValidation, Code: "invalid_note", Message: "note must be a finite number", Field: "note"}
	ErrMissingComment    = &Error{Kind: KindValidation, Code: "missing_comment", Message: "comments are required", Field: "comments"}
	ErrMissingField      = &Error{Kind: KindValidation, Code: "missing_field", Message: "required field is missing"}
	ErrDurationTooLong   = &Error{Kind: KindValidation, Code: "duration_too_long", Message: "duration must not exceed 120 seconds", Field: "duration"}
	ErrNotAssigned       = &Error{Kind: KindForbidden, Code: "not_assigned", Message: "jury is not assigned to this movie"}
	ErrVoteExists        = &Error{Kind: KindConflict, Code: "vote_exists", Message: "vote already exists for this movie and jury"}
	ErrEventFull         = &Error{Kind: KindConflict, Code: "event_full", Message: "not enough seats left for this event", Field: "seats"}
)

// FromGorm maps gorm sentinels to kinds. Unknown errors become Internal.
func FromGorm(err error, what string) error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(what+" not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(what+" already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Validation(what+" references a missing record", err)
	default:
		return Internal("failed to process "+what, err)
	}
}

// KindOf returns KindInternal for errors that are not *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}
