package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateRoute         = errors.New("route already exists")
	ErrSelfLoopRoute          = errors.New("source and destination must be different airports")
	ErrAsymmetricDistance     = errors.New("distance must match the reverse route")
	ErrArrivalBeforeDeparture = errors.New("arrival time must be later than departure time")
	ErrTooCloseToCreate       = errors.New("flights must be created no later than a day before departure")
	ErrDepartureInPast        = errors.New("departure time must be in future")
	ErrRowOutOfRange          = errors.New("row out of range")
	ErrSeatOutOfRange         = errors.New("seat out of range")
	ErrSeatTaken              = errors.New("seat is already taken")
	ErrSeatMapConflict        = errors.New("sold tickets do not fit the seat map")
	ErrEmptyOrder             = errors.New("order must contain at least one ticket")
	ErrInvalidField           = errors.New("invalid value")
	ErrEmailTaken             = errors.New("user with this email already exists")

	ErrUnauthorized   = errors.New("authentication credentials were not provided or are invalid")
	ErrForbidden      = errors.New("you do not have permission to perform this action")
	ErrFlightDeparted = errors.New("flight has already departed")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflicting concurrent update")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrDuplicateRoute, "duplicate_route"},
	{ErrSelfLoopRoute, "self_loop_route"},
	{ErrAsymmetricDistance, "asymmetric_distance"},
	{ErrArrivalBeforeDeparture, "arrival_before_departure"},
	{ErrTooCloseToCreate, "too_close_to_create"},
	{ErrDepartureInPast, "departure_in_past"},
	{ErrRowOutOfRange, "row_out_of_range"},
	{ErrSeatOutOfRange, "seat_out_of_range"},
	{ErrSeatTaken, "seat_taken"},
	{ErrSeatMapConflict, "seat_map_conflict"},
	{ErrEmptyOrder, "empty_order"},
	{ErrEmailTaken, "email_taken"},
	{ErrFlightDeparted, "flight_departed"},
	{ErrNotFound, "not_found"},
	{ErrConflict, "conflict"},
}

// Code returns a stable machine-readable identifier for err.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "invalid"
}

// FieldError ties a rule violation to the input field that caused it.
type FieldError struct {
	Field   string
	Err     error
	Message string
}

func (e FieldError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Field == "" {
		return msg
	}
	return e.Field + ": " + msg
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// ValidationError collects every field error found while checking one input.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(field string, err error, format string, args ...any) *ValidationError {
	v := &ValidationError{}
	v.Add(field, err, format, args...)
	return v
}

func (e *ValidationError) Add(field string, err error, format string, args ...any) {
	msg := ""
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	e.Fields = append(e.Fields, FieldError{Field: field, Err: err, Message: msg})
}

// Merge copies the field errors of err under prefix. Errors that are not
// validation errors are recorded as a single field error.
func (e *ValidationError) Merge(prefix string, err error) {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		e.Fields = append(e.Fields, FieldError{Field: prefix, Err: err})
		return
	}
	for _, f := range verr.Fields {
		name := prefix
		if f.Field != "" {
			if name != "" {
				name += "."
			}
			name += f.Field
		}
		e.Fields = append(e.Fields, FieldError{Field: name, Err: f.Err, Message: f.Message})
	}
}

// OrNil returns nil when nothing was collected.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, f := range e.Fields {
		errs = append(errs, f)
	}
	return errs
}

type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ConflictError reports a uniqueness or serialization failure raised by the
// store after application checks had passed.
type ConflictError struct {
	Constraint string
	Err        error
}

func (e *ConflictError) Error() string {
	if e.Err == nil {
		return ErrConflict.Error()
	}
	return e.Err.Error()
}

func (e *ConflictError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConflict}
	}
	return []error{ErrConflict, e.Err}
}
