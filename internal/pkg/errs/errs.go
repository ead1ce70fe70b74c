package errs

import (
	"fmt"
	"strings"
)

// sanitize collapses control characters so multi-line values cannot break
// log lines or error messages.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

/* ValueIsRequiredError */

// ErrValueIsRequired is the sentinel for missing required values.
var ErrValueIsRequired = fmt.Errorf("value is required")

// ValueIsRequiredError indicates that a required parameter was not provided.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError for the named parameter.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, sanitize(e.ParamName), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, sanitize(e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

/* ValueIsInvalidError */

// ErrValueIsInvalid is the sentinel for malformed values.
var ErrValueIsInvalid = fmt.Errorf("value is invalid")

// ValueIsInvalidError indicates that a parameter value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError for the named parameter.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, sanitize(e.ParamName), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, sanitize(e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

/* ValueIsOutOfRangeError */

// ErrValueIsOutOfRange is the sentinel for values outside their allowed bounds.
var ErrValueIsOutOfRange = fmt.Errorf("value is out of range")

// ValueIsOutOfRangeError indicates that a numeric value lies outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError with the offending value and bounds.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsOutOfRange, sanitize(e.Value), sanitize(e.ParamName), sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %s)", msg, sanitize(e.Cause))
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

/* ObjectNotFoundError */

// ErrObjectNotFound is the sentinel for lookups that matched nothing.
var ErrObjectNotFound = fmt.Errorf("object not found")

// ObjectNotFoundError indicates that no object exists for the given identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError for the named parameter and identifier.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, sanitize(e.ParamName), sanitize(e.ID), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

/* VersionConflictError */

// ErrVersionConflict is the sentinel for optimistic concurrency collisions.
// Callers own the retry policy: re-read the aggregate and reapply the change.
var ErrVersionConflict = fmt.Errorf("version conflict")

// VersionConflictError indicates that a mutation carried a stale version token.
// Exactly one of two concurrent writers with the same expected version wins;
// the loser receives this error and must re-read before retrying.
type VersionConflictError struct {
	ParamName string
	ID        any
	Expected  int
}

// NewVersionConflictError creates a VersionConflictError for the named aggregate.
func NewVersionConflictError(paramName string, id any, expected int) *VersionConflictError {
	return &VersionConflictError{ParamName: paramName, ID: id, Expected: expected}
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s, expected version %d",
		ErrVersionConflict, sanitize(e.ParamName), sanitize(e.ID), e.Expected)
}

func (e *VersionConflictError) Unwrap() error {
	return ErrVersionConflict
}

/* InvalidTransitionError */

// ErrInvalidTransition is the sentinel for state machine violations.
var ErrInvalidTransition = fmt.Errorf("invalid transition")

// InvalidTransitionError indicates an attempt to move a state machine along
// an edge the transition table does not allow. The message names the current
// and the attempted state.
type InvalidTransitionError struct {
	From string
	To   string
}

// NewInvalidTransitionError creates an InvalidTransitionError naming the rejected edge.
func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, sanitize(e.From), sanitize(e.To))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

/* DuplicateDriverError */

// ErrDuplicateDriver is the sentinel for registering an already known driver.
var ErrDuplicateDriver = fmt.Errorf("driver already registered")

// DuplicateDriverError indicates that a driver with the given ID already exists.
type DuplicateDriverError struct {
	ID any
}

// NewDuplicateDriverError creates a DuplicateDriverError for the given driver ID.
func NewDuplicateDriverError(id any) *DuplicateDriverError {
	return &DuplicateDriverError{ID: id}
}

func (e *DuplicateDriverError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateDriver, sanitize(e.ID))
}

func (e *DuplicateDriverError) Unwrap() error {
	return ErrDuplicateDriver
}
