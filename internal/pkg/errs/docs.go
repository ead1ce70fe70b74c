// Package errs provides standardized error types for the dispatch application.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// Error types fall into two groups:
//
// Input validation:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is malformed
//   - ValueIsOutOfRangeError: a numeric value is outside its bounds
//
// Domain operations:
//   - ObjectNotFoundError: an aggregate cannot be found by its identifier
//   - VersionConflictError: an optimistic concurrency collision; recoverable
//     by re-reading the aggregate and retrying
//   - InvalidTransitionError: a state machine violation, naming the current
//     and the attempted state
//   - DuplicateDriverError: a driver registration for an already known ID
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrVersionConflict) usable with errors.Is
//   - A struct type with fields for error details
//   - Constructor functions, with and without cause where a cause makes sense
//   - Error() for formatting and Unwrap() returning the sentinel
package errs
