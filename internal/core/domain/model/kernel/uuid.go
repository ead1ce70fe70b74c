package kernel

import (
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed indicates that a UUID was not initialized through
// one of the constructor functions. Returned when validating a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID is a value object wrapping github.com/google/uuid to provide
// domain-specific behavior and immutability. It identifies entities and
// aggregates throughout the dispatch domain.
//
// The zero value is invalid; use NewUUID, UUIDFromString, or UUIDFromBytes.
// UUID is immutable and safe for concurrent use.
//
// Example:
//
//	id := kernel.NewUUID()
//	same, _ := kernel.UUIDFromString(id.String())
//	id.IsEqual(same) // true
type UUID struct {
	value uuid.UUID
	guard guard.ConstructorGuard
}

// NewUUID generates a new random (version 4) UUID.
func NewUUID() UUID {
	return UUID{
		value: uuid.New(),
		guard: guard.NewConstructorGuard(),
	}
}

// UUIDFromString parses the canonical string form of a UUID.
// Returns a validation error for malformed input.
func UUIDFromString(s string) (UUID, error) {
	if s == "" {
		return UUID{}, errs.NewValueIsRequiredError("uuid string")
	}

	parsed, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid string", err)
	}

	return UUID{value: parsed, guard: guard.NewConstructorGuard()}, nil
}

// UUIDFromBytes reconstructs a UUID from its 16-byte representation.
// Used when rehydrating aggregates from persistence.
func UUIDFromBytes(b []byte) (UUID, error) {
	parsed, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid bytes", err)
	}

	return UUID{value: parsed, guard: guard.NewConstructorGuard()}, nil
}

// Validate checks that the UUID was created through a constructor.
func (u UUID) Validate() error {
	return u.guard.Validate(ErrUUIDIsNotConstructed)
}

// IsEqual reports whether two UUIDs hold the same value.
func (u UUID) IsEqual(other UUID) bool {
	return u.value == other.value
}

// String returns the canonical string representation of the UUID.
func (u UUID) String() string {
	return u.value.String()
}

// Bytes returns the underlying uuid.UUID value for persistence mapping.
func (u UUID) Bytes() uuid.UUID {
	return u.value
}
