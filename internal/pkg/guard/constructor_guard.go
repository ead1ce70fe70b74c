// Package guard provides a defensive construction pattern for domain objects.
// Embedding a ConstructorGuard in a struct makes zero-value instances
// detectable, so entities and value objects can enforce creation through
// their designated constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the object was not
// created through its constructor and no specific error was provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard distinguishes properly constructed objects from zero values.
// The guard holds an internal flag that is only set by NewConstructorGuard,
// which constructors call to mark the enclosing object as valid.
//
// Example usage:
//
//	type Priority struct {
//	    level int
//	    guard guard.ConstructorGuard
//	}
//
//	func NewPriority(level int) (Priority, error) {
//	    if level < 0 {
//	        return Priority{}, errors.New("level must not be negative")
//	    }
//	    return Priority{level: level, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (p Priority) Validate() error {
//	    return p.guard.Validate(ErrPriorityIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard that marks its enclosing object as
// properly constructed. Call this in every domain constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the guarded object was created through its
// constructor. For zero-value objects it returns validationError, or
// ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
