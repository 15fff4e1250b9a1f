package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is given.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built through its constructor so that zero
// values of commands, queries and entities can be told apart from real ones.
//
// Embed it in the guarded struct and set it in the constructor:
//
//	var ErrPickItemCommandIsNotConstructed = errors.New("PickItemCommand must be created via NewPickItemCommand")
//
//	type PickItemCommand struct {
//	    fulfillmentID kernel.UUID
//	    guard         guard.ConstructorGuard
//	}
//
//	func NewPickItemCommand(fulfillmentID kernel.UUID) (PickItemCommand, error) {
//	    return PickItemCommand{fulfillmentID: fulfillmentID, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c PickItemCommand) Validate() error {
//	    return c.guard.Validate(ErrPickItemCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that reports the owning value as
// constructed. Call it only from the constructor of the guarded type, after
// every field check has passed.
//
// Example:
//
//	func NewGetFulfillmentQuery(fulfillmentID kernel.UUID) (GetFulfillmentQuery, error) {
//	    if err := fulfillmentID.Validate(); err != nil {
//	        return GetFulfillmentQuery{}, err
//	    }
//	    return GetFulfillmentQuery{fulfillmentID: fulfillmentID, guard: guard.NewConstructorGuard()}, nil
//	}
//
// Returns:
//   - a ConstructorGuard whose Validate always returns nil
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate reports whether the owning value came from its constructor. Handlers
// call it through the owner's Validate before touching any field.
//
// Parameters:
//   - validationError: the error the owner wants reported for a zero value
//
// Returns:
//   - nil when the guard was built by NewConstructorGuard, including copies of it
//   - validationError for a zero-value guard
//   - ErrDefaultConstructorGuard for a zero-value guard when validationError is nil
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
