package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when a zero-value UUID is validated.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID or UUIDFromString")

// UUID identifies fulfillments, items, zones, methods and rates. It wraps
// github.com/google/uuid so the domain never depends on the nil UUID being a
// usable identifier.
//
// The zero value is the nil UUID and never passes Validate. Build one with
// NewUUID, UUIDFromString or UUIDFromGoogle.
//
// Example usage:
//
//	// a fresh identifier for a new aggregate
//	id := kernel.NewUUID()
//
//	// an identifier taken from a route parameter
//	id, err := kernel.UUIDFromString(ctx.Param("fulfillmentId"))
//	if err != nil {
//	    return err
//	}
//
// UUID implements encoding.TextMarshaler and encoding.TextUnmarshaler, so it
// appears as its canonical string in JSON and YAML.
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random (version 4) identifier.
//
// Example:
//
//	rateID := kernel.NewUUID()
//	fmt.Println(rateID) // e.g. "6f1c2a9e-3b7d-4f0a-9c55-1d2e3f4a5b6c"
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the canonical, braced, urn or hyphen-less forms.
//
// Returns:
//   - the parsed UUID on success
//   - an error wrapping the parser failure, prefixed "invalid UUID format"
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUID{id: id}, nil
}

// UUIDFromGoogle adopts an identifier produced by an adapter (HTTP binding,
// database scan).
//
// Returns:
//   - the wrapped UUID for any non-nil input
//   - ErrUUIDIsNotConstructed for uuid.Nil
func UUIDFromGoogle(id uuid.UUID) (UUID, error) {
	u := UUID{id: id}
	if err := u.Validate(); err != nil {
		return UUID{}, err
	}
	return u, nil
}

func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns a copy of the underlying google UUID.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

func (u UUID) MarshalText() ([]byte, error) {
	return u.id.MarshalText()
}

func (u *UUID) UnmarshalText(data []byte) error {
	parsed, err := UUIDFromString(string(data))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
