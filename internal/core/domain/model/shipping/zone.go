package shipping

import (
	"errors"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone")

// ZoneFields is the writable part of a zone.
type ZoneFields struct {
	Name       string
	Active     bool
	Priority   int
	Inclusions []string
	Exclusions []string
}

// Zone is a named geographic region. A zone with no inclusions covers every
// address not excluded.
type Zone struct {
	id         kernel.UUID
	name       string
	active     bool
	priority   int
	inclusions []LocationPattern
	exclusions []LocationPattern
	createdAt  time.Time

	isConstructed bool
}

func NewZone(id kernel.UUID, f ZoneFields, createdAt time.Time) (*Zone, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	z := &Zone{id: id, createdAt: createdAt, isConstructed: true}
	if err := z.Update(f); err != nil {
		return nil, err
	}
	return z, nil
}

// Update replaces the writable fields after validating them.
func (z *Zone) Update(f ZoneFields) error {
	name := strings.TrimSpace(f.Name)
	var nameErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("zone name")
	}
	inclusions, inErr := ParsePatterns(f.Inclusions)
	exclusions, exErr := ParsePatterns(f.Exclusions)
	if err := errors.Join(nameErr, inErr, exErr); err != nil {
		return err
	}

	z.name = name
	z.active = f.Active
	z.priority = f.Priority
	z.inclusions = inclusions
	z.exclusions = exclusions
	return nil
}

func (z *Zone) Validate() error {
	if z == nil || !z.isConstructed {
		return ErrZoneIsNotConstructed
	}
	return nil
}

func (z *Zone) ID() kernel.UUID               { return z.id }
func (z *Zone) Name() string                  { return z.name }
func (z *Zone) IsActive() bool                { return z.active }
func (z *Zone) Priority() int                 { return z.priority }
func (z *Zone) CreatedAt() time.Time          { return z.createdAt }
func (z *Zone) Inclusions() []LocationPattern { return slices.Clone(z.inclusions) }
func (z *Zone) Exclusions() []LocationPattern { return slices.Clone(z.exclusions) }
func (z *Zone) InclusionStrings() []string    { return patternStrings(z.inclusions) }
func (z *Zone) ExclusionStrings() []string    { return patternStrings(z.exclusions) }

// Covers applies exclusions first, then inclusions.
func (z *Zone) Covers(addr kernel.Address) bool {
	for _, p := range z.exclusions {
		if p.Matches(addr) {
			return false
		}
	}
	if len(z.inclusions) == 0 {
		return true
	}
	for _, p := range z.inclusions {
		if p.Matches(addr) {
			return true
		}
	}
	return false
}
