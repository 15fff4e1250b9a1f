package kernel

import (
	"errors"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress")

// AddressFields is the raw input for NewAddress. Only Country is mandatory,
// which lets a shipping quote carry a partial destination.
type AddressFields struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Address is a postal address. Country is an upper-case ISO 3166-1 alpha-2 code.
type Address struct {
	name       string
	line1      string
	line2      string
	city       string
	state      string
	postalCode string
	country    string

	guard guard.ConstructorGuard
}

func NewAddress(f AddressFields) (Address, error) {
	country := strings.ToUpper(strings.TrimSpace(f.Country))
	if country == "" {
		return Address{}, errs.NewValueIsRequiredError("country")
	}
	if len(country) != 2 {
		return Address{}, errs.NewValueIsInvalidError("country")
	}
	return Address{
		name:       strings.TrimSpace(f.Name),
		line1:      strings.TrimSpace(f.Line1),
		line2:      strings.TrimSpace(f.Line2),
		city:       strings.TrimSpace(f.City),
		state:      strings.TrimSpace(f.State),
		postalCode: strings.TrimSpace(f.PostalCode),
		country:    country,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (a Address) Name() string       { return a.name }
func (a Address) Line1() string      { return a.line1 }
func (a Address) Line2() string      { return a.line2 }
func (a Address) City() string       { return a.city }
func (a Address) State() string      { return a.state }
func (a Address) PostalCode() string { return a.postalCode }
func (a Address) Country() string    { return a.country }

// Fields returns the raw form, used by persistence and transport mappers.
func (a Address) Fields() AddressFields {
	return AddressFields{
		Name:       a.name,
		Line1:      a.line1,
		Line2:      a.line2,
		City:       a.city,
		State:      a.state,
		PostalCode: a.postalCode,
		Country:    a.country,
	}
}

func (a Address) IsEmpty() bool {
	return a.country == ""
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}
