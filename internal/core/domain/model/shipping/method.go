package shipping

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrMethodIsNotConstructed = errors.New("Method must be created via NewMethod")

type SpeedClass string

const (
	SpeedEconomy   SpeedClass = "economy"
	SpeedStandard  SpeedClass = "standard"
	SpeedExpress   SpeedClass = "express"
	SpeedOvernight SpeedClass = "overnight"
)

func (s SpeedClass) Validate() error {
	if !slices.Contains([]SpeedClass{SpeedEconomy, SpeedStandard, SpeedExpress, SpeedOvernight}, s) {
		return errs.NewValueIsInvalidErrorWithCause("speed class", fmt.Errorf("%q is not a valid speed class", string(s)))
	}
	return nil
}

// Scope restricts a method to shipments inside or across the origin country.
type Scope string

const (
	ScopeDomestic      Scope = "domestic"
	ScopeInternational Scope = "international"
	ScopeBoth          Scope = "both"
)

func (s Scope) Validate() error {
	if !slices.Contains([]Scope{ScopeDomestic, ScopeInternational, ScopeBoth}, s) {
		return errs.NewValueIsInvalidErrorWithCause("scope", fmt.Errorf("%q is not a valid scope", string(s)))
	}
	return nil
}

// Carrier identifies who moves parcels shipped with a method.
type Carrier struct {
	ID   string
	Name string
}

// MethodFields is the writable part of a method.
type MethodFields struct {
	Code          string
	Name          string
	Description   string
	Active        bool
	Default       bool
	Carrier       *Carrier
	Speed         SpeedClass
	Scope         Scope
	HandlingDays  int
	MinWeight     *decimal.Decimal
	MaxWeight     *decimal.Decimal
	MinOrderValue *decimal.Decimal
	MaxOrderValue *decimal.Decimal
}

// Method is a delivery option such as "Ground" or "Next Day Air".
type Method struct {
	id        kernel.UUID
	fields    MethodFields
	createdAt time.Time

	isConstructed bool
}

func NewMethod(id kernel.UUID, f MethodFields, createdAt time.Time) (*Method, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	m := &Method{id: id, createdAt: createdAt, isConstructed: true}
	if err := m.Update(f); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Method) Update(f MethodFields) error {
	f.Code = strings.ToLower(strings.TrimSpace(f.Code))
	f.Name = strings.TrimSpace(f.Name)
	if f.Speed == "" {
		f.Speed = SpeedStandard
	}
	if f.Scope == "" {
		f.Scope = ScopeBoth
	}

	var errList []error
	if f.Code == "" {
		errList = append(errList, errs.NewValueIsRequiredError("method code"))
	}
	if f.Name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("method name"))
	}
	errList = append(errList, f.Speed.Validate(), f.Scope.Validate())
	if f.HandlingDays < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("handling days", f.HandlingDays, 0, "unbounded"))
	}
	errList = append(errList,
		checkBounds("weight", f.MinWeight, f.MaxWeight),
		checkBounds("order value", f.MinOrderValue, f.MaxOrderValue),
	)
	if err := errors.Join(errList...); err != nil {
		return err
	}

	if f.Carrier != nil {
		c := *f.Carrier
		f.Carrier = &c
	}
	m.fields = f
	return nil
}

func (m *Method) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMethodIsNotConstructed
	}
	return nil
}

func (m *Method) ID() kernel.UUID      { return m.id }
func (m *Method) Code() string         { return m.fields.Code }
func (m *Method) Name() string         { return m.fields.Name }
func (m *Method) Description() string  { return m.fields.Description }
func (m *Method) IsActive() bool       { return m.fields.Active }
func (m *Method) IsDefault() bool      { return m.fields.Default }
func (m *Method) Speed() SpeedClass    { return m.fields.Speed }
func (m *Method) Scope() Scope         { return m.fields.Scope }
func (m *Method) HandlingDays() int    { return m.fields.HandlingDays }
func (m *Method) CreatedAt() time.Time { return m.createdAt }

// Fields returns a copy of the writable state.
func (m *Method) Fields() MethodFields {
	f := m.fields
	if f.Carrier != nil {
		c := *f.Carrier
		f.Carrier = &c
	}
	return f
}

func (m *Method) Carrier() (Carrier, bool) {
	if m.fields.Carrier == nil {
		return Carrier{}, false
	}
	return *m.fields.Carrier, true
}

// Applicability is what a method's bounds are checked against.
type Applicability struct {
	Weight             *decimal.Decimal
	OrderValue         decimal.Decimal
	OriginCountry      string
	DestinationCountry string
}

// AppliesTo reports whether the method may be offered for the order. Weight
// bounds are ignored when the weight is unknown; scope is ignored when the
// origin country is not configured.
func (m *Method) AppliesTo(a Applicability) bool {
	f := m.fields
	if a.Weight != nil {
		if f.MinWeight != nil && a.Weight.LessThan(*f.MinWeight) {
			return false
		}
		if f.MaxWeight != nil && a.Weight.GreaterThan(*f.MaxWeight) {
			return false
		}
	}
	if f.MinOrderValue != nil && a.OrderValue.LessThan(*f.MinOrderValue) {
		return false
	}
	if f.MaxOrderValue != nil && a.OrderValue.GreaterThan(*f.MaxOrderValue) {
		return false
	}
	if a.OriginCountry == "" || f.Scope == ScopeBoth {
		return true
	}
	domestic := strings.EqualFold(a.OriginCountry, a.DestinationCountry)
	return (f.Scope == ScopeDomestic) == domestic
}

func checkBounds(name string, lo, hi *decimal.Decimal) error {
	var errList []error
	if lo != nil && lo.IsNegative() {
		errList = append(errList, errs.NewValueIsOutOfRangeError("min "+name, lo.String(), 0, "unbounded"))
	}
	if hi != nil && hi.IsNegative() {
		errList = append(errList, errs.NewValueIsOutOfRangeError("max "+name, hi.String(), 0, "unbounded"))
	}
	if lo != nil && hi != nil && lo.GreaterThan(*hi) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(name,
			fmt.Errorf("min %s is greater than max %s", lo, hi)))
	}
	return errors.Join(errList...)
}
