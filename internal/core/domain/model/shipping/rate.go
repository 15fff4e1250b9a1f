package shipping

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrRateIsNotConstructed = errors.New("Rate must be created via NewRate")
	ErrInvalidRateMatrix    = errors.New("rate matrix is invalid")
)

// RateType selects how a charge is computed.
type RateType string

const (
	RateFlat        RateType = "flat"
	RateItemBased   RateType = "item_based"
	RatePriceBased  RateType = "price_based"
	RateWeightBased RateType = "weight_based"
	RateFree        RateType = "free"
)

func (t RateType) Validate() error {
	if !slices.Contains([]RateType{RateFlat, RateItemBased, RatePriceBased, RateWeightBased, RateFree}, t) {
		return errs.NewValueIsInvalidErrorWithCause("rate type", fmt.Errorf("%q is not a valid rate type", string(t)))
	}
	return nil
}

// Tier prices the half-open range [Min, Max). A nil Max is open-ended and
// only allowed on the last tier.
type Tier struct {
	Min  decimal.Decimal
	Max  *decimal.Decimal
	Rate kernel.Money
}

func (t Tier) contains(v decimal.Decimal) bool {
	if v.LessThan(t.Min) {
		return false
	}
	return t.Max == nil || v.LessThan(*t.Max)
}

// RateMatrix is an ordered, non-overlapping list of tiers in one currency.
type RateMatrix struct {
	tiers []Tier
}

// NewRateMatrix checks that tiers ascend without overlap, that every tier has
// min < max and that all rates are in currency.
func NewRateMatrix(tiers []Tier, currency string) (RateMatrix, error) {
	invalid := func(i int, format string, args ...any) error {
		return fmt.Errorf("%w: tier %d: %s", ErrInvalidRateMatrix, i, fmt.Sprintf(format, args...))
	}

	for i, t := range tiers {
		if t.Min.IsNegative() {
			return RateMatrix{}, invalid(i, "min %s is negative", t.Min)
		}
		if t.Max == nil && i != len(tiers)-1 {
			return RateMatrix{}, invalid(i, "only the last tier may be open-ended")
		}
		if t.Max != nil && !t.Min.LessThan(*t.Max) {
			return RateMatrix{}, invalid(i, "min %s is not less than max %s", t.Min, t.Max)
		}
		if err := t.Rate.Validate(); err != nil {
			return RateMatrix{}, invalid(i, "%v", err)
		}
		if t.Rate.Currency() != currency {
			return RateMatrix{}, invalid(i, "rate currency %s differs from %s", t.Rate.Currency(), currency)
		}
		if i > 0 && t.Min.LessThan(*tiers[i-1].Max) {
			return RateMatrix{}, invalid(i, "min %s overlaps previous tier ending at %s", t.Min, tiers[i-1].Max)
		}
	}

	copied := make([]Tier, len(tiers))
	for i, t := range tiers {
		copied[i] = Tier{Min: t.Min, Rate: t.Rate}
		if t.Max != nil {
			hi := *t.Max
			copied[i].Max = &hi
		}
	}
	return RateMatrix{tiers: copied}, nil
}

// Lookup returns the rate of the first tier containing v.
func (m RateMatrix) Lookup(v decimal.Decimal) (kernel.Money, bool) {
	for _, t := range m.tiers {
		if t.contains(v) {
			return t.Rate, true
		}
	}
	return kernel.Money{}, false
}

func (m RateMatrix) Tiers() []Tier {
	return slices.Clone(m.tiers)
}

func (m RateMatrix) IsEmpty() bool {
	return len(m.tiers) == 0
}

// RateFields is the writable part of a rate. All money values must share
// Currency.
type RateFields struct {
	ZoneID        kernel.UUID
	MethodID      kernel.UUID
	Type          RateType
	Currency      string
	BaseRate      kernel.Money
	PerItemRate   *kernel.Money
	FreeThreshold *kernel.Money
	Tiers         []Tier
	MinRate       *kernel.Money
	MaxRate       *kernel.Money
	Priority      int
	Active        bool
}

// Rate prices one method inside one zone.
type Rate struct {
	id            kernel.UUID
	zoneID        kernel.UUID
	methodID      kernel.UUID
	rateType      RateType
	currency      string
	baseRate      kernel.Money
	perItemRate   kernel.Money
	freeThreshold *kernel.Money
	matrix        RateMatrix
	minRate       *kernel.Money
	maxRate       *kernel.Money
	priority      int
	active        bool
	createdAt     time.Time

	isConstructed bool
}

func NewRate(id kernel.UUID, f RateFields, createdAt time.Time) (*Rate, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	r := &Rate{id: id, createdAt: createdAt, isConstructed: true}
	if err := r.Update(f); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rate) Update(f RateFields) error {
	zero, err := kernel.ZeroMoney(f.Currency)
	if err != nil {
		return err
	}
	currency := zero.Currency()

	errList := []error{f.ZoneID.Validate(), f.MethodID.Validate(), f.Type.Validate()}
	if err = f.BaseRate.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("base rate", err))
	} else if f.BaseRate.Currency() != currency {
		errList = append(errList, kernel.ErrCurrencyMismatch)
	}
	for _, m := range []*kernel.Money{f.PerItemRate, f.FreeThreshold, f.MinRate, f.MaxRate} {
		if m != nil && m.Currency() != currency {
			errList = append(errList, kernel.ErrCurrencyMismatch)
			break
		}
	}
	if f.MinRate != nil && f.MaxRate != nil && f.MinRate.Currency() == f.MaxRate.Currency() {
		if less, _ := f.MaxRate.LessThan(*f.MinRate); less {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause("rate clamp",
				fmt.Errorf("min %s is greater than max %s", f.MinRate, f.MaxRate)))
		}
	}
	matrix, matrixErr := NewRateMatrix(f.Tiers, currency)
	if matrixErr != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("rate matrix", matrixErr))
	}
	if err = errors.Join(errList...); err != nil {
		return err
	}

	r.zoneID = f.ZoneID
	r.methodID = f.MethodID
	r.rateType = f.Type
	r.currency = currency
	r.baseRate = f.BaseRate
	r.perItemRate = zero
	if f.PerItemRate != nil {
		r.perItemRate = *f.PerItemRate
	}
	r.freeThreshold = cloneMoney(f.FreeThreshold)
	r.matrix = matrix
	r.minRate = cloneMoney(f.MinRate)
	r.maxRate = cloneMoney(f.MaxRate)
	r.priority = f.Priority
	r.active = f.Active
	return nil
}

func (r *Rate) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRateIsNotConstructed
	}
	return nil
}

func (r *Rate) ID() kernel.UUID              { return r.id }
func (r *Rate) ZoneID() kernel.UUID          { return r.zoneID }
func (r *Rate) MethodID() kernel.UUID        { return r.methodID }
func (r *Rate) Type() RateType               { return r.rateType }
func (r *Rate) Currency() string             { return r.currency }
func (r *Rate) BaseRate() kernel.Money       { return r.baseRate }
func (r *Rate) PerItemRate() kernel.Money    { return r.perItemRate }
func (r *Rate) FreeThreshold() *kernel.Money { return cloneMoney(r.freeThreshold) }
func (r *Rate) Matrix() RateMatrix           { return r.matrix }
func (r *Rate) MinRate() *kernel.Money       { return cloneMoney(r.minRate) }
func (r *Rate) MaxRate() *kernel.Money       { return cloneMoney(r.maxRate) }
func (r *Rate) Priority() int                { return r.priority }
func (r *Rate) IsActive() bool               { return r.active }
func (r *Rate) CreatedAt() time.Time         { return r.createdAt }

func cloneMoney(m *kernel.Money) *kernel.Money {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
