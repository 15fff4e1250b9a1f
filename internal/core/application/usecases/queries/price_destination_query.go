// Package queries contains the read side: quoting shipping methods for a
// destination and loading fulfillment read models.
package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrPriceDestinationQueryIsNotConstructed = errors.New(
	"PriceDestinationQuery must be created via NewPriceDestinationQuery constructor",
)

// PriceDestinationQuery asks for every shipping method available for a
// destination, priced in the currency of the order value.
//
// Example:
//
//	value, _ := kernel.MoneyFromString("42.00", "USD")
//	query, err := NewPriceDestinationQuery(destination, value, 3, nil)
//	if err != nil {
//	    return err
//	}
//	quote, err := handler.Handle(ctx, query)
type PriceDestinationQuery struct {
	destination kernel.Address
	orderValue  kernel.Money
	itemCount   int
	weight      *decimal.Decimal

	guard guard.ConstructorGuard
}

func NewPriceDestinationQuery(
	destination kernel.Address,
	orderValue kernel.Money,
	itemCount int,
	weight *decimal.Decimal,
) (PriceDestinationQuery, error) {
	var errList []error
	if destination.Country() == "" {
		errList = append(errList, errs.NewValueIsRequiredError("destination country"))
	}
	if err := orderValue.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("order value", err))
	}
	if itemCount < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("item count", itemCount, 0, "unbounded"))
	}
	if weight != nil && weight.IsNegative() {
		errList = append(errList, errs.NewValueIsOutOfRangeError("weight", weight.String(), 0, "unbounded"))
	}
	if err := errors.Join(errList...); err != nil {
		return PriceDestinationQuery{}, err
	}

	q := PriceDestinationQuery{
		destination: destination,
		orderValue:  orderValue,
		itemCount:   itemCount,
		guard:       guard.NewConstructorGuard(),
	}
	if weight != nil {
		w := *weight
		q.weight = &w
	}
	return q, nil
}

func (q PriceDestinationQuery) Validate() error {
	return q.guard.Validate(ErrPriceDestinationQueryIsNotConstructed)
}

func (q PriceDestinationQuery) Destination() kernel.Address { return q.destination }
func (q PriceDestinationQuery) OrderValue() kernel.Money    { return q.orderValue }
func (q PriceDestinationQuery) ItemCount() int              { return q.itemCount }
func (q PriceDestinationQuery) Currency() string            { return q.orderValue.Currency() }

func (q PriceDestinationQuery) Weight() *decimal.Decimal {
	if q.weight == nil {
		return nil
	}
	w := *q.weight
	return &w
}

// QuoteOutcome tells apart a priced list from the two expected empty
// results.
type QuoteOutcome string

const (
	OutcomeQuoted    QuoteOutcome = "quoted"
	OutcomeNoZone    QuoteOutcome = "no_zone"
	OutcomeNoMethods QuoteOutcome = "no_methods"
)

// MethodQuote is one priced shipping option.
type MethodQuote struct {
	MethodID     kernel.UUID
	Code         string
	Name         string
	Description  string
	Speed        string
	HandlingDays int
	CarrierID    string
	CarrierName  string
	Charge       kernel.Money
	IsFree       bool
	IsDefault    bool
}

// PriceDestinationQueryResponse lists the quotes cheapest first. Zone fields
// are empty when Outcome is OutcomeNoZone.
type PriceDestinationQueryResponse struct {
	Outcome  QuoteOutcome
	ZoneID   *kernel.UUID
	ZoneName string
	Methods  []MethodQuote
}

// Default returns the quote flagged as default, if any.
func (r PriceDestinationQueryResponse) Default() (MethodQuote, bool) {
	for _, m := range r.Methods {
		if m.IsDefault {
			return m, true
		}
	}
	return MethodQuote{}, false
}
