package services

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// RateRequest is the order summary a rate is applied to. Weight is optional.
type RateRequest struct {
	OrderValue kernel.Money
	ItemCount  int
	Weight     *decimal.Decimal
}

// RateCalculator prices an order against a single rate. It has no state and
// no side effects.
type RateCalculator struct{}

func NewRateCalculator() RateCalculator {
	return RateCalculator{}
}

// Calculate computes the charge for req under rate.
//
// The raw charge depends on the rate type: free is zero, flat is the base
// rate, item_based adds the per-item rate for every item, price_based and
// weight_based look the order value or weight up in the tier matrix and fall
// back to the base rate. The free-shipping threshold is applied next and wins
// over the min/max clamp.
func (RateCalculator) Calculate(rate *shipping.Rate, req RateRequest) (kernel.Money, error) {
	if err := rate.Validate(); err != nil {
		return kernel.Money{}, err
	}
	if err := req.OrderValue.Validate(); err != nil {
		return kernel.Money{}, errs.NewValueIsRequiredErrorWithCause("order value", err)
	}
	if req.OrderValue.Currency() != rate.Currency() {
		return kernel.Money{}, kernel.ErrCurrencyMismatch
	}
	if req.ItemCount < 0 {
		return kernel.Money{}, errs.NewValueIsOutOfRangeError("item count", req.ItemCount, 0, "unbounded")
	}

	zero, err := kernel.ZeroMoney(rate.Currency())
	if err != nil {
		return kernel.Money{}, err
	}

	if rate.Type() == shipping.RateFree {
		return zero, nil
	}

	charge, err := rawCharge(rate, req, zero)
	if err != nil {
		return kernel.Money{}, err
	}

	if threshold := rate.FreeThreshold(); threshold != nil {
		reached, cmpErr := req.OrderValue.GreaterThanOrEqual(*threshold)
		if cmpErr != nil {
			return kernel.Money{}, cmpErr
		}
		if reached {
			return zero, nil
		}
	}

	return clamp(charge, rate.MinRate(), rate.MaxRate())
}

func rawCharge(rate *shipping.Rate, req RateRequest, zero kernel.Money) (kernel.Money, error) {
	switch rate.Type() {
	case shipping.RateFree:
		return zero, nil
	case shipping.RateFlat:
		return rate.BaseRate(), nil
	case shipping.RateItemBased:
		perItem, err := rate.PerItemRate().Multiply(req.ItemCount)
		if err != nil {
			return kernel.Money{}, err
		}
		return rate.BaseRate().Add(perItem)
	case shipping.RatePriceBased:
		if tierRate, ok := rate.Matrix().Lookup(req.OrderValue.Amount()); ok {
			return tierRate, nil
		}
		return rate.BaseRate(), nil
	case shipping.RateWeightBased:
		if req.Weight == nil {
			return rate.BaseRate(), nil
		}
		if tierRate, ok := rate.Matrix().Lookup(*req.Weight); ok {
			return tierRate, nil
		}
		return rate.BaseRate(), nil
	default:
		return kernel.Money{}, rate.Type().Validate()
	}
}

func clamp(charge kernel.Money, lo, hi *kernel.Money) (kernel.Money, error) {
	if lo != nil {
		below, err := charge.LessThan(*lo)
		if err != nil {
			return kernel.Money{}, err
		}
		if below {
			return *lo, nil
		}
	}
	if hi != nil {
		above, err := hi.LessThan(charge)
		if err != nil {
			return kernel.Money{}, err
		}
		if above {
			return *hi, nil
		}
	}
	return charge, nil
}
