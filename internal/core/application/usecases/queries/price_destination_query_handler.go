package queries

import (
	"context"
	"errors"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// QuoteObserver receives the outcome of every quote ("quoted", "no_zone",
// "no_methods" or "error").
type QuoteObserver interface {
	ObserveQuote(outcome string)
}

type nopQuoteObserver struct{}

func (nopQuoteObserver) ObserveQuote(string) {}

// PriceDestinationQueryHandler composes zone resolution, method
// applicability and rate calculation into a ranked list of options.
type PriceDestinationQueryHandler struct {
	zones         ports.ShippingZoneRepository
	methods       ports.ShippingMethodRepository
	rates         ports.ShippingRateRepository
	resolver      services.ZoneResolver
	calculator    services.RateCalculator
	originCountry string
	observer      QuoteObserver
}

// NewPriceDestinationQueryHandler builds the handler. originCountry drives
// domestic/international method scope; leave it empty to ignore scope.
func NewPriceDestinationQueryHandler(
	zones ports.ShippingZoneRepository,
	methods ports.ShippingMethodRepository,
	rates ports.ShippingRateRepository,
	originCountry string,
	observer QuoteObserver,
) (*PriceDestinationQueryHandler, error) {
	if zones == nil {
		return nil, errs.NewValueIsRequiredError("zones")
	}
	if methods == nil {
		return nil, errs.NewValueIsRequiredError("methods")
	}
	if rates == nil {
		return nil, errs.NewValueIsRequiredError("rates")
	}
	if observer == nil {
		observer = nopQuoteObserver{}
	}
	return &PriceDestinationQueryHandler{
		zones:         zones,
		methods:       methods,
		rates:         rates,
		resolver:      services.NewZoneResolver(),
		calculator:    services.NewRateCalculator(),
		originCountry: originCountry,
		observer:      observer,
	}, nil
}

func (h *PriceDestinationQueryHandler) Handle(
	ctx context.Context,
	query PriceDestinationQuery,
) (PriceDestinationQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return PriceDestinationQueryResponse{}, err
	}

	resp, err := h.handle(ctx, query)
	if err != nil {
		h.observer.ObserveQuote("error")
		return PriceDestinationQueryResponse{}, err
	}
	h.observer.ObserveQuote(string(resp.Outcome))
	return resp, nil
}

func (h *PriceDestinationQueryHandler) handle(
	ctx context.Context,
	query PriceDestinationQuery,
) (PriceDestinationQueryResponse, error) {
	zones, err := h.zones.List(ctx)
	if err != nil {
		return PriceDestinationQueryResponse{}, errs.WrapPersistence("list shipping zones", err)
	}
	zone, ok := h.resolver.Resolve(zones, query.Destination())
	if !ok {
		return PriceDestinationQueryResponse{Outcome: OutcomeNoZone, Methods: []MethodQuote{}}, nil
	}

	methods, err := h.methods.ListActive(ctx)
	if err != nil {
		return PriceDestinationQueryResponse{}, errs.WrapPersistence("list shipping methods", err)
	}

	applicability := shipping.Applicability{
		Weight:             query.Weight(),
		OrderValue:         query.OrderValue().Amount(),
		OriginCountry:      h.originCountry,
		DestinationCountry: query.Destination().Country(),
	}
	request := services.RateRequest{
		OrderValue: query.OrderValue(),
		ItemCount:  query.ItemCount(),
		Weight:     query.Weight(),
	}

	quotes := make([]MethodQuote, 0, len(methods))
	for _, m := range methods {
		if !m.AppliesTo(applicability) {
			continue
		}
		quote, found, quoteErr := h.quote(ctx, zone.ID(), m, request)
		if quoteErr != nil {
			return PriceDestinationQueryResponse{}, quoteErr
		}
		if found {
			quotes = append(quotes, quote)
		}
	}

	slices.SortStableFunc(quotes, func(a, b MethodQuote) int {
		return a.Charge.Amount().Cmp(b.Charge.Amount())
	})

	zoneID := zone.ID()
	resp := PriceDestinationQueryResponse{
		Outcome:  OutcomeQuoted,
		ZoneID:   &zoneID,
		ZoneName: zone.Name(),
		Methods:  quotes,
	}
	if len(quotes) == 0 {
		resp.Outcome = OutcomeNoMethods
	}
	return resp, nil
}

// quote prices one method. Methods without a rate for the zone, or whose
// rate is in another currency, are skipped.
func (h *PriceDestinationQueryHandler) quote(
	ctx context.Context,
	zoneID kernel.UUID,
	m *shipping.Method,
	request services.RateRequest,
) (MethodQuote, bool, error) {
	rate, err := h.rates.FindByZoneAndMethod(ctx, zoneID, m.ID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return MethodQuote{}, false, nil
		}
		return MethodQuote{}, false, errs.WrapPersistence("find shipping rate", err)
	}
	if rate.Currency() != request.OrderValue.Currency() {
		return MethodQuote{}, false, nil
	}

	charge, err := h.calculator.Calculate(rate, request)
	if err != nil {
		return MethodQuote{}, false, err
	}

	q := MethodQuote{
		MethodID:     m.ID(),
		Code:         m.Code(),
		Name:         m.Name(),
		Description:  m.Description(),
		Speed:        string(m.Speed()),
		HandlingDays: m.HandlingDays(),
		Charge:       charge,
		IsFree:       charge.IsZero(),
		IsDefault:    m.IsDefault(),
	}
	if c, ok := m.Carrier(); ok {
		q.CarrierID, q.CarrierName = c.ID, c.Name
	}
	return q, true, nil
}
