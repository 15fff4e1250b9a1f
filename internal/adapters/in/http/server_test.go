package http_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	fhttp "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	create   *mockCreateFulfillment
	apply    *mockApplyAction
	pick     *mockPickItem
	pack     *mockPackItem
	zone     *mockUpsertZone
	method   *mockUpsertMethod
	rate     *mockSaveRate
	get      *mockGetFulfillment
	quote    *mockPriceDestination
	e        *echo.Echo
	contract *fhttp.APIContract
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	contract, err := fhttp.LoadAPIContract()
	require.NoError(t, err)

	f := &fixture{
		create:   &mockCreateFulfillment{},
		apply:    &mockApplyAction{},
		pick:     &mockPickItem{},
		pack:     &mockPackItem{},
		zone:     &mockUpsertZone{},
		method:   &mockUpsertMethod{},
		rate:     &mockSaveRate{},
		get:      &mockGetFulfillment{},
		quote:    &mockPriceDestination{},
		contract: contract,
	}
	srv := fhttp.NewServer(fhttp.Handlers{
		CreateFulfillment: f.create,
		ApplyAction:       f.apply,
		PickItem:          f.pick,
		PackItem:          f.pack,
		UpsertZone:        f.zone,
		UpsertMethod:      f.method,
		SaveRate:          f.rate,
		GetFulfillment:    f.get,
		PriceDestination:  f.quote,
	})
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
	f.e = fhttp.NewEcho(srv, contract, metrics, slog.New(slog.DiscardHandler))
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) fhttp.ErrorResponse {
	t.Helper()
	var out fhttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestMetricsAndSwaggerAreServed(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/shipping/quotes")
}

const newFulfillmentBody = `{
	"orderId": "ord-1001",
	"sourceType": "warehouse",
	"sourceId": "wh-east",
	"shipTo": {"line1": "1 Main St", "city": "Albany", "state": "NY", "postalCode": "12207", "country": "US"},
	"shippingCost": {"amount": "9.50", "currency": "USD"},
	"items": [{"sku": "TSHIRT-M", "quantity": 2}, {"sku": "MUG", "quantity": 1}]
}`

func TestCreateFulfillment(t *testing.T) {
	f := newFixture(t)
	f.create.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateFulfillmentCommand) bool {
		p := cmd.Params()
		return p.OrderID == "ord-1001" &&
			p.SourceType == fulfillment.SourceWarehouse &&
			p.ShipTo.Country() == "US" &&
			p.ShippingCost != nil && p.ShippingCost.String() == "9.50 USD" &&
			len(cmd.Items()) == 2 && cmd.Items()[0].QuantityOrdered == 2
	})).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/fulfillments", newFulfillmentBody)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created fhttp.Created
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", created.ID.String())
	f.create.AssertExpectations(t)
}

func TestCreateFulfillment_ContractViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no items", `{"orderId": "o", "sourceType": "warehouse", "shipTo": {"country": "US"}, "items": []}`},
		{"unknown source", `{"orderId": "o", "sourceType": "moon", "shipTo": {"country": "US"}, "items": [{"sku": "A", "quantity": 1}]}`},
		{"zero quantity", `{"orderId": "o", "sourceType": "store", "shipTo": {"country": "US"}, "items": [{"sku": "A", "quantity": 0}]}`},
		{"malformed json", `{"orderId": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(http.MethodPost, "/api/v1/fulfillments", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, http.StatusBadRequest, decodeError(t, rec).Code)
			f.create.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateFulfillment_DomainRejection(t *testing.T) {
	f := newFixture(t)
	body := strings.Replace(newFulfillmentBody, `"currency": "USD"`, `"currency": "US1"`, 1)

	rec := f.do(http.MethodPost, "/api/v1/fulfillments", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	f.create.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestGetFulfillment(t *testing.T) {
	f := newFixture(t)
	id := kernel.NewUUID()
	cost, err := kernel.MoneyFromString("12.5", "USD")
	require.NoError(t, err)
	shippedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	f.get.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetFulfillmentQuery) bool {
		return q.FulfillmentID() == id
	})).Return(queries.GetFulfillmentQueryResponse{
		ID:             id,
		OrderID:        "ord-1",
		SourceType:     "warehouse",
		Status:         "shipped",
		TrackingNumber: "1Z999",
		ShipTo:         queries.AddressReadModel{Country: "US", City: "Albany"},
		ShippingCost:   &cost,
		ShippedAt:      &shippedAt,
		Version:        7,
		Items: []queries.FulfillmentItemReadModel{
			{ID: kernel.NewUUID(), SKU: "A", QuantityOrdered: 2, QuantityPicked: 2, QuantityPacked: 2, QuantityFulfilled: 2},
		},
	}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/fulfillments/"+id.String(), "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got fhttp.Fulfillment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, id.String(), got.ID.String())
	assert.Equal(t, "shipped", got.Status)
	assert.Equal(t, "1Z999", got.TrackingNumber)
	require.NotNil(t, got.ShippingCost)
	assert.Equal(t, "12.50", got.ShippingCost.Amount)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].QuantityFulfilled)
	assert.Equal(t, 7, got.Version)
}

func TestGetFulfillment_NotFound(t *testing.T) {
	f := newFixture(t)
	id := kernel.NewUUID()
	f.get.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetFulfillmentQueryResponse{}, errs.NewObjectNotFoundError("fulfillment", id)).Once()

	rec := f.do(http.MethodGet, "/api/v1/fulfillments/"+id.String(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decodeError(t, rec).Code)
}

func TestGetFulfillment_MalformedID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/fulfillments/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.get.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestApplyAction(t *testing.T) {
	f := newFixture(t)
	id := kernel.NewUUID()
	f.apply.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ApplyFulfillmentActionCommand) bool {
		c := cmd.Context()
		return cmd.FulfillmentID() == id && cmd.Action() == fulfillment.ActionShip &&
			c.TrackingNumber == "1Z999" && c.Weight != nil && c.Weight.String() == "2.5"
	})).Return(commands.ActionResult{
		PreviousStatus: fulfillment.ReadyToShip,
		CurrentStatus:  fulfillment.Shipped,
		TrackingNumber: "1Z999",
	}, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/fulfillments/"+id.String()+"/actions",
		`{"action": "ship", "trackingNumber": "1Z999", "weight": "2.5"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got fhttp.ActionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, fhttp.ActionResult{PreviousStatus: "ready_to_ship", CurrentStatus: "shipped", TrackingNumber: "1Z999"}, got)
}

func TestApplyAction_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"illegal action", commands.NewIllegalActionError(fulfillment.ActionShip, fulfillment.Pending, nil), http.StatusConflict},
		{"invalid transition", fulfillment.NewInvalidTransitionError(fulfillment.Delivered, fulfillment.Shipped), http.StatusConflict},
		{"missing tracking", fulfillment.ErrMissingTrackingNumber, http.StatusUnprocessableEntity},
		{"concurrent update", errs.NewPersistenceError("update fulfillment", errs.NewVersionIsInvalidError("version")), http.StatusConflict},
		{"store down", errs.NewPersistenceError("update fulfillment", errors.New("connection refused")), http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.apply.On("Handle", mock.Anything, mock.Anything).Return(commands.ActionResult{}, tt.err).Once()

			rec := f.do(http.MethodPost, "/api/v1/fulfillments/"+kernel.NewUUID().String()+"/actions", `{"action": "ship"}`)

			assert.Equal(t, tt.want, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.want, body.Code)
			if tt.want >= http.StatusInternalServerError {
				assert.NotContains(t, body.Message, "connection refused")
			}
		})
	}
}

func TestPickAndPackItem(t *testing.T) {
	f := newFixture(t)
	fid, iid := kernel.NewUUID(), kernel.NewUUID()
	f.pick.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.PickItemCommand) bool {
		return cmd.FulfillmentID() == fid && cmd.ItemID() == iid && cmd.Quantity() == 2 &&
			len(cmd.SerialNumbers()) == 2
	})).Return(nil).Once()
	f.pack.On("Handle", mock.Anything, mock.Anything).Return(nil).Once()

	base := "/api/v1/fulfillments/" + fid.String() + "/items/" + iid.String()
	rec := f.do(http.MethodPost, base+"/pick", `{"quantity": 2, "serialNumbers": ["S1", "S2"]}`)
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPost, base+"/pack", `{"quantity": 1}`)
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	f.pick.AssertExpectations(t)
	f.pack.AssertExpectations(t)
}

func TestPickItem_QuantityOutOfRange(t *testing.T) {
	f := newFixture(t)
	f.pick.On("Handle", mock.Anything, mock.Anything).
		Return(errs.NewValueIsOutOfRangeError("quantity picked", 5, 0, 2)).Once()

	rec := f.do(http.MethodPost,
		"/api/v1/fulfillments/"+kernel.NewUUID().String()+"/items/"+kernel.NewUUID().String()+"/pick",
		`{"quantity": 5}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestQuoteShipping(t *testing.T) {
	f := newFixture(t)
	zoneID := kernel.NewUUID()
	ground, err := kernel.MoneyFromString("9.5", "USD")
	require.NoError(t, err)
	free, err := kernel.ZeroMoney("USD")
	require.NoError(t, err)

	f.quote.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.PriceDestinationQuery) bool {
		return q.Destination().Country() == "US" && q.OrderValue().String() == "40.00 USD" && q.ItemCount() == 3
	})).Return(queries.PriceDestinationQueryResponse{
		Outcome:  queries.OutcomeQuoted,
		ZoneID:   &zoneID,
		ZoneName: "Domestic",
		Methods: []queries.MethodQuote{
			{MethodID: kernel.NewUUID(), Code: "pickup", Name: "Pickup", Charge: free, IsFree: true},
			{MethodID: kernel.NewUUID(), Code: "ground", Name: "Ground", Charge: ground, IsDefault: true},
		},
	}, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/shipping/quotes",
		`{"destination": {"state": "NY", "postalCode": "12207", "country": "US"}, "orderValue": {"amount": "40", "currency": "USD"}, "itemCount": 3}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got fhttp.QuoteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "quoted", got.Outcome)
	require.NotNil(t, got.ZoneID)
	assert.Equal(t, zoneID.String(), got.ZoneID.String())
	require.Len(t, got.Methods, 2)
	assert.Equal(t, "0.00", got.Methods[0].Charge.Amount)
	assert.True(t, got.Methods[0].IsFree)
	assert.Equal(t, "9.50", got.Methods[1].Charge.Amount)
	assert.True(t, got.Methods[1].IsDefault)
}

func TestQuoteShipping_NoZoneIsNotAnError(t *testing.T) {
	f := newFixture(t)
	f.quote.On("Handle", mock.Anything, mock.Anything).
		Return(queries.PriceDestinationQueryResponse{Outcome: queries.OutcomeNoZone}, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/shipping/quotes",
		`{"destination": {"country": "AQ"}, "orderValue": {"amount": "10", "currency": "USD"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got fhttp.QuoteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "no_zone", got.Outcome)
	assert.Nil(t, got.ZoneID)
	assert.Empty(t, got.Methods)
}

func TestCatalogWrites(t *testing.T) {
	f := newFixture(t)
	zoneID, methodID := kernel.NewUUID(), kernel.NewUUID()
	f.zone.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpsertShippingZoneCommand) bool {
		return cmd.Fields().Name == "Domestic" && len(cmd.Fields().Exclusions) == 1
	})).Return(zoneID, nil).Once()
	f.method.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpsertShippingMethodCommand) bool {
		return cmd.Fields().Code == "ground" && cmd.Fields().Carrier != nil
	})).Return(methodID, nil).Once()
	f.rate.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.SaveShippingRateCommand) bool {
		fields := cmd.Fields()
		return fields.ZoneID == zoneID && fields.MethodID == methodID &&
			len(fields.Tiers) == 2 && fields.Tiers[1].Max == nil &&
			fields.FreeThreshold != nil && fields.FreeThreshold.String() == "100.00 USD"
	})).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/shipping/zones",
		`{"name": "Domestic", "active": true, "priority": 10, "include": ["US"], "exclude": ["US:AK"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPost, "/api/v1/shipping/methods",
		`{"code": "ground", "name": "Ground", "active": true, "carrier": {"id": "ups", "name": "UPS"}, "speed": "standard", "maxWeight": "30"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPost, "/api/v1/shipping/rates", `{
		"zoneId": "`+zoneID.String()+`",
		"methodId": "`+methodID.String()+`",
		"type": "weight_based",
		"currency": "USD",
		"baseRate": "0",
		"freeThreshold": "100",
		"tiers": [{"min": "0", "max": "5", "rate": "4"}, {"min": "5", "rate": "9"}],
		"active": true
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created fhttp.Created
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", created.ID.String())

	f.zone.AssertExpectations(t)
	f.method.AssertExpectations(t)
	f.rate.AssertExpectations(t)
}

func TestSaveRate_InvalidMatrix(t *testing.T) {
	f := newFixture(t)
	f.rate.On("Handle", mock.Anything, mock.Anything).
		Return(errs.NewValueIsInvalidErrorWithCause("rate matrix", errors.New("tiers overlap"))).Once()

	rec := f.do(http.MethodPost, "/api/v1/shipping/rates", `{
		"zoneId": "`+kernel.NewUUID().String()+`",
		"methodId": "`+kernel.NewUUID().String()+`",
		"type": "flat",
		"currency": "USD",
		"baseRate": "5"
	}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUnknownAPIRoute(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/warehouses", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
