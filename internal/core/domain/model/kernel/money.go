package kernel

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrMoneyIsNotConstructed = errors.New("Money must be created via NewMoney")
	ErrCurrencyMismatch      = errs.NewValueIsInvalidErrorWithCause("currency", errors.New("currency mismatch"))
	ErrNegativeAmount        = errs.NewValueIsInvalidErrorWithCause("amount", errors.New("amount cannot be negative"))
	ErrInvalidCurrency       = errs.NewValueIsInvalidErrorWithCause("currency", errors.New("currency must be a 3-letter ISO 4217 code"))
)

// Money is a non-negative decimal amount tagged with an ISO 4217 currency.
// Binary operations require both operands to share a currency.
type Money struct {
	amount   decimal.Decimal
	currency string

	guard guard.ConstructorGuard
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	code, err := normalizeCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: amount, currency: code, guard: guard.NewConstructorGuard()}, nil
}

// MoneyFromString parses amount as a decimal literal, e.g. "12.50".
func MoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d, currency)
}

// ZeroMoney returns a zero amount. It fails only for a malformed currency.
func ZeroMoney(currency string) (Money, error) {
	return NewMoney(decimal.Zero, currency)
}

func normalizeCurrency(currency string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidCurrency
		}
	}
	return code, nil
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return m.with(m.amount.Add(other.amount)), nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return m.with(result), nil
}

func (m Money) Multiply(qty int) (Money, error) {
	return m.MultiplyDecimal(decimal.NewFromInt(int64(qty)))
}

func (m Money) MultiplyDecimal(factor decimal.Decimal) (Money, error) {
	if factor.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("factor", factor.String(), 0, "unbounded")
	}
	return m.with(m.amount.Mul(factor)), nil
}

// Cmp returns -1, 0 or +1 like decimal.Decimal.Cmp.
func (m Money) Cmp(other Money) (int, error) {
	if err := m.sameCurrency(other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	c, err := m.Cmp(other)
	return c >= 0, err
}

func (m Money) LessThan(other Money) (bool, error) {
	c, err := m.Cmp(other)
	return c < 0, err
}

func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return ErrCurrencyMismatch
	}
	return nil
}

func (m Money) with(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: m.currency, guard: m.guard}
}

type moneyJSON struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

// MarshalJSON encodes {"amount": number, "currency": string} with the amount
// rounded to two places.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   json.Number(m.amount.StringFixed(2)),
		Currency: m.currency,
	})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := MoneyFromString(raw.Amount.String(), raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
