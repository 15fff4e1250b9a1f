// Package catalogfile reads the shipping catalog (zones, methods and rates)
// from YAML and writes it through the catalog commands.
//
//	zones:
//	  - name: Domestic
//	    active: true
//	    priority: 10
//	    include: [US]
//	    exclude: ["US:AK", "US:HI"]
//	methods:
//	  - code: ground
//	    name: Ground
//	    active: true
//	    default: true
//	    carrier: {id: ups, name: UPS}
//	    max_weight: "30"
//	rates:
//	  - id: 0b5c9f2e-3f43-4c36-9d6b-3c1c54f6a1e2
//	    zone: Domestic
//	    method: ground
//	    type: item_based
//	    currency: USD
//	    base_rate: "5.00"
//	    per_item_rate: "1.50"
//	    free_threshold: "50"
//
// Rates refer to zones by name and to methods by code. Amounts are decimal
// strings.
package catalogfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Zones   []ZoneEntry   `yaml:"zones"`
	Methods []MethodEntry `yaml:"methods"`
	Rates   []RateEntry   `yaml:"rates"`
}

type ZoneEntry struct {
	Name     string   `yaml:"name"`
	Active   bool     `yaml:"active"`
	Priority int      `yaml:"priority"`
	Include  []string `yaml:"include"`
	Exclude  []string `yaml:"exclude"`
}

type CarrierEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type MethodEntry struct {
	Code          string        `yaml:"code"`
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description"`
	Active        bool          `yaml:"active"`
	Default       bool          `yaml:"default"`
	Carrier       *CarrierEntry `yaml:"carrier"`
	Speed         string        `yaml:"speed"`
	Scope         string        `yaml:"scope"`
	HandlingDays  int           `yaml:"handling_days"`
	MinWeight     string        `yaml:"min_weight"`
	MaxWeight     string        `yaml:"max_weight"`
	MinOrderValue string        `yaml:"min_order_value"`
	MaxOrderValue string        `yaml:"max_order_value"`
}

type TierEntry struct {
	Min  string `yaml:"min"`
	Max  string `yaml:"max"`
	Rate string `yaml:"rate"`
}

type RateEntry struct {
	ID            string      `yaml:"id"`
	Zone          string      `yaml:"zone"`
	Method        string      `yaml:"method"`
	Type          string      `yaml:"type"`
	Currency      string      `yaml:"currency"`
	BaseRate      string      `yaml:"base_rate"`
	PerItemRate   string      `yaml:"per_item_rate"`
	FreeThreshold string      `yaml:"free_threshold"`
	Tiers         []TierEntry `yaml:"tiers"`
	MinRate       string      `yaml:"min_rate"`
	MaxRate       string      `yaml:"max_rate"`
	Priority      int         `yaml:"priority"`
	Active        bool        `yaml:"active"`
}

// Parse decodes a catalog. Unknown keys are rejected.
func Parse(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Catalog{}, fmt.Errorf("decode shipping catalog: %w", err)
	}
	return c, nil
}

func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, err
	}
	defer f.Close()
	return Parse(f)
}

func (z ZoneEntry) Fields() shipping.ZoneFields {
	return shipping.ZoneFields{
		Name:       z.Name,
		Active:     z.Active,
		Priority:   z.Priority,
		Inclusions: z.Include,
		Exclusions: z.Exclude,
	}
}

func (m MethodEntry) Fields() (shipping.MethodFields, error) {
	f := shipping.MethodFields{
		Code:         m.Code,
		Name:         m.Name,
		Description:  m.Description,
		Active:       m.Active,
		Default:      m.Default,
		Speed:        shipping.SpeedClass(m.Speed),
		Scope:        shipping.Scope(m.Scope),
		HandlingDays: m.HandlingDays,
	}
	if m.Carrier != nil {
		f.Carrier = &shipping.Carrier{ID: m.Carrier.ID, Name: m.Carrier.Name}
	}

	var err error
	if f.MinWeight, err = optionalDecimal("min_weight", m.MinWeight); err != nil {
		return shipping.MethodFields{}, err
	}
	if f.MaxWeight, err = optionalDecimal("max_weight", m.MaxWeight); err != nil {
		return shipping.MethodFields{}, err
	}
	if f.MinOrderValue, err = optionalDecimal("min_order_value", m.MinOrderValue); err != nil {
		return shipping.MethodFields{}, err
	}
	if f.MaxOrderValue, err = optionalDecimal("max_order_value", m.MaxOrderValue); err != nil {
		return shipping.MethodFields{}, err
	}
	return f, nil
}

// Fields converts the entry once the zone and method ids are known.
func (r RateEntry) Fields(zoneID, methodID kernel.UUID) (shipping.RateFields, error) {
	f := shipping.RateFields{
		ZoneID:   zoneID,
		MethodID: methodID,
		Type:     shipping.RateType(r.Type),
		Currency: r.Currency,
		Priority: r.Priority,
		Active:   r.Active,
	}

	base, err := kernel.MoneyFromString(r.BaseRate, r.Currency)
	if err != nil {
		return shipping.RateFields{}, fmt.Errorf("base_rate: %w", err)
	}
	f.BaseRate = base

	optional := []struct {
		name  string
		value string
		dst   **kernel.Money
	}{
		{"per_item_rate", r.PerItemRate, &f.PerItemRate},
		{"free_threshold", r.FreeThreshold, &f.FreeThreshold},
		{"min_rate", r.MinRate, &f.MinRate},
		{"max_rate", r.MaxRate, &f.MaxRate},
	}
	for _, o := range optional {
		if o.value == "" {
			continue
		}
		m, moneyErr := kernel.MoneyFromString(o.value, r.Currency)
		if moneyErr != nil {
			return shipping.RateFields{}, fmt.Errorf("%s: %w", o.name, moneyErr)
		}
		*o.dst = &m
	}

	for i, t := range r.Tiers {
		tier, tierErr := t.tier(r.Currency)
		if tierErr != nil {
			return shipping.RateFields{}, fmt.Errorf("tiers[%d]: %w", i, tierErr)
		}
		f.Tiers = append(f.Tiers, tier)
	}
	return f, nil
}

func (t TierEntry) tier(currency string) (shipping.Tier, error) {
	lo, err := decimal.NewFromString(t.Min)
	if err != nil {
		return shipping.Tier{}, fmt.Errorf("min: %w", err)
	}
	hi, err := optionalDecimal("max", t.Max)
	if err != nil {
		return shipping.Tier{}, err
	}
	rate, err := kernel.MoneyFromString(t.Rate, currency)
	if err != nil {
		return shipping.Tier{}, fmt.Errorf("rate: %w", err)
	}
	return shipping.Tier{Min: lo, Max: hi, Rate: rate}, nil
}

func optionalDecimal(name, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &d, nil
}
