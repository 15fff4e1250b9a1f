// Package shippingrepo persists the shipping catalog: zones, methods and
// rates.
package shippingrepo

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ZoneDTO stores patterns in their text encoding (US, US:CA, 941*).
type ZoneDTO struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name       string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Active     bool           `gorm:"not null;default:true"`
	Priority   int            `gorm:"not null;default:0"`
	Inclusions pq.StringArray `gorm:"type:text[]"`
	Exclusions pq.StringArray `gorm:"type:text[]"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime:false;index"`
}

func (ZoneDTO) TableName() string {
	return "shipping_zones"
}

type MethodDTO struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Code          string           `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name          string           `gorm:"type:varchar(255);not null"`
	Description   string           `gorm:"type:text"`
	Active        bool             `gorm:"not null;default:true"`
	IsDefault     bool             `gorm:"column:is_default;not null;default:false"`
	CarrierID     *string          `gorm:"type:varchar(64)"`
	CarrierName   *string          `gorm:"type:varchar(255)"`
	Speed         string           `gorm:"type:varchar(16);not null"`
	Scope         string           `gorm:"type:varchar(16);not null"`
	HandlingDays  int              `gorm:"not null;default:0"`
	MinWeight     *decimal.Decimal `gorm:"type:numeric(12,3)"`
	MaxWeight     *decimal.Decimal `gorm:"type:numeric(12,3)"`
	MinOrderValue *decimal.Decimal `gorm:"type:numeric(14,2)"`
	MaxOrderValue *decimal.Decimal `gorm:"type:numeric(14,2)"`
	CreatedAt     time.Time        `gorm:"not null;autoCreateTime:false;index"`
}

func (MethodDTO) TableName() string {
	return "shipping_methods"
}

// RateDTO keeps all money columns in the single Currency of the rate.
type RateDTO struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ZoneID        uuid.UUID        `gorm:"type:uuid;not null;index:idx_rate_zone_method"`
	MethodID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_rate_zone_method"`
	Type          string           `gorm:"type:varchar(16);not null"`
	Currency      string           `gorm:"type:char(3);not null"`
	BaseRate      decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	PerItemRate   decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	FreeThreshold *decimal.Decimal `gorm:"type:numeric(14,2)"`
	MinRate       *decimal.Decimal `gorm:"type:numeric(14,2)"`
	MaxRate       *decimal.Decimal `gorm:"type:numeric(14,2)"`
	Tiers         TiersJSON        `gorm:"type:jsonb"`
	Priority      int              `gorm:"not null;default:0"`
	Active        bool             `gorm:"not null;default:true"`
	CreatedAt     time.Time        `gorm:"not null;autoCreateTime:false"`
}

func (RateDTO) TableName() string {
	return "shipping_rates"
}

// TierDTO is one matrix tier inside the jsonb column. A missing max marks
// the open-ended last tier.
type TierDTO struct {
	Min  decimal.Decimal  `json:"min"`
	Max  *decimal.Decimal `json:"max,omitempty"`
	Rate decimal.Decimal  `json:"rate"`
}

type TiersJSON []TierDTO

func (t TiersJSON) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]TierDTO(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TiersJSON) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into TiersJSON", src)
	}
	var tiers []TierDTO
	if err := json.Unmarshal(raw, &tiers); err != nil {
		return err
	}
	*t = tiers
	return nil
}

func zoneFromDomain(z *shipping.Zone) ZoneDTO {
	return ZoneDTO{
		ID:         z.ID().Bytes(),
		Name:       z.Name(),
		Active:     z.IsActive(),
		Priority:   z.Priority(),
		Inclusions: pq.StringArray(z.InclusionStrings()),
		Exclusions: pq.StringArray(z.ExclusionStrings()),
		CreatedAt:  z.CreatedAt(),
	}
}

func zoneToDomain(dto ZoneDTO) (*shipping.Zone, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	return shipping.NewZone(id, shipping.ZoneFields{
		Name:       dto.Name,
		Active:     dto.Active,
		Priority:   dto.Priority,
		Inclusions: dto.Inclusions,
		Exclusions: dto.Exclusions,
	}, dto.CreatedAt)
}

func methodFromDomain(m *shipping.Method) MethodDTO {
	f := m.Fields()
	dto := MethodDTO{
		ID:            m.ID().Bytes(),
		Code:          f.Code,
		Name:          f.Name,
		Description:   f.Description,
		Active:        f.Active,
		IsDefault:     f.Default,
		Speed:         string(f.Speed),
		Scope:         string(f.Scope),
		HandlingDays:  f.HandlingDays,
		MinWeight:     f.MinWeight,
		MaxWeight:     f.MaxWeight,
		MinOrderValue: f.MinOrderValue,
		MaxOrderValue: f.MaxOrderValue,
		CreatedAt:     m.CreatedAt(),
	}
	if c, ok := m.Carrier(); ok {
		dto.CarrierID, dto.CarrierName = &c.ID, &c.Name
	}
	return dto
}

func methodToDomain(dto MethodDTO) (*shipping.Method, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	var carrier *shipping.Carrier
	if dto.CarrierID != nil || dto.CarrierName != nil {
		carrier = &shipping.Carrier{}
		if dto.CarrierID != nil {
			carrier.ID = *dto.CarrierID
		}
		if dto.CarrierName != nil {
			carrier.Name = *dto.CarrierName
		}
	}
	return shipping.NewMethod(id, shipping.MethodFields{
		Code:          dto.Code,
		Name:          dto.Name,
		Description:   dto.Description,
		Active:        dto.Active,
		Default:       dto.IsDefault,
		Carrier:       carrier,
		Speed:         shipping.SpeedClass(dto.Speed),
		Scope:         shipping.Scope(dto.Scope),
		HandlingDays:  dto.HandlingDays,
		MinWeight:     dto.MinWeight,
		MaxWeight:     dto.MaxWeight,
		MinOrderValue: dto.MinOrderValue,
		MaxOrderValue: dto.MaxOrderValue,
	}, dto.CreatedAt)
}

func rateFromDomain(r *shipping.Rate) RateDTO {
	tiers := r.Matrix().Tiers()
	dtoTiers := make(TiersJSON, 0, len(tiers))
	for _, t := range tiers {
		dtoTiers = append(dtoTiers, TierDTO{Min: t.Min, Max: t.Max, Rate: t.Rate.Amount()})
	}
	return RateDTO{
		ID:            r.ID().Bytes(),
		ZoneID:        r.ZoneID().Bytes(),
		MethodID:      r.MethodID().Bytes(),
		Type:          string(r.Type()),
		Currency:      r.Currency(),
		BaseRate:      r.BaseRate().Amount(),
		PerItemRate:   r.PerItemRate().Amount(),
		FreeThreshold: amountOf(r.FreeThreshold()),
		MinRate:       amountOf(r.MinRate()),
		MaxRate:       amountOf(r.MaxRate()),
		Tiers:         dtoTiers,
		Priority:      r.Priority(),
		Active:        r.IsActive(),
		CreatedAt:     r.CreatedAt(),
	}
}

func rateToDomain(dto RateDTO) (*shipping.Rate, error) {
	id, idErr := kernel.UUIDFromGoogle(dto.ID)
	zoneID, zoneErr := kernel.UUIDFromGoogle(dto.ZoneID)
	methodID, methodErr := kernel.UUIDFromGoogle(dto.MethodID)
	if err := errors.Join(idErr, zoneErr, methodErr); err != nil {
		return nil, err
	}

	money := func(d decimal.Decimal) (kernel.Money, error) { return kernel.NewMoney(d, dto.Currency) }
	optional := func(d *decimal.Decimal) (*kernel.Money, error) {
		if d == nil {
			return nil, nil //nolint:nilnil // column is NULL
		}
		m, err := money(*d)
		if err != nil {
			return nil, err
		}
		return &m, nil
	}

	base, baseErr := money(dto.BaseRate)
	perItem, perItemErr := money(dto.PerItemRate)
	threshold, thresholdErr := optional(dto.FreeThreshold)
	minRate, minErr := optional(dto.MinRate)
	maxRate, maxErr := optional(dto.MaxRate)
	if err := errors.Join(baseErr, perItemErr, thresholdErr, minErr, maxErr); err != nil {
		return nil, err
	}

	tiers := make([]shipping.Tier, 0, len(dto.Tiers))
	for _, t := range dto.Tiers {
		rate, err := money(t.Rate)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, shipping.Tier{Min: t.Min, Max: t.Max, Rate: rate})
	}

	return shipping.NewRate(id, shipping.RateFields{
		ZoneID:        zoneID,
		MethodID:      methodID,
		Type:          shipping.RateType(dto.Type),
		Currency:      dto.Currency,
		BaseRate:      base,
		PerItemRate:   &perItem,
		FreeThreshold: threshold,
		Tiers:         tiers,
		MinRate:       minRate,
		MaxRate:       maxRate,
		Priority:      dto.Priority,
		Active:        dto.Active,
	}, dto.CreatedAt)
}

func amountOf(m *kernel.Money) *decimal.Decimal {
	if m == nil {
		return nil
	}
	a := m.Amount()
	return &a
}
