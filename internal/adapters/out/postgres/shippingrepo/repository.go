package shippingrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormZoneRepository implements ports.ShippingZoneRepository.
type GormZoneRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormZoneRepository(db *gorm.DB, tracker aggregateTracker) *GormZoneRepository {
	return &GormZoneRepository{db: db, tracker: tracker}
}

func (r *GormZoneRepository) Add(ctx context.Context, zone *shipping.Zone) error {
	if err := zone.Validate(); err != nil {
		return err
	}
	dto := zoneFromDomain(zone)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return duplicate("zone name", err)
	}
	r.tracker.TrackAggregate(zone.ID(), zone)
	return nil
}

func (r *GormZoneRepository) Update(ctx context.Context, zone *shipping.Zone) error {
	if err := zone.Validate(); err != nil {
		return err
	}
	dto := zoneFromDomain(zone)
	if err := updateRow(ctx, r.db, &ZoneDTO{}, &dto, dto.ID, "zone"); err != nil {
		return duplicate("zone name", err)
	}
	r.tracker.TrackAggregate(zone.ID(), zone)
	return nil
}

func (r *GormZoneRepository) Get(ctx context.Context, id kernel.UUID) (*shipping.Zone, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto ZoneDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, notFound("zone", id.String(), err)
	}
	return zoneToDomain(dto)
}

func (r *GormZoneRepository) GetByName(ctx context.Context, name string) (*shipping.Zone, error) {
	var dto ZoneDTO
	if err := r.db.WithContext(ctx).First(&dto, "name = ?", name).Error; err != nil {
		return nil, notFound("zone", name, err)
	}
	return zoneToDomain(dto)
}

// List returns all zones, active or not, oldest first.
func (r *GormZoneRepository) List(ctx context.Context) ([]*shipping.Zone, error) {
	var dtos []ZoneDTO
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	zones := make([]*shipping.Zone, 0, len(dtos))
	for _, dto := range dtos {
		z, err := zoneToDomain(dto)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// GormMethodRepository implements ports.ShippingMethodRepository.
type GormMethodRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormMethodRepository(db *gorm.DB, tracker aggregateTracker) *GormMethodRepository {
	return &GormMethodRepository{db: db, tracker: tracker}
}

func (r *GormMethodRepository) Add(ctx context.Context, method *shipping.Method) error {
	if err := method.Validate(); err != nil {
		return err
	}
	dto := methodFromDomain(method)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return duplicate("method code", err)
	}
	r.tracker.TrackAggregate(method.ID(), method)
	return nil
}

func (r *GormMethodRepository) Update(ctx context.Context, method *shipping.Method) error {
	if err := method.Validate(); err != nil {
		return err
	}
	dto := methodFromDomain(method)
	if err := updateRow(ctx, r.db, &MethodDTO{}, &dto, dto.ID, "method"); err != nil {
		return duplicate("method code", err)
	}
	r.tracker.TrackAggregate(method.ID(), method)
	return nil
}

func (r *GormMethodRepository) Get(ctx context.Context, id kernel.UUID) (*shipping.Method, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto MethodDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, notFound("method", id.String(), err)
	}
	return methodToDomain(dto)
}

func (r *GormMethodRepository) GetByCode(ctx context.Context, code string) (*shipping.Method, error) {
	var dto MethodDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		return nil, notFound("method", code, err)
	}
	return methodToDomain(dto)
}

func (r *GormMethodRepository) ListActive(ctx context.Context) ([]*shipping.Method, error) {
	var dtos []MethodDTO
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	methods := make([]*shipping.Method, 0, len(dtos))
	for _, dto := range dtos {
		m, err := methodToDomain(dto)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// GormRateRepository implements ports.ShippingRateRepository.
type GormRateRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormRateRepository(db *gorm.DB, tracker aggregateTracker) *GormRateRepository {
	return &GormRateRepository{db: db, tracker: tracker}
}

func (r *GormRateRepository) Add(ctx context.Context, rate *shipping.Rate) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	dto := rateFromDomain(rate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	r.tracker.TrackAggregate(rate.ID(), rate)
	return nil
}

func (r *GormRateRepository) Update(ctx context.Context, rate *shipping.Rate) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	dto := rateFromDomain(rate)
	if err := updateRow(ctx, r.db, &RateDTO{}, &dto, dto.ID, "rate"); err != nil {
		return err
	}
	r.tracker.TrackAggregate(rate.ID(), rate)
	return nil
}

func (r *GormRateRepository) Get(ctx context.Context, id kernel.UUID) (*shipping.Rate, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto RateDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, notFound("rate", id.String(), err)
	}
	return rateToDomain(dto)
}

// FindByZoneAndMethod picks the active rate with the lowest priority value;
// ties go to the oldest rate.
func (r *GormRateRepository) FindByZoneAndMethod(
	ctx context.Context,
	zoneID, methodID kernel.UUID,
) (*shipping.Rate, error) {
	var dto RateDTO
	err := r.db.WithContext(ctx).
		Where("zone_id = ? AND method_id = ? AND active = ?", zoneID.Bytes(), methodID.Bytes(), true).
		Order("priority, created_at, id").
		First(&dto).Error
	if err != nil {
		return nil, notFound("rate", zoneID.String()+"/"+methodID.String(), err)
	}
	return rateToDomain(dto)
}

// updateRow overwrites every column except the key and creation time.
func updateRow(ctx context.Context, db *gorm.DB, model, dto any, id any, name string) error {
	result := db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError(name, id)
	}
	return nil
}

func notFound(name string, id any, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError(name, id)
	}
	return err
}

// duplicate turns a unique violation into a validation error. It relies on
// gorm.Config.TranslateError.
func duplicate(param string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return err
}
