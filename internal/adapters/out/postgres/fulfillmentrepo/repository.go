package fulfillmentrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFulfillmentRepository implements ports.FulfillmentRepository using GORM.
type GormFulfillmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormFulfillmentRepository(db *gorm.DB, tracker aggregateTracker) *GormFulfillmentRepository {
	return &GormFulfillmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the fulfillment and its items at version 0.
func (r *GormFulfillmentRepository) Add(ctx context.Context, aggregate *fulfillment.Fulfillment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 0
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	aggregate.MarkPersisted(0)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update performs a compare-and-swap on the version column and then
// rewrites the items. Zero affected rows on an existing row means another
// writer got there first.
func (r *GormFulfillmentRepository) Update(ctx context.Context, aggregate *fulfillment.Fulfillment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	expected := dto.Version
	dto.Version = expected + 1
	items := dto.Items
	dto.Items = nil

	db := r.db.WithContext(ctx)
	result := db.Model(&FulfillmentDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&FulfillmentDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("fulfillment", aggregate.ID().String())
		}
		return errs.NewVersionIsInvalidError("fulfillment")
	}

	if len(items) > 0 {
		if err := db.Save(&items).Error; err != nil {
			return err
		}
	}

	aggregate.MarkPersisted(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get loads a fulfillment with its items in creation order.
func (r *GormFulfillmentRepository) Get(ctx context.Context, id kernel.UUID) (*fulfillment.Fulfillment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto FulfillmentDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("fulfillment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
