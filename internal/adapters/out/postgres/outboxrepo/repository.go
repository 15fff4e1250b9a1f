// Package outboxrepo keeps integration events in the outbox_events table
// until the relay hands them to the broker.
package outboxrepo

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/outbox"

	"gorm.io/gorm"
)

type EventDTO struct {
	ID            string     `gorm:"type:varchar(36);primaryKey"`
	AggregateID   string     `gorm:"type:varchar(64);not null;index"`
	AggregateType string     `gorm:"type:varchar(64);not null"`
	EventType     string     `gorm:"type:varchar(128);not null"`
	Topic         string     `gorm:"type:varchar(255);not null"`
	Payload       string     `gorm:"type:jsonb;not null"`
	CreatedAt     time.Time  `gorm:"not null;autoCreateTime:false;index"`
	PublishedAt   *time.Time `gorm:"index"`
	RetryCount    int        `gorm:"not null;default:0"`
	MaxRetries    int        `gorm:"not null;default:10"`
	LastError     string     `gorm:"type:text"`
}

func (EventDTO) TableName() string {
	return "outbox_events"
}

// GormOutboxRepository implements ports.OutboxRepository.
type GormOutboxRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db, now: time.Now}
}

func (r *GormOutboxRepository) Save(ctx context.Context, event *outbox.Event) error {
	dto := EventDTO{
		ID:            event.ID,
		AggregateID:   event.AggregateID,
		AggregateType: event.AggregateType,
		EventType:     event.EventType,
		Topic:         event.Topic,
		Payload:       string(event.Payload),
		CreatedAt:     event.CreatedAt,
		PublishedAt:   event.PublishedAt,
		RetryCount:    event.RetryCount,
		MaxRetries:    event.MaxRetries,
		LastError:     event.LastError,
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// FindUnpublished returns pending events below their retry limit, oldest first.
func (r *GormOutboxRepository) FindUnpublished(ctx context.Context, limit int) ([]*outbox.Event, error) {
	var dtos []EventDTO
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL AND retry_count < max_retries").
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]*outbox.Event, 0, len(dtos))
	for _, dto := range dtos {
		events = append(events, &outbox.Event{
			ID:            dto.ID,
			AggregateID:   dto.AggregateID,
			AggregateType: dto.AggregateType,
			EventType:     dto.EventType,
			Topic:         dto.Topic,
			Payload:       json.RawMessage(dto.Payload),
			CreatedAt:     dto.CreatedAt,
			PublishedAt:   dto.PublishedAt,
			RetryCount:    dto.RetryCount,
			MaxRetries:    dto.MaxRetries,
			LastError:     dto.LastError,
		})
	}
	return events, nil
}

func (r *GormOutboxRepository) MarkPublished(ctx context.Context, eventID string) error {
	result := r.db.WithContext(ctx).Model(&EventDTO{}).
		Where("id = ?", eventID).
		Update("published_at", r.now().UTC())
	return affected(result, eventID)
}

func (r *GormOutboxRepository) IncrementRetry(ctx context.Context, eventID string, errorMsg string) error {
	result := r.db.WithContext(ctx).Model(&EventDTO{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"retry_count": gorm.Expr("retry_count + 1"),
			"last_error":  errorMsg,
		})
	return affected(result, eventID)
}

func affected(result *gorm.DB, eventID string) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outbox event", eventID)
	}
	return nil
}
