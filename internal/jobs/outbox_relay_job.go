package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const (
	DefaultRelaySchedule  = "*/5 * * * * *"
	DefaultRelayBatchSize = 100
)

// PublishObserver counts relay attempts by result.
type PublishObserver interface {
	ObservePublish(result string)
}

type nopPublishObserver struct{}

func (nopPublishObserver) ObservePublish(string) {}

// OutboxRelayJob periodically moves pending outbox events to the broker.
// Delivery is at least once: an event whose MarkPublished fails is sent
// again on the next run.
type OutboxRelayJob struct {
	repo      ports.OutboxRepository
	producer  ports.MessageProducer
	observer  PublishObserver
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewOutboxRelayJob(
	repo ports.OutboxRepository,
	producer ports.MessageProducer,
	observer PublishObserver,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *OutboxRelayJob {
	if observer == nil {
		observer = nopPublishObserver{}
	}
	if schedule == "" {
		schedule = DefaultRelaySchedule
	}
	if batchSize <= 0 {
		batchSize = DefaultRelayBatchSize
	}
	return &OutboxRelayJob{
		repo:      repo,
		producer:  producer,
		observer:  observer,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "outbox_relay_job"),
	}
}

func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.RelayOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started",
		"schedule", j.schedule, "batch_size", j.batchSize)
	return nil
}

// Stop waits for a running relay pass to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}

// RelayOnce publishes one batch and returns how many events were delivered.
// A failed event has its retry counter bumped; an unavailable broker ends
// the batch without touching the remaining events.
func (j *OutboxRelayJob) RelayOnce(ctx context.Context) (int, error) {
	events, err := j.repo.FindUnpublished(ctx, j.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		err = j.producer.Publish(ctx, event)
		if errors.Is(err, ports.ErrProducerUnavailable) {
			j.observer.ObservePublish("circuit_open")
			j.logger.WarnContext(ctx, "Broker unavailable, postponing outbox batch",
				"pending", len(events)-published)
			return published, nil
		}
		if err != nil {
			j.observer.ObservePublish("failed")
			j.logger.ErrorContext(ctx, "Failed to publish outbox event",
				"event_id", event.ID, "event_type", event.EventType, "error", err)
			if retryErr := j.repo.IncrementRetry(ctx, event.ID, err.Error()); retryErr != nil {
				j.logger.ErrorContext(ctx, "Failed to record outbox retry", "event_id", event.ID, "error", retryErr)
			}
			continue
		}

		j.observer.ObservePublish("published")
		published++
		if markErr := j.repo.MarkPublished(ctx, event.ID); markErr != nil {
			j.logger.ErrorContext(ctx, "Failed to mark outbox event published", "event_id", event.ID, "error", markErr)
		}
	}
	return published, nil
}
