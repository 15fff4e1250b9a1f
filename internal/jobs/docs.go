// Package jobs provides scheduled background tasks of the fulfillment
// service, built on github.com/robfig/cron/v3 with second-level schedules.
//
// # Available Jobs
//
// OutboxRelayJob reads pending rows of the outbox_events table in batches,
// publishes each to Kafka and marks it published. A publish error bumps the
// event's retry counter; events that exhaust their retries stay in the table
// for inspection. When the producer's circuit breaker is open the batch is
// abandoned and retried on the next tick.
//
// # Usage
//
//	relay := jobs.NewOutboxRelayJob(outboxRepo, producer, metrics, "*/5 * * * * *", 100, logger)
//	jobManager := jobs.NewJobManager(relay)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use six cron fields with seconds first. The relay defaults to
// "*/5 * * * * *" and reads OUTBOX_RELAY_SCHEDULE when set. Overlapping runs
// are skipped, so a slow broker never stacks up passes.
//
// # Error Handling
//
//   - a failed read of the outbox is logged and the pass ends
//   - a failed publish is recorded on the event and the next event is tried
//   - an open circuit breaker ends the pass without touching retry counters
package jobs
