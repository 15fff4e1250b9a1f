package jobs

import (
	"fmt"
)

// JobManager starts and stops the scheduled jobs as one unit.
type JobManager struct {
	outboxRelayJob *OutboxRelayJob
}

func NewJobManager(outboxRelayJob *OutboxRelayJob) *JobManager {
	return &JobManager{outboxRelayJob: outboxRelayJob}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs and waits for running passes to end.
func (jm *JobManager) StopAll() {
	jm.outboxRelayJob.Stop()
}
