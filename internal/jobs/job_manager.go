package jobs

import (
	"fmt"
)

// JobManager coordinates the scheduled background jobs: the assignment pass
// and the driver counter reconciliation.
type JobManager struct {
	assignmentJob     *AssignmentJob
	reconciliationJob *ReconciliationJob
}

// NewJobManager creates a manager over the given jobs.
func NewJobManager(
	assignmentJob *AssignmentJob,
	reconciliationJob *ReconciliationJob,
) *JobManager {
	return &JobManager{
		assignmentJob:     assignmentJob,
		reconciliationJob: reconciliationJob,
	}
}

// StartAll starts all scheduled jobs. If a later job fails to start, the
// already started ones are stopped again.
func (jm *JobManager) StartAll() error {
	if err := jm.assignmentJob.Start(); err != nil {
		return fmt.Errorf("failed to start assignment job: %w", err)
	}

	if err := jm.reconciliationJob.Start(); err != nil {
		jm.assignmentJob.Stop()
		return fmt.Errorf("failed to start reconciliation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reconciliationJob.Stop()
	jm.assignmentJob.Stop()
}
