package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

// AssignmentJob runs the dispatcher pass on a schedule, matching pending
// deliveries with available drivers. Each pass works through the backlog in
// priority order; per-delivery failures are recorded in the report, never
// fatal to the pass.
type AssignmentJob struct {
	handler  commands.RunAssignmentPassCommandHandler
	cron     *cron.Cron
	schedule string
	logger   *slog.Logger

	passes    prometheus.Counter
	assigned  prometheus.Counter
	unmatched prometheus.Counter
}

// NewAssignmentJob creates the scheduled assignment pass. The schedule is a
// cron expression with a seconds field, e.g. "*/10 * * * * *".
func NewAssignmentJob(
	handler commands.RunAssignmentPassCommandHandler,
	schedule string,
	logger *slog.Logger,
	passes, assigned, unmatched prometheus.Counter,
) *AssignmentJob {
	return &AssignmentJob{
		handler:   handler,
		cron:      cron.New(cron.WithSeconds()),
		schedule:  schedule,
		logger:    logger.With("component", "assignment_job"),
		passes:    passes,
		assigned:  assigned,
		unmatched: unmatched,
	}
}

// Start schedules the assignment pass.
func (j *AssignmentJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.runPass)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Assignment job started", "schedule", j.schedule)
	return nil
}

// Stop stops the assignment job.
func (j *AssignmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Assignment job stopped")
}

func (j *AssignmentJob) runPass() {
	ctx := context.Background()

	cmd, err := commands.NewRunAssignmentPassCommand()
	if err != nil {
		j.logger.ErrorContext(ctx, "Assignment pass command construction failed", "error", err)
		return
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Assignment pass failed", "error", err)
		return
	}

	j.passes.Inc()
	j.assigned.Add(float64(report.AssignedCount()))
	j.unmatched.Add(float64(report.UnmatchedCount()))

	if len(report.Results) > 0 {
		j.logger.InfoContext(ctx, "Assignment pass completed",
			"deliveries", len(report.Results),
			"assigned", report.AssignedCount(),
			"unmatched", report.UnmatchedCount())
	}
}
