package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

// ReconciliationJob periodically recomputes each driver's active-delivery
// counter from the delivery store and repairs drift. Drift appears only if a
// process dies between the two sides of an assignment transaction being
// retried, so repairs on a healthy system should stay at zero.
type ReconciliationJob struct {
	handler  commands.ReconcileDriversCommandHandler
	cron     *cron.Cron
	schedule string
	logger   *slog.Logger

	repairs prometheus.Counter
}

// NewReconciliationJob creates the scheduled reconciliation pass.
func NewReconciliationJob(
	handler commands.ReconcileDriversCommandHandler,
	schedule string,
	logger *slog.Logger,
	repairs prometheus.Counter,
) *ReconciliationJob {
	return &ReconciliationJob{
		handler:  handler,
		cron:     cron.New(cron.WithSeconds()),
		schedule: schedule,
		logger:   logger.With("component", "reconciliation_job"),
		repairs:  repairs,
	}
}

// Start schedules the reconciliation pass.
func (j *ReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.runPass)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reconciliation job started", "schedule", j.schedule)
	return nil
}

// Stop stops the reconciliation job.
func (j *ReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reconciliation job stopped")
}

func (j *ReconciliationJob) runPass() {
	ctx := context.Background()

	cmd, err := commands.NewReconcileDriversCommand()
	if err != nil {
		j.logger.ErrorContext(ctx, "Reconciliation command construction failed", "error", err)
		return
	}

	repaired, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Reconciliation pass failed", "error", err)
		return
	}

	if repaired > 0 {
		j.repairs.Add(float64(repaired))
		j.logger.WarnContext(ctx, "Reconciliation repaired drifted driver counters",
			"repaired", repaired)
	}
}
