package cmd

import (
	"log/slog"

	"dispatch/internal/adapters/out/eventbus"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters to use cases. Command handlers get unit of
// work factories scoped to the repositories they touch; query handlers read
// straight off the connection pool.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	publisher  *eventbus.AsyncPublisher
	logger     *slog.Logger

	assignmentPasses      prometheus.Counter
	assignmentsTotal      prometheus.Counter
	assignmentsUnmatched  prometheus.Counter
	reconciliationRepairs prometheus.Counter
	eventsDropped         prometheus.Counter
	versionConflicts      prometheus.Counter
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	root := &CompositionRoot{
		gormDB:                gormDB,
		uowFactory:            *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:                logger,
		assignmentPasses:      metrics.NewAssignmentPassesTotal(),
		assignmentsTotal:      metrics.NewAssignmentsTotal(),
		assignmentsUnmatched:  metrics.NewAssignmentsUnmatchedTotal(),
		reconciliationRepairs: metrics.NewReconciliationRepairsTotal(),
		eventsDropped:         metrics.NewEventsDroppedTotal(),
		versionConflicts:      metrics.NewVersionConflictsTotal(),
	}

	prometheus.MustRegister(
		root.assignmentPasses,
		root.assignmentsTotal,
		root.assignmentsUnmatched,
		root.reconciliationRepairs,
		root.eventsDropped,
		root.versionConflicts,
	)

	root.publisher = eventbus.NewAsyncPublisher(
		config.EventBufferSize, logger, root.eventsDropped)

	return root
}

// EventPublisher returns the shared asynchronous event publisher.
func (c *CompositionRoot) EventPublisher() *eventbus.AsyncPublisher {
	return c.publisher
}

// VersionConflictsCounter returns the counter for rejected stale writes.
func (c *CompositionRoot) VersionConflictsCounter() prometheus.Counter {
	return c.versionConflicts
}

// Close drains and stops the event publisher.
func (c *CompositionRoot) Close() {
	c.publisher.Close()
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateDeliveryCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateTransitionDeliveryCommandHandler() commands.TransitionDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionDeliveryCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDriverCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterDriverCommandHandler(f)
}

func (c *CompositionRoot) CreateSetDriverAvailabilityCommandHandler() commands.SetDriverAvailabilityCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetDriverAvailabilityCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateReportDriverLocationCommandHandler() commands.ReportDriverLocationCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReportDriverLocationCommandHandler(f)
}

func (c *CompositionRoot) CreateRunAssignmentPassCommandHandler() commands.RunAssignmentPassCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRunAssignmentPassCommandHandler(f, services.NewDriverMatcher(), c.publisher)
}

func (c *CompositionRoot) CreateReconcileDriversCommandHandler() commands.ReconcileDriversCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewReconcileDriversCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveriesQueryHandler() queries.GetDeliveriesQueryHandler {
	return queries.NewGetDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableDriversQueryHandler() queries.GetAvailableDriversQueryHandler {
	return queries.NewGetAvailableDriversQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDriverStatsQueryHandler() queries.GetDriverStatsQueryHandler {
	return queries.NewGetDriverStatsQueryHandler(c.gormDB)
}

// CreateJobManager wires the scheduled background jobs.
func (c *CompositionRoot) CreateJobManager(config Config) *jobs.JobManager {
	assignmentJob := jobs.NewAssignmentJob(
		c.CreateRunAssignmentPassCommandHandler(),
		config.AssignmentSchedule,
		c.logger,
		c.assignmentPasses,
		c.assignmentsTotal,
		c.assignmentsUnmatched,
	)

	reconciliationJob := jobs.NewReconciliationJob(
		c.CreateReconcileDriversCommandHandler(),
		config.ReconciliationSchedule,
		c.logger,
		c.reconciliationRepairs,
	)

	return jobs.NewJobManager(assignmentJob, reconciliationJob)
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
