package queries_test

import (
	"context"
	"time"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresSuite boots one throwaway postgres container for a query handler
// suite and migrates the dispatch schema into it. Handler suites embed it
// and seed rows through the write-side repositories, so the read models are
// always exercised against rows the real persistence layer produced.
type PostgresSuite struct {
	suite.Suite
	container  *pgcontainer.PostgresContainer
	db         *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)
	s.db = db

	err = db.AutoMigrate(&deliveryrepo.DeliveryDTO{}, &driverrepo.DriverDTO{})
	s.Require().NoError(err)

	s.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.container != nil {
		err := s.container.Terminate(context.Background())
		s.Require().NoError(err)
	}
}

func (s *PostgresSuite) SetupTest() {
	err := s.db.Exec("TRUNCATE TABLE deliveries, drivers CASCADE").Error
	s.Require().NoError(err)
}

// seedDelivery persists a delivery through the write-side repository.
func (s *PostgresSuite) seedDelivery(d *delivery.Delivery) {
	err := s.uowFactory.Create().DeliveryRepository().Add(context.Background(), d)
	s.Require().NoError(err)
}

// seedDriver persists a driver through the write-side repository.
func (s *PostgresSuite) seedDriver(d *driver.Driver) {
	err := s.uowFactory.Create().DriverRepository().Add(context.Background(), d)
	s.Require().NoError(err)
}

// buildDelivery constructs a Pending delivery with sensible defaults.
func (s *PostgresSuite) buildDelivery(
	customerName, street string,
	priority delivery.Priority,
	scheduledTime time.Time,
	location *kernel.GeoPoint,
) *delivery.Delivery {
	customer, err := delivery.NewCustomer(customerName, "+1-555-0101", street, location)
	s.Require().NoError(err)

	item, err := delivery.NewItem("Gelato 3.5g", 1)
	s.Require().NoError(err)

	d, err := delivery.NewDelivery(
		kernel.NewUUID(), kernel.NewUUID(), customer, []delivery.Item{item},
		priority, scheduledTime, scheduledTime.Add(45*time.Minute), 3.3, 5.99, "")
	s.Require().NoError(err)
	return d
}

// buildDriver constructs an Available driver, optionally with a location.
func (s *PostgresSuite) buildDriver(name string, location *kernel.GeoPoint) *driver.Driver {
	d, err := driver.RestoreDriver(
		kernel.NewUUID(), name, "+1-555-0102", "Honda Civic",
		driver.Available, location, 0, 1, 0, 0)
	s.Require().NoError(err)
	return d
}
