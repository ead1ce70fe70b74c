package queries_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type GetDriverStatsQueryHandlerTestSuite struct {
	PostgresSuite
	handler queries.GetDriverStatsQueryHandler
}

func (s *GetDriverStatsQueryHandlerTestSuite) SetupSuite() {
	s.PostgresSuite.SetupSuite()
	s.handler = queries.NewGetDriverStatsQueryHandler(s.db)
}

func (s *GetDriverStatsQueryHandlerTestSuite) TestHandle_FullReadModel() {
	location, err := kernel.NewGeoPoint(34.0522, -118.2437)
	s.Require().NoError(err)

	seeded, err := driver.RestoreDriver(
		kernel.NewUUID(), "Marcus Webb", "+1-555-0142", "Honda Civic",
		driver.Busy, &location, 1, 2, 3, 21.47)
	s.Require().NoError(err)
	s.seedDriver(seeded)

	query, err := queries.NewGetDriverStatsQuery(seeded.ID())
	s.Require().NoError(err)

	result, err := s.handler.Handle(context.Background(), query)

	s.Require().NoError(err)
	s.Equal(seeded.ID(), result.ID)
	s.Equal("Marcus Webb", result.Name)
	s.Equal("+1-555-0142", result.Phone)
	s.Equal("Honda Civic", result.Vehicle)
	s.Equal("Busy", result.Availability)
	s.Require().NotNil(result.Location)
	s.InDelta(34.0522, result.Location.Latitude(), 0.000001)
	s.InDelta(-118.2437, result.Location.Longitude(), 0.000001)
	s.Equal(1, result.ActiveDeliveries)
	s.Equal(2, result.MaxActive)
	s.Equal(3, result.CompletedToday)
	s.InDelta(21.47, result.EarningsToday, 0.001)
}

// seedDeliveryFor persists a delivery assigned to the driver and walked to
// the given status.
func (s *GetDriverStatsQueryHandlerTestSuite) seedDeliveryFor(driverID kernel.UUID, status delivery.Status) {
	d := s.buildDelivery("Noor Haddad", "88 Cedar Ave", delivery.PriorityMedium, time.Now().UTC(), nil)
	s.Require().NoError(d.Assign(driverID))

	switch status {
	case delivery.StatusDelivered:
		s.Require().NoError(d.MarkPickedUp())
		s.Require().NoError(d.MarkInTransit())
		s.Require().NoError(d.MarkDelivered(time.Now().UTC()))
	case delivery.StatusFailed:
		s.Require().NoError(d.MarkFailed("customer unreachable"))
	case delivery.StatusAssigned:
	default:
		s.FailNow("unsupported fixture status", status.String())
	}

	s.seedDelivery(d)
}

func (s *GetDriverStatsQueryHandlerTestSuite) TestHandle_CompletionRateFromTerminalDeliveries() {
	seeded, err := driver.RestoreDriver(
		kernel.NewUUID(), "Marcus Webb", "+1-555-0142", "Honda Civic",
		driver.Busy, nil, 1, 1, 2, 15.98)
	s.Require().NoError(err)
	s.seedDriver(seeded)

	s.seedDeliveryFor(seeded.ID(), delivery.StatusDelivered)
	s.seedDeliveryFor(seeded.ID(), delivery.StatusDelivered)
	s.seedDeliveryFor(seeded.ID(), delivery.StatusFailed)
	// In-flight deliveries stay out of the rate until they reach a terminal
	// state, and another driver's record never leaks in.
	s.seedDeliveryFor(seeded.ID(), delivery.StatusAssigned)
	other := s.buildDriver("Dana Kim", nil)
	s.seedDriver(other)
	s.seedDeliveryFor(other.ID(), delivery.StatusFailed)

	query, err := queries.NewGetDriverStatsQuery(seeded.ID())
	s.Require().NoError(err)

	result, err := s.handler.Handle(context.Background(), query)

	s.Require().NoError(err)
	s.Require().NotNil(result.CompletionRate)
	s.InDelta(2.0/3.0, *result.CompletionRate, 0.000001)
}

func (s *GetDriverStatsQueryHandlerTestSuite) TestHandle_FreshDriverHasZeroStats() {
	seeded := s.buildDriver("Dana Kim", nil)
	s.seedDriver(seeded)

	query, err := queries.NewGetDriverStatsQuery(seeded.ID())
	s.Require().NoError(err)

	result, err := s.handler.Handle(context.Background(), query)

	s.Require().NoError(err)
	s.Equal("Available", result.Availability)
	s.Nil(result.Location)
	s.Equal(0, result.ActiveDeliveries)
	s.Equal(0, result.CompletedToday)
	s.Zero(result.EarningsToday)
	s.Nil(result.CompletionRate)
}

func (s *GetDriverStatsQueryHandlerTestSuite) TestHandle_NotFound() {
	query, err := queries.NewGetDriverStatsQuery(kernel.NewUUID())
	s.Require().NoError(err)

	_, err = s.handler.Handle(context.Background(), query)

	s.Require().Error(err)
	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func TestGetDriverStatsQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetDriverStatsQueryHandlerTestSuite))
}
