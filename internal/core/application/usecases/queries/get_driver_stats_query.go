package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetDriverStatsQueryIsNotConstructed = errors.New(
	"GetDriverStatsQuery must be created via NewGetDriverStatsQuery constructor",
)

// GetDriverStatsQuery retrieves one driver's profile and daily performance
// stats.
type GetDriverStatsQuery struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDriverStatsQuery creates a driver stats query.
func NewGetDriverStatsQuery(driverID kernel.UUID) (GetDriverStatsQuery, error) {
	q := GetDriverStatsQuery{guard: guard.NewConstructorGuard()}

	if err := driverID.Validate(); err != nil {
		return GetDriverStatsQuery{}, err
	}
	q.driverID = driverID

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDriverStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverStatsQueryIsNotConstructed)
}

// DriverID returns the driver being looked up.
func (q GetDriverStatsQuery) DriverID() kernel.UUID {
	return q.driverID
}

// GetDriverStatsQueryResponse is the driver stats read model. The daily
// counters accumulate as deliveries complete; ActiveDeliveries reflects the
// live dispatch counter. CompletionRate is delivered over delivered plus
// failed across the driver's recorded deliveries, nil until one reaches a
// terminal state. Ratings come from an external feedback collaborator and
// are not tracked here.
type GetDriverStatsQueryResponse struct {
	ID      kernel.UUID
	Name    string
	Phone   string
	Vehicle string

	Availability string
	Location     *kernel.GeoPoint

	ActiveDeliveries int
	MaxActive        int

	CompletedToday int
	EarningsToday  float64
	CompletionRate *float64
}
