package services

import (
	"errors"
	"math"
	"sort"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
)

// ErrNoAvailableDriver is returned when no driver can take a delivery.
// This is an expected, non-fatal outcome: the delivery remains Pending and
// will be retried on the next assignment pass.
var ErrNoAvailableDriver = errors.New("no available driver")

// DriverMatcher is the domain service that selects the best driver for a
// pending delivery.
//
// Selection rules:
//   - only drivers that can currently take a delivery are candidates
//   - candidates are ranked by straight-line distance from the driver's last
//     known location to the delivery destination
//   - drivers with no known location, or deliveries with an ungeocoded
//     destination, rank after every measurable candidate rather than being
//     excluded
//   - ties and the no-distance tail keep the caller's ordering, so driver
//     registration order breaks ties deterministically
type DriverMatcher struct{}

// NewDriverMatcher creates a DriverMatcher.
func NewDriverMatcher() DriverMatcher {
	return DriverMatcher{}
}

// Match returns the best candidate for the delivery, or ErrNoAvailableDriver
// when no driver can take it. Match does not mutate the delivery or the
// driver; committing the assignment is the caller's transactional concern.
func (m DriverMatcher) Match(d *delivery.Delivery, drivers []*driver.Driver) (*driver.Driver, error) {
	ranked, err := m.Rank(d, drivers)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, ErrNoAvailableDriver
	}
	return ranked[0], nil
}

// Rank returns all drivers able to take the delivery, nearest first, with
// no-location drivers at the end. An empty result means no driver can take
// the delivery right now.
func (m DriverMatcher) Rank(d *delivery.Delivery, drivers []*driver.Driver) ([]*driver.Driver, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	type candidate struct {
		drv   *driver.Driver
		miles float64
		order int
	}

	candidates := make([]candidate, 0, len(drivers))
	for i, drv := range drivers {
		if err := drv.Validate(); err != nil {
			return nil, err
		}

		if !drv.CanTake() {
			continue
		}

		miles := math.MaxFloat64
		if destination := d.Location(); destination != nil {
			measured, ok, err := drv.DistanceMilesTo(*destination)
			if err != nil {
				return nil, err
			}
			if ok {
				miles = measured
			}
		}

		candidates = append(candidates, candidate{drv: drv, miles: miles, order: i})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].miles != candidates[j].miles {
			return candidates[i].miles < candidates[j].miles
		}
		return candidates[i].order < candidates[j].order
	})

	ranked := make([]*driver.Driver, len(candidates))
	for i, c := range candidates {
		ranked[i] = c.drv
	}
	return ranked, nil
}
