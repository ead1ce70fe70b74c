package queries

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetDeliveriesQueryIsNotConstructed = errors.New(
	"GetDeliveriesQuery must be created via NewGetDeliveriesQuery constructor",
)

// GetDeliveriesQuery retrieves deliveries for the admin board. All filters
// are optional and combine with AND semantics: search is a case-insensitive
// substring match over the order ID, customer name, and street; status,
// priority, and driver narrow to exact matches.
type GetDeliveriesQuery struct { //nolint:recvcheck //using for validation
	search   string
	status   *delivery.Status
	priority *delivery.Priority
	driverID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDeliveriesQuery creates a filtered delivery listing query. Nil
// filters are skipped; an empty search matches everything.
func NewGetDeliveriesQuery(
	search string,
	status *delivery.Status,
	priority *delivery.Priority,
	driverID *kernel.UUID,
) (GetDeliveriesQuery, error) {
	q := GetDeliveriesQuery{
		search: strings.TrimSpace(search),
		guard:  guard.NewConstructorGuard(),
	}

	if status != nil {
		if err := status.Validate(); err != nil {
			return GetDeliveriesQuery{}, err
		}
		q.status = status
	}

	if priority != nil {
		if err := priority.Validate(); err != nil {
			return GetDeliveriesQuery{}, err
		}
		q.priority = priority
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return GetDeliveriesQuery{}, err
		}
		q.driverID = driverID
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveriesQueryIsNotConstructed)
}

// Search returns the substring filter, empty when unset.
func (q GetDeliveriesQuery) Search() string {
	return q.search
}

// Status returns the status filter, nil when unset.
func (q GetDeliveriesQuery) Status() *delivery.Status {
	return q.status
}

// Priority returns the priority filter, nil when unset.
func (q GetDeliveriesQuery) Priority() *delivery.Priority {
	return q.priority
}

// DriverID returns the driver filter, nil when unset.
func (q GetDeliveriesQuery) DriverID() *kernel.UUID {
	return q.driverID
}
