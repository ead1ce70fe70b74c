package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetAvailableDriversQueryIsNotConstructed = errors.New(
	"GetAvailableDriversQuery must be created via NewGetAvailableDriversQuery constructor",
)

// GetAvailableDriversQuery retrieves drivers able to take a delivery right
// now. When a reference point is given, results are sorted nearest first,
// with drivers that never reported a location at the end.
type GetAvailableDriversQuery struct { //nolint:recvcheck //using for validation
	near *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewGetAvailableDriversQuery creates an available-driver listing query.
// A nil point keeps registration order.
func NewGetAvailableDriversQuery(near *kernel.GeoPoint) (GetAvailableDriversQuery, error) {
	q := GetAvailableDriversQuery{guard: guard.NewConstructorGuard()}

	if near != nil {
		if err := near.Validate(); err != nil {
			return GetAvailableDriversQuery{}, err
		}
		q.near = near
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableDriversQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableDriversQueryIsNotConstructed)
}

// Near returns the reference point for proximity sorting, nil when unset.
func (q GetAvailableDriversQuery) Near() *kernel.GeoPoint {
	return q.near
}

// GetAvailableDriversQueryResponse is the available-driver read model.
// DistanceMiles is only set when the query carried a reference point and
// the driver has a known location.
type GetAvailableDriversQueryResponse struct {
	ID      kernel.UUID
	Name    string
	Phone   string
	Vehicle string

	Location *kernel.GeoPoint

	ActiveDeliveries int
	MaxActive        int

	DistanceMiles *float64
}
