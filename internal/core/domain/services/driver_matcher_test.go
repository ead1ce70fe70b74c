package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deliveryAt(t *testing.T, lat, lng float64) *delivery.Delivery {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	customer, err := delivery.NewCustomer("Dana Reyes", "+1-555-0134", "842 Sunset Blvd", &point)
	require.NoError(t, err)
	item, err := delivery.NewItem("Blue Dream 3.5g", 1)
	require.NoError(t, err)

	scheduled := time.Now()
	d, err := delivery.NewDelivery(
		kernel.NewUUID(), kernel.NewUUID(), customer, []delivery.Item{item},
		delivery.PriorityUrgent, scheduled, scheduled.Add(time.Hour), 5, 7.99, "")
	require.NoError(t, err)
	return d
}

func availableDriverAt(t *testing.T, name string, lat, lng float64) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), name, "+1-555-0100", "Honda Civic", 1)
	require.NoError(t, err)
	require.NoError(t, d.SetAvailability(driver.Available))
	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	require.NoError(t, d.ReportLocation(point))
	return d
}

func TestDriverMatcher_Match(t *testing.T) {
	matcher := services.NewDriverMatcher()

	t.Run("selects nearest available driver", func(t *testing.T) {
		d := deliveryAt(t, 34.0522, -118.2437)
		far := availableDriverAt(t, "Far", 34.4208, -119.6982)
		near := availableDriverAt(t, "Near", 34.0622, -118.2537)

		best, err := matcher.Match(d, []*driver.Driver{far, near})

		require.NoError(t, err)
		assert.True(t, best.IsEqual(near))
	})

	t.Run("skips busy and offline drivers", func(t *testing.T) {
		d := deliveryAt(t, 34.0522, -118.2437)
		busy := availableDriverAt(t, "Busy", 34.0522, -118.2437)
		require.NoError(t, busy.TakeDelivery())
		offline, err := driver.NewDriver(kernel.NewUUID(), "Offline", "+1-555-0101", "Scooter", 1)
		require.NoError(t, err)
		far := availableDriverAt(t, "Far", 36.7783, -119.4179)

		best, err := matcher.Match(d, []*driver.Driver{busy, offline, far})

		require.NoError(t, err)
		assert.True(t, best.IsEqual(far))
	})

	t.Run("no candidates yields ErrNoAvailableDriver", func(t *testing.T) {
		d := deliveryAt(t, 34.0522, -118.2437)

		_, err := matcher.Match(d, nil)

		assert.ErrorIs(t, err, services.ErrNoAvailableDriver)
	})

	t.Run("driver without location is deprioritized not excluded", func(t *testing.T) {
		d := deliveryAt(t, 34.0522, -118.2437)
		noLocation, err := driver.NewDriver(kernel.NewUUID(), "Ghost", "+1-555-0102", "Van", 1)
		require.NoError(t, err)
		require.NoError(t, noLocation.SetAvailability(driver.Available))
		located := availableDriverAt(t, "Located", 35.3733, -119.0187)

		best, matchErr := matcher.Match(d, []*driver.Driver{noLocation, located})

		require.NoError(t, matchErr)
		assert.True(t, best.IsEqual(located))
	})

	t.Run("driver without location wins when alone", func(t *testing.T) {
		d := deliveryAt(t, 34.0522, -118.2437)
		noLocation, err := driver.NewDriver(kernel.NewUUID(), "Ghost", "+1-555-0102", "Van", 1)
		require.NoError(t, err)
		require.NoError(t, noLocation.SetAvailability(driver.Available))

		best, matchErr := matcher.Match(d, []*driver.Driver{noLocation})

		require.NoError(t, matchErr)
		assert.True(t, best.IsEqual(noLocation))
	})

	t.Run("unconstructed driver fails validation", func(t *testing.T) {
		d := deliveryAt(t, 34.0522, -118.2437)

		_, err := matcher.Match(d, []*driver.Driver{{}})

		require.Error(t, err)
	})
}

func TestDriverMatcher_Rank(t *testing.T) {
	matcher := services.NewDriverMatcher()

	t.Run("orders by distance with no-location drivers last", func(t *testing.T) {
		d := deliveryAt(t, 34.0522, -118.2437)
		near := availableDriverAt(t, "Near", 34.0622, -118.2537)
		mid := availableDriverAt(t, "Mid", 34.1478, -118.1445)
		noLocation, err := driver.NewDriver(kernel.NewUUID(), "Ghost", "+1-555-0102", "Van", 1)
		require.NoError(t, err)
		require.NoError(t, noLocation.SetAvailability(driver.Available))

		ranked, rankErr := matcher.Rank(d, []*driver.Driver{noLocation, mid, near})

		require.NoError(t, rankErr)
		require.Len(t, ranked, 3)
		assert.True(t, ranked[0].IsEqual(near))
		assert.True(t, ranked[1].IsEqual(mid))
		assert.True(t, ranked[2].IsEqual(noLocation))
	})

	t.Run("ungeocoded destination keeps caller order", func(t *testing.T) {
		customer, err := delivery.NewCustomer("Dana Reyes", "+1-555-0134", "842 Sunset Blvd", nil)
		require.NoError(t, err)
		item, err := delivery.NewItem("Blue Dream 3.5g", 1)
		require.NoError(t, err)
		scheduled := time.Now()
		d, err := delivery.NewDelivery(
			kernel.NewUUID(), kernel.NewUUID(), customer, []delivery.Item{item},
			delivery.PriorityLow, scheduled, scheduled.Add(time.Hour), 5, 7.99, "")
		require.NoError(t, err)

		first := availableDriverAt(t, "First", 34.0522, -118.2437)
		second := availableDriverAt(t, "Second", 34.0523, -118.2438)

		ranked, rankErr := matcher.Rank(d, []*driver.Driver{first, second})

		require.NoError(t, rankErr)
		require.Len(t, ranked, 2)
		assert.True(t, ranked[0].IsEqual(first))
		assert.True(t, ranked[1].IsEqual(second))
	})
}
