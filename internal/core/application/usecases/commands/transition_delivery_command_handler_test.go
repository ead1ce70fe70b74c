package commands_test

import (
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func transitionTestDelivery(t *testing.T, status delivery.Status, driverID *kernel.UUID, version int) *delivery.Delivery {
	t.Helper()

	location, err := kernel.NewGeoPoint(34.0522, -118.2437)
	require.NoError(t, err)

	customer, err := delivery.NewCustomer("Ada Chen", "+1-555-0142", "742 Vine St", &location)
	require.NoError(t, err)

	item, err := delivery.NewItem("Blue Dream 3.5g", 2)
	require.NoError(t, err)

	d, err := delivery.RestoreDelivery(
		kernel.NewUUID(), kernel.NewUUID(), customer, []delivery.Item{item},
		status, delivery.PriorityHigh, driverID,
		time.Now().UTC(), time.Now().UTC().Add(45*time.Minute), nil,
		4.2, 6.99, "", "", version)
	require.NoError(t, err)
	return d
}

func transitionTestDriver(t *testing.T, availability driver.Availability, active int) *driver.Driver {
	t.Helper()

	d, err := driver.RestoreDriver(
		kernel.NewUUID(), "Marcus Webb", "+1-555-0198", "Honda Civic",
		availability, nil, active, 1, 0, 0)
	require.NoError(t, err)
	return d
}

func newTransitionMocks(
	t *testing.T,
) (*MockUoWFactory, *MockUoW, *MockDeliveryRepository, *MockDriverRepository) {
	t.Helper()

	deliveryRepo := new(MockDeliveryRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	uow.On("DeliveryRepository").Return(deliveryRepo).Maybe()
	uow.On("DriverRepository").Return(driverRepo).Maybe()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory, uow, deliveryRepo, driverRepo
}

func TestTransitionDeliveryCommandHandler_Handle_MarkPickedUp(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	testDelivery := transitionTestDelivery(t, delivery.StatusAssigned, &driverID, 2)

	cmd, err := commands.NewTransitionDeliveryCommand(
		testDelivery.ID(), 2, delivery.StatusPickedUp, nil, "")
	require.NoError(t, err)

	factory, uow, deliveryRepo, driverRepo := newTransitionMocks(t)
	uow.On("Begin", ctx).Return(nil).Once()
	deliveryRepo.On("Get", ctx, testDelivery.ID()).Return(testDelivery, nil).Once()
	deliveryRepo.On("Update", ctx, testDelivery, 2).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	publisher := new(RecordingPublisher)
	handler := commands.NewTransitionDeliveryCommandHandler(factory, publisher)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, delivery.StatusPickedUp, testDelivery.Status())
	assert.Equal(t, 3, testDelivery.Version())
	assert.Equal(t, []string{"delivery.status_changed"}, publisher.names())
	driverRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	deliveryRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestTransitionDeliveryCommandHandler_Handle_Assign(t *testing.T) {
	ctx := t.Context()
	testDelivery := transitionTestDelivery(t, delivery.StatusPending, nil, 1)
	testDriver := transitionTestDriver(t, driver.Available, 0)
	driverID := testDriver.ID()

	cmd, err := commands.NewTransitionDeliveryCommand(
		testDelivery.ID(), 1, delivery.StatusAssigned, &driverID, "")
	require.NoError(t, err)

	factory, uow, deliveryRepo, driverRepo := newTransitionMocks(t)
	uow.On("Begin", ctx).Return(nil).Once()
	deliveryRepo.On("Get", ctx, testDelivery.ID()).Return(testDelivery, nil).Once()
	driverRepo.On("Get", ctx, driverID).Return(testDriver, nil).Once()
	deliveryRepo.On("Update", ctx, testDelivery, 1).Return(nil).Once()
	driverRepo.On("Update", ctx, testDriver).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	publisher := new(RecordingPublisher)
	handler := commands.NewTransitionDeliveryCommandHandler(factory, publisher)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, delivery.StatusAssigned, testDelivery.Status())
	require.NotNil(t, testDelivery.Driver())
	assert.Equal(t, driverID, *testDelivery.Driver())
	assert.Equal(t, 1, testDriver.ActiveDeliveries())
	assert.Equal(t, driver.Busy, testDriver.Availability())
	assert.Equal(t,
		[]string{"delivery.status_changed", "delivery.assigned", "driver.availability_changed"},
		publisher.names())
	deliveryRepo.AssertExpectations(t)
	driverRepo.AssertExpectations(t)
}

func TestTransitionDeliveryCommandHandler_Handle_Deliver(t *testing.T) {
	ctx := t.Context()
	testDriver := transitionTestDriver(t, driver.Busy, 1)
	driverID := testDriver.ID()
	testDelivery := transitionTestDelivery(t, delivery.StatusInTransit, &driverID, 4)

	cmd, err := commands.NewTransitionDeliveryCommand(
		testDelivery.ID(), 4, delivery.StatusDelivered, nil, "")
	require.NoError(t, err)

	factory, uow, deliveryRepo, driverRepo := newTransitionMocks(t)
	uow.On("Begin", ctx).Return(nil).Once()
	deliveryRepo.On("Get", ctx, testDelivery.ID()).Return(testDelivery, nil).Once()
	driverRepo.On("Get", ctx, driverID).Return(testDriver, nil).Once()
	deliveryRepo.On("Update", ctx, testDelivery, 4).Return(nil).Once()
	driverRepo.On("Update", ctx, testDriver).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	publisher := new(RecordingPublisher)
	handler := commands.NewTransitionDeliveryCommandHandler(factory, publisher)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, delivery.StatusDelivered, testDelivery.Status())
	require.NotNil(t, testDelivery.ActualDelivery())
	assert.Equal(t, 0, testDriver.ActiveDeliveries())
	assert.Equal(t, driver.Available, testDriver.Availability())
	assert.Equal(t, 1, testDriver.CompletedToday())
	assert.InDelta(t, 6.99, testDriver.EarningsToday(), 0.001)
	assert.Equal(t,
		[]string{"delivery.status_changed", "delivery.terminal", "driver.availability_changed"},
		publisher.names())
}

func TestTransitionDeliveryCommandHandler_Handle_CancelPending(t *testing.T) {
	ctx := t.Context()
	testDelivery := transitionTestDelivery(t, delivery.StatusPending, nil, 1)

	cmd, err := commands.NewTransitionDeliveryCommand(
		testDelivery.ID(), 1, delivery.StatusFailed, nil, delivery.CancelReason)
	require.NoError(t, err)

	factory, uow, deliveryRepo, driverRepo := newTransitionMocks(t)
	uow.On("Begin", ctx).Return(nil).Once()
	deliveryRepo.On("Get", ctx, testDelivery.ID()).Return(testDelivery, nil).Once()
	deliveryRepo.On("Update", ctx, testDelivery, 1).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	publisher := new(RecordingPublisher)
	handler := commands.NewTransitionDeliveryCommandHandler(factory, publisher)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, delivery.StatusFailed, testDelivery.Status())
	assert.Equal(t, delivery.CancelReason, testDelivery.FailureReason())
	driverRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	assert.Equal(t, []string{"delivery.status_changed", "delivery.terminal"}, publisher.names())
}

func TestTransitionDeliveryCommandHandler_Handle_FailActiveReleasesDriver(t *testing.T) {
	ctx := t.Context()
	testDriver := transitionTestDriver(t, driver.Busy, 1)
	driverID := testDriver.ID()
	testDelivery := transitionTestDelivery(t, delivery.StatusPickedUp, &driverID, 3)

	cmd, err := commands.NewTransitionDeliveryCommand(
		testDelivery.ID(), 3, delivery.StatusFailed, nil, "customer not home")
	require.NoError(t, err)

	factory, uow, deliveryRepo, driverRepo := newTransitionMocks(t)
	uow.On("Begin", ctx).Return(nil).Once()
	deliveryRepo.On("Get", ctx, testDelivery.ID()).Return(testDelivery, nil).Once()
	driverRepo.On("Get", ctx, driverID).Return(testDriver, nil).Once()
	deliveryRepo.On("Update", ctx, testDelivery, 3).Return(nil).Once()
	driverRepo.On("Update", ctx, testDriver).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	publisher := new(RecordingPublisher)
	handler := commands.NewTransitionDeliveryCommandHandler(factory, publisher)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, delivery.StatusFailed, testDelivery.Status())
	assert.Equal(t, 0, testDriver.ActiveDeliveries())
	assert.Equal(t, 0, testDriver.CompletedToday())
	assert.Zero(t, testDriver.EarningsToday())
}

func TestTransitionDeliveryCommandHandler_Handle_StaleVersion(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	testDelivery := transitionTestDelivery(t, delivery.StatusAssigned, &driverID, 3)

	cmd, err := commands.NewTransitionDeliveryCommand(
		testDelivery.ID(), 2, delivery.StatusPickedUp, nil, "")
	require.NoError(t, err)

	factory, uow, deliveryRepo, _ := newTransitionMocks(t)
	uow.On("Begin", ctx).Return(nil).Once()
	deliveryRepo.On("Get", ctx, testDelivery.ID()).Return(testDelivery, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	publisher := new(RecordingPublisher)
	handler := commands.NewTransitionDeliveryCommandHandler(factory, publisher)

	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrVersionConflict)
	assert.Equal(t, delivery.StatusAssigned, testDelivery.Status())
	assert.Empty(t, publisher.published)
	deliveryRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestTransitionDeliveryCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	testDelivery := transitionTestDelivery(t, delivery.StatusPending, nil, 1)

	cmd, err := commands.NewTransitionDeliveryCommand(
		testDelivery.ID(), 1, delivery.StatusDelivered, nil, "")
	require.NoError(t, err)

	factory, uow, deliveryRepo, _ := newTransitionMocks(t)
	uow.On("Begin", ctx).Return(nil).Once()
	deliveryRepo.On("Get", ctx, testDelivery.ID()).Return(testDelivery, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	publisher := new(RecordingPublisher)
	handler := commands.NewTransitionDeliveryCommandHandler(factory, publisher)

	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, delivery.StatusPending, testDelivery.Status())
	assert.Equal(t, 1, testDelivery.Version())
}

func TestTransitionDeliveryCommandHandler_Handle_UpdateConflict(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	testDelivery := transitionTestDelivery(t, delivery.StatusAssigned, &driverID, 2)

	cmd, err := commands.NewTransitionDeliveryCommand(
		testDelivery.ID(), 2, delivery.StatusPickedUp, nil, "")
	require.NoError(t, err)

	conflict := errs.NewVersionConflictError("delivery", testDelivery.ID(), 2)

	factory, uow, deliveryRepo, _ := newTransitionMocks(t)
	uow.On("Begin", ctx).Return(nil).Once()
	deliveryRepo.On("Get", ctx, testDelivery.ID()).Return(testDelivery, nil).Once()
	deliveryRepo.On("Update", ctx, testDelivery, 2).Return(conflict).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	publisher := new(RecordingPublisher)
	handler := commands.NewTransitionDeliveryCommandHandler(factory, publisher)

	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrVersionConflict)
	assert.Empty(t, publisher.published)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestTransitionDeliveryCommandHandler_Handle_OfflineDriverRejected(t *testing.T) {
	ctx := t.Context()
	testDelivery := transitionTestDelivery(t, delivery.StatusPending, nil, 1)
	testDriver := transitionTestDriver(t, driver.Offline, 0)
	driverID := testDriver.ID()

	cmd, err := commands.NewTransitionDeliveryCommand(
		testDelivery.ID(), 1, delivery.StatusAssigned, &driverID, "")
	require.NoError(t, err)

	factory, uow, deliveryRepo, driverRepo := newTransitionMocks(t)
	uow.On("Begin", ctx).Return(nil).Once()
	deliveryRepo.On("Get", ctx, testDelivery.ID()).Return(testDelivery, nil).Once()
	driverRepo.On("Get", ctx, driverID).Return(testDriver, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	publisher := new(RecordingPublisher)
	handler := commands.NewTransitionDeliveryCommandHandler(factory, publisher)

	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, driver.ErrDriverIsOffline)
	assert.Equal(t, delivery.StatusPending, testDelivery.Status())
}

func TestTransitionDeliveryCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	var cmd commands.TransitionDeliveryCommand

	factory := new(MockUoWFactory)
	handler := commands.NewTransitionDeliveryCommandHandler(factory, ports.NopEventPublisher{})

	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrTransitionDeliveryCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestTransitionDeliveryCommandHandler_Handle_GetError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewTransitionDeliveryCommand(
		kernel.NewUUID(), 1, delivery.StatusPickedUp, nil, "")
	require.NoError(t, err)

	factory, uow, deliveryRepo, _ := newTransitionMocks(t)
	uow.On("Begin", ctx).Return(nil).Once()
	deliveryRepo.On("Get", ctx, cmd.DeliveryID()).Return(nil, errors.New("database error")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewTransitionDeliveryCommandHandler(factory, ports.NopEventPublisher{})

	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "database error")
}
