package commands

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
)

// AssignDriverCommandHandler executes a manual assignment. It is a thin
// front over the shared transition path, so manual and automatic assignment
// cannot drift apart in their transactional semantics.
type AssignDriverCommandHandler struct {
	transitionHandler TransitionDeliveryCommandHandler
}

// NewAssignDriverCommandHandler creates a handler for manual assignment.
func NewAssignDriverCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		transitionHandler: NewTransitionDeliveryCommandHandler(uowFactory, publisher),
	}
}

// Handle assigns the chosen driver to the delivery.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	driverID := cmd.DriverID()
	transition, err := NewTransitionDeliveryCommand(
		cmd.DeliveryID(), cmd.ExpectedVersion(), delivery.StatusAssigned, &driverID, "")
	if err != nil {
		return err
	}

	return h.transitionHandler.Handle(ctx, transition)
}
