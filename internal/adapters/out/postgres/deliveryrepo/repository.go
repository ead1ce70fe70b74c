package deliveryrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryRepository implements DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDeliveryRepository creates a new GORM delivery repository.
func NewGormDeliveryRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryRepository {
	return &GormDeliveryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new delivery to the database.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing delivery, guarded on the version the caller read.
// The WHERE clause on (id, version) is what serializes concurrent writers:
// the loser's UPDATE matches zero rows and surfaces a VersionConflictError.
func (r *GormDeliveryRepository) Update(
	ctx context.Context,
	aggregate *delivery.Delivery,
	expectedVersion int,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ? AND version = ?", dto.ID, expectedVersion).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.classifyMiss(ctx, aggregate, expectedVersion)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// classifyMiss distinguishes a stale version from a missing row after a
// guarded UPDATE matched nothing.
func (r *GormDeliveryRepository) classifyMiss(
	ctx context.Context,
	aggregate *delivery.Delivery,
	expectedVersion int,
) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return errs.NewObjectNotFoundError("delivery", aggregate.ID().String())
	}
	return errs.NewVersionConflictError("delivery", aggregate.ID().String(), expectedVersion)
}

// Get retrieves a delivery by ID.
func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllPending retrieves every Pending delivery in dispatch order: highest
// priority first, earliest scheduled time within a priority.
func (r *GormDeliveryRepository) GetAllPending(ctx context.Context) ([]*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	if err := r.db.WithContext(ctx).
		Where("status = ?", delivery.StatusPending).
		Order("priority DESC, scheduled_time ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// GetAllActiveByDriver retrieves the non-terminal deliveries assigned to a
// driver.
func (r *GormDeliveryRepository) GetAllActiveByDriver(
	ctx context.Context,
	driverID kernel.UUID,
) ([]*delivery.Delivery, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dtos []DeliveryDTO
	if err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status IN ?", driverID.Bytes(), []int{
			int(delivery.StatusAssigned),
			int(delivery.StatusPickedUp),
			int(delivery.StatusInTransit),
		}).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

func (r *GormDeliveryRepository) toDomainAll(dtos []DeliveryDTO) ([]*delivery.Delivery, error) {
	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}
