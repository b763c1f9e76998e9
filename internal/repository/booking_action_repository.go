package repository

import (
	"context"

	"gorm.io/gorm"

	"househunt/internal/model"
)

// BookingActionRepository defines audit ledger persistence operations.
type BookingActionRepository interface {
	Create(ctx context.Context, action *model.BookingAction) error
	CreateBatch(ctx context.Context, actions []model.BookingAction) error
	ListRecent(ctx context.Context, limit int) ([]model.BookingAction, error)
	ListByBooking(ctx context.Context, bookingID string) ([]model.BookingAction, error)
}

type bookingActionRepository struct {
	db *gorm.DB
}

// NewBookingActionRepository creates a new booking action repository.
func NewBookingActionRepository(db *gorm.DB) BookingActionRepository {
	return &bookingActionRepository{db: db}
}

// Create creates a new audit entry.
func (r *bookingActionRepository) Create(ctx context.Context, action *model.BookingAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// CreateBatch creates multiple audit entries in a single statement.
func (r *bookingActionRepository) CreateBatch(ctx context.Context, actions []model.BookingAction) error {
	if len(actions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(actions, 100).Error
}

// ListRecent returns the newest entries first.
func (r *bookingActionRepository) ListRecent(ctx context.Context, limit int) ([]model.BookingAction, error) {
	if limit <= 0 {
		limit = 50
	}
	var actions []model.BookingAction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&actions).Error
	return actions, err
}

// ListByBooking returns the trail of one booking, oldest first.
func (r *bookingActionRepository) ListByBooking(ctx context.Context, bookingID string) ([]model.BookingAction, error) {
	var actions []model.BookingAction
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&actions).Error
	return actions, err
}
