package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/listenline/session-booking/internal/domain/booking"
	"github.com/listenline/session-booking/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func (r *BookingGormRepository) Create(
	ctx context.Context,
	b *models.Booking,
) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *BookingGormRepository) GetByID(
	ctx context.Context,
	id string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&b).Error; err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *BookingGormRepository) ListByUser(
	ctx context.Context,
	userID string,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Slot").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings for user: %w", err)
	}
	return bookings, nil
}

func (r *BookingGormRepository) UpdateStatusCAS(
	ctx context.Context,
	id string,
	from domain.Status,
	to domain.Status,
	at time.Time,
) (bool, error) {

	updates := map[string]any{"status": string(to)}
	switch to {
	case domain.StatusCancelled:
		updates["cancelled_at"] = at
	case domain.StatusCompleted:
		updates["completed_at"] = at
	}

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("booking status %s -> %s: %w", from, to, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
