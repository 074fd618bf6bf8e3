package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/listenline/session-booking/internal/domain/booking"
	slotdomain "github.com/listenline/session-booking/internal/domain/slot"
	"github.com/listenline/session-booking/internal/models"
)

type ListenerGormRepository struct {
	db *gorm.DB
}

func NewListenerGormRepository(db *gorm.DB) *ListenerGormRepository {
	return &ListenerGormRepository{db: db}
}

// ListActiveByLoad orders active listeners by how many non-cancelled
// slots they already own on the date, so assignment spreads load.
func (r *ListenerGormRepository) ListActiveByLoad(
	ctx context.Context,
	date string,
) ([]models.Listener, error) {

	var listeners []models.Listener
	err := r.db.WithContext(ctx).
		Model(&models.Listener{}).
		Select("listeners.*").
		Joins(
			"LEFT JOIN time_slots ON time_slots.listener_id = listeners.id AND time_slots.date = ? AND time_slots.status <> ?",
			date,
			string(slotdomain.StatusCancelled),
		).
		Where("listeners.active = ?", true).
		Group("listeners.id").
		Order("COUNT(time_slots.id) ASC, listeners.created_at ASC").
		Find(&listeners).Error
	if err != nil {
		return nil, fmt.Errorf("list active listeners: %w", err)
	}
	return listeners, nil
}

// Compile-time check
var _ domain.Pool = (*ListenerGormRepository)(nil)
