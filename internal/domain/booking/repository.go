package booking

import (
	"context"
	"time"

	"github.com/listenline/session-booking/internal/models"
)

type Repository interface {
	Create(
		ctx context.Context,
		b *models.Booking,
	) error

	GetByID(
		ctx context.Context,
		id string,
	) (*models.Booking, error)

	ListByUser(
		ctx context.Context,
		userID string,
	) ([]models.Booking, error)

	// UpdateStatusCAS moves a booking between statuses conditionally,
	// stamping cancelled_at / completed_at as appropriate. false means
	// the booking was not in the expected status.
	UpdateStatusCAS(
		ctx context.Context,
		id string,
		from Status,
		to Status,
		at time.Time,
	) (bool, error)
}

// Pool is the listener pool the orchestrator draws from when a booked
// slot still belongs to the unassigned pool.
type Pool interface {
	// ListActiveByLoad returns active listeners ordered by how many
	// non-cancelled slots they already own on the given date, fewest
	// first.
	ListActiveByLoad(
		ctx context.Context,
		date string,
	) ([]models.Listener, error)
}
