package slot

import (
	"context"

	"github.com/listenline/session-booking/internal/models"
)

type Repository interface {
	// -------- Create --------

	// Create inserts s unless a non-cancelled slot of the same owner
	// (listener, or the unassigned pool) and date intersects its window.
	// Check and insert run in one transaction with the conflict rows
	// locked, so two concurrent creates cannot both pass the check; the
	// loser gets an *OverlapError.
	Create(
		ctx context.Context,
		s *models.TimeSlot,
	) error

	// CreateBatch inserts all slots or none of them. Each member is
	// overlap-checked the way Create is, inside the same transaction, so
	// earlier members also count as conflicts for later ones.
	CreateBatch(
		ctx context.Context,
		slots []*models.TimeSlot,
	) error

	// -------- Read --------
	GetByID(
		ctx context.Context,
		id string,
	) (*models.TimeSlot, error)

	ListAvailable(
		ctx context.Context,
		fromDate string,
		offset int,
		limit int,
	) ([]models.TimeSlot, error)

	CountAvailable(
		ctx context.Context,
		fromDate string,
	) (int64, error)

	// -------- State change --------

	// UpdateStatusCAS performs a conditional status update and reports
	// whether a row changed. false means another request moved the slot
	// first; this is the atomic claim primitive.
	UpdateStatusCAS(
		ctx context.Context,
		id string,
		from Status,
		to Status,
	) (bool, error)

	SetMeeting(
		ctx context.Context,
		id string,
		link string,
		meetingID string,
		provider string,
	) error

	AssignListener(
		ctx context.Context,
		id string,
		listenerID string,
	) error

	// -------- Admin --------
	Delete(
		ctx context.Context,
		id string,
	) (bool, error)

	DeleteAll(
		ctx context.Context,
	) (int64, error)
}
