package booking

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/listenline/session-booking/internal/audit"
	"github.com/listenline/session-booking/internal/cache"
	domain "github.com/listenline/session-booking/internal/domain/booking"
	slotdomain "github.com/listenline/session-booking/internal/domain/slot"
	"github.com/listenline/session-booking/internal/httperr"
	"github.com/listenline/session-booking/internal/models"
	"github.com/listenline/session-booking/internal/store"
	"github.com/listenline/session-booking/internal/timezone"
)

type CancelBooking struct {
	slots    slotdomain.Repository
	bookings domain.Repository
	runner   *store.Runner
	cache    *cache.Service
	audit    *audit.Dispatcher
	log      zerolog.Logger
	tz       string
}

func NewCancelBooking(
	slots slotdomain.Repository,
	bookings domain.Repository,
	runner *store.Runner,
	cacheSvc *cache.Service,
	auditDisp *audit.Dispatcher,
	log zerolog.Logger,
	tz string,
) *CancelBooking {
	return &CancelBooking{
		slots:    slots,
		bookings: bookings,
		runner:   runner,
		cache:    cacheSvc,
		audit:    auditDisp,
		log:      log.With().Str("component", "booking").Logger(),
		tz:       tz,
	}
}

// Execute cancels a confirmed booking and re-lists its slot.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	bookingID string,
) (*models.Booking, error) {

	b, err := store.Query(ctx, uc.runner, "booking.get",
		func(ctx context.Context) (*models.Booking, error) {
			return uc.bookings.GetByID(ctx, bookingID)
		})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound(httperr.CodeBookingNotFound, "booking not found")
		}
		return nil, err
	}

	if err := domain.CanCancel(domain.Status(b.Status)); err != nil {
		return nil, err
	}

	now := timezone.NowIn(uc.tz)
	moved, err := store.Query(ctx, uc.runner, "booking.cancel",
		func(ctx context.Context) (bool, error) {
			return uc.bookings.UpdateStatusCAS(ctx, b.ID, domain.StatusConfirmed, domain.StatusCancelled, now)
		})
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, httperr.Conflict(
			httperr.CodeBookingConflict,
			"booking status changed concurrently",
		)
	}
	b.Status = string(domain.StatusCancelled)
	b.CancelledAt = &now

	// Re-list the slot. The slot may have moved on (e.g. completed by
	// an operator); that is logged, not surfaced, since the booking is
	// already cancelled.
	relisted, err := store.Query(ctx, uc.runner, "slot.release",
		func(ctx context.Context) (bool, error) {
			return uc.slots.UpdateStatusCAS(ctx, b.SlotID, slotdomain.StatusBooked, slotdomain.StatusCreated)
		})
	if err != nil || !relisted {
		uc.log.Warn().Err(err).Str("slot_id", b.SlotID).Msg("slot not re-listed on booking cancel")
	}

	uc.cache.InvalidateTag(ctx, cache.TagSlot, cache.TagBooking)

	uc.audit.Dispatch(audit.Event{
		ActorID:  &b.UserID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]string{"slot_id": b.SlotID},
	})

	return b, nil
}
