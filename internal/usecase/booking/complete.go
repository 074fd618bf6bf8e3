package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/listenline/session-booking/internal/audit"
	"github.com/listenline/session-booking/internal/cache"
	domain "github.com/listenline/session-booking/internal/domain/booking"
	"github.com/listenline/session-booking/internal/httperr"
	"github.com/listenline/session-booking/internal/models"
	"github.com/listenline/session-booking/internal/store"
	"github.com/listenline/session-booking/internal/timezone"
)

// CompleteBooking closes out a booking after the session happened.
// Booking completion is deliberately independent of the slot's own
// completed transition: completing one never auto-completes the other.
type CompleteBooking struct {
	bookings domain.Repository
	runner   *store.Runner
	cache    *cache.Service
	audit    *audit.Dispatcher
	tz       string
}

func NewCompleteBooking(
	bookings domain.Repository,
	runner *store.Runner,
	cacheSvc *cache.Service,
	auditDisp *audit.Dispatcher,
	tz string,
) *CompleteBooking {
	return &CompleteBooking{
		bookings: bookings,
		runner:   runner,
		cache:    cacheSvc,
		audit:    auditDisp,
		tz:       tz,
	}
}

func (uc *CompleteBooking) Execute(
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

	if err := domain.CanComplete(domain.Status(b.Status)); err != nil {
		return nil, err
	}

	now := timezone.NowIn(uc.tz)
	moved, err := store.Query(ctx, uc.runner, "booking.complete",
		func(ctx context.Context) (bool, error) {
			return uc.bookings.UpdateStatusCAS(ctx, b.ID, domain.StatusConfirmed, domain.StatusCompleted, now)
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
	b.Status = string(domain.StatusCompleted)
	b.CompletedAt = &now

	uc.cache.InvalidateTag(ctx, cache.TagBooking)

	uc.audit.Dispatch(audit.Event{
		Action:   "booking_completed",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
