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
	"github.com/listenline/session-booking/internal/meeting"
	"github.com/listenline/session-booking/internal/models"
	"github.com/listenline/session-booking/internal/store"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateBookingInput struct {
	UserID string
	SlotID string
}

type CreateBookingOutput struct {
	Booking *models.Booking     `json:"booking"`
	Meeting *meeting.Credential `json:"meeting"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	slots    slotdomain.Repository
	bookings domain.Repository
	pool     domain.Pool
	issuer   meeting.Issuer
	runner   *store.Runner
	cache    *cache.Service
	audit    *audit.Dispatcher
	log      zerolog.Logger
}

func NewCreateBooking(
	slots slotdomain.Repository,
	bookings domain.Repository,
	pool domain.Pool,
	issuer meeting.Issuer,
	runner *store.Runner,
	cacheSvc *cache.Service,
	auditDisp *audit.Dispatcher,
	log zerolog.Logger,
) *CreateBooking {
	return &CreateBooking{
		slots:    slots,
		bookings: bookings,
		pool:     pool,
		issuer:   issuer,
		runner:   runner,
		cache:    cacheSvc,
		audit:    auditDisp,
		log:      log.With().Str("component", "booking").Logger(),
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*CreateBookingOutput, error) {

	if in.UserID == "" || in.SlotID == "" {
		return nil, httperr.Validation(httperr.CodeInvalidInput, "user_id and slot_id are required")
	}

	// --------------------------------------------------
	// 1. Authoritative slot read (never from cache)
	// --------------------------------------------------
	s, err := store.Query(ctx, uc.runner, "slot.get",
		func(ctx context.Context) (*models.TimeSlot, error) {
			return uc.slots.GetByID(ctx, in.SlotID)
		})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound(httperr.CodeSlotNotFound, "slot not found")
		}
		return nil, err
	}

	// --------------------------------------------------
	// 2. Availability gate
	// --------------------------------------------------
	if slotdomain.Status(s.Status) != slotdomain.StatusCreated {
		return nil, httperr.Conflict(httperr.CodeSlotNotAvailable, "slot is not available")
	}

	// --------------------------------------------------
	// 3. Atomic claim: created -> booked, conditioned on the status
	//    still being created. Losing the race is a conflict, not an
	//    internal error.
	// --------------------------------------------------
	claimed, err := store.Query(ctx, uc.runner, "slot.claim",
		func(ctx context.Context) (bool, error) {
			return uc.slots.UpdateStatusCAS(ctx, s.ID, slotdomain.StatusCreated, slotdomain.StatusBooked)
		})
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, httperr.Conflict(httperr.CodeSlotNotAvailable, "slot is not available")
	}

	// --------------------------------------------------
	// 4. Meeting credential. Issuance failure never rolls back the
	//    claim; an operator attaches the link later.
	// --------------------------------------------------
	cred := uc.issueMeeting(ctx, s)

	// --------------------------------------------------
	// 5. Persist the booking, copying whatever meeting fields exist.
	// --------------------------------------------------
	b := &models.Booking{
		UserID: in.UserID,
		SlotID: s.ID,
		Status: string(domain.StatusConfirmed),
	}
	if cred != nil {
		b.MeetingLink = &cred.Link
		b.MeetingID = &cred.ID
		b.MeetingProvider = &cred.Provider
	}

	if err := uc.runner.Do(ctx, "booking.create", func(ctx context.Context) error {
		return uc.bookings.Create(ctx, b)
	}); err != nil {
		// Release the claim so the slot is not stranded in booked with
		// no booking row behind it.
		uc.releaseClaim(ctx, s.ID)
		return nil, err
	}

	// --------------------------------------------------
	// 6. Listener assignment. Only slots still owned by the unassigned
	//    pool get a listener; an empty pool is not a failure.
	// --------------------------------------------------
	uc.assignListener(ctx, s)

	// --------------------------------------------------
	// 7. Cache invalidation + audit
	// --------------------------------------------------
	uc.cache.InvalidateTag(ctx, cache.TagSlot, cache.TagBooking)

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.UserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]string{"slot_id": s.ID},
	})

	return &CreateBookingOutput{Booking: b, Meeting: cred}, nil
}

// issueMeeting requests a credential under its own deadline and writes
// it back onto the slot. Every failure here is logged and absorbed.
func (uc *CreateBooking) issueMeeting(ctx context.Context, s *models.TimeSlot) *meeting.Credential {
	issueCtx, cancel := context.WithTimeout(ctx, meeting.Deadline)
	defer cancel()

	cred, err := uc.issuer.Issue(issueCtx, meeting.Window{
		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("slot_id", s.ID).Msg("meeting issuance failed, booking proceeds without link")
		return nil
	}

	if err := uc.runner.Do(ctx, "slot.set_meeting", func(ctx context.Context) error {
		return uc.slots.SetMeeting(ctx, s.ID, cred.Link, cred.ID, cred.Provider)
	}); err != nil {
		uc.log.Warn().Err(err).Str("slot_id", s.ID).Msg("storing meeting fields failed")
	}

	s.MeetingLink = &cred.Link
	s.MeetingID = &cred.ID
	s.MeetingProvider = &cred.Provider
	return cred
}

func (uc *CreateBooking) assignListener(ctx context.Context, s *models.TimeSlot) {
	if s.ListenerID != nil {
		return
	}

	listeners, err := store.Query(ctx, uc.runner, "listener.list_active",
		func(ctx context.Context) ([]models.Listener, error) {
			return uc.pool.ListActiveByLoad(ctx, s.Date)
		})
	if err != nil {
		uc.log.Warn().Err(err).Str("slot_id", s.ID).Msg("listener pool lookup failed, slot stays unassigned")
		return
	}
	if len(listeners) == 0 {
		return
	}

	chosen := listeners[0]
	if err := uc.runner.Do(ctx, "slot.assign_listener", func(ctx context.Context) error {
		return uc.slots.AssignListener(ctx, s.ID, chosen.ID)
	}); err != nil {
		uc.log.Warn().Err(err).Str("slot_id", s.ID).Msg("listener assignment failed, slot stays unassigned")
		return
	}
	s.ListenerID = &chosen.ID
}

func (uc *CreateBooking) releaseClaim(ctx context.Context, slotID string) {
	released, err := uc.slots.UpdateStatusCAS(ctx, slotID, slotdomain.StatusBooked, slotdomain.StatusCreated)
	if err != nil || !released {
		uc.log.Error().Err(err).Str("slot_id", slotID).Msg("failed to release claimed slot")
	}
}
