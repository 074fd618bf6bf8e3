package slot

import (
	"context"
	"errors"

	"github.com/listenline/session-booking/internal/audit"
	"github.com/listenline/session-booking/internal/cache"
	domain "github.com/listenline/session-booking/internal/domain/slot"
	"github.com/listenline/session-booking/internal/httperr"
	"github.com/listenline/session-booking/internal/models"
	"github.com/listenline/session-booking/internal/store"
)

// ======================================================
// INPUT
// ======================================================

type CreateSlotInput struct {
	Date       string
	StartTime  string
	EndTime    string
	ListenerID *string
	Price      int
}

// validate checks the input and returns the unsaved slot model with its
// derived duration. Shared with BulkCreateSlots.
func validate(in CreateSlotInput) (*models.TimeSlot, error) {
	if _, err := domain.ParseDate(in.Date); err != nil {
		return nil, err
	}

	duration, err := domain.Window(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	if in.Price < 0 {
		return nil, httperr.Validation(httperr.CodeInvalidInput, "price must not be negative")
	}

	return &models.TimeSlot{
		Date:            in.Date,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		DurationMinutes: duration,
		Status:          string(domain.StatusCreated),
		ListenerID:      in.ListenerID,
		Price:           in.Price,
	}, nil
}

// ======================================================
// USE CASE
// ======================================================

type CreateSlot struct {
	repo   domain.Repository
	runner *store.Runner
	cache  *cache.Service
	audit  *audit.Dispatcher
}

func NewCreateSlot(
	repo domain.Repository,
	runner *store.Runner,
	cacheSvc *cache.Service,
	auditDisp *audit.Dispatcher,
) *CreateSlot {
	return &CreateSlot{
		repo:   repo,
		runner: runner,
		cache:  cacheSvc,
		audit:  auditDisp,
	}
}

func (uc *CreateSlot) Execute(
	ctx context.Context,
	in CreateSlotInput,
) (*models.TimeSlot, error) {

	s, err := validate(in)
	if err != nil {
		return nil, err
	}

	// The overlap check runs inside the insert transaction, so a
	// concurrent create for the same owner/date cannot slip past it.
	if err := uc.runner.Do(ctx, "slot.create", func(ctx context.Context) error {
		return uc.repo.Create(ctx, s)
	}); err != nil {
		var oe *domain.OverlapError
		if errors.As(err, &oe) {
			return nil, httperr.Conflict(httperr.CodeSlotOverlap, oe.Error())
		}
		return nil, err
	}

	uc.cache.InvalidateTag(ctx, cache.TagSlot)

	uc.audit.Dispatch(audit.Event{
		Action:   "slot_created",
		Entity:   "slot",
		EntityID: &s.ID,
	})

	return s, nil
}
