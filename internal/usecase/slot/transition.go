package slot

import (
	"context"

	"github.com/listenline/session-booking/internal/audit"
	"github.com/listenline/session-booking/internal/cache"
	domain "github.com/listenline/session-booking/internal/domain/slot"
	"github.com/listenline/session-booking/internal/httperr"
	"github.com/listenline/session-booking/internal/models"
	"github.com/listenline/session-booking/internal/store"
)

type TransitionStatus struct {
	get    *GetSlot
	repo   domain.Repository
	runner *store.Runner
	cache  *cache.Service
	audit  *audit.Dispatcher
}

func NewTransitionStatus(
	repo domain.Repository,
	runner *store.Runner,
	cacheSvc *cache.Service,
	auditDisp *audit.Dispatcher,
) *TransitionStatus {
	return &TransitionStatus{
		get:    NewGetSlot(repo, runner),
		repo:   repo,
		runner: runner,
		cache:  cacheSvc,
		audit:  auditDisp,
	}
}

// Execute applies a legal status transition with a conditional update,
// so a concurrent transition on the same slot cannot be overwritten.
func (uc *TransitionStatus) Execute(
	ctx context.Context,
	id string,
	to domain.Status,
) (*models.TimeSlot, error) {

	if !domain.IsValid(to) {
		return nil, httperr.Validation(httperr.CodeInvalidInput, "unknown slot status")
	}

	s, err := uc.get.Execute(ctx, id)
	if err != nil {
		return nil, err
	}

	from := domain.Status(s.Status)
	if err := domain.CanTransition(from, to); err != nil {
		return nil, err
	}

	moved, err := store.Query(ctx, uc.runner, "slot.transition",
		func(ctx context.Context) (bool, error) {
			return uc.repo.UpdateStatusCAS(ctx, id, from, to)
		})
	if err != nil {
		return nil, err
	}
	if !moved {
		// The read status went stale between the load and the update.
		return nil, httperr.Conflict(
			httperr.CodeSlotNotAvailable,
			"slot status changed concurrently",
		)
	}

	s.Status = string(to)
	uc.cache.InvalidateTag(ctx, cache.TagSlot)

	uc.audit.Dispatch(audit.Event{
		Action:   "slot_" + string(to),
		Entity:   "slot",
		EntityID: &s.ID,
		Metadata: map[string]string{"from": string(from)},
	})

	return s, nil
}
