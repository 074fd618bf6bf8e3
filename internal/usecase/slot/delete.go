package slot

import (
	"context"

	"github.com/listenline/session-booking/internal/audit"
	"github.com/listenline/session-booking/internal/cache"
	domain "github.com/listenline/session-booking/internal/domain/slot"
	"github.com/listenline/session-booking/internal/httperr"
	"github.com/listenline/session-booking/internal/store"
)

type DeleteSlot struct {
	repo   domain.Repository
	runner *store.Runner
	cache  *cache.Service
	audit  *audit.Dispatcher
}

func NewDeleteSlot(
	repo domain.Repository,
	runner *store.Runner,
	cacheSvc *cache.Service,
	auditDisp *audit.Dispatcher,
) *DeleteSlot {
	return &DeleteSlot{
		repo:   repo,
		runner: runner,
		cache:  cacheSvc,
		audit:  auditDisp,
	}
}

func (uc *DeleteSlot) Execute(ctx context.Context, id string) error {
	deleted, err := store.Query(ctx, uc.runner, "slot.delete",
		func(ctx context.Context) (bool, error) {
			return uc.repo.Delete(ctx, id)
		})
	if err != nil {
		return err
	}
	if !deleted {
		return httperr.NotFound(httperr.CodeSlotNotFound, "slot not found")
	}

	uc.cache.InvalidateTag(ctx, cache.TagSlot)

	uc.audit.Dispatch(audit.Event{
		Action:   "slot_deleted",
		Entity:   "slot",
		EntityID: &id,
	})
	return nil
}

type DeleteAllSlots struct {
	repo   domain.Repository
	runner *store.Runner
	cache  *cache.Service
	audit  *audit.Dispatcher
}

func NewDeleteAllSlots(
	repo domain.Repository,
	runner *store.Runner,
	cacheSvc *cache.Service,
	auditDisp *audit.Dispatcher,
) *DeleteAllSlots {
	return &DeleteAllSlots{
		repo:   repo,
		runner: runner,
		cache:  cacheSvc,
		audit:  auditDisp,
	}
}

func (uc *DeleteAllSlots) Execute(ctx context.Context) (int64, error) {
	count, err := store.Query(ctx, uc.runner, "slot.delete_all",
		func(ctx context.Context) (int64, error) {
			return uc.repo.DeleteAll(ctx)
		})
	if err != nil {
		return 0, err
	}

	uc.cache.InvalidateTag(ctx, cache.TagSlot)

	uc.audit.Dispatch(audit.Event{
		Action:   "slots_cleared",
		Entity:   "slot",
		Metadata: map[string]int64{"count": count},
	})
	return count, nil
}
