package slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/listenline/session-booking/internal/audit"
	"github.com/listenline/session-booking/internal/cache"
	domain "github.com/listenline/session-booking/internal/domain/slot"
	"github.com/listenline/session-booking/internal/httperr"
	"github.com/listenline/session-booking/internal/models"
	"github.com/listenline/session-booking/internal/store"
)

type BulkCreateSlots struct {
	repo   domain.Repository
	runner *store.Runner
	cache  *cache.Service
	audit  *audit.Dispatcher
}

func NewBulkCreateSlots(
	repo domain.Repository,
	runner *store.Runner,
	cacheSvc *cache.Service,
	auditDisp *audit.Dispatcher,
) *BulkCreateSlots {
	return &BulkCreateSlots{
		repo:   repo,
		runner: runner,
		cache:  cacheSvc,
		audit:  auditDisp,
	}
}

// ownerKey groups batch members by (listener, date) for the pairwise
// overlap check.
func ownerKey(listenerID *string, date string) string {
	if listenerID == nil {
		return "pool|" + date
	}
	return *listenerID + "|" + date
}

// Execute validates every member before inserting any. One bad member
// rejects the whole batch: no partial insert.
func (uc *BulkCreateSlots) Execute(
	ctx context.Context,
	inputs []CreateSlotInput,
) ([]*models.TimeSlot, error) {

	if len(inputs) == 0 {
		return nil, httperr.Validation(httperr.CodeInvalidInput, "empty batch")
	}

	slots := make([]*models.TimeSlot, 0, len(inputs))
	byOwner := make(map[string][]domain.Interval)

	for i, in := range inputs {
		s, err := validate(in)
		if err != nil {
			if ae, ok := httperr.As(err); ok {
				return nil, httperr.Validation(ae.Code, fmt.Sprintf("slot %d: %s", i, ae.Message))
			}
			return nil, err
		}

		iv, _ := domain.IntervalOf(s)
		key := ownerKey(in.ListenerID, in.Date)
		for _, other := range byOwner[key] {
			if iv.Overlaps(other) {
				return nil, httperr.Conflict(
					httperr.CodeSlotOverlap,
					fmt.Sprintf("slot %d overlaps another batch member", i),
				)
			}
		}
		byOwner[key] = append(byOwner[key], iv)

		slots = append(slots, s)
	}

	// Conflicts against already-stored slots are checked inside the
	// batch insert transaction, all-or-nothing.
	if err := uc.runner.Do(ctx, "slot.create_batch", func(ctx context.Context) error {
		return uc.repo.CreateBatch(ctx, slots)
	}); err != nil {
		var oe *domain.OverlapError
		if errors.As(err, &oe) {
			return nil, httperr.Conflict(httperr.CodeSlotOverlap, oe.Error())
		}
		return nil, err
	}

	uc.cache.InvalidateTag(ctx, cache.TagSlot)

	uc.audit.Dispatch(audit.Event{
		Action:   "slots_bulk_created",
		Entity:   "slot",
		Metadata: map[string]int{"count": len(slots)},
	})

	return slots, nil
}
