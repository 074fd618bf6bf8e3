package slot

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/listenline/session-booking/internal/domain/slot"
	"github.com/listenline/session-booking/internal/httperr"
	"github.com/listenline/session-booking/internal/models"
	"github.com/listenline/session-booking/internal/store"
)

type GetSlot struct {
	repo   domain.Repository
	runner *store.Runner
}

func NewGetSlot(repo domain.Repository, runner *store.Runner) *GetSlot {
	return &GetSlot{repo: repo, runner: runner}
}

// Execute is deliberately uncached: single-entity lookups read the
// authoritative row.
func (uc *GetSlot) Execute(
	ctx context.Context,
	id string,
) (*models.TimeSlot, error) {

	s, err := store.Query(ctx, uc.runner, "slot.get",
		func(ctx context.Context) (*models.TimeSlot, error) {
			return uc.repo.GetByID(ctx, id)
		})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound(httperr.CodeSlotNotFound, "slot not found")
		}
		return nil, err
	}
	return s, nil
}
