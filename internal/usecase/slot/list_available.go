package slot

import (
	"context"
	"time"

	"github.com/listenline/session-booking/internal/cache"
	domain "github.com/listenline/session-booking/internal/domain/slot"
	"github.com/listenline/session-booking/internal/models"
	"github.com/listenline/session-booking/internal/store"
	"github.com/listenline/session-booking/internal/timezone"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type ListAvailableInput struct {
	Page     int
	Limit    int
	FromDate string // defaults to today in the platform timezone
}

type AvailablePage struct {
	Slots   []models.TimeSlot `json:"slots"`
	Total   int64             `json:"total"`
	HasMore bool              `json:"has_more"`
}

type ListAvailableSlots struct {
	repo     domain.Repository
	runner   *store.Runner
	cache    *cache.Service
	ttl      time.Duration
	timezone string
}

func NewListAvailableSlots(
	repo domain.Repository,
	runner *store.Runner,
	cacheSvc *cache.Service,
	ttl time.Duration,
	tz string,
) *ListAvailableSlots {
	return &ListAvailableSlots{
		repo:     repo,
		runner:   runner,
		cache:    cacheSvc,
		ttl:      ttl,
		timezone: tz,
	}
}

// Execute serves the availability listing from cache for up to the
// configured TTL; a few seconds of staleness is an accepted trade-off
// here. Booking creation never reads through this path.
func (uc *ListAvailableSlots) Execute(
	ctx context.Context,
	in ListAvailableInput,
) (AvailablePage, error) {

	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = DefaultPageLimit
	}
	if in.Limit > MaxPageLimit {
		in.Limit = MaxPageLimit
	}
	if in.FromDate == "" {
		in.FromDate = timezone.Today(uc.timezone)
	} else if _, err := domain.ParseDate(in.FromDate); err != nil {
		return AvailablePage{}, err
	}

	key := cache.Key("slots:available", in.Page, in.Limit, in.FromDate)

	return cache.GetOrLoad(ctx, uc.cache, key, uc.ttl,
		func(ctx context.Context) (AvailablePage, error) {
			total, err := store.Query(ctx, uc.runner, "slot.count_available",
				func(ctx context.Context) (int64, error) {
					return uc.repo.CountAvailable(ctx, in.FromDate)
				})
			if err != nil {
				return AvailablePage{}, err
			}

			offset := (in.Page - 1) * in.Limit
			slots := []models.TimeSlot{}
			if total > int64(offset) {
				slots, err = store.Query(ctx, uc.runner, "slot.list_available",
					func(ctx context.Context) ([]models.TimeSlot, error) {
						return uc.repo.ListAvailable(ctx, in.FromDate, offset, in.Limit)
					})
				if err != nil {
					return AvailablePage{}, err
				}
			}

			return AvailablePage{
				Slots:   slots,
				Total:   total,
				HasMore: total > int64(in.Page*in.Limit),
			}, nil
		})
}
