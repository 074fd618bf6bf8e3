package booking

import (
	"context"
	"time"

	"github.com/listenline/session-booking/internal/cache"
	domain "github.com/listenline/session-booking/internal/domain/booking"
	"github.com/listenline/session-booking/internal/httperr"
	"github.com/listenline/session-booking/internal/models"
	"github.com/listenline/session-booking/internal/store"
)

type ListUserBookings struct {
	bookings domain.Repository
	runner   *store.Runner
	cache    *cache.Service
	ttl      time.Duration
}

func NewListUserBookings(
	bookings domain.Repository,
	runner *store.Runner,
	cacheSvc *cache.Service,
	ttl time.Duration,
) *ListUserBookings {
	return &ListUserBookings{
		bookings: bookings,
		runner:   runner,
		cache:    cacheSvc,
		ttl:      ttl,
	}
}

func (uc *ListUserBookings) Execute(
	ctx context.Context,
	userID string,
) ([]models.Booking, error) {

	if userID == "" {
		return nil, httperr.Validation(httperr.CodeInvalidInput, "user_id is required")
	}

	key := cache.Key("bookings:user", userID)
	return cache.GetOrLoad(ctx, uc.cache, key, uc.ttl,
		func(ctx context.Context) ([]models.Booking, error) {
			return store.Query(ctx, uc.runner, "booking.list_by_user",
				func(ctx context.Context) ([]models.Booking, error) {
					return uc.bookings.ListByUser(ctx, userID)
				})
		})
}
