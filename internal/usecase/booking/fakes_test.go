package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/listenline/session-booking/internal/audit"
	"github.com/listenline/session-booking/internal/cache"
	domain "github.com/listenline/session-booking/internal/domain/booking"
	slotdomain "github.com/listenline/session-booking/internal/domain/slot"
	"github.com/listenline/session-booking/internal/meeting"
	"github.com/listenline/session-booking/internal/models"
	"github.com/listenline/session-booking/internal/store"
)

// ----- Slot repo fake -----

// fakeSlotRepo implements the subset of the slot repository the booking
// orchestrator touches, with the same CAS semantics as the gorm one. The
// mutex makes the CAS safe under the concurrency tests.
type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.TimeSlot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[string]*models.TimeSlot)}
}

func (r *fakeSlotRepo) add(s *models.TimeSlot) *models.TimeSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = fmt.Sprintf("slot-%d", len(r.slots)+1)
	}
	cp := *s
	r.slots[s.ID] = &cp
	return s
}

func (r *fakeSlotRepo) get(id string) models.TimeSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.slots[id]
}

func (r *fakeSlotRepo) Create(ctx context.Context, s *models.TimeSlot) error {
	r.add(s)
	return nil
}

func (r *fakeSlotRepo) CreateBatch(ctx context.Context, slots []*models.TimeSlot) error {
	for _, s := range slots {
		r.add(s)
	}
	return nil
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, fmt.Errorf("get slot %s: %w", id, gorm.ErrRecordNotFound)
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSlotRepo) ListAvailable(ctx context.Context, fromDate string, offset, limit int) ([]models.TimeSlot, error) {
	return nil, nil
}

func (r *fakeSlotRepo) CountAvailable(ctx context.Context, fromDate string) (int64, error) {
	return 0, nil
}

func (r *fakeSlotRepo) UpdateStatusCAS(ctx context.Context, id string, from, to slotdomain.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok || s.Status != string(from) {
		return false, nil
	}
	s.Status = string(to)
	return true, nil
}

func (r *fakeSlotRepo) SetMeeting(ctx context.Context, id, link, meetingID, provider string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[id]; ok {
		s.MeetingLink, s.MeetingID, s.MeetingProvider = &link, &meetingID, &provider
	}
	return nil
}

func (r *fakeSlotRepo) AssignListener(ctx context.Context, id, listenerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[id]; ok {
		s.ListenerID = &listenerID
	}
	return nil
}

func (r *fakeSlotRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return false, nil
	}
	delete(r.slots, id)
	return true, nil
}

func (r *fakeSlotRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.slots))
	r.slots = make(map[string]*models.TimeSlot)
	return n, nil
}

var _ slotdomain.Repository = (*fakeSlotRepo)(nil)

// ----- Booking repo fake -----

type fakeBookingRepo struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]*models.Booking

	createErr error // when set, Create fails with this
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if b.ID == "" {
		r.seq++
		b.ID = fmt.Sprintf("booking-%d", r.seq)
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("get booking %s: %w", id, gorm.ErrRecordNotFound)
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatusCAS(ctx context.Context, id string, from, to domain.Status, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != string(from) {
		return false, nil
	}
	b.Status = string(to)
	switch to {
	case domain.StatusCancelled:
		b.CancelledAt = &at
	case domain.StatusCompleted:
		b.CompletedAt = &at
	}
	return true, nil
}

var _ domain.Repository = (*fakeBookingRepo)(nil)

// ----- Pool / issuer / audit fakes -----

type fakePool struct {
	listeners []models.Listener
	err       error
}

func (p *fakePool) ListActiveByLoad(ctx context.Context, date string) ([]models.Listener, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.listeners, nil
}

var _ domain.Pool = (*fakePool)(nil)

type fakeIssuer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (i *fakeIssuer) Issue(ctx context.Context, w meeting.Window) (*meeting.Credential, error) {
	i.mu.Lock()
	i.calls++
	n := i.calls
	i.mu.Unlock()
	if i.err != nil {
		return nil, i.err
	}
	return &meeting.Credential{
		Link:     fmt.Sprintf("https://meet.test/%d", n),
		ID:       fmt.Sprintf("meet-%d", n),
		Provider: "stub",
	}, nil
}

var _ meeting.Issuer = (*fakeIssuer)(nil)

type fakeSink struct{}

func (fakeSink) Log(actorID *string, action, entity string, entityID *string, metadata any) error {
	return nil
}

// ----- Wiring -----

type fixture struct {
	slots    *fakeSlotRepo
	bookings *fakeBookingRepo
	pool     *fakePool
	issuer   *fakeIssuer
	cache    *cache.Service

	create   *CreateBooking
	cancel   *CancelBooking
	complete *CompleteBooking
	list     *ListUserBookings
}

func newFixture() *fixture {
	f := &fixture{
		slots:    newFakeSlotRepo(),
		bookings: newFakeBookingRepo(),
		pool:     &fakePool{},
		issuer:   &fakeIssuer{},
		cache:    cache.NewService(cache.NewMemoryStore(), time.Minute, zerolog.Nop()),
	}

	runner := store.NewRunner(0, time.Millisecond, time.Second, zerolog.Nop())
	auditDisp := audit.NewDispatcher(fakeSink{}, zerolog.Nop())
	log := zerolog.Nop()

	f.create = NewCreateBooking(f.slots, f.bookings, f.pool, f.issuer, runner, f.cache, auditDisp, log)
	f.cancel = NewCancelBooking(f.slots, f.bookings, runner, f.cache, auditDisp, log, "UTC")
	f.complete = NewCompleteBooking(f.bookings, runner, f.cache, auditDisp, "UTC")
	f.list = NewListUserBookings(f.bookings, runner, f.cache, 0)
	return f
}

func (f *fixture) addOpenSlot() *models.TimeSlot {
	return f.slots.add(&models.TimeSlot{
		Date:      "2026-09-01",
		StartTime: "09:00",
		EndTime:   "10:00",
		Status:    string(slotdomain.StatusCreated),
	})
}
