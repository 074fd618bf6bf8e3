package slot

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/listenline/session-booking/internal/audit"
	"github.com/listenline/session-booking/internal/cache"
	domain "github.com/listenline/session-booking/internal/domain/slot"
	"github.com/listenline/session-booking/internal/models"
	"github.com/listenline/session-booking/internal/store"
)

// ----- Fake repo -----

// fakeSlotRepo is an in-memory domain.Repository with the same CAS and
// overlap-checked insert semantics as the gorm implementation: the
// conflict scan and the insert happen under one mutex hold, the way the
// real repository runs them in one locked transaction.
type fakeSlotRepo struct {
	mu    sync.Mutex
	seq   int
	slots map[string]*models.TimeSlot

	countCalls int
	listCalls  int

	failWith error // when set, every call returns this error
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[string]*models.TimeSlot)}
}

func (r *fakeSlotRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("slot-%d", r.seq)
}

// findConflict scans for an intersecting non-cancelled slot of the same
// owner/date. Callers hold r.mu.
func (r *fakeSlotRepo) findConflict(s *models.TimeSlot) *models.TimeSlot {
	iv, ok := domain.IntervalOf(s)
	if !ok {
		return nil
	}
	for _, other := range r.slots {
		if other.Date != s.Date ||
			other.Status == string(domain.StatusCancelled) ||
			!sameOwner(other.ListenerID, s.ListenerID) {
			continue
		}
		oiv, ok := domain.IntervalOf(other)
		if ok && iv.Overlaps(oiv) {
			cp := *other
			return &cp
		}
	}
	return nil
}

func (r *fakeSlotRepo) insert(s *models.TimeSlot) error {
	if conflict := r.findConflict(s); conflict != nil {
		return &domain.OverlapError{Conflict: *conflict}
	}
	if s.ID == "" {
		s.ID = r.nextID()
	}
	cp := *s
	r.slots[s.ID] = &cp
	return nil
}

func (r *fakeSlotRepo) Create(ctx context.Context, s *models.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	return r.insert(s)
}

func (r *fakeSlotRepo) CreateBatch(ctx context.Context, slots []*models.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	inserted := make([]string, 0, len(slots))
	for _, s := range slots {
		if err := r.insert(s); err != nil {
			// All-or-nothing: undo the members already inserted.
			for _, id := range inserted {
				delete(r.slots, id)
			}
			return err
		}
		inserted = append(inserted, s.ID)
	}
	return nil
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	s, ok := r.slots[id]
	if !ok {
		return nil, fmt.Errorf("get slot %s: %w", id, gorm.ErrRecordNotFound)
	}
	cp := *s
	return &cp, nil
}

func sameOwner(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *fakeSlotRepo) available(fromDate string) []models.TimeSlot {
	var out []models.TimeSlot
	for _, s := range r.slots {
		if s.Status == string(domain.StatusCreated) && s.Date >= fromDate {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func (r *fakeSlotRepo) ListAvailable(ctx context.Context, fromDate string, offset, limit int) ([]models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.failWith != nil {
		return nil, r.failWith
	}
	all := r.available(fromDate)
	if offset >= len(all) {
		return []models.TimeSlot{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeSlotRepo) CountAvailable(ctx context.Context, fromDate string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countCalls++
	if r.failWith != nil {
		return 0, r.failWith
	}
	return int64(len(r.available(fromDate))), nil
}

func (r *fakeSlotRepo) UpdateStatusCAS(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return false, r.failWith
	}
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
	if r.failWith != nil {
		return false, r.failWith
	}
	if _, ok := r.slots[id]; !ok {
		return false, nil
	}
	delete(r.slots, id)
	return true, nil
}

func (r *fakeSlotRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return 0, r.failWith
	}
	n := int64(len(r.slots))
	r.slots = make(map[string]*models.TimeSlot)
	return n, nil
}

var _ domain.Repository = (*fakeSlotRepo)(nil)

// ----- Shared wiring -----

type fakeSink struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeSink) Log(actorID *string, action, entity string, entityID *string, metadata any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

func testRunner() *store.Runner {
	return store.NewRunner(0, time.Millisecond, time.Second, zerolog.Nop())
}

func testCache() *cache.Service {
	return cache.NewService(cache.NewMemoryStore(), time.Minute, zerolog.Nop())
}

func testAudit() *audit.Dispatcher {
	return audit.NewDispatcher(&fakeSink{}, zerolog.Nop())
}
