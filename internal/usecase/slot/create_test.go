package slot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/listenline/session-booking/internal/httperr"
)

func strptr(s string) *string { return &s }

func validInput() CreateSlotInput {
	return CreateSlotInput{
		Date:      "2026-09-01",
		StartTime: "09:00",
		EndTime:   "10:30",
		Price:     2500,
	}
}

func TestCreateSlot_ComputesDuration(t *testing.T) {
	repo := newFakeSlotRepo()
	uc := NewCreateSlot(repo, testRunner(), testCache(), testAudit())

	s, err := uc.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Execute error = %v", err)
	}
	if s.DurationMinutes != 90 {
		t.Errorf("DurationMinutes = %d; want 90", s.DurationMinutes)
	}
	if s.Status != "created" {
		t.Errorf("Status = %q; want created", s.Status)
	}
	if s.ID == "" {
		t.Error("created slot has no id")
	}
	if len(repo.slots) != 1 {
		t.Errorf("stored slots = %d; want 1", len(repo.slots))
	}
}

func TestCreateSlot_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateSlotInput)
	}{
		{"bad date", func(in *CreateSlotInput) { in.Date = "01/09/2026" }},
		{"bad clock", func(in *CreateSlotInput) { in.StartTime = "9am" }},
		{"inverted window", func(in *CreateSlotInput) { in.StartTime, in.EndTime = "10:30", "09:00" }},
		{"zero window", func(in *CreateSlotInput) { in.EndTime = in.StartTime }},
		{"negative price", func(in *CreateSlotInput) { in.Price = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeSlotRepo()
			uc := NewCreateSlot(repo, testRunner(), testCache(), testAudit())

			in := validInput()
			tc.mutate(&in)

			_, err := uc.Execute(context.Background(), in)
			if !httperr.IsKind(err, httperr.KindValidation) {
				t.Fatalf("error = %v; want validation kind", err)
			}
			if len(repo.slots) != 0 {
				t.Fatal("invalid input must not be persisted")
			}
		})
	}
}

func TestCreateSlot_RejectsOverlap(t *testing.T) {
	repo := newFakeSlotRepo()
	uc := NewCreateSlot(repo, testRunner(), testCache(), testAudit())
	ctx := context.Background()

	if _, err := uc.Execute(ctx, validInput()); err != nil {
		t.Fatalf("seed slot error = %v", err)
	}

	overlapping := validInput()
	overlapping.StartTime = "10:00"
	overlapping.EndTime = "11:00"

	_, err := uc.Execute(ctx, overlapping)
	if !httperr.IsCode(err, httperr.CodeSlotOverlap) {
		t.Fatalf("error = %v; want SLOT_OVERLAP conflict", err)
	}
	if len(repo.slots) != 1 {
		t.Fatalf("stored slots = %d; want 1", len(repo.slots))
	}
}

// Concurrent creates of the same window: the conflict check lives in
// the store-side insert, so exactly one wins and one row exists after.
func TestCreateSlot_ConcurrentSameWindow(t *testing.T) {
	repo := newFakeSlotRepo()
	uc := NewCreateSlot(repo, testRunner(), testCache(), testAudit())

	const racers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), validInput())

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case httperr.IsCode(err, httperr.CodeSlotOverlap):
				conflicts++
			default:
				t.Errorf("racer %d: unexpected error %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("wins = %d; want exactly 1", wins)
	}
	if conflicts != racers-1 {
		t.Errorf("conflicts = %d; want %d", conflicts, racers-1)
	}
	if len(repo.slots) != 1 {
		t.Errorf("stored slots = %d; want 1", len(repo.slots))
	}
}

func TestCreateSlot_TouchingWindowsAllowed(t *testing.T) {
	repo := newFakeSlotRepo()
	uc := NewCreateSlot(repo, testRunner(), testCache(), testAudit())
	ctx := context.Background()

	if _, err := uc.Execute(ctx, validInput()); err != nil {
		t.Fatal(err)
	}

	next := validInput()
	next.StartTime = "10:30"
	next.EndTime = "11:30"
	if _, err := uc.Execute(ctx, next); err != nil {
		t.Fatalf("back-to-back slot rejected: %v", err)
	}
}

func TestCreateSlot_OverlapScopedToOwner(t *testing.T) {
	repo := newFakeSlotRepo()
	uc := NewCreateSlot(repo, testRunner(), testCache(), testAudit())
	ctx := context.Background()

	a := validInput()
	a.ListenerID = strptr("listener-a")
	if _, err := uc.Execute(ctx, a); err != nil {
		t.Fatal(err)
	}

	// Same window, different listener: fine.
	b := validInput()
	b.ListenerID = strptr("listener-b")
	if _, err := uc.Execute(ctx, b); err != nil {
		t.Fatalf("different listener rejected: %v", err)
	}

	// Same window, unassigned pool: also a distinct owner.
	if _, err := uc.Execute(ctx, validInput()); err != nil {
		t.Fatalf("pool slot rejected: %v", err)
	}

	// But the pool itself still rejects overlap.
	if _, err := uc.Execute(ctx, validInput()); !httperr.IsCode(err, httperr.CodeSlotOverlap) {
		t.Fatalf("error = %v; want SLOT_OVERLAP in pool", err)
	}
}

func TestCreateSlot_InvalidatesAvailabilityCache(t *testing.T) {
	repo := newFakeSlotRepo()
	cacheSvc := testCache()
	create := NewCreateSlot(repo, testRunner(), cacheSvc, testAudit())
	list := NewListAvailableSlots(repo, testRunner(), cacheSvc, 0, "UTC")
	ctx := context.Background()

	if _, err := create.Execute(ctx, validInput()); err != nil {
		t.Fatal(err)
	}

	in := ListAvailableInput{FromDate: "2026-09-01"}
	page, err := list.Execute(ctx, in)
	if err != nil || page.Total != 1 {
		t.Fatalf("first list = (%+v, %v); want total 1", page, err)
	}

	// Cached: a second list must not hit the repo again.
	before := repo.countCalls
	if _, err := list.Execute(ctx, in); err != nil {
		t.Fatal(err)
	}
	if repo.countCalls != before {
		t.Fatal("second list should be served from cache")
	}

	// Creating a slot invalidates the listing.
	next := validInput()
	next.StartTime, next.EndTime = "11:00", "12:00"
	if _, err := create.Execute(ctx, next); err != nil {
		t.Fatal(err)
	}

	page, err = list.Execute(ctx, in)
	if err != nil || page.Total != 2 {
		t.Fatalf("list after create = (%+v, %v); want total 2", page, err)
	}
}

func TestBulkCreateSlots_AllOrNothing(t *testing.T) {
	repo := newFakeSlotRepo()
	uc := NewBulkCreateSlots(repo, testRunner(), testCache(), testAudit())
	ctx := context.Background()

	good := validInput()
	bad := validInput()
	bad.StartTime, bad.EndTime = "14:00", "13:00"

	_, err := uc.Execute(ctx, []CreateSlotInput{good, bad})
	if !httperr.IsKind(err, httperr.KindValidation) {
		t.Fatalf("error = %v; want validation kind", err)
	}
	if ae, _ := httperr.As(err); ae != nil && !strings.HasPrefix(ae.Message, "slot 1:") {
		t.Errorf("message %q should name the offending member", ae.Message)
	}
	if len(repo.slots) != 0 {
		t.Fatal("partial insert after invalid member")
	}
}

func TestBulkCreateSlots_InBatchOverlap(t *testing.T) {
	repo := newFakeSlotRepo()
	uc := NewBulkCreateSlots(repo, testRunner(), testCache(), testAudit())

	a := validInput()
	b := validInput()
	b.StartTime, b.EndTime = "10:00", "11:00"

	_, err := uc.Execute(context.Background(), []CreateSlotInput{a, b})
	if !httperr.IsCode(err, httperr.CodeSlotOverlap) {
		t.Fatalf("error = %v; want SLOT_OVERLAP", err)
	}
	if len(repo.slots) != 0 {
		t.Fatal("partial insert after in-batch overlap")
	}
}

func TestBulkCreateSlots_RejectsExistingOverlap(t *testing.T) {
	repo := newFakeSlotRepo()
	create := NewCreateSlot(repo, testRunner(), testCache(), testAudit())
	bulk := NewBulkCreateSlots(repo, testRunner(), testCache(), testAudit())
	ctx := context.Background()

	if _, err := create.Execute(ctx, validInput()); err != nil {
		t.Fatal(err)
	}

	member := validInput()
	member.StartTime, member.EndTime = "09:30", "10:00"
	_, err := bulk.Execute(ctx, []CreateSlotInput{member})
	if !httperr.IsCode(err, httperr.CodeSlotOverlap) {
		t.Fatalf("error = %v; want SLOT_OVERLAP against existing slot", err)
	}
	if len(repo.slots) != 1 {
		t.Fatalf("stored slots = %d; want only the seed", len(repo.slots))
	}
}

func TestBulkCreateSlots_EmptyBatch(t *testing.T) {
	uc := NewBulkCreateSlots(newFakeSlotRepo(), testRunner(), testCache(), testAudit())
	if _, err := uc.Execute(context.Background(), nil); !httperr.IsKind(err, httperr.KindValidation) {
		t.Fatalf("error = %v; want validation kind", err)
	}
}

func TestBulkCreateSlots_Success(t *testing.T) {
	repo := newFakeSlotRepo()
	uc := NewBulkCreateSlots(repo, testRunner(), testCache(), testAudit())

	inputs := make([]CreateSlotInput, 0, 4)
	for i := 0; i < 4; i++ {
		in := validInput()
		in.StartTime = fmt.Sprintf("%02d:00", 9+i)
		in.EndTime = fmt.Sprintf("%02d:00", 10+i)
		inputs = append(inputs, in)
	}

	slots, err := uc.Execute(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Execute error = %v", err)
	}
	if len(slots) != 4 || len(repo.slots) != 4 {
		t.Fatalf("created %d returned / %d stored; want 4 / 4", len(slots), len(repo.slots))
	}
	for _, s := range slots {
		if s.ID == "" {
			t.Error("batch member has no id")
		}
	}
}
