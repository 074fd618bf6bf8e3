package slot

import (
	"fmt"

	"github.com/listenline/session-booking/internal/models"
)

// OverlapError is returned by the repository when an insert would
// intersect an existing non-cancelled slot of the same owner and date.
// The check runs inside the insert transaction, so losing to a
// concurrent create surfaces the same way as a plain conflict.
type OverlapError struct {
	Conflict models.TimeSlot
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf(
		"slot overlaps %s-%s on %s",
		e.Conflict.StartTime, e.Conflict.EndTime, e.Conflict.Date,
	)
}

// Interval is a half-open [Start,End) window in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// IntervalOf reads a slot's stored clock strings. Slots are validated
// at creation, so a parse failure here is treated as non-overlapping
// rather than an error.
func IntervalOf(s *models.TimeSlot) (Interval, bool) {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return Interval{}, false
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// FindOverlap returns the first existing slot whose window intersects
// the candidate interval. Callers pass only non-cancelled slots for the
// same (listener, date).
func FindOverlap(candidate Interval, existing []models.TimeSlot) *models.TimeSlot {
	for i := range existing {
		iv, ok := IntervalOf(&existing[i])
		if !ok {
			continue
		}
		if candidate.Overlaps(iv) {
			return &existing[i]
		}
	}
	return nil
}
