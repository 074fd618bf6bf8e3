package slot

import "github.com/listenline/session-booking/internal/httperr"

// ===============================
// TimeSlot Status
// ===============================

type Status string

const (
	StatusCreated   Status = "created"
	StatusBooked    Status = "booked"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions is the full lifecycle: created and booked are the only
// non-terminal states. booked -> created re-lists a slot after its
// booking is cancelled.
var transitions = map[Status][]Status{
	StatusCreated: {StatusBooked, StatusCancelled},
	StatusBooked:  {StatusCompleted, StatusCreated},
}

func IsValid(s Status) bool {
	switch s {
	case StatusCreated, StatusBooked, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.Validation(
		httperr.CodeIllegalTransition,
		"cannot move slot from "+string(from)+" to "+string(to),
	)
}
