package booking

import "github.com/listenline/session-booking/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Cancelled and completed are terminal; a booking is only ever mutated
// out of confirmed.

func CanCancel(current Status) error {
	if current != StatusConfirmed {
		return httperr.Validation(
			httperr.CodeIllegalTransition,
			"only a confirmed booking can be cancelled",
		)
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.Validation(
			httperr.CodeIllegalTransition,
			"only a confirmed booking can be completed",
		)
	}
	return nil
}
