package store

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"gorm.io/gorm"

	"github.com/listenline/session-booking/internal/httperr"
)

// transientMarkers are message fragments that mark a storage error as
// transient when no typed signal is available.
var transientMarkers = []string{
	"timeout",
	"connection",
	"network",
	"temporary",
	"rate limit",
}

// IsTransient reports whether an error is worth retrying. Kinded
// application errors and missing rows are deterministic and never
// retried; transport-level failures and deadline hits are.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := httperr.As(err); ok {
		return false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
