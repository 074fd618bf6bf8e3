// Package meeting defines the credential issuer collaborator. The
// engine treats issuance failure as non-fatal: a booking proceeds
// without a link and an operator attaches one later.
package meeting

import (
	"context"
	"time"
)

// Window is the session's time window the credential is issued for.
type Window struct {
	Date      string
	StartTime string
	EndTime   string
}

type Credential struct {
	Link     string `json:"link"`
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

type Issuer interface {
	Issue(ctx context.Context, w Window) (*Credential, error)
}

// Deadline bounds an issuance call so the orchestrator never blocks on
// a slow provider.
const Deadline = 5 * time.Second
