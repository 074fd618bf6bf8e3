package meeting

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// StubIssuer mints opaque join links locally. It stands in for a real
// conferencing provider behind the same interface.
type StubIssuer struct {
	baseURL  string
	provider string
}

func NewStubIssuer(baseURL, provider string) *StubIssuer {
	return &StubIssuer{
		baseURL:  strings.TrimRight(baseURL, "/"),
		provider: provider,
	}
}

func (s *StubIssuer) Issue(ctx context.Context, w Window) (*Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	return &Credential{
		Link:     fmt.Sprintf("%s/%s", s.baseURL, id),
		ID:       id,
		Provider: s.provider,
	}, nil
}

// Compile-time check
var _ Issuer = (*StubIssuer)(nil)
