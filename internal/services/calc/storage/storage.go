// Package storage defines the persistence boundary for calculator sessions.
package storage

import (
	"context"

	"github.com/louisbranch/tenkey.space/internal/platform/errors"
	"github.com/louisbranch/tenkey.space/internal/services/calc/domain"
)

// ErrNotFound reports that no session exists for the requested ID.
var ErrNotFound = errors.New(errors.CodeNotFound, "session not found")

// SessionStore persists calculator sessions. Put replaces any existing
// session with the same ID.
type SessionStore interface {
	PutSession(ctx context.Context, session domain.Session) error
	GetSession(ctx context.Context, id string) (domain.Session, error)
	ListSessions(ctx context.Context) ([]domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	Close() error
}
