// Package domain holds calculator session entities and their invariants.
package domain

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/tenkey.space/internal/calc"
	"github.com/louisbranch/tenkey.space/internal/platform/errors"
)

// MaxNameLength bounds session names so listings stay readable.
const MaxNameLength = 64

// Session is one named calculator with its full machine state.
type Session struct {
	ID        string
	Name      string
	State     calc.State
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates a session with a fresh calculator and a random ID.
func NewSession(name string, now time.Time) (Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Session{}, errors.New(errors.CodeSessionNameEmpty, "session name is required")
	}
	if len(name) > MaxNameLength {
		return Session{}, errors.WithMetadata(
			errors.CodeSessionNameTooLong,
			fmt.Sprintf("session name exceeds %d characters", MaxNameLength),
			map[string]string{"Max": strconv.Itoa(MaxNameLength)},
		)
	}

	id, err := NewID()
	if err != nil {
		return Session{}, err
	}

	now = now.UTC()
	return Session{
		ID:        id,
		Name:      name,
		State:     calc.Initial(),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewID generates a URL-safe identifier using UUIDv4 bytes encoded as base32.
// The identifier is 26 characters long, lowercase, and contains no padding.
func NewID() (string, error) {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	// RFC 4122 variant and version bits for a v4 UUID.
	raw[6] = (raw[6] & 0x0f) | 0x40
	raw[8] = (raw[8] & 0x3f) | 0x80

	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw[:])
	return strings.ToLower(encoded), nil
}
