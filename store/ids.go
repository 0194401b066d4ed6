// ABOUTME: ULID generation and parsing for stored automata and evaluation runs.
// ABOUTME: IDs sort by creation time, which keeps list queries in insertion order.
package store

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a fresh time-ordered ULID. IDs minted in the same millisecond
// still increase monotonically.
func NewID() ulid.ULID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy)
}

// ParseID parses a ULID string, wrapping ErrNotFound so malformed IDs read as unknown records.
func ParseID(s string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("%w: invalid id %q", ErrNotFound, s)
	}
	return id, nil
}
