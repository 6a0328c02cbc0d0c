// Package ulid generates the IDs used to correlate runs in logs.
package ulid

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
)

// Generator returns a new ID on every call. It must be safe for concurrent
// use.
type Generator func() string

var (
	entropy     io.Reader
	entropyOnce sync.Once

	mu        sync.RWMutex
	generator Generator = monotonic
)

func monotonicEntropy() io.Reader {
	entropyOnce.Do(func() {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		entropy = &ulid.LockedMonotonicReader{
			MonotonicReader: ulid.Monotonic(rng, 0),
		}
	})
	return entropy
}

func monotonic() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), monotonicEntropy()).String()
}

// New returns a new ID from the current generator.
func New() string {
	mu.RLock()
	defer mu.RUnlock()
	return generator()
}

// Valid reports whether id is a canonical ULID string.
func Valid(id string) bool {
	u, err := ulid.ParseStrict(id)
	return err == nil && u.String() == id
}

// Time returns the time encoded in id.
func Time(id string) (time.Time, error) {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid id %q", id)
	}
	return ulid.Time(u.Time()), nil
}

// SetGenerator replaces the generator until the returned function is called.
func SetGenerator(g Generator) (restore func()) {
	mu.Lock()
	prev := generator
	generator = g
	mu.Unlock()

	return func() {
		mu.Lock()
		generator = prev
		mu.Unlock()
	}
}
