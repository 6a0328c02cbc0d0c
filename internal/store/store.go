// Package store persists serialized documents under string keys.
package store

import (
	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get when nothing is stored under a key.
var ErrNotFound = errors.New("key not found")

type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}
