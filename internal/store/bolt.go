package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

const bucketDocuments = "documents"

// Bolt is a Store backed by a bbolt database file.
type Bolt struct {
	db *bolt.DB
}

var _ Store = (*Bolt)(nil)

// OpenBolt opens or creates the database at path. The parent directory is
// created when missing.
func OpenBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.WithStack(err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDocuments))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to initialize database")
	}

	return &Bolt{db: db}, nil
}

func (s *Bolt) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketDocuments))
		v := b.Get([]byte(key))
		if v == nil {
			return errors.Wrapf(ErrNotFound, "key %q", key)
		}
		// v is only valid during the transaction.
		value = append([]byte(nil), v...)
		return nil
	})
	return value, err
}

func (s *Bolt) Set(key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketDocuments))
		return b.Put([]byte(key), value)
	})
}

func (s *Bolt) Close() error {
	return errors.WithStack(s.db.Close())
}
