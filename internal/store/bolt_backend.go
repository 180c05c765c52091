package store

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	boltBucket = []byte("pos")
	boltKey    = []byte("document")
)

// BoltBackend keeps the document under one key of a bbolt file. Each write is
// a bbolt transaction, so the previous value survives a failed write.
type BoltBackend struct {
	db   *bolt.DB
	path string
}

func OpenBoltBackend(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database %s: %w", path, err)
	}
	return &BoltBackend{db: db, path: path}, nil
}

func (b *BoltBackend) Read(_ context.Context) ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return ErrNoDocument
		}
		v := bucket.Get(boltKey)
		if v == nil {
			return ErrNoDocument
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *BoltBackend) Write(_ context.Context, data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		return bucket.Put(boltKey, data)
	})
}

func (b *BoltBackend) Close() error { return b.db.Close() }

func (b *BoltBackend) String() string { return "bolt:" + b.path }
