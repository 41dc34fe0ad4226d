package checkpoint

import (
	"context"
	"time"

	"github.com/boltdb/bolt"
)

var bucketName = []byte("snapshots")

// OpenBoltStore opens or creates the bolt database at path.
// When codec is nil, snapshots are stored as JSON.
func OpenBoltStore(path string, codec Codec) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if codec == nil {
		codec = JSONCodec{}
	}
	return &BoltStore{DB: db, Codec: codec}, nil
}

// BoltStore is a file backed Store.
// Snapshots live in a single bucket, keyed by their name.
type BoltStore struct {
	DB    *bolt.DB
	Codec Codec
}

// Close the database and release the file lock.
func (s *BoltStore) Close() error {
	return s.DB.Close()
}

func (s *BoltStore) Save(ctx context.Context, snapshot Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snapshot.Name == "" {
		return ErrMissingName
	}
	value, err := s.Codec.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.DB.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(snapshot.Name), value)
	})
}

func (s *BoltStore) FindByName(ctx context.Context, name string) (Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, false, err
	}
	var value []byte
	err := s.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(name)); v != nil {
			// v is only valid while the transaction is open
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, false, err
	}
	if value == nil {
		return Snapshot{}, false, nil
	}
	var snapshot Snapshot
	if err := s.Codec.Unmarshal(value, &snapshot); err != nil {
		return Snapshot{}, false, err
	}
	return snapshot, true, nil
}

func (s *BoltStore) DeleteByName(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.DB.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(name))
	})
}
