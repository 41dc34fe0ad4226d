package checkpoint

import (
	"context"
	"sync"
)

// Store keeps the latest Snapshot for each name.
type Store interface {
	// Save stores the snapshot, replacing the one previously saved under the same name.
	Save(ctx context.Context, s Snapshot) error
	FindByName(ctx context.Context, name string) (_ Snapshot, found bool, _ error)
	// DeleteByName removes the snapshot of the given name.
	// Deleting a name that has no snapshot is not an error.
	DeleteByName(ctx context.Context, name string) error
}

// MemoryStore is an in-process Store.
// Snapshots are copied on the way in and out, so callers can't alter the stored ones.
type MemoryStore struct {
	m         sync.RWMutex
	snapshots map[string][]byte
}

var memoryCodec = JSONCodec{}

func (s *MemoryStore) Save(ctx context.Context, snapshot Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snapshot.Name == "" {
		return ErrMissingName
	}
	data, err := memoryCodec.Marshal(snapshot)
	if err != nil {
		return err
	}
	s.m.Lock()
	defer s.m.Unlock()
	if s.snapshots == nil {
		s.snapshots = make(map[string][]byte)
	}
	s.snapshots[snapshot.Name] = data
	return nil
}

func (s *MemoryStore) FindByName(ctx context.Context, name string) (Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, false, err
	}
	s.m.RLock()
	data, ok := s.snapshots[name]
	s.m.RUnlock()
	if !ok {
		return Snapshot{}, false, nil
	}
	var snapshot Snapshot
	if err := memoryCodec.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, false, err
	}
	return snapshot, true, nil
}

func (s *MemoryStore) DeleteByName(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.m.Lock()
	defer s.m.Unlock()
	delete(s.snapshots, name)
	return nil
}
