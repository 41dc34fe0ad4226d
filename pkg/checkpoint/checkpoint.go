// Package checkpoint persists the captured progress of resumable iterators,
// so a long running consumption can be stopped and picked up again by another process.
//
// A Snapshot wraps a resumekit.State with identity, time and checksum metadata.
// Snapshots are kept in a Store, either in memory or in a bolt database file,
// and the Checkpointer ties the two together for the common save and resume flow.
package checkpoint

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/testcase/clock"

	"go.llib.dev/resumable/pkg/resumekit"
)

const (
	ErrChecksumMismatch errorkit.Error = "checkpoint: snapshot checksum mismatch"
	ErrMissingName      errorkit.Error = "checkpoint: snapshot name is missing"
	ErrMalformed        errorkit.Error = "checkpoint: malformed snapshot"
)

// Snapshot is a named and timestamped resumekit.State.
type Snapshot struct {
	ID        string          `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Kind      string          `json:"kind" yaml:"kind"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
	Checksum  string          `json:"checksum" yaml:"checksum"`
	State     resumekit.State `json:"state" yaml:"state"`
}

// Take checkpoints r and wraps its state into a new Snapshot.
func Take(name string, r resumekit.Resumable) (Snapshot, error) {
	if name == "" {
		return Snapshot{}, ErrMissingName
	}
	st, err := r.Checkpoint()
	if err != nil {
		return Snapshot{}, err
	}
	sum, err := checksum(st)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		Kind:      st.Kind,
		CreatedAt: clock.Now().UTC(),
		Checksum:  sum,
		State:     st,
	}, nil
}

// Verify checks that the State still matches the Checksum and the Kind it was taken with.
func (s Snapshot) Verify() error {
	if s.Kind != s.State.Kind {
		return ErrChecksumMismatch.F("snapshot kind %q, state kind %q", s.Kind, s.State.Kind)
	}
	sum, err := checksum(s.State)
	if err != nil {
		return err
	}
	if sum != s.Checksum {
		return ErrChecksumMismatch.F("%s: expected %s, got %s", s.Name, s.Checksum, sum)
	}
	return nil
}

// checksum hashes the canonical JSON form of the state.
// The state is normalised first, so a state that went through any codec hashes the same way.
func checksum(st resumekit.State) (string, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	var canonical any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&canonical); err != nil {
		return "", err
	}
	data, err = json.Marshal(canonical)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}
