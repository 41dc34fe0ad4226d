package checkpoint

import (
	"context"

	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/resumable/pkg/resumekit"
)

// Checkpointer saves and resumes Resumable-s through a Store.
type Checkpointer struct {
	Store Store
}

// Save takes a snapshot of r under name and stores it.
func (c Checkpointer) Save(ctx context.Context, name string, r resumekit.Resumable) (Snapshot, error) {
	snapshot, err := Take(name, r)
	if err != nil {
		return Snapshot{}, err
	}
	if err := c.Store.Save(ctx, snapshot); err != nil {
		return Snapshot{}, err
	}
	logger.Debug(ctx, "checkpoint saved",
		logging.Field("name", snapshot.Name),
		logging.Field("kind", snapshot.Kind),
		logging.Field("id", snapshot.ID))
	return snapshot, nil
}

// Resume restores r from the snapshot stored under name.
// When there is no such snapshot, r is left untouched and found is false.
func (c Checkpointer) Resume(ctx context.Context, name string, r resumekit.Resumable) (found bool, _ error) {
	snapshot, found, err := c.Store.FindByName(ctx, name)
	if err != nil {
		return false, err
	}
	if !found {
		logger.Debug(ctx, "no checkpoint to resume from", logging.Field("name", name))
		return false, nil
	}
	if err := snapshot.Verify(); err != nil {
		logger.Warn(ctx, "checkpoint is corrupted", logging.Field("name", name), logging.ErrField(err))
		return true, err
	}
	if err := r.Resume(snapshot.State); err != nil {
		logger.Warn(ctx, "checkpoint doesn't fit the iterator",
			logging.Field("name", name),
			logging.Field("kind", snapshot.Kind),
			logging.ErrField(err))
		return true, err
	}
	logger.Debug(ctx, "checkpoint resumed",
		logging.Field("name", name),
		logging.Field("id", snapshot.ID),
		logging.Field("created_at", snapshot.CreatedAt))
	return true, nil
}

// Reset forgets the snapshot stored under name.
func (c Checkpointer) Reset(ctx context.Context, name string) error {
	return c.Store.DeleteByName(ctx, name)
}
