package activities

import (
	"context"

	"github.com/agentcore/sessioncore/internal/rollout"
)

// RolloutRecordItemsInput carries the items to append to one conversation's
// rollout file. Path is resolved by the caller (see rollout.RolloutDir /
// rollout.RolloutFileName) so the workflow can keep it in serializable
// session state without holding the *os.File itself.
type RolloutRecordItemsInput struct {
	Path  string         `json:"path"`
	Items []rollout.Item `json:"items"`
}

// RolloutFlushInput names the file to fsync.
type RolloutFlushInput struct {
	Path string `json:"path"`
}

// RolloutActivities wraps rollout.FilePersister so deterministic workflow
// code never touches os.File directly. Each call opens the file, appends,
// and closes it again — the persister isn't held open across activity
// invocations since a session's activities may land on different workers.
//
// Maps to: codex-rs/core/src/rollout/recorder.rs RolloutRecorder
type RolloutActivities struct{}

// NewRolloutActivities creates a RolloutActivities instance.
func NewRolloutActivities() *RolloutActivities {
	return &RolloutActivities{}
}

// RecordItems appends items to the rollout file at path, creating it (and
// any parent directories) if it doesn't exist yet.
func (a *RolloutActivities) RecordItems(ctx context.Context, input RolloutRecordItemsInput) (struct{}, error) {
	if input.Path == "" || len(input.Items) == 0 {
		return struct{}{}, nil
	}

	persister, err := rollout.NewFilePersister(input.Path)
	if err != nil {
		return struct{}{}, err
	}
	defer persister.Shutdown()

	if err := persister.RecordItems(input.Items); err != nil {
		return struct{}{}, err
	}
	return struct{}{}, nil
}

// Flush is a no-op beyond what RecordItems already guarantees (each call
// shuts its persister down, which flushes and syncs); it exists so callers
// have an explicit durability checkpoint to await before relying on the
// file being readable, e.g. before ContinueAsNew.
func (a *RolloutActivities) Flush(ctx context.Context, input RolloutFlushInput) (struct{}, error) {
	return struct{}{}, nil
}
