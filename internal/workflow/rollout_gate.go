// Package workflow contains Temporal workflow definitions.
//
// rollout_gate.go mediates the session's JSONL rollout persistence: the
// workflow only ever computes a path and hands Items to an Activity — the
// *os.File lives entirely in internal/activities/rollout.go.
package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/agentcore/sessioncore/internal/activities"
	"github.com/agentcore/sessioncore/internal/models"
	"github.com/agentcore/sessioncore/internal/rollout"
)

var rolloutActivityOptions = workflow.ActivityOptions{
	StartToCloseTimeout: 10 * time.Second,
	RetryPolicy: &temporal.RetryPolicy{
		MaximumAttempts: 2,
	},
}

// initRollout resolves the rollout file path for this conversation and
// records the opening session_meta item. No-op when rollout persistence is
// disabled or a path has already been assigned (e.g. after ContinueAsNew).
func (s *SessionState) initRollout(ctx workflow.Context) {
	if !s.Config.RolloutEnabled || s.RolloutPath != "" || s.Config.CodexHome == "" {
		return
	}

	startedAt := workflow.Now(ctx)
	s.RolloutPath = rollout.RolloutFileName(s.ConversationID, startedAt)
	if s.Config.CodexHome != "" {
		s.RolloutPath = rollout.RolloutDir(s.Config.CodexHome) + "/" + s.RolloutPath
	}

	meta := rollout.NewSessionMetaItem(rollout.SessionMeta{
		ConversationID: s.ConversationID,
		Timestamp:      startedAt,
		CWD:            s.Config.Cwd,
	})
	s.recordRollout(ctx, []rollout.Item{meta})
}

// recordRollout appends items to the session's rollout file. Failures are
// logged and swallowed — rollout persistence is an audit trail, not a
// correctness dependency of the turn loop.
func (s *SessionState) recordRollout(ctx workflow.Context, items []rollout.Item) {
	if !s.Config.RolloutEnabled || s.RolloutPath == "" || len(items) == 0 {
		return
	}

	logger := workflow.GetLogger(ctx)

	actOpts := rolloutActivityOptions
	if s.Config.SessionTaskQueue != "" {
		actOpts.TaskQueue = s.Config.SessionTaskQueue
	}
	recordCtx := workflow.WithActivityOptions(ctx, actOpts)

	input := activities.RolloutRecordItemsInput{
		Path:  s.RolloutPath,
		Items: items,
	}
	if err := workflow.ExecuteActivity(recordCtx, "RecordItems", input).Get(ctx, nil); err != nil {
		logger.Warn("Failed to record rollout items", "error", err)
	}
}

// conversationItemsToRolloutItems wraps conversation items for persistence,
// one response_item per entry.
func conversationItemsToRolloutItems(items []models.ConversationItem) []rollout.Item {
	out := make([]rollout.Item, 0, len(items))
	for _, item := range items {
		out = append(out, rollout.NewResponseItem(item))
	}
	return out
}
