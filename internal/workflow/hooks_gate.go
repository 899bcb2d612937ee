// Package workflow contains Temporal workflow definitions.
//
// hooks_gate.go wires the lifecycle hook engine (internal/hooks) into the
// tool execution pipeline: every tool call is evaluated against configured
// PreToolUse hooks before it runs, and PostToolUse hooks are notified once
// it completes. Disabled by default via Config.HooksEnabled.
//
// Maps to: codex-rs/core/src/hooks/executor.rs Executor gating around tool dispatch
package workflow

import (
	"encoding/json"
	"fmt"
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/agentcore/sessioncore/internal/activities"
	"github.com/agentcore/sessioncore/internal/hooks"
	"github.com/agentcore/sessioncore/internal/models"
)

// hookActivityOptions bounds a single hook evaluation; hooks themselves carry
// their own TimeoutMs, enforced inside the activity's os/exec call.
var hookActivityOptions = workflow.ActivityOptions{
	StartToCloseTimeout: 30 * time.Second,
}

// applyHookPreToolGate evaluates PreToolUse hooks for every call and splits
// them into allowed calls and denied FunctionCallOutput results, mirroring
// ApprovalGate.Classify's shape so the caller can fold them into the same
// recordForbiddenAndFilter path.
func (s *SessionState) applyHookPreToolGate(ctx workflow.Context, calls []models.ConversationItem) (allowed []models.ConversationItem, denied []models.ConversationItem) {
	if !s.Config.HooksEnabled || len(calls) == 0 {
		return calls, nil
	}

	hookCtx := workflow.WithActivityOptions(ctx, hookActivityOptions)

	for _, fc := range calls {
		payload := hooks.Payload{
			Event:     hooks.EventPreToolUse,
			ToolName:  fc.Name,
			Command:   shellCommandFromArguments(fc.Arguments),
			SessionID: s.ConversationID,
		}

		var decision hooks.Decision
		err := workflow.ExecuteActivity(hookCtx, "EvaluatePreToolUse", activities.HookPreToolUseInput{
			Payload:   payload,
			TriggerID: fc.CallID,
		}).Get(ctx, &decision)

		if err != nil || decision.Blocked() {
			message := "Blocked by hook."
			if err != nil {
				message = fmt.Sprintf("Hook evaluation failed: %v", err)
			} else if msg := decision.CombinedMessage(); msg != "" {
				message = msg
			}
			falseVal := false
			denied = append(denied, models.ConversationItem{
				Type:   models.ItemTypeFunctionCallOutput,
				CallID: fc.CallID,
				Output: &models.FunctionCallOutputPayload{
					Content: message,
					Success: &falseVal,
				},
			})
			continue
		}
		allowed = append(allowed, fc)
	}
	return allowed, denied
}

// applyHookPostToolUse notifies PostToolUse hooks of each completed tool
// result. It never changes the result set — PostToolUse is audit-only.
func (s *SessionState) applyHookPostToolUse(ctx workflow.Context, calls []models.ConversationItem, results []activities.ToolActivityOutput) {
	if !s.Config.HooksEnabled || len(calls) == 0 {
		return
	}

	resultByCallID := make(map[string]activities.ToolActivityOutput, len(results))
	for _, r := range results {
		resultByCallID[r.CallID] = r
	}

	hookCtx := workflow.WithActivityOptions(ctx, hookActivityOptions)

	for _, fc := range calls {
		result, ok := resultByCallID[fc.CallID]
		if !ok {
			continue
		}
		exitCode := 0
		if result.Success != nil && !*result.Success {
			exitCode = 1
		}
		payload := hooks.Payload{
			Event:     hooks.EventPostToolUse,
			ToolName:  fc.Name,
			Command:   shellCommandFromArguments(fc.Arguments),
			SessionID: s.ConversationID,
		}
		_ = workflow.ExecuteActivity(hookCtx, "RecordPostToolUse", activities.HookPostToolUseInput{
			Payload:   payload,
			ExitCode:  exitCode,
			TriggerID: fc.CallID,
		}).Get(ctx, nil)
	}
}

// shellCommandFromArguments extracts the "command" argument for shell tool
// calls so hook matchers can pattern-match on it; returns "" for non-shell
// tools or unparseable arguments.
func shellCommandFromArguments(arguments string) string {
	if arguments == "" {
		return ""
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ""
	}
	if cmd, ok := args["command"].(string); ok {
		return cmd
	}
	return ""
}
