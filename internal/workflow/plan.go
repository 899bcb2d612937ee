// Package workflow contains Temporal workflow definitions.
//
// plan.go handles interception of update_plan tool calls. The plan is a
// lightweight, LLM-maintained TODO list surfaced via get_turn_status/history;
// it is not gated or approval-worthy, so it is applied synchronously.
//
// Maps to: codex-rs/core/src/tools/plan.rs handle_update_plan
package workflow

import (
	"encoding/json"
	"fmt"

	"go.temporal.io/sdk/workflow"

	"github.com/agentcore/sessioncore/internal/models"
)

// handleUpdatePlan intercepts an update_plan tool call, replaces the session's
// current plan, and returns a FunctionCallOutput acknowledging the update.
func (s *SessionState) handleUpdatePlan(ctx workflow.Context, fc models.ConversationItem) (models.ConversationItem, error) {
	logger := workflow.GetLogger(ctx)

	plan, err := parseUpdatePlanArgs(fc.Arguments)
	if err != nil {
		logger.Warn("Invalid update_plan args", "error", err)
		falseVal := false
		return models.ConversationItem{
			Type:   models.ItemTypeFunctionCallOutput,
			CallID: fc.CallID,
			Output: &models.FunctionCallOutputPayload{
				Content: fmt.Sprintf("Invalid update_plan arguments: %v", err),
				Success: &falseVal,
			},
		}, nil
	}

	s.Plan = plan

	trueVal := true
	return models.ConversationItem{
		Type:   models.ItemTypeFunctionCallOutput,
		CallID: fc.CallID,
		Output: &models.FunctionCallOutputPayload{
			Content: "Plan updated.",
			Success: &trueVal,
		},
	}, nil
}

// parseUpdatePlanArgs validates and parses the update_plan arguments.
// At most one step may be in_progress at a time.
func parseUpdatePlanArgs(argsJSON string) (*models.PlanState, error) {
	var args struct {
		Explanation string `json:"explanation,omitempty"`
		Plan        []struct {
			Step   string `json:"step"`
			Status string `json:"status"`
		} `json:"plan"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(args.Plan) == 0 {
		return nil, fmt.Errorf("plan array must not be empty")
	}

	steps := make([]models.PlanStep, len(args.Plan))
	inProgressCount := 0
	for i, p := range args.Plan {
		if p.Step == "" {
			return nil, fmt.Errorf("step %d: step description is required", i+1)
		}
		status := models.PlanStepStatus(p.Status)
		switch status {
		case models.PlanStepPending, models.PlanStepInProgress, models.PlanStepCompleted:
		default:
			return nil, fmt.Errorf("step %d: invalid status %q", i+1, p.Status)
		}
		if status == models.PlanStepInProgress {
			inProgressCount++
		}
		steps[i] = models.PlanStep{Step: p.Step, Status: status}
	}
	if inProgressCount > 1 {
		return nil, fmt.Errorf("at most one step may be in_progress, got %d", inProgressCount)
	}

	return &models.PlanState{Explanation: args.Explanation, Steps: steps}, nil
}
