// Package workflow contains Temporal workflow definitions.
//
// planmode_gate.go wires internal/planmode into the tool execution pipeline:
// while Plan Mode is active, calls outside its allow-list are captured into
// the plan artifact instead of executing.
//
// Maps to: codex-rs/core/src/plan_mode/session.rs capture-vs-execute gating
package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/agentcore/sessioncore/internal/models"
	"github.com/agentcore/sessioncore/internal/planmode"
)

// applyPlanModeGate splits calls into ones allowed to execute normally and
// ones captured into the Plan Mode artifact, returning synthetic
// FunctionCallOutput results for the captured calls. A no-op when Plan Mode
// isn't active.
func (s *SessionState) applyPlanModeGate(calls []models.ConversationItem) (allowed []models.ConversationItem, captured []models.ConversationItem) {
	if s.PlanMode == nil || !s.PlanMode.IsActive() || len(calls) == 0 {
		return calls, nil
	}

	for _, fc := range calls {
		switch fc.Name {
		case "shell", "shell_command":
			cmd := shellArgvFromArguments(fc.Arguments)
			if len(cmd) > 0 && s.PlanMode.IsShellAllowed(cmd) {
				allowed = append(allowed, fc)
				continue
			}
			_, stderr := s.PlanMode.CaptureCommand(planmode.EntryCommand, summarizeCommand(cmd, fc.Arguments), fc.Arguments)
			captured = append(captured, planModeCapturedOutput(fc.CallID, stderr))

		case "write_file", "apply_patch":
			if s.PlanMode.IsToolAllowed(fc.Name) {
				allowed = append(allowed, fc)
				continue
			}
			_, stderr := s.PlanMode.CaptureCommand(planmode.EntryFileChange, fc.Name+" call", fc.Arguments)
			captured = append(captured, planModeCapturedOutput(fc.CallID, stderr))

		case "read_file", "list_dir", "grep_files", "request_user_input", "update_plan":
			// Always read-only/workflow-intercepted; never gated.
			allowed = append(allowed, fc)

		default:
			if s.PlanMode.IsToolAllowed(fc.Name) {
				allowed = append(allowed, fc)
				continue
			}
			s.PlanMode.CaptureToolCall(fc.Name)
			captured = append(captured, planModeCapturedOutput(fc.CallID, fmt.Sprintf("Plan Mode captured tool call: %s", fc.Name)))
		}
	}
	return allowed, captured
}

func planModeCapturedOutput(callID, message string) models.ConversationItem {
	successVal := true
	return models.ConversationItem{
		Type:   models.ItemTypeFunctionCallOutput,
		CallID: callID,
		Output: &models.FunctionCallOutputPayload{
			Content: message,
			Success: &successVal,
		},
	}
}

// shellArgvFromArguments extracts the argv this session's shell tool variant
// carries: "command" as a single string for shell_command, or "command" as
// an array for the default shell tool.
func shellArgvFromArguments(arguments string) []string {
	if arguments == "" {
		return nil
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return nil
	}
	switch v := args["command"].(type) {
	case string:
		return []string{"bash", "-lc", v}
	case []interface{}:
		cmd := make([]string, 0, len(v))
		for _, part := range v {
			if s, ok := part.(string); ok {
				cmd = append(cmd, s)
			}
		}
		return cmd
	default:
		return nil
	}
}

func summarizeCommand(argv []string, arguments string) string {
	if len(argv) == 0 {
		return arguments
	}
	summary := argv[0]
	for _, part := range argv[1:] {
		summary += " " + part
	}
	return summary
}
