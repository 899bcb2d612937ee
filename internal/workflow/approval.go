// Package workflow contains Temporal workflow definitions.
//
// approval.go implements the exec safety pipeline's pre-execution classification:
// deciding which tool calls need user approval, which are forbidden outright, and
// which run unattended. It consumes the exec policy rules loaded by loadExecPolicy.
//
// Maps to: codex-rs/core/src/safety.rs assess_command_safety
package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/agentcore/sessioncore/internal/execpolicy"
	"github.com/agentcore/sessioncore/internal/models"
	"github.com/agentcore/sessioncore/internal/tools"
)

// ApprovalGate classifies tool calls against the session's approval mode and
// exec policy rules, and applies the user's approve/deny decisions once made.
//
// Maps to: codex-rs/core/src/safety.rs (approval classification + decision application)
type ApprovalGate struct {
	mode      models.ApprovalMode
	policyMgr *execpolicy.ExecPolicyManager
}

// NewApprovalGate builds an ApprovalGate for the given approval mode, parsing
// the serialized exec policy rules if present. A parse failure falls back to
// an unconfigured policy manager (heuristic-only classification).
func NewApprovalGate(mode models.ApprovalMode, policyRules string) *ApprovalGate {
	gate := &ApprovalGate{mode: mode}
	if policyRules != "" {
		if mgr, err := execpolicy.LoadExecPolicyFromSource(policyRules); err == nil {
			gate.policyMgr = mgr
		}
	}
	return gate
}

// Classify determines which of the given tool calls need user approval and
// which are forbidden outright. Calls not returned in either list are
// auto-approved.
//
// Maps to: Codex AskForApproval policy check before tool dispatch
func (g *ApprovalGate) Classify(functionCalls []models.ConversationItem) (pending []PendingApproval, forbidden []models.ConversationItem) {
	// Empty/unset mode or "never" → auto-approve all (backward compat).
	if g.mode == "" || g.mode == models.ApprovalNever {
		return nil, nil
	}

	for _, fc := range functionCalls {
		req, reason := g.evaluateTool(fc.Name, fc.Arguments)
		switch req {
		case tools.ApprovalSkip:
			continue // auto-approved
		case tools.ApprovalNeeded:
			pending = append(pending, PendingApproval{
				CallID:    fc.CallID,
				ToolName:  fc.Name,
				Arguments: fc.Arguments,
				Reason:    reason,
			})
		case tools.ApprovalForbidden:
			falseVal := false
			msg := "This command is forbidden by exec policy."
			if reason != "" {
				msg = fmt.Sprintf("Forbidden: %s", reason)
			}
			forbidden = append(forbidden, models.ConversationItem{
				Type:   models.ItemTypeFunctionCallOutput,
				CallID: fc.CallID,
				Output: &models.FunctionCallOutputPayload{
					Content: msg,
					Success: &falseVal,
				},
			})
		}
	}
	return pending, forbidden
}

// evaluateTool determines the approval requirement for a single tool call.
func (g *ApprovalGate) evaluateTool(toolName, arguments string) (tools.ExecApprovalRequirement, string) {
	switch toolName {
	case "read_file", "list_dir", "grep_files", "request_user_input":
		return tools.ApprovalSkip, "" // Read-only / workflow-intercepted tools always safe

	case "shell", "shell_command":
		return g.evaluateShell(arguments)

	case "write_file", "apply_patch":
		if g.mode == models.ApprovalNever {
			return tools.ApprovalSkip, ""
		}
		return tools.ApprovalNeeded, "mutating file operation"

	default:
		if g.mode == models.ApprovalNever {
			return tools.ApprovalSkip, ""
		}
		return tools.ApprovalNeeded, "unknown tool"
	}
}

// evaluateShell evaluates a shell tool call through the exec policy engine,
// falling back to a heuristic classification when no policy is loaded.
func (g *ApprovalGate) evaluateShell(arguments string) (tools.ExecApprovalRequirement, string) {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return tools.ApprovalNeeded, "cannot parse arguments"
	}
	cmd, ok := args["command"].(string)
	if !ok || cmd == "" {
		return tools.ApprovalNeeded, "missing command"
	}

	if g.policyMgr != nil {
		eval := g.policyMgr.GetEvaluation([]string{"bash", "-c", cmd}, string(g.mode))
		return decisionToApprovalReq(eval.Decision), eval.Justification
	}

	// Fallback to heuristic (no exec policy loaded).
	if g.mode == models.ApprovalNever || g.mode == "" {
		return tools.ApprovalSkip, ""
	}
	if g.mode == models.ApprovalOnFailure {
		return tools.ApprovalSkip, "" // runs in sandbox, escalates on failure instead
	}
	mgr := execpolicy.NewExecPolicyManager(execpolicy.NewPolicy())
	return mgr.EvaluateShellCommand(cmd, string(g.mode)), ""
}

// decisionToApprovalReq maps a policy Decision to ExecApprovalRequirement.
func decisionToApprovalReq(d execpolicy.Decision) tools.ExecApprovalRequirement {
	switch d {
	case execpolicy.DecisionAllow:
		return tools.ApprovalSkip
	case execpolicy.DecisionPrompt:
		return tools.ApprovalNeeded
	case execpolicy.DecisionForbidden:
		return tools.ApprovalForbidden
	default:
		return tools.ApprovalNeeded
	}
}

// ApplyDecision filters function calls based on the approval response.
// Returns approved function calls and denied result items for history.
func (g *ApprovalGate) ApplyDecision(functionCalls []models.ConversationItem, resp *ApprovalResponse) ([]models.ConversationItem, []models.ConversationItem) {
	if resp == nil {
		return functionCalls, nil
	}

	deniedSet := make(map[string]bool, len(resp.Denied))
	for _, id := range resp.Denied {
		deniedSet[id] = true
	}

	var approved []models.ConversationItem
	var denied []models.ConversationItem

	for _, fc := range functionCalls {
		if deniedSet[fc.CallID] {
			falseVal := false
			denied = append(denied, models.ConversationItem{
				Type:   models.ItemTypeFunctionCallOutput,
				CallID: fc.CallID,
				Output: &models.FunctionCallOutputPayload{
					Content: "User denied execution of this tool call.",
					Success: &falseVal,
				},
			})
		} else {
			approved = append(approved, fc)
		}
	}

	return approved, denied
}
