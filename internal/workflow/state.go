// Package workflow contains Temporal workflow definitions.
//
// state.go manages workflow state, separated from workflow logic.
//
// Maps to: codex-rs/core/src/state/session.rs SessionState
package workflow

import (
	"fmt"
	"time"

	"github.com/agentcore/sessioncore/internal/history"
	"github.com/agentcore/sessioncore/internal/models"
	"github.com/agentcore/sessioncore/internal/planmode"
	"github.com/agentcore/sessioncore/internal/subagentdefs"
	"github.com/agentcore/sessioncore/internal/tools"
)

// Handler name constants for Temporal query and update handlers.
const (
	// QueryGetConversationItems returns conversation history.
	// Maps to: Codex ContextManager::raw_items()
	QueryGetConversationItems = "get_conversation_items"

	// QueryGetTurnStatus returns the current turn phase and stats.
	// Used by the interactive CLI to drive spinner/state transitions.
	QueryGetTurnStatus = "get_turn_status"

	// UpdateUserInput submits a new user message to the workflow.
	// Maps to: Codex Op::UserInput / turn/start
	UpdateUserInput = "user_input"

	// UpdateInterrupt aborts the current turn.
	// Maps to: Codex Op::Interrupt
	UpdateInterrupt = "interrupt"

	// UpdateShutdown ends the session.
	// Maps to: Codex Op::Shutdown
	UpdateShutdown = "shutdown"

	// UpdateModel changes the active provider/model for subsequent LLM calls.
	UpdateModel = "update_model"

	// UpdateApprovalResponse submits the user's tool approval decision.
	// Maps to: Codex approval flow (AskForApproval)
	UpdateApprovalResponse = "approval_response"

	// UpdateEscalationResponse submits the user's escalation decision (on-failure mode).
	UpdateEscalationResponse = "escalation_response"

	// UpdateUserInputQuestionResponse submits the user's answers to request_user_input questions.
	// Maps to: codex-rs/protocol/src/request_user_input.rs
	UpdateUserInputQuestionResponse = "user_input_question_response"

	// UpdateCompact triggers manual context compaction.
	UpdateCompact = "compact"

	// UpdatePlanRequest spawns a planner child workflow from the CLI's /plan command.
	UpdatePlanRequest = "plan_request"

	// UpdateGetStateUpdate is the blocking long-poll Update the CLI uses instead
	// of repeated queries.
	UpdateGetStateUpdate = "get_state_update"

	// UpdateEnterPlanMode suspends normal tool execution in favor of
	// capture-only Plan Mode.
	// Maps to: codex-rs/core/src/plan_mode/session.rs Session::new
	UpdateEnterPlanMode = "enter_plan_mode"

	// UpdateExitPlanMode exits Plan Mode and restores the prior approval mode.
	UpdateExitPlanMode = "exit_plan_mode"

	// UpdateApplyPlanMode transitions Active -> Applying, optionally pinning
	// the approval mode to restore to once the apply completes.
	UpdateApplyPlanMode = "apply_plan_mode"

	// SignalAgentInput delivers a user message to a child agent workflow.
	// Maps to: codex-rs/core/src/agent/control.rs agent input signal
	SignalAgentInput = "agent_input"

	// SignalAgentShutdown requests a child agent workflow to shut down.
	// Maps to: codex-rs/core/src/agent/control.rs agent shutdown signal
	SignalAgentShutdown = "agent_shutdown"
)

// TurnPhase indicates the current phase of the workflow turn.
type TurnPhase string

const (
	PhaseWaitingForInput   TurnPhase = "waiting_for_input"
	PhaseLLMCalling        TurnPhase = "llm_calling"
	PhaseToolExecuting     TurnPhase = "tool_executing"
	PhaseApprovalPending   TurnPhase = "approval_pending"
	PhaseEscalationPending TurnPhase = "escalation_pending"
	PhaseUserInputPending  TurnPhase = "user_input_pending"
	PhaseCompacting        TurnPhase = "compacting"
	PhaseWaitingForAgents  TurnPhase = "waiting_for_agents"
)

// ChildAgentSummary is the CLI-facing view of a single child agent, embedded
// in TurnStatus so watchers don't need a separate query per agent.
type ChildAgentSummary struct {
	AgentID    string      `json:"agent_id"`
	WorkflowID string      `json:"workflow_id"`
	Role       AgentRole   `json:"role"`
	Status     AgentStatus `json:"status"`
}

// TurnStatus is the response from the get_turn_status query.
type TurnStatus struct {
	Phase                   TurnPhase                `json:"phase"`
	CurrentTurnID           string                   `json:"current_turn_id"`
	ToolsInFlight           []string                 `json:"tools_in_flight,omitempty"`
	PendingApprovals        []PendingApproval        `json:"pending_approvals,omitempty"`
	PendingEscalations      []EscalationRequest      `json:"pending_escalations,omitempty"`
	PendingUserInputRequest *PendingUserInputRequest `json:"pending_user_input_request,omitempty"`
	IterationCount          int                      `json:"iteration_count"`
	TotalTokens             int                      `json:"total_tokens"`
	TotalCachedTokens       int                      `json:"total_cached_tokens"`
	TurnCount               int                      `json:"turn_count"`
	WorkerVersion           string                   `json:"worker_version,omitempty"`
	Suggestion              string                   `json:"suggestion,omitempty"`
	Plan                    *models.PlanState        `json:"plan,omitempty"`
	ChildAgents             []ChildAgentSummary       `json:"child_agents,omitempty"`
}

// WorkflowInput is the initial input to start a conversation.
//
// Maps to: codex-rs/core/src/codex.rs run_turn input
type WorkflowInput struct {
	ConversationID string                      `json:"conversation_id"`
	UserMessage    string                      `json:"user_message"`
	Config         models.SessionConfiguration `json:"config"`
	// Depth tracks subagent nesting level. 0 = top-level, 1 = child.
	// Maps to: codex-rs SubAgentSource::ThreadSpawn.depth
	Depth int `json:"depth,omitempty"`
}

// UserInput is the payload for the user_input Update.
// Maps to: codex-rs/protocol/src/user_input.rs UserInput
type UserInput struct {
	Content string `json:"content"`
}

// UserInputAccepted is returned by the user_input Update after acceptance.
// Maps to: Codex submit() return value (submission ID)
type UserInputAccepted struct {
	TurnID string `json:"turn_id"`
}

// InterruptRequest is the payload for the interrupt Update.
// Maps to: codex-rs/protocol/src/protocol.rs Op::Interrupt
type InterruptRequest struct{}

// InterruptResponse is returned by the interrupt Update.
// Maps to: Codex EventMsg::TurnAborted
type InterruptResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

// ShutdownRequest is the payload for the shutdown Update.
// Maps to: codex-rs/protocol/src/protocol.rs Op::Shutdown
type ShutdownRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ShutdownResponse is returned by the shutdown Update.
// Maps to: Codex EventMsg::ShutdownComplete
type ShutdownResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

// UpdateModelRequest is the payload for the update_model Update.
type UpdateModelRequest struct {
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	ContextWindow int    `json:"context_window,omitempty"`
}

// UpdateModelResponse is returned by the update_model Update.
type UpdateModelResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

// PendingApproval describes a tool call awaiting user approval.
// Maps to: Codex approval flow (tool call needing confirmation)
type PendingApproval struct {
	CallID    string `json:"call_id"`
	ToolName  string `json:"tool_name"`
	Arguments string `json:"arguments"`         // Raw JSON string of arguments
	Reason    string `json:"reason,omitempty"` // Why approval is needed (from policy justification or heuristic)
}

// ApprovalResponse is the user's decision on pending tool approvals.
// Maps to: Codex approval flow response
type ApprovalResponse struct {
	Approved []string `json:"approved"` // CallIDs the user approved
	Denied   []string `json:"denied"`   // CallIDs the user denied
}

// ApprovalResponseAck is returned by the approval_response Update after acceptance.
type ApprovalResponseAck struct{}

// EscalationRequest describes a failed sandboxed tool call awaiting user escalation.
// Maps to: Codex on-failure mode escalation
type EscalationRequest struct {
	CallID    string `json:"call_id"`
	ToolName  string `json:"tool_name"`
	Arguments string `json:"arguments"`
	Output    string `json:"output"` // Failed output from sandboxed execution
	Reason    string `json:"reason"` // Why escalation is needed
}

// EscalationResponse is the user's decision on escalation.
type EscalationResponse struct {
	Approved []string `json:"approved"` // CallIDs to re-execute without sandbox
	Denied   []string `json:"denied"`   // CallIDs to reject
}

// EscalationResponseAck is returned by the escalation_response Update.
type EscalationResponseAck struct{}

// RequestUserInputQuestionOption describes a single option for a user input question.
// Maps to: codex-rs/protocol/src/request_user_input.rs QuestionOption
type RequestUserInputQuestionOption struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// RequestUserInputQuestion describes a single question for the user.
// Maps to: codex-rs/protocol/src/request_user_input.rs Question
type RequestUserInputQuestion struct {
	ID       string                           `json:"id"`
	Header   string                           `json:"header,omitempty"`
	Question string                           `json:"question"`
	IsOther  bool                             `json:"is_other,omitempty"`
	Options  []RequestUserInputQuestionOption `json:"options"`
}

// PendingUserInputRequest describes a request_user_input call awaiting user response.
type PendingUserInputRequest struct {
	CallID    string                     `json:"call_id"`
	Questions []RequestUserInputQuestion `json:"questions"`
}

// UserInputQuestionAnswer holds the selected answers for a single question.
type UserInputQuestionAnswer struct {
	Answers []string `json:"answers"`
}

// UserInputQuestionResponse is the user's response to a request_user_input call.
type UserInputQuestionResponse struct {
	Answers map[string]UserInputQuestionAnswer `json:"answers"`
}

// UserInputQuestionResponseAck is returned by the user_input_question_response Update.
type UserInputQuestionResponseAck struct{}

// CompactRequest is the payload for the compact Update.
type CompactRequest struct{}

// CompactResponse is returned by the compact Update.
type CompactResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

// PlanRequest is the payload for the plan_request Update.
type PlanRequest struct {
	Message string `json:"message"`
}

// PlanRequestAccepted is returned by the plan_request Update once the planner
// child workflow has started.
type PlanRequestAccepted struct {
	AgentID    string `json:"agent_id"`
	WorkflowID string `json:"workflow_id"`
}

// EnterPlanModeRequest is the payload for the enter_plan_mode Update.
type EnterPlanModeRequest struct{}

// EnterPlanModeResponse is returned by the enter_plan_mode Update.
type EnterPlanModeResponse struct {
	SessionID string `json:"session_id"`
}

// ExitPlanModeRequest is the payload for the exit_plan_mode Update.
type ExitPlanModeRequest struct{}

// ExitPlanModeResponse is returned by the exit_plan_mode Update, carrying the
// approval mode the caller should restore and the captured artifact.
type ExitPlanModeResponse struct {
	RestoredApprovalMode string             `json:"restored_approval_mode"`
	Artifact             *planmode.Artifact `json:"artifact,omitempty"`
}

// ApplyPlanModeRequest is the payload for the apply_plan_mode Update.
// TargetApprovalMode, if set, pins the mode ExitPlanMode restores to instead
// of the mode Plan Mode was entered from.
type ApplyPlanModeRequest struct {
	TargetApprovalMode string `json:"target_approval_mode,omitempty"`
}

// ApplyPlanModeResponse is returned by the apply_plan_mode Update.
type ApplyPlanModeResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

// StateUpdateRequest is the payload for the get_state_update long-poll Update.
// SinceSeq/SincePhase are the caller's last-known cursor; the handler blocks
// until something past that cursor is observable.
type StateUpdateRequest struct {
	SinceSeq   int       `json:"since_seq"`
	SincePhase TurnPhase `json:"since_phase"`
}

// StateUpdateResponse is returned by the get_state_update Update.
type StateUpdateResponse struct {
	TurnID    string                     `json:"turn_id"`
	Items     []models.ConversationItem `json:"items"`
	Status    TurnStatus                 `json:"status"`
	Compacted bool                       `json:"compacted"`
	Completed bool                       `json:"completed"`
}

// AgentInputSignal is the payload for the agent_input signal.
// Sent from parent to child workflow via SignalExternalWorkflow.
// Maps to: codex-rs/core/src/agent/control.rs AgentInputSignal
type AgentInputSignal struct {
	Content   string `json:"content"`
	Interrupt bool   `json:"interrupt"`
}

// SessionState is passed through ContinueAsNew. It holds only state that must
// survive a continuation: business/agent data, cumulative counters, and
// configuration. Transient Temporal coordination (phase, pending approvals,
// response slots) lives in LoopControl instead, constructed fresh each run.
//
// Corresponds to: codex-rs/core/src/state/session.rs SessionState
type SessionState struct {
	ConversationID string                      `json:"conversation_id"`
	History        history.ContextManager      `json:"-"`             // Not serialized directly; see initHistory/syncHistoryItems
	HistoryItems   []models.ConversationItem   `json:"history_items"` // Serialized form for ContinueAsNew
	ToolSpecs      []tools.ToolSpec            `json:"tool_specs"`
	Config         models.SessionConfiguration `json:"config"`

	// Iteration tracking
	IterationCount int `json:"iteration_count"`
	MaxIterations  int `json:"max_iterations"`

	// turnSeq is a monotonic counter backing nextTurnID. Persists across
	// ContinueAsNew so turn IDs stay unique for the life of the conversation.
	turnSeq int `json:"-"`

	// Exec policy rules (serialized text, persists across ContinueAsNew)
	ExecPolicyRules string `json:"exec_policy_rules,omitempty"`

	// Total iterations across all turns (persists across ContinueAsNew).
	// Used to trigger ContinueAsNew when history grows too large.
	TotalIterationsForCAN int `json:"total_iterations_for_can"`

	// OpenAI Responses API: last response ID for incremental sends.
	// Persists across CAN to enable chaining across workflow continuations.
	LastResponseID string `json:"last_response_id,omitempty"`

	// Transient: tracks how many history items were sent in the last LLM call,
	// enabling incremental sends (only new items after this index).
	// Reset on history modification (compaction, model switch).
	lastSentHistoryLen int `json:"-"`

	// Context compaction tracking
	CompactionCount   int  `json:"compaction_count"` // How many times compaction has occurred
	compactedThisTurn bool `json:"-"`                // Prevents double compaction in one turn

	// Repeated tool call detection (transient — not serialized)
	lastToolKey string `json:"-"`
	repeatCount int    `json:"-"`

	// Cumulative stats (persist across ContinueAsNew)
	TotalTokens       int      `json:"total_tokens"`
	TotalCachedTokens int      `json:"total_cached_tokens"`
	ToolCallsExecuted []string `json:"tool_calls_executed"`

	// Model switching (update_model Update). PreviousModel/ContextWindow let
	// maybeCompactBeforeLLM describe the transition to the LLM; modelSwitched
	// is a one-shot flag consumed by the next turn.
	PreviousModel         string `json:"previous_model,omitempty"`
	PreviousContextWindow int    `json:"previous_context_window,omitempty"`
	modelSwitched         bool   `json:"-"`

	// ResolvedProfile is the merged model profile (prompt/tools/sampling
	// overrides) for the current Config.Model. Recomputed by resolveProfile
	// whenever the model changes.
	ResolvedProfile models.ResolvedProfile `json:"resolved_profile"`

	// McpToolLookup maps a qualified tool name (as exposed to the LLM) back
	// to its originating MCP server + tool name, so executeToolsInParallel
	// can route the call through the right connection.
	McpToolLookup map[string]tools.McpToolRef `json:"mcp_tool_lookup,omitempty"`

	// Plan is the current task plan maintained by the update_plan tool.
	// nil until the LLM first calls update_plan.
	Plan *models.PlanState `json:"plan,omitempty"`

	// Subagent control — manages child workflow lifecycles.
	// Maps to: codex-rs/core/src/agent/control.rs AgentControl
	AgentCtl *AgentControl `json:"agent_ctl,omitempty"`

	// PlanMode is the live Plan Mode session, reconstructed from the
	// PlanModeSnapshot fields after ContinueAsNew; see initPlanMode/syncPlanMode.
	// nil when Plan Mode has never been entered.
	PlanMode *planmode.Session `json:"-"`

	// PlanModeSnapshot fields are the serializable mirror of PlanMode.
	// Maps to: codex-rs/core/src/plan_mode/session.rs Session (serialized form)
	PlanModeSessionID    string             `json:"plan_mode_session_id,omitempty"`
	PlanModeEnteredFrom  string             `json:"plan_mode_entered_from,omitempty"`
	PlanModeState        string             `json:"plan_mode_state,omitempty"`
	PlanModeAllowedTools []string           `json:"plan_mode_allowed_tools,omitempty"`
	PlanModeArtifact     *planmode.Artifact `json:"plan_mode_artifact,omitempty"`
	PlanModeEnteredAt    time.Time          `json:"plan_mode_entered_at,omitempty"`
	PlanModePendingExit  string             `json:"plan_mode_pending_exit,omitempty"`

	// Subagents is the precomputed, discovery-scan inventory of Markdown
	// sub-agent definitions. Populated once at workflow start by an Activity
	// (filesystem walking can't happen in deterministic workflow code); nil
	// when subagents are disabled for this session.
	// Maps to: codex-rs/core/src/subagents/inventory.rs Inventory
	Subagents *subagentdefs.Inventory `json:"subagents,omitempty"`

	// RolloutPath is the JSONL rollout file this session appends to, set
	// once at workflow start by RolloutActivities.RecordItems's first call.
	// Empty when rollout persistence is disabled.
	RolloutPath string `json:"rollout_path,omitempty"`
}

// WorkflowResult is the final result of the workflow.
type WorkflowResult struct {
	ConversationID    string   `json:"conversation_id"`
	TotalIterations   int      `json:"total_iterations"`
	TotalTokens       int      `json:"total_tokens"`
	ToolCallsExecuted []string `json:"tool_calls_executed"`
	EndReason         string   `json:"end_reason,omitempty"` // "shutdown", "error"
	// FinalMessage is the last assistant message from the workflow.
	// Used by parent workflows to get the child's result.
	// Maps to: codex-rs AgentStatus::Completed(Option<String>)
	FinalMessage string `json:"final_message,omitempty"`
}

// nextTurnID mints the next turn ID from the session's monotonic counter.
// Counter-based IDs are deterministic by construction, so this is safe to
// call directly from Update handlers without a SideEffect.
func (s *SessionState) nextTurnID() string {
	s.turnSeq++
	return fmt.Sprintf("turn-%d", s.turnSeq)
}

// initHistory initializes the History field from HistoryItems.
// Called after deserialization (ContinueAsNew) to restore the interface.
func (s *SessionState) initHistory() {
	h := history.NewInMemoryHistory()
	for _, item := range s.HistoryItems {
		h.AddItem(item)
	}
	s.History = h
}

// syncHistoryItems copies history to HistoryItems for serialization.
// Called before ContinueAsNew to persist state.
func (s *SessionState) syncHistoryItems() {
	items, _ := s.History.GetRawItems()
	s.HistoryItems = items
}

// initPlanMode reconstructs PlanMode from the PlanModeSnapshot fields.
// Called after deserialization (ContinueAsNew) to restore the live Session.
// A no-op when Plan Mode has never been entered (empty PlanModeSessionID).
func (s *SessionState) initPlanMode() {
	if s.PlanModeSessionID == "" {
		return
	}
	var pendingExit *planmode.ApprovalMode
	if s.PlanModePendingExit != "" {
		v := planmode.ApprovalMode(s.PlanModePendingExit)
		pendingExit = &v
	}
	s.PlanMode = planmode.Rehydrate(
		s.PlanModeSessionID,
		planmode.ApprovalMode(s.PlanModeEnteredFrom),
		planmode.State(s.PlanModeState),
		s.PlanModeAllowedTools,
		s.PlanModeArtifact,
		s.PlanModeEnteredAt,
		pendingExit,
	)
}

// syncPlanMode copies the live PlanMode session back into the serializable
// snapshot fields. Called before ContinueAsNew to persist state.
func (s *SessionState) syncPlanMode() {
	if s.PlanMode == nil {
		s.PlanModeSessionID = ""
		return
	}
	s.PlanModeSessionID = s.PlanMode.SessionID
	s.PlanModeEnteredFrom = string(s.PlanMode.EnteredFrom)
	s.PlanModeState = string(s.PlanMode.State)
	s.PlanModeAllowedTools = s.PlanMode.AllowedTools
	s.PlanModeArtifact = s.PlanMode.Artifact
	s.PlanModeEnteredAt = s.PlanMode.EnteredAt
	if s.PlanMode.PendingExit != nil {
		s.PlanModePendingExit = string(*s.PlanMode.PendingExit)
	} else {
		s.PlanModePendingExit = ""
	}
}
