// Package workflow contains Temporal workflow definitions.
//
// agentic_workflow.go wires together the pieces defined across the rest of
// the package into the two Temporal entry points: AgenticWorkflow (fresh
// start) and AgenticWorkflowContinued (ContinueAsNew re-entry), plus the
// outer multi-turn loop that waits for input between turns.
//
// Maps to: codex-rs/core/src/codex.rs run_turn
package workflow

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/agentcore/sessioncore/internal/history"
	"github.com/agentcore/sessioncore/internal/instructions"
	"github.com/agentcore/sessioncore/internal/models"
)

// IdleTimeout is how long the workflow waits for user input before triggering ContinueAsNew.
const IdleTimeout = 24 * time.Hour

// maxIterationsBeforeCAN is the total iteration count across all turns in a
// single workflow run before triggering ContinueAsNew to keep history bounded.
const maxIterationsBeforeCAN = 100

// maxRepeatToolCalls is the number of consecutive identical tool call batches
// before the turn is ended early to prevent tight loops.
const maxRepeatToolCalls = 3

// AgenticWorkflow is the main durable agentic loop.
//
// Maps to: codex-rs/core/src/codex.rs run_turn
func AgenticWorkflow(ctx workflow.Context, input WorkflowInput) (WorkflowResult, error) {
	state := SessionState{
		ConversationID: input.ConversationID,
		History:        history.NewInMemoryHistory(),
		Config:         input.Config,
		MaxIterations:  20,
		IterationCount: 0,
		AgentCtl:       NewAgentControl(input.Depth),
	}

	// Resolve the model profile before building tool specs so profile-level
	// tool disables take effect from the very first turn.
	state.resolveProfile()
	if state.Config.SubagentsEnabled {
		state.Config.Tools.EnableSubagents = true
	}
	state.ToolSpecs = buildToolSpecs(state.Config.Tools, state.ResolvedProfile)

	// Instructions/exec policy may already be pre-assembled by HarnessWorkflow;
	// only fall back to worker-side loading when they're empty.
	if state.Config.BaseInstructions == "" {
		state.resolveInstructions(ctx)
	}
	if state.ExecPolicyRules == "" {
		state.loadExecPolicy(ctx)
	}

	if err := state.initMcpServers(ctx); err != nil {
		return WorkflowResult{}, fmt.Errorf("failed to initialize MCP servers: %w", err)
	}

	state.discoverSubagents(ctx)
	state.initRollout(ctx)

	ctrl := &LoopControl{}

	// Generate the initial turn ID and seed history with environment context
	// and the user's first message.
	turnID := state.nextTurnID()

	if err := state.History.AddItem(models.ConversationItem{
		Type:   models.ItemTypeTurnStarted,
		TurnID: turnID,
	}); err != nil {
		return WorkflowResult{}, fmt.Errorf("failed to add turn started: %w", err)
	}

	if state.Config.Cwd != "" {
		envCtx := instructions.BuildEnvironmentContext(state.Config.Cwd, "")
		if err := state.History.AddItem(models.ConversationItem{
			Type:    models.ItemTypeUserMessage,
			Content: envCtx,
			TurnID:  turnID,
		}); err != nil {
			return WorkflowResult{}, fmt.Errorf("failed to add environment context: %w", err)
		}
	}

	if err := state.History.AddItem(models.ConversationItem{
		Type:    models.ItemTypeUserMessage,
		Content: input.UserMessage,
		TurnID:  turnID,
	}); err != nil {
		return WorkflowResult{}, fmt.Errorf("failed to add user message: %w", err)
	}

	ctrl.SetPendingUserInput(turnID)

	state.registerHandlers(ctx, ctrl)
	return state.runMultiTurnLoop(ctx, ctrl)
}

// AgenticWorkflowContinued handles ContinueAsNew.
func AgenticWorkflowContinued(ctx workflow.Context, state SessionState) (WorkflowResult, error) {
	// Restore History interface from serialized HistoryItems
	state.initHistory()
	state.restoreAgentCtl()
	state.initPlanMode()
	state.discoverSubagents(ctx)
	state.initRollout(ctx)

	// Re-register handlers after ContinueAsNew
	ctrl := &LoopControl{}
	state.registerHandlers(ctx, ctrl)
	return state.runMultiTurnLoop(ctx, ctrl)
}

// restoreAgentCtl reconstructs transient AgentControl fields lost across
// ContinueAsNew (the childFutures map can't be serialized; any in-flight
// children are still running and will report completion via their own
// workflow history, but this run can no longer await those specific futures).
func (s *SessionState) restoreAgentCtl() {
	if s.AgentCtl == nil {
		s.AgentCtl = NewAgentControl(0)
		return
	}
	if s.AgentCtl.Agents == nil {
		s.AgentCtl.Agents = make(map[string]*AgentInfo)
	}
	s.AgentCtl.childFutures = make(map[string]workflow.ChildWorkflowFuture)
}

// runMultiTurnLoop is the outer loop that waits for user input between turns.
func (s *SessionState) runMultiTurnLoop(ctx workflow.Context, ctrl *LoopControl) (WorkflowResult, error) {
	logger := workflow.GetLogger(ctx)

	for {
		// Wait for pending work (first turn has it set already)
		if !ctrl.HasPendingWork() {
			ctrl.SetPhase(PhaseWaitingForInput)
			ctrl.ClearToolsInFlight()
			logger.Info("Waiting for user input or shutdown")
			timedOut, err := ctrl.WaitForInput(ctx)
			if err != nil {
				return WorkflowResult{}, fmt.Errorf("await failed: %w", err)
			}
			if timedOut {
				logger.Info("Idle timeout reached, triggering ContinueAsNew")
				return s.continueAsNew(ctx, ctrl)
			}
		}

		// Check for shutdown
		if ctrl.IsShutdown() {
			logger.Info("Shutdown requested, completing workflow")
			return WorkflowResult{
				ConversationID:    s.ConversationID,
				TotalIterations:   s.IterationCount,
				TotalTokens:       s.TotalTokens,
				ToolCallsExecuted: s.ToolCallsExecuted,
				EndReason:         "shutdown",
			}, nil
		}

		// Manual compaction requested via /compact, with no turn in flight.
		if ctrl.IsCompactRequested() {
			if err := s.performCompaction(ctx, ctrl); err != nil {
				logger.Warn("Manual compaction failed", "error", err)
			}
			ctrl.ClearCompactRequested()
			ctrl.SetPhase(PhaseWaitingForInput)
			continue
		}

		// Reset for new turn
		ctrl.StartTurn()
		s.IterationCount = 0

		// Run the agentic turn
		done, err := s.runAgenticTurn(ctx, ctrl)
		if err != nil {
			return WorkflowResult{}, err
		}

		if done {
			// ContinueAsNew was triggered
			return s.continueAsNew(ctx, ctrl)
		}

		// Accumulate iterations for CAN threshold across turns.
		s.TotalIterationsForCAN += s.IterationCount
		if s.TotalIterationsForCAN >= maxIterationsBeforeCAN {
			logger.Info("Total iterations across turns reached CAN threshold",
				"total", s.TotalIterationsForCAN)
			return s.continueAsNew(ctx, ctrl)
		}

		// Turn complete — add TurnComplete marker (unless interrupted, which already added it)
		if !ctrl.IsInterrupted() {
			_ = s.History.AddItem(models.ConversationItem{
				Type:   models.ItemTypeTurnComplete,
				TurnID: ctrl.CurrentTurnID(),
			})
			ctrl.NotifyItemAdded()
		}

		s.generateSuggestion(ctx, ctrl)

		ctrl.SetPhase(PhaseWaitingForInput)
		ctrl.ClearToolsInFlight()
		logger.Info("Turn complete, waiting for next input", "turn_id", ctrl.CurrentTurnID())
	}
}

// awaitWithIdleTimeout waits for condition or idle timeout.
// Returns (timedOut, error).
func awaitWithIdleTimeout(ctx workflow.Context, condition func() bool) (bool, error) {
	ok, err := workflow.AwaitWithTimeout(ctx, IdleTimeout, condition)
	if err != nil {
		return false, err
	}
	return !ok, nil // ok=false means timed out
}

// continueAsNew prepares state and triggers ContinueAsNew.
func (s *SessionState) continueAsNew(ctx workflow.Context, ctrl *LoopControl) (WorkflowResult, error) {
	// Mark draining so long-pollers blocked on get_state_update are released
	// instead of hanging into the next run.
	ctrl.SetDraining(true)

	// Wait for all update handlers to finish before ContinueAsNew
	_ = workflow.Await(ctx, func() bool {
		return workflow.AllHandlersFinished(ctx)
	})

	s.syncHistoryItems()
	s.syncPlanMode()
	return WorkflowResult{}, workflow.NewContinueAsNewError(ctx, AgenticWorkflowContinued, *s)
}
