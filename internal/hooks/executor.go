package hooks

import (
	"encoding/json"
	"fmt"
	"time"
)

// Payload carries the event-specific context a hook's command receives on
// stdin (JSON-encoded) and is matched against a Definition's Matchers.
type Payload struct {
	Event     Event           `json:"event"`
	ToolName  string          `json:"toolName,omitempty"`
	Command   string          `json:"command,omitempty"`
	Source    string          `json:"source,omitempty"`
	Path      string          `json:"path,omitempty"`
	ExitCode  *int            `json:"exitCode,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Extra     json.RawMessage `json:"extra,omitempty"`
}

// CommandRunner executes one hook's command and reports its raw result.
// Production code backs this with os/exec from an Activity; tests use a
// stub so the folding logic stays free of process spawning.
type CommandRunner interface {
	Run(def Definition, payload Payload) (stdout, stderr []string, exitCode int, err error)
}

// dangerousSubstring is the built-in guard present even with zero
// configured hooks.
const dangerousSubstring = "rm -rf /var/www"

// Executor evaluates lifecycle events against a Registry, running matching
// hooks through a CommandRunner and auditing every decision (including the
// synthesized built-in ones) to a LogWriter when configured.
type Executor struct {
	registry *Registry
	runner   CommandRunner
	log      *LogWriter
}

// NewExecutor builds an Executor. log may be nil to skip auditing.
func NewExecutor(registry *Registry, runner CommandRunner, log *LogWriter) *Executor {
	return &Executor{registry: registry, runner: runner, log: log}
}

// EvaluatePreToolUse implements the built-in destructive-command guard and
// then folds in any matching configured PreToolUse hooks, in precedence
// order. The first blocking decision short-circuits the rest.
func (e *Executor) EvaluatePreToolUse(payload Payload, triggerID string) Decision {
	if containsDangerous(payload.Command) {
		decision := Decision{
			Decision:   OutcomeDeny,
			Message:    "Blocking destructive command",
			StopReason: "dangerous_command",
			ExitCode:   2,
		}
		e.audit(EventPreToolUse, Scope{Kind: ScopeManagedPolicy, Name: "builtin"}, "builtin-guard", decision, 0, payload, triggerID)
		return decision
	}

	final := Allow()
	for _, def := range e.registry.ForEvent(EventPreToolUse) {
		if !def.MatchesPayload(payload.ToolName, payload.Source, payload.Path) {
			continue
		}
		decision := e.run(def, payload, triggerID)
		if decision.Blocked() {
			return decision
		}
		if decision.Decision != OutcomeAllow {
			final = decision
		}
	}
	return final
}

// RecordPostToolUse appends an audit record for a completed tool call; it
// never blocks, the exit code is purely informational.
func (e *Executor) RecordPostToolUse(payload Payload, exitCode int, triggerID string) {
	payload.ExitCode = &exitCode
	decision := Allow()
	for _, def := range e.registry.ForEvent(EventPostToolUse) {
		if !def.MatchesPayload(payload.ToolName, payload.Source, payload.Path) {
			continue
		}
		e.run(def, payload, triggerID)
	}
	e.audit(EventPostToolUse, Scope{Kind: ScopeLocalUser}, "", decision, 0, payload, triggerID)
}

// NotifySessionStart/NotifySessionEnd/NotifyUserPrompt write synthetic
// Allow records for lifecycle visibility, running any configured hooks for
// that event along the way.
func (e *Executor) NotifySessionStart(sessionID, triggerID string) {
	e.notify(EventSessionStart, Payload{Event: EventSessionStart, SessionID: sessionID}, triggerID)
}

func (e *Executor) NotifySessionEnd(sessionID, triggerID string) {
	e.notify(EventSessionEnd, Payload{Event: EventSessionEnd, SessionID: sessionID}, triggerID)
}

func (e *Executor) NotifyUserPrompt(sessionID, triggerID string) {
	e.notify(EventUserPrompt, Payload{Event: EventUserPrompt, SessionID: sessionID}, triggerID)
}

func (e *Executor) notify(event Event, payload Payload, triggerID string) {
	for _, def := range e.registry.ForEvent(event) {
		e.run(def, payload, triggerID)
	}
	e.audit(event, Scope{Kind: ScopeLocalUser}, "", Allow(), 0, payload, triggerID)
}

// run executes one hook's command, times it, parses its outcome, and
// audits the result. A runner error is folded into a Deny decision with
// exit code 1 so a broken hook fails closed rather than silently allowing.
func (e *Executor) run(def Definition, payload Payload, triggerID string) Decision {
	start := time.Now()
	stdout, stderr, exitCode, err := e.runner.Run(def, payload)
	duration := time.Since(start)

	var decision Decision
	switch {
	case err != nil:
		decision = Decision{Decision: OutcomeDeny, Message: err.Error(), ExitCode: 1}
	case len(stdout) > 0 && looksLikeJSON(stdout[len(stdout)-1]):
		if parsed, perr := parseDecisionJSON(stdout[len(stdout)-1]); perr == nil {
			decision = parsed
		} else {
			decision = decisionFromExitCode(exitCode)
		}
	default:
		decision = decisionFromExitCode(exitCode)
	}

	e.audit(def.Event, def.Scope, def.ID, decision, duration, payload, triggerID)
	return decision
}

func (e *Executor) audit(event Event, scope Scope, hookID string, decision Decision, duration time.Duration, payload Payload, triggerID string) {
	if e.log == nil {
		return
	}
	raw, _ := json.Marshal(payload)
	record := NewExecutionRecord(event, scope, hookID, decision, duration, raw, triggerID)
	_ = e.log.Append(record) // writer failures are logged by the caller, never propagated
}

func decisionFromExitCode(exitCode int) Decision {
	switch exitCode {
	case 0:
		return Allow()
	case 1:
		return Decision{Decision: OutcomeAsk, ExitCode: 1}
	case 2:
		return Decision{Decision: OutcomeDeny, ExitCode: 2}
	case 3:
		return Decision{Decision: OutcomeBlock, ExitCode: 3}
	default:
		return Decision{Decision: OutcomeContinue, ExitCode: exitCode}
	}
}

func looksLikeJSON(line string) bool {
	for _, r := range line {
		switch r {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

func parseDecisionJSON(line string) (Decision, error) {
	var d Decision
	if err := json.Unmarshal([]byte(line), &d); err != nil {
		return Decision{}, fmt.Errorf("parse hook decision: %w", err)
	}
	return d, nil
}

func containsDangerous(command string) bool {
	return len(command) >= len(dangerousSubstring) && indexOf(command, dangerousSubstring) >= 0
}

func indexOf(s, substr string) int {
	n, m := len(s), len(substr)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == substr {
			return i
		}
	}
	return -1
}
