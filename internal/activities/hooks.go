package activities

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/agentcore/sessioncore/internal/hooks"
)

// execCommandRunner backs hooks.CommandRunner with os/exec. It belongs in
// internal/activities, not internal/hooks, because Temporal workflow code
// must never spawn processes directly.
type execCommandRunner struct{}

// NewExecCommandRunner returns the process-spawning hooks.CommandRunner used
// by the worker's hook Executor.
func NewExecCommandRunner() hooks.CommandRunner {
	return execCommandRunner{}
}

func (execCommandRunner) Run(def hooks.Definition, payload hooks.Payload) (stdout, stderr []string, exitCode int, err error) {
	if len(def.Command) == 0 {
		return nil, nil, 0, nil
	}

	timeout := time.Duration(def.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, def.Command[0], def.Command[1:]...)
	if def.WorkingDir != "" {
		cmd.Dir = def.WorkingDir
	}
	if len(def.Env) > 0 {
		env := cmd.Environ()
		for k, v := range def.Env {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}

	raw, merr := json.Marshal(payload)
	if merr != nil {
		return nil, nil, 0, merr
	}
	cmd.Stdin = bytes.NewReader(raw)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	stdout = splitNonEmptyLines(outBuf.String())
	stderr = splitNonEmptyLines(errBuf.String())

	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return stdout, stderr, exitErr.ExitCode(), nil
		}
		return stdout, stderr, -1, runErr
	}
	return stdout, stderr, 0, nil
}

func splitNonEmptyLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// HookPreToolUseInput is the input for the PreToolUse hook gate activity.
type HookPreToolUseInput struct {
	Payload   hooks.Payload `json:"payload"`
	TriggerID string        `json:"trigger_id"`
}

// HookPostToolUseInput is the input for the PostToolUse hook audit activity.
type HookPostToolUseInput struct {
	Payload   hooks.Payload `json:"payload"`
	ExitCode  int           `json:"exit_code"`
	TriggerID string        `json:"trigger_id"`
}

// HookActivities wraps a worker-wide hooks.Executor so the deterministic
// workflow can gate and audit tool calls without touching os/exec itself.
//
// Maps to: codex-rs/core/src/hooks/executor.rs Executor dispatch
type HookActivities struct {
	executor *hooks.Executor
}

// NewHookActivities creates a HookActivities instance. executor may be nil
// when hooks are disabled session-wide; callers should skip registering
// these activities in that case instead of calling through a nil executor.
func NewHookActivities(executor *hooks.Executor) *HookActivities {
	return &HookActivities{executor: executor}
}

// EvaluatePreToolUse runs the built-in guard plus any configured PreToolUse
// hooks and returns the folded Decision.
func (a *HookActivities) EvaluatePreToolUse(ctx context.Context, input HookPreToolUseInput) (hooks.Decision, error) {
	return a.executor.EvaluatePreToolUse(input.Payload, input.TriggerID), nil
}

// RecordPostToolUse runs configured PostToolUse hooks and writes the audit
// record; it never blocks the turn loop on the result.
func (a *HookActivities) RecordPostToolUse(ctx context.Context, input HookPostToolUseInput) (struct{}, error) {
	a.executor.RecordPostToolUse(input.Payload, input.ExitCode, input.TriggerID)
	return struct{}{}, nil
}
