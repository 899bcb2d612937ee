package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	exitCode int
	stdout   []string
}

func (s stubRunner) Run(def Definition, payload Payload) ([]string, []string, int, error) {
	return s.stdout, nil, s.exitCode, nil
}

func TestEvaluatePreToolUse_BuiltinGuardDeniesDangerousCommand(t *testing.T) {
	registry := NewRegistry(nil, nil)
	executor := NewExecutor(registry, stubRunner{}, nil)

	decision := executor.EvaluatePreToolUse(Payload{
		Event:   EventPreToolUse,
		Command: `bash -lc "rm -rf /var/www"`,
	}, "trigger-1")

	assert.Equal(t, OutcomeDeny, decision.Decision)
	assert.Equal(t, 2, decision.ExitCode)
	assert.Equal(t, "dangerous_command", decision.StopReason)
	assert.True(t, decision.Blocked())
}

func TestEvaluatePreToolUse_AllowsSafeCommand(t *testing.T) {
	registry := NewRegistry(nil, nil)
	executor := NewExecutor(registry, stubRunner{}, nil)

	decision := executor.EvaluatePreToolUse(Payload{Command: "ls -la"}, "trigger-2")

	assert.Equal(t, OutcomeAllow, decision.Decision)
	assert.False(t, decision.Blocked())
}

func TestEvaluatePreToolUse_MatchingHookDenies(t *testing.T) {
	def := Definition{
		ID:             "block-npm",
		Event:          EventPreToolUse,
		Command:        []string{"check.sh"},
		SchemaVersions: []string{"1.0"},
		Matchers:       Matchers{ToolNames: []Matcher{{Type: MatcherExact, Value: "shell"}}},
		Scope:          Scope{Kind: ScopeProject},
	}
	registry := NewRegistry([]Definition{def}, nil)
	executor := NewExecutor(registry, stubRunner{exitCode: 2}, nil)

	decision := executor.EvaluatePreToolUse(Payload{ToolName: "shell", Command: "npm install"}, "trigger-3")
	assert.Equal(t, OutcomeDeny, decision.Decision)
}

func TestEvaluatePreToolUse_NonMatchingHookIsSkipped(t *testing.T) {
	def := Definition{
		ID:             "block-other",
		Event:          EventPreToolUse,
		Command:        []string{"check.sh"},
		SchemaVersions: []string{"1.0"},
		Matchers:       Matchers{ToolNames: []Matcher{{Type: MatcherExact, Value: "write_file"}}},
		Scope:          Scope{Kind: ScopeProject},
	}
	registry := NewRegistry([]Definition{def}, nil)
	executor := NewExecutor(registry, stubRunner{exitCode: 2}, nil)

	decision := executor.EvaluatePreToolUse(Payload{ToolName: "shell", Command: "npm install"}, "trigger-4")
	assert.Equal(t, OutcomeAllow, decision.Decision)
}

func TestLogWriter_AppendsJSONLAndCreatesDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "hooks.jsonl")
	w := NewLogWriter(path)

	require.NoError(t, w.Append(NewExecutionRecord(EventPreToolUse, Scope{Kind: ScopeProject}, "h1", Allow(), 0, []byte("{}"), "t1")))
	require.NoError(t, w.Append(NewExecutionRecord(EventPreToolUse, Scope{Kind: ScopeProject}, "h2", Allow(), 0, []byte("{}"), "t2")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := splitLines(string(data))
	require.Len(t, lines, 2)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	return lines
}

func TestRegistry_OrdersByPrecedenceThenID(t *testing.T) {
	defs := []Definition{
		{ID: "zz", Event: EventPreToolUse, Scope: Scope{Kind: ScopeLocalUser}},
		{ID: "aa", Event: EventPreToolUse, Scope: Scope{Kind: ScopeProject}},
		{ID: "bb", Event: EventPreToolUse, Scope: Scope{Kind: ScopeManagedPolicy}},
		{ID: "aa", Event: EventPreToolUse, Scope: Scope{Kind: ScopeManagedPolicy}},
	}
	registry := NewRegistry(defs, nil)
	ordered := registry.ForEvent(EventPreToolUse)
	require.Len(t, ordered, 4)
	assert.Equal(t, ScopeManagedPolicy, ordered[0].Scope.Kind)
	assert.Equal(t, "aa", ordered[0].ID)
	assert.Equal(t, ScopeManagedPolicy, ordered[1].Scope.Kind)
	assert.Equal(t, "bb", ordered[1].ID)
	assert.Equal(t, ScopeProject, ordered[2].Scope.Kind)
	assert.Equal(t, ScopeLocalUser, ordered[3].Scope.Kind)
}

func TestSynthesizeLegacyNotify(t *testing.T) {
	doc := `
[notifications]
notify = ["/usr/bin/notify-send", "done"]
`
	def, ok, err := SynthesizeLegacyNotify(doc, "/home/user/.codex")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, EventNotification, def.Event)
	assert.Equal(t, []string{"/usr/bin/notify-send", "done"}, def.Command)
	assert.Equal(t, ScopeLocalUser, def.Scope.Kind)
}

func TestSynthesizeLegacyNotify_NoneConfigured(t *testing.T) {
	_, ok, err := SynthesizeLegacyNotify("schemaVersion = \"1.0\"", "/home/user/.codex")
	require.NoError(t, err)
	assert.False(t, ok)
}
