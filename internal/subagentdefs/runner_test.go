package subagentdefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRunner(t *testing.T, config Config) *Runner {
	t.Helper()
	inv := BuildInventory(true, "default-model", []Definition{
		validDef("reviewer", ScopeProject),
	}, nil)
	return NewRunner(config, inv)
}

func TestRunner_Invoke_FeatureDisabled(t *testing.T) {
	runner := buildRunner(t, Config{Enabled: false, Discovery: DiscoveryManual})
	_, err := runner.Invoke(InvocationSession{SubagentName: "reviewer"})
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, ErrFeatureDisabled, invErr.Kind)
}

func TestRunner_Invoke_UnknownSubagent(t *testing.T) {
	runner := buildRunner(t, Config{Enabled: true, Discovery: DiscoveryManual})
	_, err := runner.Invoke(InvocationSession{SubagentName: "ghost"})
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, ErrUnknownSubagent, invErr.Kind)
}

func TestRunner_Invoke_InvalidSubagentReportedDistinctly(t *testing.T) {
	inv := BuildInventory(true, "default-model", []Definition{invalidDef("broken", ScopeProject)}, nil)
	runner := NewRunner(Config{Enabled: true, Discovery: DiscoveryManual}, inv)
	_, err := runner.Invoke(InvocationSession{SubagentName: "broken"})
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, ErrInvalidSubagent, invErr.Kind)
}

func TestRunner_Invoke_FeatureOffInventoryReportsUnknownSubagent(t *testing.T) {
	inv := BuildInventory(false, "default-model", []Definition{validDef("reviewer", ScopeProject)}, nil)
	runner := NewRunner(Config{Enabled: true, Discovery: DiscoveryManual}, inv)
	_, err := runner.Invoke(InvocationSession{SubagentName: "reviewer"})
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, ErrUnknownSubagent, invErr.Kind)
}

func TestRunner_Invoke_ManualModeAutoConfirms(t *testing.T) {
	runner := buildRunner(t, Config{Enabled: true, Discovery: DiscoveryManual, DefaultModel: "default-model"})
	prepared, err := runner.Invoke(InvocationSession{SubagentName: "reviewer", Confirmed: false})
	require.NoError(t, err)
	assert.True(t, prepared.Session.Confirmed)
	assert.Equal(t, "default-model", prepared.Session.ResolvedModel)
}

func TestRunner_Invoke_AutoModeRequiresConfirmation(t *testing.T) {
	runner := buildRunner(t, Config{Enabled: true, Discovery: DiscoveryAuto})
	_, err := runner.Invoke(InvocationSession{SubagentName: "reviewer", Confirmed: false})
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, ErrConfirmationRequired, invErr.Kind)

	prepared, err := runner.Invoke(InvocationSession{SubagentName: "reviewer", Confirmed: true})
	require.NoError(t, err)
	assert.True(t, prepared.Session.Confirmed)
}

func TestRunner_Invoke_ToolNotAllowed(t *testing.T) {
	inv := BuildInventory(true, "default-model", []Definition{
		{Name: "reviewer", RawName: "reviewer", Description: "d", Instructions: "body", Scope: ScopeProject, Tools: []string{"git_diff"}},
	}, nil)
	runner := NewRunner(Config{Enabled: true, Discovery: DiscoveryManual}, inv)
	_, err := runner.Invoke(InvocationSession{SubagentName: "reviewer", RequestedTools: []string{"shell"}})
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, ErrToolNotAllowed, invErr.Kind)
}

func TestDefaultSummary(t *testing.T) {
	assert.Contains(t, DefaultSummary("reviewer"), "reviewer")
}
