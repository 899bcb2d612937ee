package activities

import (
	"context"

	"github.com/agentcore/sessioncore/internal/subagentdefs"
)

// SubagentDiscoveryInput is the input for DiscoverInventory. ProjectRoot and
// CodexHome are walked for Markdown sub-agent definitions; Project always
// outranks User precedence, per subagentdefs.BuildInventory.
type SubagentDiscoveryInput struct {
	ProjectRoot  string `json:"project_root,omitempty"`
	CodexHome    string `json:"codex_home,omitempty"`
	Enabled      bool   `json:"enabled"`
	DefaultModel string `json:"default_model,omitempty"`
}

// SubagentDiscoveryOutput carries the resolved inventory.
type SubagentDiscoveryOutput struct {
	Inventory subagentdefs.Inventory `json:"inventory"`
}

// SubagentActivities wraps the filesystem-walking subagentdefs discovery so
// deterministic workflow code never calls filepath.WalkDir directly.
//
// Maps to: codex-rs/core/src/subagents/discovery.rs discover_subagents
type SubagentActivities struct{}

// NewSubagentActivities creates a SubagentActivities instance.
func NewSubagentActivities() *SubagentActivities {
	return &SubagentActivities{}
}

// DiscoverInventory walks the project and user agent directories and
// resolves the combined inventory. Called once per workflow run (or after
// ContinueAsNew) rather than cached, so a running session picks up
// definitions added mid-conversation.
func (a *SubagentActivities) DiscoverInventory(ctx context.Context, input SubagentDiscoveryInput) (SubagentDiscoveryOutput, error) {
	var definitions []subagentdefs.Definition
	var events []subagentdefs.DiscoveryEvent

	if input.ProjectRoot != "" {
		outcome := subagentdefs.DiscoverFromRoot(subagentdefs.ProjectAgentsDir(input.ProjectRoot), subagentdefs.ScopeProject)
		definitions = append(definitions, outcome.Definitions...)
		events = append(events, outcome.Events...)
	}
	if input.CodexHome != "" {
		outcome := subagentdefs.DiscoverFromRoot(subagentdefs.UserAgentsDir(input.CodexHome), subagentdefs.ScopeUser)
		definitions = append(definitions, outcome.Definitions...)
		events = append(events, outcome.Events...)
	}

	inventory := subagentdefs.BuildInventory(input.Enabled, input.DefaultModel, definitions, events)
	return SubagentDiscoveryOutput{Inventory: inventory}, nil
}
