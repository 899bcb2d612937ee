package models

// ApprovalMode controls how much autonomy the exec safety pipeline grants
// tool calls before asking the user for a decision.
//
// Maps to: codex-rs/core/src/protocol/config_types.rs AskForApproval
type ApprovalMode string

const (
	// ApprovalUnlessTrusted only asks for tools the exec policy hasn't
	// classified as safe.
	ApprovalUnlessTrusted ApprovalMode = "unless-trusted"
	// ApprovalOnFailure runs tools without asking first, and only escalates
	// to the user when the tool exits non-zero or its sandbox denies it.
	ApprovalOnFailure ApprovalMode = "on-failure"
	// ApprovalOnRequest asks only when a tool itself signals it wants
	// elevated permissions.
	ApprovalOnRequest ApprovalMode = "on-request"
	// ApprovalNever runs every tool without approval, relying entirely on
	// the sandbox to contain damage.
	ApprovalNever ApprovalMode = "never"
)

// ModelConfig configures the LLM model parameters
//
// Maps to: codex-rs/core/src/codex.rs SessionConfiguration (model config part)
type ModelConfig struct {
	Provider        string  `json:"provider"`                   // "openai", "anthropic"
	Model           string  `json:"model"`                      // e.g., "gpt-4o", "claude-sonnet-4-5"
	ReasoningEffort string  `json:"reasoning_effort,omitempty"`  // "low", "medium", "high"
	Temperature     float64 `json:"temperature"`                // 0.0 to 2.0
	MaxTokens       int     `json:"max_tokens"`                 // Max tokens to generate
	ContextWindow   int     `json:"context_window"`             // Max context window size
}

// DefaultModelConfig returns a sensible default configuration
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Provider:      "openai",
		Model:         "gpt-4o-mini",
		Temperature:   0.7,
		MaxTokens:     4096,
		ContextWindow: 128000,
	}
}

// ToolsConfig configures which tools are enabled
//
// Maps to: codex-rs/core/src/codex.rs SessionConfiguration (tools config part)
type ToolsConfig struct {
	EnableShell      bool `json:"enable_shell"`
	EnableReadFile   bool `json:"enable_read_file"`
	EnableWriteFile  bool `json:"enable_write_file,omitempty"`  // Built-in write_file tool
	EnableListDir    bool `json:"enable_list_dir,omitempty"`    // Built-in list_dir tool
	EnableGrepFiles  bool `json:"enable_grep_files,omitempty"`  // Built-in grep_files tool
	EnableApplyPatch bool `json:"enable_apply_patch,omitempty"` // Built-in apply_patch tool
	EnableCollab     bool `json:"enable_collab,omitempty"`      // Sub-agent collab tool
	EnableUpdatePlan bool `json:"enable_update_plan,omitempty"` // Plan Mode update_plan tool
	EnableSubagents  bool `json:"enable_subagents,omitempty"`   // invoke_subagent tool (Markdown-defined personas)

	// EnabledTools is the resolved set of tool names available to this
	// session, derived from the Enable* flags plus any MCP tools. Child
	// agent configs start from a copy of the parent's and prune it via
	// RemoveTools.
	EnabledTools []string `json:"enabled_tools,omitempty"`
}

// RemoveTools removes the named tools from EnabledTools, if present. It is a
// no-op for names that aren't in the list.
func (t *ToolsConfig) RemoveTools(names ...string) {
	if len(t.EnabledTools) == 0 {
		return
	}
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := t.EnabledTools[:0:0]
	for _, existing := range t.EnabledTools {
		if !drop[existing] {
			kept = append(kept, existing)
		}
	}
	t.EnabledTools = kept
}

// ShellToolType selects which shell tool spec is exposed to the model.
type ShellToolType string

const (
	// ShellToolDefault is the plain "shell" tool (argv + timeout).
	ShellToolDefault ShellToolType = "default"
	// ShellToolShellCommand is the "shell_command" tool variant used by
	// providers that require a single command string instead of argv.
	ShellToolShellCommand ShellToolType = "shell_command"
)

// ResolvedShellType returns which shell tool variant this configuration
// exposes. Defaults to ShellToolDefault.
func (t ToolsConfig) ResolvedShellType() ShellToolType {
	for _, name := range t.EnabledTools {
		if name == "shell_command" {
			return ShellToolShellCommand
		}
	}
	return ShellToolDefault
}

// DefaultToolsConfig returns default tools configuration
func DefaultToolsConfig() ToolsConfig {
	return ToolsConfig{
		EnableShell:      true,
		EnableReadFile:   true,
		EnableWriteFile:  true,
		EnableListDir:    true,
		EnableGrepFiles:  true,
		EnableApplyPatch: true,
		EnableCollab:     true,
		EnableUpdatePlan: true,
		EnabledTools: []string{
			"shell", "read_file", "write_file", "list_dir", "grep_files",
			"apply_patch", "collab", "update_plan", "request_user_input",
		},
	}
}

// McpServerConfig describes one configured MCP server to launch or connect
// to when the session starts.
//
// Maps to: codex-rs/core/src/config_types.rs McpServerConfig
type McpServerConfig struct {
	Name    string            `json:"name"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"` // for HTTP/SSE transports
}

// SessionConfiguration configures a complete agentic session.
//
// Maps to: codex-rs/core/src/codex.rs SessionConfiguration
type SessionConfiguration struct {
	// Instructions hierarchy (maps to Codex 3-tier system)
	BaseInstructions         string `json:"base_instructions,omitempty"`          // Core system prompt for the model
	DeveloperInstructions    string `json:"developer_instructions,omitempty"`     // Developer overrides (sent as developer message)
	UserInstructions         string `json:"user_instructions,omitempty"`          // Project docs (AGENTS.md content)
	CLIProjectDocs           string `json:"cli_project_docs,omitempty"`           // AGENTS.md discovered by the CLI's local project walk
	UserPersonalInstructions string `json:"user_personal_instructions,omitempty"` // From ~/.codex/instructions.md

	// Model configuration
	Model ModelConfig `json:"model"`

	// Tool configuration
	Tools ToolsConfig `json:"tools"`

	// Execution context
	Cwd       string `json:"cwd,omitempty"`        // Working directory for tool execution
	CodexHome string `json:"codex_home,omitempty"` // Path to config directory (default ~/.codex)

	// Temporal wiring
	SessionTaskQueue string `json:"session_task_queue,omitempty"` // Task queue activities for this session run on

	// Approval and sandboxing
	ApprovalMode         ApprovalMode `json:"approval_mode,omitempty"`
	SandboxMode          string       `json:"sandbox_mode,omitempty"` // "full-access", "read-only", "workspace-write"
	SandboxWritableRoots []string     `json:"sandbox_writable_roots,omitempty"`
	SandboxNetworkAccess bool         `json:"sandbox_network_access,omitempty"`

	// Context management
	AutoCompactTokenLimit int `json:"auto_compact_token_limit,omitempty"` // 0 means derive from ContextWindow

	// MCP
	McpServers []McpServerConfig `json:"mcp_servers,omitempty"`

	// Suggestions
	DisableSuggestions bool `json:"disable_suggestions,omitempty"`

	// Session metadata
	SessionSource string `json:"session_source,omitempty"` // "cli", "api", "exec" for logging/tracking

	// Hook lifecycle engine. Disabled by default; when enabled the worker's
	// registry (loaded once at startup from CodexHome/project layers) gates
	// every tool call through PreToolUse/PostToolUse.
	HooksEnabled bool `json:"hooks_enabled,omitempty"`

	// Sub-agent invocation (Markdown-defined personas).
	SubagentsEnabled       bool   `json:"subagents_enabled,omitempty"`
	SubagentsDiscoveryMode string `json:"subagents_discovery_mode,omitempty"` // "auto" | "manual"
	SubagentsDefaultModel  string `json:"subagents_default_model,omitempty"`

	// PlanModeAllowList carries extra read-only shell/tool rules layered on
	// top of the built-in defaults whenever Plan Mode is entered.
	PlanModeAllowList []string `json:"plan_mode_allow_list,omitempty"`

	// RolloutEnabled turns on JSONL rollout persistence under
	// CodexHome/sessions. Disabled by default so tests and child agents
	// that share a CodexHome don't race on the same directory.
	RolloutEnabled bool `json:"rollout_enabled,omitempty"`
}

// DefaultSessionConfiguration returns sensible defaults.
func DefaultSessionConfiguration() SessionConfiguration {
	return SessionConfiguration{
		Model:        DefaultModelConfig(),
		Tools:        DefaultToolsConfig(),
		ApprovalMode: ApprovalUnlessTrusted,
		SandboxMode:  "workspace-write",
	}
}
