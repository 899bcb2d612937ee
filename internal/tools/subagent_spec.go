package tools

// NewInvokeSubagentToolSpec creates the specification for the
// invoke_subagent tool, which the workflow intercepts rather than
// dispatching as an activity (the invocation runs as an isolated child
// workflow).
//
// Maps to: codex-rs/core/src/subagents/runner.rs invoke_subagent tool
func NewInvokeSubagentToolSpec() ToolSpec {
	return ToolSpec{
		Name: "invoke_subagent",
		Description: `Invoke a named sub-agent (a Markdown-defined persona with its own
instructions, model, and restricted tool set) as an isolated child session and
return its final message.`,
		Parameters: []ToolParameter{
			{
				Name:        "name",
				Type:        "string",
				Description: "The sub-agent's normalized name, as shown by the subagent inventory",
				Required:    true,
			},
			{
				Name:        "instructions",
				Type:        "string",
				Description: "The task to hand off to the sub-agent",
				Required:    true,
			},
			{
				Name:        "tools",
				Type:        "array",
				Description: "Tool names the sub-agent is requesting for this invocation; must be a subset of the sub-agent's allowed tools",
				Required:    false,
				Items:       map[string]interface{}{"type": "string"},
			},
		},
		DefaultTimeoutMs: DefaultToolTimeoutMs,
	}
}
