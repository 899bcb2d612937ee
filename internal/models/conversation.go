// Package models contains shared types for the sessioncore project.
//
// Corresponds to: codex-rs/core/src/protocol/models.rs
package models

// ConversationItemType represents the type of a conversation item.
type ConversationItemType string

const (
	ItemTypeUserMessage      ConversationItemType = "user_message"
	ItemTypeAssistantMessage ConversationItemType = "assistant_message"
	ItemTypeFunctionCall     ConversationItemType = "function_call"
	ItemTypeFunctionCallOutput ConversationItemType = "function_call_output"
	ItemTypeModelSwitch      ConversationItemType = "model_switch"
	ItemTypeTurnStarted      ConversationItemType = "turn_started"
	ItemTypeTurnComplete     ConversationItemType = "turn_complete"

	// ItemTypeToolResult/ToolCall are kept for provider adapters that still
	// express tool results as role-tagged chat messages rather than
	// Responses-API function_call/function_call_output pairs.
	ItemTypeToolResult ConversationItemType = "tool_result"
)

// FunctionCallOutputPayload carries the result of a tool invocation attached
// to an ItemTypeFunctionCallOutput item.
//
// Maps to: codex-rs/core/src/tools/types.rs FunctionCallOutputPayload
type FunctionCallOutputPayload struct {
	Content string `json:"content"`
	Success *bool  `json:"success,omitempty"`
}

// ConversationItem represents a single item in the conversation history.
// It is a tagged union over Type: user/assistant messages carry Content,
// function calls carry CallID/Name/Arguments, function call outputs carry
// CallID/Output, and turn markers carry TurnID.
//
// Maps to: codex-rs/core/src/protocol/models.rs ConversationItem /
// codex-rs ResponseItem
type ConversationItem struct {
	Type ConversationItemType `json:"type"`

	// Seq is a monotonically increasing position assigned by the history
	// store on append. Never reused, even across compaction.
	Seq int `json:"seq"`

	// TurnID associates this item with the turn that produced it.
	TurnID string `json:"turn_id,omitempty"`

	// Content holds message text for user/assistant messages and turn
	// markers (e.g. "interrupted").
	Content string `json:"content,omitempty"`

	// ToolCalls holds inline tool calls attached to an assistant message,
	// for providers (OpenAI Chat Completions-style) that express them that
	// way instead of as separate FunctionCall items.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// CallID identifies the tool invocation for FunctionCall and
	// FunctionCallOutput items.
	CallID string `json:"call_id,omitempty"`

	// Name is the tool name for a FunctionCall item.
	Name string `json:"name,omitempty"`

	// Arguments is the raw JSON argument string for a FunctionCall item.
	Arguments string `json:"arguments,omitempty"`

	// Output carries the result for a FunctionCallOutput item.
	Output *FunctionCallOutputPayload `json:"output,omitempty"`

	// ToolCallID/ToolOutput/ToolError support the legacy chat-message tool
	// result representation (ItemTypeToolResult).
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolOutput string `json:"tool_output,omitempty"`
	ToolError  string `json:"tool_error,omitempty"`
}

// ToolCall represents a request to call a tool, inline on an assistant message.
//
// Maps to: codex-rs/core/src/protocol/models.rs ToolCall
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolResult represents the result of a tool execution.
//
// Maps to: codex-rs/core/src/tools/types.rs ToolResult
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output,omitempty"`
	Error      string `json:"error,omitempty"`
}

// FinishReason indicates why the LLM stopped generating.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"           // Natural completion
	FinishReasonToolCalls     FinishReason = "tool_calls"      // LLM wants to call tools
	FinishReasonLength        FinishReason = "length"          // Hit token limit
	FinishReasonContentFilter FinishReason = "content_filter"  // Content filtered
)

// TokenUsage tracks token consumption.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
	CachedTokens     int `json:"cached_tokens,omitempty"`
}

// PlanState is the current task plan maintained via the update_plan tool.
//
// Maps to: codex-rs/core/src/tools/plan.rs PlanState
type PlanState struct {
	Explanation string     `json:"explanation,omitempty"`
	Steps       []PlanStep `json:"steps"`
}

// PlanStep is a single step in a PlanState.
type PlanStep struct {
	Step   string         `json:"step"`
	Status PlanStepStatus `json:"status"`
}

// PlanStepStatus is the lifecycle state of a single plan step.
type PlanStepStatus string

const (
	PlanStepPending    PlanStepStatus = "pending"
	PlanStepInProgress PlanStepStatus = "in_progress"
	PlanStepCompleted  PlanStepStatus = "completed"
)
