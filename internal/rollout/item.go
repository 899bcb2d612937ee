// Package rollout appends an ordered, replayable transcript of one
// conversation to durable storage: response items, emitted events, and
// the turn context each turn ran under.
package rollout

import (
	"encoding/json"
	"time"

	"github.com/agentcore/sessioncore/internal/models"
)

// ItemKind discriminates the RolloutItem tagged union.
type ItemKind string

const (
	KindSessionMeta  ItemKind = "session_meta"
	KindResponseItem ItemKind = "response_item"
	KindEventMsg     ItemKind = "event_msg"
	KindTurnContext  ItemKind = "turn_context"
	KindCompacted    ItemKind = "compacted"
)

// SessionMeta is the first record of every rollout file.
type SessionMeta struct {
	ConversationID string    `json:"conversation_id"`
	Timestamp      time.Time `json:"timestamp"`
	CWD            string    `json:"cwd"`
	Originator     string    `json:"originator,omitempty"`
}

// TurnContextSnapshot is the subset of TurnContext persisted before each
// turn so a resumed session knows the exact execution policy it ran
// under, without re-deriving it from live config.
type TurnContextSnapshot struct {
	CWD             string `json:"cwd"`
	BaseInstruction string `json:"base_instructions,omitempty"`
	UserInstruction string `json:"user_instructions,omitempty"`
	ApprovalPolicy  string `json:"approval_policy"`
	SandboxPolicy   string `json:"sandbox_policy"`
	Model           string `json:"model"`
	IsReviewMode    bool   `json:"is_review_mode"`
}

// Compacted marks a history-replacing compaction: everything before it
// is summarized into message.
type Compacted struct {
	Message string `json:"message"`
}

// Item is one line of the rollout file. Exactly one payload field is
// populated, selected by Kind.
type Item struct {
	Kind ItemKind `json:"kind"`

	SessionMeta  *SessionMeta             `json:"session_meta,omitempty"`
	ResponseItem *models.ConversationItem `json:"response_item,omitempty"`
	EventMsg     json.RawMessage          `json:"event_msg,omitempty"`
	TurnContext  *TurnContextSnapshot     `json:"turn_context,omitempty"`
	Compacted    *Compacted               `json:"compacted,omitempty"`
}

// NewSessionMetaItem builds the session's opening record.
func NewSessionMetaItem(meta SessionMeta) Item {
	return Item{Kind: KindSessionMeta, SessionMeta: &meta}
}

// NewResponseItem wraps one conversation item for persistence.
func NewResponseItem(item models.ConversationItem) Item {
	return Item{Kind: KindResponseItem, ResponseItem: &item}
}

// NewEventMsgItem wraps an already-serialized event payload.
func NewEventMsgItem(raw json.RawMessage) Item {
	return Item{Kind: KindEventMsg, EventMsg: raw}
}

// NewTurnContextItem records the policy snapshot a turn ran under.
func NewTurnContextItem(snapshot TurnContextSnapshot) Item {
	return Item{Kind: KindTurnContext, TurnContext: &snapshot}
}

// NewCompactedItem records a history-replacing compaction summary.
func NewCompactedItem(message string) Item {
	return Item{Kind: KindCompacted, Compacted: &Compacted{Message: message}}
}
