package planmode

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a Plan Mode session.
type State string

const (
	StateActive   State = "Active"
	StateApplying State = "Applying"
	StateExited   State = "Exited"
)

// ApprovalMode mirrors the exec safety pipeline's approval policy values
// that Plan Mode restores to on exit.
type ApprovalMode string

// Session tracks one activation of Plan Mode: the approval policy it
// suspended, its compiled allow-list, and the artifact it has captured.
type Session struct {
	SessionID    string
	EnteredFrom  ApprovalMode
	State        State
	AllowedTools []string
	Artifact     *Artifact
	EnteredAt    time.Time
	PendingExit  *ApprovalMode

	allowList *AllowList
}

// New enters Plan Mode, compiling the given raw allow-list entries (on top
// of the always-present default shell helpers).
func New(entryFrom ApprovalMode, allowListEntries []string) *Session {
	al := NewAllowList(allowListEntries)
	return &Session{
		SessionID:    uuid.NewString(),
		EnteredFrom:  entryFrom,
		State:        StateActive,
		AllowedTools: al.RawEntries(),
		Artifact:     &Artifact{},
		EnteredAt:    time.Now().UTC(),
		allowList:    al,
	}
}

// Rehydrate reconstructs a Session from its serializable fields plus the raw
// allow-list entries, recompiling the unexported allowList. Used by callers
// that persist a Session across a process boundary (e.g. Temporal's
// ContinueAsNew) as plain data and need the live value back.
func Rehydrate(sessionID string, enteredFrom ApprovalMode, state State, allowedTools []string, artifact *Artifact, enteredAt time.Time, pendingExit *ApprovalMode) *Session {
	if artifact == nil {
		artifact = &Artifact{}
	}
	return &Session{
		SessionID:    sessionID,
		EnteredFrom:  enteredFrom,
		State:        state,
		AllowedTools: allowedTools,
		Artifact:     artifact,
		EnteredAt:    enteredAt,
		PendingExit:  pendingExit,
		allowList:    NewAllowList(allowedTools),
	}
}

// IsActive reports whether tool calls should still be gated.
func (s *Session) IsActive() bool {
	return s.State == StateActive
}

// IsShellAllowed reports whether command may execute directly instead of
// being captured as a PlanEntry.
func (s *Session) IsShellAllowed(command []string) bool {
	return s.allowList.MatchesShellCommand(command)
}

// IsToolAllowed reports whether an MCP tool call (qualified "server::tool"
// or bare "tool") may execute directly.
func (s *Session) IsToolAllowed(toolID string) bool {
	return s.allowList.MatchesTool(toolID)
}

// CaptureCommand records a would-be shell/apply_patch invocation as a
// PlanEntry instead of running it, returning the entry and the synthetic
// stderr text shown to the model.
func (s *Session) CaptureCommand(entryType EntryType, summary string, details string) (Entry, string) {
	entry := s.Artifact.AddEntry(Entry{Type: entryType, Summary: summary, Details: details})
	stderr := fmt.Sprintf("Plan Mode captured command: %s", summary)
	return entry, stderr
}

// CaptureToolCall records an unmatched MCP tool call as a Research entry.
func (s *Session) CaptureToolCall(toolID string) Entry {
	return s.Artifact.AddEntry(Entry{Type: EntryResearch, Summary: fmt.Sprintf("tool call: %s", toolID)})
}

// BeginApply transitions Active -> Applying, caching the approval mode to
// restore to once the apply completes (falling back to EnteredFrom).
func (s *Session) BeginApply(target *ApprovalMode) {
	s.State = StateApplying
	if target != nil {
		s.PendingExit = target
	} else {
		entered := s.EnteredFrom
		s.PendingExit = &entered
	}
}

// Exit transitions to Exited and clears any pending override, returning
// the approval mode the caller should restore.
func (s *Session) Exit() ApprovalMode {
	restore := s.EnteredFrom
	if s.PendingExit != nil {
		restore = *s.PendingExit
	}
	s.State = StateExited
	s.PendingExit = nil
	return restore
}

// AttachmentAllowed reports whether an attachment may be read while Plan
// Mode is active: the explicit "attachments.read" rule must be present.
func (s *Session) AttachmentAllowed() bool {
	return s.allowList.MatchesTool("attachments.read")
}
