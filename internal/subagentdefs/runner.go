package subagentdefs

import "fmt"

// InvocationError is a typed failure from Runner.Invoke, matching the
// closed set of reasons a prepare step can reject an invocation for.
type InvocationError struct {
	Kind    string
	Subject string
}

const (
	ErrFeatureDisabled      = "feature_disabled"
	ErrUnknownSubagent      = "unknown_subagent"
	ErrInvalidSubagent      = "invalid_subagent"
	ErrDisabledSubagent     = "disabled_subagent"
	ErrConfirmationRequired = "confirmation_required"
	ErrToolNotAllowed       = "tool_not_allowed"
)

func (e *InvocationError) Error() string {
	switch e.Kind {
	case ErrFeatureDisabled:
		return "subagents feature disabled"
	case ErrUnknownSubagent:
		return fmt.Sprintf("no subagent named '%s'", e.Subject)
	case ErrInvalidSubagent:
		return fmt.Sprintf("subagent '%s' is invalid", e.Subject)
	case ErrDisabledSubagent:
		return fmt.Sprintf("subagent '%s' is disabled", e.Subject)
	case ErrConfirmationRequired:
		return fmt.Sprintf("confirmation required before invoking subagent '%s'", e.Subject)
	case ErrToolNotAllowed:
		return fmt.Sprintf("tool '%s' is not allowed for subagent", e.Subject)
	default:
		return "subagent invocation failed"
	}
}

// PreparedInvocation is the validated pair the caller hands to the
// executor.
type PreparedInvocation struct {
	Session InvocationSession
	Record  Record
}

// Runner resolves invocation requests against an Inventory.
type Runner struct {
	Config    Config
	Inventory Inventory
}

// NewRunner builds a Runner bound to one inventory snapshot.
func NewRunner(config Config, inventory Inventory) *Runner {
	return &Runner{Config: config, Inventory: inventory}
}

// Invoke validates session against the inventory and config, returning a
// PreparedInvocation on success. In Manual discovery mode, sessions are
// auto-confirmed; in Auto mode an unconfirmed request is rejected with
// ErrConfirmationRequired so the caller can re-invoke after the user
// approves.
func (r *Runner) Invoke(session InvocationSession) (PreparedInvocation, error) {
	if !r.Config.IsEnabled() {
		return PreparedInvocation{}, &InvocationError{Kind: ErrFeatureDisabled}
	}

	record, ok := r.Inventory.Subagents[session.SubagentName]
	if !ok {
		for _, inv := range r.Inventory.Invalid() {
			if inv.Definition.Name == session.SubagentName {
				return PreparedInvocation{}, &InvocationError{Kind: ErrInvalidSubagent, Subject: session.SubagentName}
			}
		}
		return PreparedInvocation{}, &InvocationError{Kind: ErrUnknownSubagent, Subject: session.SubagentName}
	}

	switch record.Status {
	case StatusInvalid:
		return PreparedInvocation{}, &InvocationError{Kind: ErrInvalidSubagent, Subject: record.Definition.Name}
	case StatusDisabled:
		return PreparedInvocation{}, &InvocationError{Kind: ErrDisabledSubagent, Subject: record.Definition.Name}
	}

	if r.Config.Discovery == DiscoveryManual {
		session.Confirmed = true
	}
	if r.Config.Discovery == DiscoveryAuto && !session.Confirmed {
		return PreparedInvocation{}, &InvocationError{Kind: ErrConfirmationRequired, Subject: record.Definition.Name}
	}

	for _, tool := range session.RequestedTools {
		if !record.AllowsTool(tool) {
			return PreparedInvocation{}, &InvocationError{Kind: ErrToolNotAllowed, Subject: tool}
		}
	}

	if session.ResolvedModel == "" {
		session.ResolvedModel = record.EffectiveModel
		if session.ResolvedModel == "" {
			session.ResolvedModel = r.Config.DefaultModel
		}
	}

	return PreparedInvocation{Session: session, Record: record}, nil
}

// DefaultSummary is the synthesized summary for an invocation that produced
// zero assistant messages.
func DefaultSummary(name string) string {
	return fmt.Sprintf("Subagent '%s' completed without returning a final message.", name)
}
