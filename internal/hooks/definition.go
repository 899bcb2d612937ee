// Package hooks implements the layered lifecycle hook registry: loading
// TOML hook configuration from managed, project, and local-user layers,
// evaluating matchers against tool invocations, and auditing every
// decision to a JSONL log.
package hooks

// Event identifies a lifecycle point at which hooks can run.
type Event string

const (
	EventSessionStart  Event = "SessionStart"
	EventSessionEnd    Event = "SessionEnd"
	EventUserPrompt    Event = "UserPromptSubmit"
	EventPreToolUse    Event = "PreToolUse"
	EventPostToolUse   Event = "PostToolUse"
	EventNotification  Event = "Notification"
	EventStop          Event = "Stop"
	EventSubagentStart Event = "SubagentStart"
	EventSubagentStop  Event = "SubagentStop"
)

// Scope identifies the layer a hook definition was loaded from, and
// establishes precedence: Managed < Project < LocalUser.
type Scope struct {
	Kind string `json:"type"` // "managedPolicy" | "project" | "localUser"
	Name string `json:"name,omitempty"`
	Root string `json:"root,omitempty"`
}

const (
	ScopeManagedPolicy = "managedPolicy"
	ScopeProject       = "project"
	ScopeLocalUser     = "localUser"
)

// PrecedenceRank orders scopes for sorting and for Scope-filtered snapshots.
// Managed sorts first (lowest precedence), LocalUser last (highest).
func (s Scope) PrecedenceRank() int {
	switch s.Kind {
	case ScopeManagedPolicy:
		return 0
	case ScopeProject:
		return 1
	case ScopeLocalUser:
		return 2
	default:
		return 3
	}
}

// MatcherKind tags how a Matcher's Value should be compared.
type MatcherKind string

const (
	MatcherExact MatcherKind = "exact"
	MatcherGlob  MatcherKind = "glob"
	MatcherRegex MatcherKind = "regex"
)

// Matcher is a single tagged predicate, serialized as {"type": ..., "value": ...}.
type Matcher struct {
	Type  MatcherKind `json:"type"`
	Value string      `json:"value"`
}

// Matchers groups the predicate fields a hook definition can restrict
// execution on. Empty slices mean "matches everything" for that field.
type Matchers struct {
	ToolNames []Matcher `json:"toolNames,omitempty"`
	Sources   []Matcher `json:"sources,omitempty"`
	Paths     []Matcher `json:"paths,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
}

// Definition is one configured hook: a command to run at an Event, gated
// by Matchers, attributed to a Scope once loaded.
type Definition struct {
	ID              string            `json:"id"`
	Event           Event             `json:"event"`
	Notes           string            `json:"notes,omitempty"`
	Command         []string          `json:"command"`
	WorkingDir      string            `json:"workingDir,omitempty"`
	TimeoutMs       int               `json:"timeoutMs,omitempty"`
	AllowParallel   bool              `json:"allowParallel"`
	SchemaVersions  []string          `json:"schemaVersions"`
	Env             map[string]string `json:"env,omitempty"`
	Matchers        Matchers          `json:"matchers"`
	Scope           Scope             `json:"-"`
	SourcePath      string            `json:"-"`
}
