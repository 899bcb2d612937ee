// Package subagentdefs discovers and parses Markdown sub-agent
// definitions (YAML frontmatter + instructions body), resolves
// project-vs-user precedence into an inventory, and prepares invocations
// for the runner that executes them as isolated child sessions.
package subagentdefs

import (
	"regexp"
	"strings"
)

// Scope is where a definition was discovered. Project always outranks User.
type Scope string

const (
	ScopeProject Scope = "project"
	ScopeUser    Scope = "user"
)

// Definition is one parsed Markdown sub-agent file.
type Definition struct {
	Name             string   `json:"name"`
	RawName          string   `json:"rawName"`
	Description      string   `json:"description"`
	Tools            []string `json:"tools,omitempty"`
	Model            string   `json:"model,omitempty"`
	Instructions     string   `json:"instructions"`
	Scope            Scope    `json:"scope"`
	SourcePath       string   `json:"sourcePath"`
	ValidationErrors []string `json:"validationErrors,omitempty"`
}

// IsValid reports whether the definition had zero validation errors.
func (d Definition) IsValid() bool {
	return len(d.ValidationErrors) == 0
}

var normalizeRunPattern = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeName lowercases raw, collapses runs of non-alphanumeric
// characters into a single '-', and strips a trailing '-'.
func NormalizeName(raw string) string {
	lower := strings.ToLower(raw)
	collapsed := normalizeRunPattern.ReplaceAllString(lower, "-")
	return strings.TrimSuffix(collapsed, "-")
}
