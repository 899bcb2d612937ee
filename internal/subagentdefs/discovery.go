package subagentdefs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiscoveryEvent is a non-fatal note surfaced during discovery (a file that
// failed to parse, a disabled feature, a skipped record).
type DiscoveryEvent struct {
	Message string `json:"message"`
}

// DiscoveryOutcome is the raw result of walking one root directory.
type DiscoveryOutcome struct {
	Definitions []Definition
	Events      []DiscoveryEvent
}

// DiscoverFromRoot walks root recursively for *.md/*.markdown files and
// parses each as a Definition of the given scope. A missing root is not an
// error — it simply yields no definitions.
func DiscoverFromRoot(root string, scope Scope) DiscoveryOutcome {
	var outcome DiscoveryOutcome

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return outcome
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !isMarkdown(path) {
			return nil
		}
		contents, readErr := os.ReadFile(path)
		if readErr != nil {
			outcome.Events = append(outcome.Events, DiscoveryEvent{
				Message: fmt.Sprintf("failed to read subagent definition at %s: %v", path, readErr),
			})
			return nil
		}
		def, parseErr := ParseDefinition(path, contents, scope)
		if parseErr != nil {
			outcome.Events = append(outcome.Events, DiscoveryEvent{
				Message: fmt.Sprintf("failed to parse subagent definition at %s: %v", path, parseErr),
			})
			return nil
		}
		outcome.Definitions = append(outcome.Definitions, def)
		return nil
	})

	return outcome
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// ProjectAgentsDir is the conventional project-scoped definition root.
func ProjectAgentsDir(projectRoot string) string {
	return filepath.Join(projectRoot, ".codex", "agents")
}

// UserAgentsDir is the conventional user-scoped definition root.
func UserAgentsDir(codexHome string) string {
	return filepath.Join(codexHome, "agents")
}
