// Package planmode implements the read-only Plan Mode subsystem: a
// compiled allow-list of shell and tool-id rules, a plan artifact that
// accumulates captured actions, and the session state machine gating
// Active/Applying/Exited transitions.
package planmode

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// defaultShellEntries are always present in the allow-list regardless of
// user overrides, de-duplicated against any identical explicit entry.
var defaultShellEntries = []string{
	"shell(bash -lc cat *)",
	"shell(bash -lc find *)",
	"shell(bash -lc grep *)",
	"shell(bash -lc ls *)",
	"shell(bash -lc tree *)",
	"shell(bash -lc head *)",
	"shell(bash -lc tail *)",
	"shell(bash -lc stat *)",
	"shell(bash -lc pwd *)",
	"shell(bash -lc pwd)",
	"shell(bash -lc git status)",
	"shell(bash -lc git diff --stat)",
}

type toolRule struct {
	exact string
	glob  glob.Glob
}

func (r toolRule) matches(candidate string) bool {
	if r.glob != nil {
		return r.glob.Match(candidate)
	}
	return r.exact == candidate
}

// AllowList is the compiled representation of Plan Mode's enter-shell and
// enter-tool exceptions.
type AllowList struct {
	rawEntries []string
	toolRules  []toolRule
	shellRules []glob.Glob
}

// NewAllowList compiles the default read-only shell helpers plus entries,
// de-duplicating on insertion order. Entries starting with "shell(" become
// shell wildmatch rules; other literals become tool-id rules (exact unless
// they contain *, ?, or [, in which case they're a glob).
func NewAllowList(entries []string) *AllowList {
	al := &AllowList{}
	seen := make(map[string]bool)

	push := func(entry string) {
		if seen[entry] {
			return
		}
		seen[entry] = true
		al.rawEntries = append(al.rawEntries, entry)

		if pattern, ok := parseShellPattern(entry); ok {
			if g, err := glob.Compile(pattern); err == nil {
				al.shellRules = append(al.shellRules, g)
			}
			return
		}

		if isWildcard(entry) {
			if g, err := glob.Compile(entry); err == nil {
				al.toolRules = append(al.toolRules, toolRule{glob: g})
			}
			return
		}
		al.toolRules = append(al.toolRules, toolRule{exact: entry})
	}

	for _, e := range defaultShellEntries {
		push(e)
	}
	for _, e := range entries {
		trimmed := strings.TrimSpace(e)
		if trimmed == "" {
			continue
		}
		push(trimmed)
	}

	return al
}

// RawEntries returns every compiled entry, defaults included, in insertion
// order.
func (al *AllowList) RawEntries() []string {
	return al.rawEntries
}

// HasToolRules reports whether any non-shell rule was configured.
func (al *AllowList) HasToolRules() bool {
	return len(al.toolRules) > 0
}

// MatchesTool reports whether candidate (a bare tool id or "server::tool")
// satisfies any tool-id rule.
func (al *AllowList) MatchesTool(candidate string) bool {
	for _, rule := range al.toolRules {
		if rule.matches(candidate) {
			return true
		}
	}
	return false
}

// MatchesShellCommand tests the full joined command and, when the leading
// program is a recognized shell wrapper, its peeled inner command; a bare
// command is also tested in its "bash -lc <command>" form.
func (al *AllowList) MatchesShellCommand(command []string) bool {
	if len(command) == 0 {
		return false
	}
	for _, candidate := range shellCommandCandidates(command) {
		for _, rule := range al.shellRules {
			if rule.Match(candidate) {
				return true
			}
		}
	}
	return false
}

const shellPrefix = "shell("

func parseShellPattern(entry string) (string, bool) {
	if !strings.HasPrefix(entry, shellPrefix) || !strings.HasSuffix(entry, ")") {
		return "", false
	}
	pattern := strings.TrimSpace(entry[len(shellPrefix) : len(entry)-1])
	if pattern == "" {
		return "", false
	}
	return pattern, true
}

func isWildcard(entry string) bool {
	return strings.ContainsAny(entry, "*?[")
}

func shellCommandCandidates(command []string) []string {
	candidates := []string{strings.Join(command, " ")}
	if stripped, ok := stripShellWrapper(command); ok {
		joined := strings.Join(stripped, " ")
		if joined != "" && joined != candidates[0] {
			candidates = append(candidates, joined)
		}
	} else {
		candidates = append(candidates, "bash -lc "+candidates[0])
	}
	return candidates
}

var shellFlagsByExecutable = map[string][]string{
	"sh": {"-c", "-lc"}, "bash": {"-c", "-lc"}, "zsh": {"-c", "-lc"},
	"dash": {"-c", "-lc"}, "ksh": {"-c", "-lc"}, "ash": {"-c", "-lc"}, "busybox": {"-c", "-lc"},
	"fish": {"-c"}, "elvish": {"-c"},
	"pwsh": {"-c", "-command"}, "powershell": {"-c", "-command"},
	"cmd": {"/c"},
}

// stripShellWrapper peels a single layer of `env` prefix and then, if the
// remaining leading program is a recognized shell wrapper invoked with a
// command flag, returns the command text that follows the flag.
func stripShellWrapper(command []string) ([]string, bool) {
	slice := command
	for {
		if len(slice) == 0 {
			return nil, false
		}
		exe := strings.ToLower(filepath.Base(slice[0]))
		exe = strings.TrimSuffix(exe, ".exe")

		if exe == "env" {
			if len(slice) <= 1 {
				return nil, false
			}
			slice = slice[1:]
			continue
		}

		flags, known := shellFlagsByExecutable[exe]
		if !known {
			return nil, false
		}
		if len(flags) == 0 {
			if len(slice) > 1 {
				return slice[1:], true
			}
			return nil, false
		}

		for i := 1; i < len(slice); i++ {
			for _, flag := range flags {
				if strings.EqualFold(slice[i], flag) {
					rest := slice[i+1:]
					if len(rest) == 0 {
						return nil, false
					}
					return rest, true
				}
			}
		}
		return nil, false
	}
}
