package hooks

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

// SkipReason explains why a configured hook entry was rejected at load time.
type SkipReason string

const (
	SkipInvalidSchema SkipReason = "invalid_schema"
	SkipDuplicateID   SkipReason = "duplicate_id"
)

// SkippedHook records one rejected entry for a LayerSummary.
type SkippedHook struct {
	HookID  string     `json:"hookId,omitempty"`
	Reason  SkipReason `json:"reason"`
	Details string     `json:"details,omitempty"`
}

// LayerSummary describes the outcome of loading a single (scope, path) pair.
type LayerSummary struct {
	Scope        Scope         `json:"scope"`
	Path         string        `json:"path"`
	Checksum     string        `json:"checksum"`
	LoadedHooks  int           `json:"loadedHooks"`
	SkippedHooks []SkippedHook `json:"skippedHooks,omitempty"`
}

// fileDoc mirrors the TOML hook configuration document.
type fileDoc struct {
	SchemaVersion   string            `toml:"schemaVersion"`
	DefaultTimeout  int               `toml:"defaultTimeoutMs"`
	Env             map[string]string `toml:"env"`
	Hooks           []fileHookEntry   `toml:"hooks"`
}

type fileHookEntry struct {
	ID             string            `toml:"id"`
	Event          string            `toml:"event"`
	Notes          string            `toml:"notes"`
	Command        []string          `toml:"command"`
	WorkingDir     string            `toml:"workingDir"`
	TimeoutMs      int               `toml:"timeoutMs"`
	AllowParallel  bool              `toml:"allowParallel"`
	SchemaVersions []string          `toml:"schemaVersions"`
	Env            map[string]string `toml:"env"`
	Matchers       fileMatchers      `toml:"matchers"`
}

type fileMatchers struct {
	ToolNames []fileMatcher `toml:"toolNames"`
	Sources   []fileMatcher `toml:"sources"`
	Paths     []fileMatcher `toml:"paths"`
	Tags      []string      `toml:"tags"`
}

type fileMatcher struct {
	Type  string `toml:"type"`
	Value string `toml:"value"`
}

func (m fileMatchers) toMatchers() Matchers {
	convert := func(in []fileMatcher) []Matcher {
		if len(in) == 0 {
			return nil
		}
		out := make([]Matcher, len(in))
		for i, fm := range in {
			out[i] = Matcher{Type: MatcherKind(fm.Type), Value: fm.Value}
		}
		return out
	}
	return Matchers{
		ToolNames: convert(m.ToolNames),
		Sources:   convert(m.Sources),
		Paths:     convert(m.Paths),
		Tags:      m.Tags,
	}
}

// LayerSource pairs a Scope with the file path its hooks should be loaded from.
type LayerSource struct {
	Scope Scope
	Path  string
}

// LoadLayers reads each source in order, parsing its TOML document and
// validating every hook entry. Entries failing validation are skipped with
// a reason rather than aborting the whole layer. Returns the accepted
// definitions (unsorted) plus one LayerSummary per source.
func LoadLayers(sources []LayerSource) ([]Definition, []LayerSummary, error) {
	var definitions []Definition
	summaries := make([]LayerSummary, 0, len(sources))

	for _, src := range sources {
		contents, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("read hook config %s: %w", src.Path, err)
		}

		var doc fileDoc
		if _, err := toml.Decode(string(contents), &doc); err != nil {
			return nil, nil, fmt.Errorf("parse hook config %s: %w", src.Path, err)
		}
		if doc.SchemaVersion != "1.0" {
			return nil, nil, fmt.Errorf("hook config %s: unsupported schemaVersion %q", src.Path, doc.SchemaVersion)
		}

		sum := sha1.Sum(contents)
		summary := LayerSummary{
			Scope:    src.Scope,
			Path:     src.Path,
			Checksum: hex.EncodeToString(sum[:]),
		}

		seen := make(map[string]bool, len(doc.Hooks))
		for _, entry := range doc.Hooks {
			if entry.ID == "" {
				summary.SkippedHooks = append(summary.SkippedHooks, SkippedHook{
					Reason:  SkipInvalidSchema,
					Details: "hook id must not be empty",
				})
				continue
			}
			if seen[entry.ID] {
				summary.SkippedHooks = append(summary.SkippedHooks, SkippedHook{
					HookID: entry.ID,
					Reason: SkipDuplicateID,
				})
				continue
			}
			if len(entry.Command) == 0 {
				summary.SkippedHooks = append(summary.SkippedHooks, SkippedHook{
					HookID:  entry.ID,
					Reason:  SkipInvalidSchema,
					Details: "command must not be empty",
				})
				continue
			}
			if len(entry.SchemaVersions) == 0 {
				summary.SkippedHooks = append(summary.SkippedHooks, SkippedHook{
					HookID:  entry.ID,
					Reason:  SkipInvalidSchema,
					Details: "schemaVersions must not be empty",
				})
				continue
			}

			seen[entry.ID] = true
			timeout := entry.TimeoutMs
			if timeout == 0 {
				timeout = doc.DefaultTimeout
			}
			definitions = append(definitions, Definition{
				ID:             entry.ID,
				Event:          Event(entry.Event),
				Notes:          entry.Notes,
				Command:        entry.Command,
				WorkingDir:     entry.WorkingDir,
				TimeoutMs:      timeout,
				AllowParallel:  entry.AllowParallel,
				SchemaVersions: entry.SchemaVersions,
				Env:            entry.Env,
				Matchers:       entry.Matchers.toMatchers(),
				Scope:          src.Scope,
				SourcePath:     src.Path,
			})
			summary.LoadedHooks++
		}

		summaries = append(summaries, summary)
	}

	return definitions, summaries, nil
}

// legacyNotifyDoc extracts only the top-level notifications.notify array,
// ignoring the rest of a project config.toml document.
type legacyNotifyDoc struct {
	Notifications struct {
		Notify []string `toml:"notify"`
	} `toml:"notifications"`
}

// SynthesizeLegacyNotify converts a pre-existing `notifications.notify`
// array in the top-level config into a single Notification hook, so old
// configurations keep working without a second code path. Returns ok=false
// when no legacy notify array is present.
func SynthesizeLegacyNotify(configTOML string, codexHome string) (Definition, bool, error) {
	var doc legacyNotifyDoc
	if _, err := toml.Decode(configTOML, &doc); err != nil {
		return Definition{}, false, fmt.Errorf("parse config for legacy notify: %w", err)
	}
	if len(doc.Notifications.Notify) == 0 {
		return Definition{}, false, nil
	}
	return Definition{
		ID:             "legacy-notify",
		Event:          EventNotification,
		Command:        doc.Notifications.Notify,
		AllowParallel:  true,
		SchemaVersions: []string{"1.0"},
		Scope:          Scope{Kind: ScopeLocalUser, Root: codexHome},
		SourcePath:     "",
	}, true, nil
}

// sortDefinitions orders a bucket by (precedence_rank(scope), id) per the
// registry ordering invariant.
func sortDefinitions(defs []Definition) {
	sort.SliceStable(defs, func(i, j int) bool {
		ri, rj := defs[i].Scope.PrecedenceRank(), defs[j].Scope.PrecedenceRank()
		if ri != rj {
			return ri < rj
		}
		return defs[i].ID < defs[j].ID
	})
}
