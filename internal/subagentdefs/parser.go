package subagentdefs

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type frontmatter struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tools       []string `yaml:"tools"`
	Model       string   `yaml:"model"`
}

// ParseDefinition parses one Markdown sub-agent file's contents. Parse
// failures (missing/unterminated frontmatter delimiter, invalid YAML) are
// returned as an error — those files are reported as discovery events, not
// turned into invalid Definitions. Missing name/description or an empty
// body become ValidationErrors on an otherwise-returned Definition.
func ParseDefinition(path string, contents []byte, scope Scope) (Definition, error) {
	sanitized := strings.TrimPrefix(string(contents), "﻿")

	fmSrc, body, err := extractFrontmatter(sanitized)
	if err != nil {
		return Definition{}, err
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(fmSrc), &fm); err != nil {
		return Definition{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	fallbackName := fallbackNameFromPath(path)
	rawName := strings.TrimSpace(fm.Name)
	providedName := rawName
	if providedName == "" {
		providedName = fallbackName
	}

	def := Definition{
		Name:        NormalizeName(providedName),
		RawName:     providedName,
		Description: strings.TrimSpace(fm.Description),
		Model:       strings.TrimSpace(fm.Model),
		Scope:       scope,
		SourcePath:  path,
	}

	if len(fm.Tools) > 0 {
		seen := make(map[string]bool)
		for _, tool := range fm.Tools {
			trimmed := strings.TrimSpace(tool)
			if trimmed == "" {
				def.ValidationErrors = append(def.ValidationErrors, "`tools` entries must be non-empty strings")
				continue
			}
			if !seen[trimmed] {
				seen[trimmed] = true
				def.Tools = append(def.Tools, trimmed)
			}
		}
	}

	trimmedBody := strings.TrimSpace(body)
	if trimmedBody == "" {
		def.ValidationErrors = append(def.ValidationErrors, "definition must include a Markdown instructions body")
	} else {
		def.Instructions = trimmedBody
	}

	if rawName == "" {
		def.ValidationErrors = append(def.ValidationErrors, "frontmatter is missing a non-empty `name` field")
	}
	if def.Description == "" {
		def.ValidationErrors = append(def.ValidationErrors, "frontmatter is missing a non-empty `description` field")
	}

	return def, nil
}

func fallbackNameFromPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		return "subagent"
	}
	return stem
}

// extractFrontmatter splits contents into the YAML frontmatter block and
// the remaining instructions body. CRLF line endings are tolerated.
func extractFrontmatter(contents string) (frontmatterSrc string, body string, err error) {
	trimmed := strings.TrimLeft(contents, "\n\r \t")
	if !strings.HasPrefix(trimmed, "---") {
		return "", "", fmt.Errorf("subagent definitions must start with `---` frontmatter")
	}

	remainder := stripLeadingNewline(trimmed[3:])

	const closingMarker = "\n---"
	idx := strings.Index(remainder, closingMarker)
	if idx < 0 {
		return "", "", fmt.Errorf("unterminated YAML frontmatter")
	}

	fmSlice := strings.ReplaceAll(remainder[:idx], "\r", "")
	rest := stripLeadingNewline(remainder[idx+len(closingMarker):])
	return fmSlice, rest, nil
}

func stripLeadingNewline(s string) string {
	switch {
	case strings.HasPrefix(s, "\r\n"):
		return s[2:]
	case strings.HasPrefix(s, "\n"):
		return s[1:]
	case strings.HasPrefix(s, "\r"):
		return s[1:]
	default:
		return s
	}
}
