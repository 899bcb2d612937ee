package subagentdefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefinition_Valid(t *testing.T) {
	content := "---\nname: Code Reviewer\ndescription: Reviews diffs for bugs\ntools:\n  - git_diff\nmodel: claude-opus\n---\nYou review code changes for correctness.\n"
	def, err := ParseDefinition("/repo/.codex/agents/code-reviewer.md", []byte(content), ScopeProject)
	require.NoError(t, err)
	assert.True(t, def.IsValid())
	assert.Equal(t, "code-reviewer", def.Name)
	assert.Equal(t, "Reviews diffs for bugs", def.Description)
	assert.Equal(t, []string{"git_diff"}, def.Tools)
	assert.Equal(t, "claude-opus", def.Model)
	assert.Equal(t, "You review code changes for correctness.", def.Instructions)
}

func TestParseDefinition_MissingNameFallsBackToFileStem(t *testing.T) {
	content := "---\ndescription: does things\n---\nBody text.\n"
	def, err := ParseDefinition("/repo/.codex/agents/my-agent.md", []byte(content), ScopeProject)
	require.NoError(t, err)
	assert.Equal(t, "my-agent", def.Name)
	assert.Contains(t, def.ValidationErrors, "frontmatter is missing a non-empty `name` field")
}

func TestParseDefinition_EmptyBodyIsValidationError(t *testing.T) {
	content := "---\nname: empty\ndescription: x\n---\n   \n"
	def, err := ParseDefinition("/p.md", []byte(content), ScopeUser)
	require.NoError(t, err)
	assert.False(t, def.IsValid())
	assert.Contains(t, def.ValidationErrors, "definition must include a Markdown instructions body")
}

func TestParseDefinition_MissingFrontmatterDelimiterIsParseError(t *testing.T) {
	_, err := ParseDefinition("/p.md", []byte("no frontmatter here"), ScopeUser)
	assert.Error(t, err)
}

func TestParseDefinition_UnterminatedFrontmatterIsParseError(t *testing.T) {
	_, err := ParseDefinition("/p.md", []byte("---\nname: x\nno closing marker"), ScopeUser)
	assert.Error(t, err)
}

func TestParseDefinition_StripsBOMAndTreatsCRLF(t *testing.T) {
	content := "﻿---\r\nname: x\r\ndescription: y\r\n---\r\nbody\r\n"
	def, err := ParseDefinition("/p.md", []byte(content), ScopeUser)
	require.NoError(t, err)
	assert.True(t, def.IsValid())
	assert.Equal(t, "body", def.Instructions)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "code-reviewer", NormalizeName("Code Reviewer"))
	assert.Equal(t, "code-reviewer", NormalizeName("Code___Reviewer!!"))
	assert.Equal(t, "a-b", NormalizeName("a.b-"))
}
