package planmode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowList_DefaultShellHelpersMatchRegardlessOfOverrides(t *testing.T) {
	al := NewAllowList([]string{"some-other-tool"})
	assert.True(t, al.MatchesShellCommand([]string{"cat", "README.md"}))
	assert.True(t, al.MatchesShellCommand([]string{"bash", "-lc", "cat README.md"}))
	assert.True(t, al.MatchesShellCommand([]string{"bash", "-lc", "git status"}))
}

func TestAllowList_ShellRuleMatchesWrappedAndBareForms(t *testing.T) {
	al := NewAllowList([]string{"shell(cat *)"})
	assert.True(t, al.MatchesShellCommand([]string{"cat", "README.md"}))
	assert.True(t, al.MatchesShellCommand([]string{"bash", "-lc", "cat README.md"}))
}

func TestAllowList_ToolGlobRule(t *testing.T) {
	al := NewAllowList([]string{"n8n-mcp__list_*"})
	assert.True(t, al.MatchesTool("n8n-mcp__list_nodes"))
	assert.False(t, al.MatchesTool("n8n-mcp__get_workflow"))
}

func TestAllowList_ExactToolRule(t *testing.T) {
	al := NewAllowList([]string{"read_file"})
	assert.True(t, al.MatchesTool("read_file"))
	assert.False(t, al.MatchesTool("read_file_other"))
}

func TestAllowList_EmptyShellPatternIsIgnored(t *testing.T) {
	al := NewAllowList([]string{"shell()"})
	// Only the default entries remain; an arbitrary command not in the
	// defaults must not match.
	assert.False(t, al.MatchesShellCommand([]string{"curl", "https://example.com"}))
}

func TestAllowList_EnvPrefixIsPeeled(t *testing.T) {
	al := NewAllowList([]string{"shell(cat *)"})
	assert.True(t, al.MatchesShellCommand([]string{"env", "bash", "-lc", "cat file.txt"}))
}

func TestAllowList_DuplicateEntriesDeduplicated(t *testing.T) {
	al := NewAllowList([]string{"read_file", "read_file"})
	count := 0
	for _, e := range al.RawEntries() {
		if e == "read_file" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAllowList_UnrelatedCommandNotCaptured(t *testing.T) {
	al := NewAllowList(nil)
	assert.False(t, al.MatchesShellCommand([]string{"npm", "install"}))
}
