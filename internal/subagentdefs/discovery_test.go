package subagentdefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFromRoot_ParsesMarkdownAndSkipsOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reviewer.md"), []byte("---\nname: reviewer\ndescription: d\n---\nbody\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "worker.markdown"), []byte("---\nname: worker\ndescription: d\n---\nbody\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	outcome := DiscoverFromRoot(dir, ScopeProject)
	require.Len(t, outcome.Definitions, 2)
	assert.Empty(t, outcome.Events)

	names := map[string]bool{}
	for _, def := range outcome.Definitions {
		names[def.Name] = true
	}
	assert.True(t, names["reviewer"])
	assert.True(t, names["worker"])
}

func TestDiscoverFromRoot_UnparseableFileProducesEvent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.md"), []byte("no frontmatter at all"), 0o644))

	outcome := DiscoverFromRoot(dir, ScopeUser)
	assert.Empty(t, outcome.Definitions)
	require.Len(t, outcome.Events, 1)
	assert.Contains(t, outcome.Events[0].Message, "broken.md")
}

func TestDiscoverFromRoot_MissingRootYieldsEmptyOutcome(t *testing.T) {
	outcome := DiscoverFromRoot(filepath.Join(t.TempDir(), "does-not-exist"), ScopeProject)
	assert.Empty(t, outcome.Definitions)
	assert.Empty(t, outcome.Events)
}

func TestDiscoverFromRoot_RecursesIntoSubdirectories(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "deep.md"), []byte("---\nname: deep\ndescription: d\n---\nbody\n"), 0o644))

	outcome := DiscoverFromRoot(dir, ScopeProject)
	require.Len(t, outcome.Definitions, 1)
	assert.Equal(t, "deep", outcome.Definitions[0].Name)
}
