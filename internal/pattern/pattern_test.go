package pattern

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderritik/dbiso/internal/graph"
	"github.com/stretchr/testify/require"
)

const starPattern = `
name: star-fk
nodes:
  - id: hub
  - id: spoke_a
  - id: spoke_b
edges:
  - from: spoke_a
    to: hub
    type: FOREIGN_KEY
  - from: spoke_b
    to: hub
    type: FOREIGN_KEY
`

func writePattern(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := writePattern(t, dir, "star.yaml", starPattern)

	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "star-fk", p.Name)
	require.Len(t, p.Nodes, 3)
	require.Len(t, p.Edges, 2)
}

func TestLoadRejectsUnknownEdgeNode(t *testing.T) {
	dir := t.TempDir()
	path := writePattern(t, dir, "bad.yaml", `
name: bad
nodes:
  - id: a
edges:
  - from: a
    to: missing
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadDirSortsByName(t *testing.T) {
	dir := t.TempDir()
	writePattern(t, dir, "b.yaml", "name: b\nnodes:\n  - id: x\n")
	writePattern(t, dir, "a.yaml", "name: a\nnodes:\n  - id: x\n")
	writePattern(t, dir, "notes.txt", "not a pattern")

	patterns, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	require.Equal(t, "a", patterns[0].Name)
	require.Equal(t, "b", patterns[1].Name)
}

func TestGraphBuildsRawNodesAndEdges(t *testing.T) {
	dir := t.TempDir()
	path := writePattern(t, dir, "star.yaml", starPattern)
	p, err := Load(path)
	require.NoError(t, err)

	g := p.Graph()
	require.Len(t, g.Nodes, 3)
	require.Contains(t, g.Nodes, "hub")
	require.Len(t, g.Edges["spoke_a"], 1)
	require.Equal(t, graph.ForeignKey, g.Edges["spoke_a"][0].Type)
}
