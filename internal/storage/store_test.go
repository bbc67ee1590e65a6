package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zheng/aurora/internal/graph"
)

func sampleGraph() *graph.Graph {
	mod := &graph.Node{
		ID: graph.NodeID("app", graph.NodeKindModule), Kind: graph.NodeKindModule,
		Name: "app", QualifiedName: "app", File: "app.py", LineStart: 1, LineEnd: 40,
	}
	run := &graph.Node{
		ID: graph.NodeID("app.run", graph.NodeKindFunction), Kind: graph.NodeKindFunction,
		Name: "run", QualifiedName: "app.run", File: "app.py", LineStart: 5, LineEnd: 12,
	}
	return graph.New([]*graph.Node{mod, run}, []graph.Edge{
		{SourceID: mod.ID, TargetID: run.ID, Kind: graph.EdgeKindDefines},
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	g := sampleGraph()

	require.NoError(t, SaveGraph(path, g))
	loaded, err := LoadGraph(path)
	require.NoError(t, err)

	assert.Equal(t, g.Nodes(), loaded.Nodes())
	assert.Equal(t, g.Edges(), loaded.Edges())
}

func TestLoadRejectsForeignSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	doc := map[string]any{"version": SchemaVersion + 1, "nodes": nil, "edges": nil}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = LoadGraph(path)
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "version 2")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadGraph(filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")

	require.NoError(t, SaveGraph(path, sampleGraph()))
	require.NoError(t, SaveGraph(path, sampleGraph()))

	// No temp files survive the swap.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "graph.json", entries[0].Name())

	loaded, err := LoadGraph(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.NodeCount())
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "graph.json")
	require.NoError(t, SaveGraph(path, sampleGraph()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"version": 1`))
}
