// Package storage persists build artifacts: the graph snapshot as a
// versioned JSON document swapped in atomically, and the conversation
// history in SQLite.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zheng/aurora/internal/graph"
)

// SchemaVersion is the on-disk graph representation version. Loading a
// snapshot written with a different version fails with ErrSchemaMismatch;
// there is no in-place migration, the caller rebuilds instead.
const SchemaVersion = 1

// ErrSchemaMismatch indicates a persisted graph whose version tag does not
// match the reader's expected version.
var ErrSchemaMismatch = errors.New("graph schema version mismatch")

type envelope struct {
	Version int          `json:"version"`
	Nodes   []*graph.Node `json:"nodes"`
	Edges   []graph.Edge  `json:"edges"`
}

// SaveGraph writes the graph snapshot atomically: the document is written to
// a temporary file in the target directory and then renamed over the
// canonical path, so a concurrent reader observes either the complete prior
// snapshot or the complete new one, never a mix.
func SaveGraph(path string, g *graph.Graph) error {
	env := envelope{
		Version: SchemaVersion,
		Nodes:   g.Nodes(),
		Edges:   g.Edges(),
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create graph directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("swap snapshot into place: %w", err)
	}
	return nil
}

// LoadGraph reads a persisted snapshot back into an immutable Graph value.
func LoadGraph(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if env.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: snapshot has version %d, reader expects %d",
			ErrSchemaMismatch, env.Version, SchemaVersion)
	}
	return graph.New(env.Nodes, env.Edges), nil
}
