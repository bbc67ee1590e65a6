package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zheng/aurora/internal/graph"
)

func parseGo(t *testing.T, path, src string) *graph.FileResult {
	t.Helper()
	res, err := NewGoParser().Parse(context.Background(), path, []byte(src))
	require.NoError(t, err)
	return res
}

func TestGoModuleFromPackageDirectory(t *testing.T) {
	res := parseGo(t, "internal/store/db.go", "package store\n")
	assert.Equal(t, "internal.store", res.Module)
}

func TestGoModuleAtRootFallsBackToPackageClause(t *testing.T) {
	res := parseGo(t, "main.go", "package main\n")
	assert.Equal(t, "main", res.Module)
}

func TestGoSamePackageFilesShareModule(t *testing.T) {
	a := parseGo(t, "pkg/a.go", "package pkg\n")
	b := parseGo(t, "pkg/b.go", "package pkg\n")
	assert.Equal(t, a.Module, b.Module)
}

func TestGoTypesAndFunctions(t *testing.T) {
	src := `package store

type Store struct {
	path string
}

type Codec interface {
	Encode() error
}

type alias = int

func Open(path string) (*Store, error) {
	validate(path)
	return &Store{path: path}, nil
}

func (s *Store) Close() error {
	return s.flush()
}
`
	res := parseGo(t, "internal/store/db.go", src)

	byQName := make(map[string]graph.Entity)
	for _, e := range res.Entities {
		byQName[e.QualifiedName] = e
	}

	store, ok := byQName["internal.store.Store"]
	require.True(t, ok)
	assert.Equal(t, graph.NodeKindClass, store.Kind)

	codec, ok := byQName["internal.store.Codec"]
	require.True(t, ok)
	assert.Equal(t, graph.NodeKindClass, codec.Kind)

	// Type aliases to non-struct, non-interface types are not entities.
	_, ok = byQName["internal.store.alias"]
	assert.False(t, ok)

	open, ok := byQName["internal.store.Open"]
	require.True(t, ok)
	assert.Equal(t, graph.NodeKindFunction, open.Kind)
	assert.Equal(t, "internal.store", open.Parent)

	// Methods qualify under the receiver type.
	closeM, ok := byQName["internal.store.Store.Close"]
	require.True(t, ok)
	assert.Equal(t, "internal.store.Store", closeM.Parent)
}

func TestGoCallMentions(t *testing.T) {
	src := `package app

func Run() {
	helper()
	log.Printf("hi")
}
`
	res := parseGo(t, "app/run.go", src)

	targets := make(map[string]string)
	for _, m := range res.Mentions {
		if m.Kind == graph.EdgeKindCalls {
			targets[m.Target] = m.Source
		}
	}
	assert.Equal(t, "app.Run", targets["helper"])
	assert.Equal(t, "app.Run", targets["log.Printf"])
}

func TestGoImportMentions(t *testing.T) {
	src := `package app

import (
	"fmt"
	"net/http"

	corda "github.com/spf13/cobra"
)
`
	res := parseGo(t, "app/run.go", src)

	targets := make(map[string]bool)
	for _, m := range res.Mentions {
		if m.Kind == graph.EdgeKindImports {
			targets[m.Target] = true
		}
	}
	assert.True(t, targets["fmt"])
	assert.True(t, targets["net.http"])
	assert.True(t, targets["github.com.spf13.cobra"])
}

func TestGoGenericReceiver(t *testing.T) {
	src := `package box

type Box[T any] struct {
	v T
}

func (b *Box[T]) Get() T {
	return b.v
}
`
	res := parseGo(t, "box/box.go", src)

	var found bool
	for _, e := range res.Entities {
		if e.QualifiedName == "box.Box.Get" {
			found = true
			assert.Equal(t, "box.Box", e.Parent)
		}
	}
	assert.True(t, found)
}

func TestGoSyntaxErrorRejectsFile(t *testing.T) {
	_, err := NewGoParser().Parse(context.Background(), "bad.go", []byte("package app\n\nfunc {{{\n"))
	require.ErrorIs(t, err, ErrSyntax)
}
