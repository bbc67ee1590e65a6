// Package source enumerates the files of one build. The provider walks the
// analysis root once, applies the configured ignore rules, and yields
// (path, content) pairs for every file some registered parser claims.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// File is one enumerated source file. Path is relative to the analysis root
// with forward slashes.
type File struct {
	Path    string
	Content []byte
}

// Options configure the walk.
type Options struct {
	// Extensions selects files by lowercase extension (with dot).
	Extensions []string
	// IgnoredDirectories are skipped by base name at any depth.
	IgnoredDirectories []string
	// IgnoredFiles are skipped by exact base name.
	IgnoredFiles []string
	// UseGitignore honors a .gitignore file at the root, if present.
	UseGitignore bool
}

// Provider enumerates source files under a root directory.
type Provider struct {
	root        string
	exts        map[string]bool
	ignoreDirs  map[string]bool
	ignoreFiles map[string]bool
	matcher     *ignore.GitIgnore
}

// NewProvider creates a provider for the given root.
func NewProvider(root string, opts Options) (*Provider, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("analysis root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("analysis root %s is not a directory", root)
	}

	p := &Provider{
		root:        root,
		exts:        make(map[string]bool),
		ignoreDirs:  make(map[string]bool),
		ignoreFiles: make(map[string]bool),
	}
	for _, ext := range opts.Extensions {
		p.exts[strings.ToLower(ext)] = true
	}
	for _, d := range opts.IgnoredDirectories {
		p.ignoreDirs[d] = true
	}
	for _, f := range opts.IgnoredFiles {
		p.ignoreFiles[f] = true
	}
	if opts.UseGitignore {
		if m, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			p.matcher = m
		}
	}
	return p, nil
}

// Files walks the root and returns the selected files, sorted by path.
// The listing is consumed once per build; dotfiles and ignored entries are
// excluded.
func (p *Provider) Files() ([]File, error) {
	var files []File
	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == p.root {
				return nil
			}
			if strings.HasPrefix(name, ".") || p.ignoreDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || p.ignoreFiles[name] {
			return nil
		}
		if len(p.exts) > 0 && !p.exts[strings.ToLower(filepath.Ext(name))] {
			return nil
		}
		rel, err := filepath.Rel(p.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if p.matcher != nil && p.matcher.MatchesPath(rel) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		files = append(files, File{Path: rel, Content: content})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", p.root, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
