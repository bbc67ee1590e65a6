// Package analyzer orchestrates one full build: enumerate files, parse them
// in parallel, resolve the merged results into a graph, and persist the
// snapshot atomically. Every build is a complete rebuild from the current
// file set; there is no incremental path.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zheng/aurora/internal/graph"
	"github.com/zheng/aurora/internal/parser"
	"github.com/zheng/aurora/internal/source"
	"github.com/zheng/aurora/internal/storage"
)

// Config holds the pipeline knobs.
type Config struct {
	// StubPolicy decides the fate of unresolved mentions.
	StubPolicy graph.StubPolicy
	// Concurrency bounds the parse worker pool; parsing touches no shared
	// mutable state, so files parse independently up to this limit.
	Concurrency int
	// GraphPath is where the snapshot is persisted; empty skips persistence.
	GraphPath string
}

// Result is what a successful build returns: a usable graph plus the
// aggregated diagnostics, never a silently empty or corrupt graph.
type Result struct {
	Graph       *graph.Graph
	Diagnostics *graph.Diagnostics
	FileCount   int
	Duration    time.Duration
}

// Pipeline runs builds. Safe to reuse across builds; each Run is
// independent.
type Pipeline struct {
	provider *source.Provider
	registry *parser.Registry
	cfg      Config
	logger   *slog.Logger
}

// NewPipeline wires a pipeline from its collaborators.
func NewPipeline(provider *source.Provider, registry *parser.Registry, cfg Config, logger *slog.Logger) *Pipeline {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{provider: provider, registry: registry, cfg: cfg, logger: logger}
}

// Run executes one build. Per-file parse failures are recorded as
// diagnostics and the build continues; only whole-build failures (context
// expiry, zero parsable files, persistence errors) propagate. On failure
// nothing is persisted and any previous snapshot stays intact.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	files, err := p.provider.Files()
	if err != nil {
		return nil, fmt.Errorf("enumerate sources: %w", err)
	}
	p.logger.Info("parsing sources", slog.Int("files", len(files)))

	// Parsing is embarrassingly parallel; each slot is written by exactly
	// one goroutine.
	type slot struct {
		result *graph.FileResult
		file   string
		errMsg string
	}
	slots := make([]slot, len(files))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.cfg.Concurrency)
	for i, f := range files {
		i, f := i, f
		eg.Go(func() error {
			pr, ok := p.registry.ForFile(f.Path)
			if !ok {
				return nil
			}
			res, err := pr.Parse(egCtx, f.Path, f.Content)
			if err != nil {
				if egCtx.Err() != nil {
					return egCtx.Err()
				}
				slots[i] = slot{file: f.Path, errMsg: err.Error()}
				return nil
			}
			slots[i] = slot{result: res}
			return nil
		})
	}
	// Barrier: resolution needs the complete set of qualified names, so it
	// cannot start until every file has parsed or failed.
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("parse phase: %w", err)
	}

	builder := graph.NewBuilder(p.cfg.StubPolicy)
	for _, s := range slots {
		switch {
		case s.result != nil:
			builder.AddFile(s.result)
		case s.file != "":
			p.logger.Warn("file failed to parse", slog.String("file", s.file), slog.String("error", s.errMsg))
			builder.AddParseError(s.file, s.errMsg)
		}
	}

	g, diags, err := builder.Build()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build timed out before persist: %w", err)
	}
	if p.cfg.GraphPath != "" {
		if err := storage.SaveGraph(p.cfg.GraphPath, g); err != nil {
			return nil, err
		}
	}

	res := &Result{
		Graph:       g,
		Diagnostics: diags,
		FileCount:   len(files),
		Duration:    time.Since(start),
	}
	p.logger.Info("build complete",
		slog.Int("nodes", g.NodeCount()),
		slog.Int("edges", g.EdgeCount()),
		slog.Int("parse_errors", len(diags.ParseErrors)),
		slog.Int("unresolved", len(diags.Unresolved)),
		slog.Duration("duration", res.Duration))
	return res, nil
}
