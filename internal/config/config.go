// Package config loads the analysis configuration: a YAML file with
// documented defaults, overridable per field.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of a build and its queries.
type Config struct {
	Ingestion struct {
		// IgnoredDirectories are skipped entirely during the walk.
		IgnoredDirectories []string `yaml:"ignored_directories"`
		// IgnoredFiles are skipped by exact base name.
		IgnoredFiles []string `yaml:"ignored_files"`
		// UseGitignore honors a .gitignore at the analysis root.
		UseGitignore bool `yaml:"use_gitignore"`
	} `yaml:"ingestion"`

	Build struct {
		// Concurrency bounds the parse worker pool. Default: GOMAXPROCS.
		Concurrency int `yaml:"concurrency"`
		// StubPolicy is "stub" (keep unresolved references as external
		// stub nodes) or "drop". Default "stub".
		StubPolicy string `yaml:"stub_policy"`
		// TimeoutSeconds bounds a whole build; on timeout nothing is
		// persisted. Default 300.
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"build"`

	Impact struct {
		// FanInThreshold is the reverse in-degree at which a direct
		// dependent is classified high. Default 3.
		FanInThreshold int `yaml:"fan_in_threshold"`
		// MaxDepth bounds traversal; 0 means unbounded. Default 0.
		MaxDepth int `yaml:"max_depth"`
	} `yaml:"impact"`

	Diagram struct {
		// MaxNodes caps diagram size. Default 40.
		MaxNodes int `yaml:"max_nodes"`
	} `yaml:"diagram"`

	Paths struct {
		// Graph is the persisted snapshot location. Default "aurora_graph.json".
		Graph string `yaml:"graph"`
		// History is the conversation database. Default "aurora_history.db".
		History string `yaml:"history"`
	} `yaml:"paths"`
}

// Default returns the documented default configuration.
func Default() Config {
	var c Config
	c.Ingestion.IgnoredDirectories = []string{
		".git", "__pycache__", "node_modules", "vendor", ".venv", "venv",
	}
	c.Ingestion.UseGitignore = true
	c.Build.Concurrency = runtime.GOMAXPROCS(0)
	c.Build.StubPolicy = "stub"
	c.Build.TimeoutSeconds = 300
	c.Impact.FanInThreshold = 3
	c.Impact.MaxDepth = 0
	c.Diagram.MaxNodes = 40
	c.Paths.Graph = "aurora_graph.json"
	c.Paths.History = "aurora_history.db"
	return c
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; the defaults apply unchanged.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.Build.Concurrency <= 0 {
		c.Build.Concurrency = runtime.GOMAXPROCS(0)
	}
	return c, nil
}
