// Package pipeline runs the analysis engine over mapper artifacts: load,
// memoize, analyze, render.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"terrain/internal/cache"
	"terrain/internal/engine"
	"terrain/internal/model"
)

// Pipeline orchestrates the complete analysis of an artifact
type Pipeline struct {
	engine   *engine.Engine
	cache    cache.Cache
	renderer *Renderer
	config   *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}
	return &Pipeline{
		engine:   engine.New(),
		cache:    c,
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		config:   cfg,
	}
}

// LoadArtifact reads and decodes a mapper artifact. Missing collections
// decode to empty; only malformed JSON is an error.
func LoadArtifact(path string) (*model.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var artifact model.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &artifact, nil
}

// AnalyzeFile loads an artifact from disk and analyzes it
func (p *Pipeline) AnalyzeFile(path string) (*model.StructuralAnalysis, error) {
	artifact, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	return p.Analyze(artifact)
}

// Analyze runs the engine, memoizing by artifact content. The engine is
// deterministic, so a cache hit is exact.
func (p *Pipeline) Analyze(artifact *model.Artifact) (*model.StructuralAnalysis, error) {
	if p.cache == nil {
		return p.engine.Analyze(*artifact), nil
	}

	canonical, err := json.Marshal(artifact)
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	key := cache.Key(canonical)
	if cached, found := p.cache.Get(key); found {
		var analysis model.StructuralAnalysis
		if err := json.Unmarshal(cached, &analysis); err == nil {
			return &analysis, nil
		}
		// Corrupt entry: fall through and recompute.
		_ = p.cache.Delete(key)
	}

	analysis := p.engine.Analyze(*artifact)
	if encoded, err := json.Marshal(analysis); err == nil {
		_ = p.cache.Set(key, encoded, p.config.Cache.TTL)
	}
	return analysis, nil
}

// WriteJSON writes the analysis as indented JSON
func (p *Pipeline) WriteJSON(analysis *model.StructuralAnalysis, path string) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteMarkdown renders the analysis report to a Markdown file
func (p *Pipeline) WriteMarkdown(analysis *model.StructuralAnalysis, path string) error {
	if err := os.WriteFile(path, []byte(p.renderer.Render(analysis)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
