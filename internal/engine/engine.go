// Package engine assembles the full structural analysis: it sanitizes the
// artifact, enriches claims, analyzes the graph, classifies the landscape
// shape, and builds the shape payload. Analyze is total: every input
// produces a complete StructuralAnalysis, never an error.
package engine

import (
	"fmt"
	"os"

	"terrain/internal/classify"
	"terrain/internal/graph"
	"terrain/internal/metrics"
	"terrain/internal/model"
)

// Engine runs structural analyses. It holds no mutable state between
// invocations and is safe to share across goroutines.
type Engine struct {
	logf func(format string, args ...any)
}

// Option configures an Engine
type Option func(*Engine)

// WithLogf replaces the warning sink (default: stderr). Builder failures
// and classification overrides are reported through it.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(e *Engine) { e.logf = logf }
}

// New creates an engine
func New(opts ...Option) *Engine {
	e := &Engine{
		logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ComputeStructuralAnalysis runs a default engine over the artifact
func ComputeStructuralAnalysis(artifact model.Artifact) *model.StructuralAnalysis {
	return New().Analyze(artifact)
}

// Analyze classifies the decision landscape in the artifact
func (e *Engine) Analyze(artifact model.Artifact) *model.StructuralAnalysis {
	claims, edges := sanitize(artifact.Semantic)
	conditionals := artifact.Semantic.Conditionals
	ghosts := artifact.Semantic.Ghosts

	modelCount := artifact.Landscape.ModelCount
	if modelCount < 1 {
		modelCount = 1
	}

	// Per-claim ratios first, then the topology-derived roles, then the
	// leverage composite again: role weight is part of leverage, and the
	// computed role is the one that counts.
	enriched := make([]model.EnrichedClaim, len(claims))
	for i, c := range claims {
		enriched[i] = metrics.ComputeClaimRatios(c, edges, modelCount)
	}
	metrics.ComputeSupportSkew(enriched)
	enriched = classify.ApplyComputedRoles(enriched, edges, conditionals)
	for i := range enriched {
		metrics.RecomputeLeverage(&enriched[i], edges)
	}

	graphAnalysis := graph.Analyze(claims, edges)
	cascades := classify.DetectCascadeRisks(enriched, edges)

	conditionalIDs := map[string]bool{}
	for _, cond := range conditionals {
		conditionalIDs[cond.ClaimID] = true
	}
	metrics.AssignPercentileFlags(enriched, edges, cascades, metrics.TopSupportCohort(enriched), conditionalIDs)

	conflicts := classify.DetectEnrichedConflicts(enriched, edges)
	clusters := classify.DetectConflictClusters(conflicts, enriched)
	tradeoffs := classify.DetectTradeoffs(enriched, edges)
	ratios := metrics.ComputeCoreRatios(enriched, edges, graphAnalysis)

	classification := classify.ClassifyPrimary(enriched, edges)
	patterns := classify.DetectPatterns(classify.PatternInput{
		Claims:       enriched,
		Edges:        edges,
		Graph:        graphAnalysis,
		Cascades:     cascades,
		Conflicts:    conflicts,
		Conditionals: conditionals,
	})

	buildInput := classify.BuildInput{
		Claims:         enriched,
		Edges:          edges,
		Graph:          graphAnalysis,
		Patterns:       patterns,
		Conflicts:      conflicts,
		Clusters:       clusters,
		Tradeoffs:      tradeoffs,
		Cascades:       cascades,
		Conditionals:   conditionals,
		Classification: classification,
	}
	data, override, err := classify.BuildShapeData(buildInput)
	if err != nil {
		e.logf("shape builder for %q failed (%d claims, %d edges, %d ghosts): %v",
			classification.Primary, len(claims), len(edges), len(ghosts), err)
		data = classify.BuildExploratory(buildInput)
	}
	if override != nil {
		e.logf("classification override: %s (label %q kept)", override.Reason, override.OriginalPrimary)
	}

	result := &model.StructuralAnalysis{
		Edges:              edges,
		Landscape:          artifact.Landscape,
		ClaimsWithLeverage: enriched,
		Patterns: model.PatternSet{
			Conflicts: conflicts,
			Clusters:  clusters,
			Tradeoffs: tradeoffs,
			Cascades:  cascades,
		},
		GhostAnalysis: summarizeGhosts(ghosts, modelCount),
		Graph:         graphAnalysis,
		Ratios:        ratios,
		Shape: model.ProblemStructure{
			Primary:          classification.Primary,
			Confidence:       classification.Confidence,
			Patterns:         patterns,
			Peaks:            classification.Peaks,
			PeakRelationship: classification.PeakRelationship,
			Evidence:         classification.Evidence,
			Data:             data,
			Override:         override,
		},
	}
	hoistShapeFields(result)
	return result
}

// sanitize defaults malformed collections to empty, drops claims without
// IDs and duplicate IDs, dedupes supporter lists, and removes dangling,
// duplicate, and self-referencing edges. Inputs are never mutated.
func sanitize(semantic model.Semantic) ([]model.Claim, []model.Edge) {
	claims := make([]model.Claim, 0, len(semantic.Claims))
	known := map[string]bool{}
	for _, c := range semantic.Claims {
		if c.ID == "" || known[c.ID] {
			continue
		}
		known[c.ID] = true
		c.Supporters = dedupeInts(c.Supporters)
		claims = append(claims, c)
	}

	edges := make([]model.Edge, 0, len(semantic.Edges))
	seen := map[string]bool{}
	for _, e := range semantic.Edges {
		if !known[e.From] || !known[e.To] || e.From == e.To {
			continue
		}
		if seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		edges = append(edges, e)
	}
	return claims, edges
}

func dedupeInts(in []int) []int {
	seen := map[int]bool{}
	out := make([]int, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func summarizeGhosts(ghosts []model.Ghost, modelCount int) model.GhostAnalysis {
	touched := map[int]bool{}
	for _, g := range ghosts {
		for _, m := range g.Models {
			touched[m] = true
		}
	}
	return model.GhostAnalysis{
		Count:         len(ghosts),
		ModelsTouched: len(touched),
		Coverage:      float64(len(touched)) / float64(modelCount),
		Ghosts:        ghosts,
	}
}

// hoistShapeFields copies selected builder fields onto the top-level result
// for renderers that do not walk the shape payload.
func hoistShapeFields(result *model.StructuralAnalysis) {
	switch data := result.Shape.Data.(type) {
	case model.SettledData:
		result.FloorAssumptions = data.FloorAssumptions
	case model.ContestedData:
		result.CentralConflict = data.CentralConflict
	case model.TradeoffData:
		result.Tradeoffs = data.Pairs
	}
}
