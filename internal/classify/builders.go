package classify

import (
	"errors"
	"fmt"
	"sort"

	"terrain/internal/metrics"
	"terrain/internal/model"
)

// ErrNoShapeData reports a builder invoked without the data its shape
// requires. The assembler catches it and substitutes the exploratory payload.
var ErrNoShapeData = errors.New("shape builder: no backing data")

// BuildInput carries everything the shape builders read
type BuildInput struct {
	Claims         []model.EnrichedClaim
	Edges          []model.Edge
	Graph          model.GraphAnalysis
	Patterns       []model.SecondaryPattern
	Conflicts      []model.EnrichedConflict
	Clusters       []model.ConflictCluster
	Tradeoffs      []model.TradeoffPair
	Cascades       []model.CascadeRisk
	Conditionals   []model.Conditional
	Classification Classification
}

func (in BuildInput) hasPattern(t model.PatternType) bool {
	for _, p := range in.Patterns {
		if p.Type == t {
			return true
		}
	}
	return false
}

// BuildShapeData constructs the detail payload for the classified shape.
//
// Two fallback rules fire here: a forked classification with no enriched
// conflicts or clusters, and a parallel classification over a single
// connected component. Both keep the primary label but build the convergent
// payload, and the mismatch is returned as a ClassificationOverride so
// downstream consumers can see the label and the data disagree.
func BuildShapeData(in BuildInput) (model.ShapeData, *model.ClassificationOverride, error) {
	switch in.Classification.Primary {
	case model.ShapeConvergent:
		data, err := buildConvergent(in)
		return data, nil, err

	case model.ShapeForked:
		if len(in.Conflicts) == 0 && len(in.Clusters) == 0 {
			data, err := buildConvergent(in)
			return data, &model.ClassificationOverride{
				Reason:          "forked classification has no enriched conflicts or conflict clusters",
				OriginalPrimary: model.ShapeForked,
			}, err
		}
		data, err := buildContested(in)
		return data, nil, err

	case model.ShapeConstrained:
		data, err := buildTradeoff(in)
		return data, nil, err

	case model.ShapeParallel:
		if in.Graph.ComponentCount < 2 {
			data, err := buildConvergent(in)
			return data, &model.ClassificationOverride{
				Reason:          "parallel classification over a single connected component",
				OriginalPrimary: model.ShapeParallel,
			}, err
		}
		data, err := buildDimensional(in)
		return data, nil, err

	case model.ShapeSparse:
		data, err := buildSparse(in)
		return data, nil, err

	default:
		return nil, nil, fmt.Errorf("shape builder: unknown primary %q", in.Classification.Primary)
	}
}

// BuildExploratory is the assembler's substitute payload when a shape
// builder fails: it never errors and works on any input.
func BuildExploratory(in BuildInput) model.ShapeData {
	return buildExploratory(in)
}

// buildConvergent sub-dispatches on the secondary patterns: a keystone
// landscape renders differently from a chain, which renders differently
// from plain settlement.
func buildConvergent(in BuildInput) (model.ShapeData, error) {
	if in.hasPattern(model.PatternKeystone) {
		return buildKeystone(in)
	}
	if in.hasPattern(model.PatternChain) {
		return buildLinear(in)
	}
	return buildSettled(in)
}

func buildSettled(in BuildInput) (model.ShapeData, error) {
	var anchor *model.EnrichedClaim
	var peaks []string
	peakSet := map[string]bool{}
	for i, c := range in.Claims {
		if !metrics.IsPeak(c) {
			continue
		}
		peaks = append(peaks, c.ID)
		peakSet[c.ID] = true
		if anchor == nil || c.SupportRatio > anchor.SupportRatio {
			anchor = &in.Claims[i]
		}
	}
	if anchor == nil {
		return nil, fmt.Errorf("settled: %w", ErrNoShapeData)
	}

	var floor []model.FloorClaim
	for _, c := range in.Claims {
		if !metrics.IsFloor(c) {
			continue
		}
		floor = append(floor, model.FloorClaim{
			ID:           c.ID,
			Label:        c.Label,
			SupportRatio: c.SupportRatio,
			IsContested:  c.IsContested,
		})
	}

	var reinforcements []model.Edge
	for _, e := range in.Edges {
		if (e.Type == model.EdgeSupports || e.Type == model.EdgePrerequisite) &&
			peakSet[e.From] && peakSet[e.To] && e.From != e.To {
			reinforcements = append(reinforcements, e)
		}
	}

	return model.SettledData{
		Kind:             model.DataSettled,
		Anchor:           anchor.ID,
		Peaks:            peaks,
		FloorAssumptions: floor,
		Reinforcements:   reinforcements,
	}, nil
}

func buildLinear(in BuildInput) (model.ShapeData, error) {
	if len(in.Graph.LongestChain) < 2 {
		return nil, fmt.Errorf("linear: %w", ErrNoShapeData)
	}
	byID := map[string]model.EnrichedClaim{}
	for _, c := range in.Claims {
		byID[c.ID] = c
	}
	cascadeSize := map[string]int{}
	for _, risk := range in.Cascades {
		cascadeSize[risk.ClaimID] = len(risk.Dependents)
	}

	steps := make([]model.ChainStep, 0, len(in.Graph.LongestChain))
	var weak []string
	for _, id := range in.Graph.LongestChain {
		c := byID[id]
		step := model.ChainStep{
			ClaimID:     id,
			Supporters:  len(c.Supporters),
			Weak:        len(c.Supporters) == 1,
			CascadeSize: cascadeSize[id],
		}
		if step.Weak {
			weak = append(weak, id)
		}
		steps = append(steps, step)
	}
	return model.LinearData{
		Kind:      model.DataLinear,
		Steps:     steps,
		WeakLinks: weak,
	}, nil
}

func buildKeystone(in BuildInput) (model.ShapeData, error) {
	hub := in.Graph.HubClaim
	if hub == "" {
		return nil, fmt.Errorf("keystone: %w", ErrNoShapeData)
	}
	var dependents []string
	seen := map[string]bool{}
	for _, e := range in.Edges {
		if e.From != hub || e.To == hub {
			continue
		}
		if e.Type != model.EdgePrerequisite && e.Type != model.EdgeSupports {
			continue
		}
		if !seen[e.To] {
			seen[e.To] = true
			dependents = append(dependents, e.To)
		}
	}

	ratio := 0.0
	for _, c := range in.Claims {
		if c.ID == hub {
			ratio = c.SupportRatio
			break
		}
	}
	depth := 0
	for _, risk := range in.Cascades {
		if risk.ClaimID == hub {
			depth = risk.Depth
			break
		}
	}
	return model.KeystoneData{
		Kind:         model.DataKeystone,
		Keystone:     hub,
		SupportRatio: ratio,
		Dependents:   dependents,
		CascadeDepth: depth,
	}, nil
}

func buildContested(in BuildInput) (model.ShapeData, error) {
	if len(in.Conflicts) == 0 {
		return nil, fmt.Errorf("contested: %w", ErrNoShapeData)
	}
	axes := make([]model.EnrichedConflict, len(in.Conflicts))
	copy(axes, in.Conflicts)
	sort.SliceStable(axes, func(a, b int) bool {
		return axes[a].Significance > axes[b].Significance
	})
	central := axes[0]
	return model.ContestedData{
		Kind:            model.DataContested,
		Axes:            axes,
		CentralConflict: &central,
		Clusters:        in.Clusters,
	}, nil
}

func buildTradeoff(in BuildInput) (model.ShapeData, error) {
	if len(in.Tradeoffs) == 0 {
		return nil, fmt.Errorf("tradeoff: %w", ErrNoShapeData)
	}
	return model.TradeoffData{
		Kind:  model.DataTradeoff,
		Pairs: in.Tradeoffs,
	}, nil
}

// buildDimensional turns each component that carries a peak, plus every
// multi-node component, into one dimension.
func buildDimensional(in BuildInput) (model.ShapeData, error) {
	byID := map[string]model.EnrichedClaim{}
	for _, c := range in.Claims {
		byID[c.ID] = c
	}
	var dimensions []model.DimensionCluster
	for _, comp := range in.Graph.Components {
		if len(comp) < 2 && !metrics.IsPeak(byID[comp[0]]) {
			continue
		}
		dimensions = append(dimensions, model.DimensionCluster{
			Lead:    componentLead(comp, byID),
			Members: comp,
		})
	}
	if len(dimensions) == 0 {
		return nil, fmt.Errorf("dimensional: %w", ErrNoShapeData)
	}
	return model.DimensionalData{
		Kind:       model.DataDimensional,
		Dimensions: dimensions,
	}, nil
}

func componentLead(comp []string, byID map[string]model.EnrichedClaim) string {
	lead := comp[0]
	for _, id := range comp[1:] {
		if byID[id].SupportRatio > byID[lead].SupportRatio {
			lead = id
		}
	}
	return lead
}

// buildSparse emits the contextual payload when conditionals dominate,
// otherwise the exploratory one.
func buildSparse(in BuildInput) (model.ShapeData, error) {
	if in.hasPattern(model.PatternConditional) {
		return buildContextual(in), nil
	}
	return buildExploratory(in), nil
}

func buildContextual(in BuildInput) model.ShapeData {
	adj := prereqAdjacency(in.Claims, in.Edges)
	seen := map[string]bool{}
	var branches []model.ConditionalBranch
	total := 0

	add := func(id, condition string, listed []string) {
		if seen[id] {
			return
		}
		seen[id] = true
		deps := listed
		if len(deps) == 0 {
			deps, _ = cascadeFrom(id, adj)
		}
		branches = append(branches, model.ConditionalBranch{
			ClaimID:   id,
			Condition: condition,
			Branches:  deps,
		})
		total += len(deps)
	}

	for _, cond := range in.Conditionals {
		add(cond.ClaimID, cond.Condition, cond.Branches)
	}
	for _, c := range in.Claims {
		if c.IsConditional {
			add(c.ID, "", nil)
		}
	}
	return model.ContextualData{
		Kind:         model.DataContextual,
		Conditionals: branches,
		BranchCount:  total,
	}
}

func buildExploratory(in BuildInput) model.ShapeData {
	byID := map[string]model.EnrichedClaim{}
	hills := 0
	for _, c := range in.Claims {
		byID[c.ID] = c
		if metrics.IsHill(c) {
			hills++
		}
	}

	var clusters []model.DimensionCluster
	for _, comp := range in.Graph.Components {
		if len(comp) < 2 {
			continue
		}
		clusters = append(clusters, model.DimensionCluster{
			Lead:    componentLead(comp, byID),
			Members: comp,
		})
	}

	var outer []string
	for _, c := range in.Claims {
		if c.IsIsolated || len(c.Supporters) <= 1 {
			outer = append(outer, c.ID)
		}
	}

	density := 0.0
	if len(in.Claims) > 0 {
		density = float64(hills) / float64(len(in.Claims))
	}
	return model.ExploratoryData{
		Kind:        model.DataExploratory,
		Clusters:    clusters,
		OuterClaims: outer,
		HillDensity: density,
	}
}
