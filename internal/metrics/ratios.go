package metrics

import "terrain/internal/model"

// ComputeCoreRatios returns the five landscape-level aggregates. These are
// plain ratios over counts, reported for observability; no classification
// or flag reads them.
func ComputeCoreRatios(claims []model.EnrichedClaim, edges []model.Edge, graph model.GraphAnalysis) model.CoreRatios {
	var r model.CoreRatios
	if len(claims) == 0 {
		return r
	}

	peaks := 0
	for _, c := range claims {
		if IsPeak(c) {
			peaks++
		}
	}
	r.Concentration = float64(peaks) / float64(len(claims))
	r.Fragmentation = float64(graph.ComponentCount) / float64(len(claims))
	r.Depth = float64(len(graph.LongestChain)) / float64(len(claims))

	if len(edges) > 0 {
		supports, tension := 0, 0
		for _, e := range edges {
			switch e.Type {
			case model.EdgeSupports:
				supports++
			case model.EdgeConflicts, model.EdgeTradeoff:
				tension++
			}
		}
		r.Alignment = float64(supports) / float64(len(edges))
		r.Tension = float64(tension) / float64(len(edges))
	}
	return r
}
