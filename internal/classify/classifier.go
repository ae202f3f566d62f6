// Package classify assigns the landscape its primary shape, detects
// secondary patterns, and builds the shape-specific detail payloads.
package classify

import (
	"fmt"

	"terrain/internal/metrics"
	"terrain/internal/model"
)

// Confidence levels for each classification branch. Fixed by design so the
// scores compare across landscapes; only the convergent and sparse branches
// scale with the evidence behind them.
const (
	forkedConfidence      = 0.85
	constrainedConfidence = 0.8
	reinforcedConfidence  = 0.75
	parallelConfidence    = 0.75
	defaultConfidence     = 0.6

	// Single-peak confidence scales with the peak's support ratio:
	// 0.55 + 0.35*ratio, so a unanimous peak lands at 0.9.
	convergentBase  = 0.55
	convergentScale = 0.35

	// Sparse confidence grows with hill density: 0.7 + 0.2*density,
	// capped at 0.9.
	sparseBase  = 0.7
	sparseScale = 0.2
	sparseCap   = 0.9
)

// Classification is the primary classifier's verdict before shape data is
// built.
type Classification struct {
	Primary          model.ShapeClass
	Confidence       float64
	Peaks            []string
	PeakRelationship string
	Evidence         []string
}

// ClassifyPrimary applies the ordered peak/valley decision procedure.
// First match wins; every branch records human-readable evidence.
func ClassifyPrimary(claims []model.EnrichedClaim, edges []model.Edge) Classification {
	var peaks, hills, floors []model.EnrichedClaim
	for _, c := range claims {
		switch {
		case metrics.IsPeak(c):
			peaks = append(peaks, c)
		case metrics.IsHill(c):
			hills = append(hills, c)
		default:
			floors = append(floors, c)
		}
	}

	peakIDs := make([]string, len(peaks))
	peakSet := map[string]bool{}
	for i, p := range peaks {
		peakIDs[i] = p.ID
		peakSet[p.ID] = true
	}

	// 1. No peak clears the bar: the landscape is sparse.
	if len(peaks) == 0 {
		density := 0.0
		if len(claims) > 0 {
			density = float64(len(hills)) / float64(len(claims))
		}
		confidence := sparseBase + sparseScale*density
		if confidence > sparseCap {
			confidence = sparseCap
		}
		return Classification{
			Primary:    model.ShapeSparse,
			Confidence: confidence,
			Peaks:      peakIDs,
			Evidence: []string{
				fmt.Sprintf("no claim exceeds the %.0f%% peak threshold with %d+ supporters", metrics.PeakSupportThreshold*100, metrics.PeakMinSupporters),
				fmt.Sprintf("%d hill and %d floor claims out of %d", len(hills), len(floors), len(claims)),
			},
		}
	}

	// 2. A single peak means consensus around it.
	if len(peaks) == 1 {
		return Classification{
			Primary:          model.ShapeConvergent,
			Confidence:       convergentBase + convergentScale*peaks[0].SupportRatio,
			Peaks:            peakIDs,
			PeakRelationship: "single",
			Evidence: []string{
				fmt.Sprintf("single peak %q at %.0f%% support", peaks[0].ID, peaks[0].SupportRatio*100),
			},
		}
	}

	// With multiple peaks, the edge types between them decide.
	conflicts := peakToPeakEdges(edges, peakSet, model.EdgeConflicts)
	tradeoffs := peakToPeakEdges(edges, peakSet, model.EdgeTradeoff)
	links := append(peakToPeakEdges(edges, peakSet, model.EdgeSupports),
		peakToPeakEdges(edges, peakSet, model.EdgePrerequisite)...)

	// 3. Conflicting peaks: the landscape forks.
	if len(conflicts) > 0 {
		return Classification{
			Primary:          model.ShapeForked,
			Confidence:       forkedConfidence,
			Peaks:            peakIDs,
			PeakRelationship: "conflicting",
			Evidence: []string{
				fmt.Sprintf("%d peaks with %d conflict edge(s) between them", len(peaks), len(conflicts)),
				fmt.Sprintf("first axis: %q vs %q", conflicts[0].From, conflicts[0].To),
			},
		}
	}

	// 4. Peaks bound by a tradeoff: constrained.
	if len(tradeoffs) > 0 {
		return Classification{
			Primary:          model.ShapeConstrained,
			Confidence:       constrainedConfidence,
			Peaks:            peakIDs,
			PeakRelationship: "tradeoff",
			Evidence: []string{
				fmt.Sprintf("%d peaks bound by %d tradeoff edge(s), no peak conflicts", len(peaks), len(tradeoffs)),
			},
		}
	}

	// 5. Peaks reinforcing each other: still convergent.
	if len(links) > 0 {
		return Classification{
			Primary:          model.ShapeConvergent,
			Confidence:       reinforcedConfidence,
			Peaks:            peakIDs,
			PeakRelationship: "reinforcing",
			Evidence: []string{
				fmt.Sprintf("%d peaks linked by %d support/prerequisite edge(s)", len(peaks), len(links)),
			},
		}
	}

	// 6. Multiple peaks, no edges between any pair: parallel dimensions.
	if len(peaks) >= 2 {
		return Classification{
			Primary:          model.ShapeParallel,
			Confidence:       parallelConfidence,
			Peaks:            peakIDs,
			PeakRelationship: "independent",
			Evidence: []string{
				fmt.Sprintf("%d peaks with no edges between any pair", len(peaks)),
			},
		}
	}

	// 7. Nothing above matched; default to convergent at reduced confidence.
	return Classification{
		Primary:          model.ShapeConvergent,
		Confidence:       defaultConfidence,
		Peaks:            peakIDs,
		PeakRelationship: "mixed",
		Evidence: []string{
			fmt.Sprintf("%d peaks matched no structural rule; defaulting", len(peaks)),
		},
	}
}

func peakToPeakEdges(edges []model.Edge, peakSet map[string]bool, t model.EdgeType) []model.Edge {
	var out []model.Edge
	for _, e := range edges {
		if e.Type == t && peakSet[e.From] && peakSet[e.To] && e.From != e.To {
			out = append(out, e)
		}
	}
	return out
}
