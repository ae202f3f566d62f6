package classify

import (
	"math"
	"testing"

	"terrain/internal/model"
)

// enriched builds a claim with a support ratio derived from its supporter
// count over modelCount, the way the engine does.
func enriched(id string, supporters, modelCount int) model.EnrichedClaim {
	models := make([]int, supporters)
	for i := range models {
		models[i] = i
	}
	return model.EnrichedClaim{
		Claim:        model.Claim{ID: id, Supporters: models},
		SupportRatio: float64(supporters) / float64(modelCount),
	}
}

func TestClassifyPrimary_SinglePeakConvergent(t *testing.T) {
	claims := []model.EnrichedClaim{enriched("c1", 3, 3)}

	got := ClassifyPrimary(claims, nil)
	if got.Primary != model.ShapeConvergent {
		t.Errorf("Expected convergent, got %s", got.Primary)
	}
	if math.Abs(got.Confidence-0.9) > 1e-9 {
		t.Errorf("Expected confidence 0.9 for a unanimous peak, got %f", got.Confidence)
	}
	if got.PeakRelationship != "single" {
		t.Errorf("Expected single peak relationship, got %q", got.PeakRelationship)
	}
	if len(got.Peaks) != 1 || got.Peaks[0] != "c1" {
		t.Errorf("Expected peaks [c1], got %v", got.Peaks)
	}
	if len(got.Evidence) == 0 {
		t.Error("Expected evidence for the verdict")
	}
}

func TestClassifyPrimary_ConflictingPeaksForked(t *testing.T) {
	claims := []model.EnrichedClaim{
		enriched("c1", 2, 3),
		enriched("c2", 2, 3),
	}
	edges := []model.Edge{{From: "c1", To: "c2", Type: model.EdgeConflicts}}

	got := ClassifyPrimary(claims, edges)
	if got.Primary != model.ShapeForked {
		t.Errorf("Expected forked, got %s", got.Primary)
	}
	if got.Confidence != 0.85 {
		t.Errorf("Expected confidence 0.85, got %f", got.Confidence)
	}
	if got.PeakRelationship != "conflicting" {
		t.Errorf("Expected conflicting relationship, got %q", got.PeakRelationship)
	}
}

func TestClassifyPrimary_TradeoffPeaksConstrained(t *testing.T) {
	claims := []model.EnrichedClaim{
		enriched("c1", 2, 3),
		enriched("c2", 2, 3),
	}
	edges := []model.Edge{{From: "c1", To: "c2", Type: model.EdgeTradeoff}}

	got := ClassifyPrimary(claims, edges)
	if got.Primary != model.ShapeConstrained {
		t.Errorf("Expected constrained, got %s", got.Primary)
	}
	if got.Confidence != 0.8 {
		t.Errorf("Expected confidence 0.8, got %f", got.Confidence)
	}
}

func TestClassifyPrimary_ConflictBeatsTradeoff(t *testing.T) {
	claims := []model.EnrichedClaim{
		enriched("c1", 2, 3),
		enriched("c2", 2, 3),
	}
	edges := []model.Edge{
		{From: "c1", To: "c2", Type: model.EdgeTradeoff},
		{From: "c2", To: "c1", Type: model.EdgeConflicts},
	}

	got := ClassifyPrimary(claims, edges)
	if got.Primary != model.ShapeForked {
		t.Errorf("Conflict must outrank tradeoff, got %s", got.Primary)
	}
}

func TestClassifyPrimary_LinkedPeaksConvergent(t *testing.T) {
	claims := []model.EnrichedClaim{
		enriched("c1", 3, 3),
		enriched("c2", 2, 3),
	}
	edges := []model.Edge{{From: "c1", To: "c2", Type: model.EdgeSupports}}

	got := ClassifyPrimary(claims, edges)
	if got.Primary != model.ShapeConvergent {
		t.Errorf("Expected convergent for reinforcing peaks, got %s", got.Primary)
	}
	if got.Confidence != 0.75 {
		t.Errorf("Expected confidence 0.75, got %f", got.Confidence)
	}
	if got.PeakRelationship != "reinforcing" {
		t.Errorf("Expected reinforcing relationship, got %q", got.PeakRelationship)
	}
}

func TestClassifyPrimary_IndependentPeaksParallel(t *testing.T) {
	claims := []model.EnrichedClaim{
		enriched("c1", 2, 3),
		enriched("c2", 2, 3),
		enriched("c3", 2, 3),
	}

	got := ClassifyPrimary(claims, nil)
	if got.Primary != model.ShapeParallel {
		t.Errorf("Expected parallel, got %s", got.Primary)
	}
	if got.Confidence != 0.75 {
		t.Errorf("Expected confidence 0.75, got %f", got.Confidence)
	}
	if len(got.Peaks) != 3 {
		t.Errorf("Expected 3 peaks, got %v", got.Peaks)
	}
}

func TestClassifyPrimary_NoPeaksSparse(t *testing.T) {
	claims := []model.EnrichedClaim{enriched("c1", 1, 4)}

	got := ClassifyPrimary(claims, nil)
	if got.Primary != model.ShapeSparse {
		t.Errorf("Expected sparse, got %s", got.Primary)
	}
	// No hills: base confidence.
	if math.Abs(got.Confidence-0.7) > 1e-9 {
		t.Errorf("Expected confidence 0.7, got %f", got.Confidence)
	}
	if len(got.Peaks) != 0 {
		t.Errorf("Expected no peaks, got %v", got.Peaks)
	}
}

func TestClassifyPrimary_SparseConfidenceScalesWithHills(t *testing.T) {
	// Two hill claims out of two: density 1.0, confidence capped.
	claims := []model.EnrichedClaim{
		enriched("c1", 1, 3),
		enriched("c2", 1, 3),
	}
	for i := range claims {
		claims[i].SupportRatio = 0.4
	}

	got := ClassifyPrimary(claims, nil)
	if got.Primary != model.ShapeSparse {
		t.Fatalf("Expected sparse, got %s", got.Primary)
	}
	if math.Abs(got.Confidence-0.9) > 1e-9 {
		t.Errorf("Expected capped confidence 0.9, got %f", got.Confidence)
	}
}

func TestClassifyPrimary_SingleSupporterIsNotAPeak(t *testing.T) {
	// 100% ratio but one supporter: fails the two-supporter floor.
	claims := []model.EnrichedClaim{enriched("c1", 1, 1)}

	got := ClassifyPrimary(claims, nil)
	if got.Primary != model.ShapeSparse {
		t.Errorf("A single supporter must not make a peak, got %s", got.Primary)
	}
}

func TestClassifyPrimary_EmptyLandscape(t *testing.T) {
	got := ClassifyPrimary(nil, nil)
	if got.Primary != model.ShapeSparse {
		t.Errorf("Expected sparse for an empty landscape, got %s", got.Primary)
	}
}
