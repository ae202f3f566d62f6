package classify

import (
	"math"
	"reflect"
	"testing"

	"terrain/internal/model"
)

func TestDetectCascadeRisks(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "a"}},
		{Claim: model.Claim{ID: "b"}},
		{Claim: model.Claim{ID: "c"}},
	}
	edges := []model.Edge{
		{From: "a", To: "b", Type: model.EdgePrerequisite},
		{From: "b", To: "c", Type: model.EdgePrerequisite},
	}

	risks := DetectCascadeRisks(claims, edges)
	if len(risks) != 2 {
		t.Fatalf("Expected 2 cascade risks, got %d", len(risks))
	}
	if risks[0].ClaimID != "a" || !reflect.DeepEqual(risks[0].Dependents, []string{"b", "c"}) || risks[0].Depth != 2 {
		t.Errorf("Unexpected cascade from a: %+v", risks[0])
	}
	if risks[1].ClaimID != "b" || !reflect.DeepEqual(risks[1].Dependents, []string{"c"}) || risks[1].Depth != 1 {
		t.Errorf("Unexpected cascade from b: %+v", risks[1])
	}
}

func TestDetectCascadeRisks_CycleTerminates(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "a"}},
		{Claim: model.Claim{ID: "b"}},
	}
	edges := []model.Edge{
		{From: "a", To: "b", Type: model.EdgePrerequisite},
		{From: "b", To: "a", Type: model.EdgePrerequisite},
	}

	risks := DetectCascadeRisks(claims, edges)
	if len(risks) != 2 {
		t.Fatalf("Expected 2 cascade risks, got %d", len(risks))
	}
	for _, r := range risks {
		if len(r.Dependents) != 1 || r.Depth != 1 {
			t.Errorf("Cycle must not revisit the origin: %+v", r)
		}
	}
}

func TestDetectEnrichedConflicts(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "a", Label: "Alpha"}, SupportRatio: 0.8},
		{Claim: model.Claim{ID: "b", Label: "Beta"}, SupportRatio: 0.2},
	}
	edges := []model.Edge{{From: "a", To: "b", Type: model.EdgeConflicts}}

	conflicts := DetectEnrichedConflicts(claims, edges)
	if len(conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(conflicts))
	}
	c := conflicts[0]
	if c.Axis != "Alpha vs Beta" {
		t.Errorf("Expected axis from labels, got %q", c.Axis)
	}
	if math.Abs(c.CombinedSupport-1.0) > 1e-9 {
		t.Errorf("Expected combined support 1.0, got %f", c.CombinedSupport)
	}
	if c.Dynamics != model.DynamicsChallenge {
		t.Errorf("Expected challenge dynamics, got %s", c.Dynamics)
	}
	if math.Abs(c.Significance-1.0) > 1e-9 {
		t.Errorf("Expected significance 1.0 without a challenger, got %f", c.Significance)
	}
}

func TestDetectEnrichedConflicts_ChallengerBoost(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "a"}, SupportRatio: 0.6},
		{Claim: model.Claim{ID: "b"}, SupportRatio: 0.2, IsChallenger: true},
	}
	edges := []model.Edge{{From: "a", To: "b", Type: model.EdgeConflicts}}

	conflicts := DetectEnrichedConflicts(claims, edges)
	if len(conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(conflicts))
	}
	if math.Abs(conflicts[0].Significance-1.2) > 1e-9 {
		t.Errorf("Expected boosted significance 0.8*1.5=1.2, got %f", conflicts[0].Significance)
	}
}

func TestDetectConflictClusters(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "t"}, SupportRatio: 0.8},
		{Claim: model.Claim{ID: "x"}, SupportRatio: 0.3},
		{Claim: model.Claim{ID: "y"}, SupportRatio: 0.2},
	}
	conflicts := []model.EnrichedConflict{
		{From: "x", To: "t"},
		{From: "y", To: "t"},
		{From: "x", To: "t"}, // duplicate challenger
	}

	clusters := DetectConflictClusters(conflicts, claims)
	if len(clusters) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(clusters))
	}
	cl := clusters[0]
	if cl.Target != "t" {
		t.Errorf("Expected target t, got %s", cl.Target)
	}
	if !reflect.DeepEqual(cl.Challengers, []string{"x", "y"}) {
		t.Errorf("Expected challengers [x y], got %v", cl.Challengers)
	}
	if math.Abs(cl.CombinedOpposition-0.5) > 1e-9 {
		t.Errorf("Expected combined opposition 0.5, got %f", cl.CombinedOpposition)
	}
}

func TestDetectConflictClusters_SingleChallengerIsNoCluster(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "t"}},
		{Claim: model.Claim{ID: "x"}},
	}
	conflicts := []model.EnrichedConflict{{From: "x", To: "t"}}

	if got := DetectConflictClusters(conflicts, claims); len(got) != 0 {
		t.Errorf("Expected no clusters for a lone challenger, got %v", got)
	}
}

func TestDetectTradeoffs(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "a"}, Leverage: 5, SupportRatio: 0.4},
		{Claim: model.Claim{ID: "b"}, Leverage: 3, SupportRatio: 0.6},
		{Claim: model.Claim{ID: "c"}, Leverage: 3, SupportRatio: 0.6},
		{Claim: model.Claim{ID: "d"}, Leverage: 3, SupportRatio: 0.6},
	}
	edges := []model.Edge{
		{From: "a", To: "b", Type: model.EdgeTradeoff}, // a wins on leverage
		{From: "c", To: "d", Type: model.EdgeTradeoff}, // exact tie
	}

	pairs := DetectTradeoffs(claims, edges)
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 tradeoff pairs, got %d", len(pairs))
	}
	if pairs[0].Dominant != "a" {
		t.Errorf("Expected a dominant by leverage, got %q", pairs[0].Dominant)
	}
	if pairs[1].Dominant != "" {
		t.Errorf("Expected no dominant on an exact tie, got %q", pairs[1].Dominant)
	}
}

func TestApplyComputedRoles(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "a", Supporters: []int{0, 1, 2}, Role: model.RoleSupplement}},
		{Claim: model.Claim{ID: "b", Supporters: []int{3}, Role: model.RoleAnchor, Challenges: "stale"}},
		{Claim: model.Claim{ID: "c", Supporters: []int{0}}},
		{Claim: model.Claim{ID: "d", Supporters: []int{1}}},
	}
	for i := range claims {
		claims[i].RoleProvided = claims[i].Role
	}
	edges := []model.Edge{
		// b is the 25% minority in the conflict; a anchors c.
		{From: "b", To: "a", Type: model.EdgeConflicts},
		{From: "a", To: "c", Type: model.EdgePrerequisite},
		{From: "d", To: "a", Type: model.EdgeSupports},
	}

	out := ApplyComputedRoles(claims, edges, nil)

	byID := map[string]model.EnrichedClaim{}
	for _, c := range out {
		byID[c.ID] = c
	}

	if byID["b"].Role != model.RoleChallenger {
		t.Errorf("Expected b challenger, got %s", byID["b"].Role)
	}
	if byID["b"].Challenges != "a" {
		t.Errorf("Expected b to challenge a, got %q", byID["b"].Challenges)
	}
	// a: prereqOut(1)*2 + supportIn(1)*1 + conflictTarget(1)*1.5 = 4.5
	if byID["a"].Role != model.RoleAnchor {
		t.Errorf("Expected a anchor, got %s", byID["a"].Role)
	}
	if byID["a"].Challenges != "" {
		t.Errorf("Non-challenger must not carry a challenges target, got %q", byID["a"].Challenges)
	}
	if byID["c"].Role != model.RoleSupplement || byID["d"].Role != model.RoleSupplement {
		t.Errorf("Expected c and d supplement, got %s and %s", byID["c"].Role, byID["d"].Role)
	}

	// Every claim lands in exactly one of the four roles.
	valid := map[model.Role]bool{
		model.RoleAnchor:     true,
		model.RoleBranch:     true,
		model.RoleChallenger: true,
		model.RoleSupplement: true,
	}
	for _, c := range out {
		if !valid[c.Role] {
			t.Errorf("Claim %s has invalid role %q", c.ID, c.Role)
		}
	}

	// The mapper-provided role survives, the input is untouched.
	if byID["b"].RoleProvided != model.RoleAnchor {
		t.Errorf("Expected RoleProvided preserved, got %s", byID["b"].RoleProvided)
	}
	if claims[1].Role != model.RoleAnchor {
		t.Error("ApplyComputedRoles must not mutate its input")
	}
}

func TestApplyComputedRoles_Branch(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "k", Type: model.ClaimTypeConditional, Supporters: []int{0}}},
		{Claim: model.Claim{ID: "d1", Supporters: []int{1}}},
		{Claim: model.Claim{ID: "d2", Supporters: []int{2}}},
	}
	edges := []model.Edge{
		{From: "k", To: "d1", Type: model.EdgePrerequisite},
		{From: "d1", To: "d2", Type: model.EdgePrerequisite},
	}
	conditionals := []model.Conditional{
		{ClaimID: "k", Condition: "if deployed on-prem", Branches: []string{"d1"}},
	}

	out := ApplyComputedRoles(claims, edges, conditionals)
	byID := map[string]model.EnrichedClaim{}
	for _, c := range out {
		byID[c.ID] = c
	}

	if byID["d1"].Role != model.RoleBranch {
		t.Errorf("Expected listed branch d1, got %s", byID["d1"].Role)
	}
	if byID["d2"].Role != model.RoleBranch {
		t.Errorf("Expected downstream claim d2 to inherit branch, got %s", byID["d2"].Role)
	}
}

func TestAnchorScore_ChainedDependents(t *testing.T) {
	edges := []model.Edge{
		{From: "a", To: "b", Type: model.EdgePrerequisite},
		{From: "b", To: "c", Type: model.EdgePrerequisite},
	}
	adj := map[string][]string{"a": {"b"}, "b": {"c"}}

	// a: prereqOut(1)*2 + chainedDependent b (1)*1.5 = 3.5
	if got := anchorScore("a", edges, adj); math.Abs(got-3.5) > 1e-9 {
		t.Errorf("Expected anchor score 3.5, got %f", got)
	}
	// b: prereqOut(1)*2, c has no dependents
	if got := anchorScore("b", edges, adj); math.Abs(got-2) > 1e-9 {
		t.Errorf("Expected anchor score 2, got %f", got)
	}
}
