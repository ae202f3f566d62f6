package classify

import (
	"testing"

	"terrain/internal/model"
)

func findPattern(patterns []model.SecondaryPattern, t model.PatternType) *model.SecondaryPattern {
	for i := range patterns {
		if patterns[i].Type == t {
			return &patterns[i]
		}
	}
	return nil
}

func TestDetectPatterns_Keystone(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "hub", Supporters: []int{0, 1}}, SupportRatio: 0.66},
		{Claim: model.Claim{ID: "b", Supporters: []int{0}}, SupportRatio: 0.33},
		{Claim: model.Claim{ID: "c", Supporters: []int{1}}, SupportRatio: 0.33},
	}
	edges := []model.Edge{
		{From: "hub", To: "b", Type: model.EdgePrerequisite},
		{From: "hub", To: "c", Type: model.EdgeSupports},
	}
	in := PatternInput{
		Claims: claims,
		Edges:  edges,
		Graph:  model.GraphAnalysis{HubClaim: "hub"},
		Cascades: []model.CascadeRisk{
			{ClaimID: "hub", Dependents: []string{"b"}, Depth: 1},
		},
	}

	p := findPattern(DetectPatterns(in), model.PatternKeystone)
	if p == nil {
		t.Fatal("Expected keystone pattern")
	}
	if p.Severity != model.SeverityHigh {
		t.Errorf("Keystone is always high severity, got %s", p.Severity)
	}
	if p.Data["hub"] != "hub" {
		t.Errorf("Expected hub in pattern data, got %v", p.Data["hub"])
	}
	if p.Data["cascade_depth"] != 1 {
		t.Errorf("Expected cascade depth 1, got %v", p.Data["cascade_depth"])
	}
}

func TestDetectPatterns_KeystoneNeedsTwoDependents(t *testing.T) {
	in := PatternInput{
		Claims: []model.EnrichedClaim{
			{Claim: model.Claim{ID: "hub"}},
			{Claim: model.Claim{ID: "b"}},
		},
		Edges: []model.Edge{{From: "hub", To: "b", Type: model.EdgePrerequisite}},
		Graph: model.GraphAnalysis{HubClaim: "hub"},
	}
	if p := findPattern(DetectPatterns(in), model.PatternKeystone); p != nil {
		t.Errorf("One dependent must not make a keystone, got %+v", p)
	}
}

func TestDetectPatterns_ChainSeverity(t *testing.T) {
	cases := []struct {
		name       string
		supporters map[string]int
		want       model.Severity
	}{
		{"no weak links", map[string]int{"a": 2, "b": 2, "c": 2}, model.SeverityLow},
		{"one weak link", map[string]int{"a": 2, "b": 1, "c": 2}, model.SeverityMedium},
		{"two weak links", map[string]int{"a": 1, "b": 1, "c": 2}, model.SeverityHigh},
	}
	for _, tc := range cases {
		var claims []model.EnrichedClaim
		for _, id := range []string{"a", "b", "c"} {
			models := make([]int, tc.supporters[id])
			for i := range models {
				models[i] = i
			}
			claims = append(claims, model.EnrichedClaim{Claim: model.Claim{ID: id, Supporters: models}})
		}
		in := PatternInput{
			Claims: claims,
			Graph:  model.GraphAnalysis{LongestChain: []string{"a", "b", "c"}},
		}
		p := findPattern(DetectPatterns(in), model.PatternChain)
		if p == nil {
			t.Fatalf("%s: expected chain pattern", tc.name)
		}
		if p.Severity != tc.want {
			t.Errorf("%s: expected severity %s, got %s", tc.name, tc.want, p.Severity)
		}
	}
}

func TestDetectPatterns_ChainGatedOnLength(t *testing.T) {
	in := PatternInput{
		Claims: []model.EnrichedClaim{{Claim: model.Claim{ID: "a"}}, {Claim: model.Claim{ID: "b"}}},
		Graph:  model.GraphAnalysis{LongestChain: []string{"a", "b"}},
	}
	if p := findPattern(DetectPatterns(in), model.PatternChain); p != nil {
		t.Errorf("Chain of two must not fire, got %+v", p)
	}
}

func TestDetectPatterns_Challenged(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "peak", Supporters: []int{0, 1, 2}}, SupportRatio: 0.75},
		{Claim: model.Claim{ID: "floor", Supporters: []int{3}}, SupportRatio: 0.25},
	}
	edges := []model.Edge{{From: "floor", To: "peak", Type: model.EdgeConflicts}}

	p := findPattern(DetectPatterns(PatternInput{Claims: claims, Edges: edges}), model.PatternChallenged)
	if p == nil {
		t.Fatal("Expected challenged pattern")
	}
	if p.Severity != model.SeverityLow {
		t.Errorf("Expected low severity for one challenge, got %s", p.Severity)
	}
}

func TestDetectPatterns_Fragile(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "peak", Supporters: []int{0, 1, 2}}, SupportRatio: 0.75},
		{Claim: model.Claim{ID: "shaky", Supporters: []int{0}}, SupportRatio: 0.25},
	}
	edges := []model.Edge{{From: "shaky", To: "peak", Type: model.EdgePrerequisite}}

	p := findPattern(DetectPatterns(PatternInput{Claims: claims, Edges: edges}), model.PatternFragile)
	if p == nil {
		t.Fatal("Expected fragile pattern for a peak on a 25% prerequisite")
	}
}

func TestDetectPatterns_FragileNeedsLowPrereq(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "peak", Supporters: []int{0, 1, 2}}, SupportRatio: 0.75},
		{Claim: model.Claim{ID: "solid", Supporters: []int{0, 1}}, SupportRatio: 0.5},
	}
	edges := []model.Edge{{From: "solid", To: "peak", Type: model.EdgePrerequisite}}

	if p := findPattern(DetectPatterns(PatternInput{Claims: claims, Edges: edges}), model.PatternFragile); p != nil {
		t.Errorf("A 50%% prerequisite is not fragile, got %+v", p)
	}
}

func TestDetectPatterns_Conditional(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "k1"}, IsConditional: true},
		{Claim: model.Claim{ID: "k2"}, IsConditional: true},
		{Claim: model.Claim{ID: "d1"}},
		{Claim: model.Claim{ID: "d2"}},
	}
	edges := []model.Edge{
		{From: "k1", To: "d1", Type: model.EdgePrerequisite},
		{From: "k2", To: "d2", Type: model.EdgePrerequisite},
	}

	p := findPattern(DetectPatterns(PatternInput{Claims: claims, Edges: edges}), model.PatternConditional)
	if p == nil {
		t.Fatal("Expected conditional pattern for two branching conditionals")
	}
	if p.Severity != model.SeverityMedium {
		t.Errorf("Expected medium severity for two conditionals, got %s", p.Severity)
	}
}

func TestDetectPatterns_ConditionalNeedsTwo(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "k1"}, IsConditional: true},
		{Claim: model.Claim{ID: "d1"}},
	}
	edges := []model.Edge{{From: "k1", To: "d1", Type: model.EdgePrerequisite}}

	if p := findPattern(DetectPatterns(PatternInput{Claims: claims, Edges: edges}), model.PatternConditional); p != nil {
		t.Errorf("One conditional must not fire the pattern, got %+v", p)
	}
}

func TestDetectPatterns_Orphaned(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "lone", Supporters: []int{0, 1, 2}}, SupportRatio: 0.75},
	}
	p := findPattern(DetectPatterns(PatternInput{Claims: claims}), model.PatternOrphaned)
	if p == nil {
		t.Fatal("Expected orphaned pattern for an edgeless peak")
	}
	if p.Severity != model.SeverityLow {
		t.Errorf("Expected low severity, got %s", p.Severity)
	}
}

func TestDetectPatterns_Dissent(t *testing.T) {
	claims := []model.EnrichedClaim{
		{
			Claim:        model.Claim{ID: "peak", Supporters: []int{0, 1, 2}},
			SupportRatio: 0.75,
		},
		{
			Claim:               model.Claim{ID: "under", Supporters: []int{3}},
			SupportRatio:        0.25,
			Leverage:            4,
			IsLeverageInversion: true,
		},
		{
			Claim:        model.Claim{ID: "rebel", Supporters: []int{3}, Challenges: "peak"},
			SupportRatio: 0.25,
			Leverage:     2,
			IsChallenger: true,
		},
	}

	p := findPattern(DetectPatterns(PatternInput{Claims: claims}), model.PatternDissent)
	if p == nil {
		t.Fatal("Expected dissent pattern")
	}
	voices, ok := p.Data["voices"].([]map[string]any)
	if !ok {
		t.Fatalf("Expected ranked voices in pattern data, got %T", p.Data["voices"])
	}
	if len(voices) < 2 {
		t.Fatalf("Expected at least 2 voices, got %d", len(voices))
	}
	// rebel: 2*0.75 + 2 = 3.5; under: 4*0.75 = 3.0
	if voices[0]["claim_id"] != "rebel" {
		t.Errorf("Expected rebel ranked first by insight score, got %v", voices[0]["claim_id"])
	}
}

func TestDetectPatterns_NoSignalNoPatterns(t *testing.T) {
	claims := []model.EnrichedClaim{
		{Claim: model.Claim{ID: "a", Supporters: []int{0, 1}}, SupportRatio: 0.66, OutDegree: 1},
		{Claim: model.Claim{ID: "b", Supporters: []int{0, 1}}, SupportRatio: 0.66, InDegree: 1},
	}
	edges := []model.Edge{{From: "a", To: "b", Type: model.EdgeSupports}}

	patterns := DetectPatterns(PatternInput{Claims: claims, Edges: edges})
	for _, p := range patterns {
		switch p.Type {
		case model.PatternDissent, model.PatternChallenged, model.PatternFragile,
			model.PatternConditional, model.PatternOrphaned, model.PatternChain:
			t.Errorf("Unexpected pattern %s on a calm landscape", p.Type)
		}
	}
}
