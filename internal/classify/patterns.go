package classify

import (
	"fmt"
	"sort"

	"terrain/internal/metrics"
	"terrain/internal/model"
)

// fragilePrereqThreshold: a peak resting on a prerequisite below this
// support ratio is fragile: the consensus stands on a claim most models
// never endorsed.
const fragilePrereqThreshold = 0.4

// challengerInsightBonus lifts declared challengers in the dissent ranking
const challengerInsightBonus = 2

// PatternInput carries everything the secondary detectors read
type PatternInput struct {
	Claims       []model.EnrichedClaim
	Edges        []model.Edge
	Graph        model.GraphAnalysis
	Cascades     []model.CascadeRisk
	Conflicts    []model.EnrichedConflict
	Conditionals []model.Conditional
}

// DetectPatterns runs all seven secondary detectors. Each detector is
// independent and order-insensitive; keystone and chain are gated on the
// graph analysis, the rest always run.
func DetectPatterns(in PatternInput) []model.SecondaryPattern {
	var patterns []model.SecondaryPattern
	detectors := []func(PatternInput) *model.SecondaryPattern{
		detectDissent,
		detectChallenged,
		detectKeystone,
		detectChain,
		detectFragile,
		detectConditional,
		detectOrphaned,
	}
	for _, detect := range detectors {
		if p := detect(in); p != nil {
			patterns = append(patterns, *p)
		}
	}
	return patterns
}

// countSeverity maps a hit count to a severity band: more than three voices
// is a structural feature, more than one a trend, one an anecdote.
func countSeverity(n int) model.Severity {
	switch {
	case n > 3:
		return model.SeverityHigh
	case n > 1:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

func peakSet(claims []model.EnrichedClaim) map[string]bool {
	set := map[string]bool{}
	for _, c := range claims {
		if metrics.IsPeak(c) {
			set[c.ID] = true
		}
	}
	return set
}

type dissentVoice struct {
	claimID string
	score   float64
	reasons []string
}

// detectDissent aggregates the minority signal: inverted-leverage claims,
// challengers aimed at peaks, claims carried only by outsider models, and
// low-support conditionals. Voices are ranked by insight score.
func detectDissent(in PatternInput) *model.SecondaryPattern {
	peaks := peakSet(in.Claims)

	// Outsider models: models that support no peak at all.
	insiders := map[int]bool{}
	for _, c := range in.Claims {
		if peaks[c.ID] {
			for _, m := range c.Supporters {
				insiders[m] = true
			}
		}
	}

	voices := map[string]*dissentVoice{}
	var order []string
	add := func(c model.EnrichedClaim, reason string) {
		v, ok := voices[c.ID]
		if !ok {
			score := c.Leverage * (1 - c.SupportRatio)
			if c.IsChallenger {
				score += challengerInsightBonus
			}
			v = &dissentVoice{claimID: c.ID, score: score}
			voices[c.ID] = v
			order = append(order, c.ID)
		}
		v.reasons = append(v.reasons, reason)
	}

	for _, c := range in.Claims {
		if c.IsLeverageInversion {
			add(c, "leverage inversion")
		}
		if c.IsChallenger && peaks[c.Challenges] {
			add(c, fmt.Sprintf("challenges peak %q", c.Challenges))
		}
		if len(c.Supporters) > 0 && !peaks[c.ID] {
			outsiderOnly := true
			for _, m := range c.Supporters {
				if insiders[m] {
					outsiderOnly = false
					break
				}
			}
			if outsiderOnly && len(insiders) > 0 {
				add(c, "supported only by outsider models")
			}
		}
		if c.IsConditional && c.SupportRatio <= metrics.HillSupportThreshold {
			add(c, "low-support conditional")
		}
	}
	if len(voices) == 0 {
		return nil
	}

	sort.SliceStable(order, func(a, b int) bool {
		return voices[order[a]].score > voices[order[b]].score
	})
	ranked := make([]map[string]any, len(order))
	for i, id := range order {
		v := voices[id]
		ranked[i] = map[string]any{
			"claim_id":      v.claimID,
			"insight_score": v.score,
			"reasons":       v.reasons,
		}
	}

	return &model.SecondaryPattern{
		Type:        model.PatternDissent,
		Severity:    countSeverity(len(order)),
		Description: fmt.Sprintf("%d dissenting voice(s), strongest: %q", len(order), order[0]),
		Data:        map[string]any{"voices": ranked},
	}
}

// detectChallenged finds floor claims throwing conflicts at peaks
func detectChallenged(in PatternInput) *model.SecondaryPattern {
	peaks := peakSet(in.Claims)
	floors := map[string]bool{}
	for _, c := range in.Claims {
		if metrics.IsFloor(c) {
			floors[c.ID] = true
		}
	}

	var hits []map[string]any
	for _, e := range in.Edges {
		if e.Type == model.EdgeConflicts && floors[e.From] && peaks[e.To] {
			hits = append(hits, map[string]any{"from": e.From, "to": e.To})
		}
	}
	if len(hits) == 0 {
		return nil
	}
	return &model.SecondaryPattern{
		Type:        model.PatternChallenged,
		Severity:    countSeverity(len(hits)),
		Description: fmt.Sprintf("%d floor claim(s) directly challenge a peak", len(hits)),
		Data:        map[string]any{"challenges": hits},
	}
}

// detectKeystone requires the hub claim to carry at least two structural
// dependents. A live keystone is always high severity: losing it reshapes
// the landscape.
func detectKeystone(in PatternInput) *model.SecondaryPattern {
	if in.Graph.HubClaim == "" {
		return nil
	}
	hub := in.Graph.HubClaim
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
	if len(dependents) < 2 {
		return nil
	}

	depth := 0
	for _, risk := range in.Cascades {
		if risk.ClaimID == hub {
			depth = risk.Depth
			break
		}
	}
	return &model.SecondaryPattern{
		Type:        model.PatternKeystone,
		Severity:    model.SeverityHigh,
		Description: fmt.Sprintf("hub %q carries %d dependent claim(s)", hub, len(dependents)),
		Data: map[string]any{
			"hub":           hub,
			"dependents":    dependents,
			"cascade_depth": depth,
		},
	}
}

// detectChain fires on a prerequisite chain of three or more claims;
// severity tracks how many links rest on a single supporter.
func detectChain(in PatternInput) *model.SecondaryPattern {
	if len(in.Graph.LongestChain) < 3 {
		return nil
	}
	byID := map[string]model.EnrichedClaim{}
	for _, c := range in.Claims {
		byID[c.ID] = c
	}
	var weak []string
	for _, id := range in.Graph.LongestChain {
		if c, ok := byID[id]; ok && len(c.Supporters) == 1 {
			weak = append(weak, id)
		}
	}
	severity := model.SeverityLow
	if len(weak) >= 2 {
		severity = model.SeverityHigh
	} else if len(weak) == 1 {
		severity = model.SeverityMedium
	}
	return &model.SecondaryPattern{
		Type:        model.PatternChain,
		Severity:    severity,
		Description: fmt.Sprintf("prerequisite chain of %d claims with %d weak link(s)", len(in.Graph.LongestChain), len(weak)),
		Data: map[string]any{
			"chain":      in.Graph.LongestChain,
			"weak_links": weak,
		},
	}
}

// detectFragile finds peaks resting on low-support prerequisites
func detectFragile(in PatternInput) *model.SecondaryPattern {
	peaks := peakSet(in.Claims)
	byID := map[string]model.EnrichedClaim{}
	for _, c := range in.Claims {
		byID[c.ID] = c
	}
	var hits []map[string]any
	for _, e := range in.Edges {
		if e.Type != model.EdgePrerequisite || !peaks[e.To] {
			continue
		}
		prereq, ok := byID[e.From]
		if !ok || prereq.SupportRatio >= fragilePrereqThreshold {
			continue
		}
		hits = append(hits, map[string]any{
			"peak":          e.To,
			"prerequisite":  e.From,
			"support_ratio": prereq.SupportRatio,
		})
	}
	if len(hits) == 0 {
		return nil
	}
	return &model.SecondaryPattern{
		Type:        model.PatternFragile,
		Severity:    countSeverity(len(hits)),
		Description: fmt.Sprintf("%d peak(s) rest on prerequisites below %.0f%% support", len(hits), fragilePrereqThreshold*100),
		Data:        map[string]any{"fragile_peaks": hits},
	}
}

// detectConditional fires when at least two conditional claims branch the
// landscape through outgoing prerequisites.
func detectConditional(in PatternInput) *model.SecondaryPattern {
	prereqOut := map[string]int{}
	for _, e := range in.Edges {
		if e.Type == model.EdgePrerequisite && e.From != e.To {
			prereqOut[e.From]++
		}
	}
	var branching []string
	for _, c := range in.Claims {
		if c.IsConditional && prereqOut[c.ID] > 0 {
			branching = append(branching, c.ID)
		}
	}
	if len(branching) < 2 {
		return nil
	}
	return &model.SecondaryPattern{
		Type:        model.PatternConditional,
		Severity:    countSeverity(len(branching)),
		Description: fmt.Sprintf("%d conditional claim(s) branch the landscape", len(branching)),
		Data:        map[string]any{"conditionals": branching},
	}
}

// detectOrphaned reports peaks with no edges at all. No renderer is known
// to consume this yet; it stays for completeness and costs one scan.
func detectOrphaned(in PatternInput) *model.SecondaryPattern {
	var orphans []string
	for _, c := range in.Claims {
		if metrics.IsPeak(c) && c.InDegree+c.OutDegree == 0 {
			orphans = append(orphans, c.ID)
		}
	}
	if len(orphans) == 0 {
		return nil
	}
	return &model.SecondaryPattern{
		Type:        model.PatternOrphaned,
		Severity:    model.SeverityLow,
		Description: fmt.Sprintf("%d peak(s) have no structural edges", len(orphans)),
		Data:        map[string]any{"orphans": orphans},
	}
}
