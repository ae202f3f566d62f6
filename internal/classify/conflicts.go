package classify

import (
	"fmt"

	"terrain/internal/metrics"
	"terrain/internal/model"
)

// challengerSignificanceBoost raises a conflict's significance when a
// declared challenger sits on either side.
const challengerSignificanceBoost = 1.5

// Anchor-score weights and threshold. Feeding prerequisites into other
// claims is the strongest anchor evidence; being a conflict target or the
// head of a deeper chain counts one and a half times a plain support.
const (
	anchorPrereqOutWeight        = 2
	anchorSupportInWeight        = 1
	anchorConflictTargetWeight   = 1.5
	anchorChainedDependentWeight = 1.5
	anchorScoreThreshold         = 2
)

// relativeSupportThreshold: in a conflict, the side holding at least half of
// the combined supporters is the established one; the other is the
// challenger.
const relativeSupportThreshold = 0.5

func claimIndex(claims []model.EnrichedClaim) map[string]int {
	idx := make(map[string]int, len(claims))
	for i, c := range claims {
		idx[c.ID] = i
	}
	return idx
}

func prereqAdjacency(claims []model.EnrichedClaim, edges []model.Edge) map[string][]string {
	known := claimIndex(claims)
	adj := map[string][]string{}
	for _, e := range edges {
		if e.Type != model.EdgePrerequisite || e.From == e.To {
			continue
		}
		if _, ok := known[e.From]; !ok {
			continue
		}
		if _, ok := known[e.To]; !ok {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
	}
	return adj
}

// DetectCascadeRisks walks the prerequisite graph from every claim that
// other claims depend on, collecting all transitive dependents and the
// maximum depth reached.
func DetectCascadeRisks(claims []model.EnrichedClaim, edges []model.Edge) []model.CascadeRisk {
	adj := prereqAdjacency(claims, edges)
	var risks []model.CascadeRisk
	for _, c := range claims {
		if len(adj[c.ID]) == 0 {
			continue
		}
		dependents, depth := cascadeFrom(c.ID, adj)
		risks = append(risks, model.CascadeRisk{
			ClaimID:    c.ID,
			Dependents: dependents,
			Depth:      depth,
		})
	}
	return risks
}

// cascadeFrom BFS-propagates over prerequisite edges. The visited set keeps
// cyclic prerequisites from looping.
func cascadeFrom(id string, adj map[string][]string) ([]string, int) {
	visited := map[string]bool{id: true}
	var dependents []string
	frontier := []string{id}
	depth := 0
	for len(frontier) > 0 {
		var next []string
		for _, u := range frontier {
			for _, v := range adj[u] {
				if visited[v] {
					continue
				}
				visited[v] = true
				dependents = append(dependents, v)
				next = append(next, v)
			}
		}
		if len(next) > 0 {
			depth++
		}
		frontier = next
	}
	return dependents, depth
}

func axisLabel(a, b model.EnrichedClaim) string {
	la, lb := a.Label, b.Label
	if la == "" {
		la = a.ID
	}
	if lb == "" {
		lb = b.ID
	}
	return fmt.Sprintf("%s vs %s", la, lb)
}

// DetectEnrichedConflicts expands every conflicts edge between known claims
// into a rich record with combined support, tension dynamics, and a
// significance score.
func DetectEnrichedConflicts(claims []model.EnrichedClaim, edges []model.Edge) []model.EnrichedConflict {
	idx := claimIndex(claims)
	seen := map[string]bool{}
	var out []model.EnrichedConflict
	for _, e := range edges {
		if e.Type != model.EdgeConflicts || e.From == e.To {
			continue
		}
		ia, ok := idx[e.From]
		if !ok {
			continue
		}
		ib, ok := idx[e.To]
		if !ok {
			continue
		}
		if seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true

		a, b := claims[ia], claims[ib]
		significance := a.SupportRatio + b.SupportRatio
		if a.IsChallenger || b.IsChallenger {
			significance *= challengerSignificanceBoost
		}
		out = append(out, model.EnrichedConflict{
			From:            a.ID,
			To:              b.ID,
			Axis:            axisLabel(a, b),
			CombinedSupport: a.SupportRatio + b.SupportRatio,
			Dynamics:        metrics.TensionDynamics(a.SupportRatio, b.SupportRatio),
			Significance:    significance,
		})
	}
	return out
}

// DetectConflictClusters groups two or more challengers attacking the same
// target into one cluster.
func DetectConflictClusters(conflicts []model.EnrichedConflict, claims []model.EnrichedClaim) []model.ConflictCluster {
	idx := claimIndex(claims)
	byTarget := map[string][]string{}
	var targetOrder []string
	for _, conflict := range conflicts {
		if len(byTarget[conflict.To]) == 0 {
			targetOrder = append(targetOrder, conflict.To)
		}
		byTarget[conflict.To] = append(byTarget[conflict.To], conflict.From)
	}

	var clusters []model.ConflictCluster
	for _, target := range targetOrder {
		challengers := dedupeStrings(byTarget[target])
		if len(challengers) < 2 {
			continue
		}
		opposition := 0.0
		for _, id := range challengers {
			if i, ok := idx[id]; ok {
				opposition += claims[i].SupportRatio
			}
		}
		clusters = append(clusters, model.ConflictCluster{
			Target:             target,
			Challengers:        challengers,
			CombinedOpposition: opposition,
		})
	}
	return clusters
}

// DetectTradeoffs pairs claims across tradeoff edges and infers the
// dominant side from leverage, then support. An exact tie has no dominant.
func DetectTradeoffs(claims []model.EnrichedClaim, edges []model.Edge) []model.TradeoffPair {
	idx := claimIndex(claims)
	seen := map[string]bool{}
	var out []model.TradeoffPair
	for _, e := range edges {
		if e.Type != model.EdgeTradeoff || e.From == e.To {
			continue
		}
		ia, ok := idx[e.From]
		if !ok {
			continue
		}
		ib, ok := idx[e.To]
		if !ok {
			continue
		}
		if seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true

		a, b := claims[ia], claims[ib]
		dominant := ""
		switch {
		case a.Leverage > b.Leverage:
			dominant = a.ID
		case b.Leverage > a.Leverage:
			dominant = b.ID
		case a.SupportRatio > b.SupportRatio:
			dominant = a.ID
		case b.SupportRatio > a.SupportRatio:
			dominant = b.ID
		}
		out = append(out, model.TradeoffPair{
			A:        a.ID,
			B:        b.ID,
			Axis:     axisLabel(a, b),
			Dominant: dominant,
		})
	}
	return out
}

// ApplyComputedRoles replaces each claim's role with the topology-derived
// one, in precedence order challenger > branch > anchor > supplement. The
// mapper's role survives in RoleProvided. Input claims are not mutated; the
// returned slice holds fresh copies.
func ApplyComputedRoles(claims []model.EnrichedClaim, edges []model.Edge, conditionals []model.Conditional) []model.EnrichedClaim {
	out := make([]model.EnrichedClaim, len(claims))
	copy(out, claims)
	idx := claimIndex(out)
	adj := prereqAdjacency(out, edges)

	// Challenger: in a conflict where one side holds >=50% of the combined
	// supporters and the other does not, the minority side challenges.
	challenges := map[string]string{}
	for _, e := range edges {
		if e.Type != model.EdgeConflicts || e.From == e.To {
			continue
		}
		ia, ok := idx[e.From]
		if !ok {
			continue
		}
		ib, ok := idx[e.To]
		if !ok {
			continue
		}
		sa := float64(len(out[ia].Supporters))
		sb := float64(len(out[ib].Supporters))
		if sa+sb == 0 {
			continue
		}
		shareA := sa / (sa + sb)
		shareB := sb / (sa + sb)
		if shareA >= relativeSupportThreshold && shareB < relativeSupportThreshold {
			if _, dup := challenges[out[ib].ID]; !dup {
				challenges[out[ib].ID] = out[ia].ID
			}
		} else if shareB >= relativeSupportThreshold && shareA < relativeSupportThreshold {
			if _, dup := challenges[out[ia].ID]; !dup {
				challenges[out[ia].ID] = out[ib].ID
			}
		}
	}

	// Branch: listed under a conditional, or downstream of one via
	// prerequisites.
	branches := map[string]bool{}
	for _, cond := range conditionals {
		for _, id := range cond.Branches {
			branches[id] = true
		}
		if _, ok := idx[cond.ClaimID]; ok {
			dependents, _ := cascadeFrom(cond.ClaimID, adj)
			for _, id := range dependents {
				branches[id] = true
			}
		}
	}
	for _, c := range out {
		if c.Type == model.ClaimTypeConditional {
			dependents, _ := cascadeFrom(c.ID, adj)
			for _, id := range dependents {
				branches[id] = true
			}
		}
	}

	for i := range out {
		c := &out[i]
		c.Challenges = ""
		switch {
		case challenges[c.ID] != "":
			c.Role = model.RoleChallenger
			c.Challenges = challenges[c.ID]
		case branches[c.ID]:
			c.Role = model.RoleBranch
		case anchorScore(c.ID, edges, adj) >= anchorScoreThreshold:
			c.Role = model.RoleAnchor
		default:
			c.Role = model.RoleSupplement
		}
	}
	return out
}

// anchorScore weighs how much of the landscape leans on a claim
func anchorScore(id string, edges []model.Edge, adj map[string][]string) float64 {
	prereqOut, supportIn, conflictTargets := 0, 0, 0
	for _, e := range edges {
		switch {
		case e.Type == model.EdgePrerequisite && e.From == id && e.To != id:
			prereqOut++
		case e.Type == model.EdgeSupports && e.To == id && e.From != id:
			supportIn++
		case e.Type == model.EdgeConflicts && e.To == id && e.From != id:
			conflictTargets++
		}
	}
	chainedDependents := 0
	for _, dep := range adj[id] {
		if len(adj[dep]) > 0 {
			chainedDependents++
		}
	}
	return float64(prereqOut)*anchorPrereqOutWeight +
		float64(supportIn)*anchorSupportInWeight +
		float64(conflictTargets)*anchorConflictTargetWeight +
		float64(chainedDependents)*anchorChainedDependentWeight
}

func dedupeStrings(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
