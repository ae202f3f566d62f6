package metrics

import (
	"sort"

	"terrain/internal/model"
)

// Role weights for the leverage composite. Challengers rank highest because
// a live dispute matters more than settled agreement; supplements barely move
// the score.
var roleWeights = map[model.Role]float64{
	model.RoleChallenger: 4,
	model.RoleAnchor:     2,
	model.RoleBranch:     1,
	model.RoleSupplement: 0.5,
}

// Connectivity weights: being a prerequisite for others counts double what
// depending on others does, conflict involvement sits between, and ordinary
// degree contributes a trickle.
const (
	prereqOutWeight     = 2
	prereqInWeight      = 1
	conflictEdgeWeight  = 1.5
	generalDegreeWeight = 0.25
)

// chainRootBonus rewards claims that start a prerequisite chain
const chainRootBonus = 2

// supportRatioWeight scales raw consensus into the leverage composite
const supportRatioWeight = 2

// inversionConnectivityShare: a claim whose connectivity component exceeds
// this share of its total leverage is structurally more important than its
// support suggests.
const inversionConnectivityShare = 0.4

// outlierSkewPercentile: supportSkew at or above this percentile marks an
// outlier cohort (top quintile).
const outlierSkewPercentile = 80

type degreeCount struct {
	in, out             int
	prereqIn, prereqOut int
	conflicts           int
	general             int // supports + tradeoff degree, both directions
}

func countDegrees(id string, edges []model.Edge) degreeCount {
	var d degreeCount
	for _, e := range edges {
		if e.From != id && e.To != id {
			continue
		}
		if e.From == id {
			d.out++
		}
		if e.To == id {
			d.in++
		}
		switch e.Type {
		case model.EdgePrerequisite:
			if e.From == id {
				d.prereqOut++
			}
			if e.To == id {
				d.prereqIn++
			}
		case model.EdgeConflicts:
			d.conflicts++
		case model.EdgeSupports, model.EdgeTradeoff:
			d.general++
		}
	}
	return d
}

// ComputeClaimRatios derives the per-claim scores that need no cohort
// context: support ratio, degrees, chain position, leverage and keystone
// score. Leverage uses the claim's current role; call RecomputeLeverage
// after the role override.
func ComputeClaimRatios(c model.Claim, edges []model.Edge, modelCount int) model.EnrichedClaim {
	if modelCount < 1 {
		modelCount = 1
	}
	d := countDegrees(c.ID, edges)

	ec := model.EnrichedClaim{
		Claim:           c,
		RoleProvided:    c.Role,
		SupportRatio:    float64(len(c.Supporters)) / float64(modelCount),
		InDegree:        d.in,
		OutDegree:       d.out,
		KeystoneScore:   d.out * len(c.Supporters),
		IsChainRoot:     d.prereqOut > 0 && d.prereqIn == 0,
		IsChainTerminal: d.prereqIn > 0 && d.prereqOut == 0,
	}
	setLeverage(&ec, d)
	return ec
}

// RecomputeLeverage refreshes the leverage composite after a role change
func RecomputeLeverage(ec *model.EnrichedClaim, edges []model.Edge) {
	setLeverage(ec, countDegrees(ec.ID, edges))
}

func setLeverage(ec *model.EnrichedClaim, d degreeCount) {
	roleWeight, ok := roleWeights[ec.Role]
	if !ok {
		roleWeight = roleWeights[model.RoleSupplement]
	}
	connectivity := float64(d.prereqOut)*prereqOutWeight +
		float64(d.prereqIn)*prereqInWeight +
		float64(d.conflicts)*conflictEdgeWeight +
		float64(d.general)*generalDegreeWeight
	position := 0.0
	if ec.IsChainRoot {
		position = chainRootBonus
	}
	ec.LeverageFactors = model.LeverageFactors{
		Support:      ec.SupportRatio * supportRatioWeight,
		Role:         roleWeight,
		Connectivity: connectivity,
		Position:     position,
	}
	ec.Leverage = ec.LeverageFactors.Support + roleWeight + connectivity + position
}

// ComputeSupportSkew fills SupportSkew for the whole cohort. Skew is the
// mean rarity of a claim's supporters: a model that endorses few claims is
// rare, so claims held up only by such models skew high.
func ComputeSupportSkew(claims []model.EnrichedClaim) {
	supportsByModel := map[int]int{}
	maxSupports := 0
	for _, c := range claims {
		for _, m := range c.Supporters {
			supportsByModel[m]++
			if supportsByModel[m] > maxSupports {
				maxSupports = supportsByModel[m]
			}
		}
	}
	for i := range claims {
		if len(claims[i].Supporters) == 0 || maxSupports == 0 {
			claims[i].SupportSkew = 0
			continue
		}
		sum := 0.0
		for _, m := range claims[i].Supporters {
			sum += 1 - float64(supportsByModel[m])/float64(maxSupports)
		}
		claims[i].SupportSkew = sum / float64(len(claims[i].Supporters))
	}
}

// TopSupportCohort returns the IDs of the top-30%-by-support claims.
// Ties break on input order.
func TopSupportCohort(claims []model.EnrichedClaim) map[string]bool {
	top := map[string]bool{}
	if len(claims) == 0 {
		return top
	}
	order := make([]int, len(claims))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(claims[order[a]].Supporters) > len(claims[order[b]].Supporters)
	})
	n := GetTopNCount(len(claims), HighSupportFraction)
	for _, idx := range order[:n] {
		top[claims[idx].ID] = true
	}
	return top
}

// AssignPercentileFlags sets the cohort-relative boolean flags on every
// claim. Flags are pure functions of the claim, the edges, and the cohort;
// nothing here reads the landscape ratios.
func AssignPercentileFlags(claims []model.EnrichedClaim, edges []model.Edge, cascades []model.CascadeRisk, topClaimIDs map[string]bool, conditionalIDs map[string]bool) {
	skews := make([]float64, 0, len(claims))
	for _, c := range claims {
		skews = append(skews, c.SupportSkew)
	}
	skewThreshold := Percentile(skews, outlierSkewPercentile)

	for i := range claims {
		c := &claims[i]
		d := countDegrees(c.ID, edges)

		c.IsHighSupport = topClaimIDs[c.ID]
		c.IsContested = d.conflicts > 0
		c.IsIsolated = d.in+d.out == 0
		c.IsConditional = c.Type == model.ClaimTypeConditional || conditionalIDs[c.ID]
		c.IsChallenger = c.Role == model.RoleChallenger || c.Challenges != ""
		c.IsKeystone = d.out >= 2 && len(c.Supporters) >= PeakMinSupporters
		c.IsOutlier = c.SupportSkew > 0 && c.SupportSkew >= skewThreshold && len(c.Supporters) >= 2
		c.IsLeverageInversion = leverageInversion(c, edges, topClaimIDs, d)
	}
}

// leverageInversion: low support paired with high structural connectivity.
// Three routes in, all gated on the claim sitting outside the high-support
// cohort: a challenger feeding a prerequisite into a top claim, any outgoing
// prerequisite, or connectivity dominating the leverage composite.
func leverageInversion(c *model.EnrichedClaim, edges []model.Edge, topClaimIDs map[string]bool, d degreeCount) bool {
	if c.IsHighSupport {
		return false
	}
	if c.Role == model.RoleChallenger {
		for _, e := range edges {
			if e.Type == model.EdgePrerequisite && e.From == c.ID && topClaimIDs[e.To] {
				return true
			}
		}
	}
	if d.prereqOut > 0 {
		return true
	}
	return c.Leverage > 0 && c.LeverageFactors.Connectivity > inversionConnectivityShare*c.Leverage
}
