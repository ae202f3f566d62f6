package model

// LeverageFactors breaks the composite leverage score into its components
type LeverageFactors struct {
	Support      float64 `json:"support"`      // supportRatio * 2
	Role         float64 `json:"role"`         // role weight
	Connectivity float64 `json:"connectivity"` // edge-degree weight
	Position     float64 `json:"position"`     // chain-root bonus
}

// EnrichedClaim is a claim annotated with derived structural scores and flags.
// Role holds the topology-computed role; RoleProvided preserves the mapper's.
type EnrichedClaim struct {
	Claim
	RoleProvided    Role            `json:"role_provided,omitempty"`
	SupportRatio    float64         `json:"support_ratio"`
	SupportSkew     float64         `json:"support_skew"`
	Leverage        float64         `json:"leverage"`
	LeverageFactors LeverageFactors `json:"leverage_factors"`
	KeystoneScore   int             `json:"keystone_score"`
	InDegree        int             `json:"in_degree"`
	OutDegree       int             `json:"out_degree"`

	IsHighSupport       bool `json:"is_high_support"`
	IsLeverageInversion bool `json:"is_leverage_inversion"`
	IsKeystone          bool `json:"is_keystone"`
	IsOutlier           bool `json:"is_outlier"`
	IsContested         bool `json:"is_contested"`
	IsConditional       bool `json:"is_conditional"`
	IsIsolated          bool `json:"is_isolated"`
	IsChallenger        bool `json:"is_challenger"`
	IsChainRoot         bool `json:"is_chain_root"`
	IsChainTerminal     bool `json:"is_chain_terminal"`
}

// GraphAnalysis summarizes the topology of the claim graph
type GraphAnalysis struct {
	ComponentCount     int        `json:"component_count"`
	Components         [][]string `json:"components"` // Partition of all claim IDs, sorted by descending size
	LongestChain       []string   `json:"longest_chain"`
	ChainCount         int        `json:"chain_count"`
	HubClaim           string     `json:"hub_claim,omitempty"` // Empty when the graph has no edges
	HubDominance       float64    `json:"hub_dominance"`
	ArticulationPoints []string   `json:"articulation_points"`
	ClusterCohesion    float64    `json:"cluster_cohesion"`
	LocalCoherence     float64    `json:"local_coherence"`
}

// CoreRatios are landscape-level aggregates. Informational only: no flag
// or classification depends on them.
type CoreRatios struct {
	Concentration float64 `json:"concentration"` // peaks / claims
	Alignment     float64 `json:"alignment"`     // supports edges / edges
	Tension       float64 `json:"tension"`       // conflict + tradeoff edges / edges
	Fragmentation float64 `json:"fragmentation"` // components / claims
	Depth         float64 `json:"depth"`         // longest chain / claims
}

// CascadeRisk records the downstream reach of a prerequisite claim
type CascadeRisk struct {
	ClaimID    string   `json:"claim_id"`
	Dependents []string `json:"dependents"`
	Depth      int      `json:"depth"`
}

// ConflictDynamics classifies the tension between two conflicting claims
type ConflictDynamics string

const (
	DynamicsStandoff  ConflictDynamics = "standoff"  // Two peaks head to head
	DynamicsChallenge ConflictDynamics = "challenge" // One established side, one insurgent
	DynamicsSkirmish  ConflictDynamics = "skirmish"  // Neither side established
)

// EnrichedConflict is a conflicts edge expanded into a rich record
type EnrichedConflict struct {
	From            string           `json:"from"`
	To              string           `json:"to"`
	Axis            string           `json:"axis"`
	CombinedSupport float64          `json:"combined_support"`
	Dynamics        ConflictDynamics `json:"dynamics"`
	Significance    float64          `json:"significance"`
}

// ConflictCluster groups multiple challengers attacking a single target
type ConflictCluster struct {
	Target             string   `json:"target"`
	Challengers        []string `json:"challengers"`
	CombinedOpposition float64  `json:"combined_opposition"`
}

// TradeoffPair is a tradeoff edge with an inferred dominant side
type TradeoffPair struct {
	A        string `json:"a"`
	B        string `json:"b"`
	Axis     string `json:"axis"`
	Dominant string `json:"dominant,omitempty"` // Side with higher leverage; empty when even
}

// PatternSet collects the structural records consumed by graph-layout renderers
type PatternSet struct {
	Conflicts []EnrichedConflict `json:"conflicts"`
	Clusters  []ConflictCluster  `json:"clusters"`
	Tradeoffs []TradeoffPair     `json:"tradeoffs"`
	Cascades  []CascadeRisk      `json:"cascades"`
}

// GhostAnalysis summarizes the pass-through ghost topics
type GhostAnalysis struct {
	Count         int     `json:"count"`
	ModelsTouched int     `json:"models_touched"`
	Coverage      float64 `json:"coverage"` // models_touched / model_count
	Ghosts        []Ghost `json:"ghosts,omitempty"`
}

// StructuralAnalysis is the complete output of one engine invocation
type StructuralAnalysis struct {
	Edges              []Edge           `json:"edges"`
	Landscape          Landscape        `json:"landscape"`
	ClaimsWithLeverage []EnrichedClaim  `json:"claims_with_leverage"`
	Patterns           PatternSet       `json:"patterns"`
	GhostAnalysis      GhostAnalysis    `json:"ghost_analysis"`
	Graph              GraphAnalysis    `json:"graph"`
	Ratios             CoreRatios       `json:"ratios"`
	Shape              ProblemStructure `json:"shape"`

	// Hoisted from Shape.Data for the rendering layer
	FloorAssumptions []FloorClaim      `json:"floor_assumptions,omitempty"`
	CentralConflict  *EnrichedConflict `json:"central_conflict,omitempty"`
	Tradeoffs        []TradeoffPair    `json:"tradeoffs,omitempty"`
}
