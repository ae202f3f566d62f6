package model

// ShapeClass is the coarse classification of the decision landscape
type ShapeClass string

const (
	ShapeConvergent  ShapeClass = "convergent"  // One dominant position (or mutually reinforcing peaks)
	ShapeForked      ShapeClass = "forked"      // Peaks in direct conflict
	ShapeParallel    ShapeClass = "parallel"    // Independent peaks on separate dimensions
	ShapeConstrained ShapeClass = "constrained" // Peaks bound by a tradeoff
	ShapeSparse      ShapeClass = "sparse"      // No claim reaches peak support
)

// PatternType identifies a secondary structural signature
type PatternType string

const (
	PatternDissent     PatternType = "dissent"
	PatternChallenged  PatternType = "challenged"
	PatternKeystone    PatternType = "keystone"
	PatternChain       PatternType = "chain"
	PatternFragile     PatternType = "fragile"
	PatternConditional PatternType = "conditional"
	PatternOrphaned    PatternType = "orphaned"
)

// Severity indicates how strongly a secondary pattern registered
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// SecondaryPattern is a detector hit with its transparent backing data
type SecondaryPattern struct {
	Type        PatternType    `json:"type"`
	Severity    Severity       `json:"severity"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
}

// DataPattern tags the variant carried in a shape's detail payload
type DataPattern string

const (
	DataSettled     DataPattern = "settled"
	DataLinear      DataPattern = "linear"
	DataKeystone    DataPattern = "keystone"
	DataContested   DataPattern = "contested"
	DataTradeoff    DataPattern = "tradeoff"
	DataDimensional DataPattern = "dimensional"
	DataExploratory DataPattern = "exploratory"
	DataContextual  DataPattern = "contextual"
)

// ShapeData is the closed union of shape-specific detail payloads.
// Exactly one concrete type exists per DataPattern.
type ShapeData interface {
	Pattern() DataPattern
}

// ClassificationOverride records a disagreement between the primary
// classifier and the builder-level evidence. The Primary label is kept as
// classified; the payload comes from the fallback builder.
type ClassificationOverride struct {
	Reason          string     `json:"reason"`
	OriginalPrimary ShapeClass `json:"original_primary"`
}

// ProblemStructure is the classified shape of the landscape
type ProblemStructure struct {
	Primary          ShapeClass              `json:"primary"`
	Confidence       float64                 `json:"confidence"`
	Patterns         []SecondaryPattern      `json:"patterns"`
	Peaks            []string                `json:"peaks"`
	PeakRelationship string                  `json:"peak_relationship,omitempty"`
	Evidence         []string                `json:"evidence"`
	Data             ShapeData               `json:"data"`
	Override         *ClassificationOverride `json:"override,omitempty"`
}

// FloorClaim is a low-support claim listed as a background assumption
type FloorClaim struct {
	ID           string  `json:"id"`
	Label        string  `json:"label,omitempty"`
	SupportRatio float64 `json:"support_ratio"`
	IsContested  bool    `json:"is_contested"`
}

// ChainStep is one link of a prerequisite chain
type ChainStep struct {
	ClaimID     string `json:"claim_id"`
	Supporters  int    `json:"supporters"`
	Weak        bool   `json:"weak"` // Single supporter
	CascadeSize int    `json:"cascade_size"`
}

// DimensionCluster is one independent dimension of a parallel landscape
type DimensionCluster struct {
	Lead    string   `json:"lead"` // Highest-support claim in the cluster
	Members []string `json:"members"`
}

// ConditionalBranch pairs a conditional claim with its dependent branches
type ConditionalBranch struct {
	ClaimID   string   `json:"claim_id"`
	Condition string   `json:"condition,omitempty"`
	Branches  []string `json:"branches"`
}

// SettledData backs a convergent landscape with one dominant position
type SettledData struct {
	Kind             DataPattern  `json:"pattern"`
	Anchor           string       `json:"anchor"`
	Peaks            []string     `json:"peaks"`
	FloorAssumptions []FloorClaim `json:"floor_assumptions"`
	Reinforcements   []Edge       `json:"reinforcements,omitempty"`
}

func (SettledData) Pattern() DataPattern { return DataSettled }

// LinearData backs a convergent landscape organized as a prerequisite chain
type LinearData struct {
	Kind      DataPattern `json:"pattern"`
	Steps     []ChainStep `json:"steps"`
	WeakLinks []string    `json:"weak_links,omitempty"`
}

func (LinearData) Pattern() DataPattern { return DataLinear }

// KeystoneData backs a convergent landscape hanging off one hub claim
type KeystoneData struct {
	Kind         DataPattern `json:"pattern"`
	Keystone     string      `json:"keystone"`
	SupportRatio float64     `json:"support_ratio"`
	Dependents   []string    `json:"dependents"`
	CascadeDepth int         `json:"cascade_depth"`
}

func (KeystoneData) Pattern() DataPattern { return DataKeystone }

// ContestedData backs a forked landscape
type ContestedData struct {
	Kind            DataPattern        `json:"pattern"`
	Axes            []EnrichedConflict `json:"axes"`
	CentralConflict *EnrichedConflict  `json:"central_conflict,omitempty"`
	Clusters        []ConflictCluster  `json:"clusters,omitempty"`
}

func (ContestedData) Pattern() DataPattern { return DataContested }

// TradeoffData backs a constrained landscape
type TradeoffData struct {
	Kind  DataPattern    `json:"pattern"`
	Pairs []TradeoffPair `json:"pairs"`
}

func (TradeoffData) Pattern() DataPattern { return DataTradeoff }

// DimensionalData backs a parallel landscape
type DimensionalData struct {
	Kind       DataPattern        `json:"pattern"`
	Dimensions []DimensionCluster `json:"dimensions"`
}

func (DimensionalData) Pattern() DataPattern { return DataDimensional }

// ExploratoryData backs a sparse landscape
type ExploratoryData struct {
	Kind        DataPattern        `json:"pattern"`
	Clusters    []DimensionCluster `json:"clusters"`
	OuterClaims []string           `json:"outer_claims,omitempty"` // Isolated or single-supporter claims
	HillDensity float64            `json:"hill_density"`
}

func (ExploratoryData) Pattern() DataPattern { return DataExploratory }

// ContextualData backs a sparse landscape dominated by conditionals
type ContextualData struct {
	Kind         DataPattern         `json:"pattern"`
	Conditionals []ConditionalBranch `json:"conditionals"`
	BranchCount  int                 `json:"branch_count"`
}

func (ContextualData) Pattern() DataPattern { return DataContextual }
