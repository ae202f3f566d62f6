package model

// Claim represents an atomic proposition extracted from model responses
type Claim struct {
	ID         string    `json:"id"`                   // Stable claim identifier
	Label      string    `json:"label,omitempty"`      // Short display label
	Text       string    `json:"text,omitempty"`       // Full claim text
	Supporters []int     `json:"supporters"`           // Indices of models endorsing the claim (unique)
	Type       ClaimType `json:"type,omitempty"`       // Nature of the claim
	Role       Role      `json:"role,omitempty"`       // Structural role (mapper-assigned, later recomputed)
	Challenges string    `json:"challenges,omitempty"` // ID of the claim this one disputes, if any
}

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimTypeAssertion   ClaimType = "assertion"   // Plain factual or prescriptive statement
	ClaimTypeConditional ClaimType = "conditional" // Holds only under a stated condition
	ClaimTypeCaveat      ClaimType = "caveat"      // Qualifies or limits another claim
)

// Role classifies a claim's structural function in the landscape
type Role string

const (
	RoleAnchor     Role = "anchor"     // Load-bearing claim other claims build on
	RoleBranch     Role = "branch"     // Active only under a conditional
	RoleChallenger Role = "challenger" // Disputes an established claim
	RoleSupplement Role = "supplement" // Additive detail, structurally light
)

// Conditional marks a claim whose applicability depends on context
type Conditional struct {
	ClaimID   string   `json:"claim_id"`            // The conditional claim
	Condition string   `json:"condition,omitempty"` // Human-readable condition text
	Branches  []string `json:"branches,omitempty"`  // Claim IDs that activate under the condition
}

// Ghost is a topic some models touched that never became a scored claim
type Ghost struct {
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Text   string `json:"text,omitempty"`
	Models []int  `json:"models,omitempty"` // Models whose responses hinted at it
}
