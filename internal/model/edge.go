package model

// Edge is a directed, typed relationship between two claims
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Type EdgeType `json:"type"`
}

// EdgeType classifies the relationship an edge carries
type EdgeType string

const (
	EdgeSupports     EdgeType = "supports"     // From reinforces To
	EdgeConflicts    EdgeType = "conflicts"    // From disputes To
	EdgeTradeoff     EdgeType = "tradeoff"     // From and To trade off against each other
	EdgePrerequisite EdgeType = "prerequisite" // From must hold for To to apply
)

// Key returns the identity used to dedupe edges before traversal
func (e Edge) Key() string {
	return e.From + "|" + e.To + "|" + string(e.Type)
}
