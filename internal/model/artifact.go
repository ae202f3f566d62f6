package model

// Semantic holds the mapper's extraction output for one decision landscape
type Semantic struct {
	Claims       []Claim       `json:"claims"`
	Edges        []Edge        `json:"edges"`
	Conditionals []Conditional `json:"conditionals,omitempty"`
	Ghosts       []Ghost       `json:"ghosts,omitempty"`
}

// Landscape carries the resolved numeric context from the geometric pipeline.
// It is produced by an external collaborator; this engine only reads it.
type Landscape struct {
	ModelCount       int     `json:"model_count"`
	ConvergenceRatio float64 `json:"convergence_ratio,omitempty"`
}

// Artifact is the complete input to one analysis invocation
type Artifact struct {
	Semantic  Semantic  `json:"semantic"`
	Landscape Landscape `json:"landscape"`
}
