package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"terrain/internal/model"
)

// topLeverageRows caps the leverage table in the Markdown report
const topLeverageRows = 10

// Renderer produces the human-readable Markdown report
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// Render formats the analysis as Markdown
func (r *Renderer) Render(a *model.StructuralAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Landscape Analysis\n\n")
	fmt.Fprintf(&b, "**Shape:** %s (confidence %.2f)\n\n", a.Shape.Primary, a.Shape.Confidence)
	if a.Shape.PeakRelationship != "" {
		fmt.Fprintf(&b, "**Peak relationship:** %s\n\n", a.Shape.PeakRelationship)
	}
	if a.Shape.Override != nil {
		fmt.Fprintf(&b, "> ⚠️ Classification override: %s (classified %q, data pattern %q)\n\n",
			a.Shape.Override.Reason, a.Shape.Override.OriginalPrimary, a.Shape.Data.Pattern())
	}

	if len(a.Shape.Evidence) > 0 {
		b.WriteString("## Evidence\n\n")
		for _, line := range a.Shape.Evidence {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	if len(a.Shape.Patterns) > 0 {
		b.WriteString("## Secondary Patterns\n\n")
		b.WriteString("| Pattern | Severity | Detail |\n")
		b.WriteString("|---------|----------|--------|\n")
		for _, p := range a.Shape.Patterns {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Type, p.Severity, p.Description)
		}
		b.WriteString("\n")
	}

	r.renderClaims(&b, a)
	r.renderStructure(&b, a)

	if r.includeFooter {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "_%d claims across %d models; %d edges; %d graph component(s)._\n",
			len(a.ClaimsWithLeverage), a.Landscape.ModelCount, len(a.Edges), a.Graph.ComponentCount)
	}
	return b.String()
}

func (r *Renderer) renderClaims(b *strings.Builder, a *model.StructuralAnalysis) {
	if len(a.ClaimsWithLeverage) == 0 {
		return
	}
	claims := make([]model.EnrichedClaim, len(a.ClaimsWithLeverage))
	copy(claims, a.ClaimsWithLeverage)
	sort.SliceStable(claims, func(i, j int) bool {
		return claims[i].Leverage > claims[j].Leverage
	})
	if len(claims) > topLeverageRows {
		claims = claims[:topLeverageRows]
	}

	b.WriteString("## Top Claims by Leverage\n\n")
	b.WriteString("| Claim | Role | Support | Leverage | Flags |\n")
	b.WriteString("|-------|------|---------|----------|-------|\n")
	for _, c := range claims {
		label := c.Label
		if label == "" {
			label = c.ID
		}
		fmt.Fprintf(b, "| %s | %s | %.0f%% | %.2f | %s |\n",
			label, c.Role, c.SupportRatio*100, c.Leverage, strings.Join(claimFlags(c), ", "))
	}
	b.WriteString("\n")
}

func claimFlags(c model.EnrichedClaim) []string {
	var flags []string
	if c.IsKeystone {
		flags = append(flags, "keystone")
	}
	if c.IsLeverageInversion {
		flags = append(flags, "inverted")
	}
	if c.IsContested {
		flags = append(flags, "contested")
	}
	if c.IsOutlier {
		flags = append(flags, "outlier")
	}
	if c.IsIsolated {
		flags = append(flags, "isolated")
	}
	return flags
}

func (r *Renderer) renderStructure(b *strings.Builder, a *model.StructuralAnalysis) {
	if a.CentralConflict != nil {
		b.WriteString("## Central Conflict\n\n")
		fmt.Fprintf(b, "**%s** — %s dynamics, significance %.2f\n\n",
			a.CentralConflict.Axis, a.CentralConflict.Dynamics, a.CentralConflict.Significance)
	}

	if len(a.Tradeoffs) > 0 {
		b.WriteString("## Tradeoffs\n\n")
		for _, t := range a.Tradeoffs {
			if t.Dominant != "" {
				fmt.Fprintf(b, "- %s (leaning %q)\n", t.Axis, t.Dominant)
			} else {
				fmt.Fprintf(b, "- %s (even)\n", t.Axis)
			}
		}
		b.WriteString("\n")
	}

	if len(a.FloorAssumptions) > 0 {
		b.WriteString("## Floor Assumptions\n\n")
		for _, f := range a.FloorAssumptions {
			label := f.Label
			if label == "" {
				label = f.ID
			}
			note := ""
			if f.IsContested {
				note = " (contested)"
			}
			fmt.Fprintf(b, "- %s — %.0f%% support%s\n", label, f.SupportRatio*100, note)
		}
		b.WriteString("\n")
	}

	if a.GhostAnalysis.Count > 0 {
		b.WriteString("## Ghost Topics\n\n")
		fmt.Fprintf(b, "%d topic(s) surfaced without becoming claims (%.0f%% model coverage):\n\n",
			a.GhostAnalysis.Count, a.GhostAnalysis.Coverage*100)
		for _, g := range a.GhostAnalysis.Ghosts {
			label := g.Label
			if label == "" {
				label = g.ID
			}
			fmt.Fprintf(b, "- %s\n", label)
		}
		b.WriteString("\n")
	}
}
