package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"terrain/internal/model"
	"terrain/internal/pipeline"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	outJSON  string
	outMD    string
	asYAML   bool
	noCache  bool
	noFooter bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <artifact.json>",
	Short: "Classify the landscape shape of a mapper artifact",
	Long: `Analyze reads a mapper artifact (claims, edges, conditionals, ghosts,
landscape metrics) and classifies the decision landscape:
- Computes leverage, keystone and isolation scores per claim
- Analyzes the claim graph (components, chains, hubs, cut vertices)
- Assigns one of five primary shapes with confidence and evidence
- Detects secondary patterns (dissent, keystone, chain, fragility, ...)

Example:
  terrain analyze artifact.json
  terrain analyze artifact.json --json analysis.json --md analysis.md
  terrain analyze artifact.json --yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of JSON on stdout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable analysis cache")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Cache: %v\n\n", cfg.Cache.Enabled)
	}

	p := pipeline.NewPipeline(cfg)
	analysis, err := p.AnalyzeFile(path)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Shape: %s (confidence %.2f)\n", analysis.Shape.Primary, analysis.Shape.Confidence)
		fmt.Fprintf(os.Stderr, "Peaks: %d, patterns: %d\n\n", len(analysis.Shape.Peaks), len(analysis.Shape.Patterns))
	}

	if outJSON != "" {
		if err := p.WriteJSON(analysis, outJSON); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "JSON written to %s\n", outJSON)
	}
	if outMD != "" {
		if err := p.WriteMarkdown(analysis, outMD); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Markdown written to %s\n", outMD)
	}
	if outJSON == "" {
		if asYAML {
			data, err := yaml.Marshal(analysis)
			if err != nil {
				return fmt.Errorf("encode analysis: %w", err)
			}
			fmt.Print(string(data))
		} else {
			data, err := json.MarshalIndent(analysis, "", "  ")
			if err != nil {
				return fmt.Errorf("encode analysis: %w", err)
			}
			fmt.Println(string(data))
		}
	}
	return nil
}
