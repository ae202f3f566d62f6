package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"terrain/internal/model"
	"terrain/internal/pipeline"

	"github.com/spf13/cobra"
)

var batchOutputDir string

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze every artifact in a directory",
	Long: `Batch analyzes all *.json artifacts in a directory and writes one
analysis per artifact.

Example:
  terrain batch ./artifacts
  terrain batch ./artifacts --output-dir ./analyses`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./terrain-analyses", "output directory for analyses")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable analysis cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	p := pipeline.NewPipeline(cfg)

	processed, failed := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		src := filepath.Join(dir, entry.Name())
		analysis, err := p.AnalyzeFile(src)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", entry.Name(), err)
			continue
		}
		base := strings.TrimSuffix(entry.Name(), ".json")
		dst := filepath.Join(batchOutputDir, base+".analysis.json")
		if err := p.WriteJSON(analysis, dst); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", entry.Name(), err)
			continue
		}
		processed++
		if verbose {
			fmt.Fprintf(os.Stderr, "%s -> %s (%s)\n", entry.Name(), dst, analysis.Shape.Primary)
		}
	}

	fmt.Fprintf(os.Stderr, "Analyzed %d artifact(s), %d failed\n", processed, failed)
	if failed > 0 && processed == 0 {
		return fmt.Errorf("all %d artifact(s) failed", failed)
	}
	return nil
}
