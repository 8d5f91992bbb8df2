package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sandpit/internal/diagfmt"
	"sandpit/internal/guide"
)

var guideCmd = &cobra.Command{
	Use:   "guide [flags] <file.md|directory>",
	Short: "Execute every code block of a markdown guide",
	Long:  `Extract fenced code blocks from a markdown guide (or every guide in a directory), run each one in its own sandbox and report the transcripts`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGuide,
}

func init() {
	guideCmd.Flags().Int("jobs", 0, "max parallel block runs (0=auto)")
	guideCmd.Flags().Bool("show-skipped", false, "list blocks whose language is not runnable")
}

func runGuide(cmd *cobra.Command, args []string) error {
	path := args[0]

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	showSkipped, err := cmd.Flags().GetBool("show-skipped")
	if err != nil {
		return fmt.Errorf("failed to get show-skipped flag: %w", err)
	}

	manifest, _, err := loadProjectManifest(filepath.Dir(path))
	if err != nil {
		return err
	}
	if jobs == 0 && manifest != nil {
		jobs = manifest.Config.Guide.Jobs
	}
	budget := effectiveBudget(stepBudget(cmd), manifest)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	var paths []string
	if info.IsDir() {
		paths, err = guide.ListGuides(path)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no guides found in %s", path)
		}
	} else {
		paths = []string{path}
	}

	colored := useColor(cmd)
	opts := guide.RunOptions{Jobs: jobs, StepBudget: budget}

	failed := 0
	for _, p := range paths {
		g, err := guide.Load(p)
		if err != nil {
			return err
		}
		results, err := guide.RunAll(cmd.Context(), g, opts)
		if err != nil {
			return err
		}
		failed += printGuideResults(cmd, g, results, colored, showSkipped)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d block(s) failed\n", failed)
		os.Exit(1)
	}
	return nil
}

func printGuideResults(cmd *cobra.Command, g *guide.Guide, results []guide.BlockResult, colored, showSkipped bool) int {
	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		if r.Skipped {
			if showSkipped {
				fmt.Fprintf(out, "%s: block %d (line %d): skipped (%s)\n",
					g.Path, r.Block.Index, r.Block.Line, r.Block.Language)
			}
			continue
		}
		fmt.Fprintf(out, "%s: block %d (line %d):\n", g.Path, r.Block.Index, r.Block.Line)
		diagfmt.Transcript(out, r.Result, diagfmt.PrettyOpts{Color: colored})
		if r.Result.Failed {
			failed++
		}
	}
	return failed
}
