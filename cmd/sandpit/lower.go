package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sandpit/internal/diag"
	"sandpit/internal/diagfmt"
	"sandpit/internal/erase"
	"sandpit/internal/source"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] <file>",
	Short: "Print the executable form of a snippet",
	Long:  `Erase static type syntax from a snippet and print the resulting executable form without running it`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLower,
}

func init() {
	lowerCmd.Flags().String("lang", "", "snippet language tag (default: from file extension)")
}

func runLower(cmd *cobra.Command, args []string) error {
	path := args[0]

	lang, err := cmd.Flags().GetString("lang")
	if err != nil {
		return fmt.Errorf("failed to get lang flag: %w", err)
	}
	if lang == "" {
		lang = langFromPath(path)
	}

	maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	rs, runnable := erase.RulesetFor(lang)
	if !runnable {
		return fmt.Errorf("language %q is not runnable", lang)
	}

	fset := source.NewFileSet()
	file := fset.Get(fset.AddVirtual(path, data))

	bag := diag.NewBag(maxDiag)
	lowered := erase.Lower(file, rs, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		bag.Sort()
		diagfmt.Pretty(os.Stderr, bag, fset, diagfmt.PrettyOpts{
			Color:   useColor(cmd),
			Context: true,
		})
		os.Exit(1)
	}

	fmt.Fprint(cmd.OutOrStdout(), lowered)
	return nil
}
