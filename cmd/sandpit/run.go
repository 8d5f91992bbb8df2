package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sandpit/internal/diag"
	"sandpit/internal/diagfmt"
	"sandpit/internal/erase"
	"sandpit/internal/interp"
	"sandpit/internal/lowercache"
	"sandpit/internal/source"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <file>",
	Short: "Lower a snippet and execute it in the sandbox",
	Long:  `Lower a typed snippet to its executable form, run it in an isolated scope and print the captured transcript`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSnippet,
}

func init() {
	runCmd.Flags().String("lang", "", "snippet language tag (default: from file extension)")
	runCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	runCmd.Flags().Bool("no-cache", false, "skip the lowered-form disk cache")
	runCmd.Flags().String("cache-dir", "", "override the cache directory")
}

// langFromPath выводит тег языка из расширения файла.
func langFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx":
		return "ts"
	case ".js", ".mjs":
		return "js"
	}
	return ""
}

func openCache(cmd *cobra.Command) *lowercache.Cache {
	noCache, _ := cmd.Flags().GetBool("no-cache")
	if noCache {
		return nil
	}
	if dir, _ := cmd.Flags().GetString("cache-dir"); dir != "" {
		c, err := lowercache.OpenAt(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
			return nil
		}
		return c
	}
	c, err := lowercache.Open("sandpit")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
		return nil
	}
	return c
}

// lowerCached понижает текст, переиспользуя дисковый кеш. Запись в кеше
// означает успешное понижение: диагностики там не хранятся.
func lowerCached(text, lang string, cache *lowercache.Cache, maxDiag int) (string, *diag.Bag, *source.FileSet, source.FileID) {
	rs, _ := erase.RulesetFor(lang)
	key := lowercache.Key(text, rs)

	fset := source.NewFileSet()
	id := fset.AddVirtual("snippet", []byte(text))

	if lowered, hit, err := cache.Get(key, rs); err == nil && hit {
		return lowered, diag.NewBag(maxDiag), fset, id
	}

	bag := diag.NewBag(maxDiag)
	lowered := erase.Lower(fset.Get(id), rs, diag.BagReporter{Bag: bag})
	if !bag.HasErrors() {
		if err := cache.Put(key, &lowercache.Payload{
			Ruleset: uint8(rs),
			Lowered: lowered,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cache write failed: %v\n", err)
		}
	}
	return lowered, bag, fset, id
}

func runSnippet(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

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

	manifest, _, err := loadProjectManifest(filepath.Dir(path))
	if err != nil {
		return err
	}
	budget := effectiveBudget(stepBudget(cmd), manifest)

	colored := useColor(cmd)
	lowered, bag, fset, _ := lowerCached(string(data), lang, openCache(cmd), maxDiag)
	if bag.HasErrors() {
		bag.Sort()
		diagfmt.Pretty(os.Stderr, bag, fset, diagfmt.PrettyOpts{
			Color:   colored,
			Context: true,
		})
		os.Exit(1)
	}

	execID := fset.AddVirtual("snippet#lowered", []byte(lowered))
	res := interp.Run(cmd.Context(), fset.Get(execID), interp.Options{StepBudget: budget})

	if format == "json" {
		if err := diagfmt.TranscriptJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	} else {
		diagfmt.Transcript(cmd.OutOrStdout(), res, diagfmt.PrettyOpts{Color: colored})
	}
	if res.Failed {
		os.Exit(1)
	}
	return nil
}
