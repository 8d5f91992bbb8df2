package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sandpit/internal/session"
	"sandpit/internal/ui"
)

var playCmd = &cobra.Command{
	Use:   "play [flags] <file>",
	Short: "Open an interactive playground for a snippet",
	Long:  `Open a terminal playground: toggle between formatted and editable views, run the snippet and watch the transcript`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().String("lang", "", "snippet language tag (default: from file extension)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	path := args[0]

	if !isTerminal(os.Stdout) {
		return fmt.Errorf("play needs a terminal; use 'sandpit run' for non-interactive output")
	}

	lang, err := cmd.Flags().GetString("lang")
	if err != nil {
		return fmt.Errorf("failed to get lang flag: %w", err)
	}
	if lang == "" {
		lang = langFromPath(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	manifest, _, err := loadProjectManifest(filepath.Dir(path))
	if err != nil {
		return err
	}
	if lang == "" && manifest != nil {
		lang = manifest.Config.Playground.Language
	}
	budget := effectiveBudget(stepBudget(cmd), manifest)

	sess := session.New(
		session.Snippet{SourceText: string(data), DeclaredLanguage: lang},
		session.WithStepBudget(budget),
	)

	model := ui.NewPlaygroundModel(filepath.Base(path), sess)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("playground failed: %w", err)
	}
	return nil
}
