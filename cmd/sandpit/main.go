package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sandpit/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sandpit",
	Short: "Run and explore typed code snippets in a sandbox",
	Long:  `Sandpit lowers typed snippets to an executable form and runs them in an isolated scope, capturing all output into a transcript`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(guideCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Int("step-budget", 0, "evaluation step budget per run (0=default)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor разрешает флаг --color с учётом типа stdout.
func useColor(cmd *cobra.Command) bool {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		mode = "auto"
	}
	switch mode {
	case "on":
		color.NoColor = false
		return true
	case "off":
		color.NoColor = true
		return false
	default:
		return isTerminal(os.Stdout) && !color.NoColor
	}
}

func stepBudget(cmd *cobra.Command) int {
	n, err := cmd.Root().PersistentFlags().GetInt("step-budget")
	if err != nil {
		return 0
	}
	return n
}
