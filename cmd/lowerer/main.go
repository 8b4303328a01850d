package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lowerer/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "lowerer",
	Short: "Render syntax trees back to text",
	Long: `lowerer turns syntax trees into text, either concise (close to the surface syntax)
or accurate (every operand parenthesized so the tree shape is unambiguous)`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setupSession,
	PersistentPostRunE: teardownSession,
}

// main registers subcommands and persistent flags, then executes the root command.
// If command execution returns an error, it is printed and the process exits with status 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "path to lowerer.toml (default: search upwards from the working directory)")
	registerTraceFlags(rootCmd)
	registerProfileFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		dumpTraceOnFailure(os.Stderr)
		_ = teardownSession(rootCmd, nil)
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	prefix := color.New(color.FgRed, color.Bold).Sprint("error:")
	fmt.Fprintf(os.Stderr, "%s %v\n", prefix, err)
}

// applyColorFlag configures fatih/color globally from --color.
func applyColorFlag(cmd *cobra.Command) error {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout) || !isTerminal(os.Stderr)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
