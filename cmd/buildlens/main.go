package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"buildlens/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "buildlens",
	Short: "Clang build time analyzer",
	Long:  `buildlens aggregates clang -ftime-trace output across a build and reports where the time went`,
}

func main() {
	// Версия для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(selftestCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show stage timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile of the run to the given path")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile of the run to the given path")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace of the run to the given path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
