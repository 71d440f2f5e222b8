package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"buildlens/internal/analysis"
	"buildlens/internal/pipeline"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest <directory>",
	Short: "Run golden report cases from a directory",
	Long: `Selftest treats every subdirectory holding an expected.txt as one
case: its *.json traces are analyzed (no time window) and the rendered
report must match the golden file. Newline style and a trailing newline
do not count as differences. On a mismatch the produced report is saved
as actual.txt next to the golden file.`,
	Args: cobra.ExactArgs(1),
	RunE: runSelftest,
}

func init() {
	selftestCmd.Flags().Int("top", 0, "rows per ranked report section (0 = 10)")
}

func runSelftest(cmd *cobra.Command, args []string) error {
	rootDir := args[0]

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readColorMode(colorFlag)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return fmt.Errorf("failed to get top flag: %w", err)
	}

	passMark := color.New(color.FgGreen, color.Bold)
	failMark := color.New(color.FgRed, color.Bold)
	if shouldColor(mode, os.Stdout) {
		passMark.EnableColor()
		failMark.EnableColor()
	} else {
		passMark.DisableColor()
		failMark.DisableColor()
	}

	cmd.SilenceUsage = true
	cases, err := listCases(rootDir)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return fmt.Errorf("no cases with expected.txt under %s", rootDir)
	}

	failed := 0
	for _, caseDir := range cases {
		name := filepath.Base(caseDir)
		ok, err := runCase(cmd, caseDir, top, maxDiagnostics)
		switch {
		case err != nil:
			failed++
			fmt.Fprintf(os.Stdout, "%s %s: %v\n", failMark.Sprint("FAIL"), name, err)
		case !ok:
			failed++
			fmt.Fprintf(os.Stdout, "%s %s (report saved to actual.txt)\n", failMark.Sprint("FAIL"), name)
		default:
			fmt.Fprintf(os.Stdout, "%s %s\n", passMark.Sprint("PASS"), name)
		}
	}
	fmt.Fprintf(os.Stdout, "%d/%d cases passed\n", len(cases)-failed, len(cases))
	if failed > 0 {
		return fmt.Errorf("%d of %d cases failed", failed, len(cases))
	}
	return nil
}

func listCases(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}
	var cases []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		caseDir := filepath.Join(root, e.Name())
		if _, err := os.Stat(filepath.Join(caseDir, "expected.txt")); err == nil {
			cases = append(cases, caseDir)
		}
	}
	sort.Strings(cases)
	return cases, nil
}

func runCase(cmd *cobra.Command, dir string, top, maxDiagnostics int) (bool, error) {
	want, err := os.ReadFile(filepath.Join(dir, "expected.txt"))
	if err != nil {
		return false, err
	}

	res, err := pipeline.Analyze(cmd.Context(), pipeline.Request{
		Root:           dir,
		MaxDiagnostics: maxDiagnostics,
	}, analysis.Options{Top: top})
	if err != nil {
		return false, err
	}

	var sb strings.Builder
	if err := res.Report.Render(&sb, analysis.RenderOptions{}); err != nil {
		return false, err
	}
	got := sb.String()

	if reportsMatch(got, string(want)) {
		// Уберём устаревший actual.txt от прошлого провала.
		_ = os.Remove(filepath.Join(dir, "actual.txt"))
		return true, nil
	}
	if err := os.WriteFile(filepath.Join(dir, "actual.txt"), []byte(got), 0o600); err != nil {
		return false, err
	}
	return false, nil
}

// reportsMatch сравнивает отчёты, не придираясь к стилю переводов строк.
func reportsMatch(got, want string) bool {
	normalize := func(s string) string {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		return strings.TrimRight(s, "\n")
	}
	return normalize(got) == normalize(want)
}
