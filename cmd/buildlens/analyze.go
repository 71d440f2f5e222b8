package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"buildlens/internal/analysis"
	"buildlens/internal/config"
	"buildlens/internal/diag"
	"buildlens/internal/pipeline"
	"buildlens/internal/scan"
	"buildlens/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] [directory]",
	Short: "Aggregate clang time-traces and report where build time went",
	Long: `Analyze scans a build directory for clang -ftime-trace JSON files,
reconstructs one timeline across all of them and prints ranked totals:
wall time, per-activity cost, most expensive headers, template and
function sets, and the slowest individual events.

With an active session (see "buildlens start") only traces written after
the session stamp are ingested; --all ignores the session and takes
every trace under the directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("top", 0, "rows per ranked report section (0 = config or 10)")
	analyzeCmd.Flags().Int("jobs", 0, "max parallel parse workers (0=auto)")
	analyzeCmd.Flags().Bool("all", false, "ignore the session window and scan every trace")
	analyzeCmd.Flags().String("output", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().String("ui", "auto", "progress view while parsing (auto|on|off)")
	analyzeCmd.Flags().String("config", "", "explicit buildlens.toml path")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readColorMode(colorFlag)
	if err != nil {
		return err
	}

	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return fmt.Errorf("failed to get top flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	uiChoice, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	// Дальше только ошибки выполнения — usage при них не поможет.
	cmd.SilenceUsage = true

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// Флаги сильнее конфига, конфиг сильнее значений по умолчанию.
	cfg, err := loadConfig(dir, configPath)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("top") && cfg.HasTop() {
		top = cfg.Analysis.Top
	}
	if !cmd.Flags().Changed("jobs") && cfg.HasJobs() {
		jobs = cfg.Analysis.Jobs
	}
	if !cmd.Root().PersistentFlags().Changed("color") && cfg.HasColor() {
		// Значение проверено при загрузке конфига.
		mode = colorMode(cfg.Report.Color)
	}

	var window scan.Window
	if !all {
		sess, err := session.Load(dir)
		switch {
		case errors.Is(err, session.ErrNoSession):
			d := diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.SessionMissing,
				Path:     session.Path(dir),
				Message:  `no session; run "buildlens start" first or pass --all`,
			}
			fmt.Fprintln(os.Stderr, d.String())
			return fmt.Errorf("no session in %s", dir)
		case errors.Is(err, session.ErrCorruptSession):
			d := diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.SessionCorrupt,
				Path:     session.Path(dir),
				Message:  `session unreadable; re-run "buildlens start" or pass --all`,
			}
			fmt.Fprintln(os.Stderr, d.String())
			return fmt.Errorf("corrupt session in %s", dir)
		case err != nil:
			return err
		default:
			window = scan.Window{Start: sess.StartTime()}
		}
	}

	// Список файлов собираем заранее: его показывает прогресс-вью.
	files, err := scan.Files(dir, window)
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}

	req := pipeline.Request{
		Root:           dir,
		Files:          files,
		Window:         window,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
	}
	opts := analysis.Options{Top: top}

	useTUI := shouldUseTUI(uiChoice) && !quiet && len(files) > 1
	started := time.Now()
	var res pipeline.AnalyzeResult
	if useTUI {
		res, err = runAnalyzeWithUI(cmd.Context(), "buildlens "+dir, files, req, opts)
	} else {
		res, err = pipeline.Analyze(cmd.Context(), req, opts)
	}
	elapsed := time.Since(started)

	printDiagnostics(os.Stderr, res.Bag, quiet)

	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyTraceSet) {
			return fmt.Errorf("no usable traces under %s", dir)
		}
		return err
	}

	out := io.Writer(os.Stdout)
	reportColor := shouldColor(mode, os.Stdout)
	var outFile *os.File
	if output != "" {
		outFile, err = os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		out = outFile
		// В файл красим только по явному запросу.
		reportColor = mode == colorOn
	}
	if err := res.Report.Render(out, analysis.RenderOptions{Color: reportColor}); err != nil {
		if outFile != nil {
			_ = outFile.Close()
		}
		return err
	}
	if outFile != nil {
		if err := outFile.Close(); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
	}

	if showTimings {
		printStageTimings(os.Stderr, res.Timings)
	}
	if !quiet {
		p := message.NewPrinter(language.English)
		p.Fprintf(os.Stderr, "done in %.1f ms: %d traces scanned, %d parsed, %d skipped, %d events\n",
			toMillis(elapsed), res.FilesScanned, res.FilesParsed, res.FilesSkipped, res.EventCount)
	}
	return nil
}

func loadConfig(dir, explicit string) (config.Config, error) {
	if explicit != "" {
		return config.Load(explicit)
	}
	path, ok, err := config.Find(dir)
	if err != nil || !ok {
		return config.Config{}, err
	}
	return config.Load(path)
}

// printDiagnostics выводит накопленные предупреждения, отсортировав их.
// В тихом режиме остаются только ошибки.
func printDiagnostics(out io.Writer, bag *diag.Bag, quiet bool) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	for _, d := range bag.Items() {
		if quiet && d.Severity < diag.SevError {
			continue
		}
		fmt.Fprintln(out, d.String())
	}
}
