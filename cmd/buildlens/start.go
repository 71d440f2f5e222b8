package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"buildlens/internal/session"
)

var startCmd = &cobra.Command{
	Use:   "start <directory>",
	Short: "Begin a measurement session in a build directory",
	Long: `Start stamps the build directory with a session marker. A later
"buildlens analyze" only ingests traces written after the stamp, so a
stale trace from last week never skews the report.`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	dir := args[0]

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readColorMode(colorFlag)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true
	sess, err := session.Start(dir, time.Now())
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if quiet {
		return nil
	}

	hint := color.New(color.FgCyan)
	if shouldColor(mode, os.Stdout) {
		hint.EnableColor()
	} else {
		hint.DisableColor()
	}

	fmt.Fprintf(os.Stdout, "session started in %s at %s\n", dir, sess.StartTime().Format(time.RFC3339))
	hint.Fprintln(os.Stdout, "build with clang's -ftime-trace enabled, then run:")
	hint.Fprintf(os.Stdout, "  buildlens analyze %s\n", dir)
	return nil
}
