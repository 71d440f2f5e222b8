package analysis

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fatih/color"

	"buildlens/internal/timeline"
)

// RenderOptions control report presentation. Color is explicit — the
// renderer never sniffs the terminal; callers resolve the mode.
type RenderOptions struct {
	Color bool
}

type styles struct {
	header *color.Color
	figure *color.Color
}

func newStyles(enabled bool) styles {
	st := styles{
		header: color.New(color.FgCyan, color.Bold),
		figure: color.New(color.FgYellow),
	}
	if enabled {
		st.header.EnableColor()
		st.figure.EnableColor()
	} else {
		st.header.DisableColor()
		st.figure.DisableColor()
	}
	return st
}

// Заголовки индивидуальных секций.
var slowestHeaders = map[timeline.Kind]string{
	timeline.KindParseTemplate:       "**** Templates that took longest to parse:",
	timeline.KindParseClass:          "**** Classes that took longest to parse:",
	timeline.KindInstantiateClass:    "**** Classes that took longest to instantiate:",
	timeline.KindInstantiateFunction: "**** Functions that took longest to instantiate:",
	timeline.KindOptModule:           "**** Modules that took longest to optimize:",
	timeline.KindOptFunction:         "**** Functions that took longest to optimize:",
}

// Render writes the report sections in fixed order: wall time, per-kind
// totals, per-file parse aggregate, template sets, function sets, then the
// individual top-N per kind. The same report always renders to identical
// bytes; the self-test harness diffs on that.
func (r *Report) Render(w io.Writer, opts RenderOptions) error {
	bw := bufio.NewWriter(w)
	st := newStyles(opts.Color)

	fmt.Fprintf(bw, "%s %s\n",
		st.header.Sprint("**** Total wall time:"),
		st.figure.Sprintf("%d ms", msOf(r.WallTotal)))

	fmt.Fprintln(bw, st.header.Sprint("**** Time spent per activity:"))
	if len(r.KindTotals) == 0 {
		fmt.Fprintln(bw, "  (none)")
	}
	for _, kt := range r.KindTotals {
		fmt.Fprintf(bw, "  %s: %s (%s)\n",
			st.figure.Sprintf("%d ms", msOf(kt.Duration)), kt.Kind, countNoun(kt.Count, "event"))
	}

	st.groupSection(bw, "**** Files that took longest to parse:", r.FileRows)
	st.groupSection(bw, "**** Template sets that took longest to instantiate:", r.TemplateSets)
	st.groupSection(bw, "**** Function sets that took longest to optimize:", r.FunctionSets)

	for _, ranking := range r.Slowest {
		fmt.Fprintln(bw, st.header.Sprint(slowestHeaders[ranking.Kind]))
		if len(ranking.Rows) == 0 {
			fmt.Fprintln(bw, "  (none)")
			continue
		}
		for _, row := range ranking.Rows {
			fmt.Fprintf(bw, "  %s: %s\n", st.figure.Sprintf("%d ms", msOf(row.Duration)), row.Name)
		}
	}

	return bw.Flush()
}

func (st styles) groupSection(w io.Writer, header string, rows []GroupRow) {
	fmt.Fprintln(w, st.header.Sprint(header))
	if len(rows) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, row := range rows {
		avg := row.Duration / int64(row.Count)
		fmt.Fprintf(w, "  %s: %s (%s, avg %d ms)\n",
			st.figure.Sprintf("%d ms", msOf(row.Duration)), row.Name, countNoun(row.Count, "time"), msOf(avg))
	}
}

func msOf(us int64) int64 {
	return us / 1000
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
