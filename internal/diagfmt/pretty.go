package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"lowerer/internal/diag"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>: <SEV> <CODE>: <Message>
// затем, если узел известен, строку `  at <node>`.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	if bag == nil {
		return
	}
	items := bag.Items()
	n := limit(len(items), opts.Max)
	for i := range n {
		PrettyOne(w, items[i], opts)
	}
	if n < len(items) {
		fmt.Fprintf(w, "... %d more diagnostics omitted\n", len(items)-n)
	}
}

// PrettyOne prints a single diagnostic in the Pretty layout.
func PrettyOne(w io.Writer, d diag.Diagnostic, opts PrettyOpts) {
	sev := severityColor(d.Severity)
	code := color.New(color.Bold)
	node := color.New(color.FgHiBlack)
	if !opts.Color {
		sev.DisableColor()
		code.DisableColor()
		node.DisableColor()
	} else {
		sev.EnableColor()
		code.EnableColor()
		node.EnableColor()
	}

	fmt.Fprintf(w, "%s: %s %s: %s\n",
		formatPath(d.File, opts.PathMode, opts.BaseDir),
		sev.Sprint(d.Severity.String()),
		code.Sprint(d.Code.ID()),
		d.Message,
	)
	if d.Node != "" {
		fmt.Fprintf(w, "  %s %q\n", node.Sprint("at"), d.Node)
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}
