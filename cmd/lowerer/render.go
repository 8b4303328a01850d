package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"lowerer/internal/diag"
	"lowerer/internal/diagfmt"
	"lowerer/internal/driver"
	"lowerer/internal/lower"
	"lowerer/internal/version"
)

// renderLowerText prints successful results. File headers appear when more than one
// document was lowered, mode headers when more than one mode was requested; quiet
// drops both.
func renderLowerText(out io.Writer, results []driver.LowerResult, modes []lower.Mode, quiet bool) {
	fileHeaders := len(results) > 1 && !quiet
	modeHeaders := len(modes) > 1 && !quiet
	header := color.New(color.Bold)

	first := true
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if fileHeaders {
			if !first {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, header.Sprintf("==> %s <==", r.Path))
		}
		first = false
		for i, mode := range r.Modes {
			if modeHeaders {
				fmt.Fprintln(out, header.Sprintf("-- %s --", mode))
			}
			fmt.Fprintln(out, r.Texts[i])
		}
	}
}

type jsonLowerResult struct {
	Path        string            `json:"path"`
	Output      map[string]string `json:"output,omitempty"`
	Cached      bool              `json:"cached,omitempty"`
	Error       string            `json:"error,omitempty"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics,omitempty"`
}

func renderLowerJSON(out io.Writer, results []driver.LowerResult) error {
	payload := make([]jsonLowerResult, 0, len(results))
	for _, r := range results {
		jr := jsonLowerResult{Path: r.Path, Cached: r.Cached}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		} else {
			jr.Output = make(map[string]string, len(r.Modes))
			for i, mode := range r.Modes {
				jr.Output[mode.String()] = r.Texts[i]
			}
		}
		if r.Bag != nil {
			for _, d := range r.Bag.Items() {
				jr.Diagnostics = append(jr.Diagnostics, diagfmt.MakeDiagnosticJSON(d, diagfmt.JSONOpts{}))
			}
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func printDiagnostics(out io.Writer, items []diag.Diagnostic) {
	opts := diagfmt.PrettyOpts{Color: !color.NoColor}
	for _, d := range items {
		diagfmt.PrettyOne(out, d, opts)
	}
}

// renderDiagnostics merges the per-file bags and prints them in the requested format.
func renderDiagnostics(w io.Writer, results []driver.LowerResult, limit int, format string, args []string) error {
	bag := diag.NewBag(limit)
	for _, r := range results {
		if r.Bag == nil {
			continue
		}
		for _, d := range r.Bag.Items() {
			bag.Add(d)
		}
	}
	bag.Sort()

	switch format {
	case "json":
		return diagfmt.JSON(w, bag, diagfmt.JSONOpts{})
	case "sarif":
		return diagfmt.Sarif(w, bag, diagfmt.SarifRunMeta{
			ToolName:       "lowerer",
			ToolVersion:    version.Version,
			InvocationArgs: args,
		})
	default:
		diagfmt.Pretty(w, bag, diagfmt.PrettyOpts{Color: !color.NoColor})
		return nil
	}
}
