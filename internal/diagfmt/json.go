package diagfmt

import (
	"encoding/json"
	"io"

	"lowerer/internal/diag"
)

// LocationJSON представляет местоположение диагностики для JSON
type LocationJSON struct {
	File string `json:"file"`
	Node string `json:"node,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// MakeDiagnosticJSON converts one diagnostic.
func MakeDiagnosticJSON(d diag.Diagnostic, opts JSONOpts) DiagnosticJSON {
	return DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: LocationJSON{
			File: formatPath(d.File, opts.PathMode, opts.BaseDir),
			Node: d.Node,
		},
	}
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	var items []diag.Diagnostic
	if bag != nil {
		items = bag.Items()
	}
	n := limit(len(items), opts.Max)
	diagnostics := make([]DiagnosticJSON, 0, n)
	for i := range n {
		diagnostics = append(diagnostics, MakeDiagnosticJSON(items[i], opts))
	}
	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, opts))
}
