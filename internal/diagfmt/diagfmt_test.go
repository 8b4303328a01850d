package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"lowerer/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.LowUnknownOperation, Message: "unknown operation", File: "docs/a.json", Node: "binaryQuux"})
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.DocMissingField, Message: "missing field", File: "docs/b.yaml"})
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.LowUnknownOperation, Message: "again", File: ""})
	return bag
}

func TestPrettyPlain(t *testing.T) {
	var out bytes.Buffer
	Pretty(&out, sampleBag(), PrettyOpts{PathMode: PathModeBasename})
	want := "a.json: ERROR LOW3001: unknown operation\n" +
		"  at \"binaryQuux\"\n" +
		"b.yaml: WARNING DOC2004: missing field\n" +
		"<input>: ERROR LOW3001: again\n"
	if got := out.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyMax(t *testing.T) {
	var out bytes.Buffer
	Pretty(&out, sampleBag(), PrettyOpts{Max: 1})
	got := out.String()
	if !strings.HasSuffix(got, "... 2 more diagnostics omitted\n") {
		t.Fatalf("missing truncation note: %q", got)
	}
	if strings.Count(got, "LOW3001") != 1 {
		t.Fatalf("expected one diagnostic, got %q", got)
	}
}

func TestPrettyColor(t *testing.T) {
	var out bytes.Buffer
	PrettyOne(&out, diag.Diagnostic{Severity: diag.SevError, Code: diag.LowUnknownStmt, Message: "x"}, PrettyOpts{Color: true})
	if !strings.Contains(out.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", out.String())
	}
}

func TestJSON(t *testing.T) {
	var out bytes.Buffer
	if err := JSON(&out, sampleBag(), JSONOpts{Max: 2}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var got DiagnosticsOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Count != 2 || len(got.Diagnostics) != 2 {
		t.Fatalf("count = %d, len = %d", got.Count, len(got.Diagnostics))
	}
	first := got.Diagnostics[0]
	if first.Code != "LOW3001" || first.Severity != "ERROR" || first.Location.Node != "binaryQuux" || first.Location.File != "docs/a.json" {
		t.Fatalf("unexpected first diagnostic: %+v", first)
	}
	if first.Title != diag.LowUnknownOperation.Title() {
		t.Fatalf("title = %q", first.Title)
	}
}

func TestJSONNilBag(t *testing.T) {
	out := BuildDiagnosticsOutput(nil, JSONOpts{})
	if out.Count != 0 || out.Diagnostics == nil {
		t.Fatalf("nil bag should give an empty list, got %+v", out)
	}
}

func TestSarif(t *testing.T) {
	var out bytes.Buffer
	meta := SarifRunMeta{ToolName: "lowerer", ToolVersion: "1.0.0", InvocationArgs: []string{"lower", "docs"}}
	if err := Sarif(&out, sampleBag(), meta); err != nil {
		t.Fatalf("Sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(out.Bytes(), &log); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header: %+v", log)
	}
	run := log.Runs[0]
	if len(run.Results) != 3 {
		t.Fatalf("want 3 results, got %d", len(run.Results))
	}
	rules := run.Tool.Driver.Rules
	if len(rules) != 2 || rules[0].ID != "DOC2004" || rules[1].ID != "LOW3001" {
		t.Fatalf("rules = %+v", rules)
	}
	if run.Results[1].Level != "warning" {
		t.Fatalf("level = %q", run.Results[1].Level)
	}
	loc := run.Results[0].Locations
	if len(loc) != 1 || loc[0].PhysicalLocation.ArtifactLocation.URI != "docs/a.json" || loc[0].LogicalLocations[0].FullyQualifiedName != "binaryQuux" {
		t.Fatalf("location = %+v", loc)
	}
	if run.Results[2].Locations != nil {
		t.Fatalf("fileless diagnostic should have no location")
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("invocation = %+v", run.Invocations)
	}
}

func TestFormatPath(t *testing.T) {
	if got := formatPath("a/b/c.json", PathModeBasename, ""); got != "c.json" {
		t.Fatalf("basename = %q", got)
	}
	if got := formatPath("a/b/c.json", PathModeRelative, ""); got != "a/b/c.json" {
		t.Fatalf("relative = %q", got)
	}
	if got := formatPath("a/b/c.json", PathModeAuto, ""); got != "a/b/c.json" {
		t.Fatalf("auto = %q", got)
	}
}
