package treedoc

import (
	"errors"
	"strings"
	"testing"

	"lowerer/internal/diag"
	"lowerer/internal/lower"
	"lowerer/internal/testkit"
)

const sampleJSON = `{
  "version": 1,
  "body": [
    {"kind": "decl", "name": {"kind": "leaf", "text": "x"},
     "value": {"kind": "op", "op": "binaryAdd", "operands": [
       {"kind": "leaf", "text": "a"},
       {"kind": "leaf", "text": "b"}]}},
    {"kind": "func", "name": {"kind": "leaf", "text": "f"}, "params": ["n"],
     "body": [{"kind": "return", "value": {"kind": "call",
       "callee": {"kind": "leaf", "text": "g"},
       "args": [{"kind": "string", "text": "hi"}]}}]},
    {"kind": "op", "op": "prefixNot", "operands": [{"kind": "leaf", "text": "ok"}]}
  ]
}`

const sampleYAML = `
version: 1
body:
  - kind: decl
    name: {kind: leaf, text: x}
    value:
      kind: op
      op: binaryAdd
      operands:
        - {kind: leaf, text: a}
        - {kind: leaf, text: b}
  - kind: func
    name: {kind: leaf, text: f}
    params: [n]
    body:
      - kind: return
        value:
          kind: call
          callee: {kind: leaf, text: g}
          args:
            - {kind: string, text: hi}
  - kind: op
    op: prefixNot
    operands:
      - {kind: leaf, text: ok}
`

func lowerTree(t *testing.T, tree *Tree, mode lower.Mode) string {
	t.Helper()
	out, err := lower.New(tree.Builder, mode).Stmts(tree.Body)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	return out
}

func TestDecodeFormats(t *testing.T) {
	wantConcise := "var x = (a + b)\ndef f(n) {\n\treturn (g(\"hi\"))\n}\n!ok"
	wantAccurate := "var x = (((a) + (b)))\ndef f(n) {\n\treturn (g(\"hi\"))\n}\n!(ok)"

	cases := []struct {
		name   string
		data   string
		format Format
	}{
		{"json", sampleJSON, FormatJSON},
		{"yaml", sampleYAML, FormatYAML},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := Decode([]byte(tc.data), tc.format)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(tree.Body) != 3 {
				t.Fatalf("expected 3 statements, got %d", len(tree.Body))
			}
			if err := testkit.CheckTreeInvariants(tree.Builder, tree.Body); err != nil {
				t.Fatalf("invariants: %v", err)
			}
			if got := lowerTree(t, tree, lower.Concise); got != wantConcise {
				t.Fatalf("concise:\n%s\nwant:\n%s", got, wantConcise)
			}
			if got := lowerTree(t, tree, lower.Accurate); got != wantAccurate {
				t.Fatalf("accurate:\n%s\nwant:\n%s", got, wantAccurate)
			}
		})
	}
}

func TestMarshalRoundTripAcrossFormats(t *testing.T) {
	src, err := Unmarshal([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := lowerTree(t, mustBuild(t, src), lower.Accurate)

	for _, format := range []Format{FormatJSON, FormatYAML, FormatMsgpack} {
		data, err := Marshal(src, format)
		if err != nil {
			t.Fatalf("%s marshal: %v", format, err)
		}
		tree, err := Decode(data, format)
		if err != nil {
			t.Fatalf("%s decode: %v", format, err)
		}
		if got := lowerTree(t, tree, lower.Accurate); got != want {
			t.Fatalf("%s round trip changed output:\n%s\nwant:\n%s", format, got, want)
		}
	}
}

func mustBuild(t *testing.T, f *File) *Tree {
	t.Helper()
	tree, err := f.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return tree
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		body []*Node
		code diag.Code
		path string
	}{
		{"missing kind", []*Node{{Text: "x"}}, diag.DocMissingField, "body[0]"},
		{"unknown stmt kind", []*Node{{Kind: "loop"}}, diag.DocUnknownKind, "body[0]"},
		{"unknown value kind", []*Node{Expr(&Node{Kind: "lambda"})}, diag.DocUnknownKind, "body[0].value"},
		{"call without callee", []*Node{{Kind: KindCall}}, diag.DocMissingField, "body[0]"},
		{"op without tag", []*Node{Op("", Leaf("a"))}, diag.DocMissingField, "body[0]"},
		{"decl without value", []*Node{{Kind: KindDecl, Name: Leaf("x")}}, diag.DocMissingField, "body[0]"},
		{"nested null", []*Node{Expr(Call(Leaf("f"), Leaf("a"), nil))}, diag.DocMalformed, "body[0].value.args[1]"},
		{"nested in func", []*Node{Func("f", nil, Expr(nil))}, diag.DocMissingField, "body[0].body[0]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := (&File{Body: tc.body}).Build()
			if err == nil {
				t.Fatalf("expected error")
			}
			var docErr *Error
			if !errors.As(err, &docErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if docErr.Code != tc.code {
				t.Fatalf("code = %v, want %v", docErr.Code, tc.code)
			}
			if docErr.Path != tc.path {
				t.Fatalf("path = %q, want %q", docErr.Path, tc.path)
			}
			d := diag.FromError("doc.json", err)
			if d.Code != tc.code || d.Node != tc.path {
				t.Fatalf("diagnostic = %+v", d)
			}
		})
	}
}

func TestUnknownTagDecodesButFailsToLower(t *testing.T) {
	tree, err := (&File{Body: []*Node{Op("binaryQuux", Leaf("a"), Leaf("b"))}}).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, err = lower.New(tree.Builder, lower.Concise).Stmts(tree.Body)
	if !errors.Is(err, lower.ErrUnknownOperation) {
		t.Fatalf("expected ErrUnknownOperation, got %v", err)
	}
}

func TestUnmarshalRejectsUnknownFields(t *testing.T) {
	_, err := Unmarshal([]byte(`{"body":[{"kind":"leaf","txt":"a"}]}`), FormatJSON)
	if err == nil {
		t.Fatalf("expected error for unknown field")
	}
	var docErr *Error
	if !errors.As(err, &docErr) || docErr.Code != diag.DocMalformed {
		t.Fatalf("expected DocMalformed, got %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"a/tree.json":   FormatJSON,
		"tree.YAML":     FormatYAML,
		"tree.yml":      FormatYAML,
		"tree.msgpack":  FormatMsgpack,
		"dir.x/tree.mp": FormatMsgpack,
	}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if got != want {
			t.Fatalf("%s: got %v, want %v", path, got, want)
		}
	}
	for _, path := range []string{"tree", "tree.txt", "tree.json.bak"} {
		if _, err := FormatFromPath(path); err == nil {
			t.Fatalf("%s: expected error", path)
		}
		if IsDocumentPath(path) {
			t.Fatalf("%s: reported as document", path)
		}
	}
}

func TestBuildNodeWrapsValues(t *testing.T) {
	b, id, err := BuildNode(Interp("{0} and {1}", Leaf("a"), Leaf("b")))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got, err := lower.LowerStmt(b, id, lower.Concise)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if want := `$"{a} and {b}"`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !strings.HasPrefix(b.StmtRepr(id), "{0}") {
		t.Fatalf("expr statement repr = %q", b.StmtRepr(id))
	}
}

func TestParseNode(t *testing.T) {
	n, err := ParseNode([]byte(`{"kind":"op","op":"binaryLessOrEq","operands":[{"kind":"leaf","text":"i"},{"kind":"leaf","text":"n"}]}`), FormatJSON)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, id, err := BuildNode(n)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got, err := lower.LowerStmt(b, id, lower.Accurate)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if want := "((i) <= (n))"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	if _, err := ParseNode([]byte(`{"kind":`), FormatJSON); err == nil {
		t.Fatalf("expected error for truncated input")
	}
}
