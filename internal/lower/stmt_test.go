package lower

import (
	"errors"
	"testing"

	"lowerer/internal/ast"
	"lowerer/internal/trace"
)

func TestLowerDeclaration(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	id := b.Decl(b.Leaf("x"), b.Leaf("5"))
	for _, mode := range []Mode{Concise, Accurate} {
		got, err := LowerStmt(b, id, mode)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if got != "var x = (5)" {
			t.Fatalf("%s: want %q, got %q", mode, "var x = (5)", got)
		}
	}

	sum := b.Decl(b.Leaf("y"), b.Op("binaryAdd", b.Leaf("a"), b.Leaf("b")))
	if got, _ := LowerStmt(b, sum, Accurate); got != "var y = (((a) + (b)))" {
		t.Fatalf("accurate decl: got %q", got)
	}
}

func TestLowerReturn(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	bare := b.ReturnVoid()
	withValue := b.Return(b.Op("binaryMul", b.Leaf("n"), b.Leaf("2")))

	tests := []struct {
		id   ast.StmtID
		mode Mode
		want string
	}{
		{bare, Concise, "return"},
		{bare, Accurate, "return"},
		{withValue, Concise, "return (n * 2)"},
		{withValue, Accurate, "return (((n) * (2)))"},
	}
	for _, tt := range tests {
		got, err := LowerStmt(b, tt.id, tt.mode)
		if err != nil {
			t.Fatalf("%s: %v", tt.mode, err)
		}
		if got != tt.want {
			t.Fatalf("%s: want %q, got %q", tt.mode, tt.want, got)
		}
	}
}

func TestLowerFunctionDeclaration(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	fn := b.FuncDecl(b.Leaf("f"), []string{"a", "b"}, b.ReturnVoid())
	got, err := LowerStmt(b, fn, Concise)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if want := "def f(a, b) {\n\treturn\n}"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestLowerFunctionBodyIsFlat(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	inner := b.FuncDecl(b.Leaf("g"), nil, b.Return(b.Leaf("1")))
	outer := b.FuncDecl(b.Leaf("f"), []string{"x"},
		b.Decl(b.Leaf("y"), b.Op("postfixIncr", b.Leaf("x"))),
		inner,
		b.ExprStmt(b.Call(b.Leaf("print"), b.Leaf("y"))),
	)
	got, err := LowerStmt(b, outer, Concise)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	want := "def f(x) {\n\tvar y = (x++)\n\tdef g() {\n\treturn (1)\n}\n\tprint(y)\n}"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	empty := b.FuncDecl(b.Leaf("noop"), nil)
	if got, _ := LowerStmt(b, empty, Concise); got != "def noop() {\n\t\n}" {
		t.Fatalf("empty body: got %q", got)
	}
}

func TestLowerStmtErrorsPropagate(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	fn := b.FuncDecl(b.Leaf("f"), nil, b.ExprStmt(b.Op("arrayAccess", b.Leaf("xs"), b.Leaf("0"))))

	got, err := LowerStmt(b, fn, Concise)
	if got != "" || !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("concise: got %q, %v", got, err)
	}
	got, err = LowerStmt(b, fn, Accurate)
	if err != nil || got != "def f() {\n\t(xs)[0]\n}" {
		t.Fatalf("accurate: got %q, %v", got, err)
	}
}

func TestLowerStmts(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	ids := []ast.StmtID{
		b.Decl(b.Leaf("x"), b.Leaf("1")),
		b.ExprStmt(b.Op("binaryAssign", b.Leaf("x"), b.Op("binaryAdd", b.Leaf("x"), b.Leaf("1")))),
	}
	got, err := New(b, Concise).Stmts(ids)
	if err != nil {
		t.Fatalf("Stmts: %v", err)
	}
	if want := "var x = (1)\nx = x + 1"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestStmtsTracing(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	ids := []ast.StmtID{
		b.ExprStmt(b.Op("binaryAdd", b.Leaf("a"), b.Leaf("b"))),
		b.Return(b.Op("prefixNot", b.Leaf("c"))),
	}
	ring := trace.NewRingTracer(64, trace.LevelDebug)

	out, err := New(b, Concise).WithTracer(ring, 0).Stmts(ids)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if want := "a + b\nreturn (!c)"; out != want {
		t.Fatalf("want %q, got %q", want, out)
	}

	var pass uint64
	points := 0
	for _, ev := range ring.Snapshot() {
		switch {
		case ev.Kind == trace.KindSpanBegin && ev.Scope == trace.ScopePass:
			pass = ev.SpanID
		case ev.Kind == trace.KindPoint && ev.Scope == trace.ScopeNode:
			if ev.ParentID != pass {
				t.Fatalf("node point parent = %d, want pass span %d", ev.ParentID, pass)
			}
			points++
		}
	}
	if pass == 0 {
		t.Fatalf("no pass span emitted")
	}
	if points != 2 {
		t.Fatalf("want 2 node points, got %d", points)
	}
}

func TestStmtsTracingFiltersNodes(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	ids := []ast.StmtID{b.ExprStmt(b.Op("binaryAdd", b.Leaf("a"), b.Leaf("b")))}
	ring := trace.NewRingTracer(64, trace.LevelPhase)

	if _, err := New(b, Accurate).WithTracer(ring, 0).Stmts(ids); err != nil {
		t.Fatalf("lower: %v", err)
	}
	for _, ev := range ring.Snapshot() {
		if ev.Scope == trace.ScopeNode {
			t.Fatalf("node event at phase level: %+v", ev)
		}
	}
	if len(ring.Snapshot()) != 2 {
		t.Fatalf("want begin+end of pass span, got %d events", len(ring.Snapshot()))
	}
}
