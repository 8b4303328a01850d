package testkit

import (
	"strings"
	"testing"

	"lowerer/internal/ast"
)

func TestCheckTreeInvariantsAccepts(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	sum := b.Op("binaryAdd", b.Leaf("a"), b.Str("b"))
	call := b.Call(b.Leaf("print"), b.Interp("{0}!", sum))
	body := []ast.StmtID{
		b.Decl(b.Leaf("x"), b.Leaf("5")),
		b.FuncDecl(b.Leaf("f"), []string{"a"}, b.ExprStmt(call), b.ReturnVoid()),
		b.Return(sum),
	}
	if err := CheckTreeInvariants(b, body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckTreeInvariantsRejects(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *ast.Builder) []ast.StmtID
		want  string
	}{
		{
			name: "dangling statement",
			build: func(b *ast.Builder) []ast.StmtID {
				return []ast.StmtID{42}
			},
			want: "not allocated before",
		},
		{
			name: "dangling operand",
			build: func(b *ast.Builder) []ast.StmtID {
				op := b.Op("prefixNot", 99)
				return []ast.StmtID{b.ExprStmt(op)}
			},
			want: "not allocated before",
		},
		{
			name: "missing value",
			build: func(b *ast.Builder) []ast.StmtID {
				return []ast.StmtID{b.Decl(b.Leaf("x"), ast.NoValueID)}
			},
			want: "does not resolve",
		},
		{
			name: "unknown kind",
			build: func(b *ast.Builder) []ast.StmtID {
				id := b.Leaf("x")
				b.Values.Get(id).Kind = ast.ValueKind(200)
				return []ast.StmtID{b.ExprStmt(id)}
			},
			want: "unknown kind",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder(ast.Hints{})
			err := CheckTreeInvariants(b, tt.build(b))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
	if err := CheckTreeInvariants(nil, nil); err == nil {
		t.Fatalf("nil builder should fail")
	}
}
