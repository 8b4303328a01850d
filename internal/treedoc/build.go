package treedoc

import (
	"fmt"
	"os"

	"lowerer/internal/ast"
	"lowerer/internal/diag"
)

// Tree is a decoded document: the arenas plus the top-level statements in order.
type Tree struct {
	Builder *ast.Builder
	Body    []ast.StmtID
}

// Build converts f into arena form. Operation tags are stored as written; unknown tags
// surface only when the tree is lowered.
func (f *File) Build() (*Tree, error) {
	c := converter{b: ast.NewBuilder(ast.Hints{})}
	tree := &Tree{Builder: c.b, Body: make([]ast.StmtID, 0, len(f.Body))}
	for i, n := range f.Body {
		id, err := c.stmt(n, fmt.Sprintf("body[%d]", i))
		if err != nil {
			return nil, err
		}
		tree.Body = append(tree.Body, id)
	}
	return tree, nil
}

// Decode parses data and builds the tree.
func Decode(data []byte, format Format) (*Tree, error) {
	f, err := Unmarshal(data, format)
	if err != nil {
		return nil, err
	}
	return f.Build()
}

// DecodeFile reads path and decodes it with the format implied by its extension.
func DecodeFile(path string) (*Tree, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, format)
}

// BuildNode converts a single node. Value kinds are wrapped into an expr statement.
func BuildNode(n *Node) (*ast.Builder, ast.StmtID, error) {
	c := converter{b: ast.NewBuilder(ast.Hints{Values: 64, Stmts: 16})}
	id, err := c.stmt(n, "node")
	if err != nil {
		return nil, ast.NoStmtID, err
	}
	return c.b, id, nil
}

type converter struct {
	b *ast.Builder
}

func missing(path, field string) error {
	return &Error{Code: diag.DocMissingField, Path: path, Msg: fmt.Sprintf("missing field %q", field)}
}

func (c *converter) values(nodes []*Node, path, field string) ([]ast.ValueID, error) {
	ids := make([]ast.ValueID, 0, len(nodes))
	for i, n := range nodes {
		id, err := c.value(n, fmt.Sprintf("%s.%s[%d]", path, field, i))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *converter) value(n *Node, path string) (ast.ValueID, error) {
	if n == nil {
		return ast.NoValueID, &Error{Code: diag.DocMalformed, Path: path, Msg: "null node"}
	}
	switch n.Kind {
	case KindLeaf:
		return c.b.Leaf(n.Text), nil
	case KindString:
		return c.b.Str(n.Text), nil
	case KindInterp:
		sections, err := c.values(n.Sections, path, "sections")
		if err != nil {
			return ast.NoValueID, err
		}
		return c.b.Interp(n.Text, sections...), nil
	case KindCall:
		if n.Callee == nil {
			return ast.NoValueID, missing(path, "callee")
		}
		callee, err := c.value(n.Callee, path+".callee")
		if err != nil {
			return ast.NoValueID, err
		}
		args, err := c.values(n.Args, path, "args")
		if err != nil {
			return ast.NoValueID, err
		}
		return c.b.Call(callee, args...), nil
	case KindOp:
		if n.Op == "" {
			return ast.NoValueID, missing(path, "op")
		}
		operands, err := c.values(n.Operands, path, "operands")
		if err != nil {
			return ast.NoValueID, err
		}
		return c.b.Op(n.Op, operands...), nil
	case "":
		return ast.NoValueID, missing(path, "kind")
	default:
		return ast.NoValueID, &Error{Code: diag.DocUnknownKind, Path: path, Msg: fmt.Sprintf("unknown value kind %q", n.Kind)}
	}
}

func (c *converter) stmt(n *Node, path string) (ast.StmtID, error) {
	if n == nil {
		return ast.NoStmtID, &Error{Code: diag.DocMalformed, Path: path, Msg: "null node"}
	}
	if isValueKind(n.Kind) {
		v, err := c.value(n, path)
		if err != nil {
			return ast.NoStmtID, err
		}
		return c.b.ExprStmt(v), nil
	}
	switch n.Kind {
	case KindExpr:
		if n.Value == nil {
			return ast.NoStmtID, missing(path, "value")
		}
		v, err := c.value(n.Value, path+".value")
		if err != nil {
			return ast.NoStmtID, err
		}
		return c.b.ExprStmt(v), nil
	case KindFunc:
		if n.Name == nil {
			return ast.NoStmtID, missing(path, "name")
		}
		name, err := c.value(n.Name, path+".name")
		if err != nil {
			return ast.NoStmtID, err
		}
		body := make([]ast.StmtID, 0, len(n.Body))
		for i, child := range n.Body {
			id, err := c.stmt(child, fmt.Sprintf("%s.body[%d]", path, i))
			if err != nil {
				return ast.NoStmtID, err
			}
			body = append(body, id)
		}
		return c.b.FuncDecl(name, n.Params, body...), nil
	case KindDecl:
		if n.Name == nil {
			return ast.NoStmtID, missing(path, "name")
		}
		if n.Value == nil {
			return ast.NoStmtID, missing(path, "value")
		}
		name, err := c.value(n.Name, path+".name")
		if err != nil {
			return ast.NoStmtID, err
		}
		v, err := c.value(n.Value, path+".value")
		if err != nil {
			return ast.NoStmtID, err
		}
		return c.b.Decl(name, v), nil
	case KindReturn:
		if n.Value == nil {
			return c.b.ReturnVoid(), nil
		}
		v, err := c.value(n.Value, path+".value")
		if err != nil {
			return ast.NoStmtID, err
		}
		return c.b.Return(v), nil
	case "":
		return ast.NoStmtID, missing(path, "kind")
	default:
		return ast.NoStmtID, &Error{Code: diag.DocUnknownKind, Path: path, Msg: fmt.Sprintf("unknown statement kind %q", n.Kind)}
	}
}
