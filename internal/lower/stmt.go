package lower

import (
	"strings"

	"lowerer/internal/ast"
)

// Stmt renders the statement id. Nested values go through Value in the same mode.
func (l *Lowerer) Stmt(id ast.StmtID) (string, error) {
	var sb strings.Builder
	if err := l.writeStmt(&sb, id); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (l *Lowerer) writeStmt(sb *strings.Builder, id ast.StmtID) error {
	st := l.b.Stmts.Get(id)
	if st == nil {
		return &Error{Kind: ErrUnknownStmt, Mode: l.mode, NodeType: "unknown"}
	}

	switch st.Kind {
	case ast.StmtExpr:
		data, _ := l.b.Stmts.Expr(id)
		return l.writeValue(sb, data.Value)

	case ast.StmtDecl:
		data, _ := l.b.Stmts.Decl(id)
		name, err := l.name(data.Name)
		if err != nil {
			return err
		}
		sb.WriteString("var ")
		sb.WriteString(name)
		sb.WriteString(" = (")
		if err := l.writeValue(sb, data.Value); err != nil {
			return err
		}
		sb.WriteByte(')')
		return nil

	case ast.StmtReturn:
		data, _ := l.b.Stmts.Return(id)
		if !data.HasValue() {
			sb.WriteString("return")
			return nil
		}
		sb.WriteString("return (")
		if err := l.writeValue(sb, data.Value); err != nil {
			return err
		}
		sb.WriteByte(')')
		return nil

	case ast.StmtFuncDecl:
		return l.funcDecl(sb, id)
	}

	return &Error{Kind: ErrUnknownStmt, Mode: l.mode, NodeType: st.Kind.String(), Repr: l.b.Text(st.Repr)}
}

// funcDecl writes the body with a single tab per line; nested blocks are not indented
// further.
func (l *Lowerer) funcDecl(sb *strings.Builder, id ast.StmtID) error {
	data, _ := l.b.Stmts.FuncDecl(id)
	name, err := l.name(data.Name)
	if err != nil {
		return err
	}
	sb.WriteString("def ")
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, p := range data.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(l.b.Text(p))
	}
	sb.WriteString(") {\n\t")
	for i, sid := range data.Body {
		if i > 0 {
			sb.WriteString("\n\t")
		}
		if err := l.writeStmt(sb, sid); err != nil {
			return err
		}
	}
	sb.WriteString("\n}")
	return nil
}

// name returns the representation of a declared name; names are never lowered.
func (l *Lowerer) name(id ast.ValueID) (string, error) {
	v := l.b.Values.Get(id)
	if v == nil {
		return "", &Error{Kind: ErrUnknownValue, Mode: l.mode, NodeType: "unknown"}
	}
	return l.b.Text(v.Repr), nil
}
