package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"lowerer/internal/ast"
)

// CheckTreeInvariants runs a minimal set of structural invariants on a built tree:
// 1) every referenced node resolves and carries a resolvable representation
// 2) children are allocated before their parents, so the tree is acyclic
// 3) statement lists only reference statements, value slots only values
//
// The lowerer itself never relies on these; they guard builders (treedoc, tests).
func CheckTreeInvariants(b *ast.Builder, body []ast.StmtID) error {
	if b == nil {
		return fmt.Errorf("nil builder")
	}
	limit, err := safecast.Conv[ast.StmtID](b.Stmts.Arena.Len() + 1)
	if err != nil {
		return fmt.Errorf("statement count overflow: %w", err)
	}
	for i, id := range body {
		if err := checkStmt(b, id, limit); err != nil {
			return fmt.Errorf("body[%d]: %w", i, err)
		}
	}
	return nil
}

func checkRepr(b *ast.Builder, repr ast.StringID) error {
	if _, ok := b.Strings.Lookup(repr); !ok {
		return fmt.Errorf("unresolvable representation %d", repr)
	}
	return nil
}

func checkStmt(b *ast.Builder, id, parent ast.StmtID) error {
	if id >= parent {
		return fmt.Errorf("statement %d is not allocated before its parent %d", id, parent)
	}
	st := b.Stmts.Get(id)
	if st == nil {
		return fmt.Errorf("statement %d does not resolve", id)
	}
	if err := checkRepr(b, st.Repr); err != nil {
		return fmt.Errorf("statement %d: %w", id, err)
	}
	// дети-значения выделяются до всех statement'ов, поэтому верхняя граница у них своя
	valueLimit, err := safecast.Conv[ast.ValueID](b.Values.Arena.Len() + 1)
	if err != nil {
		return fmt.Errorf("value count overflow: %w", err)
	}

	switch st.Kind {
	case ast.StmtExpr:
		data, _ := b.Stmts.Expr(id)
		return checkValue(b, data.Value, valueLimit)
	case ast.StmtFuncDecl:
		data, _ := b.Stmts.FuncDecl(id)
		if err := checkValue(b, data.Name, valueLimit); err != nil {
			return err
		}
		for _, p := range data.Params {
			if err := checkRepr(b, p); err != nil {
				return fmt.Errorf("statement %d param: %w", id, err)
			}
		}
		for _, child := range data.Body {
			if err := checkStmt(b, child, id); err != nil {
				return err
			}
		}
	case ast.StmtDecl:
		data, _ := b.Stmts.Decl(id)
		if err := checkValue(b, data.Name, valueLimit); err != nil {
			return err
		}
		return checkValue(b, data.Value, valueLimit)
	case ast.StmtReturn:
		data, _ := b.Stmts.Return(id)
		if data.HasValue() {
			return checkValue(b, data.Value, valueLimit)
		}
	default:
		return fmt.Errorf("statement %d has unknown kind %d", id, st.Kind)
	}
	return nil
}

func checkValue(b *ast.Builder, id, parent ast.ValueID) error {
	if id >= parent {
		return fmt.Errorf("value %d is not allocated before its parent %d", id, parent)
	}
	v := b.Values.Get(id)
	if v == nil {
		return fmt.Errorf("value %d does not resolve", id)
	}
	if err := checkRepr(b, v.Repr); err != nil {
		return fmt.Errorf("value %d: %w", id, err)
	}

	var children []ast.ValueID
	switch v.Kind {
	case ast.ValueLeaf:
	case ast.ValueString:
		data, _ := b.Values.String(id)
		if err := checkRepr(b, data.Value); err != nil {
			return fmt.Errorf("value %d body: %w", id, err)
		}
	case ast.ValueInterp:
		data, _ := b.Values.Interp(id)
		if err := checkRepr(b, data.Template); err != nil {
			return fmt.Errorf("value %d template: %w", id, err)
		}
		children = data.Sections
	case ast.ValueCall:
		data, _ := b.Values.Call(id)
		children = append([]ast.ValueID{data.Callee}, data.Args...)
	case ast.ValueOp:
		data, _ := b.Values.Op(id)
		if err := checkRepr(b, data.Tag); err != nil {
			return fmt.Errorf("value %d tag: %w", id, err)
		}
		children = data.Operands
	default:
		return fmt.Errorf("value %d has unknown kind %d", id, v.Kind)
	}
	for _, child := range children {
		if err := checkValue(b, child, id); err != nil {
			return err
		}
	}
	return nil
}
