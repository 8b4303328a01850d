package lower

import "lowerer/internal/ast"

// checkOp rejects operations the active mode cannot render. Concise mode has no
// rendering for array access.
func (l *Lowerer) checkOp(v *ast.Value, data *ast.OpData) error {
	kind := data.Kind
	tag := l.b.Text(data.Tag)
	if !kind.Valid() || (kind.Fixity == ast.FixityArrayAccess && l.mode != Accurate) {
		return &Error{
			Kind:     ErrUnknownOperation,
			Mode:     l.mode,
			Tag:      tag,
			NodeType: v.Kind.String(),
			Repr:     l.b.Text(v.Repr),
		}
	}
	if len(data.Operands) != kind.Arity() {
		return &Error{
			Kind:     ErrMalformedOperation,
			Mode:     l.mode,
			Tag:      tag,
			NodeType: v.Kind.String(),
			Repr:     l.b.Text(v.Repr),
			Operands: len(data.Operands),
		}
	}
	return nil
}

// scheduleConcise renders `!x`, `x++`, `a + b`. Operands were validated by checkOp.
func (l *Lowerer) scheduleConcise(kind ast.OpKind, operands []ast.ValueID) {
	sym := kind.Operator.Symbol()
	switch kind.Fixity {
	case ast.FixityPrefix:
		l.top().WriteString(sym)
		l.push(visitFrame(operands[0]))
	case ast.FixityPostfix:
		l.push(textFrame(sym), visitFrame(operands[0]))
	default:
		l.push(visitFrame(operands[1]), textFrame(" "+sym+" "), visitFrame(operands[0]))
	}
}

// scheduleAccurate renders `!(x)`, `(x)++`, `((a) + (b))` and `(a)[i]`.
func (l *Lowerer) scheduleAccurate(kind ast.OpKind, operands []ast.ValueID) {
	out := l.top()
	switch kind.Fixity {
	case ast.FixityPrefix:
		out.WriteString(kind.Operator.Symbol())
		out.WriteByte('(')
		l.push(textFrame(")"), visitFrame(operands[0]))
	case ast.FixityPostfix:
		out.WriteByte('(')
		l.push(textFrame(")"+kind.Operator.Symbol()), visitFrame(operands[0]))
	case ast.FixityArrayAccess:
		out.WriteByte('(')
		l.push(textFrame("]"), visitFrame(operands[1]), textFrame(")["), visitFrame(operands[0]))
	default:
		out.WriteString("((")
		l.push(textFrame("))"), visitFrame(operands[1]), textFrame(") "+kind.Operator.Symbol()+" ("), visitFrame(operands[0]))
	}
}
