package ast

type Hints struct{ Values, Stmts uint }

// Builder owns every arena of one tree. Nodes are never mutated after construction.
type Builder struct {
	Strings *Strings
	Values  *Values
	Stmts   *Stmts
}

func NewBuilder(hints Hints) *Builder {
	if hints.Values == 0 {
		hints.Values = 1 << 8
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 7
	}
	return &Builder{
		Strings: NewStrings(),
		Values:  NewValues(hints.Values),
		Stmts:   NewStmts(hints.Stmts),
	}
}

// Text resolves an interned string; unknown IDs resolve to "".
func (b *Builder) Text(id StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}

// Leaf creates a leaf value rendered as text.
func (b *Builder) Leaf(text string) ValueID {
	return b.Values.NewLeaf(b.Strings.Intern(text))
}

// Str creates a string literal; value is stored without quotes.
func (b *Builder) Str(value string) ValueID {
	id := b.Strings.Intern(value)
	return b.Values.NewString(id, id)
}

// Interp creates an interpolated string whose template uses {0}, {1}, ... placeholders.
func (b *Builder) Interp(template string, sections ...ValueID) ValueID {
	id := b.Strings.Intern(template)
	return b.Values.NewInterp(id, id, sections)
}

// Call creates a call of callee with args.
func (b *Builder) Call(callee ValueID, args ...ValueID) ValueID {
	return b.Values.NewCall(b.reprID(callee), callee, args)
}

// Op decodes tag once and creates the operation. Undecodable tags are kept as-is so that
// lowering can report them.
func (b *Builder) Op(tag string, operands ...ValueID) ValueID {
	id := b.Strings.Intern(tag)
	return b.Values.NewOp(id, id, DecodeOpTag(tag), operands)
}

// ExprStmt wraps a value as a statement.
func (b *Builder) ExprStmt(value ValueID) StmtID {
	return b.Stmts.NewExpr(b.reprID(value), value)
}

// FuncDecl creates a function definition.
func (b *Builder) FuncDecl(name ValueID, params []string, body ...StmtID) StmtID {
	ids := make([]StringID, 0, len(params))
	for _, p := range params {
		ids = append(ids, b.Strings.Intern(p))
	}
	repr := b.Strings.Intern("def " + b.ValueRepr(name))
	return b.Stmts.NewFuncDecl(repr, name, ids, body)
}

// Decl creates `var name = value`.
func (b *Builder) Decl(name, value ValueID) StmtID {
	return b.Stmts.NewDecl(b.Strings.Intern("var "+b.ValueRepr(name)), name, value)
}

// Return creates a return of value.
func (b *Builder) Return(value ValueID) StmtID {
	return b.Stmts.NewReturn(b.Strings.Intern("return"), value)
}

// ReturnVoid creates a bare return.
func (b *Builder) ReturnVoid() StmtID {
	return b.Return(NoValueID)
}

func (b *Builder) reprID(id ValueID) StringID {
	if v := b.Values.Get(id); v != nil {
		return v.Repr
	}
	return NoStringID
}

// ValueRepr returns the raw representation of a value, "" for unknown IDs.
func (b *Builder) ValueRepr(id ValueID) string {
	v := b.Values.Get(id)
	if v == nil {
		return ""
	}
	return b.Text(v.Repr)
}

// StmtRepr returns the raw representation of a statement, "" for unknown IDs.
func (b *Builder) StmtRepr(id StmtID) string {
	st := b.Stmts.Get(id)
	if st == nil {
		return ""
	}
	return b.Text(st.Repr)
}
