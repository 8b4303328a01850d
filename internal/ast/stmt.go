package ast

// StmtKind enumerates statement node variants.
type StmtKind uint8

const (
	// StmtExpr wraps a value used as a statement.
	StmtExpr StmtKind = iota
	// StmtFuncDecl is a function definition.
	StmtFuncDecl
	// StmtDecl is a variable declaration.
	StmtDecl
	// StmtReturn is a return, with or without a value.
	StmtReturn
)

func (k StmtKind) String() string {
	switch k {
	case StmtExpr:
		return "expr"
	case StmtFuncDecl:
		return "func"
	case StmtDecl:
		return "decl"
	case StmtReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Stmt is a statement node header.
type Stmt struct {
	Kind    StmtKind
	Repr    StringID
	Payload PayloadID
}

type ExprStmtData struct {
	Value ValueID
}

// FuncDeclData holds a function definition. Params are representations only.
type FuncDeclData struct {
	Name   ValueID
	Params []StringID
	Body   []StmtID
}

type DeclData struct {
	Name  ValueID
	Value ValueID
}

// ReturnData holds a return statement; Value is NoValueID for a bare return.
type ReturnData struct {
	Value ValueID
}

// HasValue reports whether the return carries a value.
func (r *ReturnData) HasValue() bool {
	return r.Value.IsValid()
}

// Stmts manages allocation of statements and their payloads.
type Stmts struct {
	Arena   *Arena[Stmt]
	Exprs   *Arena[ExprStmtData]
	Funcs   *Arena[FuncDeclData]
	Decls   *Arena[DeclData]
	Returns *Arena[ReturnData]
}

// NewStmts creates the statement arenas; capHint 0 falls back to 1<<7.
func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Exprs:   NewArena[ExprStmtData](capHint),
		Funcs:   NewArena[FuncDeclData](capHint),
		Decls:   NewArena[DeclData](capHint),
		Returns: NewArena[ReturnData](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, repr StringID, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Repr:    repr,
		Payload: payload,
	}))
}

// Get returns the statement header with the given ID, or nil.
func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewExpr(repr StringID, value ValueID) StmtID {
	payload := s.Exprs.Allocate(ExprStmtData{Value: value})
	return s.new(StmtExpr, repr, PayloadID(payload))
}

func (s *Stmts) Expr(id StmtID) (*ExprStmtData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExpr {
		return nil, false
	}
	return s.Exprs.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewFuncDecl(repr StringID, name ValueID, params []StringID, body []StmtID) StmtID {
	payload := s.Funcs.Allocate(FuncDeclData{Name: name, Params: params, Body: body})
	return s.new(StmtFuncDecl, repr, PayloadID(payload))
}

func (s *Stmts) FuncDecl(id StmtID) (*FuncDeclData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtFuncDecl {
		return nil, false
	}
	return s.Funcs.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewDecl(repr StringID, name, value ValueID) StmtID {
	payload := s.Decls.Allocate(DeclData{Name: name, Value: value})
	return s.new(StmtDecl, repr, PayloadID(payload))
}

func (s *Stmts) Decl(id StmtID) (*DeclData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtDecl {
		return nil, false
	}
	return s.Decls.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewReturn(repr StringID, value ValueID) StmtID {
	payload := s.Returns.Allocate(ReturnData{Value: value})
	return s.new(StmtReturn, repr, PayloadID(payload))
}

func (s *Stmts) Return(id StmtID) (*ReturnData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtReturn {
		return nil, false
	}
	return s.Returns.Get(uint32(st.Payload)), true
}
