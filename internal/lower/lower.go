package lower

import (
	"strconv"
	"strings"

	"lowerer/internal/ast"
	"lowerer/internal/trace"
)

// Lowerer renders nodes of one tree in one mode. It reuses its work stack between calls
// and must not be shared across goroutines.
type Lowerer struct {
	b      *ast.Builder
	mode   Mode
	tracer trace.Tracer
	parent uint64
	nodes  bool // emit node-scope points

	work     []frame
	bufs     []*strings.Builder // bufs[0] is the caller's output, the rest are open sections
	sections []string
}

// New returns a Lowerer over b.
func New(b *ast.Builder, mode Mode) *Lowerer {
	return &Lowerer{b: b, mode: mode, tracer: trace.Nop}
}

// WithTracer routes node-level trace points to t under the span parent.
func (l *Lowerer) WithTracer(t trace.Tracer, parent uint64) *Lowerer {
	if t == nil {
		t = trace.Nop
	}
	l.tracer = t
	l.parent = parent
	l.nodes = t.Enabled() && t.Level().ShouldEmit(trace.ScopeNode)
	return l
}

// Mode returns the rendering mode.
func (l *Lowerer) Mode() Mode { return l.mode }

// LowerValue renders the value id of b in mode.
func LowerValue(b *ast.Builder, id ast.ValueID, mode Mode) (string, error) {
	return New(b, mode).Value(id)
}

// LowerStmt renders the statement id of b in mode.
func LowerStmt(b *ast.Builder, id ast.StmtID, mode Mode) (string, error) {
	return New(b, mode).Stmt(id)
}

// LowerStmts renders a statement list of b in mode, one statement per line.
func LowerStmts(b *ast.Builder, ids []ast.StmtID, mode Mode) (string, error) {
	return New(b, mode).Stmts(ids)
}

// Stmts renders a statement list, one statement per line. The call is traced as one
// pass span; node points nest under it.
func (l *Lowerer) Stmts(ids []ast.StmtID) (string, error) {
	span := trace.Begin(l.tracer, trace.ScopePass, "lower."+l.mode.String(), l.parent)
	if id := span.ID(); id != 0 {
		saved := l.parent
		l.parent = id
		defer func() { l.parent = saved }()
	}
	span.WithExtra("stmts", strconv.Itoa(len(ids)))

	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if err := l.writeStmt(&sb, id); err != nil {
			span.End("error")
			return "", err
		}
	}
	span.End("")
	return sb.String(), nil
}
