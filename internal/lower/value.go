package lower

import (
	"strings"

	"lowerer/internal/ast"
	"lowerer/internal/trace"
)

type frameOp uint8

const (
	opVisit   frameOp = iota // render node id
	opText                   // write text
	opSection                // start a buffer for one interpolation section
	opClose                  // finish the section on top of l.bufs
	opInterp                 // substitute collected sections into node id's template
)

// frame is one pending step on the work stack. A node writes its opening text when it
// is visited and pushes its children interleaved with the separator and closing text,
// so every character is written exactly once.
type frame struct {
	op   frameOp
	id   ast.ValueID
	text string
}

// Value renders the value id. Traversal uses an explicit stack, so tree depth is bounded
// by memory rather than the goroutine stack.
func (l *Lowerer) Value(id ast.ValueID) (string, error) {
	var sb strings.Builder
	if err := l.writeValue(&sb, id); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// writeValue appends the rendering of id to sb. On error sb holds partial text and
// callers must drop it.
func (l *Lowerer) writeValue(sb *strings.Builder, id ast.ValueID) error {
	l.work = append(l.work[:0], frame{op: opVisit, id: id})
	l.bufs = append(l.bufs[:0], sb)
	l.sections = l.sections[:0]

	for len(l.work) > 0 {
		f := l.work[len(l.work)-1]
		l.work = l.work[:len(l.work)-1]

		switch f.op {
		case opVisit:
			if err := l.visit(f.id); err != nil {
				l.reset()
				return err
			}
		case opText:
			l.top().WriteString(f.text)
		case opSection:
			l.bufs = append(l.bufs, new(strings.Builder))
		case opClose:
			s := l.top().String()
			l.bufs = l.bufs[:len(l.bufs)-1]
			l.sections = append(l.sections, "{"+s+"}")
		case opInterp:
			l.interp(f.id)
		}
	}

	if len(l.bufs) != 1 || len(l.sections) != 0 {
		panic("lower: unbalanced work stack")
	}
	l.reset()
	return nil
}

func (l *Lowerer) reset() {
	l.work = l.work[:0]
	clear(l.bufs)
	l.bufs = l.bufs[:0]
	l.sections = l.sections[:0]
}

func (l *Lowerer) top() *strings.Builder { return l.bufs[len(l.bufs)-1] }

func (l *Lowerer) push(f ...frame) { l.work = append(l.work, f...) }

func visitFrame(id ast.ValueID) frame { return frame{op: opVisit, id: id} }

func textFrame(s string) frame { return frame{op: opText, text: s} }

// visit writes leaves directly and schedules composite nodes. Frames are pushed in
// reverse, the first one to run is pushed last.
func (l *Lowerer) visit(id ast.ValueID) error {
	v := l.b.Values.Get(id)
	if v == nil {
		return &Error{Kind: ErrUnknownValue, Mode: l.mode, NodeType: "unknown"}
	}

	switch v.Kind {
	case ast.ValueLeaf:
		l.top().WriteString(l.b.Text(v.Repr))
	case ast.ValueString:
		s, _ := l.b.Values.String(id)
		out := l.top()
		out.WriteByte('"')
		out.WriteString(l.b.Text(s.Value))
		out.WriteByte('"')
	case ast.ValueInterp:
		data, _ := l.b.Values.Interp(id)
		l.push(frame{op: opInterp, id: id})
		for i := len(data.Sections) - 1; i >= 0; i-- {
			l.push(frame{op: opClose}, visitFrame(data.Sections[i]), frame{op: opSection})
		}
	case ast.ValueCall:
		data, _ := l.b.Values.Call(id)
		l.push(textFrame(")"))
		for i := len(data.Args) - 1; i >= 0; i-- {
			l.push(visitFrame(data.Args[i]))
			if i > 0 {
				l.push(textFrame(", "))
			}
		}
		l.push(textFrame("("), visitFrame(data.Callee))
	case ast.ValueOp:
		data, _ := l.b.Values.Op(id)
		if err := l.checkOp(v, data); err != nil {
			return err
		}
		if l.nodes {
			trace.Point(l.tracer, trace.ScopeNode, "op", data.Kind.String(), l.parent)
		}
		if l.mode == Accurate {
			l.scheduleAccurate(data.Kind, data.Operands)
		} else {
			l.scheduleConcise(data.Kind, data.Operands)
		}
	default:
		return &Error{Kind: ErrUnknownValue, Mode: l.mode, NodeType: v.Kind.String(), Repr: l.b.Text(v.Repr)}
	}
	return nil
}

// interp pops the sections of node id, which were closed in order, and writes the
// substituted template.
func (l *Lowerer) interp(id ast.ValueID) {
	data, _ := l.b.Values.Interp(id)
	start := len(l.sections) - len(data.Sections)
	out := l.top()
	out.WriteString(`$"`)
	out.WriteString(Substitute(l.b.Text(data.Template), l.sections[start:]))
	out.WriteByte('"')
	clear(l.sections[start:])
	l.sections = l.sections[:start]
}
