package ast

import "strings"

// Fixity says where an operator sits relative to its operands.
type Fixity uint8

const (
	// FixityUnknown marks a tag that did not decode.
	FixityUnknown Fixity = iota
	// FixityPrefix is `op x`.
	FixityPrefix
	// FixityPostfix is `x op`.
	FixityPostfix
	// FixityBinary is `x op y`.
	FixityBinary
	// FixityArrayAccess is `base[index]`; it has no operator of its own.
	FixityArrayAccess
)

func (f Fixity) String() string {
	switch f {
	case FixityPrefix:
		return "prefix"
	case FixityPostfix:
		return "postfix"
	case FixityBinary:
		return "binary"
	case FixityArrayAccess:
		return "arrayAccess"
	default:
		return "unknown"
	}
}

// Operator enumerates operator identities across all fixities.
type Operator uint8

const (
	OpNone Operator = iota

	// Унарные

	// OpNot represents logical negation (!).
	OpNot
	// OpNeg represents arithmetic negation (-).
	OpNeg
	// OpPos represents unary plus (+).
	OpPos
	// OpIncr represents increment (++).
	OpIncr
	// OpDecr represents decrement (--).
	OpDecr

	// Бинарные

	// OpAssign represents assignment (=).
	OpAssign
	OpAdd
	OpSub
	OpMul
	OpDiv
	// OpPow represents exponentiation, spelled ^.
	OpPow
	OpEq
	OpNotEq
	OpOr
	OpAnd
	OpGreater
	OpGreaterOrEq
	OpLess
	OpLessOrEq
)

var operatorNames = [...]string{
	OpNone:        "",
	OpNot:         "Not",
	OpNeg:         "Neg",
	OpPos:         "Pos",
	OpIncr:        "Incr",
	OpDecr:        "Decr",
	OpAssign:      "Assign",
	OpAdd:         "Add",
	OpSub:         "Sub",
	OpMul:         "Mul",
	OpDiv:         "Div",
	OpPow:         "Pow",
	OpEq:          "Eq",
	OpNotEq:       "NotEq",
	OpOr:          "Or",
	OpAnd:         "And",
	OpGreater:     "Greater",
	OpGreaterOrEq: "GreaterOrEq",
	OpLess:        "Less",
	OpLessOrEq:    "LessOrEq",
}

var operatorByName = func() map[string]Operator {
	m := make(map[string]Operator, len(operatorNames))
	for op, name := range operatorNames {
		if name != "" {
			m[name] = Operator(op)
		}
	}
	return m
}()

// String returns the operator name as it appears in tags.
func (op Operator) String() string {
	if int(op) < len(operatorNames) {
		return operatorNames[op]
	}
	return ""
}

// Symbol returns the surface spelling of the operator.
func (op Operator) Symbol() string {
	switch op {
	case OpNot:
		return "!"
	case OpNeg, OpSub:
		return "-"
	case OpPos, OpAdd:
		return "+"
	case OpIncr:
		return "++"
	case OpDecr:
		return "--"
	case OpAssign:
		return "="
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpOr:
		return "||"
	case OpAnd:
		return "&&"
	case OpGreater:
		return ">"
	case OpGreaterOrEq:
		return ">="
	case OpLess:
		return "<"
	case OpLessOrEq:
		return "<="
	default:
		return "?"
	}
}

// AllowedIn reports whether op is a member of the operator set for fixity f.
func (op Operator) AllowedIn(f Fixity) bool {
	switch f {
	case FixityPrefix:
		return op >= OpNot && op <= OpDecr
	case FixityPostfix:
		return op == OpIncr || op == OpDecr
	case FixityBinary:
		return op >= OpAssign && op <= OpLessOrEq
	case FixityArrayAccess:
		return op == OpNone
	default:
		return false
	}
}

// OpKind is the decoded form of an operation tag:
// Prefix(op) | Postfix(op) | Binary(op) | ArrayAccess.
type OpKind struct {
	Fixity   Fixity
	Operator Operator
}

// ArrayAccessTag is the only tag outside the prefix/postfix/binary families.
const ArrayAccessTag = "arrayAccess"

var fixityPrefixes = [...]struct {
	prefix string
	fixity Fixity
}{
	{"prefix", FixityPrefix},
	{"postfix", FixityPostfix},
	{"binary", FixityBinary},
}

// DecodeOpTag classifies tag into an OpKind. The fixity comes from the tag prefix and the
// operator from the remainder, which must name an operator exactly. Tags that do not decode
// yield an OpKind whose Fixity is FixityUnknown.
func DecodeOpTag(tag string) OpKind {
	if tag == ArrayAccessTag {
		return OpKind{Fixity: FixityArrayAccess}
	}
	for _, fp := range fixityPrefixes {
		rest, ok := strings.CutPrefix(tag, fp.prefix)
		if !ok {
			continue
		}
		op, known := operatorByName[rest]
		if !known || !op.AllowedIn(fp.fixity) {
			return OpKind{}
		}
		return OpKind{Fixity: fp.fixity, Operator: op}
	}
	return OpKind{}
}

// Valid reports whether the kind decoded successfully.
func (k OpKind) Valid() bool {
	return k.Fixity != FixityUnknown && k.Operator.AllowedIn(k.Fixity)
}

// Arity is the number of operands the kind requires; 0 for unknown kinds.
func (k OpKind) Arity() int {
	switch k.Fixity {
	case FixityPrefix, FixityPostfix:
		return 1
	case FixityBinary, FixityArrayAccess:
		return 2
	default:
		return 0
	}
}

// Tag re-encodes the kind; unknown kinds encode as "".
func (k OpKind) Tag() string {
	if !k.Valid() {
		return ""
	}
	if k.Fixity == FixityArrayAccess {
		return ArrayAccessTag
	}
	return k.Fixity.String() + k.Operator.String()
}

func (k OpKind) String() string {
	if tag := k.Tag(); tag != "" {
		return tag
	}
	return "unknown"
}
