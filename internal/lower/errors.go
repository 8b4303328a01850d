package lower

import (
	"errors"
	"fmt"

	"lowerer/internal/diag"
)

var (
	// ErrUnknownOperation is returned for operation tags the active mode cannot render.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrMalformedOperation is returned when an operation has the wrong number of operands.
	ErrMalformedOperation = errors.New("malformed operation")
	// ErrUnknownValue is returned for value nodes of no known variant.
	ErrUnknownValue = errors.New("unknown value node type")
	// ErrUnknownStmt is returned for statement nodes of no known variant.
	ErrUnknownStmt = errors.New("unknown statement node type")
)

// Error describes why a tree could not be lowered. It unwraps to one of the Err* values.
type Error struct {
	Kind     error
	Mode     Mode
	Tag      string // operation tag, when the failure is about an operation
	NodeType string // declared variant of the offending node
	Repr     string // raw representation of the offending node
	Operands int    // operand count, for malformed operations
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnknownOperation:
		return fmt.Sprintf("%v %q in %s mode", e.Kind, e.Tag, e.Mode)
	case ErrMalformedOperation:
		return fmt.Sprintf("%v %q: %d operands", e.Kind, e.Tag, e.Operands)
	default:
		return fmt.Sprintf("%v %s (%s)", e.Kind, e.NodeType, e.Repr)
	}
}

func (e *Error) Unwrap() error { return e.Kind }

// NodeRepr returns the raw representation of the offending node.
func (e *Error) NodeRepr() string { return e.Repr }

// DiagCode maps the failure to its diagnostic code.
func (e *Error) DiagCode() diag.Code {
	switch e.Kind {
	case ErrUnknownOperation:
		return diag.LowUnknownOperation
	case ErrMalformedOperation:
		return diag.LowMalformedOperation
	case ErrUnknownValue:
		return diag.LowUnknownValue
	case ErrUnknownStmt:
		return diag.LowUnknownStmt
	default:
		return diag.UnknownCode
	}
}
