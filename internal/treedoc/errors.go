package treedoc

import "lowerer/internal/diag"

// Error is a document decoding failure. Path locates the node, e.g. body[2].value.args[0].
type Error struct {
	Code diag.Code
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return e.Path + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) DiagCode() diag.Code { return e.Code }

// NodeRepr returns the document path of the offending node.
func (e *Error) NodeRepr() string { return e.Path }
