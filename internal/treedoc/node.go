package treedoc

// Node kinds.
const (
	KindLeaf   = "leaf"
	KindString = "string"
	KindInterp = "interp"
	KindCall   = "call"
	KindOp     = "op"
	KindExpr   = "expr"
	KindFunc   = "func"
	KindDecl   = "decl"
	KindReturn = "return"
)

// CurrentVersion is written by Marshal; documents without a version are accepted.
const CurrentVersion = 1

// File is a whole tree document.
type File struct {
	Version int     `json:"version,omitempty" yaml:"version,omitempty" msgpack:"version,omitempty"`
	Body    []*Node `json:"body" yaml:"body" msgpack:"body"`
}

// Node is one tree node in document form.
type Node struct {
	Kind     string   `json:"kind" yaml:"kind" msgpack:"kind"`
	Text     string   `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
	Op       string   `json:"op,omitempty" yaml:"op,omitempty" msgpack:"op,omitempty"`
	Name     *Node    `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Value    *Node    `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Callee   *Node    `json:"callee,omitempty" yaml:"callee,omitempty" msgpack:"callee,omitempty"`
	Args     []*Node  `json:"args,omitempty" yaml:"args,omitempty" msgpack:"args,omitempty"`
	Operands []*Node  `json:"operands,omitempty" yaml:"operands,omitempty" msgpack:"operands,omitempty"`
	Sections []*Node  `json:"sections,omitempty" yaml:"sections,omitempty" msgpack:"sections,omitempty"`
	Params   []string `json:"params,omitempty" yaml:"params,omitempty" msgpack:"params,omitempty"`
	Body     []*Node  `json:"body,omitempty" yaml:"body,omitempty" msgpack:"body,omitempty"`
}

// Leaf, Str, Op and the other helpers build document nodes in code and tests.
func Leaf(text string) *Node { return &Node{Kind: KindLeaf, Text: text} }

func Str(value string) *Node { return &Node{Kind: KindString, Text: value} }

func Interp(template string, sections ...*Node) *Node {
	return &Node{Kind: KindInterp, Text: template, Sections: sections}
}

func Call(callee *Node, args ...*Node) *Node {
	return &Node{Kind: KindCall, Callee: callee, Args: args}
}

func Op(tag string, operands ...*Node) *Node {
	return &Node{Kind: KindOp, Op: tag, Operands: operands}
}

func Expr(value *Node) *Node { return &Node{Kind: KindExpr, Value: value} }

func Func(name string, params []string, body ...*Node) *Node {
	return &Node{Kind: KindFunc, Name: Leaf(name), Params: params, Body: body}
}

func Decl(name string, value *Node) *Node {
	return &Node{Kind: KindDecl, Name: Leaf(name), Value: value}
}

// Return builds a return; a nil value makes a bare return.
func Return(value *Node) *Node { return &Node{Kind: KindReturn, Value: value} }

func isValueKind(kind string) bool {
	switch kind {
	case KindLeaf, KindString, KindInterp, KindCall, KindOp:
		return true
	}
	return false
}
