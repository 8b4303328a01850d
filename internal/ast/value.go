package ast

// ValueKind enumerates value-producing node variants.
type ValueKind uint8

const (
	// ValueLeaf is a plain identifier or literal rendered from its representation.
	ValueLeaf ValueKind = iota
	// ValueString is a string literal.
	ValueString
	// ValueInterp is an interpolated string with positional code sections.
	ValueInterp
	// ValueCall is a function call.
	ValueCall
	// ValueOp is a prefix, postfix, binary or array-access operation.
	ValueOp
)

func (k ValueKind) String() string {
	switch k {
	case ValueLeaf:
		return "leaf"
	case ValueString:
		return "string"
	case ValueInterp:
		return "interp"
	case ValueCall:
		return "call"
	case ValueOp:
		return "op"
	default:
		return "unknown"
	}
}

// Value is a value node header. Repr keeps the raw representation for diagnostics.
type Value struct {
	Kind    ValueKind
	Repr    StringID
	Payload PayloadID
}

// StringData holds a string literal body, stored without quotes.
type StringData struct {
	Value StringID
}

// InterpData holds an interpolated string. Sections[i] fills placeholder {i} of Template.
type InterpData struct {
	Template StringID
	Sections []ValueID
}

// CallData holds a function call.
type CallData struct {
	Callee ValueID
	Args   []ValueID
}

// OpData holds an operation. Tag is the raw tag it was built from; Kind is its decoding.
type OpData struct {
	Kind     OpKind
	Tag      StringID
	Operands []ValueID
}

// Values manages allocation of value nodes and their payloads.
type Values struct {
	Arena   *Arena[Value]
	Strings *Arena[StringData]
	Interps *Arena[InterpData]
	Calls   *Arena[CallData]
	Ops     *Arena[OpData]
}

// NewValues creates the value arenas; capHint 0 falls back to 1<<8.
func NewValues(capHint uint) *Values {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Values{
		Arena:   NewArena[Value](capHint),
		Strings: NewArena[StringData](capHint),
		Interps: NewArena[InterpData](capHint),
		Calls:   NewArena[CallData](capHint),
		Ops:     NewArena[OpData](capHint),
	}
}

func (v *Values) new(kind ValueKind, repr StringID, payload PayloadID) ValueID {
	return ValueID(v.Arena.Allocate(Value{
		Kind:    kind,
		Repr:    repr,
		Payload: payload,
	}))
}

// Get returns the value header with the given ID, or nil.
func (v *Values) Get(id ValueID) *Value {
	return v.Arena.Get(uint32(id))
}

// NewLeaf creates a leaf whose lowering is repr itself.
func (v *Values) NewLeaf(repr StringID) ValueID {
	return v.new(ValueLeaf, repr, NoPayloadID)
}

// NewString creates a string literal.
func (v *Values) NewString(repr, value StringID) ValueID {
	payload := v.Strings.Allocate(StringData{Value: value})
	return v.new(ValueString, repr, PayloadID(payload))
}

// String returns the string literal data for id.
func (v *Values) String(id ValueID) (*StringData, bool) {
	val := v.Get(id)
	if val == nil || val.Kind != ValueString {
		return nil, false
	}
	return v.Strings.Get(uint32(val.Payload)), true
}

// NewInterp creates an interpolated string.
func (v *Values) NewInterp(repr, template StringID, sections []ValueID) ValueID {
	payload := v.Interps.Allocate(InterpData{Template: template, Sections: sections})
	return v.new(ValueInterp, repr, PayloadID(payload))
}

// Interp returns the interpolated string data for id.
func (v *Values) Interp(id ValueID) (*InterpData, bool) {
	val := v.Get(id)
	if val == nil || val.Kind != ValueInterp {
		return nil, false
	}
	return v.Interps.Get(uint32(val.Payload)), true
}

// NewCall creates a function call.
func (v *Values) NewCall(repr StringID, callee ValueID, args []ValueID) ValueID {
	payload := v.Calls.Allocate(CallData{Callee: callee, Args: args})
	return v.new(ValueCall, repr, PayloadID(payload))
}

// Call returns the call data for id.
func (v *Values) Call(id ValueID) (*CallData, bool) {
	val := v.Get(id)
	if val == nil || val.Kind != ValueCall {
		return nil, false
	}
	return v.Calls.Get(uint32(val.Payload)), true
}

// NewOp creates an operation with an already decoded kind.
func (v *Values) NewOp(repr, tag StringID, kind OpKind, operands []ValueID) ValueID {
	payload := v.Ops.Allocate(OpData{Kind: kind, Tag: tag, Operands: operands})
	return v.new(ValueOp, repr, PayloadID(payload))
}

// Op returns the operation data for id.
func (v *Values) Op(id ValueID) (*OpData, bool) {
	val := v.Get(id)
	if val == nil || val.Kind != ValueOp {
		return nil, false
	}
	return v.Ops.Get(uint32(val.Payload)), true
}
