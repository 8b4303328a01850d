// Package treedoc reads and writes tree documents: the serialized form in which upstream
// tools hand trees to the lowerer.
//
// A document is a File whose Body lists statement nodes. Every node carries a kind and
// the fields that kind uses:
//
//	leaf    text
//	string  text (unquoted)
//	interp  text (template with {0}, {1}, ...), sections
//	call    callee, args
//	op      op (tag such as binaryAdd or arrayAccess), operands
//	expr    value
//	func    name, params, body
//	decl    name, value
//	return  value (omit for a bare return)
//
// A value kind in statement position is treated as an expr statement. Documents are
// JSON, YAML or MessagePack, chosen by file extension.
package treedoc
