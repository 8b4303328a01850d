// Package lower turns trees built with internal/ast back into source text.
//
// Two modes are supported. Concise mode writes operations the way a person would,
// trusting that the tree already respects operator precedence. Accurate mode wraps
// every operand in parentheses so the text is unambiguous; it is the only mode that
// renders array access.
//
// Lowering is a pure function of the tree and the mode. Malformed input (an operation
// tag that does not decode, an unknown node variant, a wrong operand count) fails the
// whole call with an *Error and no partial text.
package lower
