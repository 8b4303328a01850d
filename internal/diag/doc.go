// Package diag defines the diagnostic model shared by the decoder, the lowerer and the
// driver.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced while
//     decoding tree documents and lowering them to text.
//   - Offer a capped Bag that the driver fills per batch and the CLI renders.
//
// # Scope
//
// Package diag does not format, print or perform IO. Producers attach a stable Code
// to their errors (see Coded); FromError turns any such error into a Diagnostic.
package diag
