// Package fuzztests houses Go fuzz harnesses that exercise the lowering pipeline
// (document bytes -> treedoc -> lower). Its goal is to smoke test robustness and guard
// against panics or runaway output on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через декодер документов и оба режима
// понижения.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/treedoc, internal/lower, internal/diag.

package fuzztests
