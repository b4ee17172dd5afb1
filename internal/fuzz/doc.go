// Package fuzztests houses Go fuzz harnesses for the template pipeline
// (source -> tokenizer -> translator). They guard against panics, hangs and
// broken fragment invariants on arbitrary input.
//
// Назначение: загружать байты в FileSet и прогонять их через токенизатор и
// транслятор со всеми стратегиями.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/tokenizer, internal/translate,
// internal/testkit, internal/diag.

package fuzztests
