// Package errors provides structured error types for the wasm-embed library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes binary context: section name, byte
// offset, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Section("name").
//		Offset(42).
//		Detail("subsection length exceeds section").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.SectionMalformed("name", 42, "truncated name length")
//	err := errors.InvalidUTF8(errors.PhaseDecode, data)
//
// All errors implement the standard error interface and support errors.Is/As.
//
// The boundary operations Name and SetName never return these errors: their
// failure signal is a collapsed boolean by contract. Structured errors appear
// on the surrounding lifecycle and codec operations.
package errors
