// Package errors provides structured error types for wsp-dissect.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, byte offset, value and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidEncoding).
//		Path("variant", "vector[2]").
//		At(36).
//		Detail("unpaired surrogate 0x%04X", 0xD800).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseDecode, path, 14, 4, 16)
//	err := errors.UnknownType(errors.PhaseDecode, path, 0, 0x00FF)
//
// All errors implement the standard error interface and support errors.Is/As.
// The ErrOutOfBounds, ErrUnknownType, ... sentinels match on Kind in any phase:
//
//	if errors.Is(err, wsperrors.ErrOutOfBounds) { ... }
package errors
