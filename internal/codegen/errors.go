package codegen

import (
	"errors"

	"loom/internal/convert"
)

// Construction-time programmer errors. All are raised synchronously at the
// point of misuse and never retried.
var (
	// ErrTypeMismatch mirrors the coercion layer's failure so callers need
	// only one errors.Is target.
	ErrTypeMismatch = convert.ErrTypeMismatch

	// ErrArgument covers wrong arity, missing required values, unresolved
	// import targets and malformed loop configurations.
	ErrArgument = errors.New("argument error")

	// ErrDivisionByZero is returned for a statically known zero divisor or
	// modulus, before any instruction is emitted.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrMethodNotFound is returned when Invoke cannot resolve a name
	// against the library's macros, functions or globals.
	ErrMethodNotFound = errors.New("method not found")
)
