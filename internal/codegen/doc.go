// Package codegen builds LLVM IR functions through structured control flow
// instead of hand-wired basic blocks.
//
// A Library owns callable functions, inline macros, globals and a
// content-deduplicated string pool, and enforces visibility plus a naming
// prefix policy when one library's public surface is merged into another.
// Declaring a function hands the caller a Generator bound to the entry
// block; Cond and Loop recursively allocate blocks and nested generators
// for branch arms and loop parts, keeping every block well formed: one
// terminator, exits stitched to a shared merge block.
//
// Construction is single-threaded and synchronous. A generator that has
// placed a terminator is finished; all further mutation through it is a
// silent no-op, which models unreachable code after a return or branch.
//
// The value/type system, constants and primitive instructions come from
// github.com/llir/llvm; this package never optimizes the IR it emits.
package codegen
