// Package diag defines the diagnostic model shared by the library and
// assembly layers.
//
// Diagnostics cover the soft failures of namespace construction: invalid
// visibility or prefix arguments that fall back to defaults, global name
// collisions during import merges, duplicate definitions noticed during
// program assembly. Hard failures (type mismatches, bad arity, zero
// divisors) are ordinary Go errors returned at the call site and never land
// here.
//
// Producers hold a Reporter so that emission stays decoupled from storage;
// diag.BagReporter aggregates into a Bag, which supports sorting and merging
// for deterministic CLI output.
package diag
