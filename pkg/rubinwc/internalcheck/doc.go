// Package internalcheck holds source-level policy tests for the shim.
//
// The tests load the packages where key material flows (the engine, the
// shim core, and the keystore) and reject patterns that tend to turn
// into vulnerabilities in crypto boundary code: variable-time comparison
// of byte material and hex-formatting of raw byte slices into log or
// error strings. Display of public values goes through encoding/hex at
// the call sites that own them.
//
// Nothing here is importable API; the package exists for its tests.
package internalcheck
