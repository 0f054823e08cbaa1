// Package engine holds the delegate boundary between the shim and the
// primitive implementations.
//
// The Engine interface is deliberately narrow: hash init/update/finalize,
// verifier init/level/import/verify, and cipher init/wrap/unwrap. Nothing
// else of the underlying libraries leaks upward, so swapping or faulting a
// primitive touches only this package.
//
// Std is the production engine: SHA3-256 via golang.org/x/crypto/sha3,
// ML-DSA-87 and SLH-DSA-SHAKE-256f via CIRCL's generic signature schemes,
// and RFC 3394 key wrapping over the crypto/aes block cipher. SLH-DSA is
// compiled in by default and excluded with -tags noslhdsa; exclusion is
// observable at runtime through Engine.SLHDSAEnabled rather than a missing
// symbol.
//
// Contexts returned by an engine are single-use and must be closed on every
// path. They are not safe for concurrent use; the engine itself is.
package engine
