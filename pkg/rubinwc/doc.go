// Package rubinwc exposes the stable cryptographic boundary used by RUBIN
// node software: SHA3-256 hashing, ML-DSA-87 and SLH-DSA-SHAKE-256f
// signature verification over pre-computed digests, and AES-256 key
// wrapping per RFC 3394.
//
// Every operation is stateless and validates its arguments in a fixed
// order (null arguments, fixed-length fields, input length, output
// capacity) before delegating to the primitive engine. Failures map onto
// the closed Code enumeration whose int32 values are frozen; the abi and
// cshared layers expose those values to foreign callers unchanged.
// Verification reports invalid signatures as (false, nil), never as an
// error: an error means the check could not run.
//
// SLH-DSA support is compiled in by default and excluded with
// -tags noslhdsa; availability is a runtime query, and unavailable builds
// answer every SLH-DSA call with CodeSLHUnavailable.
package rubinwc
