// Package suite defines the closed registry of signature parameter sets
// accepted by the verification operations.
//
// # Supported Suites
//
//   - ML-DSA-87 (FIPS 204, security category 5): 2592-byte public keys,
//     4627-byte signatures, suite ID 0x01.
//   - SLH-DSA-SHAKE-256f (FIPS 205, security category 5, fast variant):
//     64-byte public keys, 49856-byte signatures, suite ID 0x02.
//
// Every size is an exact-match constraint. There is no negotiation: a
// caller selects a suite by calling the operation for it, and anything an
// accessor does not recognize is rejected rather than defaulted.
package suite
