package rubinwc

import "rubin.dev/rubinwc-go/internal/engine"

// Config selects the delegate engine and per-instance limits. The zero
// value is the production configuration.
type Config struct {
	// Engine overrides the delegate. Nil selects the production engine
	// (CIRCL signatures, x/crypto SHA3, AES-KW over crypto/aes). Tests
	// inject fault-wrapped engines here.
	Engine engine.Engine

	// DisableSLHDSA forces the SLH-DSA unavailable path even when the
	// build carries the scheme. Builds made with -tags noslhdsa are
	// unavailable regardless of this flag.
	DisableSLHDSA bool

	// MaxKeyWrapPlaintext caps key-wrap plaintext length in bytes for
	// this instance. Zero selects DefaultMaxKeyWrapPlaintext. The value
	// must be a positive multiple of KeyWrapBlockSize. The numeric ABI
	// surfaces (abi, cshared) always run with the default so the frozen
	// contract does not drift per deployment.
	MaxKeyWrapPlaintext int
}
