package engine

import (
	"errors"

	"rubin.dev/rubinwc-go/pkg/rubinwc/suite"
)

// Engine is the narrow surface of the underlying primitive library. The
// boundary layer validates every argument before it calls in here, so
// implementations may assume well-formed inputs; they must still report
// their own failures instead of assuming success.
type Engine interface {
	// NewHash allocates a SHA3-256 hashing context.
	NewHash() (Hash, error)

	// NewVerifier allocates verification state for the given suite.
	NewVerifier(alg suite.Algorithm) (Verifier, error)

	// NewKeyWrap initializes an AES key-wrapping context under kek.
	NewKeyWrap(kek []byte) (KeyWrap, error)

	// SLHDSAEnabled reports whether this build carries SLH-DSA support.
	SLHDSAEnabled() bool
}

// Hash is a single-use SHA3-256 context.
type Hash interface {
	Update(p []byte) error
	Final(out *[32]byte) error
	Close()
}

// Verifier is a single-use signature verification context. Calls follow the
// fixed order SetLevel, ImportPublicKey, VerifyDigest; Close releases the
// context and is safe after any prefix of that sequence.
type Verifier interface {
	SetLevel(level suite.Level) error
	ImportPublicKey(pk []byte) error
	VerifyDigest(digest *[32]byte, sig []byte) (bool, error)
	Close()
}

// KeyWrap is a single-use RFC 3394 context bound to one KEK.
type KeyWrap interface {
	// Wrap writes len(plain)+8 bytes to out and returns the count.
	Wrap(plain, out []byte) (int, error)

	// Unwrap verifies integrity and, only on success, writes
	// len(wrapped)-8 bytes to out and returns the count. On integrity
	// failure out is left untouched and ErrIntegrity is returned.
	Unwrap(wrapped, out []byte) (int, error)

	Close()
}

var (
	// ErrUnavailable reports an algorithm excluded from this build.
	ErrUnavailable = errors.New("engine: algorithm not built in")

	// ErrUnsupportedLevel reports a security level the suite is not
	// pinned to.
	ErrUnsupportedLevel = errors.New("engine: unsupported security level")

	// ErrIntegrity reports an RFC 3394 integrity check failure during
	// unwrap.
	ErrIntegrity = errors.New("engine: key unwrap integrity check failed")

	errClosed   = errors.New("engine: context closed")
	errSequence = errors.New("engine: call out of sequence")
)
