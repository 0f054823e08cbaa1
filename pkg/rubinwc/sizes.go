package rubinwc

// Fixed sizes of the boundary. All are exact-match constraints except the
// key-wrap plaintext, which ranges over non-zero multiples of the semiblock
// size up to the configured maximum.
const (
	// DigestSize is the SHA3-256 output size in bytes.
	DigestSize = 32

	// KEKSize is the AES-256 key-encryption-key size in bytes.
	KEKSize = 32

	// KeyWrapBlockSize is the RFC 3394 semiblock size; plaintext and
	// wrapped lengths must be multiples of it.
	KeyWrapBlockSize = 8

	// KeyWrapOverhead is the expansion added by wrapping (the integrity
	// register).
	KeyWrapOverhead = 8

	// DefaultMaxKeyWrapPlaintext is the default cap on key-wrap plaintext
	// length. It comfortably covers every secret key the suites produce.
	DefaultMaxKeyWrapPlaintext = 4096

	// MaxHashInput is the largest hashable input in bytes, fixed by the
	// delegate's 32-bit length counter domain.
	MaxHashInput = 1<<32 - 1
)

// WrappedSize returns the wrapped length for an n-byte plaintext and whether
// n is a valid wrap input under this shim's plaintext cap.
func (s *Shim) WrappedSize(n int) (int, bool) {
	if n < KeyWrapBlockSize || n > s.maxWrap || n%KeyWrapBlockSize != 0 {
		return 0, false
	}
	return n + KeyWrapOverhead, true
}

// UnwrappedSize returns the plaintext length recovered from an n-byte
// wrapped input and whether n is a valid unwrap input.
func (s *Shim) UnwrappedSize(n int) (int, bool) {
	if n < KeyWrapBlockSize+KeyWrapOverhead || n > s.maxWrap+KeyWrapOverhead || n%KeyWrapBlockSize != 0 {
		return 0, false
	}
	return n - KeyWrapOverhead, true
}

// MaxKeyWrapPlaintext returns this shim's plaintext cap.
func (s *Shim) MaxKeyWrapPlaintext() int {
	return s.maxWrap
}
