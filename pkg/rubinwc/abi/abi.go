package abi

import (
	"rubin.dev/rubinwc-go/pkg/rubinwc"
)

// Success values of the numeric contract.
const (
	// OK reports success: the hash was written, the signature verified,
	// or (for the key wrap calls, which return bytes written) is unused.
	OK int32 = 1

	// Invalid reports that verification completed and rejected the
	// signature. It is a result, not a failure code.
	Invalid int32 = 0
)

// The surface runs over one immutable default shim with default limits, so
// the numeric behavior cannot drift per deployment.
var shim = mustShim()

func mustShim() *rubinwc.Shim {
	s, err := rubinwc.New(rubinwc.Config{})
	if err != nil {
		panic("abi: default shim: " + err.Error())
	}
	return s
}

// SHA3_256 hashes input into out (at least 32 bytes) and returns OK, or a
// negative hash-family code.
func SHA3_256(input, out []byte) int32 {
	if _, err := shim.HashInto(input, out); err != nil {
		return CodeOf(err, rubinwc.CodeHashUpdateFailed)
	}
	return OK
}

// VerifyMLDSA87 verifies an ML-DSA-87 signature over a 32-byte digest and
// returns OK, Invalid, or a negative ml-dsa-87-family code. A digest that
// is not exactly 32 bytes is an argument violation; nothing is examined
// beyond its length.
func VerifyMLDSA87(pubkey, sig, digest []byte) int32 {
	if len(digest) != rubinwc.DigestSize {
		return rubinwc.CodeMLDSANullArgument.Int32()
	}
	ok, err := shim.VerifyMLDSA87(pubkey, sig, [32]byte(digest))
	return verdict(ok, err, rubinwc.CodeMLDSAVerifyFailed)
}

// VerifySLHDSAShake256f verifies an SLH-DSA-SHAKE-256f signature over a
// 32-byte digest. On builds without the scheme every call returns the
// unavailable code before any argument is examined.
func VerifySLHDSAShake256f(pubkey, sig, digest []byte) int32 {
	if !shim.SLHDSAAvailable() {
		return rubinwc.CodeSLHUnavailable.Int32()
	}
	if len(digest) != rubinwc.DigestSize {
		return rubinwc.CodeSLHNullArgument.Int32()
	}
	ok, err := shim.VerifySLHDSAShake256f(pubkey, sig, [32]byte(digest))
	return verdict(ok, err, rubinwc.CodeSLHVerifyFailed)
}

// AESKeyWrap wraps keyIn under kek into out and returns the bytes written
// (len(keyIn)+8), or a negative keywrap-family code.
func AESKeyWrap(kek, keyIn, out []byte) int32 {
	n, err := shim.WrapInto(kek, keyIn, out)
	if err != nil {
		return CodeOf(err, rubinwc.CodeKeyWrapOpFailed)
	}
	return int32(n)
}

// AESKeyUnwrap unwraps wrapped under kek into out and returns the bytes
// written (len(wrapped)-8), or a negative keywrap-family code; integrity
// failures return the dedicated integrity code.
func AESKeyUnwrap(kek, wrapped, out []byte) int32 {
	n, err := shim.UnwrapInto(kek, wrapped, out)
	if err != nil {
		return CodeOf(err, rubinwc.CodeKeyWrapOpFailed)
	}
	return int32(n)
}

// SLHDSAAvailable mirrors the runtime capability query at the numeric
// boundary.
func SLHDSAAvailable() bool {
	return shim.SLHDSAAvailable()
}

// CodeOf is the single translation step from the internal error taxonomy to
// caller-facing values. Errors that carry no code, which the boundary never
// produces, map to the family fallback.
func CodeOf(err error, fallback rubinwc.Code) int32 {
	if c, ok := rubinwc.CodeOf(err); ok {
		return c.Int32()
	}
	return fallback.Int32()
}

func verdict(ok bool, err error, fallback rubinwc.Code) int32 {
	if err != nil {
		return CodeOf(err, fallback)
	}
	if ok {
		return OK
	}
	return Invalid
}
