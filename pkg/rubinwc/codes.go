package rubinwc

import "strconv"

// Class groups failure codes by their cross-cutting kind, independent of
// which operation family produced them.
type Class uint8

const (
	// ClassNullArgument: a required argument was nil/absent.
	ClassNullArgument Class = iota + 1
	// ClassLengthMismatch: a fixed-length field had the wrong length, or a
	// variable-length field had a length the format forbids.
	ClassLengthMismatch
	// ClassInputTooLarge: input exceeds the delegate's length-counter domain.
	ClassInputTooLarge
	// ClassOutputTooSmall: the caller-supplied output buffer cannot hold
	// the result.
	ClassOutputTooSmall
	// ClassContextInitFailure: the delegate could not allocate or
	// initialize per-call state.
	ClassContextInitFailure
	// ClassOperationFailure: the delegate failed mid-operation.
	ClassOperationFailure
	// ClassIntegrityCheckFailure: authenticated unwrapping detected a
	// wrong KEK or tampered ciphertext.
	ClassIntegrityCheckFailure
	// ClassUnsupportedConfiguration: the capability is excluded from this
	// build or disabled by configuration.
	ClassUnsupportedConfiguration
	// ClassVerifierLevelUnsupported: the delegate rejected the pinned
	// security level.
	ClassVerifierLevelUnsupported
	// ClassKeyImportFailure: the delegate rejected the public key bytes.
	ClassKeyImportFailure
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassNullArgument:
		return "NullArgument"
	case ClassLengthMismatch:
		return "LengthMismatch"
	case ClassInputTooLarge:
		return "InputTooLarge"
	case ClassOutputTooSmall:
		return "OutputTooSmall"
	case ClassContextInitFailure:
		return "ContextInitFailure"
	case ClassOperationFailure:
		return "OperationFailure"
	case ClassIntegrityCheckFailure:
		return "IntegrityCheckFailure"
	case ClassUnsupportedConfiguration:
		return "UnsupportedConfiguration"
	case ClassVerifierLevelUnsupported:
		return "VerifierLevelUnsupported"
	case ClassKeyImportFailure:
		return "KeyImportFailure"
	default:
		return "Unknown"
	}
}

// Code is the closed enumeration of boundary failures. The numeric values
// are the stable caller-facing contract and never change meaning; new
// failure modes get new values instead of reusing old ones. Code implements
// error, so operations return codes directly and callers match them with
// errors.Is.
type Code int32

// SHA3-256 failures.
const (
	CodeHashNullOutput    Code = -1
	CodeHashNullInput     Code = -2
	CodeHashInitFailed    Code = -3
	CodeHashUpdateFailed  Code = -4
	CodeHashFinalFailed   Code = -5
	CodeHashInputTooLarge Code = -6
)

// ML-DSA-87 verification failures.
const (
	CodeMLDSANullArgument     Code = -10
	CodeMLDSAInitFailed       Code = -11
	CodeMLDSALevelUnsupported Code = -12
	CodeMLDSAImportFailed     Code = -13
	CodeMLDSAVerifyFailed     Code = -14
	CodeMLDSAPublicKeyLen     Code = -15
	CodeMLDSASignatureLen     Code = -16
)

// SLH-DSA-SHAKE-256f verification failures.
const (
	CodeSLHNullArgument     Code = -20
	CodeSLHInitFailed       Code = -21
	CodeSLHLevelUnsupported Code = -22
	CodeSLHImportFailed     Code = -23
	CodeSLHVerifyFailed     Code = -24
	CodeSLHUnavailable      Code = -25
	CodeSLHPublicKeyLen     Code = -26
	CodeSLHSignatureLen     Code = -27
)

// AES-256-KW failures, shared by wrap and unwrap. CodeKeyWrapIntegrity is
// produced by unwrap only.
const (
	CodeKeyWrapNullArgument   Code = -30
	CodeKeyWrapKEKLen         Code = -31
	CodeKeyWrapBadLength      Code = -32
	CodeKeyWrapOutputTooSmall Code = -33
	CodeKeyWrapInitFailed     Code = -34
	CodeKeyWrapOpFailed       Code = -35
	CodeKeyWrapIntegrity      Code = -36
)

// Error implements error with a stable, code-suffixed message.
func (c Code) Error() string {
	return "rubinwc: " + c.message() + " (" + strconv.Itoa(int(c)) + ")"
}

// Int32 returns the caller-facing numeric value.
func (c Code) Int32() int32 {
	return int32(c)
}

// Class returns the cross-cutting failure kind for the code.
func (c Code) Class() Class {
	switch c {
	case CodeHashNullOutput, CodeHashNullInput,
		CodeMLDSANullArgument, CodeSLHNullArgument, CodeKeyWrapNullArgument:
		return ClassNullArgument
	case CodeMLDSAPublicKeyLen, CodeMLDSASignatureLen,
		CodeSLHPublicKeyLen, CodeSLHSignatureLen,
		CodeKeyWrapKEKLen, CodeKeyWrapBadLength:
		return ClassLengthMismatch
	case CodeHashInputTooLarge:
		return ClassInputTooLarge
	case CodeKeyWrapOutputTooSmall:
		return ClassOutputTooSmall
	case CodeHashInitFailed, CodeMLDSAInitFailed, CodeSLHInitFailed, CodeKeyWrapInitFailed:
		return ClassContextInitFailure
	case CodeHashUpdateFailed, CodeHashFinalFailed,
		CodeMLDSAVerifyFailed, CodeSLHVerifyFailed, CodeKeyWrapOpFailed:
		return ClassOperationFailure
	case CodeKeyWrapIntegrity:
		return ClassIntegrityCheckFailure
	case CodeSLHUnavailable:
		return ClassUnsupportedConfiguration
	case CodeMLDSALevelUnsupported, CodeSLHLevelUnsupported:
		return ClassVerifierLevelUnsupported
	case CodeMLDSAImportFailed, CodeSLHImportFailed:
		return ClassKeyImportFailure
	default:
		return 0
	}
}

// Retryable reports whether the failure may be transient. Only mid-operation
// delegate failures qualify; every other code is a caller bug, a deliberate
// tamper signal, or a build limitation and retrying cannot change the result.
func (c Code) Retryable() bool {
	return c.Class() == ClassOperationFailure
}

func (c Code) message() string {
	switch c {
	case CodeHashNullOutput:
		return "sha3-256: output buffer is nil or undersized"
	case CodeHashNullInput:
		return "sha3-256: input pointer is null with non-zero length"
	case CodeHashInitFailed:
		return "sha3-256: hash context initialization failed"
	case CodeHashUpdateFailed:
		return "sha3-256: hash update failed"
	case CodeHashFinalFailed:
		return "sha3-256: hash finalization failed"
	case CodeHashInputTooLarge:
		return "sha3-256: input exceeds maximum length"
	case CodeMLDSANullArgument:
		return "ml-dsa-87: required argument is nil"
	case CodeMLDSAInitFailed:
		return "ml-dsa-87: verifier initialization failed"
	case CodeMLDSALevelUnsupported:
		return "ml-dsa-87: security level not supported"
	case CodeMLDSAImportFailed:
		return "ml-dsa-87: public key import failed"
	case CodeMLDSAVerifyFailed:
		return "ml-dsa-87: verification could not complete"
	case CodeMLDSAPublicKeyLen:
		return "ml-dsa-87: public key length mismatch"
	case CodeMLDSASignatureLen:
		return "ml-dsa-87: signature length mismatch"
	case CodeSLHNullArgument:
		return "slh-dsa-shake-256f: required argument is nil"
	case CodeSLHInitFailed:
		return "slh-dsa-shake-256f: verifier initialization failed"
	case CodeSLHLevelUnsupported:
		return "slh-dsa-shake-256f: security level not supported"
	case CodeSLHImportFailed:
		return "slh-dsa-shake-256f: public key import failed"
	case CodeSLHVerifyFailed:
		return "slh-dsa-shake-256f: verification could not complete"
	case CodeSLHUnavailable:
		return "slh-dsa-shake-256f: not available in this build"
	case CodeSLHPublicKeyLen:
		return "slh-dsa-shake-256f: public key length mismatch"
	case CodeSLHSignatureLen:
		return "slh-dsa-shake-256f: signature length mismatch"
	case CodeKeyWrapNullArgument:
		return "aes-256-kw: required argument is nil"
	case CodeKeyWrapKEKLen:
		return "aes-256-kw: KEK length mismatch"
	case CodeKeyWrapBadLength:
		return "aes-256-kw: invalid input length"
	case CodeKeyWrapOutputTooSmall:
		return "aes-256-kw: output buffer too small"
	case CodeKeyWrapInitFailed:
		return "aes-256-kw: cipher initialization failed"
	case CodeKeyWrapOpFailed:
		return "aes-256-kw: operation failed"
	case CodeKeyWrapIntegrity:
		return "aes-256-kw: integrity check failed"
	default:
		return "unknown failure"
	}
}
