package rubinwc

import (
	"errors"

	"rubin.dev/rubinwc-go/internal/engine"
	"rubin.dev/rubinwc-go/pkg/rubinwc/suite"
)

// verifyCodes maps the staged verifier failures onto one family's codes.
type verifyCodes struct {
	init        Code
	level       Code
	importKey   Code
	verify      Code
	unavailable Code
}

var (
	mldsaCodes = verifyCodes{
		init:      CodeMLDSAInitFailed,
		level:     CodeMLDSALevelUnsupported,
		importKey: CodeMLDSAImportFailed,
		verify:    CodeMLDSAVerifyFailed,
	}
	slhCodes = verifyCodes{
		init:        CodeSLHInitFailed,
		level:       CodeSLHLevelUnsupported,
		importKey:   CodeSLHImportFailed,
		verify:      CodeSLHVerifyFailed,
		unavailable: CodeSLHUnavailable,
	}
)

// VerifyMLDSA87 verifies an ML-DSA-87 signature over a pre-computed
// SHA3-256 digest. It returns (true, nil) for a valid signature,
// (false, nil) when verification completed and rejected the signature, and
// (false, err) when verification could not run. Nil pubkey or sig fails
// with CodeMLDSANullArgument; an empty non-nil slice is a length mismatch,
// not a null argument. Sizes are exact: 2592-byte public key, 4627-byte
// signature.
func (s *Shim) VerifyMLDSA87(pubkey, sig []byte, digest [32]byte) (bool, error) {
	if pubkey == nil || sig == nil {
		return false, CodeMLDSANullArgument
	}
	if len(pubkey) != suite.MLDSA87.PublicKeySize() {
		return false, CodeMLDSAPublicKeyLen
	}
	if len(sig) != suite.MLDSA87.SignatureSize() {
		return false, CodeMLDSASignatureLen
	}
	return s.verifyDigest(suite.MLDSA87, mldsaCodes, "verify-mldsa87", pubkey, sig, &digest)
}

// VerifySLHDSAShake256f verifies an SLH-DSA-SHAKE-256f signature over a
// pre-computed SHA3-256 digest. The availability check runs before
// everything else: on builds or configurations without SLH-DSA every call
// returns CodeSLHUnavailable. Otherwise the contract matches VerifyMLDSA87
// with the SLH-DSA codes and sizes (64-byte public key, 49856-byte
// signature).
func (s *Shim) VerifySLHDSAShake256f(pubkey, sig []byte, digest [32]byte) (bool, error) {
	if !s.slhdsaOn {
		return false, CodeSLHUnavailable
	}
	if pubkey == nil || sig == nil {
		return false, CodeSLHNullArgument
	}
	if len(pubkey) != suite.SLHDSAShake256f.PublicKeySize() {
		return false, CodeSLHPublicKeyLen
	}
	if len(sig) != suite.SLHDSAShake256f.SignatureSize() {
		return false, CodeSLHSignatureLen
	}
	return s.verifyDigest(suite.SLHDSAShake256f, slhCodes, "verify-slhdsa", pubkey, sig, &digest)
}

// verifyDigest drives the delegate's allocate, level, import, verify
// sequence and maps each stage onto the family's codes. The verifier is
// released on every path.
func (s *Shim) verifyDigest(alg suite.Algorithm, c verifyCodes, op string, pubkey, sig []byte, digest *[32]byte) (bool, error) {
	v, err := s.eng.NewVerifier(alg)
	if err != nil {
		if c.unavailable != 0 && errors.Is(err, engine.ErrUnavailable) {
			return false, c.unavailable
		}
		return false, &OpError{Op: op, Code: c.init, Err: err}
	}
	defer v.Close()

	if err := v.SetLevel(alg.Level()); err != nil {
		return false, &OpError{Op: op, Code: c.level, Err: err}
	}
	if err := v.ImportPublicKey(pubkey); err != nil {
		return false, &OpError{Op: op, Code: c.importKey, Err: err}
	}
	ok, err := v.VerifyDigest(digest, sig)
	if err != nil {
		return false, &OpError{Op: op, Code: c.verify, Err: err}
	}
	return ok, nil
}
