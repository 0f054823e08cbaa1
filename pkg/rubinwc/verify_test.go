package rubinwc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rubin.dev/rubinwc-go/internal/conformance"
	"rubin.dev/rubinwc-go/internal/engine/enginetest"
	"rubin.dev/rubinwc-go/pkg/rubinwc/suite"
)

type signedFixture struct {
	pubkey []byte
	sig    []byte
	digest [32]byte
}

func signFixture(t *testing.T, s *Shim, alg suite.Algorithm, msg []byte) signedFixture {
	t.Helper()
	digest, err := s.SHA3_256(msg)
	require.NoError(t, err)

	kp, err := conformance.GenerateKeyPair(alg)
	require.NoError(t, err)
	sig, err := kp.SignDigest(digest)
	require.NoError(t, err)
	require.Len(t, sig, alg.SignatureSize())
	require.Len(t, kp.PublicKey, alg.PublicKeySize())

	return signedFixture{pubkey: kp.PublicKey, sig: sig, digest: digest}
}

func TestVerifyMLDSA87(t *testing.T) {
	s := newTestShim(t, Config{})
	fx := signFixture(t, s, suite.MLDSA87, []byte("block header payload"))

	ok, err := s.VerifyMLDSA87(fx.pubkey, fx.sig, fx.digest)
	require.NoError(t, err)
	require.True(t, ok)

	// Determinism: the same verification twice.
	ok, err = s.VerifyMLDSA87(fx.pubkey, fx.sig, fx.digest)
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("tampered digest", func(t *testing.T) {
		digest := fx.digest
		digest[7] ^= 0x01
		ok, err := s.VerifyMLDSA87(fx.pubkey, fx.sig, digest)
		require.NoError(t, err, "an invalid signature is a result, not an error")
		require.False(t, ok)
	})

	t.Run("tampered signature", func(t *testing.T) {
		sig := append([]byte(nil), fx.sig...)
		sig[100] ^= 0x01
		ok, err := s.VerifyMLDSA87(fx.pubkey, sig, fx.digest)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := conformance.GenerateKeyPair(suite.MLDSA87)
		require.NoError(t, err)
		ok, err := s.VerifyMLDSA87(other.PublicKey, fx.sig, fx.digest)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("garbage signature of correct length", func(t *testing.T) {
		sig := make([]byte, suite.MLDSA87.SignatureSize())
		ok, err := s.VerifyMLDSA87(fx.pubkey, sig, fx.digest)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestVerifyMLDSA87ArgumentGate(t *testing.T) {
	s := newTestShim(t, Config{})
	fx := signFixture(t, s, suite.MLDSA87, []byte("gate"))

	tests := []struct {
		name   string
		pubkey []byte
		sig    []byte
		want   Code
	}{
		{"nil pubkey", nil, fx.sig, CodeMLDSANullArgument},
		{"nil signature", fx.pubkey, nil, CodeMLDSANullArgument},
		{"nil beats length", nil, fx.sig[:10], CodeMLDSANullArgument},
		{"empty pubkey is a length mismatch", []byte{}, fx.sig, CodeMLDSAPublicKeyLen},
		{"short pubkey", fx.pubkey[:len(fx.pubkey)-1], fx.sig, CodeMLDSAPublicKeyLen},
		{"long pubkey", append(append([]byte(nil), fx.pubkey...), 0), fx.sig, CodeMLDSAPublicKeyLen},
		{"short signature", fx.pubkey, fx.sig[:len(fx.sig)-1], CodeMLDSASignatureLen},
		{"long signature", fx.pubkey, append(append([]byte(nil), fx.sig...), 0), CodeMLDSASignatureLen},
		{"pubkey length beats signature length", fx.pubkey[:1], fx.sig[:1], CodeMLDSAPublicKeyLen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s.VerifyMLDSA87(tt.pubkey, tt.sig, fx.digest)
			require.False(t, ok)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVerifyMLDSA87DelegateFailures(t *testing.T) {
	base := newTestShim(t, Config{})
	fx := signFixture(t, base, suite.MLDSA87, []byte("delegate"))

	tests := []struct {
		name   string
		faults enginetest.Faults
		want   Code
	}{
		{"init", enginetest.Faults{VerifierInit: true}, CodeMLDSAInitFailed},
		{"level", enginetest.Faults{VerifierLevel: true}, CodeMLDSALevelUnsupported},
		{"import", enginetest.Faults{VerifierImport: true}, CodeMLDSAImportFailed},
		{"verify", enginetest.Faults{Verify: true}, CodeMLDSAVerifyFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestShim(t, Config{Engine: enginetest.New(tt.faults)})
			ok, err := s.VerifyMLDSA87(fx.pubkey, fx.sig, fx.digest)
			require.False(t, ok)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, enginetest.ErrInjected)
		})
	}
}

func TestVerifySLHDSAUnavailable(t *testing.T) {
	s := newTestShim(t, Config{DisableSLHDSA: true})
	require.False(t, s.SLHDSAAvailable())

	// The availability gate answers before argument validation.
	ok, err := s.VerifySLHDSAShake256f(nil, nil, [32]byte{})
	require.False(t, ok)
	require.ErrorIs(t, err, CodeSLHUnavailable)

	pk := make([]byte, suite.SLHDSAShake256f.PublicKeySize())
	sig := make([]byte, suite.SLHDSAShake256f.SignatureSize())
	ok, err = s.VerifySLHDSAShake256f(pk, sig, [32]byte{})
	require.False(t, ok)
	require.ErrorIs(t, err, CodeSLHUnavailable)
}

func TestVerifySLHDSAArgumentGate(t *testing.T) {
	s := newTestShim(t, Config{})
	if !s.SLHDSAAvailable() {
		t.Skip("build excludes SLH-DSA")
	}

	pk := make([]byte, suite.SLHDSAShake256f.PublicKeySize())
	sig := make([]byte, suite.SLHDSAShake256f.SignatureSize())

	tests := []struct {
		name   string
		pubkey []byte
		sig    []byte
		want   Code
	}{
		{"nil pubkey", nil, sig, CodeSLHNullArgument},
		{"nil signature", pk, nil, CodeSLHNullArgument},
		{"short pubkey", pk[:63], sig, CodeSLHPublicKeyLen},
		{"long pubkey", make([]byte, 65), sig, CodeSLHPublicKeyLen},
		{"short signature", pk, sig[:len(sig)-8], CodeSLHSignatureLen},
		{"pubkey length beats signature length", pk[:1], sig[:1], CodeSLHPublicKeyLen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s.VerifySLHDSAShake256f(tt.pubkey, tt.sig, [32]byte{})
			require.False(t, ok)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVerifySLHDSARoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("SLH-DSA signing is slow")
	}
	s := newTestShim(t, Config{})
	if !s.SLHDSAAvailable() {
		t.Skip("build excludes SLH-DSA")
	}

	fx := signFixture(t, s, suite.SLHDSAShake256f, []byte("snapshot root"))

	ok, err := s.VerifySLHDSAShake256f(fx.pubkey, fx.sig, fx.digest)
	require.NoError(t, err)
	require.True(t, ok)

	digest := fx.digest
	digest[0] ^= 0x80
	ok, err = s.VerifySLHDSAShake256f(fx.pubkey, fx.sig, digest)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifySLHDSADelegateFailures(t *testing.T) {
	probe := newTestShim(t, Config{})
	if !probe.SLHDSAAvailable() {
		t.Skip("build excludes SLH-DSA")
	}

	pk := make([]byte, suite.SLHDSAShake256f.PublicKeySize())
	sig := make([]byte, suite.SLHDSAShake256f.SignatureSize())

	tests := []struct {
		name   string
		faults enginetest.Faults
		want   Code
	}{
		{"init", enginetest.Faults{VerifierInit: true}, CodeSLHInitFailed},
		{"level", enginetest.Faults{VerifierLevel: true}, CodeSLHLevelUnsupported},
		{"import", enginetest.Faults{VerifierImport: true}, CodeSLHImportFailed},
		{"verify", enginetest.Faults{Verify: true}, CodeSLHVerifyFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestShim(t, Config{Engine: enginetest.New(tt.faults)})
			ok, err := s.VerifySLHDSAShake256f(pk, sig, [32]byte{})
			require.False(t, ok)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
