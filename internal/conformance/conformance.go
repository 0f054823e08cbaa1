// Package conformance provides signing support for tests, self-tests, and
// fixture tooling. The boundary itself never signs; everything here exists
// to produce valid inputs for the verify operations and wrapped-key
// fixtures for cross-implementation checks.
package conformance

import (
	"fmt"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"

	"rubin.dev/rubinwc-go/pkg/rubinwc/suite"
)

var mldsaSigner sign.Scheme = mldsa87.Scheme()

// KeyPair holds one suite's keypair with the public key in packed form.
type KeyPair struct {
	Algorithm suite.Algorithm
	PublicKey []byte
	private   sign.PrivateKey
}

// CanSign reports whether this build carries a signer for alg.
func CanSign(alg suite.Algorithm) bool {
	s, err := schemeFor(alg)
	return err == nil && s != nil
}

// SeedSize returns the seed length DeriveKeyPair expects for alg.
func SeedSize(alg suite.Algorithm) (int, error) {
	s, err := schemeFor(alg)
	if err != nil {
		return 0, err
	}
	return s.SeedSize(), nil
}

// GenerateKeyPair produces a fresh random keypair for alg.
func GenerateKeyPair(alg suite.Algorithm) (*KeyPair, error) {
	s, err := schemeFor(alg)
	if err != nil {
		return nil, err
	}
	pub, priv, err := s.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("conformance: generate %s keypair: %w", alg, err)
	}
	return newKeyPair(alg, pub, priv)
}

// DeriveKeyPair produces the deterministic keypair for seed. The seed
// length must equal SeedSize(alg).
func DeriveKeyPair(alg suite.Algorithm, seed []byte) (*KeyPair, error) {
	s, err := schemeFor(alg)
	if err != nil {
		return nil, err
	}
	if len(seed) != s.SeedSize() {
		return nil, fmt.Errorf("conformance: %s seed must be %d bytes, got %d", alg, s.SeedSize(), len(seed))
	}
	pub, priv := s.DeriveKey(seed)
	return newKeyPair(alg, pub, priv)
}

// SignDigest signs a pre-computed 32-byte digest, mirroring how node code
// feeds the verify operations.
func (kp *KeyPair) SignDigest(digest [32]byte) ([]byte, error) {
	s, err := schemeFor(kp.Algorithm)
	if err != nil {
		return nil, err
	}
	return s.Sign(kp.private, digest[:], nil), nil
}

// PrivateKeyBytes returns the packed secret key, e.g. for wrapped-key
// fixtures. Callers own the copy and should zeroize it when done.
func (kp *KeyPair) PrivateKeyBytes() ([]byte, error) {
	b, err := kp.private.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("conformance: pack %s secret key: %w", kp.Algorithm, err)
	}
	return b, nil
}

func newKeyPair(alg suite.Algorithm, pub sign.PublicKey, priv sign.PrivateKey) (*KeyPair, error) {
	pk, err := pub.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("conformance: pack %s public key: %w", alg, err)
	}
	return &KeyPair{Algorithm: alg, PublicKey: pk, private: priv}, nil
}

func schemeFor(alg suite.Algorithm) (sign.Scheme, error) {
	switch alg {
	case suite.MLDSA87:
		return mldsaSigner, nil
	case suite.SLHDSAShake256f:
		if slhdsaSigner == nil {
			return nil, fmt.Errorf("conformance: %s excluded from this build", alg)
		}
		return slhdsaSigner, nil
	default:
		return nil, fmt.Errorf("conformance: unknown algorithm %d", alg)
	}
}
