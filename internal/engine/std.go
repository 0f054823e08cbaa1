package engine

import (
	"crypto/aes"
	"fmt"
	"hash"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
	"golang.org/x/crypto/sha3"

	"rubin.dev/rubinwc-go/pkg/rubinwc/suite"
)

// Std is the production engine. It carries no state; every context it hands
// out is independent, so a single Std value is safe for concurrent use.
type Std struct{}

var mldsaScheme sign.Scheme = mldsa87.Scheme()

// NewHash returns a fresh SHA3-256 context.
func (Std) NewHash() (Hash, error) {
	return &sha3Hash{h: sha3.New256()}, nil
}

// NewVerifier returns verification state for alg. SLH-DSA requests fail
// with ErrUnavailable when the build excludes the scheme.
func (Std) NewVerifier(alg suite.Algorithm) (Verifier, error) {
	switch alg {
	case suite.MLDSA87:
		return &schemeVerifier{alg: alg, scheme: mldsaScheme}, nil
	case suite.SLHDSAShake256f:
		if slhdsaScheme == nil {
			return nil, ErrUnavailable
		}
		return &schemeVerifier{alg: alg, scheme: slhdsaScheme}, nil
	default:
		return nil, fmt.Errorf("engine: unknown algorithm %d", alg)
	}
}

// NewKeyWrap expands kek into an AES-256 context for RFC 3394 operations.
func (Std) NewKeyWrap(kek []byte) (KeyWrap, error) {
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}
	return &aesKeyWrap{block: block}, nil
}

// SLHDSAEnabled reports whether the build registered the SLH-DSA scheme.
func (Std) SLHDSAEnabled() bool {
	return slhdsaScheme != nil
}

type sha3Hash struct {
	h hash.Hash
}

func (s *sha3Hash) Update(p []byte) error {
	if s.h == nil {
		return errClosed
	}
	_, err := s.h.Write(p)
	return err
}

func (s *sha3Hash) Final(out *[32]byte) error {
	if s.h == nil {
		return errClosed
	}
	s.h.Sum(out[:0])
	return nil
}

func (s *sha3Hash) Close() {
	s.h = nil
}

// schemeVerifier adapts a CIRCL sign.Scheme to the staged verifier contract.
type schemeVerifier struct {
	alg        suite.Algorithm
	scheme     sign.Scheme
	configured bool
	pub        sign.PublicKey
}

func (v *schemeVerifier) SetLevel(level suite.Level) error {
	if v.scheme == nil {
		return errClosed
	}
	if level != v.alg.Level() {
		return ErrUnsupportedLevel
	}
	v.configured = true
	return nil
}

func (v *schemeVerifier) ImportPublicKey(pk []byte) error {
	if v.scheme == nil {
		return errClosed
	}
	if !v.configured {
		return errSequence
	}
	pub, err := v.scheme.UnmarshalBinaryPublicKey(pk)
	if err != nil {
		return err
	}
	v.pub = pub
	return nil
}

func (v *schemeVerifier) VerifyDigest(digest *[32]byte, sig []byte) (bool, error) {
	if v.scheme == nil {
		return false, errClosed
	}
	if v.pub == nil {
		return false, errSequence
	}
	return v.scheme.Verify(v.pub, digest[:], sig, nil), nil
}

func (v *schemeVerifier) Close() {
	v.pub = nil
	v.configured = false
	v.scheme = nil
}
