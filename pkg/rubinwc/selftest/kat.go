// Package selftest runs known-answer and pairwise-consistency checks
// against a shim instance, and provides a health monitor that drives a
// node-facing Normal/ReadOnly/Failed state machine from periodic runs.
package selftest

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"rubin.dev/rubinwc-go/internal/conformance"
	"rubin.dev/rubinwc-go/pkg/rubinwc"
	"rubin.dev/rubinwc-go/pkg/rubinwc/suite"
)

// Provider is the surface the self-tests exercise. *rubinwc.Shim
// satisfies it.
type Provider interface {
	rubinwc.Provider
	rubinwc.KeyWrapProvider
	SLHDSAAvailable() bool
}

// CheckStatus classifies one check's outcome.
type CheckStatus string

const (
	StatusOK      CheckStatus = "ok"
	StatusFailed  CheckStatus = "failed"
	StatusSkipped CheckStatus = "skipped"
)

// Check is one self-test result.
type Check struct {
	Name   string      `json:"name"`
	Status CheckStatus `json:"status"`
	Detail string      `json:"detail,omitempty"`
}

// Report aggregates one self-test run.
type Report struct {
	Checks []Check `json:"checks"`
}

// OK reports whether no check failed. Skipped checks do not fail a run.
func (r *Report) OK() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFailed {
			return false
		}
	}
	return true
}

// FailedChecks returns the checks that failed, in run order.
func (r *Report) FailedChecks() []Check {
	var out []Check
	for _, c := range r.Checks {
		if c.Status == StatusFailed {
			out = append(out, c)
		}
	}
	return out
}

// Known-answer material. SHA3-256 digests are the FIPS 202 reference
// values; the key wrap vector is RFC 3394 section 4.6 (256-bit KEK,
// 256-bit key data).
var (
	katDigestEmpty = mustHex("a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a")
	katDigestABC   = mustHex("3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532")

	katKWKEK     = mustHex("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	katKWPlain   = mustHex("00112233445566778899aabbccddeeff000102030405060708090a0b0c0d0e0f")
	katKWWrapped = mustHex("28c9f404c4b810f4cbccb35cfb87f8263f5786e2d80ed326cbc7f0e71a99f43bfb988b9b7a02dd21")
)

// Run executes the full check suite against p and never panics; a check
// that panics is recorded as failed. The suite covers both hash vectors,
// the RFC 3394 wrap vector with roundtrip, a tamper-detection probe, and
// sign/verify pairwise consistency for each signature suite this build
// carries.
func Run(p Provider) *Report {
	r := &Report{}
	r.add(runCheck("sha3-256/empty", func() error {
		return checkDigest(p, []byte{}, katDigestEmpty)
	}))
	r.add(runCheck("sha3-256/abc", func() error {
		return checkDigest(p, []byte("abc"), katDigestABC)
	}))
	r.add(runCheck("aes-256-kw/rfc3394", func() error {
		return checkKeyWrap(p)
	}))
	r.add(runCheck("aes-256-kw/tamper", func() error {
		return checkTamper(p)
	}))
	r.add(runCheck("ml-dsa-87/pairwise", func() error {
		return checkPairwise(p, suite.MLDSA87, p.VerifyMLDSA87)
	}))
	r.add(slhdsaCheck(p))
	return r
}

func (r *Report) add(c Check) {
	r.Checks = append(r.Checks, c)
}

func runCheck(name string, fn func() error) (c Check) {
	c = Check{Name: name, Status: StatusOK}
	defer func() {
		if p := recover(); p != nil {
			c.Status = StatusFailed
			c.Detail = fmt.Sprintf("panic: %v", p)
		}
	}()
	if err := fn(); err != nil {
		c.Status = StatusFailed
		c.Detail = err.Error()
	}
	return c
}

func checkDigest(p Provider, input, want []byte) error {
	got, err := p.SHA3_256(input)
	if err != nil {
		return err
	}
	if !bytes.Equal(got[:], want) {
		return fmt.Errorf("digest mismatch: got %x", got)
	}
	return nil
}

func checkKeyWrap(p Provider) error {
	wrapped, err := p.KeyWrap(katKWKEK, katKWPlain)
	if err != nil {
		return err
	}
	if !bytes.Equal(wrapped, katKWWrapped) {
		return fmt.Errorf("wrap mismatch: got %x", wrapped)
	}
	plain, err := p.KeyUnwrap(katKWKEK, wrapped)
	if err != nil {
		return err
	}
	if !bytes.Equal(plain, katKWPlain) {
		return fmt.Errorf("unwrap mismatch: got %x", plain)
	}
	return nil
}

func checkTamper(p Provider) error {
	wrapped, err := p.KeyWrap(katKWKEK, katKWPlain)
	if err != nil {
		return err
	}
	wrapped[len(wrapped)-1] ^= 0x01
	_, err = p.KeyUnwrap(katKWKEK, wrapped)
	if err == nil {
		return fmt.Errorf("tampered ciphertext unwrapped cleanly")
	}
	if code, ok := rubinwc.CodeOf(err); !ok || code != rubinwc.CodeKeyWrapIntegrity {
		return fmt.Errorf("tampered ciphertext returned %v, want integrity failure", err)
	}
	return nil
}

type verifyFunc func(pubkey, sig []byte, digest [32]byte) (bool, error)

func checkPairwise(p Provider, alg suite.Algorithm, verify verifyFunc) error {
	kp, err := conformance.GenerateKeyPair(alg)
	if err != nil {
		return err
	}
	digest, err := p.SHA3_256([]byte("rubinwc pairwise consistency probe"))
	if err != nil {
		return err
	}
	sig, err := kp.SignDigest(digest)
	if err != nil {
		return err
	}
	ok, err := verify(kp.PublicKey, sig, digest)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s rejected its own signature", alg)
	}
	digest[0] ^= 0x01
	ok, err = verify(kp.PublicKey, sig, digest)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%s accepted a signature over a different digest", alg)
	}
	return nil
}

func slhdsaCheck(p Provider) Check {
	const name = "slh-dsa-shake-256f/pairwise"
	if !p.SLHDSAAvailable() {
		return Check{Name: name, Status: StatusSkipped, Detail: "slh-dsa excluded from this build"}
	}
	if !conformance.CanSign(suite.SLHDSAShake256f) {
		return Check{Name: name, Status: StatusSkipped, Detail: "no slh-dsa signer in this build"}
	}
	return runCheck(name, func() error {
		return checkPairwise(p, suite.SLHDSAShake256f, p.VerifySLHDSAShake256f)
	})
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
