// Package enginetest provides a fault-injecting engine wrapper so tests can
// reach delegate-failure paths the production engine never takes.
package enginetest

import (
	"errors"

	"rubin.dev/rubinwc-go/internal/engine"
	"rubin.dev/rubinwc-go/pkg/rubinwc/suite"
)

// ErrInjected is the error every injected fault reports.
var ErrInjected = errors.New("enginetest: injected fault")

// Faults selects the delegate stages that fail.
type Faults struct {
	HashInit   bool
	HashUpdate bool
	HashFinal  bool

	VerifierInit   bool
	VerifierLevel  bool
	VerifierImport bool
	Verify         bool

	CipherInit bool
	Wrap       bool
	Unwrap     bool
}

// Engine wraps an inner engine and fails the selected stages. The zero
// Faults value passes everything through.
type Engine struct {
	Inner  engine.Engine
	Faults Faults
}

var _ engine.Engine = (*Engine)(nil)

// New wraps the production engine with the given faults.
func New(f Faults) *Engine {
	return &Engine{Inner: engine.Std{}, Faults: f}
}

func (e *Engine) NewHash() (engine.Hash, error) {
	if e.Faults.HashInit {
		return nil, ErrInjected
	}
	inner, err := e.Inner.NewHash()
	if err != nil {
		return nil, err
	}
	return &faultyHash{inner: inner, f: e.Faults}, nil
}

func (e *Engine) NewVerifier(alg suite.Algorithm) (engine.Verifier, error) {
	if e.Faults.VerifierInit {
		return nil, ErrInjected
	}
	inner, err := e.Inner.NewVerifier(alg)
	if err != nil {
		return nil, err
	}
	return &faultyVerifier{inner: inner, f: e.Faults}, nil
}

func (e *Engine) NewKeyWrap(kek []byte) (engine.KeyWrap, error) {
	if e.Faults.CipherInit {
		return nil, ErrInjected
	}
	inner, err := e.Inner.NewKeyWrap(kek)
	if err != nil {
		return nil, err
	}
	return &faultyKeyWrap{inner: inner, f: e.Faults}, nil
}

func (e *Engine) SLHDSAEnabled() bool {
	return e.Inner.SLHDSAEnabled()
}

type faultyHash struct {
	inner engine.Hash
	f     Faults
}

func (h *faultyHash) Update(p []byte) error {
	if h.f.HashUpdate {
		return ErrInjected
	}
	return h.inner.Update(p)
}

func (h *faultyHash) Final(out *[32]byte) error {
	if h.f.HashFinal {
		return ErrInjected
	}
	return h.inner.Final(out)
}

func (h *faultyHash) Close() { h.inner.Close() }

type faultyVerifier struct {
	inner engine.Verifier
	f     Faults
}

func (v *faultyVerifier) SetLevel(level suite.Level) error {
	if v.f.VerifierLevel {
		return ErrInjected
	}
	return v.inner.SetLevel(level)
}

func (v *faultyVerifier) ImportPublicKey(pk []byte) error {
	if v.f.VerifierImport {
		return ErrInjected
	}
	return v.inner.ImportPublicKey(pk)
}

func (v *faultyVerifier) VerifyDigest(digest *[32]byte, sig []byte) (bool, error) {
	if v.f.Verify {
		return false, ErrInjected
	}
	return v.inner.VerifyDigest(digest, sig)
}

func (v *faultyVerifier) Close() { v.inner.Close() }

type faultyKeyWrap struct {
	inner engine.KeyWrap
	f     Faults
}

func (w *faultyKeyWrap) Wrap(plain, out []byte) (int, error) {
	if w.f.Wrap {
		return 0, ErrInjected
	}
	return w.inner.Wrap(plain, out)
}

func (w *faultyKeyWrap) Unwrap(wrapped, out []byte) (int, error) {
	if w.f.Unwrap {
		return 0, ErrInjected
	}
	return w.inner.Unwrap(wrapped, out)
}

func (w *faultyKeyWrap) Close() { w.inner.Close() }
