package rubinwc

import (
	"fmt"

	"rubin.dev/rubinwc-go/internal/engine"
)

// Shim is one boundary instance. It holds only immutable configuration (the
// delegate engine, the resolved SLH-DSA capability, the plaintext cap), so
// every method is safe for unsynchronized concurrent use and identical
// inputs always produce identical results. No call retains references to
// caller buffers or state from earlier calls.
type Shim struct {
	eng      engine.Engine
	slhdsaOn bool
	maxWrap  int
}

// New builds a shim from cfg. The SLH-DSA capability is resolved here, once:
// it requires both a build that carries the scheme and a configuration that
// does not disable it.
func New(cfg Config) (*Shim, error) {
	eng := cfg.Engine
	if eng == nil {
		eng = engine.Std{}
	}
	maxWrap := cfg.MaxKeyWrapPlaintext
	if maxWrap == 0 {
		maxWrap = DefaultMaxKeyWrapPlaintext
	}
	if maxWrap < KeyWrapBlockSize || maxWrap%KeyWrapBlockSize != 0 {
		return nil, fmt.Errorf("rubinwc: MaxKeyWrapPlaintext %d is not a positive multiple of %d", maxWrap, KeyWrapBlockSize)
	}
	return &Shim{
		eng:      eng,
		slhdsaOn: eng.SLHDSAEnabled() && !cfg.DisableSLHDSA,
		maxWrap:  maxWrap,
	}, nil
}

// SLHDSAAvailable reports whether SLH-DSA-SHAKE-256f verification is usable
// on this instance. When false, every SLH-DSA call returns
// CodeSLHUnavailable.
func (s *Shim) SLHDSAAvailable() bool {
	return s.slhdsaOn
}

// HasKeyManagement reports whether the key wrap/unwrap operations are
// exposed. The native shim always carries them.
func (s *Shim) HasKeyManagement() bool {
	return true
}
