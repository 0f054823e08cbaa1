package rubinwc

// Provider is the hash-and-verify surface node code consumes. Consumers
// hold the interface, not *Shim, so deployments can swap the backing
// implementation without touching call sites.
type Provider interface {
	SHA3_256(input []byte) ([32]byte, error)
	VerifyMLDSA87(pubkey, sig []byte, digest [32]byte) (bool, error)
	VerifySLHDSAShake256f(pubkey, sig []byte, digest [32]byte) (bool, error)
}

// KeyWrapProvider is the key-custody surface consumed by key management
// tooling. HasKeyManagement lets callers probe for providers that only
// implement verification.
type KeyWrapProvider interface {
	HasKeyManagement() bool
	KeyWrap(kek, keyIn []byte) ([]byte, error)
	KeyUnwrap(kek, wrapped []byte) ([]byte, error)
}

var (
	_ Provider        = (*Shim)(nil)
	_ KeyWrapProvider = (*Shim)(nil)
)
