package suite

// Algorithm identifies a signature parameter set accepted by the verify
// operations. The set is closed: there is no negotiation and no default.
type Algorithm uint8

// Signature suites supported by the boundary.
const (
	MLDSA87 Algorithm = iota + 1
	SLHDSAShake256f
)

// Level is the NIST security category a parameter set is pinned to.
// Both supported suites sit at category 5; SLH-DSA additionally pins the
// fast (f) SHAKE variant.
type Level uint8

const (
	// Level5 is NIST security category 5.
	Level5 Level = 5
)

// Suite ID bytes carried in wrapped-key records and other wire formats.
const (
	SuiteIDMLDSA87         byte = 0x01
	SuiteIDSLHDSAShake256f byte = 0x02
)

// String returns the canonical suite name.
func (a Algorithm) String() string {
	switch a {
	case MLDSA87:
		return "ML-DSA-87"
	case SLHDSAShake256f:
		return "SLH-DSA-SHAKE-256f"
	default:
		return "Unknown"
	}
}

// Valid reports whether a names a supported suite.
func (a Algorithm) Valid() bool {
	return a == MLDSA87 || a == SLHDSAShake256f
}

// PublicKeySize returns the exact packed public key size in bytes.
// Sizes are exact-match constraints, not minimums.
func (a Algorithm) PublicKeySize() int {
	switch a {
	case MLDSA87:
		return 2592
	case SLHDSAShake256f:
		return 64
	default:
		return 0
	}
}

// SignatureSize returns the exact signature size in bytes.
func (a Algorithm) SignatureSize() int {
	switch a {
	case MLDSA87:
		return 4627
	case SLHDSAShake256f:
		return 49856
	default:
		return 0
	}
}

// Level returns the security category the suite is pinned to.
func (a Algorithm) Level() Level {
	switch a {
	case MLDSA87, SLHDSAShake256f:
		return Level5
	default:
		return 0
	}
}

// SuiteID returns the wire byte identifying the suite in key records.
func (a Algorithm) SuiteID() byte {
	switch a {
	case MLDSA87:
		return SuiteIDMLDSA87
	case SLHDSAShake256f:
		return SuiteIDSLHDSAShake256f
	default:
		return 0
	}
}

// BySuiteID maps a wire suite ID byte back to its Algorithm. Unknown IDs
// are rejected, never defaulted.
func BySuiteID(id byte) (Algorithm, bool) {
	switch id {
	case SuiteIDMLDSA87:
		return MLDSA87, true
	case SuiteIDSLHDSAShake256f:
		return SLHDSAShake256f, true
	default:
		return 0, false
	}
}

// All returns the supported suites in suite ID order.
func All() []Algorithm {
	return []Algorithm{MLDSA87, SLHDSAShake256f}
}
