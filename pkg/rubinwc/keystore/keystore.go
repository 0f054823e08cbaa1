// Package keystore implements the RBKSv1 wrapped-key file format: a JSON
// record carrying a signature suite ID, the public key, a SHA3-256 key
// identifier derived from it, and the secret key wrapped under AES-256-KW.
//
// The format is development tooling, not an HSM. Records never hold
// plaintext secret keys; unwrap results are returned to the caller, who
// owns their lifetime and should wipe them with rubinwc.ZeroizeBytes when
// done.
package keystore

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"rubin.dev/rubinwc-go/pkg/rubinwc"
	"rubin.dev/rubinwc-go/pkg/rubinwc/suite"
)

// Format constants embedded in every record. Readers reject anything else.
const (
	FormatVersion = "RBKSv1"
	WrapAlgorithm = "AES-256-KW"
)

// Hasher derives key identifiers. *rubinwc.Shim satisfies it.
type Hasher interface {
	SHA3_256(input []byte) ([32]byte, error)
}

// Wrapper performs AES-256-KW key custody operations. *rubinwc.Shim
// satisfies it; HasKeyManagement lets callers probe providers that only
// implement verification.
type Wrapper interface {
	HasKeyManagement() bool
	KeyWrap(kek, keyIn []byte) ([]byte, error)
	KeyUnwrap(kek, wrapped []byte) ([]byte, error)
}

// Record is one RBKSv1 keystore entry. All byte fields are lowercase hex.
type Record struct {
	Version      string `json:"version"`
	SuiteID      uint8  `json:"suite_id"`
	PubkeyHex    string `json:"pubkey_hex"`
	KeyIDHex     string `json:"key_id_hex"`
	WrapAlg      string `json:"wrap_alg"`
	WrappedSKHex string `json:"wrapped_sk_hex"`
}

// Export wraps secret under kek and builds a record binding it to pubkey.
// The key identifier is SHA3-256 over the packed public key. secret must
// be a non-empty multiple of 8 bytes (an AES-KW requirement); pubkey must
// be exactly the suite's packed size.
func Export(h Hasher, w Wrapper, alg suite.Algorithm, pubkey, secret, kek []byte) (*Record, error) {
	if !alg.Valid() {
		return nil, fmt.Errorf("keystore: unsupported algorithm %d", uint8(alg))
	}
	if len(pubkey) != alg.PublicKeySize() {
		return nil, fmt.Errorf("keystore: %s public key must be %d bytes (got %d)", alg, alg.PublicKeySize(), len(pubkey))
	}
	if len(kek) != rubinwc.KEKSize {
		return nil, fmt.Errorf("keystore: kek must be %d bytes (got %d)", rubinwc.KEKSize, len(kek))
	}
	if len(secret) == 0 || len(secret)%rubinwc.KeyWrapBlockSize != 0 {
		return nil, fmt.Errorf("keystore: secret key must be a non-empty multiple of %d bytes (got %d)", rubinwc.KeyWrapBlockSize, len(secret))
	}
	if !w.HasKeyManagement() {
		return nil, fmt.Errorf("keystore: provider does not implement key management")
	}

	keyID, err := h.SHA3_256(pubkey)
	if err != nil {
		return nil, fmt.Errorf("keystore: derive key id: %w", err)
	}
	wrapped, err := w.KeyWrap(kek, secret)
	if err != nil {
		return nil, fmt.Errorf("keystore: wrap secret key: %w", err)
	}

	return &Record{
		Version:      FormatVersion,
		SuiteID:      alg.SuiteID(),
		PubkeyHex:    hex.EncodeToString(pubkey),
		KeyIDHex:     hex.EncodeToString(keyID[:]),
		WrapAlg:      WrapAlgorithm,
		WrappedSKHex: hex.EncodeToString(wrapped),
	}, nil
}

// Unwrap recovers the plaintext secret key under kek. The caller owns the
// returned slice and should zeroize it when finished.
func Unwrap(w Wrapper, r *Record, kek []byte) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if len(kek) != rubinwc.KEKSize {
		return nil, fmt.Errorf("keystore: kek must be %d bytes (got %d)", rubinwc.KEKSize, len(kek))
	}
	if !w.HasKeyManagement() {
		return nil, fmt.Errorf("keystore: provider does not implement key management")
	}
	wrapped, err := decodeHex(r.WrappedSKHex)
	if err != nil {
		return nil, fmt.Errorf("keystore: wrapped_sk_hex: %w", err)
	}
	plain, err := w.KeyUnwrap(kek, wrapped)
	if err != nil {
		return nil, fmt.Errorf("keystore: unwrap secret key: %w", err)
	}
	return plain, nil
}

// Rewrap migrates the wrapped secret key from oldKEK to newKEK in place.
// The plaintext intermediate is wiped before returning. Public key, key
// identifier, and suite binding are untouched.
func Rewrap(w Wrapper, r *Record, oldKEK, newKEK []byte) error {
	if len(newKEK) != rubinwc.KEKSize {
		return fmt.Errorf("keystore: new kek must be %d bytes (got %d)", rubinwc.KEKSize, len(newKEK))
	}
	plain, err := Unwrap(w, r, oldKEK)
	if err != nil {
		return err
	}
	rewrapped, err := w.KeyWrap(newKEK, plain)
	rubinwc.ZeroizeBytes(plain)
	if err != nil {
		return fmt.Errorf("keystore: rewrap secret key: %w", err)
	}
	r.WrappedSKHex = hex.EncodeToString(rewrapped)
	return nil
}

// Verify recomputes the key identifier from the embedded public key and
// checks it against key_id_hex. When the suite ID is recognized, the
// public key length is checked against the suite's packed size. It
// returns the computed key identifier as lowercase hex.
func Verify(h Hasher, r *Record) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	pub, err := decodeHex(r.PubkeyHex)
	if err != nil {
		return "", fmt.Errorf("keystore: pubkey_hex: %w", err)
	}
	if alg, ok := r.Algorithm(); ok && len(pub) != alg.PublicKeySize() {
		return "", fmt.Errorf("keystore: %s public key must be %d bytes (got %d)", alg, alg.PublicKeySize(), len(pub))
	}
	keyID, err := h.SHA3_256(pub)
	if err != nil {
		return "", fmt.Errorf("keystore: derive key id: %w", err)
	}
	got := hex.EncodeToString(keyID[:])
	if r.KeyIDHex != "" && !strings.EqualFold(r.KeyIDHex, got) {
		return "", fmt.Errorf("keystore: key_id mismatch: embedded=%s computed=%s", r.KeyIDHex, got)
	}
	return got, nil
}

// Validate checks the format markers. It does not decode payload fields;
// Verify does the deeper consistency checks.
func (r *Record) Validate() error {
	if r.Version != FormatVersion {
		return fmt.Errorf("keystore: unsupported version %q", r.Version)
	}
	if !strings.EqualFold(r.WrapAlg, WrapAlgorithm) {
		return fmt.Errorf("keystore: unsupported wrap_alg %q", r.WrapAlg)
	}
	return nil
}

// Algorithm maps the record's suite ID back to a suite. Unknown IDs
// report ok=false; they are tolerated in stored records so that readers
// can still verify key identifiers for suites minted after them.
func (r *Record) Algorithm() (suite.Algorithm, bool) {
	return suite.BySuiteID(r.SuiteID)
}

// PublicKey decodes the embedded public key bytes.
func (r *Record) PublicKey() ([]byte, error) {
	b, err := decodeHex(r.PubkeyHex)
	if err != nil {
		return nil, fmt.Errorf("keystore: pubkey_hex: %w", err)
	}
	return b, nil
}

// KeyID decodes the embedded key identifier bytes.
func (r *Record) KeyID() ([]byte, error) {
	b, err := decodeHex(r.KeyIDHex)
	if err != nil {
		return nil, fmt.Errorf("keystore: key_id_hex: %w", err)
	}
	return b, nil
}

// Encode serializes the record as single-line JSON with a trailing newline.
func (r *Record) Encode() ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("keystore: encode: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode parses and validates a serialized record.
func Decode(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("keystore: decode: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads and validates a record from path.
func Load(path string) (*Record, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- operator-provided path
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

// Save writes the record to path with owner-only permissions.
func (r *Record) Save(path string) error {
	b, err := r.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// decodeHex accepts hex with incidental whitespace, as produced by tools
// that wrap long lines.
func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.Join(strings.Fields(s), ""))
}
