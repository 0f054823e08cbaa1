package keystore

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rubin.dev/rubinwc-go/internal/conformance"
	"rubin.dev/rubinwc-go/pkg/rubinwc"
	"rubin.dev/rubinwc-go/pkg/rubinwc/suite"
)

func testKEK(seed byte) []byte {
	kek := make([]byte, rubinwc.KEKSize)
	for i := range kek {
		kek[i] = seed + byte(i)
	}
	return kek
}

type fixture struct {
	shim   *rubinwc.Shim
	kek    []byte
	pubkey []byte
	secret []byte
	rec    *Record
}

func exportFixture(t *testing.T) *fixture {
	t.Helper()

	shim, err := rubinwc.New(rubinwc.Config{})
	require.NoError(t, err)

	kp, err := conformance.GenerateKeyPair(suite.MLDSA87)
	require.NoError(t, err)
	secret, err := kp.PrivateKeyBytes()
	require.NoError(t, err)

	kek := testKEK(0x00)
	rec, err := Export(shim, shim, suite.MLDSA87, kp.PublicKey, secret, kek)
	require.NoError(t, err)

	return &fixture{shim: shim, kek: kek, pubkey: kp.PublicKey, secret: secret, rec: rec}
}

func TestExportAndUnwrap(t *testing.T) {
	fx := exportFixture(t)
	rec := fx.rec

	require.Equal(t, FormatVersion, rec.Version)
	require.Equal(t, WrapAlgorithm, rec.WrapAlg)
	require.Equal(t, suite.SuiteIDMLDSA87, rec.SuiteID)
	require.Equal(t, hex.EncodeToString(fx.pubkey), rec.PubkeyHex)

	wantID, err := fx.shim.SHA3_256(fx.pubkey)
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(wantID[:]), rec.KeyIDHex)

	wrapped, err := hex.DecodeString(rec.WrappedSKHex)
	require.NoError(t, err)
	require.Len(t, wrapped, len(fx.secret)+rubinwc.KeyWrapOverhead)

	plain, err := Unwrap(fx.shim, rec, fx.kek)
	require.NoError(t, err)
	require.Equal(t, fx.secret, plain)

	alg, ok := rec.Algorithm()
	require.True(t, ok)
	require.Equal(t, suite.MLDSA87, alg)
}

func TestUnwrapWrongKEK(t *testing.T) {
	fx := exportFixture(t)

	_, err := Unwrap(fx.shim, fx.rec, testKEK(0x80))
	require.Error(t, err)
	code, ok := rubinwc.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, rubinwc.CodeKeyWrapIntegrity, code)
}

func TestRewrap(t *testing.T) {
	fx := exportFixture(t)
	newKEK := testKEK(0x40)

	pubBefore, keyIDBefore := fx.rec.PubkeyHex, fx.rec.KeyIDHex
	require.NoError(t, Rewrap(fx.shim, fx.rec, fx.kek, newKEK))
	require.Equal(t, pubBefore, fx.rec.PubkeyHex)
	require.Equal(t, keyIDBefore, fx.rec.KeyIDHex)

	// The old KEK must no longer open the record.
	_, err := Unwrap(fx.shim, fx.rec, fx.kek)
	require.Error(t, err)
	code, ok := rubinwc.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, rubinwc.CodeKeyWrapIntegrity, code)

	plain, err := Unwrap(fx.shim, fx.rec, newKEK)
	require.NoError(t, err)
	require.Equal(t, fx.secret, plain)
}

func TestVerify(t *testing.T) {
	fx := exportFixture(t)

	got, err := Verify(fx.shim, fx.rec)
	require.NoError(t, err)
	require.Equal(t, fx.rec.KeyIDHex, got)

	t.Run("tampered key id", func(t *testing.T) {
		rec := *fx.rec
		id, err := hex.DecodeString(rec.KeyIDHex)
		require.NoError(t, err)
		id[0] ^= 0x01
		rec.KeyIDHex = hex.EncodeToString(id)
		_, err = Verify(fx.shim, &rec)
		require.ErrorContains(t, err, "key_id mismatch")
	})

	t.Run("tampered pubkey", func(t *testing.T) {
		rec := *fx.rec
		pub, err := hex.DecodeString(rec.PubkeyHex)
		require.NoError(t, err)
		pub[17] ^= 0xff
		rec.PubkeyHex = hex.EncodeToString(pub)
		_, err = Verify(fx.shim, &rec)
		require.ErrorContains(t, err, "key_id mismatch")
	})

	t.Run("truncated pubkey", func(t *testing.T) {
		rec := *fx.rec
		rec.PubkeyHex = rec.PubkeyHex[:len(rec.PubkeyHex)-2]
		_, err := Verify(fx.shim, &rec)
		require.ErrorContains(t, err, "must be 2592 bytes")
	})

	t.Run("bad pubkey hex", func(t *testing.T) {
		rec := *fx.rec
		rec.PubkeyHex = "zz" + rec.PubkeyHex[2:]
		_, err := Verify(fx.shim, &rec)
		require.ErrorContains(t, err, "pubkey_hex")
	})
}

// verifyOnly simulates a provider built without key custody support.
type verifyOnly struct{ *rubinwc.Shim }

func (verifyOnly) HasKeyManagement() bool { return false }

func TestExportArgumentChecks(t *testing.T) {
	fx := exportFixture(t)

	tests := []struct {
		name    string
		alg     suite.Algorithm
		pubkey  []byte
		secret  []byte
		kek     []byte
		wrapper Wrapper
		wantErr string
	}{
		{"unknown algorithm", suite.Algorithm(0x7f), fx.pubkey, fx.secret, fx.kek, fx.shim, "unsupported algorithm"},
		{"short pubkey", suite.MLDSA87, fx.pubkey[:64], fx.secret, fx.kek, fx.shim, "public key must be 2592 bytes"},
		{"short kek", suite.MLDSA87, fx.pubkey, fx.secret, fx.kek[:16], fx.shim, "kek must be 32 bytes"},
		{"empty secret", suite.MLDSA87, fx.pubkey, nil, fx.kek, fx.shim, "non-empty multiple of 8"},
		{"ragged secret", suite.MLDSA87, fx.pubkey, fx.secret[:13], fx.kek, fx.shim, "non-empty multiple of 8"},
		{"no key management", suite.MLDSA87, fx.pubkey, fx.secret, fx.kek, verifyOnly{fx.shim}, "does not implement key management"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Export(fx.shim, tt.wrapper, tt.alg, tt.pubkey, tt.secret, tt.kek)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	fx := exportFixture(t)

	b, err := fx.rec.Encode()
	require.NoError(t, err)
	require.Equal(t, byte('\n'), b[len(b)-1])

	back, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, fx.rec, back)

	t.Run("rejects version", func(t *testing.T) {
		rec := *fx.rec
		rec.Version = "RBKSv2"
		raw, err := rec.Encode()
		require.NoError(t, err)
		_, err = Decode(raw)
		require.ErrorContains(t, err, "unsupported version")
	})

	t.Run("rejects wrap alg", func(t *testing.T) {
		rec := *fx.rec
		rec.WrapAlg = "AES-256-GCM"
		raw, err := rec.Encode()
		require.NoError(t, err)
		_, err = Decode(raw)
		require.ErrorContains(t, err, "unsupported wrap_alg")
	})

	t.Run("wrap alg is case insensitive", func(t *testing.T) {
		rec := *fx.rec
		rec.WrapAlg = "aes-256-kw"
		raw, err := rec.Encode()
		require.NoError(t, err)
		_, err = Decode(raw)
		require.NoError(t, err)
	})

	t.Run("rejects junk", func(t *testing.T) {
		_, err := Decode([]byte("{not json"))
		require.ErrorContains(t, err, "decode")
	})
}

func TestSaveLoad(t *testing.T) {
	fx := exportFixture(t)
	path := filepath.Join(t.TempDir(), "node-key.json")

	require.NoError(t, fx.rec.Save(path))

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	back, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, fx.rec, back)
}

func TestUnknownSuiteIDTolerated(t *testing.T) {
	shim, err := rubinwc.New(rubinwc.Config{})
	require.NoError(t, err)

	pub := []byte("a 24 byte opaque pubkey-")
	keyID, err := shim.SHA3_256(pub)
	require.NoError(t, err)

	rec := &Record{
		Version:      FormatVersion,
		SuiteID:      0x7f,
		PubkeyHex:    hex.EncodeToString(pub),
		KeyIDHex:     hex.EncodeToString(keyID[:]),
		WrapAlg:      WrapAlgorithm,
		WrappedSKHex: "",
	}

	_, ok := rec.Algorithm()
	require.False(t, ok)

	// Key id still binds even though the suite length check is skipped.
	got, err := Verify(shim, rec)
	require.NoError(t, err)
	require.Equal(t, rec.KeyIDHex, got)
}
