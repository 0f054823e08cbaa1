package engine

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

// Known-answer vectors from RFC 3394 section 4: wrapping 128, 192 and 256
// bits of key data under a 256-bit KEK.
func TestAESKeyWrapVectors(t *testing.T) {
	kek := mustHex(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	tests := []struct {
		name    string
		plain   string
		wrapped string
	}{
		{
			"128-bit key data",
			"00112233445566778899aabbccddeeff",
			"64e8c3f9ce0f5ba263e9777905818a2a93c8191e7d6e8ae7",
		},
		{
			"192-bit key data",
			"00112233445566778899aabbccddeeff0001020304050607",
			"a8f9bc1612c68b3ff6e6f4fbe30e71e4769c8b80a32cb8958cd5d17d6b254da1",
		},
		{
			"256-bit key data",
			"00112233445566778899aabbccddeeff000102030405060708090a0b0c0d0e0f",
			"28c9f404c4b810f4cbccb35cfb87f8263f5786e2d80ed326cbc7f0e71a99f43bfb988b9b7a02dd21",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plain := mustHex(t, tt.plain)
			want := mustHex(t, tt.wrapped)

			kw, err := Std{}.NewKeyWrap(kek)
			if err != nil {
				t.Fatalf("NewKeyWrap: %v", err)
			}
			defer kw.Close()

			out := make([]byte, len(plain)+8)
			n, err := kw.Wrap(plain, out)
			if err != nil {
				t.Fatalf("Wrap: %v", err)
			}
			if n != len(want) || !bytes.Equal(out[:n], want) {
				t.Fatalf("Wrap = %x, want %x", out[:n], want)
			}

			back := make([]byte, len(plain))
			n, err = kw.Unwrap(out, back)
			if err != nil {
				t.Fatalf("Unwrap: %v", err)
			}
			if n != len(plain) || !bytes.Equal(back, plain) {
				t.Fatalf("Unwrap = %x, want %x", back[:n], plain)
			}
		})
	}
}

func TestAESKeyWrapDoesNotMutateInputs(t *testing.T) {
	kek := mustHex(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	plain := mustHex(t, "00112233445566778899aabbccddeeff")
	plainCopy := append([]byte(nil), plain...)
	kekCopy := append([]byte(nil), kek...)

	kw, err := Std{}.NewKeyWrap(kek)
	if err != nil {
		t.Fatalf("NewKeyWrap: %v", err)
	}
	defer kw.Close()

	out := make([]byte, len(plain)+8)
	if _, err := kw.Wrap(plain, out); err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if !bytes.Equal(plain, plainCopy) {
		t.Fatal("Wrap mutated the plaintext buffer")
	}

	outCopy := append([]byte(nil), out...)
	back := make([]byte, len(plain))
	if _, err := kw.Unwrap(out, back); err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if !bytes.Equal(out, outCopy) {
		t.Fatal("Unwrap mutated the wrapped buffer")
	}
	if !bytes.Equal(kek, kekCopy) {
		t.Fatal("key wrap mutated the KEK buffer")
	}
}

func TestAESKeyUnwrapIntegrity(t *testing.T) {
	kek := mustHex(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	plain := mustHex(t, "00112233445566778899aabbccddeeff0001020304050607")

	kw, err := Std{}.NewKeyWrap(kek)
	if err != nil {
		t.Fatalf("NewKeyWrap: %v", err)
	}
	defer kw.Close()

	wrapped := make([]byte, len(plain)+8)
	if _, err := kw.Wrap(plain, wrapped); err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	// Flip one bit in every position; each corruption must fail and must
	// leave the output buffer untouched.
	for i := range wrapped {
		corrupted := append([]byte(nil), wrapped...)
		corrupted[i] ^= 0x01

		out := make([]byte, len(plain))
		n, err := kw.Unwrap(corrupted, out)
		if err != ErrIntegrity {
			t.Fatalf("Unwrap with byte %d corrupted: got (%d, %v), want ErrIntegrity", i, n, err)
		}
		if !bytes.Equal(out, make([]byte, len(plain))) {
			t.Fatalf("Unwrap wrote output despite integrity failure at byte %d", i)
		}
	}

	// A different KEK must also fail closed.
	otherKEK := append([]byte(nil), kek...)
	otherKEK[0] ^= 0xff
	kw2, err := Std{}.NewKeyWrap(otherKEK)
	if err != nil {
		t.Fatalf("NewKeyWrap: %v", err)
	}
	defer kw2.Close()

	out := make([]byte, len(plain))
	if _, err := kw2.Unwrap(wrapped, out); err != ErrIntegrity {
		t.Fatalf("Unwrap under wrong KEK: %v, want ErrIntegrity", err)
	}
}

func TestAESKeyWrapClosedContext(t *testing.T) {
	kek := make([]byte, 32)
	kw, err := Std{}.NewKeyWrap(kek)
	if err != nil {
		t.Fatalf("NewKeyWrap: %v", err)
	}
	kw.Close()

	out := make([]byte, 16)
	if _, err := kw.Wrap(make([]byte, 8), out); err != errClosed {
		t.Fatalf("Wrap after Close: %v, want errClosed", err)
	}
	if _, err := kw.Unwrap(make([]byte, 16), out); err != errClosed {
		t.Fatalf("Unwrap after Close: %v, want errClosed", err)
	}
}
