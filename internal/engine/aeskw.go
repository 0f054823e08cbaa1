package engine

import (
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"runtime"
)

// kwIV is the RFC 3394 default initial value for the integrity register.
var kwIV = [8]byte{0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6}

// aesKeyWrap runs the RFC 3394 wrapping process over a single AES-256
// block cipher. Inputs are never modified; scratch buffers holding key
// material are wiped before return.
type aesKeyWrap struct {
	block cipher.Block
}

func (w *aesKeyWrap) Wrap(plain, out []byte) (int, error) {
	if w.block == nil {
		return 0, errClosed
	}
	n := len(plain) / 8

	var a [8]byte
	copy(a[:], kwIV[:])
	r := make([]byte, len(plain))
	copy(r, plain)

	var b [16]byte
	for j := 0; j <= 5; j++ {
		for i := 1; i <= n; i++ {
			copy(b[:8], a[:])
			copy(b[8:], r[(i-1)*8:i*8])
			w.block.Encrypt(b[:], b[:])
			copy(a[:], b[:8])
			xorCounter(&a, uint64(n*j+i))
			copy(r[(i-1)*8:i*8], b[8:])
		}
	}

	copy(out[:8], a[:])
	copy(out[8:8+len(r)], r)
	wipe(r)
	wipe(b[:])
	return len(plain) + 8, nil
}

func (w *aesKeyWrap) Unwrap(wrapped, out []byte) (int, error) {
	if w.block == nil {
		return 0, errClosed
	}
	n := (len(wrapped) - 8) / 8

	var a [8]byte
	copy(a[:], wrapped[:8])
	r := make([]byte, len(wrapped)-8)
	copy(r, wrapped[8:])

	var b [16]byte
	for j := 5; j >= 0; j-- {
		for i := n; i >= 1; i-- {
			xorCounter(&a, uint64(n*j+i))
			copy(b[:8], a[:])
			copy(b[8:], r[(i-1)*8:i*8])
			w.block.Decrypt(b[:], b[:])
			copy(a[:], b[:8])
			copy(r[(i-1)*8:i*8], b[8:])
		}
	}

	if subtle.ConstantTimeCompare(a[:], kwIV[:]) != 1 {
		wipe(r)
		wipe(b[:])
		return 0, ErrIntegrity
	}

	// The integrity register checked out; only now may plaintext reach
	// the caller's buffer.
	copy(out[:len(r)], r)
	wipe(r)
	wipe(b[:])
	return n * 8, nil
}

func (w *aesKeyWrap) Close() {
	w.block = nil
}

// xorCounter folds the RFC 3394 step counter t into the big-endian
// integrity register.
func xorCounter(a *[8]byte, t uint64) {
	binary.BigEndian.PutUint64(a[:], binary.BigEndian.Uint64(a[:])^t)
}

// wipe zeroes a scratch buffer holding key material. The KeepAlive stops
// the compiler from eliding the stores (golang/go#33325).
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
