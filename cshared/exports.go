//go:build cgo

// Package main builds with -buildmode=c-shared into a drop-in replacement
// for the wolfCrypt boundary shim. Symbol names, argument shapes, and the
// numeric contract are frozen; callers link against the same five entry
// points regardless of which implementation backs them.
//
//	go build -buildmode=c-shared -o librubinwc.so ./cshared
package main

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"math"
	"unsafe"

	"rubin.dev/rubinwc-go/pkg/rubinwc"
	"rubin.dev/rubinwc-go/pkg/rubinwc/abi"
)

// span views n bytes at ptr as a Go slice without copying. A zero n yields
// an empty non-nil slice, keeping "present but empty" distinct from NULL.
// ok is false when n does not fit in int on this platform.
func span(ptr *C.uint8_t, n C.size_t) ([]byte, bool) {
	if uint64(n) > math.MaxInt {
		return nil, false
	}
	if n == 0 {
		return []byte{}, true
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), int(n)), true
}

// maxOutSpan is the largest output any wrap or unwrap call can produce.
const maxOutSpan = rubinwc.DefaultMaxKeyWrapPlaintext + rubinwc.KeyWrapOverhead

// outSpan views the caller's output buffer. The claimed capacity is
// clamped to maxOutSpan: writes never exceed it, and clamping keeps an
// absurd size_t from producing an unaddressable slice while still
// satisfying every capacity check a valid call can reach.
func outSpan(ptr *C.uint8_t, capacity C.size_t) []byte {
	n := uint64(capacity)
	if n > maxOutSpan {
		n = maxOutSpan
	}
	if n == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), int(n))
}

//export rubin_wc_sha3_256
func rubin_wc_sha3_256(input *C.uint8_t, inputLen C.size_t, out32 *C.uint8_t) C.int32_t {
	if out32 == nil {
		return C.int32_t(rubinwc.CodeHashNullOutput)
	}
	if input == nil && inputLen != 0 {
		return C.int32_t(rubinwc.CodeHashNullInput)
	}
	in, ok := span(input, inputLen)
	if !ok {
		return C.int32_t(rubinwc.CodeHashInputTooLarge)
	}
	out := unsafe.Slice((*byte)(unsafe.Pointer(out32)), rubinwc.DigestSize)
	return C.int32_t(abi.SHA3_256(in, out))
}

//export rubin_wc_verify_mldsa87
func rubin_wc_verify_mldsa87(pk *C.uint8_t, pkLen C.size_t, sig *C.uint8_t, sigLen C.size_t, digest32 *C.uint8_t) C.int32_t {
	if pk == nil || sig == nil || digest32 == nil {
		return C.int32_t(rubinwc.CodeMLDSANullArgument)
	}
	pkB, ok := span(pk, pkLen)
	if !ok {
		return C.int32_t(rubinwc.CodeMLDSAPublicKeyLen)
	}
	sigB, ok := span(sig, sigLen)
	if !ok {
		return C.int32_t(rubinwc.CodeMLDSASignatureLen)
	}
	digest := unsafe.Slice((*byte)(unsafe.Pointer(digest32)), rubinwc.DigestSize)
	return C.int32_t(abi.VerifyMLDSA87(pkB, sigB, digest))
}

//export rubin_wc_verify_slhdsa_shake_256f
func rubin_wc_verify_slhdsa_shake_256f(pk *C.uint8_t, pkLen C.size_t, sig *C.uint8_t, sigLen C.size_t, digest32 *C.uint8_t) C.int32_t {
	// Availability is checked before arguments so that builds without the
	// scheme answer identically for every input.
	if !abi.SLHDSAAvailable() {
		return C.int32_t(rubinwc.CodeSLHUnavailable)
	}
	if pk == nil || sig == nil || digest32 == nil {
		return C.int32_t(rubinwc.CodeSLHNullArgument)
	}
	pkB, ok := span(pk, pkLen)
	if !ok {
		return C.int32_t(rubinwc.CodeSLHPublicKeyLen)
	}
	sigB, ok := span(sig, sigLen)
	if !ok {
		return C.int32_t(rubinwc.CodeSLHSignatureLen)
	}
	digest := unsafe.Slice((*byte)(unsafe.Pointer(digest32)), rubinwc.DigestSize)
	return C.int32_t(abi.VerifySLHDSAShake256f(pkB, sigB, digest))
}

//export rubin_wc_aes_keywrap
func rubin_wc_aes_keywrap(kek *C.uint8_t, kekLen C.size_t, keyIn *C.uint8_t, keyInLen C.size_t, out *C.uint8_t, outLen *C.size_t) C.int32_t {
	if kek == nil || keyIn == nil || out == nil || outLen == nil {
		return C.int32_t(rubinwc.CodeKeyWrapNullArgument)
	}
	kekB, ok := span(kek, kekLen)
	if !ok {
		return C.int32_t(rubinwc.CodeKeyWrapKEKLen)
	}
	inB, ok := span(keyIn, keyInLen)
	if !ok {
		return C.int32_t(rubinwc.CodeKeyWrapBadLength)
	}
	rc := abi.AESKeyWrap(kekB, inB, outSpan(out, *outLen))
	if rc > 0 {
		*outLen = C.size_t(rc)
	}
	return C.int32_t(rc)
}

//export rubin_wc_aes_keyunwrap
func rubin_wc_aes_keyunwrap(kek *C.uint8_t, kekLen C.size_t, wrapped *C.uint8_t, wrappedLen C.size_t, keyOut *C.uint8_t, keyOutLen *C.size_t) C.int32_t {
	if kek == nil || wrapped == nil || keyOut == nil || keyOutLen == nil {
		return C.int32_t(rubinwc.CodeKeyWrapNullArgument)
	}
	kekB, ok := span(kek, kekLen)
	if !ok {
		return C.int32_t(rubinwc.CodeKeyWrapKEKLen)
	}
	wrappedB, ok := span(wrapped, wrappedLen)
	if !ok {
		return C.int32_t(rubinwc.CodeKeyWrapBadLength)
	}
	rc := abi.AESKeyUnwrap(kekB, wrappedB, outSpan(keyOut, *keyOutLen))
	if rc > 0 {
		*keyOutLen = C.size_t(rc)
	}
	return C.int32_t(rc)
}

func main() {}
