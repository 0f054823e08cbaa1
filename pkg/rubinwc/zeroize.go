package rubinwc

import "runtime"

// ZeroizeBytes overwrites the provided slice with zeros and prevents
// compiler dead store elimination using runtime.KeepAlive.
//
// This follows the pattern discussed in golang/go#33325. It cannot
// guarantee complete sanitization, since the garbage collector and the
// delegate libraries may hold copies, but it is the accepted idiom for
// sensitive buffers in Go. The key-wrap delegate wipes its own scratch
// buffers the same way.
func ZeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	// Prevent dead store elimination per golang/go#33325
	runtime.KeepAlive(buf)
}
