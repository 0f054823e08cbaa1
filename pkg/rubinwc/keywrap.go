package rubinwc

import (
	"errors"

	"rubin.dev/rubinwc-go/internal/engine"
)

// KeyWrap wraps keyIn under kek per RFC 3394 and returns the wrapped bytes,
// exactly len(keyIn)+KeyWrapOverhead long. The KEK must be exactly KEKSize
// bytes; the plaintext length must be a non-zero multiple of
// KeyWrapBlockSize no longer than the instance cap.
func (s *Shim) KeyWrap(kek, keyIn []byte) ([]byte, error) {
	if kek == nil || keyIn == nil {
		return nil, CodeKeyWrapNullArgument
	}
	if len(kek) != KEKSize {
		return nil, CodeKeyWrapKEKLen
	}
	required, ok := s.WrappedSize(len(keyIn))
	if !ok {
		return nil, CodeKeyWrapBadLength
	}
	out := make([]byte, required)
	n, err := s.WrapInto(kek, keyIn, out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// KeyUnwrap unwraps wrapped under kek, verifying RFC 3394 integrity, and
// returns the recovered plaintext, exactly len(wrapped)-KeyWrapOverhead
// long. A wrong KEK or tampered input fails with CodeKeyWrapIntegrity and
// produces no output.
func (s *Shim) KeyUnwrap(kek, wrapped []byte) ([]byte, error) {
	if kek == nil || wrapped == nil {
		return nil, CodeKeyWrapNullArgument
	}
	if len(kek) != KEKSize {
		return nil, CodeKeyWrapKEKLen
	}
	required, ok := s.UnwrappedSize(len(wrapped))
	if !ok {
		return nil, CodeKeyWrapBadLength
	}
	out := make([]byte, required)
	n, err := s.UnwrapInto(kek, wrapped, out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// WrapInto is the buffer-oriented form of KeyWrap. It writes the wrapped
// bytes to out and returns the count. Validation order: null arguments, KEK
// length, plaintext length, output capacity; nothing is written on a
// rejected call.
func (s *Shim) WrapInto(kek, keyIn, out []byte) (int, error) {
	if kek == nil || keyIn == nil || out == nil {
		return 0, CodeKeyWrapNullArgument
	}
	if len(kek) != KEKSize {
		return 0, CodeKeyWrapKEKLen
	}
	required, ok := s.WrappedSize(len(keyIn))
	if !ok {
		return 0, CodeKeyWrapBadLength
	}
	if len(out) < required {
		return 0, CodeKeyWrapOutputTooSmall
	}

	kw, err := s.eng.NewKeyWrap(kek)
	if err != nil {
		return 0, &OpError{Op: "keywrap", Code: CodeKeyWrapInitFailed, Err: err}
	}
	defer kw.Close()

	n, err := kw.Wrap(keyIn, out)
	if err != nil {
		return 0, &OpError{Op: "keywrap", Code: CodeKeyWrapOpFailed, Err: err}
	}
	return n, nil
}

// UnwrapInto is the buffer-oriented form of KeyUnwrap. Validation order
// matches WrapInto; integrity is verified before any plaintext reaches out.
func (s *Shim) UnwrapInto(kek, wrapped, out []byte) (int, error) {
	if kek == nil || wrapped == nil || out == nil {
		return 0, CodeKeyWrapNullArgument
	}
	if len(kek) != KEKSize {
		return 0, CodeKeyWrapKEKLen
	}
	required, ok := s.UnwrappedSize(len(wrapped))
	if !ok {
		return 0, CodeKeyWrapBadLength
	}
	if len(out) < required {
		return 0, CodeKeyWrapOutputTooSmall
	}

	kw, err := s.eng.NewKeyWrap(kek)
	if err != nil {
		return 0, &OpError{Op: "keyunwrap", Code: CodeKeyWrapInitFailed, Err: err}
	}
	defer kw.Close()

	n, err := kw.Unwrap(wrapped, out)
	if err != nil {
		if errors.Is(err, engine.ErrIntegrity) {
			return 0, &OpError{Op: "keyunwrap", Code: CodeKeyWrapIntegrity, Err: err}
		}
		return 0, &OpError{Op: "keyunwrap", Code: CodeKeyWrapOpFailed, Err: err}
	}
	return n, nil
}
