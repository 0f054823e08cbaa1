package rubinwc

// SHA3_256 hashes input and returns the 32-byte digest. A nil or empty
// input is valid and yields the digest of the empty string. Inputs longer
// than MaxHashInput are rejected with CodeHashInputTooLarge.
func (s *Shim) SHA3_256(input []byte) ([32]byte, error) {
	var out [32]byte
	if !hashInputFits(uint64(len(input))) {
		return out, CodeHashInputTooLarge
	}
	if err := s.hashInto(input, &out); err != nil {
		return [32]byte{}, err
	}
	return out, nil
}

// HashInto writes the 32-byte digest of input to out and returns
// DigestSize. A nil or undersized out fails with CodeHashNullOutput; on any
// failure nothing is written.
func (s *Shim) HashInto(input, out []byte) (int, error) {
	if len(out) < DigestSize {
		return 0, CodeHashNullOutput
	}
	if !hashInputFits(uint64(len(input))) {
		return 0, CodeHashInputTooLarge
	}
	if err := s.hashInto(input, (*[DigestSize]byte)(out)); err != nil {
		return 0, err
	}
	return DigestSize, nil
}

// hashInputFits checks the delegate's 32-bit length counter domain.
func hashInputFits(n uint64) bool {
	return n <= MaxHashInput
}

// hashInto runs the delegate's init, update, finalize sequence. The context
// is released on every path; out is written only by a successful finalize.
func (s *Shim) hashInto(input []byte, out *[32]byte) error {
	h, err := s.eng.NewHash()
	if err != nil {
		return &OpError{Op: "sha3-256", Code: CodeHashInitFailed, Err: err}
	}
	defer h.Close()

	if err := h.Update(input); err != nil {
		return &OpError{Op: "sha3-256", Code: CodeHashUpdateFailed, Err: err}
	}
	if err := h.Final(out); err != nil {
		return &OpError{Op: "sha3-256", Code: CodeHashFinalFailed, Err: err}
	}
	return nil
}
