package mmapsync

import "errors"

// bytesCodec is the test double spec.md §8 calls for: an opaque codec
// whose Serialize/Verify/View all operate directly on []byte, so protocol
// tests can exercise the synchronizer without depending on a real
// zero-copy serialization library (out of scope per spec.md §1).
type bytesCodec struct{}

func (bytesCodec) Serialize(v []byte) ([]byte, error) { return v, nil }
func (bytesCodec) Verify([]byte) error                 { return nil }
func (bytesCodec) View(b []byte) ([]byte, error)       { return b, nil }

// failingVerifyCodec always fails its Verify step, for exercising the
// EntityWriteError/EntityReadError paths.
type failingVerifyCodec struct{ bytesCodec }

func (failingVerifyCodec) Verify([]byte) error {
	return errors.New("failingVerifyCodec: always fails")
}

// failingSerializeCodec always fails Serialize.
type failingSerializeCodec struct{ bytesCodec }

func (failingSerializeCodec) Serialize([]byte) ([]byte, error) {
	return nil, errors.New("failingSerializeCodec: always fails")
}
