package mmapsync

// Codec is the external collaborator spec.md §1/§6 places out of scope:
// this package never knows the schema of T, only that Serialize produces
// a contiguous, self-describing byte buffer that Verify can structurally
// check and View can turn back into a T without copying out of the byte
// window it was given.
//
// Implementations are expected to make View zero-copy by aliasing the
// input slice (e.g. returning a pointer into it), but that is a property
// of the codec, not something this package can enforce through the type
// system.
type Codec[T any] interface {
	// Serialize encodes value into a contiguous byte buffer.
	Serialize(value T) ([]byte, error)

	// Verify runs a cheap structural self-check over b, returning a
	// non-nil error if b is not a valid encoding of T.
	Verify(b []byte) error

	// View returns a T backed by b without an intermediate decode pass.
	// b's length is always exactly the declared snapshot size.
	View(b []byte) (T, error)
}
