package wasmembed

import "unicode/utf8"

// ByteVec is an owned byte buffer passed across the embedding boundary
// in both directions.
//
// Two zero-length states exist and are distinct: the absent vector
// carries no data at all (nil backing slice, the (null, 0) pair of the
// C-style boundary), while the explicit empty vector carries a
// zero-length buffer. Name reads return the absent form for a module
// without a name and the explicit empty form for a module whose name
// was set to "". The zero value of ByteVec is the absent vector.
type ByteVec struct {
	data []byte
}

// NewByteVec returns a ByteVec holding a copy of b. The input remains
// owned by the caller. A nil slice produces the absent vector; a
// non-nil empty slice produces the explicit empty vector.
func NewByteVec(b []byte) ByteVec {
	if b == nil {
		return ByteVec{}
	}
	data := make([]byte, len(b))
	copy(data, b)
	return ByteVec{data: data}
}

// NewByteVecString returns a ByteVec holding a copy of s. The result
// is never absent: an empty string produces the explicit empty vector.
func NewByteVecString(s string) ByteVec {
	data := make([]byte, len(s))
	copy(data, s)
	return ByteVec{data: data}
}

// IsNil reports whether v is the absent vector.
func (v ByteVec) IsNil() bool {
	return v.data == nil
}

// Len returns the number of bytes held. Absent vectors have length
// zero.
func (v ByteVec) Len() int {
	return len(v.data)
}

// Bytes returns a copy of the contents, or nil when absent. The
// returned slice is owned by the caller.
func (v ByteVec) Bytes() []byte {
	if v.data == nil {
		return nil
	}
	out := make([]byte, len(v.data))
	copy(out, v.data)
	return out
}

// String returns the contents as a string, "" when absent or empty.
func (v ByteVec) String() string {
	return string(v.data)
}

// Text decodes the contents as UTF-8 text. It returns false when v is
// absent or the bytes are not well-formed UTF-8; the absent vector is
// never valid text, but the explicit empty vector is.
func (v ByteVec) Text() (string, bool) {
	if v.data == nil {
		return "", false
	}
	if !utf8.Valid(v.data) {
		return "", false
	}
	return string(v.data), true
}
