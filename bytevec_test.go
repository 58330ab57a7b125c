package wasmembed

import (
	"bytes"
	"testing"
)

func TestByteVec_ZeroValueIsAbsent(t *testing.T) {
	var v ByteVec

	if !v.IsNil() {
		t.Fatal("zero value should be the absent vector")
	}
	if v.Len() != 0 {
		t.Fatalf("expected length 0, got %d", v.Len())
	}
	if v.Bytes() != nil {
		t.Fatal("absent vector should yield nil bytes")
	}
	if _, ok := v.Text(); ok {
		t.Fatal("absent vector should not decode as text")
	}
	if v.String() != "" {
		t.Fatalf("expected empty string, got %q", v.String())
	}
}

func TestByteVec_NilVersusEmpty(t *testing.T) {
	absent := NewByteVec(nil)
	if !absent.IsNil() {
		t.Fatal("NewByteVec(nil) should be absent")
	}

	empty := NewByteVec([]byte{})
	if empty.IsNil() {
		t.Fatal("NewByteVec(empty) should be explicit empty, not absent")
	}
	if empty.Len() != 0 {
		t.Fatalf("expected length 0, got %d", empty.Len())
	}
	if empty.Bytes() == nil {
		t.Fatal("explicit empty vector should yield non-nil bytes")
	}

	s, ok := empty.Text()
	if !ok || s != "" {
		t.Fatalf("explicit empty vector should decode as \"\", got %q, %v", s, ok)
	}
}

func TestByteVec_CopiesOnConstruction(t *testing.T) {
	src := []byte("hello")
	v := NewByteVec(src)

	src[0] = 'X'
	if v.String() != "hello" {
		t.Fatalf("mutating the source changed the vector: %q", v.String())
	}
}

func TestByteVec_CopiesOnRead(t *testing.T) {
	v := NewByteVecString("hello")

	out := v.Bytes()
	out[0] = 'X'
	if v.String() != "hello" {
		t.Fatalf("mutating Bytes() output changed the vector: %q", v.String())
	}
}

func TestByteVec_Text(t *testing.T) {
	tests := []struct {
		name  string
		vec   ByteVec
		want  string
		valid bool
	}{
		{"ascii", NewByteVecString("hello"), "hello", true},
		{"multibyte", NewByteVecString("héllo wörld"), "héllo wörld", true},
		{"empty", NewByteVecString(""), "", true},
		{"absent", ByteVec{}, "", false},
		{"invalid utf-8", NewByteVec([]byte{0xFF}), "", false},
		{"truncated rune", NewByteVec([]byte{0xC3}), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.vec.Text()
			if ok != tt.valid {
				t.Fatalf("Text() validity = %v, want %v", ok, tt.valid)
			}
			if got != tt.want {
				t.Fatalf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestByteVec_RoundTrip(t *testing.T) {
	payload := []byte{0x00, 0x61, 0x73, 0x6D}
	v := NewByteVec(payload)

	if !bytes.Equal(v.Bytes(), payload) {
		t.Fatalf("round trip mismatch: %x", v.Bytes())
	}
	if v.Len() != len(payload) {
		t.Fatalf("expected length %d, got %d", len(payload), v.Len())
	}
}
