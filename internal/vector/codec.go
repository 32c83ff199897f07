// Package vector holds the binary embedding codec and the similarity
// primitives shared by the session store and the retriever.
package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encoded layout: uint32 little-endian dimension, then dimension float32
// values as IEEE-754 bits. Float32 bits round-trip exactly; no precision is
// lost across persistence.

// Encode serializes v for durable storage.
func Encode(v []float32) []byte {
	buf := make([]byte, 4+4*len(v))
	binary.LittleEndian.PutUint32(buf, uint32(len(v)))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[4+4*i:], math.Float32bits(x))
	}
	return buf
}

// Decode reverses Encode. Corrupt input fails loudly: a truncated or
// oversized payload is an error, never a silently substituted zero vector.
func Decode(data []byte) ([]float32, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("corrupt vector: %d bytes, want at least 4", len(data))
	}
	dim := binary.LittleEndian.Uint32(data)
	if want := 4 + 4*int(dim); len(data) != want {
		return nil, fmt.Errorf("corrupt vector: %d bytes for dimension %d, want %d", len(data), dim, want)
	}
	v := make([]float32, dim)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4+4*i:]))
	}
	return v, nil
}

// Dot returns the dot product of a and b. For unit-normalized vectors this is
// their cosine similarity.
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
