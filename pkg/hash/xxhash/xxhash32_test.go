package xxhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// reference vectors from the canonical xxHash implementation, seed 0
func TestSum32Vectors(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 0x02cc5d05},
		{"a", 0x550d7456},
		{"abc", 0x32d153ff},
		{"Nobody inspects the spammish repetition", 0xe2293b2f},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Sum32([]byte(tt.in)), "input %q", tt.in)
		require.Equal(t, tt.want, Sum32String(tt.in), "input %q", tt.in)
	}
}

func TestChecksum32Seeded(t *testing.T) {
	in := []byte("the quick brown fox jumps over the lazy dog")
	require.Equal(t, Checksum32(in, 42), Checksum32(in, 42))
	require.NotEqual(t, Checksum32(in, 0), Checksum32(in, 42))
}

func TestChecksum32Lengths(t *testing.T) {
	// exercise the lane loop, the 4-byte tail and the byte tail together
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = byte(i * 7)
	}
	seen := make(map[uint32]int)
	for n := 0; n <= len(buf); n++ {
		h := Checksum32(buf[:n], 0)
		prev, dup := seen[h]
		require.False(t, dup, "lengths %d and %d collide", prev, n)
		seen[h] = n
	}
}

func BenchmarkChecksum32(b *testing.B) {
	buf := make([]byte, 256)
	for i := range buf {
		buf[i] = byte(i)
	}
	b.SetBytes(int64(len(buf)))
	for i := 0; i < b.N; i++ {
		Checksum32(buf, 0)
	}
}
