// Package xxhash implements the 32-bit xxHash algorithm as a one-shot
// checksum. The streaming hash.Hash32 machinery is deliberately absent; the
// hash table layer only ever hashes whole keys.
package xxhash

import "math/bits"

const (
	prime32x1 = 2654435761
	prime32x2 = 2246822519
	prime32x3 = 3266489917
	prime32x4 = 668265263
	prime32x5 = 374761393
)

// Sum32 returns the xxHash32 checksum of b with seed 0.
func Sum32(b []byte) uint32 {
	return Checksum32(b, 0)
}

// Sum32String returns the xxHash32 checksum of s with seed 0.
func Sum32String(s string) uint32 {
	return Checksum32([]byte(s), 0)
}

// Checksum32 returns the xxHash32 checksum of input under the given seed.
func Checksum32(input []byte, seed uint32) uint32 {
	n := len(input)
	h32 := uint32(n)

	if n < 16 {
		h32 += seed + prime32x5
	} else {
		v1 := seed + prime32x1 + prime32x2
		v2 := seed + prime32x2
		v3 := seed
		v4 := seed - prime32x1
		p := 0
		for lim := n - 16; p <= lim; p += 16 {
			sub := input[p:][:16] // BCE hint
			v1 = bits.RotateLeft32(v1+read32(sub)*prime32x2, 13) * prime32x1
			v2 = bits.RotateLeft32(v2+read32(sub[4:])*prime32x2, 13) * prime32x1
			v3 = bits.RotateLeft32(v3+read32(sub[8:])*prime32x2, 13) * prime32x1
			v4 = bits.RotateLeft32(v4+read32(sub[12:])*prime32x2, 13) * prime32x1
		}
		input = input[p:]
		n -= p
		h32 += bits.RotateLeft32(v1, 1) + bits.RotateLeft32(v2, 7) +
			bits.RotateLeft32(v3, 12) + bits.RotateLeft32(v4, 18)
	}

	p := 0
	for lim := n - 4; p <= lim; p += 4 {
		h32 += read32(input[p:p+4]) * prime32x3
		h32 = bits.RotateLeft32(h32, 17) * prime32x4
	}
	for ; p < n; p++ {
		h32 += uint32(input[p]) * prime32x5
		h32 = bits.RotateLeft32(h32, 11) * prime32x1
	}

	// avalanche
	h32 ^= h32 >> 15
	h32 *= prime32x2
	h32 ^= h32 >> 13
	h32 *= prime32x3
	h32 ^= h32 >> 16

	return h32
}

func read32(buf []byte) uint32 {
	// recognized by the compiler as a little endian load
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}
