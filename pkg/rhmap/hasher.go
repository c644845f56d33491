package rhmap

import (
	"encoding/binary"
	"hash/maphash"
	"reflect"

	"github.com/scottcagno/rhmap/pkg/hash/xxhash"
	"golang.org/x/crypto/blake2b"
)

// Hasher is the injected hash/equality capability pair for a key type. The
// usual contract applies: Equal(a, b) implies Hash(a) == Hash(b), and both
// must be deterministic for the lifetime of the table.
type Hasher[K any] interface {
	Hash(key K) uint32
	Equal(a, b K) bool
}

// DefaultHasher returns the hasher a table uses when none is supplied:
// xxHash32 for string keys, hash/maphash for everything else comparable.
func DefaultHasher[K comparable]() Hasher[K] {
	var zero K
	if _, ok := any(zero).(string); ok {
		return any(StringHasher{}).(Hasher[K])
	}
	return comparableHasher[K]{}
}

// hashSeed is fixed per process so equal keys hash equally across every
// table in the program, which lets sharded wrappers partition by hash.
var hashSeed = maphash.MakeSeed()

// comparableHasher hashes any comparable key through hash/maphash, folding
// the 64-bit result down to the 32 bits the table stores.
type comparableHasher[K comparable] struct{}

func (comparableHasher[K]) Hash(key K) uint32 {
	h := maphash.Comparable(hashSeed, key)
	return uint32(h ^ (h >> 32))
}

func (comparableHasher[K]) Equal(a, b K) bool { return a == b }

// StringHasher is the default hasher for string keys.
type StringHasher struct{}

func (StringHasher) Hash(key string) uint32 { return xxhash.Sum32String(key) }
func (StringHasher) Equal(a, b string) bool { return a == b }

// KeyedStringHasher hashes string keys through keyed blake2b. It is much
// slower than StringHasher but cannot be collision-flooded by a caller who
// does not know the seed.
type KeyedStringHasher struct {
	seed []byte
}

// NewKeyedStringHasher returns a keyed string hasher. The seed must be
// between 1 and 64 bytes, per the blake2b key rules.
func NewKeyedStringHasher(seed []byte) (*KeyedStringHasher, error) {
	if _, err := blake2b.New256(seed); err != nil {
		return nil, err
	}
	if len(seed) == 0 {
		return nil, errEmptySeed
	}
	k := &KeyedStringHasher{seed: make([]byte, len(seed))}
	copy(k.seed, seed)
	return k, nil
}

func (k *KeyedStringHasher) Hash(key string) uint32 {
	d, _ := blake2b.New256(k.seed)
	d.Write([]byte(key))
	var sum [blake2b.Size256]byte
	return binary.LittleEndian.Uint32(d.Sum(sum[:0]))
}

func (k *KeyedStringHasher) Equal(a, b string) bool { return a == b }

// funcHasher adapts a pair of plain functions into a Hasher.
type funcHasher[K any] struct {
	hash  func(key K) uint32
	equal func(a, b K) bool
}

// NewFuncHasher wraps a hash function and an equality predicate into a
// Hasher, mainly so callers (and tests) can inject custom behavior.
func NewFuncHasher[K any](hash func(key K) uint32, equal func(a, b K) bool) Hasher[K] {
	return funcHasher[K]{hash: hash, equal: equal}
}

func (f funcHasher[K]) Hash(key K) uint32 { return f.hash(key) }
func (f funcHasher[K]) Equal(a, b K) bool { return f.equal(a, b) }

// hashKey runs the full hashing pipeline: native hash, zero remapped to the
// sentinel, then spread. The result is never 0, so it can be stored directly.
func hashKey[K any](h Hasher[K], key K) uint32 {
	native := h.Hash(key)
	if native == 0 {
		native = hashSentinel
	}
	return spread(native)
}

// spread folds the high bits of the hash down into the low bits, so masking
// off the home index stays well distributed even when the native hash has
// poor low-bit entropy. spread is a bijection on uint32 with spread(0) == 0,
// so a non-zero input can never produce the reserved empty hash.
func spread(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return h
}

// nilableKind reports whether K is a kind that can hold nil at all. Value
// kinds skip the nil-key check entirely.
func nilableKind[K comparable]() bool {
	switch reflect.TypeOf((*K)(nil)).Elem().Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

// isNilKey reports whether key is a nil reference. Only called for nilable
// key kinds. When K is an interface type reflect unwraps the dynamic value,
// so the kind has to be rechecked here: asking IsNil of a value kind panics.
func isNilKey[K comparable](key K) bool {
	v := reflect.ValueOf(key)
	if !v.IsValid() {
		// nil interface
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
