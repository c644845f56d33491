package rhmap

import (
	"math/bits"
	"sync"
)

// mapShard pairs one table with its lock.
type mapShard[K comparable, V any] struct {
	mu sync.RWMutex
	m  *Map[K, V]
}

// ShardedMap partitions keys across independently locked Maps so concurrent
// callers contend per shard instead of per table. The hash is computed once:
// its high bits pick the shard, and the tables below consume the low bits
// for the home index.
type ShardedMap[K comparable, V any] struct {
	shift   uint32
	hasher  Hasher[K]
	nilable bool
	shards  []*mapShard[K, V]
}

// DefaultShardCount is used when NewShardedMap is given no shard hint.
const DefaultShardCount = 16

// NewShardedMap returns a sharded map with the shard count rounded up to a
// power of two, each shard sized for its slice of the overall size hint.
func NewShardedMap[K comparable, V any](shards, size uint) *ShardedMap[K, V] {
	return NewShardedMapWithHasher[K, V](shards, size, LayoutFlat, nil)
}

// NewShardedMapWithHasher is NewShardedMap with an explicit layout and
// hasher shared by every shard.
func NewShardedMapWithHasher[K comparable, V any](shards, size uint, layout Layout, hasher Hasher[K]) *ShardedMap[K, V] {
	if shards == 0 {
		shards = DefaultShardCount
	}
	count := alignBucketCount(shards)
	if hasher == nil {
		hasher = DefaultHasher[K]()
	}
	s := &ShardedMap[K, V]{
		shift:   uint32(32 - bits.TrailingZeros64(count)),
		hasher:  hasher,
		nilable: nilableKind[K](),
		shards:  make([]*mapShard[K, V], count),
	}
	per := uint(uint64(size) / count)
	for i := range s.shards {
		s.shards[i] = &mapShard[K, V]{m: NewWithHasher[K, V](per, layout, hasher)}
	}
	return s
}

// locate hashes the key once and picks its shard off the high bits.
func (s *ShardedMap[K, V]) locate(key K) (*mapShard[K, V], uint32) {
	h := hashKey(s.hasher, key)
	return s.shards[h>>s.shift], h
}

// Insert adds a new entry, failing with ErrDuplicateKey or ErrNilKey.
func (s *ShardedMap[K, V]) Insert(key K, value V) error {
	if s.nilable && isNilKey(key) {
		return ErrNilKey
	}
	sh, h := s.locate(key)
	sh.mu.Lock()
	_, _, err := sh.m.insert(h, key, value, false)
	sh.mu.Unlock()
	return err
}

// Set upserts an entry, returning the previous value and true if replaced.
func (s *ShardedMap[K, V]) Set(key K, value V) (V, bool) {
	var prev V
	if s.nilable && isNilKey(key) {
		return prev, false
	}
	sh, h := s.locate(key)
	sh.mu.Lock()
	prev, replaced, _ := sh.m.insert(h, key, value, true)
	sh.mu.Unlock()
	return prev, replaced
}

// Get returns the value for key, or false if none could be found.
func (s *ShardedMap[K, V]) Get(key K) (V, bool) {
	var zero V
	if s.nilable && isNilKey(key) {
		return zero, false
	}
	sh, h := s.locate(key)
	sh.mu.RLock()
	i, ok := sh.m.find(h, key)
	if !ok {
		sh.mu.RUnlock()
		return zero, false
	}
	v := sh.m.st.valueAt(i)
	sh.mu.RUnlock()
	return v, true
}

// Has reports whether key is present.
func (s *ShardedMap[K, V]) Has(key K) bool {
	_, ok := s.Get(key)
	return ok
}

// Del removes key, returning the removed value and true if it was present.
func (s *ShardedMap[K, V]) Del(key K) (V, bool) {
	var zero V
	if s.nilable && isNilKey(key) {
		return zero, false
	}
	sh, h := s.locate(key)
	sh.mu.Lock()
	prev, ok := sh.m.remove(h, key)
	sh.mu.Unlock()
	return prev, ok
}

// Len returns the total entry count across all shards.
func (s *ShardedMap[K, V]) Len() int {
	var n int
	for i := range s.shards {
		s.shards[i].mu.RLock()
		n += s.shards[i].m.Len()
		s.shards[i].mu.RUnlock()
	}
	return n
}

// Range walks every shard in turn under its lock. The iterator must not
// call back into this ShardedMap.
func (s *ShardedMap[K, V]) Range(it Iterator[K, V]) {
	for i := range s.shards {
		s.shards[i].mu.RLock()
		stop := false
		s.shards[i].m.Range(func(k K, v V) bool {
			if !it(k, v) {
				stop = true
				return false
			}
			return true
		})
		s.shards[i].mu.RUnlock()
		if stop {
			return
		}
	}
}

// Clear resets every shard to the empty, capacity-zero state.
func (s *ShardedMap[K, V]) Clear() {
	for i := range s.shards {
		s.shards[i].mu.Lock()
		s.shards[i].m.Clear()
		s.shards[i].mu.Unlock()
	}
}

// FillRatios returns the load factor of each shard, mainly for diagnostics.
func (s *ShardedMap[K, V]) FillRatios() []float64 {
	out := make([]float64, len(s.shards))
	for i := range s.shards {
		s.shards[i].mu.RLock()
		out[i] = s.shards[i].m.PercentFull()
		s.shards[i].mu.RUnlock()
	}
	return out
}
