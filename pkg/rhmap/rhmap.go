package rhmap

// Map is a generic open addressing hash table using robin hood hashing with
// backward shift deletion. A Map has a single logical owner at a time; it is
// not safe for concurrent use. See ShardedMap for a locked wrapper.
type Map[K comparable, V any] struct {
	hasher   Hasher[K]
	layout   Layout
	st       store[K, V]
	mask     uint64
	used     uint64
	growAt   uint64
	shrinkAt uint64
	nilable  bool
}

// New returns a new Map using the flat record layout and the default hasher.
// The size hint is rounded up to the next power of two; 0 starts the table
// with no backing storage at all.
func New[K comparable, V any](size uint) *Map[K, V] {
	return NewWithHasher[K, V](size, LayoutFlat, nil)
}

// NewColumnar returns a new Map backed by parallel hash/key/value arrays.
func NewColumnar[K comparable, V any](size uint) *Map[K, V] {
	return NewWithHasher[K, V](size, LayoutColumns, nil)
}

// NewWithHasher returns a new Map with an explicit layout and hasher. A nil
// hasher selects DefaultHasher for the key type.
func NewWithHasher[K comparable, V any](size uint, layout Layout, hasher Hasher[K]) *Map[K, V] {
	if hasher == nil {
		hasher = DefaultHasher[K]()
	}
	m := &Map[K, V]{
		hasher:  hasher,
		layout:  layout,
		nilable: nilableKind[K](),
	}
	c := alignBucketCount(size)
	m.st = newStore[K, V](layout, c)
	m.setThresholds(c)
	return m
}

func (m *Map[K, V]) setThresholds(c uint64) {
	if c > 0 {
		m.mask = c - 1
	} else {
		m.mask = 0
	}
	m.growAt = uint64(float64(c) * DefaultLoadFactor)
	m.shrinkAt = c >> 2
}

func (m *Map[K, V]) keyHash(key K) uint32 {
	return hashKey(m.hasher, key)
}

func (m *Map[K, V]) nilKey(key K) bool {
	return m.nilable && isNilKey(key)
}

// probeDist returns how far slot i sits from the home index of the hash
// stored there, following the wrap around the table end.
func (m *Map[K, V]) probeDist(i uint64, hash uint32) uint64 {
	return (i - (uint64(hash) & m.mask)) & m.mask
}

// Insert adds a new entry and fails with ErrDuplicateKey if an equal key is
// already present.
func (m *Map[K, V]) Insert(key K, value V) error {
	if m.nilKey(key) {
		return ErrNilKey
	}
	_, _, err := m.insert(m.keyHash(key), key, value, false)
	return err
}

// Set upserts an entry, returning the previous value and true when an equal
// key was already present. A nil reference key is a no-op.
func (m *Map[K, V]) Set(key K, value V) (V, bool) {
	var prev V
	if m.nilKey(key) {
		return prev, false
	}
	prev, replaced, _ := m.insert(m.keyHash(key), key, value, true)
	return prev, replaced
}

// Get returns the value for key, or false if none could be found.
func (m *Map[K, V]) Get(key K) (V, bool) {
	var zero V
	if m.nilKey(key) {
		return zero, false
	}
	i, ok := m.find(m.keyHash(key), key)
	if !ok {
		return zero, false
	}
	return m.st.valueAt(i), true
}

// Lookup is the required-lookup form of Get: it fails with ErrKeyNotFound
// when the key is absent and ErrNilKey on a nil reference key.
func (m *Map[K, V]) Lookup(key K) (V, error) {
	var zero V
	if m.nilKey(key) {
		return zero, ErrNilKey
	}
	i, ok := m.find(m.keyHash(key), key)
	if !ok {
		return zero, ErrKeyNotFound
	}
	return m.st.valueAt(i), nil
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	if m.nilKey(key) {
		return false
	}
	_, ok := m.find(m.keyHash(key), key)
	return ok
}

// Del removes key and returns the removed value and true if it was present.
func (m *Map[K, V]) Del(key K) (V, bool) {
	var zero V
	if m.nilKey(key) {
		return zero, false
	}
	return m.remove(m.keyHash(key), key)
}

// Len returns the number of entries currently in the Map.
func (m *Map[K, V]) Len() int { return int(m.used) }

// Cap returns the current number of slots in the backing storage.
func (m *Map[K, V]) Cap() int { return int(m.st.cap()) }

// Clear resets the Map to the empty, capacity-zero state.
func (m *Map[K, V]) Clear() {
	m.st = newStore[K, V](m.layout, 0)
	m.used = 0
	m.setThresholds(0)
}

// Iterator is the callback type for Range; returning false stops the walk.
type Iterator[K comparable, V any] func(key K, value V) bool

// Range walks every entry in bucket-index order, which carries no meaning
// for callers. Range is not safe to perform an insert or remove operation
// while ranging!
func (m *Map[K, V]) Range(it Iterator[K, V]) {
	for i, c := uint64(0), m.st.cap(); i < c; i++ {
		if m.st.hashAt(i) == 0 {
			continue
		}
		_, k, v := m.st.load(i)
		if !it(k, v) {
			return
		}
	}
}

// PercentFull returns the current load factor of the Map.
func (m *Map[K, V]) PercentFull() float64 {
	c := m.st.cap()
	if c == 0 {
		return 0
	}
	return float64(m.used) / float64(c)
}

// HighestProbe returns the largest probe distance of any occupied slot.
func (m *Map[K, V]) HighestProbe() int {
	var hd uint64
	for i, c := uint64(0), m.st.cap(); i < c; i++ {
		if h := m.st.hashAt(i); h != 0 {
			if d := m.probeDist(i, h); d > hd {
				hd = d
			}
		}
	}
	return int(hd)
}

// find locates the slot holding key, walking the linear probe sequence from
// the home index. The walk stops early once its offset exceeds the resident
// slot's probe distance: robin hood ordering guarantees the key cannot have
// been displaced past that point.
func (m *Map[K, V]) find(hash uint32, key K) (uint64, bool) {
	if m.used == 0 {
		return 0, false
	}
	i := uint64(hash) & m.mask
	var dist uint64
	for {
		sh := m.st.hashAt(i)
		if sh == 0 {
			return 0, false
		}
		if dist > m.probeDist(i, sh) {
			return 0, false
		}
		if sh == hash && m.hasher.Equal(m.st.keyAt(i), key) {
			return i, true
		}
		i = (i + 1) & m.mask
		dist++
	}
}

// insert places an entry using displacement insertion. The traveling entry
// swaps with any resident that sits closer to its own home than the traveler
// currently is, then the evicted resident continues the walk. When replace
// is false an equal resident key fails with ErrDuplicateKey; otherwise its
// value is overwritten in place.
func (m *Map[K, V]) insert(hash uint32, key K, value V, replace bool) (prev V, existed bool, err error) {
	if m.used >= m.growAt {
		m.grow()
	}
	th, tk, tv := hash, key, value
	i := uint64(th) & m.mask
	var dist, steps uint64
	for {
		sh := m.st.hashAt(i)
		if sh == 0 {
			m.st.set(i, th, tk, tv)
			m.used++
			return prev, existed, nil
		}
		if sh == th && m.hasher.Equal(m.st.keyAt(i), tk) {
			if !replace {
				return prev, true, ErrDuplicateKey
			}
			prev = m.st.valueAt(i)
			m.st.setValue(i, tv)
			return prev, true, nil
		}
		if rd := m.probeDist(i, sh); dist > rd {
			// The traveler is poorer than the resident: swap them and carry
			// the evicted resident forward at the resident's old distance.
			rh, rk, rv := m.st.load(i)
			m.st.set(i, th, tk, tv)
			th, tk, tv = rh, rk, rv
			dist = rd
		}
		i = (i + 1) & m.mask
		dist++
		if steps++; steps > m.mask+1 {
			// used < capacity always holds when growth is maintained, so a
			// full-table walk means internal state is corrupt.
			panic("rhmap: probe sequence exceeded capacity")
		}
	}
}

// remove deletes the entry for key via backward shift: the contiguous run of
// displaced entries after the hole moves back one slot each, and the slot at
// the end of the run is cleared. No tombstones.
func (m *Map[K, V]) remove(hash uint32, key K) (V, bool) {
	var zero V
	i, ok := m.find(hash, key)
	if !ok {
		return zero, false
	}
	prev := m.st.valueAt(i)
	for {
		n := (i + 1) & m.mask
		nh := m.st.hashAt(n)
		if nh == 0 || m.probeDist(n, nh) == 0 {
			// Next slot is empty or already home; shifting it would break
			// the robin hood ordering, so the run ends here.
			m.st.clear(i)
			break
		}
		m.st.move(i, n)
		i = n
	}
	m.used--
	if m.used == m.shrinkAt {
		m.resize(m.shrinkAt)
	}
	return prev, true
}

// grow picks the next capacity: at least double, and large enough that the
// grow threshold clears the current entry count.
func (m *Map[K, V]) grow() {
	c := m.st.cap() * 2
	if c == 0 {
		c = 1
	}
	for uint64(float64(c)*DefaultLoadFactor) <= m.used {
		c *= 2
	}
	m.resize(c)
}

// resize rebuilds the backing storage at capacity c and re-seats every
// occupied slot. The keys are already known unique and c is fixed up front,
// so the rehash path skips duplicate checks and growth checks.
func (m *Map[K, V]) resize(c uint64) {
	old := m.st
	m.st = newStore[K, V](m.layout, c)
	m.setThresholds(c)
	for i, oc := uint64(0), old.cap(); i < oc; i++ {
		if h := old.hashAt(i); h != 0 {
			_, k, v := old.load(i)
			m.reinsert(h, k, v)
		}
	}
}

// reinsert is the displacement walk reduced to the rehash case: no growth,
// no duplicate checking, no count bookkeeping.
func (m *Map[K, V]) reinsert(hash uint32, key K, value V) {
	th, tk, tv := hash, key, value
	i := uint64(th) & m.mask
	var dist, steps uint64
	for {
		sh := m.st.hashAt(i)
		if sh == 0 {
			m.st.set(i, th, tk, tv)
			return
		}
		if rd := m.probeDist(i, sh); dist > rd {
			rh, rk, rv := m.st.load(i)
			m.st.set(i, th, tk, tv)
			th, tk, tv = rh, rk, rv
			dist = rd
		}
		i = (i + 1) & m.mask
		dist++
		if steps++; steps > m.mask+1 {
			panic("rhmap: probe sequence exceeded capacity")
		}
	}
}
