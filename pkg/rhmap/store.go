package rhmap

// store is the storage layout strategy underneath the table. The engine only
// ever touches slots through indices, so swapping a layout cannot change
// observable behavior, only memory locality. A stored hash of 0 means the
// slot is empty.
type store[K comparable, V any] interface {
	cap() uint64
	hashAt(i uint64) uint32
	keyAt(i uint64) K
	valueAt(i uint64) V
	load(i uint64) (hash uint32, key K, value V)
	set(i uint64, hash uint32, key K, value V)
	setValue(i uint64, value V)
	clear(i uint64)
	move(dst, src uint64)
}

func newStore[K comparable, V any](layout Layout, capacity uint64) store[K, V] {
	if layout == LayoutColumns {
		return &columnStore[K, V]{
			hashes: make([]uint32, capacity),
			keys:   make([]K, capacity),
			vals:   make([]V, capacity),
		}
	}
	return &flatStore[K, V]{slots: make([]slot[K, V], capacity)}
}

// slot is one combined record in the flat layout.
type slot[K comparable, V any] struct {
	hash uint32
	key  K
	val  V
}

// flatStore keeps one array of combined records, moved as whole units. A
// probe that finds its key pays nothing extra to reach the value.
type flatStore[K comparable, V any] struct {
	slots []slot[K, V]
}

func (s *flatStore[K, V]) cap() uint64 { return uint64(len(s.slots)) }

func (s *flatStore[K, V]) hashAt(i uint64) uint32 { return s.slots[i].hash }

func (s *flatStore[K, V]) keyAt(i uint64) K { return s.slots[i].key }

func (s *flatStore[K, V]) valueAt(i uint64) V { return s.slots[i].val }

func (s *flatStore[K, V]) load(i uint64) (uint32, K, V) {
	sl := s.slots[i]
	return sl.hash, sl.key, sl.val
}

func (s *flatStore[K, V]) set(i uint64, hash uint32, key K, value V) {
	s.slots[i] = slot[K, V]{hash: hash, key: key, val: value}
}

func (s *flatStore[K, V]) setValue(i uint64, value V) { s.slots[i].val = value }

func (s *flatStore[K, V]) clear(i uint64) { s.slots[i] = slot[K, V]{} }

func (s *flatStore[K, V]) move(dst, src uint64) { s.slots[dst] = s.slots[src] }

// columnStore keeps three parallel arrays indexed in lockstep. Probe scans
// only touch the dense hash column, which is friendlier to the cache when
// keys or values are wide.
type columnStore[K comparable, V any] struct {
	hashes []uint32
	keys   []K
	vals   []V
}

func (s *columnStore[K, V]) cap() uint64 { return uint64(len(s.hashes)) }

func (s *columnStore[K, V]) hashAt(i uint64) uint32 { return s.hashes[i] }

func (s *columnStore[K, V]) keyAt(i uint64) K { return s.keys[i] }

func (s *columnStore[K, V]) valueAt(i uint64) V { return s.vals[i] }

func (s *columnStore[K, V]) load(i uint64) (uint32, K, V) {
	return s.hashes[i], s.keys[i], s.vals[i]
}

func (s *columnStore[K, V]) set(i uint64, hash uint32, key K, value V) {
	s.hashes[i] = hash
	s.keys[i] = key
	s.vals[i] = value
}

func (s *columnStore[K, V]) setValue(i uint64, value V) { s.vals[i] = value }

func (s *columnStore[K, V]) clear(i uint64) {
	var zk K
	var zv V
	s.hashes[i] = 0
	s.keys[i] = zk
	s.vals[i] = zv
}

func (s *columnStore[K, V]) move(dst, src uint64) {
	s.hashes[dst] = s.hashes[src]
	s.keys[dst] = s.keys[src]
	s.vals[dst] = s.vals[src]
}
