package rhmap

const (
	// DefaultLoadFactor is the fill ratio at which the table grows. It must
	// stay below 1.0 so the expected probe length stays bounded.
	DefaultLoadFactor = 0.86

	// hashSentinel replaces a native hash of zero, keeping the zero hash
	// value free to mean "empty slot."
	hashSentinel uint32 = 0x80000000
)

// Layout selects the backing storage arrangement for a table. Both layouts
// behave identically; they differ only in memory locality.
type Layout int

const (
	// LayoutFlat stores one array of combined (hash, key, value) records.
	LayoutFlat Layout = iota
	// LayoutColumns stores three parallel arrays indexed in lockstep, which
	// keeps hash-only probe scans inside a single dense array.
	LayoutColumns
)

// alignBucketCount rounds a size hint up to the next power of two so the
// table can mask instead of mod. A zero hint means start with no storage.
func alignBucketCount(size uint) uint64 {
	if size == 0 {
		return 0
	}
	count := uint64(1)
	for count < uint64(size) {
		count *= 2
	}
	return count
}
