package rhmap

/*
	This package implements an in-memory hash table using a closed hashing
	(open addressing) technique with linear probing for resolving any hash
	collisions. The exact algorithm it utilizes is called 'robin hood hashing'
	with backward shift deletion. More information about this technique can be
	found in the links provided below:
	01) https://andre.arko.net/2017/08/24/robin-hood-hashing/
	02) https://cs.uwaterloo.ca/research/tr/1986/CS-86-14.pdf
	03) https://www.sebastiansylvan.com/post/robin-hood-hashing-should-be-your-default-hash-table-implementation/
	04) http://codecapsule.com/2013/11/11/robin-hood-hashing/
	05) http://codecapsule.com/2013/11/17/robin-hood-hashing-backward-shift-deletion/
	06) https://www.pvk.ca/Blog/2013/11/26/the-other-robin-hood-hashing/
	The basic principle is:
	-----------------------
	1) Calculate the hash value and initial index of the entry to be inserted
	2) Search the position in the array linearly
	3) While searching, keep the distance from the initial index, which is
	   called the probe distance (or DIB, distance from initial bucket)
	4) If we find an empty bucket, the entry is inserted there
	5) If we encounter an entry which has a smaller probe distance than the
	   one being inserted, swap them and carry the evicted entry forward
	6) On removal, shift the following run of displaced entries back by one
	   slot instead of leaving a tombstone behind

	Occupancy is encoded in the stored hash itself: a slot whose hash is 0 is
	empty, so the hashing pipeline guarantees it never produces 0 for a real
	key. Probe distances are recomputed from the stored hash rather than kept
	per slot, which keeps the two storage layouts (one array of combined
	records, or parallel hash/key/value columns) interchangeable behind the
	same algorithm.

	Nil keys: when the key type is a nilable kind (pointer, interface or
	channel), a nil reference is rejected. The error-returning operations
	(Insert, Lookup) surface ErrNilKey; the boolean-shaped operations (Get,
	Has, Del, Set) have no error channel, so they treat a nil key as absent
	and a Set with one is silently dropped. Callers who need the nil write
	reported should insert through Insert.
*/
