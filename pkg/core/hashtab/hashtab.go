// Package hashtab implements a generic chained hash table with pluggable
// hash and comparison functions.
//
// The bucket count is always an "almost prime": the largest prime below a
// power of two, drawn from a fixed ascending sequence. When an insertion
// would push the load factor to or past the configured maximum, the table
// rehashes into the next capacity in the sequence before the insertion
// completes, so the load-factor bound holds immediately after every insert.
package hashtab

import "errors"

// ErrKeyExists is returned by Insert when the key is already present.
// Duplicate keys are rejected, never overwritten.
var ErrKeyExists = errors.New("hashtab: key exists")

// deltas between a power of two and the largest prime less than that power
// of two; capacity at index i is 1<<i - delta[i]
var delta = []uint{0, 0, 1, 1, 3, 1, 3, 1, 5, 3, 3, 9, 3, 1, 3, 19, 15,
	1, 5, 1, 3, 9, 3, 15, 3, 39, 5, 39, 57, 3, 35, 1}

const initialDeltaIndex = 4 // 2^4 - 3 = 13

// HashFunc maps a key to a bucket index in [0, size).
type HashFunc[K any] func(key K, size uint) uint

// CmpFunc compares two keys; it returns 0 when they are equal.
type CmpFunc[K any] func(a, b K) int

type entry[K, V any] struct {
	key   K
	value V
	next  *entry[K, V]
}

// Table is a chained hash table. It is not safe for concurrent use.
type Table[K, V any] struct {
	buckets []*entry[K, V]
	entries int
	maxLoad float64
	idx     int
	hash    HashFunc[K]
	cmp     CmpFunc[K]
}

// New creates an empty table with the given maximum load factor.
func New[K, V any](maxLoad float64, hash HashFunc[K], cmp CmpFunc[K]) *Table[K, V] {
	t := &Table[K, V]{
		maxLoad: maxLoad,
		idx:     initialDeltaIndex,
		hash:    hash,
		cmp:     cmp,
	}
	t.buckets = make([]*entry[K, V], capacityAt(t.idx))
	return t
}

func capacityAt(idx int) uint {
	return uint(1)<<uint(idx) - delta[idx]
}

// Insert adds a key/value pair. It returns ErrKeyExists if the key is
// already present, leaving the table unchanged.
func (t *Table[K, V]) Insert(key K, value V) error {
	if _, ok := t.Search(key); ok {
		return ErrKeyExists
	}
	if float64(t.entries+1)/float64(len(t.buckets)) >= t.maxLoad {
		t.rehash()
	}
	t.link(&entry[K, V]{key: key, value: value})
	t.entries++
	return nil
}

// Search looks up the value stored under key.
func (t *Table[K, V]) Search(key K) (V, bool) {
	k := t.hash(key, uint(len(t.buckets)))
	for p := t.buckets[k]; p != nil; p = p.next {
		if t.cmp(key, p.key) == 0 {
			return p.value, true
		}
	}
	var zero V
	return zero, false
}

// Len returns the number of entries.
func (t *Table[K, V]) Len() int { return t.entries }

// Cap returns the current bucket count.
func (t *Table[K, V]) Cap() uint { return uint(len(t.buckets)) }

// Walk calls fn for every entry, bucket by bucket in chain order.
func (t *Table[K, V]) Walk(fn func(key K, value V)) {
	for _, b := range t.buckets {
		for p := b; p != nil; p = p.next {
			fn(p.key, p.value)
		}
	}
}

// link appends e to the tail of its bucket chain, preserving insertion order
// within a bucket.
func (t *Table[K, V]) link(e *entry[K, V]) {
	k := t.hash(e.key, uint(len(t.buckets)))
	p := t.buckets[k]
	if p == nil {
		t.buckets[k] = e
		return
	}
	for p.next != nil {
		p = p.next
	}
	p.next = e
}

// rehash moves every entry into a table of the next almost-prime capacity.
// Bucket indices depend on the size, so each entry is relinked with the new
// capacity's hash rather than copied chainwise.
func (t *Table[K, V]) rehash() {
	old := t.buckets
	t.idx++
	t.buckets = make([]*entry[K, V], capacityAt(t.idx))
	for _, b := range old {
		p := b
		for p != nil {
			next := p.next
			p.next = nil
			t.link(p)
			p = next
		}
	}
}
