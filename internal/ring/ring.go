// Package ring provides fixed-capacity, non-growing collection primitives
// used by the kernel's IOC channels and attachment lists. Nothing here
// allocates after construction, matching the no-allocator target the
// kernel is modeled after.
package ring

// Ring is a fixed-capacity circular buffer of T, addressed by a monotonic
// write sequence number rather than a pair of head/tail indices. Writing
// past capacity overwrites the oldest retained element (the IOC "overwrite
// on full" policy), which is exactly what Push implements.
//
// A single Ring can support multiple independent consumers via separate
// Cursor values, each tracking its own read position into the shared
// sequence space; see Cursor.
//
// Grounded on catrate's mask-indexed ringBuffer and eventloop's
// sequence-tagged MicrotaskRing, collapsed into one mutex-free (the caller
// is expected to serialize access; the kernel always does, via its single
// mutex) fixed-size structure.
type Ring[T any] struct {
	data []T
	seq  uint64 // number of elements ever written
}

// New constructs a Ring with the given fixed capacity. Capacity must be
// greater than zero.
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Ring[T]{data: make([]T, capacity)}
}

// Cap returns the ring's fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.data) }

// WriteSeq returns the total number of elements ever written. It never
// decreases.
func (r *Ring[T]) WriteSeq() uint64 { return r.seq }

// Oldest returns the sequence number of the oldest element still retained
// in the ring (0 if the ring has never overflowed).
func (r *Ring[T]) Oldest() uint64 {
	cap64 := uint64(len(r.data))
	if r.seq <= cap64 {
		return 0
	}
	return r.seq - cap64
}

// Push appends v, overwriting the oldest retained element if the ring is
// already at capacity. It returns true if an existing element was
// overwritten (i.e. the ring was full before this push).
func (r *Ring[T]) Push(v T) (overwrote bool) {
	overwrote = r.seq >= uint64(len(r.data))
	r.data[r.seq%uint64(len(r.data))] = v
	r.seq++
	return overwrote
}

// At returns the element written at sequence number seq, if it is still
// retained.
func (r *Ring[T]) At(seq uint64) (v T, ok bool) {
	if seq >= r.seq || seq < r.Oldest() {
		return v, false
	}
	return r.data[seq%uint64(len(r.data))], true
}

// Cursor is an independent read position into a Ring's shared write
// sequence. Multiple cursors may read the same Ring without interfering
// with one another; each only advances its own Read position.
type Cursor struct {
	read uint64
}

func pending(read, seq, capacity uint64) int {
	if seq < read {
		return 0
	}
	avail := seq - read
	if avail > capacity {
		avail = capacity
	}
	return int(avail)
}

// Next returns the next unread element for the cursor and advances it,
// skipping forward over any elements that were overwritten before this
// cursor read them (a receiver that fell behind loses the gap, as the
// writer already discarded that data). ok is false if the cursor has
// nothing left to read.
func Next[T any](c *Cursor, r *Ring[T]) (v T, ok bool) {
	if c.read < r.Oldest() {
		c.read = r.Oldest()
	}
	if c.read >= r.seq {
		return v, false
	}
	v = r.data[c.read%uint64(len(r.data))]
	c.read++
	return v, true
}

// PendingFor returns the number of unread elements remaining for this
// cursor, clamped to the ring's capacity: a cursor that falls more than
// Cap() elements behind the writer has permanently lost the overwritten
// elements, exactly like the spec's single-consumer overwrite-on-full rule,
// applied per receiver.
func PendingFor[T any](c *Cursor, r *Ring[T]) int {
	return pending(c.read, r.seq, uint64(len(r.data)))
}

// Reset sets the cursor's read position to sequence number read.
func (c *Cursor) Reset(read uint64) { c.read = read }

// BoundedList is a fixed-capacity, append-only, non-overwriting list. It is
// used for configuration-time-only collections where exceeding capacity is
// a configuration error, e.g. the alarms attached to one counter.
type BoundedList[T any] struct {
	data []T
	cap  int
}

// NewBoundedList constructs an empty BoundedList with the given fixed
// capacity.
func NewBoundedList[T any](capacity int) *BoundedList[T] {
	return &BoundedList[T]{data: make([]T, 0, capacity), cap: capacity}
}

// Append adds v to the end of the list, preserving insertion order. It
// returns false without modifying the list if capacity is already
// exhausted.
func (b *BoundedList[T]) Append(v T) bool {
	if len(b.data) >= b.cap {
		return false
	}
	b.data = append(b.data, v)
	return true
}

// Len returns the number of elements currently stored.
func (b *BoundedList[T]) Len() int { return len(b.data) }

// Cap returns the list's fixed capacity.
func (b *BoundedList[T]) Cap() int { return b.cap }

// At returns the element at index i, in insertion order.
func (b *BoundedList[T]) At(i int) T { return b.data[i] }

// All returns the list's elements, in insertion order. The returned slice
// must not be mutated by the caller.
func (b *BoundedList[T]) All() []T { return b.data }
