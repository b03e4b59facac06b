// ABOUTME: Fixed-capacity byte ring buffer for buffered-but-unplayed audio
// ABOUTME: Tracks start offset, occupied length and in-flight device reads
package engine

// Ring is a fixed-capacity FIFO byte buffer. The region
// [start, start+occupied) modulo capacity holds valid unplayed data;
// everything else is free space the producer may overwrite.
//
// Ring is not safe for concurrent use; the owning Session serializes all
// access under its lock. Wake-ups on data/space changes are the caller's
// responsibility (the session condition variable).
type Ring struct {
	data     []byte
	start    int
	occupied int
	inFlight int
}

// NewRing allocates a ring buffer of the given byte capacity.
func NewRing(capacity int) *Ring {
	return &Ring{data: make([]byte, capacity)}
}

// Capacity returns the fixed byte capacity.
func (r *Ring) Capacity() int { return len(r.data) }

// Occupied returns the number of buffered, unplayed bytes.
func (r *Ring) Occupied() int { return r.occupied }

// Free returns the number of bytes the producer may write.
func (r *Ring) Free() int { return len(r.data) - r.occupied }

// InFlight returns the number of bytes currently being handed to the
// sink by an uncommitted read.
func (r *Ring) InFlight() int { return r.inFlight }

// Write copies as many bytes of p as fit into free space, wrapping at the
// physical end of the allocation, and commits them. It returns the number
// of bytes copied; zero-length writes and writes against a full buffer
// are no-ops.
func (r *Ring) Write(p []byte) int {
	writable := r.Free()
	if writable > len(p) {
		writable = len(p)
	}
	if writable == 0 {
		return 0
	}

	pos := (r.start + r.occupied) % len(r.data)
	if writable > len(r.data)-pos {
		part := len(r.data) - pos
		copy(r.data[pos:], p[:part])
		copy(r.data, p[part:writable])
	} else {
		copy(r.data[pos:], p[:writable])
	}

	r.occupied += writable
	return writable
}

// Peek returns a contiguous view of up to max unplayed bytes starting at
// the read position. The view never crosses the physical end of the
// allocation; a wrapped remainder needs a second call after CommitRead.
func (r *Ring) Peek(max int) []byte {
	n := r.occupied
	if n > max {
		n = max
	}
	if n > len(r.data)-r.start {
		n = len(r.data) - r.start
	}
	return r.data[r.start : r.start+n]
}

// BeginRead peeks a chunk and marks it in flight, so that a concurrent
// flush can tell a device write is in progress and wait for CommitRead.
func (r *Ring) BeginRead(max int) []byte {
	chunk := r.Peek(max)
	r.inFlight = len(chunk)
	return chunk
}

// CommitRead advances the read position by n bytes, releasing them as
// free space, and clears the in-flight mark. n may be less than the
// in-flight length when the sink accepted a short or zero write.
func (r *Ring) CommitRead(n int) {
	r.start = (r.start + n) % len(r.data)
	r.occupied -= n
	r.inFlight = 0
}

// Reset discards all buffered data. Only valid when no read is in flight.
func (r *Ring) Reset() {
	r.start = 0
	r.occupied = 0
}
