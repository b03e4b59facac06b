// ABOUTME: Tests for the byte ring buffer
// ABOUTME: Covers FIFO ordering, wraparound, free space and in-flight reads
package engine

import (
	"bytes"
	"testing"
)

func TestRingWriteAndRead(t *testing.T) {
	r := NewRing(16)

	if r.Capacity() != 16 {
		t.Errorf("Capacity() = %d, want 16", r.Capacity())
	}
	if r.Occupied() != 0 || r.Free() != 16 {
		t.Errorf("fresh ring: occupied=%d free=%d", r.Occupied(), r.Free())
	}

	n := r.Write([]byte("hello"))
	if n != 5 {
		t.Fatalf("Write = %d, want 5", n)
	}
	if r.Occupied() != 5 || r.Free() != 11 {
		t.Errorf("after write: occupied=%d free=%d", r.Occupied(), r.Free())
	}

	chunk := r.BeginRead(16)
	if !bytes.Equal(chunk, []byte("hello")) {
		t.Errorf("BeginRead = %q, want hello", chunk)
	}
	if r.InFlight() != 5 {
		t.Errorf("InFlight() = %d, want 5", r.InFlight())
	}

	r.CommitRead(5)
	if r.Occupied() != 0 || r.InFlight() != 0 {
		t.Errorf("after commit: occupied=%d inflight=%d", r.Occupied(), r.InFlight())
	}
}

func TestRingWritePartialWhenNearlyFull(t *testing.T) {
	r := NewRing(8)

	if n := r.Write([]byte("abcdef")); n != 6 {
		t.Fatalf("first write = %d, want 6", n)
	}
	// Only two bytes of free space remain.
	if n := r.Write([]byte("ghijk")); n != 2 {
		t.Errorf("second write = %d, want 2", n)
	}
	if n := r.Write([]byte("x")); n != 0 {
		t.Errorf("write to full ring = %d, want 0", n)
	}

	chunk := r.BeginRead(8)
	if !bytes.Equal(chunk, []byte("abcdefgh")) {
		t.Errorf("buffered = %q, want abcdefgh", chunk)
	}
}

func TestRingWraparound(t *testing.T) {
	r := NewRing(8)

	r.Write([]byte("abcdef"))
	r.BeginRead(4)
	r.CommitRead(4)

	// Write wraps past the physical end: 2 bytes fit at the tail,
	// 4 more at the head.
	if n := r.Write([]byte("ghijkl")); n != 6 {
		t.Fatalf("wrapping write = %d, want 6", n)
	}
	if r.Occupied() != 8 {
		t.Fatalf("Occupied() = %d, want 8", r.Occupied())
	}

	// Reads stop at the physical end and need a second pass.
	first := r.BeginRead(8)
	if !bytes.Equal(first, []byte("efgh")) {
		t.Errorf("first chunk = %q, want efgh", first)
	}
	r.CommitRead(len(first))

	second := r.BeginRead(8)
	if !bytes.Equal(second, []byte("ijkl")) {
		t.Errorf("second chunk = %q, want ijkl", second)
	}
	r.CommitRead(len(second))

	if r.Occupied() != 0 {
		t.Errorf("Occupied() = %d after draining, want 0", r.Occupied())
	}
}

func TestRingFIFOOrder(t *testing.T) {
	r := NewRing(32)

	var in, out []byte
	for i := 0; i < 100; i++ {
		p := []byte{byte(i), byte(i + 1), byte(i + 2)}
		written := r.Write(p)
		in = append(in, p[:written]...)

		chunk := r.BeginRead(7)
		out = append(out, chunk...)
		r.CommitRead(len(chunk))
	}
	for r.Occupied() > 0 {
		chunk := r.BeginRead(7)
		out = append(out, chunk...)
		r.CommitRead(len(chunk))
	}

	if !bytes.Equal(in, out) {
		t.Errorf("bytes came out reordered or corrupted: wrote %d, read %d", len(in), len(out))
	}
}

func TestRingPeekBoundedByMax(t *testing.T) {
	r := NewRing(16)
	r.Write([]byte("abcdefgh"))

	if chunk := r.Peek(3); !bytes.Equal(chunk, []byte("abc")) {
		t.Errorf("Peek(3) = %q, want abc", chunk)
	}
	// Peek does not consume.
	if r.Occupied() != 8 {
		t.Errorf("Occupied() = %d after peek, want 8", r.Occupied())
	}
}

func TestRingShortCommit(t *testing.T) {
	r := NewRing(16)
	r.Write([]byte("abcdef"))

	chunk := r.BeginRead(6)
	if len(chunk) != 6 {
		t.Fatalf("BeginRead = %d bytes, want 6", len(chunk))
	}

	// The device accepted only part of the chunk.
	r.CommitRead(2)
	if r.InFlight() != 0 {
		t.Errorf("InFlight() = %d after commit, want 0", r.InFlight())
	}
	if rest := r.Peek(16); !bytes.Equal(rest, []byte("cdef")) {
		t.Errorf("remaining = %q, want cdef", rest)
	}
}

func TestRingZeroCommitKeepsData(t *testing.T) {
	r := NewRing(16)
	r.Write([]byte("abc"))

	r.BeginRead(3)
	r.CommitRead(0)

	if chunk := r.Peek(16); !bytes.Equal(chunk, []byte("abc")) {
		t.Errorf("data lost after zero commit: %q", chunk)
	}
}

func TestRingReset(t *testing.T) {
	r := NewRing(16)
	r.Write([]byte("abcdef"))
	r.BeginRead(4)
	r.CommitRead(4)

	r.Reset()
	if r.Occupied() != 0 || r.Free() != 16 {
		t.Errorf("after reset: occupied=%d free=%d", r.Occupied(), r.Free())
	}

	// The ring is fully usable again.
	if n := r.Write(make([]byte, 16)); n != 16 {
		t.Errorf("write after reset = %d, want 16", n)
	}
}

func TestRingEmptyOperations(t *testing.T) {
	r := NewRing(8)

	if n := r.Write(nil); n != 0 {
		t.Errorf("Write(nil) = %d, want 0", n)
	}
	if chunk := r.BeginRead(8); len(chunk) != 0 {
		t.Errorf("BeginRead on empty ring = %d bytes, want 0", len(chunk))
	}
	if r.InFlight() != 0 {
		t.Errorf("InFlight() = %d, want 0", r.InFlight())
	}
}
