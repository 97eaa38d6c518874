// Package scrollback implements the PTY proxy and shared circular byte
// buffer: a transparent pass-through between the real terminal and the
// shell process, mirroring every byte of output into a bounded ring so
// later turns can quote recent terminal history.
package scrollback

import (
	"encoding/binary"
	"strings"
	"sync"
)

// header layout within the shared region: writePos and dataSize as
// little-endian uint32, followed by capacity raw bytes of ring data.
const headerSize = 8

// locker is the minimal mutual-exclusion contract the ring needs. In
// production it's backed by a cross-process github.com/gofrs/flock file
// lock; tests use a plain in-memory mutex.
type locker interface {
	Lock() error
	Unlock() error
}

type memLocker struct{ mu sync.Mutex }

func (m *memLocker) Lock() error   { m.mu.Lock(); return nil }
func (m *memLocker) Unlock() error { m.mu.Unlock(); return nil }

// Ring is a fixed-capacity circular byte buffer. Append is single-writer
// (the pump process); Read is safe for many concurrent readers (the
// shell process, possibly several control-loop turns in sequence). All
// access is guarded by lock, which spans processes in production.
type Ring struct {
	region   []byte // headerSize + capacity bytes
	capacity int
	lock     locker
}

// newRing wraps an already-allocated region (header + capacity data
// bytes) with the given cross-process lock. Used by both the in-process
// test constructor and the shared-memory constructor in shm.go.
func newRing(region []byte, capacity int, lock locker) *Ring {
	return &Ring{region: region, capacity: capacity, lock: lock}
}

// NewInMemory allocates a ring backed by a plain heap slice, for use
// when scrollback is disabled or degraded and callers still want a
// valid, empty-reading Ring rather than a nil check at every call site.
func NewInMemory(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return newRing(make([]byte, headerSize+capacity), capacity, &memLocker{})
}

func (r *Ring) writePos() uint32 { return binary.LittleEndian.Uint32(r.region[0:4]) }
func (r *Ring) dataSize() uint32 { return binary.LittleEndian.Uint32(r.region[4:8]) }

func (r *Ring) setWritePos(v uint32) { binary.LittleEndian.PutUint32(r.region[0:4], v) }
func (r *Ring) setDataSize(v uint32) { binary.LittleEndian.PutUint32(r.region[4:8], v) }

func (r *Ring) data() []byte { return r.region[headerSize:] }

// Reset zeros the ring's write position and data size, discarding all
// captured output.
func (r *Ring) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.setWritePos(0)
	r.setDataSize(0)
}

// Append writes data into the ring byte-by-byte under the lock,
// advancing the circular write position and saturating data_size at
// capacity: reading the last data_size bytes in write order always
// yields the most recent output.
func (r *Ring) Append(data []byte) {
	if len(data) == 0 {
		return
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	pos := r.writePos()
	size := r.dataSize()
	buf := r.data()
	cap32 := uint32(r.capacity)

	for _, b := range data {
		buf[pos] = b
		pos = (pos + 1) % cap32
		if size < cap32 {
			size++
		}
	}
	r.setWritePos(pos)
	r.setDataSize(size)
}

// Read returns the last data_size bytes in write order, trimmed to at
// most maxLines trailing lines (scanning backward for newlines) and
// with ANSI escape sequences stripped. maxLines <= 0 means no trimming.
func (r *Ring) Read(maxLines int) string {
	r.lock.Lock()
	pos := r.writePos()
	size := r.dataSize()
	cap32 := uint32(r.capacity)
	buf := r.data()

	out := make([]byte, size)
	start := (pos - size + cap32) % cap32
	for i := uint32(0); i < size; i++ {
		out[i] = buf[(start+i)%cap32]
	}
	r.lock.Unlock()

	text := string(out)
	if maxLines > 0 {
		text = lastLines(text, maxLines)
	}
	return stripANSI(text)
}

// lastLines returns the suffix of text containing at most n trailing
// lines, scanning backward for newlines. A trailing newline ends the last
// line rather than starting an empty one.
func lastLines(text string, n int) string {
	idx := len(text)
	if idx > 0 && text[idx-1] == '\n' {
		idx--
	}
	seen := 0
	for idx > 0 {
		nl := strings.LastIndexByte(text[:idx], '\n')
		if nl < 0 {
			return text
		}
		seen++
		idx = nl
		if seen >= n {
			return text[idx+1:]
		}
	}
	return text
}
