package evfile

import (
	"fmt"
	"sync"

	"github.com/jlab-go/evio/compact"
	"github.com/jlab-go/evio/errs"
)

// SequentialReader walks a File's events in file order, one at a time
// (spec.md §4.9 "sequential reader: NextEvent/GotoEvent/Rewind", C9).
//
// Grounded on github.com/arloliu/mebo's sequential-cursor reader style;
// the optional mutex follows the teacher's opt-in synced-reader
// pattern used where a single reader is shared across goroutines.
type SequentialReader struct {
	file *File
	pos  int

	mu     *sync.Mutex
	synced bool
}

// NewSequentialReader wraps file for sequential event-at-a-time
// access, starting before the first event.
func NewSequentialReader(file *File) *SequentialReader {
	return &SequentialReader{file: file, pos: -1}
}

// WithSync enables internal locking so the returned reader is safe to
// share across goroutines. Call before first use.
func (r *SequentialReader) WithSync() *SequentialReader {
	r.mu = &sync.Mutex{}
	r.synced = true
	return r
}

func (r *SequentialReader) lock() {
	if r.synced {
		r.mu.Lock()
	}
}

func (r *SequentialReader) unlock() {
	if r.synced {
		r.mu.Unlock()
	}
}

// EventCount returns the total number of events in the underlying file.
func (r *SequentialReader) EventCount() int { return r.file.EventCount() }

// Rewind resets the cursor to before the first event.
func (r *SequentialReader) Rewind() {
	r.lock()
	defer r.unlock()
	r.pos = -1
}

// NextEvent advances the cursor and returns the next event's raw
// bytes. It returns errs.ErrBounds once the file is exhausted.
func (r *SequentialReader) NextEvent() ([]byte, error) {
	r.lock()
	defer r.unlock()

	next := r.pos + 1
	if next >= r.file.EventCount() {
		return nil, fmt.Errorf("%w: no more events after %d", errs.ErrBounds, r.pos)
	}
	b, err := r.file.EventBytes(next)
	if err != nil {
		return nil, err
	}
	r.pos = next
	return b, nil
}

// ParseEvent decodes the current event into a compact, zero-copy node
// index, without advancing the cursor.
func (r *SequentialReader) ParseEvent() (*compact.Index, error) {
	r.lock()
	defer r.unlock()

	if r.pos < 0 {
		return nil, fmt.Errorf("%w: NextEvent not yet called", errs.ErrBounds)
	}
	b, err := r.file.EventBytes(r.pos)
	if err != nil {
		return nil, err
	}
	return compact.Scan(b, r.file.Order(), []int{0})
}

// GotoEvent moves the cursor to event i (0-based) and returns its raw
// bytes, without requiring a prior NextEvent call.
func (r *SequentialReader) GotoEvent(i int) ([]byte, error) {
	r.lock()
	defer r.unlock()

	b, err := r.file.EventBytes(i)
	if err != nil {
		return nil, err
	}
	r.pos = i
	return b, nil
}

// GetEventArray returns the raw bytes of every event in [start, start+n).
func (r *SequentialReader) GetEventArray(start, n int) ([][]byte, error) {
	r.lock()
	defer r.unlock()

	out := make([][]byte, 0, n)
	for i := start; i < start+n; i++ {
		b, err := r.file.EventBytes(i)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
