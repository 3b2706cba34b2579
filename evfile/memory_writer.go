package evfile

import (
	"github.com/orcaman/writerseeker"

	"github.com/jlab-go/evio/endian"
)

// MemoryWriter is a Writer backed entirely by memory, for callers that
// want a complete EVIO buffer without touching disk (spec.md §4.7
// "writing to a buffer" is the in-memory analogue of writing to
// file).
//
// writerseeker.WriteSeeker satisfies io.WriteSeeker over a growable
// byte slice, so Writer's seek-back-and-patch-on-close sequence works
// against it exactly as it does against an *os.File.
type MemoryWriter struct {
	*Writer
	backing *writerseeker.WriteSeeker
}

// NewMemoryWriter returns a MemoryWriter ready for WriteRecord/Close.
func NewMemoryWriter(e endian.EndianEngine, opts ...Option) (*MemoryWriter, error) {
	backing := &writerseeker.WriteSeeker{}
	w, err := NewWriter(backing, e, opts...)
	if err != nil {
		return nil, err
	}
	return &MemoryWriter{Writer: w, backing: backing}, nil
}

// Bytes returns the written buffer's current contents. Call after
// Close to get the complete, patched file image.
func (m *MemoryWriter) Bytes() []byte {
	r := m.backing.BytesReader()
	buf := make([]byte, r.Len())
	_, _ = r.Read(buf)
	return buf
}
