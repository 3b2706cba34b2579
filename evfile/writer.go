package evfile

import (
	"fmt"
	"io"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
	"github.com/jlab-go/evio/record"
	"github.com/jlab-go/evio/section"
)

// Writer appends records to an io.WriteSeeker and patches the file
// header's RecordCount and TrailerPosition in place on Close (spec.md
// §4.7 "File open (write)"; grounded on original_source/.../Writer.h's
// open/writeRecord/close sequence: a placeholder file header is
// written first, actual values are known only once every record has
// been written, so the header is seeked back to and rewritten last).
//
// Any io.WriteSeeker works, including os.File and, via MemoryWriter,
// an in-memory destination — the patch sequence only needs Seek, not a
// real file descriptor.
type Writer struct {
	w     io.WriteSeeker
	order endian.EndianEngine

	userHeader    []byte
	addTrailer    bool
	addTrailerIdx bool
	userRegister  uint64
	firstEvent    []byte

	recordNumber uint32
	bytesWritten int64
	recordLens   []section.TrailerIndexEntry

	closed bool
}

// Option configures a Writer at construction.
type Option func(*Writer)

// WithUserHeader sets the file header's optional user header.
func WithUserHeader(h []byte) Option { return func(w *Writer) { w.userHeader = h } }

// WithTrailerIndex enables the optional per-record index in the
// trailer written on Close.
func WithTrailerIndex(v bool) Option { return func(w *Writer) { w.addTrailerIdx = v } }

// WithoutTrailer disables writing a trailer record on Close.
func WithoutTrailer() Option { return func(w *Writer) { w.addTrailer = false } }

// WithUserRegister stamps the file header's 64-bit user register word
// (original_source/.../FileHeader.h words 9-10), e.g. a caller-chosen
// file-instance identifier. There is no mandated generation scheme
// (spec.md Open Question, resolved in DESIGN.md): the library never
// guesses a clock source, it only carries whatever the caller supplies.
func WithUserRegister(v uint64) Option { return func(w *Writer) { w.userRegister = v } }

// WithFirstEvent designates an event to be re-emitted as event 0 of
// record 1 (original_source/.../FileHeader.h "has first event" bit;
// common for run-control/begin-of-run banks). NewWriter writes it
// immediately as the file's first record; SplitWriter re-emits it at
// the start of every split it rotates to.
func WithFirstEvent(event []byte) Option { return func(w *Writer) { w.firstEvent = event } }

// NewWriter opens w for writing: a placeholder v6 file header is
// emitted immediately, to be patched in place on Close.
func NewWriter(w io.WriteSeeker, e endian.EndianEngine, opts ...Option) (*Writer, error) {
	out := &Writer{w: w, order: e, addTrailer: true, recordNumber: 1}
	for _, opt := range opts {
		opt(out)
	}

	hdr := section.NewFileHeader()
	hdr.UserHeaderLength = uint32(len(out.userHeader))
	hdr.UserRegister = out.userRegister
	hdr.BitInfo = hdr.BitInfo.WithTrailerWithIndex(out.addTrailerIdx).WithFirstEvent(out.firstEvent != nil)

	buf := make([]byte, section.HeaderBytes+len(out.userHeader)+dtype.Pad(len(out.userHeader)))
	if err := hdr.Bytes(buf, e); err != nil {
		return nil, err
	}
	copy(buf[section.HeaderBytes:], out.userHeader)

	n, err := w.Write(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: writing file header: %v", errs.ErrIO, err)
	}
	out.bytesWritten = int64(n)

	if out.firstEvent != nil {
		if err := out.WriteRawEvents([][]byte{out.firstEvent}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// WriteRecord appends a pre-built record's bytes (as returned by
// record.Builder.Build) and advances the record number.
func (w *Writer) WriteRecord(recordBytes []byte, eventCount int) error {
	if w.closed {
		return errs.ErrClosed
	}
	n, err := w.w.Write(recordBytes)
	if err != nil {
		return fmt.Errorf("%w: writing record: %v", errs.ErrIO, err)
	}
	w.recordLens = append(w.recordLens, section.TrailerIndexEntry{
		RecordLengthBytes: uint32(len(recordBytes)), EventCount: uint32(eventCount),
	})
	w.bytesWritten += int64(n)
	w.recordNumber++
	return nil
}

// WriteRawEvents builds one uncompressed record out of events and
// appends it, for callers (such as CompactReader.ToFile) that already
// hold plain event bytes rather than a pre-built record.
func (w *Writer) WriteRawEvents(events [][]byte) error {
	b, err := record.NewBuilder(record.WithRecordNumber(w.recordNumber))
	if err != nil {
		return err
	}
	for _, ev := range events {
		b.AddEvent(ev)
	}
	out, err := b.Build(w.order)
	if err != nil {
		return err
	}
	return w.WriteRecord(out, len(events))
}

// Close writes the trailer (unless disabled) and seeks back to patch
// the file header's RecordCount and TrailerPosition.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	trailerPos := uint64(w.bytesWritten)
	if w.addTrailer {
		tr := record.Trailer{RecordNumber: w.recordNumber}
		if w.addTrailerIdx {
			tr.Index = w.recordLens
		}
		trailerBytes, err := tr.Build(w.order)
		if err != nil {
			return err
		}
		if _, err := w.w.Write(trailerBytes); err != nil {
			return fmt.Errorf("%w: writing trailer: %v", errs.ErrIO, err)
		}
	}

	if _, err := w.w.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking to patch file header: %v", errs.ErrIO, err)
	}

	hdr := section.NewFileHeader()
	hdr.UserHeaderLength = uint32(len(w.userHeader))
	hdr.UserRegister = w.userRegister
	hdr.RecordCount = w.recordNumber - 1
	hdr.BitInfo = hdr.BitInfo.WithTrailerWithIndex(w.addTrailerIdx).WithFirstEvent(w.firstEvent != nil)
	if w.addTrailer {
		hdr.TrailerPosition = trailerPos
	}

	buf := make([]byte, section.HeaderBytes)
	if err := hdr.Bytes(buf, w.order); err != nil {
		return err
	}
	if _, err := w.w.Write(buf); err != nil {
		return fmt.Errorf("%w: patching file header: %v", errs.ErrIO, err)
	}

	return nil
}
