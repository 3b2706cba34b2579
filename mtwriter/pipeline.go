package mtwriter

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
	"github.com/jlab-go/evio/record"
	"github.com/jlab-go/evio/section"
)

// recordWriter is the subset of evfile.Writer and evfile.SplitWriter
// the write stage needs; either satisfies it, letting the pipeline
// flag split-at-write without importing evfile's split logic directly.
type recordWriter interface {
	WriteRecord(recordBytes []byte, eventCount int) error
	Close() error
}

// splitAtWriter is additionally implemented by evfile.SplitWriter. The
// write stage type-asserts for it, so a plain evfile.Writer still
// works with Pipeline, just without split-at-write support (spec.md
// §4.8 "split-at-write").
type splitAtWriter interface {
	WriteRecordSplit(recordBytes []byte, eventCount int, splitAfter bool) error
}

// diskPollInterval is how often the write stage re-checks free space
// while backpressured (spec.md §4.8 "spins on 1-second polls"). A var,
// not a const, so tests can shrink it instead of waiting out real
// 1-second polls.
var diskPollInterval = time.Second

// noForce is the sentinel "no force-to-disk request pending" value for
// Pipeline.forceRecordID.
const noForce = -1

// statFreeBytes is freeBytes behind a variable seam so tests can
// simulate a full disk without touching the real filesystem.
var statFreeBytes = freeBytes

// Config configures a Pipeline. RingSize bounds how many records may
// be staged, in compression, or awaiting write at once; it is the Go
// analogue of RecordSupply's ringSize (spec.md §4.8).
type Config struct {
	Order              endian.EndianEngine
	Compression        section.CompressionType
	CompressionThreads int
	MaxEventCount      int
	MaxBufferSize      int
	RingSize           int

	// DiskPath, if set, is statfs'd before each write to back off when
	// free space drops below DiskFullThresholdBytes (spec.md §4.8
	// "disk-full backpressure"). Leave empty to disable the check.
	DiskPath               string
	DiskFullThresholdBytes uint64
}

func (c Config) withDefaults() Config {
	if c.CompressionThreads < 1 {
		c.CompressionThreads = 1
	}
	if c.RingSize < 2 {
		c.RingSize = 16
	}
	if c.MaxEventCount < 1 {
		c.MaxEventCount = 1000
	}
	if c.MaxBufferSize < 1 {
		c.MaxBufferSize = 8 << 20
	}
	return c
}

type job struct {
	builder      *record.Builder
	count        int
	recordNumber uint32
	splitAfter   bool
	ticket       chan result
}

type result struct {
	bytes        []byte
	count        int
	recordNumber uint32
	splitAfter   bool
	err          error
}

// Pipeline overlaps record building, multithreaded compression, and a
// single ordered write stage over w (spec.md §4.8).
type Pipeline struct {
	cfg Config
	w   recordWriter

	mu      sync.Mutex
	cur     *record.Builder
	curSize int
	seq     uint32

	toCompress chan job
	tickets    chan chan result

	// forceRecordID is the pending "force to disk" record id (spec.md
	// §4.8: "the force signal carries a record id so that once that
	// record has been written, force mode resets"). noForce means no
	// force request is pending.
	forceRecordID atomic.Int64

	g      *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc

	errOnce   sync.Once
	firstErr  error
	closeOnce sync.Once
}

// New starts a Pipeline's compression and write goroutines. Stop with
// Close once the caller is done adding events.
func New(w recordWriter, cfg Config) *Pipeline {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	p := &Pipeline{
		cfg:        cfg,
		w:          w,
		toCompress: make(chan job, cfg.RingSize),
		tickets:    make(chan chan result, cfg.RingSize),
		g:          g,
		ctx:        gctx,
		cancel:     cancel,
		seq:        1,
	}
	p.forceRecordID.Store(noForce)
	p.cur = newBuilder(cfg, p.seq)

	for i := 0; i < cfg.CompressionThreads; i++ {
		g.Go(p.compressLoop)
	}
	g.Go(p.writeLoop)

	return p
}

func newBuilder(cfg Config, seq uint32) *record.Builder {
	b, _ := record.NewBuilder(record.WithRecordNumber(seq), record.WithCompression(cfg.Compression))
	return b
}

// AddEvent stages data as the next event, flushing the current record
// first if it has reached either threshold in Config.
func (p *Pipeline) AddEvent(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failed() {
		return p.firstErrLocked()
	}

	if p.cur.EventCount() >= p.cfg.MaxEventCount || p.curSize+len(data) > p.cfg.MaxBufferSize {
		if err := p.flushLocked(false); err != nil {
			return err
		}
	}

	p.cur.AddEvent(data)
	p.curSize += len(data)
	return nil
}

// flushLocked submits the current record for compression and starts a
// fresh one. splitAfter marks the record so the write stage rotates
// the output file immediately after writing it (spec.md §4.8
// "split-at-write"). Caller holds p.mu.
func (p *Pipeline) flushLocked(splitAfter bool) error {
	if p.cur.EventCount() == 0 {
		return nil
	}

	j := job{
		builder:      p.cur,
		count:        p.cur.EventCount(),
		recordNumber: p.cur.RecordNumber(),
		splitAfter:   splitAfter,
		ticket:       make(chan result, 1),
	}
	p.seq++
	p.cur = newBuilder(p.cfg, p.seq)
	p.curSize = 0

	select {
	case p.toCompress <- j:
	case <-p.ctx.Done():
		return p.firstErrLocked()
	}
	select {
	case p.tickets <- j.ticket:
	case <-p.ctx.Done():
		return p.firstErrLocked()
	}
	return nil
}

// Flush submits any partially-filled record without waiting for
// thresholds to be reached.
func (p *Pipeline) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushLocked(false)
}

// FlushAndSplit is Flush, additionally marking the flushed record so
// the write stage rotates to a new split file immediately after
// writing it (spec.md §4.8 "split-at-write"). Useful for ensuring a
// control event (e.g. END) ends its own split file. A no-op beyond a
// plain flush if the underlying writer isn't split-capable.
func (p *Pipeline) FlushAndSplit() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushLocked(true)
}

// ForceToDisk marks recordNumber as exempt from disk-full
// backpressure: once the write stage reaches that record, it writes
// immediately regardless of free space, then clears the force (spec.md
// §4.8: "a 'force to disk' signal ... carries a record id"). This lets
// control events like END drain through even on a full disk.
func (p *Pipeline) ForceToDisk(recordNumber uint32) {
	p.forceRecordID.Store(int64(recordNumber))
}

// Close flushes the last record, stops the worker goroutines, and
// closes the underlying writer. It returns the pipeline's first error,
// if any (spec.md §4.8 "single error latch").
func (p *Pipeline) Close() error {
	flushErr := p.Flush()

	p.closeOnce.Do(func() {
		close(p.toCompress)
		close(p.tickets)
	})

	if err := p.waitAndClose(); err != nil {
		return err
	}
	return flushErr
}

func (p *Pipeline) waitAndClose() error {
	err := p.g.Wait()
	if p.firstErr != nil {
		err = p.firstErr
	}
	if cerr := p.w.Close(); err == nil {
		err = cerr
	}
	p.cancel()
	if err != nil {
		p.setErr(err)
	}
	return err
}

func (p *Pipeline) compressLoop() error {
	for j := range p.toCompress {
		bytes, err := j.builder.Build(p.cfg.Order)
		j.ticket <- result{bytes: bytes, count: j.count, recordNumber: j.recordNumber, splitAfter: j.splitAfter, err: err}
		if err != nil {
			p.setErr(err)
			return err
		}
		select {
		case <-p.ctx.Done():
			return p.ctx.Err()
		default:
		}
	}
	return nil
}

func (p *Pipeline) writeLoop() error {
	for ticket := range p.tickets {
		res := <-ticket
		if res.err != nil {
			p.setErr(res.err)
			return res.err
		}

		if p.cfg.DiskPath != "" {
			if err := p.waitForDiskSpace(res.recordNumber); err != nil {
				p.setErr(err)
				return err
			}
		}

		if err := p.writeRecord(res); err != nil {
			wrapped := fmt.Errorf("%w: %v", errs.ErrIO, err)
			p.setErr(wrapped)
			return wrapped
		}

		select {
		case <-p.ctx.Done():
			return p.ctx.Err()
		default:
		}
	}
	return nil
}

// waitForDiskSpace blocks until the filesystem at p.cfg.DiskPath has
// at least DiskFullThresholdBytes free, or a ForceToDisk call names
// recordNumber (spec.md §4.8: "spins on 1-second polls until space is
// available or a 'force to disk' signal is received"). It does not
// re-copy the slot's record to free it for producer reuse the way the
// original ring-buffer design does: every Pipeline record already owns
// an independently allocated buffer rather than a reusable ring slot
// (see DESIGN.md), so there is nothing to reclaim while blocked here.
func (p *Pipeline) waitForDiskSpace(recordNumber uint32) error {
	for {
		free, err := statFreeBytes(p.cfg.DiskPath)
		if err == nil && free >= p.cfg.DiskFullThresholdBytes {
			return nil
		}

		if p.forceRecordID.CompareAndSwap(int64(recordNumber), noForce) {
			return nil
		}

		select {
		case <-p.ctx.Done():
			return p.ctx.Err()
		case <-time.After(diskPollInterval):
		}
	}
}

func (p *Pipeline) writeRecord(res result) error {
	if res.splitAfter {
		if sw, ok := p.w.(splitAtWriter); ok {
			return sw.WriteRecordSplit(res.bytes, res.count, true)
		}
	}
	return p.w.WriteRecord(res.bytes, res.count)
}

func (p *Pipeline) setErr(err error) {
	p.errOnce.Do(func() {
		p.firstErr = err
		p.cancel()
	})
}

func (p *Pipeline) failed() bool {
	select {
	case <-p.ctx.Done():
		return true
	default:
		return false
	}
}

func (p *Pipeline) firstErrLocked() error {
	if p.firstErr != nil {
		return p.firstErr
	}
	return errs.ErrPipelineStopped
}
