package evfile

import (
	"fmt"

	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
	"github.com/jlab-go/evio/section"
)

// probe identifies the byte order and format version of a buffer
// without fully decoding its header (spec.md §4.7 "read first 56
// bytes, determine endianness via magic, dispatch by version").
//
// Both section.FileHeader and section.BlockHeader place their magic
// word at byte offset 28 and their version/bit-info word at byte
// offset 20, so both can be probed identically before committing to
// either parse.
type probe struct {
	order   endian.EndianEngine
	version uint8
}

func probeHeader(data []byte) (probe, error) {
	if len(data) < section.BlockHeaderBytes {
		return probe{}, fmt.Errorf("%w: need at least %d bytes to probe a header", errs.ErrBounds, section.BlockHeaderBytes)
	}

	order, ok := endian.DetectEngine(data[28:32], section.HeaderMagic)
	if !ok {
		return probe{}, fmt.Errorf("%w: neither byte order yields the header magic", errs.ErrBadMagic)
	}

	versionWord := order.Uint32(data[20:24])
	return probe{order: order, version: uint8(versionWord & 0xff)}, nil
}

// isModern reports whether p names the v6 file-header/record format
// as opposed to the legacy v1-4 block-header format.
func (p probe) isModern() bool { return p.version >= 6 }
