package record

import (
	"fmt"

	"github.com/jlab-go/evio/compress"
	"github.com/jlab-go/evio/section"
)

// decompressUnit returns the full uncompressed [index | padded
// user-header | padded data] block a record's header describes
// (original_source/.../RecordOutput.h's "Uncompressed" layout
// diagram), or the raw bytes unchanged when CompressionType is None.
func decompressUnit(raw []byte, hdr section.RecordHeader) ([]byte, error) {
	if hdr.CompressionType == section.CompressionNone {
		return raw, nil
	}

	codec, err := compress.CreateCodec(hdr.CompressionType)
	if err != nil {
		return nil, err
	}

	plain, err := codec.Decompress(raw, int(hdr.UncompressedLength))
	if err != nil {
		return nil, fmt.Errorf("record: decompress: %w", err)
	}
	return plain, nil
}

// compressUnit compresses unit (the already-assembled [index |
// user-header+pad1 | data+pad2] block) with codecType, returning the
// bytes to store on the wire. CompressionNone returns unit unchanged.
func compressUnit(unit []byte, codecType section.CompressionType) ([]byte, error) {
	if codecType == section.CompressionNone {
		return unit, nil
	}

	codec, err := compress.CreateCodec(codecType)
	if err != nil {
		return nil, err
	}

	out, err := codec.Compress(unit)
	if err != nil {
		return nil, fmt.Errorf("record: compress: %w", err)
	}
	return out, nil
}
