// Package compress implements the record-payload compression step of
// C6: the 4 codecs a record header's CompressionType nibble can name
// (spec.md §4.6).
//
// # Supported algorithms
//
//   - None (section.CompressionNone): pass-through, a copy on
//     Compress, a bounds-checked copy on Decompress.
//   - LZ4 fast / LZ4 best (section.CompressionLZ4Fast /
//     CompressionLZ4Best): block compression via
//     github.com/pierrec/lz4/v4, selecting between the default level
//     and a higher compression-ratio level.
//   - Gzip (section.CompressionGzip): via github.com/klauspost/pgzip,
//     which parallelizes across blocks on multi-core machines while
//     remaining wire-compatible with compress/gzip.
//
// Every codec implements Codec (Compress + Decompress + Type), and
// CreateCodec selects one from a section.CompressionType so record
// building and reading never switch on the type code directly.
package compress
