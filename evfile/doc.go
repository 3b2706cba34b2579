// Package evfile implements C7 (file/buffer layout) and C9 (reader
// facades): opening an EVIO buffer for reading across format
// versions, opening one for writing with placeholder-patch-on-close,
// split-file rotation, and the sequential/compact reader facades that
// sit on top of an opened file.
//
// Grounded on spec.md §4.7/§4.9 and original_source/.../Writer.h's
// trailer-then-seek-back-and-patch close sequence;
// original_source/.../BlockHeaderV4.h for the legacy (v1-4) block
// scanning path. github.com/orcaman/writerseeker backs the optional
// in-memory writer (MemoryWriter) so the same Writer code path that
// patches a file header via Seek also works against a destination with
// no real backing file.
package evfile
