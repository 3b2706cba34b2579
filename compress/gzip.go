package compress

import (
	"bytes"
	"io"

	"github.com/jlab-go/evio/section"
	"github.com/klauspost/pgzip"
)

// GzipCodec implements section.CompressionGzip using
// github.com/klauspost/pgzip, which splits large inputs across
// multiple cores while producing a stream any gzip reader can read
// (grounded on distr1-distri's use of pgzip for its initrd writer).
type GzipCodec struct{}

var _ Codec = GzipCodec{}

func NewGzipCodec() GzipCodec { return GzipCodec{} }

func (GzipCodec) Type() section.CompressionType { return section.CompressionGzip }

func (GzipCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := pgzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (GzipCodec) Decompress(data []byte, uncompressedLen int) ([]byte, error) {
	r, err := pgzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out := make([]byte, uncompressedLen)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}
