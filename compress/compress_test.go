package compress

import (
	"testing"

	"github.com/jlab-go/evio/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload() []byte {
	out := make([]byte, 4096)
	for i := range out {
		out[i] = byte(i % 17)
	}
	return out
}

func TestCodecs_RoundTrip(t *testing.T) {
	for _, ct := range []section.CompressionType{
		section.CompressionNone,
		section.CompressionLZ4Fast,
		section.CompressionLZ4Best,
		section.CompressionGzip,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := CreateCodec(ct)
			require.NoError(t, err)
			assert.Equal(t, ct, codec.Type())

			data := payload()
			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			decoded, err := codec.Decompress(compressed, len(data))
			require.NoError(t, err)
			assert.Equal(t, data, decoded)
		})
	}
}

func TestCreateCodec_Unsupported(t *testing.T) {
	_, err := CreateCodec(section.CompressionType(0xff))
	assert.Error(t, err)
}
