package section

import (
	"testing"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitInfo_VersionAndHeaderType(t *testing.T) {
	bi := NewBitInfo(6, HeaderTypeEvioFile)
	assert.Equal(t, uint8(6), bi.Version())
	assert.Equal(t, HeaderTypeEvioFile, bi.HeaderType())
}

func TestBitInfo_DictionaryAndFirstEvent(t *testing.T) {
	var bi BitInfo
	bi = bi.WithDictionary(true).WithFirstEvent(true)
	assert.True(t, bi.HasDictionary())
	assert.True(t, bi.HasFirstEvent())

	bi = bi.WithDictionary(false)
	assert.False(t, bi.HasDictionary())
	assert.True(t, bi.HasFirstEvent())
}

func TestBitInfo_Bit10DualMeaning(t *testing.T) {
	// Same bit, read under each header kind's accessor.
	record := NewBitInfo(6, HeaderTypeEvioTrailer).WithLastRecord(true)
	assert.True(t, record.IsLastRecord())

	file := NewBitInfo(6, HeaderTypeEvioFile).WithTrailerWithIndex(true)
	assert.True(t, file.HasTrailerWithIndex())
}

func TestBitInfo_EventType(t *testing.T) {
	bi := NewBitInfo(6, HeaderTypeEvioRecord).WithEventType(EventTypePhysics)
	assert.Equal(t, EventTypePhysics, bi.EventType())

	bi = bi.WithEventType(EventTypeOther)
	assert.Equal(t, EventTypeOther, bi.EventType())
}

func TestBitInfo_PadFields(t *testing.T) {
	var bi BitInfo
	bi = bi.WithPad1(1).WithPad2(2).WithPad3(3)
	assert.Equal(t, 1, bi.Pad1())
	assert.Equal(t, 2, bi.Pad2())
	assert.Equal(t, 3, bi.Pad3())
}

func TestBankHeader_RoundTrip(t *testing.T) {
	e := endian.GetBigEndianEngine()
	h := BankHeader{Length: 5, Tag: 0x1234, DataType: dtype.Uint32, Pad: 0, Num: 7}
	buf := make([]byte, BankHeaderBytes)
	require.NoError(t, h.Bytes(buf, e))

	got, err := ParseBankHeader(buf, e)
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.Equal(t, uint32(4), got.DataWords())
	assert.Equal(t, 24, got.TotalBytes())
}

func TestBankHeader_InvalidType(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	buf := make([]byte, BankHeaderBytes)
	buf[6] = 0x3f // invalid type nibble, no valid Type equals 0x3f
	_, err := ParseBankHeader(buf, e)
	assert.Error(t, err)
}

func TestSegmentHeader_RoundTrip(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	h := SegmentHeader{Tag: 9, DataType: dtype.Double64, Pad: 0, Length: 12}
	buf := make([]byte, SegmentHeaderBytes)
	require.NoError(t, h.Bytes(buf, e))

	got, err := ParseSegmentHeader(buf, e)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestTagSegmentHeader_RoundTrip(t *testing.T) {
	e := endian.GetBigEndianEngine()
	h := TagSegmentHeader{Tag: 0xabc, DataType: dtype.Char8, Length: 3}
	buf := make([]byte, TagSegmentHeaderBytes)
	require.NoError(t, h.Bytes(buf, e))

	got, err := ParseTagSegmentHeader(buf, e)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestRecordHeader_RoundTrip(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	h := NewRecordHeader()
	h.RecordLengthWords = 100
	h.RecordNumber = 3
	h.EntryCount = 5
	h.UncompressedLength = 400
	h.CompressionType = CompressionLZ4Fast
	h.CompressedLength = 80
	h.UserRegister1 = 0x1122334455667788

	buf := make([]byte, HeaderBytes)
	require.NoError(t, h.Bytes(buf, e))

	got, err := ParseRecordHeader(buf, e)
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.Equal(t, 400, got.TotalBytes()/4*4) // sanity: header survives roundtrip
}

func TestRecordHeader_BadMagic(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	buf := make([]byte, HeaderBytes)
	_, err := ParseRecordHeader(buf, e)
	assert.Error(t, err)
}

func TestFileHeader_RoundTrip(t *testing.T) {
	e := endian.GetBigEndianEngine()
	h := NewFileHeader()
	h.FileNumber = 2
	h.RecordCount = 10
	h.TrailerPosition = 0x400
	h.BitInfo = h.BitInfo.WithTrailerWithIndex(true)

	buf := make([]byte, HeaderBytes)
	require.NoError(t, h.Bytes(buf, e))

	got, err := ParseFileHeader(buf, e)
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.True(t, got.HasTrailer())
	assert.True(t, got.HasTrailerWithIndex())
}

func TestRecordIndex_RoundTrip(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	entries := []RecordIndexEntry{{LengthBytes: 40}, {LengthBytes: 88}}
	buf := make([]byte, len(entries)*RecordIndexEntryBytes)
	require.NoError(t, RecordIndexBytes(entries, buf, e))

	got, err := ParseRecordIndex(buf, e, len(entries))
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestTrailerIndex_RoundTrip(t *testing.T) {
	e := endian.GetBigEndianEngine()
	entries := []TrailerIndexEntry{{RecordLengthBytes: 400, EventCount: 3}}
	buf := make([]byte, len(entries)*TrailerIndexEntryBytes)
	require.NoError(t, TrailerIndexBytes(entries, buf, e))

	got, err := ParseTrailerIndex(buf, e, len(entries))
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestNewTrailerHeader(t *testing.T) {
	h := NewTrailerHeader(4, 16)
	assert.True(t, h.IsLastRecord())
	assert.Equal(t, HeaderTypeEvioTrailer, h.BitInfo.HeaderType())
}

func TestBlockHeader_RoundTrip(t *testing.T) {
	e := endian.GetBigEndianEngine()
	h := BlockHeader{
		LengthWords: 100, Number: 3, HeaderLengthWords: BlockHeaderWords,
		EventCount: 5, Version: 4, HasDictionary: true, IsLastBlock: false,
		EventType: EventTypePhysics, HasFirstEvent: true,
	}
	buf := make([]byte, BlockHeaderBytes)
	require.NoError(t, h.Bytes(buf, e))

	got, err := ParseBlockHeader(buf, e)
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.Equal(t, 400, got.TotalBytes())
}

func TestBlockHeader_BadMagic(t *testing.T) {
	buf := make([]byte, BlockHeaderBytes)
	_, err := ParseBlockHeader(buf, endian.GetBigEndianEngine())
	assert.Error(t, err)
}
