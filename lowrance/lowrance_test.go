package lowrance_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sixy6e/pingconv/bio"
	"github.com/sixy6e/pingconv/lowrance"
)

// buildPreamble writes a minimal, well-formed Vendor-L recording
// preamble: header_fcnt, the four scalar outer tags, a one-field
// file_information composite, then the channel_information terminator.
func buildPreamble(buf *bytes.Buffer, epoch uint32) {
	buf.WriteByte(0x05) // header_fcnt, uninterpreted

	buf.WriteByte(0x04)
	binary.Write(buf, binary.LittleEndian, lowrance.PreambleMagic)

	buf.WriteByte(0x0A)
	binary.Write(buf, binary.LittleEndian, uint16(1))

	buf.WriteByte(0x14)
	binary.Write(buf, binary.LittleEndian, uint32(3))

	buf.WriteByte(0x19)
	buf.WriteByte(5)

	buf.WriteByte(0x2F)
	buf.WriteByte(5) // actual length, uninterpreted
	buf.WriteByte(1) // field count
	buf.WriteByte(0x1C)
	binary.Write(buf, binary.LittleEndian, epoch)

	buf.WriteByte(0x37)
}

// buildPingFrame appends one well-formed ping frame (state==0, a
// single outer field 0x3C declaring sampleCount, followed by
// sampleCount raw payload bytes and a 12-byte trailer) and returns the
// frame's total on-wire length.
func buildPingFrame(buf *bytes.Buffer, recordingTimeMs uint32, sampleCount uint32) int {
	body := new(bytes.Buffer)
	body.WriteByte(1) // field count
	body.WriteByte(0x3C)
	binary.Write(body, binary.LittleEndian, sampleCount)
	payload := make([]byte, sampleCount)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	body.Write(payload)

	dataSize := uint16(body.Len())

	buf.WriteByte(0) // fcnt
	buf.WriteByte(0) // fpf_0
	binary.Write(buf, binary.LittleEndian, lowrance.PingMagic)
	buf.WriteByte(0) // fpf_1
	buf.WriteByte(0) // fpf_1_len
	buf.WriteByte(0) // fpf_1_fcnt
	buf.WriteByte(0) // fps_0
	buf.WriteByte(0) // state
	buf.WriteByte(0) // fps_1
	buf.WriteByte(0) // data_info_cnt
	buf.WriteByte(0) // data_info_len
	buf.WriteByte(0) // channel_id
	buf.WriteByte(0x14)
	binary.Write(buf, binary.LittleEndian, uint32(1)) // sequence_cnt
	buf.WriteByte(0x1C)
	binary.Write(buf, binary.LittleEndian, uint32(0)) // data_crc
	buf.WriteByte(0x22)
	binary.Write(buf, binary.LittleEndian, dataSize)
	buf.WriteByte(0x2C)
	binary.Write(buf, binary.LittleEndian, recordingTimeMs)
	binary.Write(buf, binary.LittleEndian, uint32(0)) // record_crc

	buf.Write(body.Bytes())
	buf.Write(make([]byte, 12)) // trailer, uninterpreted

	return 37 + int(dataSize) + 12
}

// buildPingFrameWithFields appends one well-formed ping frame whose
// body is exactly the given pre-encoded tag bytes (no sample payload),
// for exercising wide-tag (flag/value) byte order.
func buildPingFrameWithFields(buf *bytes.Buffer, recordingTimeMs uint32, fieldCount byte, body []byte) {
	dataSize := uint16(1 + len(body)) // field count byte + body

	buf.WriteByte(0) // fcnt
	buf.WriteByte(0) // fpf_0
	binary.Write(buf, binary.LittleEndian, lowrance.PingMagic)
	buf.WriteByte(0) // fpf_1
	buf.WriteByte(0) // fpf_1_len
	buf.WriteByte(0) // fpf_1_fcnt
	buf.WriteByte(0) // fps_0
	buf.WriteByte(0) // state
	buf.WriteByte(0) // fps_1
	buf.WriteByte(0) // data_info_cnt
	buf.WriteByte(0) // data_info_len
	buf.WriteByte(0) // channel_id
	buf.WriteByte(0x14)
	binary.Write(buf, binary.LittleEndian, uint32(1)) // sequence_cnt
	buf.WriteByte(0x1C)
	binary.Write(buf, binary.LittleEndian, uint32(0)) // data_crc
	buf.WriteByte(0x22)
	binary.Write(buf, binary.LittleEndian, dataSize)
	buf.WriteByte(0x2C)
	binary.Write(buf, binary.LittleEndian, recordingTimeMs)
	binary.Write(buf, binary.LittleEndian, uint32(0)) // record_crc

	buf.WriteByte(fieldCount)
	buf.Write(body)
	buf.Write(make([]byte, 12)) // trailer, uninterpreted
}

func TestParsePingsWideTagByteOrder(t *testing.T) {
	buf := new(bytes.Buffer)
	buildPreamble(buf, 1700000000)
	for int64(buf.Len()) < lowrance.BootOffset {
		buf.WriteByte(0)
	}

	body := new(bytes.Buffer)
	body.WriteByte(0x0B)                                          // bottom_depth: flag(u1), value(u2)
	body.WriteByte(0xAB)                                          // flag, discarded
	binary.Write(body, binary.LittleEndian, uint16(4660))         // value
	body.WriteByte(0x0D)                                          // unknown_0d: value(u4), flag(u1)
	binary.Write(body, binary.LittleEndian, uint32(0x11223344))   // value
	body.WriteByte(0xCD)                                          // flag, discarded

	buildPingFrameWithFields(buf, 1234, 2, body.Bytes())

	r := bio.NewReader(bytes.NewReader(buf.Bytes()))
	header, err := lowrance.DiscoverHeader(r)
	require.NoError(t, err)

	table, err := lowrance.ParsePings(r, header)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	row := table.Rows[0]
	require.Equal(t, float64(4660), row.RawDepthFt)
	require.Equal(t, uint8(1), row.BottomDepthFlag)
	require.Equal(t, uint32(0x11223344), row.Unknown0DValue)
	require.Equal(t, uint8(1), row.Unknown0DFlag)
}

func buildRecording(t *testing.T, sampleCount uint32) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	buildPreamble(buf, 1700000000)

	for int64(buf.Len()) < lowrance.BootOffset {
		buf.WriteByte(0)
	}

	buildPingFrame(buf, 1234, sampleCount)

	return buf.Bytes()
}

func TestDiscoverHeader(t *testing.T) {
	data := buildRecording(t, 4)
	r := bio.NewReader(bytes.NewReader(data))

	header, err := lowrance.DiscoverHeader(r)
	require.NoError(t, err)
	require.Equal(t, lowrance.BootOffset, header.HeadBytes)
	require.Equal(t, uint32(1700000000), header.RecordingStartEpoch)
	require.Equal(t, lowrance.ChannelInformationTag, header.Tags[len(header.Tags)-1])
}

func TestDiscoverHeaderUnknownTag(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.WriteByte(0x05)
	buf.WriteByte(0xAA) // not in the registry
	r := bio.NewReader(bytes.NewReader(buf.Bytes()))

	_, err := lowrance.DiscoverHeader(r)
	require.Error(t, err)
}

func TestParsePingsSingleFrame(t *testing.T) {
	data := buildRecording(t, 4)
	r := bio.NewReader(bytes.NewReader(data))

	header, err := lowrance.DiscoverHeader(r)
	require.NoError(t, err)

	table, err := lowrance.ParsePings(r, header)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	row := table.Rows[0]
	require.Equal(t, lowrance.BootOffset, row.FrameOffset)
	require.Equal(t, int64(4), row.PingSampleCount)
	require.Equal(t, int64(6), row.SonOffset)
	require.Equal(t, float64(1234)/1000, row.RawTimeS)
}

func TestParsePingsOffsetPartition(t *testing.T) {
	data := buildRecording(t, 10)
	r := bio.NewReader(bytes.NewReader(data))

	header, err := lowrance.DiscoverHeader(r)
	require.NoError(t, err)

	table, err := lowrance.ParsePings(r, header)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	row := table.Rows[0]
	nextOffset := row.FrameOffset + 37 + (row.SonOffset + row.PingSampleCount) + 12
	require.Equal(t, int64(len(data)), nextOffset)
}
