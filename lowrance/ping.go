package lowrance

import (
	"io"
	"sort"

	"github.com/sixy6e/pingconv/bio"
	"github.com/sixy6e/pingconv/internal/sonarerr"
	"github.com/sixy6e/pingconv/pingtable"
)

// pingFrameHeaderLen is the fixed 37-byte Vendor-L ping preamble
// (§6.1), excluding the variable body.
const pingFrameHeaderLen = 37

// stateNoBodyStride is the total bytes skipped when a frame's state
// flag equals 1 (§4.4 step 2): no attribute body, no sample payload.
const stateNoBodyStride = 49

// ParsePings streams the ping-body region of a Vendor-L file starting
// at header.HeadBytes, emitting one pingtable.Row per frame whose state
// flag is not 1, until EOF. Apart from the one-off peek at the first
// frame (discoverPingSchema), it never seeks backwards, and it never buffers
// more than one frame at a time (§5: sample bytes are never copied into
// memory as a whole — ParsePings only records their offsets).
func ParsePings(r *bio.Reader, header *RecordingHeader) (*pingtable.Table, error) {
	size, err := streamSize(r)
	if err != nil {
		return nil, err
	}

	if _, err := r.SeekAbs(header.HeadBytes); err != nil {
		return nil, err
	}

	if size > header.HeadBytes {
		if _, err := discoverPingSchema(r, header.HeadBytes); err != nil {
			return nil, err
		}
	}

	table := &pingtable.Table{}
	record := int64(0)

	for {
		pos, err := r.Position()
		if err != nil {
			return nil, err
		}
		if pos == size {
			break
		}
		if pos > size {
			return nil, sonarerr.NewTruncatedFrame(pos, 0, size-pos)
		}

		row, nextOffset, state1, err := parseOneFrame(r, pos, size)
		if err != nil {
			return nil, err
		}

		if !state1 {
			row.RecordNum = record
			record++
			table.Rows = append(table.Rows, *row)
		}

		if _, err := r.SeekAbs(nextOffset); err != nil {
			return nil, err
		}
	}

	return table, nil
}

func streamSize(r *bio.Reader) (int64, error) {
	cur, err := r.Position()
	if err != nil {
		return 0, err
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := r.SeekAbs(cur); err != nil {
		return 0, err
	}
	return end, nil
}

// parseOneFrame reads a single ping frame starting at frameOffset and
// returns its row (nil when state==1), the absolute offset of the next
// frame, and whether this frame had no body (§4.4 step 2).
func parseOneFrame(r *bio.Reader, frameOffset, streamLen int64) (*pingtable.Row, int64, bool, error) {
	remain := streamLen - frameOffset
	if remain < pingFrameHeaderLen {
		return nil, 0, false, sonarerr.NewTruncatedFrame(frameOffset, pingFrameHeaderLen, remain)
	}

	if _, err := r.ReadU8(); err != nil { // fcnt
		return nil, 0, false, err
	}
	if _, err := r.ReadU8(); err != nil { // fpf_0
		return nil, 0, false, err
	}
	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, 0, false, err
	}
	if magic != PingMagic {
		return nil, 0, false, sonarerr.ErrBadMagic
	}
	if _, err := r.ReadU8(); err != nil { // fpf_1
		return nil, 0, false, err
	}
	if _, err := r.ReadU8(); err != nil { // fpf_1_len
		return nil, 0, false, err
	}
	if _, err := r.ReadU8(); err != nil { // fpf_1_fcnt
		return nil, 0, false, err
	}
	if _, err := r.ReadU8(); err != nil { // fps_0
		return nil, 0, false, err
	}
	state, err := r.ReadU8()
	if err != nil {
		return nil, 0, false, err
	}
	if _, err := r.ReadU8(); err != nil { // fps_1
		return nil, 0, false, err
	}
	if _, err := r.ReadU8(); err != nil { // data_info_cnt
		return nil, 0, false, err
	}
	if _, err := r.ReadU8(); err != nil { // data_info_len
		return nil, 0, false, err
	}
	channelID, err := r.ReadU8()
	if err != nil {
		return nil, 0, false, err
	}
	if _, err := r.ReadU8(); err != nil { // literal 0x14
		return nil, 0, false, err
	}
	if _, err := r.ReadU32LE(); err != nil { // sequence_cnt
		return nil, 0, false, err
	}
	if _, err := r.ReadU8(); err != nil { // literal 0x1C
		return nil, 0, false, err
	}
	if _, err := r.ReadU32LE(); err != nil { // data_crc
		return nil, 0, false, err
	}
	if _, err := r.ReadU8(); err != nil { // literal 0x22
		return nil, 0, false, err
	}
	dataSize, err := r.ReadU16LE()
	if err != nil {
		return nil, 0, false, err
	}
	if _, err := r.ReadU8(); err != nil { // literal 0x2C
		return nil, 0, false, err
	}
	recordingTimeMs, err := r.ReadU32LE()
	if err != nil {
		return nil, 0, false, err
	}
	if _, err := r.ReadU32LE(); err != nil { // record_crc
		return nil, 0, false, err
	}

	if state == 1 {
		return nil, frameOffset + stateNoBodyStride, true, nil
	}

	row := &pingtable.Row{
		ChannelID: channelID,
		RawTimeS:  float64(recordingTimeMs) / 1000,
		// Frames without the beam-info composite default to code 0.
		RawFrequencyLabel: FrequencyLabels[0],
	}

	if err := parsePingBody(r, row); err != nil {
		return nil, 0, false, err
	}

	row.FrameOffset = frameOffset
	row.SonOffset = int64(dataSize) - row.PingSampleCount

	nextOffset := frameOffset + pingFrameHeaderLen + int64(dataSize) + 12
	return row, nextOffset, false, nil
}

// parsePingBody reads the variable outer-tag body of one ping frame
// (§4.4 steps 3-5) into row.
func parsePingBody(r *bio.Reader, row *pingtable.Row) error {
	fieldCount, err := r.ReadU8()
	if err != nil {
		return err
	}

	beamInfoPending := false
	n := fieldCount
	if n > MaxPingFieldCount {
		beamInfoPending = true
		n = MaxPingFieldCount
	}

	for i := uint8(0); i < n; i++ {
		pos, err := r.Position()
		if err != nil {
			return err
		}
		tag, err := r.ReadU8()
		if err != nil {
			return err
		}
		desc, ok := PingOuterTags[tag]
		if !ok {
			return sonarerr.NewUnknownTag(pos, tag)
		}

		// Wide tags pair a one-byte flag with the field value, but the
		// two groups disagree on order (§6.1): the u2-valued tags
		// (0x0B/0x13/0x23) are flag-then-value, the u4-valued tags
		// (0x0D/0x15) are value-then-flag.
		if pingBodyWideTags[tag] && desc.Width() == 2 {
			if _, err := r.ReadU8(); err != nil { // leading flag byte
				return err
			}
		}
		v, err := desc.ReadInto(r)
		if err != nil {
			return err
		}
		if pingBodyWideTags[tag] && desc.Width() == 4 {
			if _, err := r.ReadU8(); err != nil { // trailing flag byte
				return err
			}
		}
		applyPingField(row, tag, v)
	}

	if beamInfoPending {
		row.BeamInfoPresent = true
		if err := parseBeamInfo(r, row); err != nil {
			return err
		}
	}

	return nil
}

func applyPingField(row *pingtable.Row, tag byte, v any) {
	switch tag {
	case 0x01:
		row.ChannelID = v.(uint8)
	case 0x0B:
		row.BottomDepthFlag = 1
		row.RawDepthFt = float64(v.(uint16))
	case 0x0D:
		row.Unknown0DValue = v.(uint32)
		row.Unknown0DFlag = 1
	case 0x12:
		row.Unknown12 = v.(uint16)
	case 0x13:
		row.DrawnBottomDepth = v.(uint16)
		row.DrawnBottomDepthFlag = 1
	case 0x15:
		row.Unknown15Value = v.(uint32)
		row.Unknown15Flag = 1
	case 0x19:
		row.FirstSampleDepth = v.(uint8)
	case 0x23:
		row.LastSampleDepth = v.(uint16)
		row.LastSampleDepthFlag = 1
	case 0x29:
		row.Gain = v.(uint8)
	case 0x31:
		row.SampleStatus = v.(uint8)
	case 0x3C:
		row.PingSampleCount = int64(v.(uint32))
	case 0x41:
		row.ShadeAvail = v.(uint8)
	case 0x4C:
		row.RawUtmN = float64(int32(v.(uint32)))
	case 0x54:
		row.RawUtmE = float64(int32(v.(uint32)))
	case 0x5C:
		row.WaterTemp = v.(float32)
	case 0x61:
		row.RawChannelType = int(v.(uint8))
	}
}

// parseBeamInfo reads the optional beam-info composite (§4.4 step 5,
// §6.1) appended when the ping body's declared field count exceeds
// MaxPingFieldCount.
func parseBeamInfo(r *bio.Reader, row *pingtable.Row) error {
	if _, err := r.ReadU8(); err != nil { // group tag, uninterpreted
		return err
	}
	if _, err := r.ReadU8(); err != nil { // group length
		return err
	}
	fieldCount, err := r.ReadU8()
	if err != nil {
		return err
	}

	for i := uint8(0); i < fieldCount; i++ {
		pos, err := r.Position()
		if err != nil {
			return err
		}
		tag, err := r.ReadU8()
		if err != nil {
			return err
		}
		desc, ok := BeamInfoInnerTags[tag]
		if !ok {
			return sonarerr.NewUnknownTag(pos, tag)
		}
		v, err := desc.ReadInto(r)
		if err != nil {
			return err
		}
		switch tag {
		case 0x01:
			row.RawTrackCog = float64(v.(float32))
		case 0x09:
			row.RawGPSSpeed = float64(v.(float32))
		case 0x11:
			code := v.(uint8)
			row.RawFrequencyCode = int(code)
			row.RawFrequencyLabel = FrequencyLabels[code]
		case 0x19:
			row.BiReserved19 = v.(float32)
		case 0x2F:
			row.BiReserved2F = v.(float32)
		case 0x37:
			row.BiReserved37 = v.(float32)
		case 0x73:
			row.BiReserved73 = v.(uint8)
		}
	}
	return nil
}

// SortByTimeBeam sorts rows ascending by (time_ms, beam), matching the
// translator's record-renumbering step (§4.6 step 4). Exposed here so
// the Vendor-H-only translator and any direct Vendor-L CSV path share
// the same ordering primitive.
func SortByTimeBeam(rows []pingtable.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TimeMs != rows[j].TimeMs {
			return rows[i].TimeMs < rows[j].TimeMs
		}
		return rows[i].Beam < rows[j].Beam
	})
}
