package lowrance

import (
	"github.com/samber/lo"

	"github.com/sixy6e/pingconv/bio"
	"github.com/sixy6e/pingconv/internal/sonarerr"
)

// RecordingHeader is the tag-walked preamble of a Vendor-L recording
// (§3 "Recording header (L)").
type RecordingHeader struct {
	MagicNumber         uint32
	FormatVersion       uint16
	ChannelCount        uint32
	MaxChannelCount     uint8
	SwVersion           uint16
	DeviceID            uint32
	ProductNumber       uint16
	RecordingStartEpoch uint32

	// Tags is the ordered sequence of outer tag bytes observed while
	// walking the preamble, ending with (and including)
	// ChannelInformationTag.
	Tags []byte

	// HeadBytes is the absolute offset of the first ping frame. It is
	// always BootOffset; retained on the struct so callers can assert
	// the testable property in spec §8 without reaching for the
	// package constant.
	HeadBytes int64

	// MissingTags lists known preamble tags (PreambleOuterTags) that
	// this recording's preamble never presented. Recordings in practice
	// present every known tag; a non-empty list flags a short or
	// unusual preamble worth a closer look.
	MissingTags []byte
}

// DiscoverHeader reads the fixed preamble of a Vendor-L file starting
// at offset 0 and walks its tag-introduced fields until the
// channel-information terminator tag is observed. It never seeks past
// the terminator: the channel-information body is not parsed, and the
// first ping begins at the fixed BootOffset (§4.3).
func DiscoverHeader(r *bio.Reader) (*RecordingHeader, error) {
	if _, err := r.SeekAbs(0); err != nil {
		return nil, err
	}

	if _, err := r.ReadU8(); err != nil { // header_fcnt, uninterpreted
		return nil, err
	}

	h := &RecordingHeader{}

	for {
		pos, err := r.Position()
		if err != nil {
			return nil, err
		}

		tag, err := r.ReadU8()
		if err != nil {
			return nil, err
		}

		if tag == ChannelInformationTag {
			h.Tags = append(h.Tags, tag)
			break
		}

		if tag == FileInformationTag {
			if err := readFileInformation(r, h); err != nil {
				return nil, err
			}
			h.Tags = append(h.Tags, tag)
			continue
		}

		desc, ok := PreambleOuterTags[tag]
		if !ok {
			return nil, sonarerr.NewUnknownTag(pos, tag)
		}

		if err := readPreambleField(r, desc, h); err != nil {
			return nil, err
		}
		h.Tags = append(h.Tags, tag)
	}

	h.HeadBytes = BootOffset

	known := make([]byte, 0, len(PreambleOuterTags))
	for tag := range PreambleOuterTags {
		known = append(known, tag)
	}
	h.MissingTags, _ = lo.Difference(known, h.Tags)

	return h, nil
}

func readPreambleField(r *bio.Reader, desc FieldDescriptor, h *RecordingHeader) error {
	v, err := desc.ReadInto(r)
	if err != nil {
		return err
	}
	switch desc.Tag {
	case 0x04:
		h.MagicNumber = v.(uint32)
	case 0x0A:
		h.FormatVersion = v.(uint16)
	case 0x14:
		h.ChannelCount = v.(uint32)
	case 0x19:
		h.MaxChannelCount = v.(uint8)
	}
	return nil
}

// readFileInformation consumes tag 0x2F's composite body: a one-byte
// actual length, a one-byte field count, then that many inner
// tag-introduced fields (§4.3 algorithm clause (b)).
func readFileInformation(r *bio.Reader, h *RecordingHeader) error {
	if _, err := r.ReadU8(); err != nil { // actual length, uninterpreted
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
		desc, ok := FileInformationInnerTags[tag]
		if !ok {
			return sonarerr.NewUnknownTag(pos, tag)
		}
		v, err := desc.ReadInto(r)
		if err != nil {
			return err
		}
		switch desc.Tag {
		case 0x02:
			h.SwVersion = v.(uint16)
		case 0x0C:
			h.DeviceID = v.(uint32)
		case 0x12:
			h.ProductNumber = v.(uint16)
		case 0x1C:
			h.RecordingStartEpoch = v.(uint32)
		}
	}
	return nil
}

// pingSchema is the derived, ordered list of ping-body field
// descriptors observed in one recording's first ping frame.
type pingSchema struct {
	Outer []FieldDescriptor
}

// discoverPingSchema peeks the first ping frame's body at headBytes to
// build the ordered field-descriptor list the streaming parser is
// about to apply to every frame, then restores the reader's position.
// Vendor-L ping bodies declare their field count per frame (§4.4 step
// 3) but draw fields from the single static PingOuterTags registry, so
// this is a fail-fast validation pass confirming the first frame's
// tags are all known, run once up front rather than only discovered
// incrementally as ParsePings streams the rest of the file.
func discoverPingSchema(r *bio.Reader, headBytes int64) (*pingSchema, error) {
	start, err := r.Position()
	if err != nil {
		return nil, err
	}
	defer r.SeekAbs(start)

	if _, err := r.SeekAbs(headBytes); err != nil {
		return nil, err
	}
	// Walk the fixed 37-byte ping preamble to reach the field-count byte,
	// mirroring parseOneFrame's own layout (§6.1).
	if _, err := r.ReadBytes(2); err != nil { // fcnt, fpf_0
		return nil, err
	}
	if _, err := r.ReadU32LE(); err != nil { // magic
		return nil, err
	}
	if _, err := r.ReadBytes(3); err != nil { // fpf_1, fpf_1_len, fpf_1_fcnt
		return nil, err
	}
	if _, err := r.ReadU8(); err != nil { // fps_0
		return nil, err
	}
	state, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBytes(3); err != nil { // fps_1, data_info_cnt, data_info_len
		return nil, err
	}
	if _, err := r.ReadU8(); err != nil { // channel_id
		return nil, err
	}
	if _, err := r.ReadBytes(1); err != nil { // literal 0x14
		return nil, err
	}
	if _, err := r.ReadU32LE(); err != nil { // sequence_cnt
		return nil, err
	}
	if _, err := r.ReadBytes(1); err != nil { // literal 0x1C
		return nil, err
	}
	if _, err := r.ReadU32LE(); err != nil { // data_crc
		return nil, err
	}
	if _, err := r.ReadBytes(1); err != nil { // literal 0x22
		return nil, err
	}
	if _, err := r.ReadU16LE(); err != nil { // data_size
		return nil, err
	}
	if _, err := r.ReadBytes(1); err != nil { // literal 0x2C
		return nil, err
	}
	if _, err := r.ReadU32LE(); err != nil { // recording_time_ms
		return nil, err
	}
	if _, err := r.ReadU32LE(); err != nil { // record_crc
		return nil, err
	}

	if state == 1 {
		return &pingSchema{}, nil
	}

	fieldCount, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	n := fieldCount
	if n > MaxPingFieldCount {
		n = MaxPingFieldCount
	}

	s := &pingSchema{}
	for i := uint8(0); i < n; i++ {
		pos, err := r.Position()
		if err != nil {
			return nil, err
		}
		tag, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		desc, ok := PingOuterTags[tag]
		if !ok {
			return nil, sonarerr.NewUnknownTag(pos, tag)
		}
		s.Outer = append(s.Outer, desc)

		// Mirror parsePingBody's wide-tag order: u2-valued tags are
		// flag-then-value, u4-valued tags are value-then-flag (§6.1).
		if pingBodyWideTags[tag] && desc.Width() == 2 {
			if _, err := r.ReadBytes(1); err != nil {
				return nil, err
			}
		}
		if _, err := r.ReadBytes(desc.Width()); err != nil {
			return nil, err
		}
		if pingBodyWideTags[tag] && desc.Width() == 4 {
			if _, err := r.ReadBytes(1); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}
