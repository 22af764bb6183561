// Package lowrance implements the Vendor-L (Lowrance) binary sonar log
// codec: the static tag schema, the per-recording header discoverer and
// the streaming ping-frame parser. See go-gsf's schema.go for the
// tag-table-as-data style this package follows.
package lowrance

import "github.com/sixy6e/pingconv/bio"

// Kind is the wire representation of a field's value.
type Kind int

const (
	KindU8 Kind = iota
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
)

// FieldDescriptor is the atom schema entries are built from: a named,
// sized, typed wire value. Endianness is fixed per vendor file (Vendor-L
// is little-endian throughout, §6.1), so it is not carried per field.
type FieldDescriptor struct {
	Name string
	Kind Kind
	Tag  byte // 0 when the field carries no tag byte (fixed preamble slots)
}

// Width returns the field's on-wire byte width.
func (f FieldDescriptor) Width() int {
	switch f.Kind {
	case KindU8, KindI8:
		return 1
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32, KindF32:
		return 4
	case KindU64, KindI64, KindF64:
		return 8
	default:
		return 0
	}
}

// ReadInto reads one value of this descriptor's kind from r and returns
// it boxed; the ping parser type-switches on the returned value.
func (f FieldDescriptor) ReadInto(r *bio.Reader) (any, error) {
	switch f.Kind {
	case KindU8:
		return r.ReadU8()
	case KindI8:
		return r.ReadI8()
	case KindU16:
		return r.ReadU16LE()
	case KindI16:
		return r.ReadI16LE()
	case KindU32:
		return r.ReadU32LE()
	case KindI32:
		return r.ReadI32LE()
	case KindU64:
		return r.ReadU64LE()
	case KindI64:
		return r.ReadI64LE()
	case KindF32:
		return r.ReadF32LE()
	case KindF64:
		return r.ReadF64LE()
	default:
		return nil, nil
	}
}

// Recording preamble magic number, tag 0x04's payload.
const PreambleMagic uint32 = 0xB7E9DA86

// Ping frame preamble magic number, §6.1.
const PingMagic uint32 = 0xB7E9DA86

// BootOffset is the fixed absolute offset of the first ping frame. The
// discoverer assigns it once the channel-information tag is reached; it
// is not compared against the terminator's position or any decoded field.
const BootOffset int64 = 20480

// ChannelInformationTag terminates preamble discovery; its body is not
// parsed (§4.3).
const ChannelInformationTag byte = 0x37

// FileInformationTag introduces the composite preamble field.
const FileInformationTag byte = 0x2F

// PreambleOuterTags is the Vendor-L recording-preamble tag registry
// (§6.1). Order matches the wire order a well-formed recording uses,
// but the discoverer is driven by the tag byte it reads, not by table
// position.
var PreambleOuterTags = map[byte]FieldDescriptor{
	0x04: {Name: "magic_number", Kind: KindU32, Tag: 0x04},
	0x0A: {Name: "format_version", Kind: KindU16, Tag: 0x0A},
	0x14: {Name: "channel_count", Kind: KindU32, Tag: 0x14},
	0x19: {Name: "max_channel_count", Kind: KindU8, Tag: 0x19},
	// 0x2F (file_information) and 0x37 (channel_information) are
	// handled specially by the discoverer: the former is a composite,
	// the latter is the terminator.
}

// FileInformationInnerTags is the composite body of tag 0x2F.
var FileInformationInnerTags = map[byte]FieldDescriptor{
	0x02: {Name: "sw_version", Kind: KindU16, Tag: 0x02},
	0x0C: {Name: "device_id", Kind: KindU32, Tag: 0x0C},
	0x12: {Name: "product_number", Kind: KindU16, Tag: 0x12},
	0x1C: {Name: "recording_start_epoch", Kind: KindU32, Tag: 0x1C},
}

// MaxPingFieldCount is the known maximum outer field count in a ping
// body; an observed count beyond this signals an appended beam-info
// composite (§4.4 step 3).
const MaxPingFieldCount = 13

// PingOuterTags is the Vendor-L ping-body tag registry (§6.1). Tags
// 0x0B, 0x0D, 0x13, 0x15 and 0x23 carry two inner values each; all
// others carry exactly one.
var PingOuterTags = map[byte]FieldDescriptor{
	0x01: {Name: "channel_id", Kind: KindU8, Tag: 0x01},
	0x0B: {Name: "bottom_depth", Kind: KindU16, Tag: 0x0B},       // + u1 flag, see pingBodyWideTags
	0x0D: {Name: "unknown_0d", Kind: KindU32, Tag: 0x0D},         // + u1 flag
	0x12: {Name: "unknown_12", Kind: KindU16, Tag: 0x12},
	0x13: {Name: "drawn_bottom_depth", Kind: KindU16, Tag: 0x13}, // + u1 flag
	0x15: {Name: "unknown_15", Kind: KindU32, Tag: 0x15},         // + u1 flag
	0x19: {Name: "first_sample_depth", Kind: KindU8, Tag: 0x19},
	0x23: {Name: "last_sample_depth", Kind: KindU16, Tag: 0x23},  // + u1 flag
	0x29: {Name: "gain", Kind: KindU8, Tag: 0x29},
	0x31: {Name: "sample_status", Kind: KindU8, Tag: 0x31},
	0x3C: {Name: "sample_cnt", Kind: KindU32, Tag: 0x3C},
	0x41: {Name: "shade_avail", Kind: KindU8, Tag: 0x41},
	0x4C: {Name: "scposn_lat", Kind: KindU32, Tag: 0x4C},
	0x54: {Name: "scposn_lon", Kind: KindU32, Tag: 0x54},
	0x5C: {Name: "water_temp", Kind: KindF32, Tag: 0x5C},
	0x61: {Name: "beam", Kind: KindU8, Tag: 0x61},
}

// pingBodyWideTags pairs a one-byte flag with the field value. The two
// groups disagree on order (§6.1): 0x0B/0x13/0x23 are "(u1, u2)" —
// flag before value; 0x0D/0x15 are "(u4, u1)" — value before flag.
var pingBodyWideTags = map[byte]bool{
	0x0B: true,
	0x0D: true,
	0x13: true,
	0x15: true,
	0x23: true,
}

// BeamInfoInnerTags is the inner-tag registry of the optional beam-info
// composite appended when the ping body's observed field count exceeds
// MaxPingFieldCount (§4.4 step 5, §6.1). Semantic names follow the
// DESIGN.md aliasing table: track_cog and gps_speed are sourced from
// tags 0x01 and 0x09 respectively, frequency from 0x11.
var BeamInfoInnerTags = map[byte]FieldDescriptor{
	0x01: {Name: "track_cog", Kind: KindF32, Tag: 0x01},
	0x09: {Name: "gps_speed", Kind: KindF32, Tag: 0x09},
	0x11: {Name: "frequency_code", Kind: KindU8, Tag: 0x11},
	0x19: {Name: "bi_reserved_19", Kind: KindF32, Tag: 0x19},
	0x2F: {Name: "bi_reserved_2f", Kind: KindF32, Tag: 0x2F},
	0x37: {Name: "bi_reserved_37", Kind: KindF32, Tag: 0x37},
	0x73: {Name: "bi_reserved_73", Kind: KindU8, Tag: 0x73},
}

// FrequencyLabels maps the raw frequency_code byte to the §6.3 label
// used by the normalizer's crosswalk. The wire format only ever
// transmits a small fixed code; this table is the code's decode.
var FrequencyLabels = map[uint8]string{
	0:  "200kHz",
	1:  "50kHz",
	2:  "83kHz",
	3:  "455kHz",
	4:  "800kHz",
	5:  "38kHz",
	6:  "28kHz",
	7:  "130kHz_210kHz",
	8:  "90kHz_150kHz",
	9:  "40kHz_60kHz",
	10: "25kHz_45kHz",
}
