// Package pingtable holds the canonical ping-attribute row and table
// used across the Vendor-L parser, the unit/enumeration normalizer and
// the metadata CSV emitter. Rows are stored array-of-structs for cache
// locality during per-beam emission, per DESIGN NOTES.
package pingtable

import "github.com/samber/lo"

// Beam is the canonical beam/channel enumeration spec.md §3 defines.
type Beam int

const (
	BeamLowFreqDown Beam = 0
	BeamHighFreqDown Beam = 1
	BeamPortSS      Beam = 2
	BeamStarSS      Beam = 3
	BeamDownImage   Beam = 4
	BeamCombinedSS  Beam = 5
	BeamUnknown     Beam = -1
)

// Row is one ping's worth of attributes: the canonical, already-unit-
// converted fields named in spec.md §3, plus the raw Vendor-L values
// the Normalizer consumes, plus preserved "unknown" raw extras that
// flow through to CSV export when requested.
type Row struct {
	// Canonical fields (spec.md §3).
	RecordNum             int64
	TimeMs                int64
	UtmE                  float64
	UtmN                  float64
	Lat                   float64
	Lon                   float64
	InstrHeadingDegTenths int64
	SpeedDmPerS           int64
	InstDepDm             int64
	Beam                  Beam
	FrequencyKHz          int
	FrequencyMinKHz       int
	FrequencyMaxKHz       int
	PingSampleCount       int64
	FrameOffset           int64
	SonOffset             int64

	// Raw Vendor-L values, populated by the parser, consumed once by
	// Normalize. See DESIGN.md for the tag->semantic-name resolution.
	RawTimeS         float64
	RawTrackCog      float64 // radians
	RawGPSSpeed      float64 // metres/second
	RawDepthFt       float64
	RawUtmE          float64 // raw projected easting, Vendor-L ellipsoid
	RawUtmN          float64
	RawChannelType   int
	RawFrequencyCode int
	RawFrequencyLabel string

	// Preserved raw extras, exported as unknown_* CSV columns only when
	// requested (spec.md §4.8).
	ChannelID            uint8
	BottomDepthFlag      uint8
	DrawnBottomDepth     uint16
	DrawnBottomDepthFlag uint8
	FirstSampleDepth     uint8
	LastSampleDepth      uint16
	LastSampleDepthFlag  uint8
	Gain                 uint8
	SampleStatus         uint8
	ShadeAvail           uint8
	WaterTemp            float32
	Unknown0DValue       uint32
	Unknown0DFlag        uint8
	Unknown12            uint16
	Unknown15Value       uint32
	Unknown15Flag        uint8
	BeamInfoPresent      bool
	BiReserved19         float32
	BiReserved2F         float32
	BiReserved37         float32
	BiReserved73         uint8

	// FlipPort is set by the Vendor-L -> Vendor-H translator when a row
	// originated from a combined-sidescan split and its sample payload
	// must be byte-reversed on emission.
	FlipPort bool
}

// Table is the ordered, in-memory set of ping rows for one recording.
// It is owned by the conversion job and handed to the translator (by
// pointer, rewritten in place) and then to the emitters in sequence.
type Table struct {
	Rows []Row
}

// ByBeam groups the table's rows by canonical beam, preserving the
// relative order of rows within each beam.
func (t *Table) ByBeam() map[Beam][]Row {
	return lo.GroupBy(t.Rows, func(row Row) Beam {
		return row.Beam
	})
}
