package humminbird

import (
	"math"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/sixy6e/pingconv/lowrance"
	"github.com/sixy6e/pingconv/pingtable"
)

// international1924SemiMajor is the semi-major axis (metres) of the
// International 1924 ellipsoid Vendor-H's own projection is based on
// (spec.md §4.6 step 1).
const international1924SemiMajor = 6378388.0

// Summary is the Vendor-H "DAT" recording summary record (spec.md §3
// "Recording summary (DAT)", §4.6 step 5).
type Summary struct {
	UnixTime      uint32
	UtmE          int32
	UtmN          int32
	Filename      string
	NumRecords    uint32
	RecordLensMs  uint32
	LineSize      uint32

	// DuplicateRecords counts (time_ms, beam) pairs that collided after
	// renumbering, which would indicate two source pings mapped onto the
	// same identity. A well-formed recording has none.
	DuplicateRecords int
}

// frameHeaderSize is the byte length of the Vendor-H per-ping header
// (everything before the sample payload), used by the DAT linesize
// computation and as the emitter's frame-buffer capacity.
const frameHeaderSize = 152

// Translate rewrites a normalized Vendor-L ping table into Vendor-H's
// attribute schema in place, following the fixed step order of
// spec.md §4.6 (ordering matters: later steps read earlier outputs).
// recordingStartEpoch is the Vendor-L preamble's wall-clock start
// (seconds since epoch); portFilename is the path the DAT's filename
// field records (conventionally the beam-2/port SON file).
func Translate(t *pingtable.Table, recordingStartEpoch uint32, portFilename string) Summary {
	convertCoordinates(t.Rows)
	t.Rows = splitCombinedSidescan(t.Rows)
	t.Rows = dropUnknownBeams(t.Rows)
	lowrance.SortByTimeBeam(t.Rows)
	renumberRecords(t.Rows)

	s := synthesizeSummary(t.Rows, recordingStartEpoch, portFilename)
	s.DuplicateRecords = countDuplicateKeys(t.Rows)
	return s
}

type timeBeamKey struct {
	timeMs int64
	beam   pingtable.Beam
}

// countDuplicateKeys reports how many (time_ms, beam) pairs appear more
// than once in rows. renumberRecords does not change these keys, so a
// non-zero count reflects the input data itself.
func countDuplicateKeys(rows []pingtable.Row) int {
	keys := lo.Map(rows, func(row pingtable.Row, _ int) timeBeamKey {
		return timeBeamKey{timeMs: row.TimeMs, beam: row.Beam}
	})
	return len(lo.FindDuplicates(keys))
}

// convertCoordinates computes Vendor-H UTM from each row's WGS-84
// lat/lon using the International-1924 ellipsoid (spec.md §4.6 step 1).
func convertCoordinates(rows []pingtable.Row) {
	for i := range rows {
		lat := rows[i].Lat
		lon := rows[i].Lon

		latRad := lat / 57.2957795130823
		rows[i].UtmN = international1924SemiMajor * math.Log(
			math.Tan((math.Atan(math.Tan(latRad)/1.0067642927)+math.Pi/2)/2),
		)
		rows[i].UtmE = international1924SemiMajor * (math.Pi / 180) * lon
	}
}

// splitCombinedSidescan duplicates each combined-sidescan (beam 5) row
// into a port (beam 2) and starboard (beam 3) half, halving the sample
// count and offsetting the starboard half's son_offset into the second
// half of the payload (spec.md §4.6 step 2).
func splitCombinedSidescan(rows []pingtable.Row) []pingtable.Row {
	out := make([]pingtable.Row, 0, len(rows))
	for _, row := range rows {
		if row.Beam != pingtable.BeamCombinedSS {
			out = append(out, row)
			continue
		}

		half := row.PingSampleCount / 2

		port := row
		port.Beam = pingtable.BeamPortSS
		port.PingSampleCount = half
		port.FlipPort = true

		star := row
		star.Beam = pingtable.BeamStarSS
		star.PingSampleCount = half
		star.SonOffset += half

		out = append(out, port, star)
	}
	return out
}

// dropUnknownBeams removes rows whose beam id is outside the canonical
// set (spec.md §4.6 step 3).
func dropUnknownBeams(rows []pingtable.Row) []pingtable.Row {
	out := rows[:0]
	for _, row := range rows {
		if row.Beam == pingtable.BeamUnknown {
			continue
		}
		out = append(out, row)
	}
	return out
}

// renumberRecords assigns a dense, ascending record_num to rows already
// sorted by (time_ms, beam) (spec.md §4.6 step 4).
func renumberRecords(rows []pingtable.Row) {
	for i := range rows {
		rows[i].RecordNum = int64(i)
	}
}

// synthesizeSummary computes the DAT record from the finalized ping
// table (spec.md §4.6 step 5).
func synthesizeSummary(rows []pingtable.Row, recordingStartEpoch uint32, portFilename string) Summary {
	s := Summary{
		UnixTime:   recordingStartEpoch,
		NumRecords: uint32(len(rows)),
		Filename:   filepath.Base(portFilename),
	}

	if len(rows) == 0 {
		s.LineSize = frameHeaderSize
		return s
	}

	first := rows[0]
	last := rows[len(rows)-1]

	s.UtmE = int32(math.Round(first.UtmE))
	s.UtmN = int32(math.Round(first.UtmN))
	s.RecordLensMs = uint32(last.TimeMs)
	s.LineSize = frameHeaderSize + uint32(first.PingSampleCount)

	return s
}
