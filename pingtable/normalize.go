package pingtable

import "math"

// lowrance's spherical-Mercator-like projection ellipsoid radius used
// for its own inverse projection (utm -> lat/lon), spec.md §4.5.
const vendorLEllipsoidRadius = 6356752.3142

// frequencyCrosswalk maps the §6.3 label -> (nominal, min, max) kHz.
var frequencyCrosswalk = map[string][3]int{
	"200kHz":         {200, 200, 200},
	"50kHz":          {50, 50, 50},
	"83kHz":          {83, 83, 83},
	"455kHz":         {455, 455, 455},
	"800kHz":         {800, 800, 800},
	"38kHz":          {38, 38, 38},
	"28kHz":          {28, 28, 28},
	"130kHz_210kHz":  {170, 130, 210},
	"90kHz_150kHz":   {120, 90, 150},
	"40kHz_60kHz":    {50, 40, 60},
	"25kHz_45kHz":    {35, 25, 45},
}

// beamCrosswalk maps the raw Vendor-L channel_type to the canonical
// beam enum, spec.md §4.5.
var beamCrosswalk = map[int]Beam{
	0: BeamLowFreqDown,
	1: BeamHighFreqDown,
	2: BeamDownImage,
	3: BeamPortSS,
	4: BeamStarSS,
	5: BeamCombinedSS,
}

// Normalize applies the unit and enumeration conversions of spec.md
// §4.5 to every row of the table, in place, exactly once. It never
// fails on well-formed input: a raw value outside the documented
// domain is a parser bug, not a Normalize-time error.
func Normalize(t *Table) {
	for i := range t.Rows {
		normalizeRow(&t.Rows[i])
	}
}

func normalizeRow(r *Row) {
	r.TimeMs = int64(math.Round(r.RawTimeS * 1000))

	r.InstrHeadingDegTenths = int64(math.Round(radToDeg(r.RawTrackCog) * 10))

	r.SpeedDmPerS = int64(math.Round(r.RawGPSSpeed * 10))

	// The field's declared unit is feet but the conversion is *10, not
	// *3.048 -- preserved as-is per spec.md Open Question (b).
	r.InstDepDm = int64(math.Round(r.RawDepthFt * 10))

	r.UtmE = r.RawUtmE
	r.UtmN = r.RawUtmN
	r.Lon = r.RawUtmE / vendorLEllipsoidRadius * (180 / math.Pi)
	r.Lat = (2*math.Atan(math.Exp(r.RawUtmN/vendorLEllipsoidRadius)) - math.Pi/2) * (180 / math.Pi)

	if beam, ok := beamCrosswalk[r.RawChannelType]; ok {
		r.Beam = beam
	} else {
		r.Beam = BeamUnknown
	}

	if fxwalk, ok := frequencyCrosswalk[r.RawFrequencyLabel]; ok {
		r.FrequencyKHz = fxwalk[0]
		r.FrequencyMinKHz = fxwalk[1]
		r.FrequencyMaxKHz = fxwalk[2]
	}
}

func radToDeg(rad float64) float64 {
	return rad * (180 / math.Pi)
}
