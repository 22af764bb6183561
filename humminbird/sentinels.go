// Package humminbird implements the Vendor-H (Humminbird) binary sonar
// log codec: the Vendor-L translator, the DAT/SON/IDX emitter and the
// fixed sentinel constants stamped into fields with no Vendor-L source
// (spec.md §4.6, §6.2, §9 "Sentinel constants").
package humminbird

// VendorHUnknownI32 is the sentinel stamped into the Vendor-H i4 unknown
// fields (SON tags 137-143 and 156-159, DAT unknown_10..14), per
// spec.md §9. Other fields with no Vendor-L source use the constants
// below.
const VendorHUnknownI32 int32 = -1582119980

// HeadStart and HeadEnd frame the SON per-ping header; neither carries
// a tag byte (spec.md §6.2).
const (
	HeadStart uint32 = 0xC0DE22E1
	HeadEnd   uint8  = 33
)

// Per-frame sentinel field values with no Vendor-L source.
const (
	gps1Sentinel        uint16 = 1
	gps2Sentinel        uint16 = 1
	unknown134Sentinel  uint32 = 0
	unknown136Sentinel  int32  = 1814532
	voltScaleSentinel   uint8  = 0
	unknown83Sentinel   uint8  = 18
	unknown84Sentinel   uint8  = 1
	unknown149Sentinel  uint32 = 26
	eErrSentinel        uint8  = 0
	nErrSentinel        uint8  = 0
	unknown152Sentinel  uint32 = 4
	unknown155Sentinel  uint32 = 3
)

// DAT summary sentinel field values with no Vendor-L source.
const (
	sp1Sentinel        uint8  = 195
	waterCodeSentinel  uint8  = 1
	sp2Sentinel        uint8  = 125
	datUnknown1        uint8  = 1
	sonarNameSentinel  uint32 = 1029
	datUnknown2        uint32 = 11
	datUnknown3        uint32 = 0
	datUnknown4        uint32 = 0
	datUnknown5        uint32 = 5
	datUnknown6        uint32 = 30
	datUnknown9        uint32 = 0
)
