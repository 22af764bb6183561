package humminbird

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sixy6e/pingconv/bio"
	"github.com/sixy6e/pingconv/pingtable"
)

// datRecordLen is the fixed byte length of the Vendor-H summary record
// as writeDAT lays out its fields (spec.md §6.2 field order).
const datRecordLen = 96

// datFilenameFieldLen is the fixed, space-padded width of the DAT
// filename field.
const datFilenameFieldLen = 12

// presentBeams is the fixed beam id set Vendor-H always materializes,
// even when a beam carries no rows (spec.md §6.2, scenario 1).
var presentBeams = [5]pingtable.Beam{
	pingtable.BeamLowFreqDown,
	pingtable.BeamHighFreqDown,
	pingtable.BeamPortSS,
	pingtable.BeamStarSS,
	pingtable.BeamDownImage,
}

// sonFileName returns the B00N.SON path for a beam under sonDir.
func sonFileName(sonDir string, beam pingtable.Beam) string {
	return filepath.Join(sonDir, fmt.Sprintf("B00%d.SON", int(beam)))
}

// idxFileName returns the B00N.IDX path for a beam under sonDir.
func idxFileName(sonDir string, beam pingtable.Beam) string {
	return filepath.Join(sonDir, fmt.Sprintf("B00%d.IDX", int(beam)))
}

// Emit writes the DAT summary file, the five per-beam SON frame files
// and their parallel IDX files (spec.md §4.7, §6.2). sourcePath is the
// Vendor-L file the sample payloads are copied from. datPath is the
// output `<name>.DAT` path; sonDir is its companion `<name>/`
// directory, created if absent.
func Emit(datPath, sonDir, sourcePath string, rows []pingtable.Row, summary Summary) error {
	if err := os.MkdirAll(sonDir, 0o755); err != nil {
		return err
	}

	if err := writeDAT(datPath, summary); err != nil {
		return err
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer src.Close()
	sourceReader := bio.NewReader(src)

	byBeam := (&pingtable.Table{Rows: rows}).ByBeam()

	for _, beam := range presentBeams {
		if err := writeBeam(sonDir, sourceReader, beam, byBeam[beam]); err != nil {
			return err
		}
	}

	return nil
}

func writeDAT(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, 0, datRecordLen)
	buf = appendU8(buf, sp1Sentinel)
	buf = appendU8(buf, waterCodeSentinel)
	buf = appendU8(buf, sp2Sentinel)
	buf = appendU8(buf, datUnknown1)
	buf = appendU32LE(buf, sonarNameSentinel)
	buf = appendU32LE(buf, datUnknown2)
	buf = appendU32LE(buf, datUnknown3)
	buf = appendU32LE(buf, datUnknown4)
	buf = appendU32LE(buf, s.UnixTime)
	buf = appendI32LE(buf, s.UtmE)
	buf = appendI32LE(buf, s.UtmN)
	buf = append(buf, padFilename(s.Filename)...)
	buf = appendU32LE(buf, s.NumRecords)
	buf = appendU32LE(buf, s.RecordLensMs)
	buf = appendU32LE(buf, s.LineSize)
	buf = appendU32LE(buf, datUnknown5)
	buf = appendU32LE(buf, datUnknown6)
	buf = appendU32LE(buf, sonarNameSentinel) // unknown_7
	buf = appendU32LE(buf, sonarNameSentinel) // unknown_8
	buf = appendU32LE(buf, datUnknown9)
	for i := 0; i < 5; i++ { // unknown_10..unknown_14
		buf = appendI32LE(buf, VendorHUnknownI32)
	}

	_, err = f.Write(buf)
	return err
}

func padFilename(name string) []byte {
	b := make([]byte, datFilenameFieldLen)
	copy(b, name)
	for i := len(name); i < datFilenameFieldLen; i++ {
		b[i] = ' '
	}
	return b
}

// writeBeam writes one beam's SON frame file and parallel IDX file.
// Both are created even when rows is empty (spec.md §6.2, scenario 1).
func writeBeam(sonDir string, src *bio.Reader, beam pingtable.Beam, rows []pingtable.Row) error {
	sonPath := sonFileName(sonDir, beam)
	idxPath := idxFileName(sonDir, beam)

	sonFile, err := os.Create(sonPath)
	if err != nil {
		return err
	}
	defer sonFile.Close()

	idxFile, err := os.Create(idxPath)
	if err != nil {
		return err
	}
	defer idxFile.Close()

	var sonLen uint32
	idxBuf := make([]byte, 8)

	for _, row := range rows {
		frame, err := buildFrame(src, row)
		if err != nil {
			return err
		}
		if _, err := sonFile.Write(frame); err != nil {
			return err
		}
		sonLen += uint32(len(frame))

		binary.BigEndian.PutUint32(idxBuf[0:4], uint32(row.TimeMs))
		binary.BigEndian.PutUint32(idxBuf[4:8], sonLen)
		if _, err := idxFile.Write(idxBuf); err != nil {
			return err
		}
	}

	return nil
}

// buildFrame renders one ping's SON frame: the tag-prefixed big-endian
// header (spec.md §6.2 tag table) followed by its raw sample payload,
// byte-reversed when the row's FlipPort flag is set.
func buildFrame(src *bio.Reader, row pingtable.Row) ([]byte, error) {
	buf := make([]byte, 0, frameHeaderSize)

	buf = appendU32BE(buf, HeadStart)

	buf = appendTagU32(buf, 128, uint32(row.RecordNum))
	buf = appendTagU32(buf, 129, uint32(row.TimeMs))
	buf = appendTagI32(buf, 130, int32(row.UtmE))
	buf = appendTagI32(buf, 131, int32(row.UtmN))

	buf = appendTagU16(buf, 132, gps1Sentinel)
	buf = appendU16BE(buf, uint16(row.InstrHeadingDegTenths))

	buf = appendTagU16(buf, 133, gps2Sentinel)
	buf = appendU16BE(buf, uint16(row.SpeedDmPerS))

	buf = appendTagU32(buf, 134, unknown134Sentinel)
	buf = appendTagU32(buf, 135, uint32(row.InstDepDm))

	buf = appendTagI32(buf, 136, unknown136Sentinel)
	for tag := byte(137); tag <= 143; tag++ {
		buf = appendTagI32(buf, tag, VendorHUnknownI32)
	}

	buf = appendTagU8(buf, 80, uint8(row.Beam))
	buf = appendTagU8(buf, 81, voltScaleSentinel)
	buf = appendTagU32(buf, 146, uint32(row.FrequencyKHz))
	buf = appendTagU8(buf, 83, unknown83Sentinel)
	buf = appendTagU8(buf, 84, unknown84Sentinel)
	buf = appendTagU32(buf, 149, unknown149Sentinel)
	buf = appendTagU8(buf, 86, eErrSentinel)
	buf = appendTagU8(buf, 87, nErrSentinel)
	buf = appendTagU32(buf, 152, unknown152Sentinel)
	buf = appendTagU32(buf, 153, uint32(row.FrequencyMinKHz))
	buf = appendTagU32(buf, 154, uint32(row.FrequencyMaxKHz))
	buf = appendTagU32(buf, 155, unknown155Sentinel)
	for tag := byte(156); tag <= 159; tag++ {
		buf = appendTagI32(buf, tag, VendorHUnknownI32)
	}
	buf = appendTagU32(buf, 160, uint32(row.PingSampleCount))

	buf = append(buf, HeadEnd)

	payload, err := readPayload(src, row)
	if err != nil {
		return nil, err
	}
	if row.FlipPort {
		reverseBytes(payload)
	}
	buf = append(buf, payload...)

	return buf, nil
}

// readPayload opens the source reader at frame_offset+son_offset and
// copies exactly ping_sample_count bytes (spec.md §4.7).
func readPayload(src *bio.Reader, row pingtable.Row) ([]byte, error) {
	if row.PingSampleCount == 0 {
		return nil, nil
	}
	if _, err := src.SeekAbs(row.FrameOffset + row.SonOffset); err != nil {
		return nil, err
	}
	return src.ReadBytes(int(row.PingSampleCount))
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func appendU8(buf []byte, v uint8) []byte  { return append(buf, v) }
func appendU32LE(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}
func appendI32LE(buf []byte, v int32) []byte { return appendU32LE(buf, uint32(v)) }

func appendU32BE(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}
func appendU16BE(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

func appendTagU8(buf []byte, tag byte, v uint8) []byte {
	return append(buf, tag, v)
}
func appendTagU16(buf []byte, tag byte, v uint16) []byte {
	buf = append(buf, tag)
	return appendU16BE(buf, v)
}
func appendTagU32(buf []byte, tag byte, v uint32) []byte {
	buf = append(buf, tag)
	return appendU32BE(buf, v)
}
func appendTagI32(buf []byte, tag byte, v int32) []byte {
	return appendTagU32(buf, tag, uint32(v))
}
