package humminbird

import (
	"math"
	"os"

	"github.com/sixy6e/pingconv/bio"
	"github.com/sixy6e/pingconv/internal/sonarerr"
	"github.com/sixy6e/pingconv/pingtable"
)

// candidateHeaderLens are the known Vendor-H frame-header byte lengths
// to try, in preference order. 152 is the current (2024) format this
// package emits; 100 and 64 are the legacy variants the original
// implementation's comments describe without fully specifying --
// DetectFrameHeaderLen tries each in turn and fails with
// HeaderNotDetermined rather than guessing (spec.md §7, Open Question
// (a): the Onix variant is the case none of these candidates fit).
var candidateHeaderLens = []int{152, 100, 64}

// DetectFrameHeaderLen opens the reader at offset 0 and finds the
// frame-header length whose head_start/head_end sentinels line up for
// the first frame, without consuming any payload bytes.
func DetectFrameHeaderLen(r *bio.Reader) (int, error) {
	for _, length := range candidateHeaderLens {
		if _, err := r.SeekAbs(0); err != nil {
			return 0, err
		}
		start, err := r.ReadU32BE()
		if err != nil {
			return 0, err
		}
		if start != HeadStart {
			continue
		}
		if _, err := r.SeekAbs(int64(length - 1)); err != nil {
			return 0, err
		}
		end, err := r.ReadU8()
		if err != nil {
			continue
		}
		if end == HeadEnd {
			return length, nil
		}
	}
	return 0, sonarerr.ErrHeaderNotDetermined
}

// ReadSON parses one beam's SON file into ping rows, using headerLen
// to locate each frame's sample payload and advance to the next frame.
// It does not read the sample payload itself -- frame_offset/son_offset
// are recorded for a later streaming copy, matching spec.md §3
// ("sample-return bytes are never copied into memory as a whole").
func ReadSON(path string, beam pingtable.Beam, headerLen int) ([]pingtable.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bio.NewReader(f)
	size, err := f.Seek(0, 2)
	if err != nil {
		return nil, err
	}
	if _, err := r.SeekAbs(0); err != nil {
		return nil, err
	}

	var rows []pingtable.Row
	var offset int64

	for offset < size {
		row, sampleCount, err := readFrameHeader(r, beam)
		if err != nil {
			return nil, err
		}
		row.FrameOffset = offset
		row.SonOffset = int64(headerLen)
		row.PingSampleCount = sampleCount

		rows = append(rows, row)

		next := offset + int64(headerLen) + sampleCount
		offset = next
		if _, err := r.SeekAbs(offset); err != nil {
			return nil, err
		}
	}

	return rows, nil
}

// readFrameHeader reads one frame's tag-prefixed big-endian header
// (spec.md §6.2) and projects the recorded coordinates back to WGS-84
// lat/lon via the inverse of translate.go's forward projection.
func readFrameHeader(r *bio.Reader, beam pingtable.Beam) (pingtable.Row, int64, error) {
	var row pingtable.Row
	row.Beam = beam

	if _, err := r.ReadU32BE(); err != nil { // head_start
		return row, 0, err
	}

	if _, err := r.ReadU8(); err != nil { // tag 128
		return row, 0, err
	}
	recordNum, err := r.ReadU32BE()
	if err != nil {
		return row, 0, err
	}
	row.RecordNum = int64(recordNum)

	if _, err := r.ReadU8(); err != nil { // tag 129
		return row, 0, err
	}
	timeMs, err := r.ReadU32BE()
	if err != nil {
		return row, 0, err
	}
	row.TimeMs = int64(timeMs)

	if _, err := r.ReadU8(); err != nil { // tag 130
		return row, 0, err
	}
	utmE, err := r.ReadI32BE()
	if err != nil {
		return row, 0, err
	}
	if _, err := r.ReadU8(); err != nil { // tag 131
		return row, 0, err
	}
	utmN, err := r.ReadI32BE()
	if err != nil {
		return row, 0, err
	}
	row.UtmE = float64(utmE)
	row.UtmN = float64(utmN)
	row.Lat, row.Lon = inverseProject(row.UtmE, row.UtmN)

	if _, err := r.ReadU8(); err != nil { // tag 132
		return row, 0, err
	}
	if _, err := r.ReadU16BE(); err != nil { // gps1
		return row, 0, err
	}
	heading, err := r.ReadU16BE()
	if err != nil {
		return row, 0, err
	}
	row.InstrHeadingDegTenths = int64(heading)

	if _, err := r.ReadU8(); err != nil { // tag 133
		return row, 0, err
	}
	if _, err := r.ReadU16BE(); err != nil { // gps2
		return row, 0, err
	}
	speed, err := r.ReadU16BE()
	if err != nil {
		return row, 0, err
	}
	row.SpeedDmPerS = int64(speed)

	if _, err := r.ReadU8(); err != nil { // tag 134
		return row, 0, err
	}
	if _, err := r.ReadU32BE(); err != nil {
		return row, 0, err
	}

	if _, err := r.ReadU8(); err != nil { // tag 135
		return row, 0, err
	}
	instDep, err := r.ReadU32BE()
	if err != nil {
		return row, 0, err
	}
	row.InstDepDm = int64(instDep)

	for tag := byte(136); tag <= 143; tag++ {
		if _, err := r.ReadU8(); err != nil {
			return row, 0, err
		}
		if _, err := r.ReadI32BE(); err != nil {
			return row, 0, err
		}
	}

	if _, err := r.ReadU8(); err != nil { // tag 80
		return row, 0, err
	}
	beamID, err := r.ReadU8()
	if err != nil {
		return row, 0, err
	}
	row.Beam = pingtable.Beam(beamID)

	if _, err := r.ReadU8(); err != nil { // tag 81
		return row, 0, err
	}
	if _, err := r.ReadU8(); err != nil { // volt_scale
		return row, 0, err
	}

	if _, err := r.ReadU8(); err != nil { // tag 146
		return row, 0, err
	}
	freq, err := r.ReadU32BE()
	if err != nil {
		return row, 0, err
	}
	row.FrequencyKHz = int(freq)

	for _, tag := range []byte{83, 84} {
		_ = tag
		if _, err := r.ReadU8(); err != nil {
			return row, 0, err
		}
		if _, err := r.ReadU8(); err != nil {
			return row, 0, err
		}
	}

	if _, err := r.ReadU8(); err != nil { // tag 149
		return row, 0, err
	}
	if _, err := r.ReadU32BE(); err != nil {
		return row, 0, err
	}

	for _, tag := range []byte{86, 87} {
		_ = tag
		if _, err := r.ReadU8(); err != nil {
			return row, 0, err
		}
		if _, err := r.ReadU8(); err != nil {
			return row, 0, err
		}
	}

	if _, err := r.ReadU8(); err != nil { // tag 152
		return row, 0, err
	}
	if _, err := r.ReadU32BE(); err != nil {
		return row, 0, err
	}

	if _, err := r.ReadU8(); err != nil { // tag 153
		return row, 0, err
	}
	fMin, err := r.ReadU32BE()
	if err != nil {
		return row, 0, err
	}
	row.FrequencyMinKHz = int(fMin)

	if _, err := r.ReadU8(); err != nil { // tag 154
		return row, 0, err
	}
	fMax, err := r.ReadU32BE()
	if err != nil {
		return row, 0, err
	}
	row.FrequencyMaxKHz = int(fMax)

	if _, err := r.ReadU8(); err != nil { // tag 155
		return row, 0, err
	}
	if _, err := r.ReadU32BE(); err != nil {
		return row, 0, err
	}

	for tag := byte(156); tag <= 159; tag++ {
		if _, err := r.ReadU8(); err != nil {
			return row, 0, err
		}
		if _, err := r.ReadI32BE(); err != nil {
			return row, 0, err
		}
	}

	if _, err := r.ReadU8(); err != nil { // tag 160
		return row, 0, err
	}
	sampleCount, err := r.ReadU32BE()
	if err != nil {
		return row, 0, err
	}

	if _, err := r.ReadU8(); err != nil { // head_end
		return row, 0, err
	}

	return row, int64(sampleCount), nil
}

// inverseProject recovers WGS-84 lat/lon from Vendor-H's International
// 1924 ellipsoid projection, inverting translate.go's convertCoordinates.
func inverseProject(utmE, utmN float64) (lat, lon float64) {
	lon = utmE / (international1924SemiMajor * (math.Pi / 180))

	y := utmN / international1924SemiMajor
	u := 2*math.Atan(math.Exp(y)) - math.Pi/2
	lat = 57.2957795130823 * math.Atan(1.0067642927*math.Tan(u))

	return lat, lon
}

// ReadRecording reads a Vendor-H recording's DAT file and every
// present beam's SON file, returning the combined ping table. sonDir
// is the recording's companion `<name>/` directory (spec.md §6.2).
func ReadRecording(datPath, sonDir string) (*pingtable.Table, error) {
	f, err := os.Open(datPath)
	if err != nil {
		return nil, err
	}
	f.Close()

	table := &pingtable.Table{}

	for _, beam := range presentBeams {
		path := sonFileName(sonDir, beam)

		son, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		r := bio.NewReader(son)
		headerLen, err := DetectFrameHeaderLen(r)
		son.Close()
		if err != nil {
			if info, statErr := os.Stat(path); statErr == nil && info.Size() == 0 {
				continue // empty beam, nothing to read (spec.md §8 scenario 1)
			}
			return nil, err
		}

		rows, err := ReadSON(path, beam, headerLen)
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, rows...)
	}

	return table, nil
}
