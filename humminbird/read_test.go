package humminbird_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sixy6e/pingconv/bio"
	"github.com/sixy6e/pingconv/humminbird"
	"github.com/sixy6e/pingconv/pingtable"
)

func TestDetectFrameHeaderLenFindsCurrentFormat(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.sl2")
	require.NoError(t, os.WriteFile(source, []byte{0, 1, 2, 3}, 0o644))

	rows := []pingtable.Row{
		{RecordNum: 0, TimeMs: 500, Beam: pingtable.BeamLowFreqDown, PingSampleCount: 4},
	}

	datPath := filepath.Join(dir, "out.DAT")
	sonDir := filepath.Join(dir, "out")
	require.NoError(t, humminbird.Emit(datPath, sonDir, source, rows, humminbird.Summary{NumRecords: 1}))

	f, err := os.Open(filepath.Join(sonDir, "B000.SON"))
	require.NoError(t, err)
	defer f.Close()

	length, err := humminbird.DetectFrameHeaderLen(bio.NewReader(f))
	require.NoError(t, err)
	require.Equal(t, 152, length)
}

func TestDetectFrameHeaderLenFailsOnUnknownSentinel(t *testing.T) {
	buf := bytes.Repeat([]byte{0xFF}, 200)
	_, err := humminbird.DetectFrameHeaderLen(bio.NewReader(bytes.NewReader(buf)))
	require.Error(t, err)
}

func TestReadRecordingRoundTripsEmittedFrames(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.sl2")
	require.NoError(t, os.WriteFile(source, []byte{10, 20, 30, 40, 50, 60}, 0o644))

	rows := []pingtable.Row{
		{
			RecordNum: 0, TimeMs: 1000, UtmE: 2226389, UtmN: 1118890,
			Beam: pingtable.BeamLowFreqDown, FrequencyKHz: 200,
			FrequencyMinKHz: 130, FrequencyMaxKHz: 210,
			InstDepDm: 55, InstrHeadingDegTenths: 900, SpeedDmPerS: 42,
			PingSampleCount: 3, FrameOffset: 0, SonOffset: 0,
		},
		{
			RecordNum: 1, TimeMs: 2000, UtmE: 2226400, UtmN: 1118900,
			Beam: pingtable.BeamLowFreqDown, FrequencyKHz: 200,
			PingSampleCount: 3, FrameOffset: 3, SonOffset: 0,
		},
	}

	datPath := filepath.Join(dir, "out.DAT")
	sonDir := filepath.Join(dir, "out")
	require.NoError(t, humminbird.Emit(datPath, sonDir, source, rows, humminbird.Summary{NumRecords: 2}))

	table, err := humminbird.ReadRecording(datPath, sonDir)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	require.Equal(t, int64(0), table.Rows[0].RecordNum)
	require.Equal(t, int64(1000), table.Rows[0].TimeMs)
	require.Equal(t, pingtable.BeamLowFreqDown, table.Rows[0].Beam)
	require.Equal(t, 200, table.Rows[0].FrequencyKHz)
	require.Equal(t, 130, table.Rows[0].FrequencyMinKHz)
	require.Equal(t, 210, table.Rows[0].FrequencyMaxKHz)
	require.Equal(t, int64(55), table.Rows[0].InstDepDm)
	require.Equal(t, int64(900), table.Rows[0].InstrHeadingDegTenths)
	require.Equal(t, int64(42), table.Rows[0].SpeedDmPerS)
	require.Equal(t, int64(3), table.Rows[0].PingSampleCount)

	require.Equal(t, int64(1), table.Rows[1].RecordNum)
	require.Equal(t, int64(2000), table.Rows[1].TimeMs)
}

func TestReadRecordingSkipsEmptyBeams(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.sl2")
	require.NoError(t, os.WriteFile(source, []byte{}, 0o644))

	datPath := filepath.Join(dir, "out.DAT")
	sonDir := filepath.Join(dir, "out")
	require.NoError(t, humminbird.Emit(datPath, sonDir, source, nil, humminbird.Summary{}))

	table, err := humminbird.ReadRecording(datPath, sonDir)
	require.NoError(t, err)
	require.Empty(t, table.Rows)
}
