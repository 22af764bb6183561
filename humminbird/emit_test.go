package humminbird_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sixy6e/pingconv/humminbird"
	"github.com/sixy6e/pingconv/pingtable"
)

func TestEmitCreatesAllFiveBeamsEvenWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.sl2")
	require.NoError(t, os.WriteFile(source, []byte{}, 0o644))

	datPath := filepath.Join(dir, "out.DAT")
	sonDir := filepath.Join(dir, "out")

	err := humminbird.Emit(datPath, sonDir, source, nil, humminbird.Summary{})
	require.NoError(t, err)

	for b := 0; b < 5; b++ {
		son := filepath.Join(sonDir, fileName(b, "SON"))
		idx := filepath.Join(sonDir, fileName(b, "IDX"))
		require.FileExists(t, son)
		require.FileExists(t, idx)

		info, err := os.Stat(son)
		require.NoError(t, err)
		require.Zero(t, info.Size())
	}
}

func TestEmitFrameTaggingAndIdxLockstep(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.sl2")
	require.NoError(t, os.WriteFile(source, []byte{0xDE, 0xAD, 0xBE, 0xEF}, 0o644))

	rows := []pingtable.Row{
		{
			RecordNum: 0, TimeMs: 1000, UtmE: 10, UtmN: 20,
			Beam: pingtable.BeamLowFreqDown, PingSampleCount: 4,
			FrameOffset: 0, SonOffset: 0,
		},
	}

	datPath := filepath.Join(dir, "out.DAT")
	sonDir := filepath.Join(dir, "out")

	err := humminbird.Emit(datPath, sonDir, source, rows, humminbird.Summary{NumRecords: 1})
	require.NoError(t, err)

	sonPath := filepath.Join(sonDir, "B000.SON")
	sonBytes, err := os.ReadFile(sonPath)
	require.NoError(t, err)

	require.Equal(t, humminbird.HeadStart, binary.BigEndian.Uint32(sonBytes[0:4]))
	require.Equal(t, byte(128), sonBytes[4]) // record_num tag
	require.Equal(t, byte(129), sonBytes[9]) // time_ms tag
	require.Equal(t, humminbird.HeadEnd, sonBytes[len(sonBytes)-1-4]) // before the 4-byte payload

	idxPath := filepath.Join(sonDir, "B000.IDX")
	idxBytes, err := os.ReadFile(idxPath)
	require.NoError(t, err)
	require.Len(t, idxBytes, 8)

	gotTime := binary.BigEndian.Uint32(idxBytes[0:4])
	gotLen := binary.BigEndian.Uint32(idxBytes[4:8])
	require.Equal(t, uint32(1000), gotTime)
	require.Equal(t, uint32(len(sonBytes)), gotLen)
}

func fileName(beam int, ext string) string {
	return "B00" + string(rune('0'+beam)) + "." + ext
}
