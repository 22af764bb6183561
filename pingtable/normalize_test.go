package pingtable_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sixy6e/pingconv/pingtable"
)

func TestNormalizeHeading(t *testing.T) {
	table := &pingtable.Table{Rows: []pingtable.Row{
		{RawTrackCog: math.Pi / 2},
	}}

	pingtable.Normalize(table)

	require.Equal(t, int64(900), table.Rows[0].InstrHeadingDegTenths)
}

func TestNormalizeFrequencyCrosswalk(t *testing.T) {
	table := &pingtable.Table{Rows: []pingtable.Row{
		{RawFrequencyLabel: "130kHz_210kHz"},
	}}

	pingtable.Normalize(table)

	row := table.Rows[0]
	require.Equal(t, 170, row.FrequencyKHz)
	require.Equal(t, 130, row.FrequencyMinKHz)
	require.Equal(t, 210, row.FrequencyMaxKHz)
}

func TestNormalizeBeamCrosswalk(t *testing.T) {
	cases := []struct {
		raw  int
		beam pingtable.Beam
	}{
		{0, pingtable.BeamLowFreqDown},
		{1, pingtable.BeamHighFreqDown},
		{2, pingtable.BeamDownImage},
		{3, pingtable.BeamPortSS},
		{4, pingtable.BeamStarSS},
		{5, pingtable.BeamCombinedSS},
	}

	for _, c := range cases {
		table := &pingtable.Table{Rows: []pingtable.Row{{RawChannelType: c.raw}}}
		pingtable.Normalize(table)
		require.Equal(t, c.beam, table.Rows[0].Beam)
	}
}

func TestNormalizeUnknownBeam(t *testing.T) {
	table := &pingtable.Table{Rows: []pingtable.Row{{RawChannelType: 99}}}
	pingtable.Normalize(table)
	require.Equal(t, pingtable.BeamUnknown, table.Rows[0].Beam)
}

func TestNormalizeTimeAndDepth(t *testing.T) {
	table := &pingtable.Table{Rows: []pingtable.Row{
		{RawTimeS: 1.234, RawDepthFt: 12.5, RawGPSSpeed: 2.0},
	}}

	pingtable.Normalize(table)

	row := table.Rows[0]
	require.Equal(t, int64(1234), row.TimeMs)
	require.Equal(t, int64(125), row.InstDepDm)
	require.Equal(t, int64(20), row.SpeedDmPerS)
}

func TestByBeamGroupsPreservingOrder(t *testing.T) {
	table := &pingtable.Table{Rows: []pingtable.Row{
		{RecordNum: 0, Beam: pingtable.BeamLowFreqDown},
		{RecordNum: 1, Beam: pingtable.BeamHighFreqDown},
		{RecordNum: 2, Beam: pingtable.BeamLowFreqDown},
	}}

	byBeam := table.ByBeam()

	require.Len(t, byBeam[pingtable.BeamLowFreqDown], 2)
	require.Equal(t, int64(0), byBeam[pingtable.BeamLowFreqDown][0].RecordNum)
	require.Equal(t, int64(2), byBeam[pingtable.BeamLowFreqDown][1].RecordNum)
}
