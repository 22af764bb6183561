package humminbird

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sixy6e/pingconv/pingtable"
)

func TestCoordinateRoundTrip(t *testing.T) {
	lat, lon := 10.0, 20.0

	table := &pingtable.Table{Rows: []pingtable.Row{
		{TimeMs: 0, Beam: pingtable.BeamLowFreqDown, Lat: lat, Lon: lon},
	}}

	Translate(table, 0, "/out/B002.SON")

	gotLat, gotLon := inverseProject(table.Rows[0].UtmE, table.Rows[0].UtmN)

	require.Less(t, math.Abs(gotLat-lat), 1e-3)
	require.Less(t, math.Abs(gotLon-lon), 1e-3)
}
