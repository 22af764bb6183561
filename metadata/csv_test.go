package metadata_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sixy6e/pingconv/metadata"
	"github.com/sixy6e/pingconv/pingtable"
)

func sampleRows() []pingtable.Row {
	return []pingtable.Row{
		{RecordNum: 0, TimeMs: 100, Beam: pingtable.BeamLowFreqDown, FrequencyKHz: 200},
		{RecordNum: 1, TimeMs: 200, Beam: pingtable.BeamLowFreqDown, FrequencyKHz: 200},
	}
}

func TestEmitCSVHeaderAndRowCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "beam0.csv")

	err := metadata.EmitCSV(path, sampleRows(), false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := splitLines(string(data))
	require.Len(t, lines, 3) // header + 2 rows
	require.Contains(t, lines[0], "record_num")
	require.NotContains(t, lines[0], "unknown_")
}

func TestEmitCSVIncludesUnknownColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "beam0.csv")

	err := metadata.EmitCSV(path, sampleRows(), true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "unknown_channel_id")
}

func TestEmitCSVParallelWritesAllTasks(t *testing.T) {
	dir := t.TempDir()
	tasks := []metadata.BeamCSVTask{
		{Rows: sampleRows(), OutPath: filepath.Join(dir, "b0.csv")},
		{Rows: sampleRows(), OutPath: filepath.Join(dir, "b1.csv")},
	}

	err := metadata.EmitCSVParallel(context.Background(), tasks)
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(dir, "b0.csv"))
	require.FileExists(t, filepath.Join(dir, "b1.csv"))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
