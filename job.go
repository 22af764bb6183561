// Package pingconv converts recreational sonar logs between Vendor-L
// (Lowrance) and Vendor-H (Humminbird) binary formats and a normalized
// tabular ping-metadata form. The three entry points below are pure,
// sequential, single-threaded pipelines (spec.md §5): discover, parse,
// normalize, then translate/emit or emit-CSV.
package pingconv

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sixy6e/pingconv/bio"
	"github.com/sixy6e/pingconv/encode"
	"github.com/sixy6e/pingconv/humminbird"
	"github.com/sixy6e/pingconv/internal/report"
	"github.com/sixy6e/pingconv/internal/sonarerr"
	"github.com/sixy6e/pingconv/lowrance"
	"github.com/sixy6e/pingconv/metadata"
	"github.com/sixy6e/pingconv/pingtable"
)

// Low2HumOptions configures Low2Hum.
type Low2HumOptions struct {
	// InputFile is the source Vendor-L recording.
	InputFile string
	// OutputStem is the path prefix for the `<stem>.DAT` summary file
	// and its companion `<stem>/` SON/IDX directory.
	OutputStem string
}

// Low2Hum rewrites a Vendor-L recording into a byte-level-compatible
// Vendor-H directory (spec.md §1, the "L → H" transform).
func Low2Hum(opts Low2HumOptions) error {
	table, header, err := discoverAndParse(opts.InputFile)
	if err != nil {
		return err
	}
	pingtable.Normalize(table)

	datPath := opts.OutputStem + ".DAT"
	sonDir := opts.OutputStem
	portFile := filepath.Join(sonDir, "B002.SON")

	summary := humminbird.Translate(table, header.RecordingStartEpoch, portFile)

	logSummary(header, table)

	if err := humminbird.Emit(datPath, sonDir, opts.InputFile, table.Rows, summary); err != nil {
		return err
	}

	_, err = encode.WriteJSON(opts.OutputStem+".summary.json", summary)
	return err
}

// Low2NormalizedOptions configures Low2Normalized.
type Low2NormalizedOptions struct {
	InputFile     string
	OutDir        string
	ExportUnknown bool
}

// Low2Normalized parses a Vendor-L recording and writes per-beam
// normalized ping-attribute CSVs (spec.md §1, "L/H → normalized
// metadata CSVs").
func Low2Normalized(opts Low2NormalizedOptions) error {
	table, header, err := discoverAndParse(opts.InputFile)
	if err != nil {
		return err
	}
	pingtable.Normalize(table)

	logSummary(header, table)

	if err := emitPerBeamCSV(table, opts.OutDir, opts.ExportUnknown); err != nil {
		return err
	}

	return writeSummarySidecar(opts.OutDir, report.Summary{
		RecordingStart: time.Unix(int64(header.RecordingStartEpoch), 0),
		BeamCount:      len(table.ByBeam()),
		PingCount:      len(table.Rows),
	})
}

// Hum2NormalizedOptions configures Hum2Normalized. ChunkSize and
// TemperatureC are carried for parity with spec.md §6.4's signature;
// neither affects the Vendor-H binary read path (sample returns are
// copied byte-for-byte and are not resampled, and Vendor-H ping
// headers carry no raw temperature field to calibrate).
type Hum2NormalizedOptions struct {
	InputFile     string // path to the recording's `<name>.DAT`
	OutDir        string
	ChunkSize     int
	TemperatureC  float64
	ExportUnknown bool
}

// Hum2Normalized reads a Vendor-H recording and writes per-beam
// normalized ping-attribute CSVs.
func Hum2Normalized(opts Hum2NormalizedOptions) error {
	sonDir := sonDirFor(opts.InputFile)

	table, err := humminbird.ReadRecording(opts.InputFile, sonDir)
	if err != nil {
		return err
	}

	if err := emitPerBeamCSV(table, opts.OutDir, opts.ExportUnknown); err != nil {
		return err
	}

	return writeSummarySidecar(opts.OutDir, report.Summary{
		BeamCount: len(table.ByBeam()),
		PingCount: len(table.Rows),
	})
}

// sonDirFor derives a Vendor-H recording's companion SON/IDX directory
// from its `.DAT` path (spec.md §6.2: `<name>.DAT` alongside `<name>/`).
func sonDirFor(datPath string) string {
	dir := filepath.Dir(datPath)
	base := filepath.Base(datPath)
	stem := base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(dir, stem)
}

// discoverAndParse opens a Vendor-L file, discovers its recording
// header and streams its ping frames into a table (spec.md §2 data
// flow: Reader → Discoverer → Parser).
func discoverAndParse(path string) (*pingtable.Table, *lowrance.RecordingHeader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, sonarerr.ErrMissingInput
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := bio.NewReader(f)

	header, err := lowrance.DiscoverHeader(r)
	if err != nil {
		return nil, nil, err
	}

	table, err := lowrance.ParsePings(r, header)
	if err != nil {
		return nil, nil, err
	}

	return table, header, nil
}

// writeSummarySidecar writes a job's report.Summary to summary.json
// alongside its CSV output, for downstream tooling that wants the
// counts without reparsing the CSVs.
func writeSummarySidecar(outDir string, s report.Summary) error {
	_, err := encode.WriteJSON(filepath.Join(outDir, "summary.json"), s)
	return err
}

func emitPerBeamCSV(table *pingtable.Table, outDir string, exportUnknown bool) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	byBeam := table.ByBeam()
	for beam, rows := range byBeam {
		path := filepath.Join(outDir, fmt.Sprintf("B00%d.csv", int(beam)))
		if err := metadata.EmitCSV(path, rows, exportUnknown); err != nil {
			return err
		}
	}
	return nil
}

func logSummary(header *lowrance.RecordingHeader, table *pingtable.Table) {
	s := report.Summary{
		RecordingStart: time.Unix(int64(header.RecordingStartEpoch), 0),
		BeamCount:      len(table.ByBeam()),
		PingCount:      len(table.Rows),
	}
	fmt.Println(s.Line())
}
