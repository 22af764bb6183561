// Package metadata writes normalized ping-attribute tables to CSV for
// downstream consumption (spec.md §4.8).
package metadata

import (
	"context"
	"encoding/csv"
	"os"
	"runtime"
	"strconv"

	"github.com/alitto/pond"

	"github.com/sixy6e/pingconv/pingtable"
)

// columns is the fixed CSV column order: the derived schema's
// canonical fields plus the computed columns (spec.md §4.8).
var columns = []string{
	"record_num", "time_ms", "utm_e", "utm_n", "lat", "lon",
	"instr_heading_deg_tenths", "speed_dm_per_s", "inst_dep_dm", "beam",
	"frequency_khz", "frequency_min_khz", "frequency_max_khz",
	"ping_sample_count", "frame_offset", "son_offset",
}

// unknownColumns is appended after columns only when exportUnknown is
// set (spec.md §4.8).
var unknownColumns = []string{
	"unknown_channel_id", "unknown_bottom_depth_flag", "unknown_drawn_bottom_depth",
	"unknown_drawn_bottom_depth_flag", "unknown_first_sample_depth", "unknown_last_sample_depth",
	"unknown_last_sample_depth_flag", "unknown_gain", "unknown_sample_status",
	"unknown_shade_avail", "unknown_water_temp", "unknown_0d_value", "unknown_0d_flag",
	"unknown_12", "unknown_15_value", "unknown_15_flag",
}

// EmitCSV writes rows to path as a CSV with the fixed column order,
// including unknown_* columns only when exportUnknown is set.
func EmitCSV(path string, rows []pingtable.Row, exportUnknown bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := columns
	if exportUnknown {
		header = append(append([]string{}, columns...), unknownColumns...)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := rowToFields(row)
		if exportUnknown {
			record = append(record, unknownFields(row)...)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Error()
}

// BeamCSVTask describes one beam's independent source->csv job for
// EmitCSVParallel, matching spec.md §5's contract: each task owns its
// own row slice and output file, with no shared state.
type BeamCSVTask struct {
	Rows          []pingtable.Row
	OutPath       string
	ExportUnknown bool
}

// EmitCSVParallel runs one EmitCSV call per task on a fixed worker
// pool, fanning out across beams (spec.md §5, §9 "Parallel per-beam
// CSV emission"). Each task is independent: no shared readers, no
// shared buffers, results are files. The first error observed across
// all tasks is returned after every task has completed.
func EmitCSVParallel(ctx context.Context, tasks []BeamCSVTask) error {
	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	errs := make([]error, len(tasks))
	for i, t := range tasks {
		i, t := i, t
		pool.Submit(func() {
			errs[i] = EmitCSV(t.OutPath, t.Rows, t.ExportUnknown)
		})
	}
	pool.StopAndWait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func rowToFields(r pingtable.Row) []string {
	return []string{
		strconv.FormatInt(r.RecordNum, 10),
		strconv.FormatInt(r.TimeMs, 10),
		strconv.FormatFloat(r.UtmE, 'f', -1, 64),
		strconv.FormatFloat(r.UtmN, 'f', -1, 64),
		strconv.FormatFloat(r.Lat, 'f', -1, 64),
		strconv.FormatFloat(r.Lon, 'f', -1, 64),
		strconv.FormatInt(r.InstrHeadingDegTenths, 10),
		strconv.FormatInt(r.SpeedDmPerS, 10),
		strconv.FormatInt(r.InstDepDm, 10),
		strconv.Itoa(int(r.Beam)),
		strconv.Itoa(r.FrequencyKHz),
		strconv.Itoa(r.FrequencyMinKHz),
		strconv.Itoa(r.FrequencyMaxKHz),
		strconv.FormatInt(r.PingSampleCount, 10),
		strconv.FormatInt(r.FrameOffset, 10),
		strconv.FormatInt(r.SonOffset, 10),
	}
}

func unknownFields(r pingtable.Row) []string {
	return []string{
		strconv.Itoa(int(r.ChannelID)),
		strconv.Itoa(int(r.BottomDepthFlag)),
		strconv.Itoa(int(r.DrawnBottomDepth)),
		strconv.Itoa(int(r.DrawnBottomDepthFlag)),
		strconv.Itoa(int(r.FirstSampleDepth)),
		strconv.Itoa(int(r.LastSampleDepth)),
		strconv.Itoa(int(r.LastSampleDepthFlag)),
		strconv.Itoa(int(r.Gain)),
		strconv.Itoa(int(r.SampleStatus)),
		strconv.Itoa(int(r.ShadeAvail)),
		strconv.FormatFloat(float64(r.WaterTemp), 'f', -1, 32),
		strconv.FormatUint(uint64(r.Unknown0DValue), 10),
		strconv.Itoa(int(r.Unknown0DFlag)),
		strconv.Itoa(int(r.Unknown12)),
		strconv.FormatUint(uint64(r.Unknown15Value), 10),
		strconv.Itoa(int(r.Unknown15Flag)),
	}
}
