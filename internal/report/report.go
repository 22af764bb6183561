// Package report renders a one-line human-readable summary of a
// conversion job for logging, in the teacher's style of a single
// purpose-built summary type per job (see go-gsf's qa.go).
package report

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Summary captures the handful of facts worth a log line once a job
// has finished discovering and parsing a recording.
type Summary struct {
	RecordingStart time.Time
	BeamCount      int
	PingCount      int
}

// Line formats the summary the way a CLI progress log would read it,
// rendering RecordingStart as a Gregorian day-of-year the way the
// original PINGVerter reference-time strings ("yyyy/ddd hh:mm:ss") are
// expressed, but in the opposite direction: calendar date to
// day-of-year rather than day-of-year to calendar date.
func (s Summary) Line() string {
	t := s.RecordingStart.UTC()
	doy := julian.DayOfYearGregorian(t.Year(), int(t.Month()), t.Day())

	return fmt.Sprintf(
		"recording start %04d day %03d, %02d:%02d:%02d UTC, %d beams, %d pings",
		t.Year(), doy, t.Hour(), t.Minute(), t.Second(), s.BeamCount, s.PingCount,
	)
}
