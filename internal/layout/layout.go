// Package layout defines the path conventions of the onsite data tree:
// which subtree each artifact kind lives in, how run numbers are embedded
// in filenames, and how glob search patterns for the index are built.
// Everything here is pure string manipulation; no I/O.
package layout

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies one class of artifact stored in the data tree.
type Kind int

const (
	R0 Kind = iota
	Pedestal
	TimeCalibration
	RunSummary
)

// Per-kind subtrees, relative to the base directory of the data tree.
const (
	R0Dir              = "R0"
	PedestalDir        = "monitoring/PixelCalibration/LevelA/drs4_baseline"
	TimeCalibrationDir = "monitoring/PixelCalibration/LevelA/drs4_time_sampling_from_FF"
	RunSummaryDir      = "monitoring/RunSummary"
)

// ErrInvalidArgument is returned when a query lacks the information needed
// to build an unambiguous search pattern (e.g. neither run nor date given).
var ErrInvalidArgument = errors.New("invalid argument")

func (k Kind) String() string {
	switch k {
	case R0:
		return "r0"
	case Pedestal:
		return "drs4_pedestal"
	case TimeCalibration:
		return "time_calibration"
	case RunSummary:
		return "run_summary"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Dir returns the subtree for the kind, relative to the base directory.
func (k Kind) Dir() string {
	switch k {
	case R0:
		return R0Dir
	case Pedestal:
		return PedestalDir
	case TimeCalibration:
		return TimeCalibrationDir
	case RunSummary:
		return RunSummaryDir
	}
	return ""
}

// FormatRun renders a run number the way filenames embed it: zero-padded
// to five digits, e.g. FormatRun(123) == "Run00123".
func FormatRun(run int) string {
	return fmt.Sprintf("Run%05d", run)
}

// PedestalFilename returns the filename of a pedestal baseline file for the
// given run, e.g. "drs4_pedestal.Run00123.0000.h5".
func PedestalFilename(run int) string {
	return fmt.Sprintf("drs4_pedestal.Run%05d.0000.h5", run)
}

// TimeCalibrationFilename returns the filename of a time-sampling
// correction file for the given run.
func TimeCalibrationFilename(run int) string {
	return fmt.Sprintf("time_calibration.Run%05d.0000.h5", run)
}

// RunSummaryFilename returns the per-date run-summary index filename.
// The name has no wildcard component; lookups are a plain existence check.
func RunSummaryFilename(date string) string {
	return fmt.Sprintf("RunSummary_%s.ecsv", date)
}

// R0SubRunPattern matches the raw-data file of one sub-run across all date
// directories under the R0 subtree.
func R0SubRunPattern(run, subRun int) string {
	return fmt.Sprintf("**/LST-1.1.Run%05d.%04d*.fits.fz", run, subRun)
}

// OutputDir returns the dated, versioned output directory for the kind,
// relative to the base directory.
func OutputDir(k Kind, date, pro string) string {
	return path.Join(k.Dir(), date, pro)
}

// SearchPattern builds the glob pattern for a calibration lookup, relative
// to the kind's subtree. A negative run means "any run"; an empty date means
// "any date". At least one of the two must be given for kinds that need
// disambiguation.
func SearchPattern(k Kind, pro, date string, run int) (string, error) {
	switch k {
	case Pedestal:
		if run >= 0 {
			// A specific pedestal run, whatever date it was taken on.
			return path.Join("**", pro, PedestalFilename(run)), nil
		}
		if date == "" {
			return "", fmt.Errorf("%w: pedestal lookup needs a run or a date", ErrInvalidArgument)
		}
		return path.Join(date, pro, "drs4_pedestal*.0000.h5"), nil

	case TimeCalibration:
		if run >= 0 {
			return path.Join("**", pro, TimeCalibrationFilename(run)), nil
		}
		return path.Join("**", pro, "time_calibration.Run*.0000.h5"), nil

	case RunSummary:
		if date == "" {
			return "", fmt.Errorf("%w: run summary lookup needs a date", ErrInvalidArgument)
		}
		return RunSummaryFilename(date), nil
	}
	return "", fmt.Errorf("%w: no search pattern for kind %s", ErrInvalidArgument, k)
}

// RunInfo holds the run and sub-run numbers parsed out of a filename.
type RunInfo struct {
	Run    int
	SubRun int
}

// runInfoRe matches the "RunNNNNN.MMMM" fragment embedded in artifact names.
var runInfoRe = regexp.MustCompile(`Run(\d+)\.(\d+)`)

// ParseRunInfo extracts the run and sub-run numbers from an artifact
// filename such as "drs4_pedestal.Run00123.0000.h5" or
// "dl2_LST-1.Run02008.0000.h5". The error marks a name that does not follow
// the convention; index candidates with such names are skipped, not fatal.
func ParseRunInfo(name string) (RunInfo, error) {
	m := runInfoRe.FindStringSubmatch(path.Base(name))
	if m == nil {
		return RunInfo{}, fmt.Errorf("no run number in %q", path.Base(name))
	}
	run, err := strconv.Atoi(m[1])
	if err != nil {
		return RunInfo{}, err
	}
	subRun, err := strconv.Atoi(m[2])
	if err != nil {
		return RunInfo{}, err
	}
	return RunInfo{Run: run, SubRun: subRun}, nil
}

// DL2ToDL3Filename maps a DL2 filename to its DL3 counterpart:
// "dl2_LST-1.Run02008.0000.h5" becomes "dl3_LST-1.Run02008.0000.fits.gz".
func DL2ToDL3Filename(dl2 string) string {
	name := path.Base(dl2)
	name = strings.Replace(name, "dl2", "dl3", 1)
	name = strings.TrimSuffix(name, ".h5")
	return name + ".fits.gz"
}
