// Package resolver locates the concrete calibration inputs a pipeline stage
// needs inside the onsite data tree. All lookups are read-only filesystem
// traversals; failures propagate to the caller, never get defaulted.
package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/divyekant/calpipe/internal/index"
	"github.com/divyekant/calpipe/internal/layout"
)

// Resolver answers artifact lookups against one base directory.
type Resolver struct {
	BaseDir string
}

func New(baseDir string) *Resolver {
	return &Resolver{BaseDir: baseDir}
}

func (r *Resolver) kindDir(k layout.Kind) string {
	return filepath.Join(r.BaseDir, filepath.FromSlash(k.Dir()))
}

// canonical resolves symlink chains so downstream consumers see the real
// file even when a path segment (like the pro link) is a symlink.
func canonical(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return p
}

// Pedestal finds a pedestal baseline file by run or, when run is negative,
// by date. Exactly one of the two must be usable; otherwise the lookup
// fails with layout.ErrInvalidArgument.
func (r *Resolver) Pedestal(pro string, run int, date string) (string, error) {
	if run < 0 && date == "" {
		return "", fmt.Errorf("%w: must give at least a date or a run", layout.ErrInvalidArgument)
	}
	if run >= 0 {
		return r.PedestalByRun(pro, run)
	}
	return r.PedestalByDate(pro, date)
}

// PedestalByRun finds the pedestal file of one specific run, whatever date
// directory it lives under. ErrNotFound if the run was never processed
// under the given production version.
func (r *Resolver) PedestalByRun(pro string, run int) (string, error) {
	pattern, err := layout.SearchPattern(layout.Pedestal, pro, "", run)
	if err != nil {
		return "", err
	}
	p, err := index.Unique(r.kindDir(layout.Pedestal), pattern)
	if err != nil {
		return "", fmt.Errorf("pedestal run %d: %w", run, err)
	}
	return canonical(p), nil
}

// PedestalByDate finds the single pedestal file of one date under the given
// production version. More than one match is an AmbiguousError carrying
// every candidate — the operator must disambiguate by run.
func (r *Resolver) PedestalByDate(pro, date string) (string, error) {
	pattern, err := layout.SearchPattern(layout.Pedestal, pro, date, -1)
	if err != nil {
		return "", err
	}
	p, err := index.Unique(r.kindDir(layout.Pedestal), pattern)
	if err != nil {
		return "", fmt.Errorf("pedestal for date %s: %w", date, err)
	}
	return canonical(p), nil
}

// TimeCalibration finds the time-sampling correction that applies to the
// given observation run: the one with the greatest run number at or before
// it. Time calibrations are computed sporadically, so a floor lookup across
// all dates of the production version is the correct policy.
func (r *Resolver) TimeCalibration(pro string, run int) (string, error) {
	pattern, err := layout.SearchPattern(layout.TimeCalibration, pro, "", -1)
	if err != nil {
		return "", err
	}
	entry, err := index.Floor(r.kindDir(layout.TimeCalibration), pattern, run)
	if err != nil {
		return "", fmt.Errorf("time calibration for run %d (prod %s): %w", run, pro, err)
	}
	return canonical(entry.Path), nil
}

// TimeCalibrationByRun finds the time calibration of one explicit run
// across all dates. Exactness is the caller's intent here: a missing run is
// ErrNotFound even when floor candidates would exist.
func (r *Resolver) TimeCalibrationByRun(pro string, timeRun int) (string, error) {
	pattern, err := layout.SearchPattern(layout.TimeCalibration, pro, "", timeRun)
	if err != nil {
		return "", err
	}
	p, err := index.Unique(r.kindDir(layout.TimeCalibration), pattern)
	if err != nil {
		return "", fmt.Errorf("time calibration run %d: %w", timeRun, err)
	}
	return canonical(p), nil
}

// RunSummary checks for the per-date run-summary index file. The name has
// no wildcard component, so this is a plain existence check.
func (r *Resolver) RunSummary(date string) (string, error) {
	name, err := layout.SearchPattern(layout.RunSummary, "", date, -1)
	if err != nil {
		return "", err
	}
	p := filepath.Join(r.kindDir(layout.RunSummary), name)
	if _, statErr := os.Stat(p); statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return "", fmt.Errorf("run summary %s: %w", p, index.ErrNotFound)
		}
		return "", fmt.Errorf("run summary %s: %w", p, statErr)
	}
	return p, nil
}

// R0SubRun finds the raw-data file of one sub-run, globbing across date
// directories. The earliest match in sorted order wins, matching how the
// acquisition lays files out.
func (r *Resolver) R0SubRun(run, subRun int) (string, error) {
	matches, err := index.Search(r.kindDir(layout.R0), layout.R0SubRunPattern(run, subRun))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("R0 run %d.%04d: %w", run, subRun, index.ErrNotFound)
	}
	return matches[0], nil
}

// NightOf derives the observation date from an R0 file path: the name of
// its immediate parent directory.
func NightOf(r0Path string) string {
	return filepath.Base(filepath.Dir(r0Path))
}
