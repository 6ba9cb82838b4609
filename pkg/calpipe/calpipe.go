// Package calpipe provides a thin Go SDK for programmatic access to the
// calibration-artifact lookups and the production pointer. It wraps the
// internal packages with a stable API.
package calpipe

import (
	"github.com/divyekant/calpipe/internal/config"
	"github.com/divyekant/calpipe/internal/pointer"
	"github.com/divyekant/calpipe/internal/resolver"
)

// Options configures a Client. Zero values fall back to the environment
// configuration.
type Options struct {
	BaseDir     string
	ProdVersion string
}

// Client answers calibration lookups against one data tree.
type Client struct {
	res *resolver.Resolver
	pro string
	ptr pointer.Pointer
}

// New creates a Client over the given data tree.
func New(opts Options) *Client {
	cfg := config.Load()
	if opts.BaseDir == "" {
		opts.BaseDir = cfg.BaseDir
	}
	if opts.ProdVersion == "" {
		opts.ProdVersion = cfg.ProdVersion
	}
	return &Client{
		res: resolver.New(opts.BaseDir),
		pro: opts.ProdVersion,
		ptr: pointer.NewSymlink(),
	}
}

// PedestalByRun finds the pedestal file of one specific run.
func (c *Client) PedestalByRun(run int) (string, error) {
	return c.res.PedestalByRun(c.pro, run)
}

// PedestalByDate finds the single pedestal file of one date.
func (c *Client) PedestalByDate(date string) (string, error) {
	return c.res.PedestalByDate(c.pro, date)
}

// TimeCalibration finds the time calibration that applies to a run: the
// most recent one at or before it.
func (c *Client) TimeCalibration(run int) (string, error) {
	return c.res.TimeCalibration(c.pro, run)
}

// TimeCalibrationByRun finds the time calibration of one explicit run.
func (c *Client) TimeCalibrationByRun(timeRun int) (string, error) {
	return c.res.TimeCalibrationByRun(c.pro, timeRun)
}

// RunSummary finds the run-summary index of a date.
func (c *Client) RunSummary(date string) (string, error) {
	return c.res.RunSummary(date)
}

// R0SubRun finds the raw-data file of one sub-run.
func (c *Client) R0SubRun(run, subRun int) (string, error) {
	return c.res.R0SubRun(run, subRun)
}

// Promote points the pro link at the given output directory.
func (c *Client) Promote(targetDir string) error {
	return c.ptr.Promote(targetDir)
}
