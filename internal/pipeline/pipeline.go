// Package pipeline sequences the onsite calibration stages: pedestal
// baseline, time-sampling calibration, and DL3 reduction. Each stage
// resolves its inputs through the resolver, delegates the computation to an
// external binary, records provenance, and promotes the production pointer
// over its output directory.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/divyekant/calpipe/internal/config"
	"github.com/divyekant/calpipe/internal/layout"
	"github.com/divyekant/calpipe/internal/pointer"
	"github.com/divyekant/calpipe/internal/provenance"
	"github.com/divyekant/calpipe/internal/resolver"
)

// Runner executes an external processing stage. Tests substitute a stub so
// no real binaries run.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// NewRunner returns the default Runner backed by exec.
func NewRunner() Runner { return execRunner{} }

// Config holds all the dependencies the pipeline stages need.
type Config struct {
	BaseDir     string
	ProdVersion string
	Tools       config.Tools
	Runner      Runner          // defaults to exec
	Pointer     pointer.Pointer // defaults to the pro symlink
	// ConfirmFn is asked before an existing output file is removed.
	// Nil means never overwrite without an explicit Overwrite option.
	ConfirmFn func(prompt string) bool
	// ProgressFn is an optional per-step callback for console output.
	ProgressFn func(step string)
}

func (c *Config) defaults() {
	if c.Runner == nil {
		c.Runner = NewRunner()
	}
	if c.Pointer == nil {
		c.Pointer = pointer.NewSymlink()
	}
	if c.ProgressFn == nil {
		c.ProgressFn = func(string) {}
	}
}

// StageResult reports what one stage consumed and produced.
type StageResult struct {
	Stage      string
	Date       string
	Input      string
	Output     string
	Provenance string
}

// ensureOutput prepares the dated, versioned output directory plus its log
// subdirectory and returns both.
func ensureOutput(baseDir string, kind layout.Kind, date, pro string) (outDir, logDir string, err error) {
	outDir = filepath.Join(baseDir, filepath.FromSlash(layout.OutputDir(kind, date, pro)))
	logDir = filepath.Join(outDir, "log")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}
	return outDir, logDir, nil
}

// clearExisting handles a pre-existing output file: remove it when the
// caller allowed overwriting (or confirms interactively), refuse otherwise.
func clearExisting(cfg Config, path string, overwrite bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if !overwrite {
		if cfg.ConfirmFn == nil || !cfg.ConfirmFn(fmt.Sprintf("Output file %s exists already. Remove it?", path)) {
			return fmt.Errorf("output file %s exists already", path)
		}
	}
	return os.Remove(path)
}

// PedestalOptions configures the pedestal baseline stage.
type PedestalOptions struct {
	Run       int
	SubRun    int
	MaxEvents int
	Overwrite bool
}

// RunPedestal computes the DRS4 pedestal baseline for one run and promotes
// its output directory to production.
func RunPedestal(ctx context.Context, cfg Config, opts PedestalOptions) (*StageResult, error) {
	cfg.defaults()
	res := resolver.New(cfg.BaseDir)

	cfg.ProgressFn("locate R0 data")
	input, err := res.R0SubRun(opts.Run, opts.SubRun)
	if err != nil {
		return nil, err
	}
	date := resolver.NightOf(input)

	outDir, logDir, err := ensureOutput(cfg.BaseDir, layout.Pedestal, date, cfg.ProdVersion)
	if err != nil {
		return nil, err
	}
	output := filepath.Join(outDir, layout.PedestalFilename(opts.Run))
	if err := clearExisting(cfg, output, opts.Overwrite); err != nil {
		return nil, err
	}

	rec := provenance.Start("drs4_pedestal")
	rec.AddInput("r0", input)
	rec.AddOutput("pedestal", output)

	args := []string{
		fmt.Sprintf("--input-file=%s", input),
		fmt.Sprintf("--output-file=%s", output),
		fmt.Sprintf("--max-events=%d", opts.MaxEvents),
	}
	args = append(args, cfg.Tools.Pedestal.ExtraArgs...)
	rec.Command = append([]string{cfg.Tools.Pedestal.Binary}, args...)

	cfg.ProgressFn("compute pedestal baseline")
	runErr := cfg.Runner.Run(ctx, cfg.Tools.Pedestal.Binary, args...)
	rec.Finish(runErr)
	provPath, provErr := rec.Write(logDir)
	if provErr != nil {
		log.Printf("pipeline: warning: %v", provErr)
	}
	if runErr != nil {
		return nil, fmt.Errorf("pedestal stage: %w", runErr)
	}

	cfg.ProgressFn("promote production pointer")
	if err := cfg.Pointer.Promote(outDir); err != nil {
		return nil, err
	}

	return &StageResult{
		Stage:      "drs4_pedestal",
		Date:       date,
		Input:      input,
		Output:     output,
		Provenance: provPath,
	}, nil
}

// TimeCalOptions configures the time-sampling calibration stage.
type TimeCalOptions struct {
	Run         int // flat-field run
	SubRun      int
	PedestalRun int // negative: use the pedestal of the same date
	StatEvents  int
	Overwrite   bool
}

// RunTimeCalibration computes the DRS4 time-sampling correction from a
// flat-field run, resolving the pedestal file and run summary it depends
// on, and promotes its output directory to production.
func RunTimeCalibration(ctx context.Context, cfg Config, opts TimeCalOptions) (*StageResult, error) {
	cfg.defaults()
	res := resolver.New(cfg.BaseDir)

	cfg.ProgressFn("locate R0 data")
	input, err := res.R0SubRun(opts.Run, opts.SubRun)
	if err != nil {
		return nil, err
	}
	date := resolver.NightOf(input)

	cfg.ProgressFn("resolve run summary")
	summary, err := res.RunSummary(date)
	if err != nil {
		return nil, err
	}

	cfg.ProgressFn("resolve pedestal file")
	pedestal, err := res.Pedestal(cfg.ProdVersion, opts.PedestalRun, date)
	if err != nil {
		return nil, err
	}

	outDir, logDir, err := ensureOutput(cfg.BaseDir, layout.TimeCalibration, date, cfg.ProdVersion)
	if err != nil {
		return nil, err
	}
	output := filepath.Join(outDir, layout.TimeCalibrationFilename(opts.Run))
	if err := clearExisting(cfg, output, opts.Overwrite); err != nil {
		return nil, err
	}

	rec := provenance.Start("time_calibration")
	rec.AddInput("r0", input)
	rec.AddInput("pedestal", pedestal)
	rec.AddInput("run_summary", summary)
	rec.AddOutput("time_calibration", output)

	args := []string{
		fmt.Sprintf("--input-file=%s", input),
		fmt.Sprintf("--output-file=%s", output),
		fmt.Sprintf("--run-summary-path=%s", summary),
		fmt.Sprintf("--pedestal-file=%s", pedestal),
		fmt.Sprintf("--max-events=%d", opts.StatEvents),
	}
	if cfg.Tools.TimeCalibration.Config != "" {
		args = append(args, fmt.Sprintf("--config=%s", cfg.Tools.TimeCalibration.Config))
	}
	args = append(args, cfg.Tools.TimeCalibration.ExtraArgs...)
	rec.Command = append([]string{cfg.Tools.TimeCalibration.Binary}, args...)

	cfg.ProgressFn("compute time calibration")
	runErr := cfg.Runner.Run(ctx, cfg.Tools.TimeCalibration.Binary, args...)
	rec.Finish(runErr)
	provPath, provErr := rec.Write(logDir)
	if provErr != nil {
		log.Printf("pipeline: warning: %v", provErr)
	}
	if runErr != nil {
		return nil, fmt.Errorf("time calibration stage: %w", runErr)
	}

	cfg.ProgressFn("promote production pointer")
	if err := cfg.Pointer.Promote(outDir); err != nil {
		return nil, err
	}

	return &StageResult{
		Stage:      "time_calibration",
		Date:       date,
		Input:      input,
		Output:     output,
		Provenance: provPath,
	}, nil
}

// DL3Options configures the DL3 reduction stage.
type DL3Options struct {
	DL2File    string
	IRFFile    string
	OutputDir  string // defaults to <base>/DL3/<prod>
	SourceName string
	SourceRA   string
	SourceDec  string
	Overwrite  bool
}

// RunDL3 turns a DL2 file into a DL3 event list using the given IRF. The
// time-calibration and pedestal lineage is already baked into the DL2 file,
// so this stage only validates its direct inputs.
func RunDL3(ctx context.Context, cfg Config, opts DL3Options) (*StageResult, error) {
	cfg.defaults()

	if _, err := layout.ParseRunInfo(opts.DL2File); err != nil {
		return nil, fmt.Errorf("%w: DL2 filename: %v", layout.ErrInvalidArgument, err)
	}
	if _, err := os.Stat(opts.DL2File); err != nil {
		return nil, fmt.Errorf("DL2 file: %w", err)
	}
	if opts.IRFFile != "" {
		if _, err := os.Stat(opts.IRFFile); err != nil {
			return nil, fmt.Errorf("IRF file: %w", err)
		}
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = filepath.Join(cfg.BaseDir, "DL3", cfg.ProdVersion)
	}
	logDir := filepath.Join(outDir, "log")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	output := filepath.Join(outDir, layout.DL2ToDL3Filename(opts.DL2File))
	if err := clearExisting(cfg, output, opts.Overwrite); err != nil {
		return nil, err
	}

	rec := provenance.Start("dl3")
	rec.AddInput("dl2", opts.DL2File)
	if opts.IRFFile != "" {
		rec.AddInput("irf", opts.IRFFile)
	}
	rec.AddOutput("dl3", output)

	args := []string{
		fmt.Sprintf("--input-dl2=%s", opts.DL2File),
		fmt.Sprintf("--output-dl3-path=%s", outDir),
	}
	if opts.IRFFile != "" {
		args = append(args, fmt.Sprintf("--input-irf=%s", opts.IRFFile))
	}
	if opts.SourceName != "" {
		args = append(args, fmt.Sprintf("--source-name=%s", opts.SourceName))
	}
	if opts.SourceRA != "" {
		args = append(args, fmt.Sprintf("--source-ra=%s", opts.SourceRA))
	}
	if opts.SourceDec != "" {
		args = append(args, fmt.Sprintf("--source-dec=%s", opts.SourceDec))
	}
	if opts.Overwrite {
		args = append(args, "--overwrite")
	}
	args = append(args, cfg.Tools.DL3.ExtraArgs...)
	rec.Command = append([]string{cfg.Tools.DL3.Binary}, args...)

	cfg.ProgressFn("write DL3 event list")
	runErr := cfg.Runner.Run(ctx, cfg.Tools.DL3.Binary, args...)
	rec.Finish(runErr)
	provPath, provErr := rec.Write(logDir)
	if provErr != nil {
		log.Printf("pipeline: warning: %v", provErr)
	}
	if runErr != nil {
		return nil, fmt.Errorf("dl3 stage: %w", runErr)
	}

	return &StageResult{
		Stage:      "dl3",
		Input:      opts.DL2File,
		Output:     output,
		Provenance: provPath,
	}, nil
}
