package screp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/WangQiHao-Charlie/screpd/pkg/driver"
)

// DefaultCommand is used when Config.ScrepPath is empty.
const DefaultCommand = "screp"

// Config controls how a Runner invokes screp.
type Config struct {
	// Path or name of the screp binary; default "screp".
	ScrepPath string
	// Per-invocation timeout; zero means none.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Result is the outcome of one screp run.
type Result struct {
	// Data is the decoded document, nil when screp produced none.
	Data *Data
	// Raw is the JSON document exactly as screp printed it.
	Raw json.RawMessage
	// Options are the resolved options screp ran with.
	Options Options
	// ExitCode is nil when the process did not exit on its own.
	ExitCode *int
	// Diagnostics holds the non-JSON lines screp printed on stdout.
	Diagnostics string
	// AbortSignal names the signal that terminated screp, if any.
	AbortSignal string
	Stderr      string
}

// HasValidResult reports whether screp produced a document and exited 0.
// A document with a non-zero exit is usable but not considered valid.
func (r *Result) HasValidResult() bool {
	return r.Data != nil && r.ExitCode != nil && *r.ExitCode == 0
}

// HasParseErrors reports whether screp printed diagnostics.
func (r *Result) HasParseErrors() bool { return r.Diagnostics != "" }

// Input is a replay given either as a file path or as its bytes.
type Input struct {
	Path string
	Data []byte
}

// FileInput refers to a replay file on disk.
func FileInput(path string) Input { return Input{Path: path} }

// BytesInput passes replay bytes to screp on stdin.
func BytesInput(data []byte) Input {
	if data == nil {
		data = []byte{}
	}
	return Input{Data: data}
}

// Stdin reports whether the input is streamed rather than read from a path.
func (in Input) Stdin() bool { return in.Data != nil }

// Runner executes screp through a driver.
type Runner struct {
	cfg Config
	drv driver.Driver
	log *slog.Logger
}

// New returns a Runner that executes screp through drv.
func New(drv driver.Driver, cfg Config) *Runner {
	if cfg.ScrepPath == "" {
		cfg.ScrepPath = DefaultCommand
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Runner{cfg: cfg, drv: drv, log: cfg.Logger}
}

// Command returns the screp binary the runner invokes.
func (r *Runner) Command() string { return r.cfg.ScrepPath }

// Available reports whether the screp binary can be found. It never gates
// Run.
func (r *Runner) Available() bool { return driver.CanRun(r.cfg.ScrepPath) }

// RunFile runs screp on a replay file.
func (r *Runner) RunFile(ctx context.Context, path string, opts Options) (*Result, error) {
	return r.Run(ctx, FileInput(path), opts)
}

// RunBytes runs screp on an in-memory replay.
func (r *Runner) RunBytes(ctx context.Context, data []byte, opts Options) (*Result, error) {
	return r.Run(ctx, BytesInput(data), opts)
}

// Run validates opts, invokes screp on in and reconciles its output.
//
// Invalid options, a missing input file and a screp binary that cannot be
// started are returned as errors before or instead of a Result. Anything
// screp itself prints, including nothing at all, ends up in the Result.
func (r *Runner) Run(ctx context.Context, in Input, opts Options) (*Result, error) {
	if err := Validate(opts); err != nil {
		return nil, err
	}
	resolved := Resolve(opts)
	args, err := BuildArguments(resolved, in.Stdin())
	if err != nil {
		return nil, err
	}

	req := driver.ExecReq{Timeout: r.cfg.Timeout}
	if in.Stdin() {
		req.Command = append([]string{r.cfg.ScrepPath}, args...)
		req.Stdin = in.Data
	} else {
		if _, err := os.Stat(in.Path); err != nil {
			return nil, fmt.Errorf("replay file: %w", err)
		}
		req.Command = append(append([]string{r.cfg.ScrepPath}, args...), in.Path)
	}

	r.log.Debug("running screp", slog.Any("args", args), slog.Bool("stdin", in.Stdin()))
	resp, err := r.drv.Execute(ctx, req)
	if err != nil && !errors.Is(err, driver.ErrTerminated) {
		return nil, fmt.Errorf("run %s: %w", r.cfg.ScrepPath, err)
	}
	return wrapResult(resp, resolved), nil
}

func wrapResult(resp driver.ExecResp, opts Options) *Result {
	rec := Reconcile(resp.Stdout)
	res := &Result{
		Data:        rec.Data,
		Raw:         rec.Raw,
		Options:     opts,
		Diagnostics: rec.Diagnostics,
		AbortSignal: resp.Signal,
		Stderr:      resp.Stderr,
	}
	if resp.Exited() {
		code := resp.ExitCode
		res.ExitCode = &code
	}
	return res
}

// Version runs screp -version. It returns nil if screp cannot be run or
// prints nothing.
func (r *Runner) Version(ctx context.Context) Version {
	resp, err := r.drv.Execute(ctx, driver.ExecReq{
		Command: []string{r.cfg.ScrepPath, SwitchVersion},
		Timeout: r.cfg.Timeout,
	})
	if err != nil {
		r.log.Debug("screp version unavailable", slog.Any("error", err))
		return nil
	}
	return ParseVersion(resp.Stdout)
}
