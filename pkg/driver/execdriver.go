package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// Config controls the behavior of ExecDriver.
type Config struct {
	// Absolute paths of allowed binaries for argv[0]. Empty allows any
	// binary found on PATH.
	AllowedBinaries []string

	// Concurrency control; number of concurrent execs.
	MaxConcurrency int

	// Timeout grace period between SIGTERM and SIGKILL when timing out/canceled.
	TerminationGrace time.Duration // default 5s

	Logger *slog.Logger // default slog.Default()
}

// ExecDriver runs local binaries in their own process group and collects
// their complete output.
type ExecDriver struct {
	cfg  Config
	sema chan struct{}
	log  *slog.Logger

	// metrics
	mActive   int64    // gauge
	mSuccess  uint64   // counter
	mDuration struct { // naive histogram: sum and count
		sumMicros uint64
		count     uint64
	}
}

// NewExecDriver creates a Driver that executes local binaries.
func NewExecDriver(cfg Config) *ExecDriver {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.TerminationGrace <= 0 {
		cfg.TerminationGrace = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &ExecDriver{
		cfg:  cfg,
		sema: make(chan struct{}, cfg.MaxConcurrency),
		log:  cfg.Logger,
	}
}

// CanRun reports whether name resolves to an executable on PATH.
func CanRun(name string) bool {
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}

func (d *ExecDriver) Execute(ctx context.Context, req ExecReq) (ExecResp, error) {
	if len(req.Command) == 0 {
		return ExecResp{}, ErrEmptyCommand
	}
	argv0 := req.Command[0]
	resolved, err := exec.LookPath(argv0)
	if err != nil {
		return ExecResp{}, fmt.Errorf("binary not found: %s: %w", argv0, err)
	}
	if !d.isAllowedBinary(resolved) {
		return ExecResp{}, fmt.Errorf("%w: %s", ErrNotAllowed, resolved)
	}

	// Concurrency gate
	select {
	case d.sema <- struct{}{}:
	case <-ctx.Done():
		return ExecResp{}, ctx.Err()
	}
	defer func() { <-d.sema }()

	start := time.Now()
	atomic.AddInt64(&d.mActive, 1)
	defer atomic.AddInt64(&d.mActive, -1)

	cmd := exec.Command(resolved, req.Command[1:]...)
	// Own process group so TERM/KILL reach children too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if req.Stdin != nil {
		// exec writes the payload from its own goroutine and closes the
		// pipe once it is drained.
		cmd.Stdin = bytes.NewReader(req.Stdin)
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return ExecResp{}, fmt.Errorf("spawn stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return ExecResp{}, fmt.Errorf("spawn stderr pipe: %w", err)
	}

	d.log.Info("exec.start",
		slog.String("exec_id", req.ExecutionID),
		slog.String("argv0", resolved),
		slog.Int("args_len", len(req.Command)-1),
		slog.Int("stdin_bytes", len(req.Stdin)),
		slog.Int("timeout_secs", int(req.Timeout/time.Second)),
	)
	if err := cmd.Start(); err != nil {
		d.log.Error("exec.spawn_error", slog.String("exec_id", req.ExecutionID), slog.Any("error", err))
		return ExecResp{}, fmt.Errorf("spawn error: %w", err)
	}

	// Both pipes are drained until the process closes them; Wait may only
	// run after that.
	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&stdout, stdoutPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return err
	})
	done := make(chan error, 1)
	go func() {
		copyErr := g.Wait()
		waitErr := cmd.Wait()
		if waitErr == nil {
			waitErr = copyErr
		}
		done <- waitErr
	}()

	var timeout <-chan time.Time
	if req.Timeout > 0 {
		timer := time.NewTimer(req.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	var waitErr error
	terminated := false
	select {
	case waitErr = <-done:
	case <-ctx.Done():
		terminated = true
		waitErr = d.terminateProcessGroup(cmd.Process.Pid, done)
	case <-timeout:
		terminated = true
		waitErr = d.terminateProcessGroup(cmd.Process.Pid, done)
	}

	resp := ExecResp{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
		Duration: time.Since(start),
	}
	if ps := cmd.ProcessState; ps != nil {
		resp.ExitCode = ps.ExitCode()
		if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			resp.Signal = unix.SignalName(ws.Signal())
		}
	}
	// A non-zero exit is reported through ExitCode, not as an error.
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		waitErr = nil
	}

	// Metrics
	atomic.AddUint64(&d.mDuration.count, 1)
	atomic.AddUint64(&d.mDuration.sumMicros, uint64(resp.Duration/time.Microsecond))
	if waitErr == nil && !terminated && resp.ExitCode == 0 {
		atomic.AddUint64(&d.mSuccess, 1)
	}

	d.log.Info("exec.finish",
		slog.String("exec_id", req.ExecutionID),
		slog.Int("exit_code", resp.ExitCode),
		slog.String("signal", resp.Signal),
		slog.Int64("duration_ms", resp.Duration.Milliseconds()),
		slog.Bool("terminated", terminated),
		slog.String("error", errString(waitErr)),
	)

	if terminated {
		return resp, ErrTerminated
	}
	if waitErr != nil {
		return resp, fmt.Errorf("wait: %w", waitErr)
	}
	return resp, nil
}

func (d *ExecDriver) isAllowedBinary(path string) bool {
	if len(d.cfg.AllowedBinaries) == 0 {
		return true
	}
	p := path
	if rp, err := filepath.EvalSymlinks(path); err == nil {
		p = rp
	}
	for _, allowed := range d.cfg.AllowedBinaries {
		if allowed == p || allowed == path {
			return true
		}
	}
	return false
}

// terminateProcessGroup sends SIGTERM to the process group, then SIGKILL
// if it is still running after the grace period, and waits for exit.
func (d *ExecDriver) terminateProcessGroup(pid int, done <-chan error) error {
	// Negative PID targets the process group.
	_ = syscall.Kill(-pid, syscall.SIGTERM)
	grace := time.NewTimer(d.cfg.TerminationGrace)
	defer grace.Stop()
	select {
	case err := <-done:
		return err
	case <-grace.C:
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
	return <-done
}

// Metrics exposes a snapshot of internal counters.
type Metrics struct {
	Active            int64
	Success           uint64
	DurationCount     uint64
	DurationSumMicros uint64
}

func (d *ExecDriver) Metrics() Metrics {
	return Metrics{
		Active:            atomic.LoadInt64(&d.mActive),
		Success:           atomic.LoadUint64(&d.mSuccess),
		DurationCount:     atomic.LoadUint64(&d.mDuration.count),
		DurationSumMicros: atomic.LoadUint64(&d.mDuration.sumMicros),
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
