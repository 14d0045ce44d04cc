package driver

import (
	"context"
	"errors"
	"time"
)

// ExecReq is a single process invocation.
type ExecReq struct {
	// Fully rendered command; argv[0] is resolved through PATH.
	Command []string

	// Optional bytes written to the process's stdin, which is closed afterwards.
	Stdin []byte

	Timeout     time.Duration // zero => no explicit timeout
	ExecutionID string        // for log correlation only
}

// ExecResp is what the process left behind once it terminated.
type ExecResp struct {
	Stdout string
	Stderr string

	// ExitCode is -1 when the process did not exit on its own.
	ExitCode int
	// Signal is the name of the signal that terminated the process
	// (for example "SIGKILL"), if any.
	Signal string

	Duration time.Duration
}

// Exited reports whether the process exited normally with an exit code.
func (r ExecResp) Exited() bool { return r.ExitCode >= 0 }

var (
	ErrEmptyCommand = errors.New("empty command: provide rendered argv")
	ErrNotAllowed   = errors.New("binary not allowed")
	// ErrTerminated accompanies a valid ExecResp when the driver itself
	// stopped the process after a cancel or timeout.
	ErrTerminated = errors.New("terminated by driver (timeout/cancel)")
)

// Driver runs external commands.
type Driver interface {
	Execute(ctx context.Context, req ExecReq) (ExecResp, error)
}
