package device

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// Runner executes an external control tool and returns its stdout.
// It exists so backends can be tested without brightnessctl or ddcutil
// installed.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands via os/exec with a per-invocation timeout.
type ExecRunner struct {
	// Timeout bounds each command. Zero means no additional deadline
	// beyond the caller's context.
	Timeout time.Duration
}

// Run executes the command and classifies failures into the package's
// error taxonomy so callers can decide whether to retry.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", classifyExecError(name, args, err, ctx.Err())
	}
	return string(out), nil
}

// classifyExecError maps an os/exec failure onto the device error taxonomy.
func classifyExecError(name string, args []string, err, ctxErr error) error {
	cmdline := name + " " + strings.Join(args, " ")

	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrToolMissing, name)
	}
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: timed out", ErrTransient, cmdline)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		if isPermissionOutput(stderr) {
			return fmt.Errorf("%w: %s: %s", ErrPermission, cmdline, stderr)
		}
		if stderr != "" {
			return fmt.Errorf("%w: %s: exit %d: %s", ErrTransient, cmdline, exitErr.ExitCode(), stderr)
		}
		return fmt.Errorf("%w: %s: exit %d", ErrTransient, cmdline, exitErr.ExitCode())
	}

	if errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES) {
		return fmt.Errorf("%w: %s", ErrPermission, cmdline)
	}

	return fmt.Errorf("%w: %s: %w", ErrTransient, cmdline, err)
}

// isPermissionOutput detects permission failures reported on stderr.
// brightnessctl and ddcutil exit non-zero with a message rather than a
// distinct exit code when access is denied.
func isPermissionOutput(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "operation not permitted") ||
		strings.Contains(lower, "root privileges")
}
