package device

import (
	"context"
	"errors"
	"os/exec"
	"syscall"
	"testing"
)

func TestClassifyExecError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		ctxErr error
		want   error
	}{
		{
			name: "binary not found",
			err:  exec.ErrNotFound,
			want: ErrToolMissing,
		},
		{
			name:   "deadline exceeded",
			err:    errors.New("signal: killed"),
			ctxErr: context.DeadlineExceeded,
			want:   ErrTransient,
		},
		{
			name: "raw permission errno",
			err:  syscall.EPERM,
			want: ErrPermission,
		},
		{
			name: "access errno",
			err:  syscall.EACCES,
			want: ErrPermission,
		},
		{
			name: "other failure",
			err:  errors.New("broken pipe"),
			want: ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyExecError("ddcutil", []string{"getvcp", "10"}, tt.err, tt.ctxErr)
			if !errors.Is(got, tt.want) {
				t.Errorf("classifyExecError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPermissionOutput(t *testing.T) {
	tests := []struct {
		stderr string
		want   bool
	}{
		{"Failed to open device: Permission denied", true},
		{"Operation not permitted", true},
		{"ddcutil requires root privileges", true},
		{"DDC communication failed", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isPermissionOutput(tt.stderr); got != tt.want {
			t.Errorf("isPermissionOutput(%q) = %v, want %v", tt.stderr, got, tt.want)
		}
	}
}
