package torchext

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/cockroachdb/errors"
)

// Interpreter exposes the host interpreter facts resolution needs. The
// production implementation shells out to python; tests substitute a fake
// so no branch of the resolver requires an interpreter on the machine.
type Interpreter interface {
	// IncludeDir returns the directory holding the interpreter's C-API
	// headers (Python.h).
	IncludeDir(ctx context.Context) (string, error)

	// DevLibrary returns the version-pinned python import library
	// (pythonXY.lib) and whether it exists. Only meaningful under the
	// Windows profile; absence is reported, not masked, so a missing
	// component surfaces as undefined symbols at link time.
	DevLibrary(ctx context.Context) (string, bool)
}

// SystemInterpreter introspects a real python executable via one-line
// subprocess probes.
type SystemInterpreter struct {
	// PythonPath is the interpreter executable; "python3" when empty.
	PythonPath string

	// Timeout bounds each probe subprocess.
	Timeout time.Duration
}

const (
	includeDirProgram = "import sys, sysconfig; sys.stdout.write(sysconfig.get_paths()['include'])"

	devLibraryProgram = "import os, sys; sys.stdout.write(os.path.join(sys.base_prefix, 'libs', 'python%d%d.lib' % sys.version_info[:2]))"
)

// IncludeDir probes sysconfig for the C-API header directory.
func (s *SystemInterpreter) IncludeDir(ctx context.Context) (string, error) {
	out, err := runInterpreter(ctx, s.python(), s.Timeout, includeDirProgram)
	if err != nil {
		return "", errors.Wrap(err, "locating interpreter include directory")
	}
	return out, nil
}

// DevLibrary constructs the version-pinned import library path under the
// interpreter prefix and checks it exists.
func (s *SystemInterpreter) DevLibrary(ctx context.Context) (string, bool) {
	out, err := runInterpreter(ctx, s.python(), s.Timeout, devLibraryProgram)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(out); err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return out, true
}

func (s *SystemInterpreter) python() string {
	if s.PythonPath != "" {
		return s.PythonPath
	}
	return "python3"
}

// runInterpreter executes `python -c program` and returns its standard
// output verbatim. The probe contract is one line with no trailing newline;
// output is not trimmed. Non-zero exit and empty output are both errors.
func runInterpreter(ctx context.Context, python string, timeout time.Duration, program string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, python, "-c", program)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", errors.Newf("%s exited with %d: %s", python, exitErr.ExitCode(), string(exitErr.Stderr))
		}
		return "", errors.Wrapf(err, "running %s", python)
	}
	if len(out) == 0 {
		return "", errors.Newf("%s produced no output", python)
	}
	return string(out), nil
}
