package torchext

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

// FrameworkLocator finds the installed tensor framework. What the returned
// path points at is strategy-specific: the interpreter-probe strategy
// returns the framework's installation directory, the library-search
// strategy returns the runtime-binding library file itself.
//
// Implementations must be safe for repeated calls; the resolver invokes a
// locator at most once per resolution run.
type FrameworkLocator interface {
	// Name is the human-readable strategy name, used in error messages.
	Name() string

	// Locate returns the discovered path or a descriptive failure. There
	// is no partial result: an empty path with a nil error is a contract
	// violation.
	Locate(ctx context.Context) (string, error)
}

// PackageProbeLocator discovers the framework's installation directory by
// asking the host interpreter where the package lives. The probe is a
// single subprocess invocation whose standard output is the directory path
// with no trailing newline; the output is used verbatim.
type PackageProbeLocator struct {
	// PythonPath is the interpreter executable; "python3" when empty.
	PythonPath string

	// Package is the framework package to introspect, e.g. "torch".
	Package string

	// Timeout bounds the probe subprocess. Zero means no bound.
	Timeout time.Duration
}

// Name implements FrameworkLocator.
func (l *PackageProbeLocator) Name() string {
	return "interpreter probe"
}

// Locate runs the introspection program and returns its output verbatim.
func (l *PackageProbeLocator) Locate(ctx context.Context) (string, error) {
	python := l.PythonPath
	if python == "" {
		python = "python3"
	}
	pkg := l.Package
	if pkg == "" {
		pkg = torchPackage
	}

	program := "import os, sys, " + pkg + "; sys.stdout.write(os.path.dirname(" + pkg + ".__file__))"
	out, err := runInterpreter(ctx, python, l.Timeout, program)
	if err != nil {
		return "", errors.Wrapf(err, "introspecting package %s", pkg)
	}
	return out, nil
}

// LibrarySearchLocator finds the runtime-binding library by name across
// standard library directories, anchored at an installation-prefix hint.
// This is the Apple strategy: no interpreter subprocess is involved.
type LibrarySearchLocator struct {
	// LibraryName is the file searched for, e.g. "libtorch_python.dylib".
	LibraryName string

	// PrefixHint is an installation prefix whose lib/ directory is
	// searched first. Optional.
	PrefixHint string

	// ExtraDirs are searched after the hint and before the standard
	// directories. Optional.
	ExtraDirs []string
}

// standard library directories searched after any hint.
var standardLibDirs = []string{
	"/usr/local/lib",
	"/opt/homebrew/lib",
	"/usr/lib",
}

// Name implements FrameworkLocator.
func (l *LibrarySearchLocator) Name() string {
	return "library search"
}

// Locate returns the full path of the first matching library file. A miss
// across every directory is a hard failure; there is no silent fallback.
func (l *LibrarySearchLocator) Locate(ctx context.Context) (string, error) {
	var dirs []string
	if l.PrefixHint != "" {
		dirs = append(dirs, filepath.Join(l.PrefixHint, "lib"), l.PrefixHint)
	}
	dirs = append(dirs, l.ExtraDirs...)
	dirs = append(dirs, standardLibDirs...)

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := filepath.Join(dir, l.LibraryName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	return "", errors.Newf("%s not found in any of %d search directories (hint: %q)",
		l.LibraryName, len(dirs), l.PrefixHint)
}
