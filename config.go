package torchext

import (
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// EnableEnvVar is the environment variable gating the extension build.
	EnableEnvVar = "BUILD_TORCHRL_PYTHON_EXTENSION"

	// DefaultTargetName is the extension module name the interpreter imports.
	DefaultTargetName = "_torchrl"

	// DefaultSource is the extension's single translation unit, relative to
	// the project root.
	DefaultSource = "torchrl/csrc/pybind.cpp"

	// DefaultProbeTimeout bounds the interpreter introspection subprocess.
	// The legacy configuration could stall indefinitely on an unresponsive
	// interpreter; resolution now fails instead.
	DefaultProbeTimeout = 30 * time.Second

	// torchPackage is the framework package probed through the interpreter.
	torchPackage = "torch"

	// torchPrimaryLib is the framework's primary library, resolved by the
	// toolchain's own search rather than by absolute path.
	torchPrimaryLib = "torch"
)

// BuildConfig carries everything a Resolver and an ExtensionBuilder need.
//
// Source paths:
//   - ProjectRoot: repository root, also the first include directory
//   - Sources: translation units relative to ProjectRoot
//
// Interpreter environment:
//   - PythonPath: host interpreter executable ("python3" when empty)
//   - PythonIncludeDir: override for the probed C-API header directory
//
// Framework discovery:
//   - TorchPrefixHint: installation-prefix anchor for the Apple library
//     search (e.g. a conda env root)
//   - ProbeTimeout: subprocess budget for interpreter introspection
//   - VerifyRuntimeBinding: stat the joined runtime-binding path at
//     resolution time instead of deferring the failure to the link step
type BuildConfig struct {
	Enabled    bool   `mapstructure:"build-python-extension"`
	TargetName string `mapstructure:"target-name"`

	ProjectRoot string   `mapstructure:"project-root"`
	Sources     []string `mapstructure:"sources"`

	PythonPath       string `mapstructure:"python"`
	PythonIncludeDir string `mapstructure:"python-include-dir"`

	TorchPrefixHint      string        `mapstructure:"torch-prefix-hint"`
	ProbeTimeout         time.Duration `mapstructure:"probe-timeout"`
	VerifyRuntimeBinding bool          `mapstructure:"verify-runtime-binding"`

	// Build options
	Verbose bool              `mapstructure:"verbose"`
	Env     map[string]string `mapstructure:"env"`
}

// DefaultConfig returns a config with the torchrl defaults filled in and the
// feature flag off.
func DefaultConfig() BuildConfig {
	return BuildConfig{
		TargetName:           DefaultTargetName,
		Sources:              []string{DefaultSource},
		PythonPath:           "python3",
		ProbeTimeout:         DefaultProbeTimeout,
		VerifyRuntimeBinding: true,
	}
}

// Validate checks the fields a resolution run depends on. It is not called
// when the feature flag is off; a disabled build must not fail.
func (c *BuildConfig) Validate() error {
	if c.TargetName == "" {
		return errors.New("invalid `TargetName`; expected: non-empty extension module name")
	}
	if len(c.Sources) == 0 {
		return errors.New("invalid `Sources`; expected: at least one translation unit")
	}
	for _, src := range c.Sources {
		if src == "" {
			return errors.New("invalid `Sources`; expected: non-empty source paths")
		}
	}
	if c.ProjectRoot == "" {
		return errors.New("invalid `ProjectRoot`; expected: repository root directory")
	}
	if c.ProbeTimeout < 0 {
		return errors.Newf("invalid `ProbeTimeout`; expected: >= 0, given: %v", c.ProbeTimeout)
	}
	return nil
}

// python returns the interpreter executable, defaulting to python3.
func (c *BuildConfig) python() string {
	if c.PythonPath != "" {
		return c.PythonPath
	}
	return "python3"
}
