package torchext

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Sentinel errors for the configuration-fatal failure classes. Wrapped
// errors carry the underlying cause; match with errors.Is.
var (
	// ErrProbeFailed means the interpreter introspection subprocess failed:
	// missing executable, non-zero exit, empty output, or timeout.
	ErrProbeFailed = errors.New("framework probe failed")

	// ErrFrameworkNotFound means the library search exhausted every
	// directory without finding the runtime-binding library.
	ErrFrameworkNotFound = errors.New("framework library not found")

	// ErrRuntimeBindingMissing means the joined runtime-binding path does
	// not exist. Only raised when Config.VerifyRuntimeBinding is set;
	// otherwise the failure is deferred to the link step.
	ErrRuntimeBindingMissing = errors.New("runtime binding library missing")
)

// appleDynamicLookupFlags is the link relaxation applied under the Apple
// profile. The extension references interpreter symbols that only exist in
// the hosting process at load time; the relaxation defers their resolution
// from link time to load time.
var appleDynamicLookupFlags = []string{"-undefined", "dynamic_lookup"}

// Resolver turns a BuildConfig into a BuildPlan for one platform profile.
//
// The zero value is not usable; construct with NewResolver, which wires the
// production locators and interpreter for the detected profile. Tests
// replace Locator, Searcher and Interp with fakes to exercise each branch
// without subprocesses or an installed framework.
type Resolver struct {
	Config  BuildConfig
	Profile PlatformProfile

	// Locator is the interpreter-probe strategy, used by every profile
	// except Apple.
	Locator FrameworkLocator

	// Searcher is the library-search strategy, used only by Apple.
	Searcher FrameworkLocator

	// Interp answers host-interpreter questions (include dir, import lib).
	Interp Interpreter

	// Log defaults to a nop logger.
	Log *zap.Logger
}

// NewResolver builds a resolver for the host platform with the production
// discovery strategies.
func NewResolver(cfg BuildConfig) *Resolver {
	profile := DetectProfile(runtime.GOOS)
	return &Resolver{
		Config:  cfg,
		Profile: profile,
		Locator: &PackageProbeLocator{
			PythonPath: cfg.python(),
			Package:    torchPackage,
			Timeout:    cfg.ProbeTimeout,
		},
		Searcher: &LibrarySearchLocator{
			LibraryName: ProfileApple.runtimeBindingFile(),
			PrefixHint:  cfg.TorchPrefixHint,
		},
		Interp: &SystemInterpreter{
			PythonPath: cfg.python(),
			Timeout:    cfg.ProbeTimeout,
		},
		Log: zap.NewNop(),
	}
}

// resolveStep is one pipeline stage: it consumes a plan value and returns
// the next. Steps never mutate their input.
type resolveStep struct {
	name string
	fn   func(ctx context.Context, plan BuildPlan) (BuildPlan, error)
}

// Resolve runs the pipeline and returns the finished plan.
//
// When the feature flag is off, Resolve returns (nil, nil) before touching
// the config, the filesystem, or any subprocess; a disabled build has no
// side effects and cannot fail.
//
// Any discovery failure aborts the run with no partial plan. Rerunning
// against an unchanged environment yields an equal plan.
func (r *Resolver) Resolve(ctx context.Context) (*BuildPlan, error) {
	if !r.Config.Enabled {
		return nil, nil
	}
	if err := r.Config.Validate(); err != nil {
		return nil, err
	}

	log := r.log()
	plan := BuildPlan{Profile: r.Profile}

	for _, step := range r.steps() {
		next, err := step.fn(ctx, plan)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", step.name)
		}
		log.Debug("resolution step complete",
			zap.String("step", step.name),
			zap.String("profile", r.Profile.String()))
		plan = next
	}

	log.Info("extension build plan resolved",
		zap.String("artifact", plan.ArtifactFileName()),
		zap.Int("link_libraries", len(plan.LinkLibraries)))
	return &plan, nil
}

// steps returns the pipeline for the active profile. The order is fixed:
// target, includes, platform branch, install rules.
func (r *Resolver) steps() []resolveStep {
	steps := []resolveStep{
		{"target declaration", r.declareTarget},
		{"include paths", r.resolveIncludes},
	}

	switch r.Profile {
	case ProfileApple:
		steps = append(steps, resolveStep{"apple framework search", r.resolveApple})
	case ProfileWindows:
		steps = append(steps,
			resolveStep{"framework discovery", r.resolveOtherUnix},
			resolveStep{"windows python component", r.resolveWindowsExtra})
	default:
		steps = append(steps, resolveStep{"framework discovery", r.resolveOtherUnix})
	}

	return append(steps, resolveStep{"install rules", r.registerInstall})
}

// declareTarget fills in the target identity and artifact naming: empty
// output prefix everywhere, interpreter extension suffix on Windows only.
func (r *Resolver) declareTarget(_ context.Context, plan BuildPlan) (BuildPlan, error) {
	next := plan.Clone()
	next.TargetName = r.Config.TargetName
	next.Sources = append([]string(nil), r.Config.Sources...)
	next.OutputPrefix = ""
	if r.Profile == ProfileWindows {
		next.OutputSuffix = ".pyd"
	}
	return next, nil
}

// resolveIncludes adds the two unconditional header search paths: the
// project root and the interpreter's C-API include directory.
func (r *Resolver) resolveIncludes(ctx context.Context, plan BuildPlan) (BuildPlan, error) {
	pyInclude := r.Config.PythonIncludeDir
	if pyInclude == "" {
		dir, err := r.Interp.IncludeDir(ctx)
		if err != nil {
			return plan, errors.Mark(err, ErrProbeFailed)
		}
		pyInclude = dir
	}

	next := plan.Clone()
	next.IncludeDirs = append(next.IncludeDirs, r.Config.ProjectRoot, pyInclude)
	return next, nil
}

// resolveApple locates the runtime-binding library by direct search and
// applies the dynamic-lookup relaxation. No interpreter probe runs on this
// branch.
func (r *Resolver) resolveApple(ctx context.Context, plan BuildPlan) (BuildPlan, error) {
	binding, err := r.Searcher.Locate(ctx)
	if err != nil {
		return plan, errors.Mark(err, ErrFrameworkNotFound)
	}

	next := plan.Clone()
	next.LinkFlags = append(next.LinkFlags, appleDynamicLookupFlags...)
	next.LinkLibraries = append(next.LinkLibraries, torchPrimaryLib, binding)
	return next, nil
}

// resolveOtherUnix discovers the framework directory through the
// interpreter probe, registers it as a search prefix, and joins the
// runtime-binding library path under it. The probe output is used verbatim.
// When Config.VerifyRuntimeBinding is set the joined path is stat-checked
// here; otherwise a bad path surfaces at link time.
func (r *Resolver) resolveOtherUnix(ctx context.Context, plan BuildPlan) (BuildPlan, error) {
	dir, err := r.Locator.Locate(ctx)
	if err != nil {
		return plan, errors.Mark(err, ErrProbeFailed)
	}

	binding := filepath.Join(dir, "lib", r.Profile.runtimeBindingFile())
	if r.Config.VerifyRuntimeBinding {
		if _, err := os.Stat(binding); err != nil {
			return plan, errors.Mark(
				errors.Wrapf(err, "expected runtime binding at %s", binding),
				ErrRuntimeBindingMissing)
		}
	}

	next := plan.Clone()
	next.SearchPrefixes = append(next.SearchPrefixes, dir)
	next.LinkLibraries = append(next.LinkLibraries, torchPrimaryLib, binding)
	return next, nil
}

// resolveWindowsExtra appends the version-pinned python import library when
// present. Absence is deliberate pass-through: the build proceeds and the
// missing component surfaces as undefined symbols at link time rather than
// being masked here.
func (r *Resolver) resolveWindowsExtra(ctx context.Context, plan BuildPlan) (BuildPlan, error) {
	devlib, found := r.Interp.DevLibrary(ctx)
	if !found {
		r.log().Warn("python import library not found; link step will report undefined symbols if it is required")
		return plan, nil
	}

	next := plan.Clone()
	next.LinkLibraries = append(next.LinkLibraries, devlib)
	return next, nil
}

// registerInstall declares the terminal install rules: both the library and
// the runtime placement target the build output root.
func (r *Resolver) registerInstall(_ context.Context, plan BuildPlan) (BuildPlan, error) {
	next := plan.Clone()
	next.InstallRules = append(next.InstallRules,
		InstallRule{Kind: InstallLibrary, Dest: "."},
		InstallRule{Kind: InstallRuntime, Dest: "."},
	)
	return next, nil
}

func (r *Resolver) log() *zap.Logger {
	if r.Log != nil {
		return r.Log
	}
	return zap.NewNop()
}
