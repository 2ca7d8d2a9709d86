// Package torchext resolves and drives the build of the torchrl native
// Python extension module.
//
// The package is the Go equivalent of the CMake fragment that configures
// `_torchrl`, the C++ extension linking against libtorch and its Python
// runtime-binding library. Instead of mutating an implicit global target,
// every resolution step takes a BuildPlan value and returns the next one,
// so the whole pipeline is testable without a toolchain installed.
//
// # Resolution Pipeline
//
// A Resolver walks a fixed sequence of steps:
//
//	gate → declare target → resolve includes → platform branch → install rules
//
// The platform branch is a strategy selection over PlatformProfile:
//
//	Resolver
//	├── resolveApple        (library search, dynamic-lookup relaxation)
//	├── resolveOtherUnix    (interpreter probe, lib path join)
//	└── resolveWindowsExtra (version-pinned python import library)
//
// # Basic Usage
//
// Resolve a plan and hand it to the builder:
//
//	cfg := torchext.DefaultConfig()
//	cfg.Enabled = true
//	cfg.ProjectRoot = "/src/torchrl"
//
//	r := torchext.NewResolver(cfg)
//	plan, err := r.Resolve(ctx)
//	if err != nil {
//	    // configuration-fatal: probe failed or framework missing
//	}
//	if plan == nil {
//	    // feature flag off, nothing to build
//	}
//
//	builder := &torchext.ExtensionBuilder{SourceDir: cfg.ProjectRoot}
//	result, err := builder.Build(ctx, &cfg, plan)
//
// # Failure Taxonomy
//
// Discovery failures (probe exits non-zero, empty output, library not found
// in any search path) abort resolution with no partial plan. The runtime
// binding path joined from the probed directory is stat-checked at
// resolution time by default; disabling Config.VerifyRuntimeBinding defers
// that failure to the link step, matching the legacy behavior.
//
// # Platform Support
//
// Linux, macOS and Windows. Exactly one PlatformProfile is active per
// resolution; re-running with an unchanged environment yields an equal plan.
package torchext
