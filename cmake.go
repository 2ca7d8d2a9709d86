package torchext

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// Build tool constants
const (
	unixMakefiles = "Unix Makefiles"
	nmakeProgram  = "nmake"
	makeProgram   = "make"
)

// BuildResult contains the output and status of a build run.
type BuildResult struct {
	Success   bool     // True if the build completed without errors
	Output    []string // Lines of output from the build tools
	Artifacts []string // Paths to produced extension files, relative to BuildDir
	Error     error    // Error if the build failed, nil otherwise
}

// ExtensionBuilder drives the cmake configure → build → install workflow
// for a resolved BuildPlan.
type ExtensionBuilder struct {
	// SourceDir is the directory holding the project's CMakeLists.txt.
	SourceDir string

	// BuildDir is the out-of-tree build directory; SourceDir/build when
	// empty.
	BuildDir string

	// InstallPrefix, when set, adds CMAKE_INSTALL_PREFIX and runs the
	// install step after a successful build.
	InstallPrefix string

	// Log defaults to a nop logger.
	Log *zap.Logger
}

// RequiredTools returns the toolchain this builder needs.
func (b *ExtensionBuilder) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{
			Name:    "cmake",
			Purpose: "CMake build system",
		},
		{
			Name:         "c++",
			Alternatives: []string{"clang++", "g++", "cl"},
			Purpose:      "C++ compiler for the extension",
		},
		{
			Name:         makeProgram,
			Alternatives: []string{"gmake", "ninja", nmakeProgram},
			Optional:     true,
			Purpose:      "Build automation tool behind the CMake generator",
		},
	}
}

// CheckTools verifies the toolchain is available before building.
func (b *ExtensionBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// Build runs the three build stages and returns their combined result.
// Stages run in order and stop at the first failure; the returned
// BuildResult always carries the output collected so far.
func (b *ExtensionBuilder) Build(ctx context.Context, cfg *BuildConfig, plan *BuildPlan) (*BuildResult, error) {
	result := &BuildResult{Output: []string{}}

	if err := b.configure(ctx, cfg, plan, result); err != nil {
		result.Error = err
		return result, err
	}
	if err := b.compile(ctx, cfg, result); err != nil {
		result.Error = err
		return result, err
	}

	artifacts, err := b.findArtifacts(plan)
	if err != nil {
		result.Error = err
		return result, err
	}

	result.Artifacts = artifacts
	result.Success = true
	return result, nil
}

// Clean removes build artifacts via the generator's clean target.
func (b *ExtensionBuilder) Clean(ctx context.Context) error {
	cleanCmd := exec.CommandContext(ctx, "cmake", "--build", b.buildDir(), "--target", "clean")
	if err := cleanCmd.Run(); err != nil {
		// Fall back to make clean if a Makefile exists
		makefilePath := filepath.Join(b.buildDir(), "Makefile")
		if _, statErr := os.Stat(makefilePath); statErr == nil {
			makeCmd := exec.CommandContext(ctx, b.getMakeProgram(), "clean")
			makeCmd.Dir = b.buildDir()
			return makeCmd.Run()
		}
	}
	return nil
}

// configure runs cmake with the plan's defines.
func (b *ExtensionBuilder) configure(ctx context.Context, cfg *BuildConfig, plan *BuildPlan, result *BuildResult) error {
	if err := os.MkdirAll(b.buildDir(), 0o755); err != nil {
		return err
	}

	args := []string{"-S", b.SourceDir, "-B", b.buildDir()}
	if generator := b.getGenerator(); generator != "" {
		args = append(args, "-G", generator)
	}
	args = append(args, "-DCMAKE_BUILD_TYPE:STRING=Release")
	if b.InstallPrefix != "" {
		args = append(args, "-DCMAKE_INSTALL_PREFIX:STRING="+b.InstallPrefix)
	}
	args = append(args, CMakeDefines(plan)...)

	return b.run(ctx, cfg, result, "CMake", args)
}

// compile runs cmake --build.
func (b *ExtensionBuilder) compile(ctx context.Context, cfg *BuildConfig, result *BuildResult) error {
	args := []string{"--build", b.buildDir(), "--config", "Release"}
	if err := b.run(ctx, cfg, result, "CMake Build", args); err != nil {
		return err
	}

	if b.InstallPrefix != "" {
		installArgs := []string{"--install", b.buildDir()}
		return b.run(ctx, cfg, result, "CMake Install", installArgs)
	}
	return nil
}

func (b *ExtensionBuilder) run(ctx context.Context, cfg *BuildConfig, result *BuildResult, stage string, args []string) error {
	cmd := exec.CommandContext(ctx, "cmake", args...)
	cmd.Env = os.Environ()
	for key, value := range cfg.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	output, err := cmd.CombinedOutput()
	result.Output = append(result.Output, strings.Split(string(output), "\n")...)

	if cfg.Verbose {
		result.Output = append(result.Output,
			fmt.Sprintf("Running: cmake %s", strings.Join(args, " ")))
	}

	b.log().Debug("build stage finished",
		zap.String("stage", stage),
		zap.Error(err))

	if err != nil {
		return BuildError(stage, result.Output, err)
	}
	return nil
}

// findArtifacts locates the produced extension file. CMake places outputs
// in different subdirectories depending on generator and configuration.
func (b *ExtensionBuilder) findArtifacts(plan *BuildPlan) ([]string, error) {
	searchDirs := []string{
		".",
		"Release",
		"Debug",
		"lib",
		"bin",
	}

	want := plan.ArtifactFileName()
	var artifacts []string

	for _, dir := range searchDirs {
		candidate := filepath.Join(b.buildDir(), dir, want)
		info, err := os.Stat(candidate)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		rel, err := filepath.Rel(b.buildDir(), candidate)
		if err != nil {
			rel = candidate
		}
		artifacts = append(artifacts, rel)
	}

	if len(artifacts) == 0 {
		return nil, fmt.Errorf("built artifact %s not found under %s", want, b.buildDir())
	}
	return artifacts, nil
}

func (b *ExtensionBuilder) buildDir() string {
	if b.BuildDir != "" {
		return b.BuildDir
	}
	return filepath.Join(b.SourceDir, "build")
}

// getGenerator returns the CMake generator for the platform.
func (b *ExtensionBuilder) getGenerator() string {
	if generator := os.Getenv("CMAKE_GENERATOR"); generator != "" {
		return generator
	}
	switch runtime.GOOS {
	case platformWindows:
		return "Visual Studio 16 2019"
	default:
		return unixMakefiles
	}
}

// getMakeProgram returns the make program for the platform.
func (b *ExtensionBuilder) getMakeProgram() string {
	if program := os.Getenv("MAKE"); program != "" {
		return program
	}
	switch runtime.GOOS {
	case platformWindows:
		return nmakeProgram
	default:
		return makeProgram
	}
}

func (b *ExtensionBuilder) log() *zap.Logger {
	if b.Log != nil {
		return b.Log
	}
	return zap.NewNop()
}
