package torchext

import "path"

// InstallKind distinguishes the artifact placements a plan registers.
type InstallKind string

const (
	// InstallLibrary is the shared-library placement (LIBRARY destination).
	InstallLibrary InstallKind = "library"

	// InstallRuntime is the runtime placement used for Windows DLLs
	// (RUNTIME destination).
	InstallRuntime InstallKind = "runtime"
)

// InstallRule maps an artifact kind to a destination directory relative to
// the build output root.
type InstallRule struct {
	Kind InstallKind
	Dest string
}

// BuildPlan is the fully explicit target configuration produced by a
// Resolver. It replaces the implicit global target/property store of the
// original CMake fragment: each resolution step consumes one plan value and
// returns the next, and the finished plan is all a builder needs.
//
// A plan is never mutated after Resolve returns it. Resolving twice against
// an unchanged environment yields equal plans.
type BuildPlan struct {
	// TargetName is the extension module name as the interpreter imports
	// it, e.g. "_torchrl".
	TargetName string

	// Sources lists the translation units, in order. The torchrl extension
	// has exactly one.
	Sources []string

	// OutputPrefix overrides the toolchain's library prefix. Always empty
	// for extension modules: the interpreter expects "_torchrl.so", not
	// "lib_torchrl.so". The field stays explicit so the override is
	// visible in rendered output.
	OutputPrefix string

	// OutputSuffix overrides the platform shared-library suffix. Set to
	// ".pyd" under the Windows profile, empty elsewhere.
	OutputSuffix string

	// LinkFlags are extra flags handed to the linker, such as the Apple
	// dynamic-lookup relaxation.
	LinkFlags []string

	// IncludeDirs are header search paths: the project root plus the host
	// interpreter's include directory.
	IncludeDirs []string

	// LinkLibraries are the libraries the target links against: the
	// framework's primary library name plus the resolved runtime-binding
	// library path, and on Windows the python import library.
	LinkLibraries []string

	// SearchPrefixes are extra installation prefixes registered for
	// dependency discovery (CMAKE_PREFIX_PATH entries). Populated by the
	// interpreter-probe strategy with the probe output, verbatim.
	SearchPrefixes []string

	// InstallRules are the declared artifact placements.
	InstallRules []InstallRule

	// Profile is the platform profile the plan was resolved for.
	Profile PlatformProfile
}

// ArtifactFileName returns the file name the linker produces for this plan:
// empty prefix, target name, and either the explicit suffix override or the
// profile's default shared-library suffix.
func (p *BuildPlan) ArtifactFileName() string {
	suffix := p.OutputSuffix
	if suffix == "" {
		suffix = p.Profile.SharedLibSuffix()
	}
	return p.OutputPrefix + p.TargetName + suffix
}

// HasLinkFlag reports whether the given flag token is present in the plan's
// link flags.
func (p *BuildPlan) HasLinkFlag(flag string) bool {
	for _, f := range p.LinkFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// LinksAgainst reports whether some linked library equals name or is a path
// whose base name equals name.
func (p *BuildPlan) LinksAgainst(name string) bool {
	for _, lib := range p.LinkLibraries {
		if lib == name || path.Base(toSlash(lib)) == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the plan. Steps never share backing arrays
// with their input, so a retained intermediate plan stays stable.
func (p *BuildPlan) Clone() BuildPlan {
	out := *p
	out.Sources = append([]string(nil), p.Sources...)
	out.LinkFlags = append([]string(nil), p.LinkFlags...)
	out.IncludeDirs = append([]string(nil), p.IncludeDirs...)
	out.LinkLibraries = append([]string(nil), p.LinkLibraries...)
	out.SearchPrefixes = append([]string(nil), p.SearchPrefixes...)
	out.InstallRules = append([]InstallRule(nil), p.InstallRules...)
	return out
}

func toSlash(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] == '\\' {
			b[i] = '/'
		}
	}
	return string(b)
}
