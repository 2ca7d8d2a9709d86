package torchext

import (
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
)

// LinkCommand renders the plan as an auditable compiler-driver invocation.
// The command is informational output for `torchext plan`; the actual build
// goes through the CMake workflow in ExtensionBuilder.
func LinkCommand(plan *BuildPlan) string {
	args := []string{"c++", "-shared"}
	args = append(args, plan.Sources...)
	for _, dir := range plan.IncludeDirs {
		args = append(args, "-I"+dir)
	}
	args = append(args, plan.LinkFlags...)
	for _, lib := range plan.LinkLibraries {
		if strings.ContainsAny(lib, `/\`) {
			args = append(args, lib)
			continue
		}
		args = append(args, "-l"+lib)
	}
	args = append(args, "-o", plan.ArtifactFileName())
	return shellquote.Join(args...)
}

// CMakeDefines renders the plan as -D arguments for a CMake configure run,
// in deterministic (sorted) order so repeated resolutions produce identical
// command lines.
func CMakeDefines(plan *BuildPlan) []string {
	defines := map[string]string{
		"EXTENSION_TARGET":    plan.TargetName,
		"EXTENSION_SOURCES":   strings.Join(plan.Sources, ";"),
		"EXTENSION_PREFIX":    plan.OutputPrefix,
		"EXTENSION_SUFFIX":    plan.OutputSuffix,
		"EXTENSION_LINK_LIBS": strings.Join(plan.LinkLibraries, ";"),
	}
	if len(plan.SearchPrefixes) > 0 {
		defines["CMAKE_PREFIX_PATH"] = strings.Join(plan.SearchPrefixes, ";")
	}
	if len(plan.LinkFlags) > 0 {
		defines["EXTENSION_LINK_FLAGS"] = strings.Join(plan.LinkFlags, " ")
	}
	if len(plan.IncludeDirs) > 0 {
		defines["EXTENSION_INCLUDE_DIRS"] = strings.Join(plan.IncludeDirs, ";")
	}

	keys := make([]string, 0, len(defines))
	for k := range defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, "-D"+k+":STRING="+defines[k])
	}
	return args
}
