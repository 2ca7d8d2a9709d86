package torchext

import (
	"fmt"
	"os/exec"
	"strings"
)

// ToolRequirement describes a build tool dependency: a primary binary name,
// alternatives that also satisfy it, and whether it is optional.
type ToolRequirement struct {
	// Name is the primary tool binary name (e.g., "cmake", "python3").
	Name string

	// Alternatives are alternative tool names that can satisfy this
	// requirement. Example: []string{"clang++", "g++", "cl"}
	Alternatives []string

	// Optional tools are checked but don't fail the preflight if missing.
	Optional bool

	// Purpose is a human-readable description of why the tool is needed.
	Purpose string
}

// ResolverTools returns the tools a production resolution run needs: the
// host interpreter for the discovery probes. The Apple branch does not
// probe, but the include-path step still does unless the include directory
// is configured explicitly.
func ResolverTools(cfg *BuildConfig) []ToolRequirement {
	return []ToolRequirement{
		{
			Name:         cfg.python(),
			Alternatives: []string{"python"},
			Purpose:      "host interpreter for framework introspection",
		},
	}
}

// CheckToolAvailable checks that a tool is on PATH.
func CheckToolAvailable(tool string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// CheckRequiredTools verifies a set of requirements and reports every
// missing required tool in a single error. Alternatives are tried in order;
// optional tools never cause an error.
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missing []string

	for _, req := range requirements {
		found := CheckToolAvailable(req.Name) == nil
		if !found {
			for _, alt := range req.Alternatives {
				if CheckToolAvailable(alt) == nil {
					found = true
					break
				}
			}
		}

		if !found && !req.Optional {
			if req.Purpose != "" {
				missing = append(missing, fmt.Sprintf("%s (%s)", req.Name, req.Purpose))
			} else {
				missing = append(missing, req.Name)
			}
		}
	}

	switch len(missing) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%s not found in PATH", missing[0])
	default:
		return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
	}
}
