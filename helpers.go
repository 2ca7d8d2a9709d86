package torchext

import (
	"fmt"
	"strings"
)

// MatchesExtension checks, case-insensitively, whether a filename has any
// of the given extensions. Used to recognize compiled extension files
// (.so, .dylib, .pyd, .dll).
func MatchesExtension(filename string, extensions ...string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// BuildError creates a standardized build error carrying the stage name and
// the collected build output for debugging.
func BuildError(stage string, output []string, err error) error {
	outputStr := strings.Join(output, "\n")

	var prefix string
	if err != nil {
		prefix = fmt.Sprintf("%s build failed: %v", stage, err)
	} else {
		prefix = fmt.Sprintf("%s build failed", stage)
	}

	if outputStr != "" {
		return fmt.Errorf("%s\n\nBuild output:\n%s", prefix, outputStr)
	}
	return fmt.Errorf("%s", prefix)
}
