package torchext

import (
	"io"
	"os"
	"path/filepath"
)

var nativeLibraryExtensions = []string{".so", ".dylib", ".pyd", ".dll"}

// InstallArtifacts copies the built extension files to every destination
// the plan's install rules declare, relative to outputRoot. Destinations
// are deduplicated: the library and runtime rules both target "." and the
// artifact is written once per distinct directory.
//
// Returns the installed paths relative to outputRoot. Non-native build
// outputs are skipped.
func InstallArtifacts(buildDir, outputRoot string, plan *BuildPlan, built []string) ([]string, error) {
	if len(built) == 0 || len(plan.InstallRules) == 0 {
		return nil, nil
	}

	dests := installDestinations(outputRoot, plan.InstallRules)
	var installed []string

	for _, rel := range built {
		if !isNativeLibrary(rel) {
			continue
		}

		srcPath := filepath.Join(buildDir, rel)
		if info, err := os.Stat(srcPath); err != nil || !info.Mode().IsRegular() {
			continue
		}

		name := filepath.Base(rel)
		for i, dest := range dests {
			destPath := filepath.Join(dest, name)
			if err := copyFile(srcPath, destPath); err != nil {
				return nil, err
			}
			if i > 0 {
				continue
			}
			if relPath, err := filepath.Rel(outputRoot, destPath); err == nil {
				installed = append(installed, filepath.ToSlash(relPath))
			} else {
				installed = append(installed, filepath.ToSlash(destPath))
			}
		}
	}

	return installed, nil
}

// installDestinations resolves the rules' destination directories against
// the output root and deduplicates them.
func installDestinations(outputRoot string, rules []InstallRule) []string {
	var dirs []string
	for _, rule := range rules {
		dest := rule.Dest
		if dest == "" {
			dest = "."
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(outputRoot, dest)
		}
		dirs = append(dirs, filepath.Clean(dest))
	}
	return uniqueStrings(dirs)
}

func isNativeLibrary(path string) bool {
	return MatchesExtension(path, nativeLibraryExtensions...)
}

func copyFile(srcPath, destPath string) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		return err
	}

	if mkErr := os.MkdirAll(filepath.Dir(destPath), 0o755); mkErr != nil {
		return mkErr
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{})
	var result []string

	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}

	return result
}
