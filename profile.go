package torchext

// PlatformProfile selects the platform-specific resolution strategy.
// Exactly one profile is active per resolution run.
type PlatformProfile int

const (
	// ProfileOtherUnix covers Linux and the BSDs: interpreter-probe
	// discovery, default shared-library suffix.
	ProfileOtherUnix PlatformProfile = iota

	// ProfileApple covers macOS: direct library search and the
	// dynamic-lookup link relaxation.
	ProfileApple

	// ProfileWindows covers Windows: interpreter-probe discovery plus the
	// version-pinned python import library and the .pyd suffix.
	ProfileWindows
)

const (
	platformWindows = "windows"
	platformDarwin  = "darwin"
)

// DetectProfile maps a GOOS value onto a PlatformProfile.
func DetectProfile(goos string) PlatformProfile {
	switch goos {
	case platformWindows:
		return ProfileWindows
	case platformDarwin:
		return ProfileApple
	default:
		return ProfileOtherUnix
	}
}

// String returns the profile name used in logs and error messages.
func (p PlatformProfile) String() string {
	switch p {
	case ProfileApple:
		return "apple"
	case ProfileWindows:
		return "windows"
	default:
		return "other-unix"
	}
}

// SharedLibSuffix returns the platform's default shared-library suffix,
// used when the plan does not override it.
func (p PlatformProfile) SharedLibSuffix() string {
	switch p {
	case ProfileApple:
		return ".dylib"
	case ProfileWindows:
		return ".dll"
	default:
		return ".so"
	}
}

// runtimeBindingFile returns the file name of the framework's
// runtime-binding library on this profile.
func (p PlatformProfile) runtimeBindingFile() string {
	switch p {
	case ProfileApple:
		return "libtorch_python.dylib"
	case ProfileWindows:
		return "torch_python.lib"
	default:
		return "libtorch_python.so"
	}
}
