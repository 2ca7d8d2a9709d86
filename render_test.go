package torchext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderedPlan() *BuildPlan {
	return &BuildPlan{
		TargetName:     "_torchrl",
		Sources:        []string{"torchrl/csrc/pybind.cpp"},
		LinkFlags:      []string{"-undefined", "dynamic_lookup"},
		IncludeDirs:    []string{"/src/torchrl", "/usr/include/python3.11"},
		LinkLibraries:  []string{"torch", "/opt/torch/lib/libtorch_python.so"},
		SearchPrefixes: []string{"/opt/torch"},
		Profile:        ProfileOtherUnix,
	}
}

func TestLinkCommand(t *testing.T) {
	cmd := LinkCommand(renderedPlan())

	assert.Contains(t, cmd, "c++ -shared torchrl/csrc/pybind.cpp")
	assert.Contains(t, cmd, "-I/src/torchrl")
	assert.Contains(t, cmd, "-I/usr/include/python3.11")
	assert.Contains(t, cmd, "-undefined dynamic_lookup")
	// Bare names become -l flags, absolute paths stay verbatim.
	assert.Contains(t, cmd, "-ltorch")
	assert.Contains(t, cmd, "/opt/torch/lib/libtorch_python.so")
	assert.True(t, strings.HasSuffix(cmd, "-o _torchrl.so"), cmd)
}

func TestCMakeDefines(t *testing.T) {
	plan := renderedPlan()
	args := CMakeDefines(plan)

	assert.Contains(t, args, "-DCMAKE_PREFIX_PATH:STRING=/opt/torch")
	assert.Contains(t, args, "-DEXTENSION_TARGET:STRING=_torchrl")
	assert.Contains(t, args, "-DEXTENSION_LINK_LIBS:STRING=torch;/opt/torch/lib/libtorch_python.so")
	assert.Contains(t, args, "-DEXTENSION_LINK_FLAGS:STRING=-undefined dynamic_lookup")

	// Deterministic ordering: the same plan always renders the same args.
	again := CMakeDefines(plan)
	require.Equal(t, args, again)
	assert.IsNonDecreasing(t, args)
}

func TestCMakeDefinesOmitsEmptySections(t *testing.T) {
	plan := &BuildPlan{TargetName: "_torchrl", Profile: ProfileOtherUnix}
	args := CMakeDefines(plan)

	for _, arg := range args {
		assert.NotContains(t, arg, "CMAKE_PREFIX_PATH")
		assert.NotContains(t, arg, "EXTENSION_LINK_FLAGS")
	}
}
