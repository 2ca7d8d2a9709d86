package torchext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemInterpreterIncludeDir(t *testing.T) {
	python := stubPython(t, `printf '/usr/include/python3.11'`)

	interp := &SystemInterpreter{PythonPath: python}
	dir, err := interp.IncludeDir(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/usr/include/python3.11", dir)
}

func TestSystemInterpreterIncludeDirProbeFailure(t *testing.T) {
	python := stubPython(t, `exit 2`)

	interp := &SystemInterpreter{PythonPath: python}
	_, err := interp.IncludeDir(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include directory")
}

func TestSystemInterpreterDevLibrary(t *testing.T) {
	libsDir := t.TempDir()
	libPath := filepath.Join(libsDir, "python311.lib")
	require.NoError(t, os.WriteFile(libPath, []byte("import library"), 0o644))

	t.Run("present", func(t *testing.T) {
		python := stubPython(t, `printf '`+libPath+`'`)

		interp := &SystemInterpreter{PythonPath: python}
		got, found := interp.DevLibrary(context.Background())
		assert.True(t, found)
		assert.Equal(t, libPath, got)
	})

	t.Run("absent", func(t *testing.T) {
		python := stubPython(t, `printf '`+filepath.Join(libsDir, "python399.lib")+`'`)

		interp := &SystemInterpreter{PythonPath: python}
		_, found := interp.DevLibrary(context.Background())
		assert.False(t, found)
	})

	t.Run("probe failure", func(t *testing.T) {
		python := stubPython(t, `exit 1`)

		interp := &SystemInterpreter{PythonPath: python}
		_, found := interp.DevLibrary(context.Background())
		assert.False(t, found)
	})
}
