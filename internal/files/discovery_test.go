package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salesanalyzer/internal/errors"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestIsInputFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"lamps.xlsx", true},
		{"LAMPS.XLSX", true},
		{"lamps.csv", true},
		{"lamps.xls", false},
		{"~$lamps.xlsx", false},
		{".lamps.xlsx.tmp-1", false},
		{".hidden.csv", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInputFile(tt.name))
		})
	}
}

func TestDiscovery_FindInputFiles(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "data")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested.xlsx"), 0o755))
	touch(t, dir, "b.xlsx")
	touch(t, dir, "a.csv")
	touch(t, dir, "~$b.xlsx")
	touch(t, dir, "readme.md")

	files, err := NewDiscovery(base, nil).FindInputFiles("data")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.csv", files[0].Name)
	assert.Equal(t, "b.xlsx", files[1].Name)
	assert.Equal(t, filepath.Join(dir, "a.csv"), files[0].Path)
}

func TestDiscovery_FindInputFiles_MissingDir(t *testing.T) {
	_, err := NewDiscovery(t.TempDir(), nil).FindInputFiles("nope")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))
}

func TestDiscovery_ResolveInput(t *testing.T) {
	dir := t.TempDir()
	d := NewDiscovery("", nil)

	t.Run("empty directory", func(t *testing.T) {
		_, err := d.ResolveInput(dir)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))
	})

	second := touch(t, dir, "z.xlsx")
	first := touch(t, dir, "m.xlsx")

	t.Run("directory picks first by name", func(t *testing.T) {
		got, err := d.ResolveInput(dir)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	})

	t.Run("file is returned as is", func(t *testing.T) {
		got, err := d.ResolveInput(second)
		require.NoError(t, err)
		assert.Equal(t, second, got)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := d.ResolveInput(filepath.Join(dir, "missing.xlsx"))
		assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))
	})
}
