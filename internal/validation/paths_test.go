package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "surveycli/internal/errors"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
	return path
}

// TestValidateWorkbook tests workbook path checks
func TestValidateWorkbook(t *testing.T) {
	v := NewPathValidator(nil)
	dir := t.TempDir()

	t.Run("valid xlsx", func(t *testing.T) {
		path := touch(t, filepath.Join(dir, "survey.xlsx"))
		assert.NoError(t, v.ValidateWorkbook(path))
	})

	t.Run("missing file", func(t *testing.T) {
		err := v.ValidateWorkbook(filepath.Join(dir, "nope.xlsx"))
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	})

	t.Run("directory", func(t *testing.T) {
		err := v.ValidateWorkbook(dir)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})

	t.Run("wrong extension", func(t *testing.T) {
		path := touch(t, filepath.Join(dir, "survey.csv"))
		err := v.ValidateWorkbook(path)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})

	t.Run("office lock file", func(t *testing.T) {
		path := touch(t, filepath.Join(dir, "~$survey.xlsx"))
		err := v.ValidateWorkbook(path)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})
}

// TestValidateOutputDirectory tests report directory creation
func TestValidateOutputDirectory(t *testing.T) {
	v := NewPathValidator(nil)

	t.Run("creates nested directories", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "reports", "2026")
		require.NoError(t, v.ValidateOutputDirectory(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("probe file is cleaned up", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, v.ValidateOutputDirectory(dir))
		_, err := os.Stat(filepath.Join(dir, ".write_test"))
		assert.True(t, os.IsNotExist(err))
	})
}
