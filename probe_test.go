package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestProbeDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Run("Present", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "test.py"), []byte("#!/usr/bin/env python3\n"), 0o644))
		t.Cleanup(func() { _ = os.Remove(filepath.Join(dir, "test.py")) })

		p := probeDirectory("test.py")
		assert.True(t, p.Opened())
		require.NoError(t, p.WorkDirErr)
		assert.Equal(t, evalDir(t, dir), evalDir(t, p.WorkDir))
		require.NoError(t, p.ScriptErr)
		assert.NotEmpty(t, p.ScriptDir)
	})

	t.Run("Missing", func(t *testing.T) {
		p := probeDirectory("test.py")
		assert.False(t, p.Opened())
		assert.True(t, errors.Is(p.OpenErr, fs.ErrNotExist))
		assert.Contains(t, p.OpenErr.Error(), "accessing test.py")
		assert.NoError(t, p.WorkDirErr, "a failed open must not affect the other lookups")
	})
}

func evalDir(t *testing.T, dir string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	return resolved
}
