package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestFindOutputFileMatchesExactRun(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "tik_7_1234.mp4")
	touch(t, dir, "tik_7_123.webm")

	path, ext, err := findOutputFile(dir, "tik_7_123")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tik_7_123.webm"), path)
	assert.Equal(t, "webm", ext)
}

func TestFindOutputFileSkipsPartials(t *testing.T) {
	dir := t.TempDir()
	// The fragment sorts before the finished file and must be skipped.
	touch(t, dir, "yt_1_1.f137.mp4.part-Frag1")
	touch(t, dir, "yt_1_1.mp4")
	touch(t, dir, "yt_1_1.mp4.part")

	path, _, err := findOutputFile(dir, "yt_1_1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "yt_1_1.mp4"), path)
}

func TestFindOutputFileMissing(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "other_2_2.mp4")

	_, _, err := findOutputFile(dir, "yt_1_1")
	assert.Error(t, err)
}
