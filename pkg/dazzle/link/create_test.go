//go:build !windows

package link

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doc.pdf")
	writeFile(t, target, "content")
	linkPath := filepath.Join(dir, "doc.link")

	require.NoError(t, Create(target, linkPath, false))

	got, err := os.Readlink(linkPath)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestCreateRelativeTargetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shared", "doc.pdf"), "x")
	linkPath := filepath.Join(dir, "docs", "doc.link")
	require.NoError(t, os.MkdirAll(filepath.Dir(linkPath), 0o755))

	require.NoError(t, Create("../shared/doc.pdf", linkPath, false))

	got, err := ReadTarget(linkPath)
	require.NoError(t, err)
	assert.Equal(t, "../shared/doc.pdf", got, "target preserved byte for byte")

	_, err = os.Stat(linkPath)
	assert.NoError(t, err, "relative target resolves from the link's directory")
}

func TestCreateReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doc.pdf")
	writeFile(t, target, "x")

	t.Run("plain file", func(t *testing.T) {
		linkPath := filepath.Join(dir, "file.link")
		writeFile(t, linkPath, "stale")

		require.NoError(t, Create(target, linkPath, false))
		assert.True(t, IsLink(linkPath))
	})

	t.Run("old symlink", func(t *testing.T) {
		linkPath := filepath.Join(dir, "sym.link")
		require.NoError(t, os.Symlink("/nowhere", linkPath))

		require.NoError(t, Create(target, linkPath, false))
		got, err := os.Readlink(linkPath)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	})

	t.Run("real directory", func(t *testing.T) {
		linkPath := filepath.Join(dir, "dir.link")
		writeFile(t, filepath.Join(linkPath, "inner.txt"), "x")

		require.NoError(t, Create(target, linkPath, false))
		assert.True(t, IsLink(linkPath))
	})

	t.Run("symlink to directory is not followed", func(t *testing.T) {
		real := filepath.Join(dir, "realdir")
		writeFile(t, filepath.Join(real, "keep.txt"), "x")
		linkPath := filepath.Join(dir, "dirsym.link")
		require.NoError(t, os.Symlink(real, linkPath))

		require.NoError(t, Create(target, linkPath, false))

		// Only the link was replaced, the directory behind it survives.
		_, err := os.Stat(filepath.Join(real, "keep.txt"))
		assert.NoError(t, err)
	})
}

func TestCreateErrorNamesBothPaths(t *testing.T) {
	dir := t.TempDir()
	linkPath := filepath.Join(dir, "missing", "sub", "doc.link")

	err := Create("/srv/doc.pdf", linkPath, false)
	require.Error(t, err)

	var cerr *CreationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "/srv/doc.pdf", cerr.Target)
	assert.Equal(t, linkPath, cerr.Link)
	assert.Contains(t, err.Error(), linkPath)
	assert.Contains(t, err.Error(), "/srv/doc.pdf")
}

func TestIsLink(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	writeFile(t, file, "x")
	sym := filepath.Join(dir, "sym")
	require.NoError(t, os.Symlink(file, sym))

	assert.False(t, IsLink(file))
	assert.True(t, IsLink(sym))
	assert.False(t, IsLink(filepath.Join(dir, "absent")))
}
