//go:build !windows

package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/record"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/times"
)

func TestRecreateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	linkPath, _ := makeLink(t, dir, "doc", "payload")

	recPath, err := Serialize(linkPath, DefaultSerializeOptions())
	require.NoError(t, err)

	require.NoError(t, os.Remove(linkPath))

	created, err := Recreate(recPath, DefaultRecreateOptions())
	require.NoError(t, err)
	assert.Equal(t, linkPath, created)

	// The link was relative, so the recreated link is relative too,
	// with the original literal target.
	got, err := os.Readlink(linkPath)
	require.NoError(t, err)
	assert.Equal(t, "doc.txt", got)

	resolved, err := os.Stat(linkPath)
	require.NoError(t, err)
	assert.Equal(t, int64(len("payload")), resolved.Size())
}

func TestRecreateAbsoluteTarget(t *testing.T) {
	dir := t.TempDir()
	targetPath := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(targetPath, []byte("payload"), 0o644))
	linkPath := filepath.Join(dir, "doc-link")
	require.NoError(t, os.Symlink(targetPath, linkPath))

	recPath, err := Serialize(linkPath, DefaultSerializeOptions())
	require.NoError(t, err)
	require.NoError(t, os.Remove(linkPath))

	_, err = Recreate(recPath, DefaultRecreateOptions())
	require.NoError(t, err)

	got, err := os.Readlink(linkPath)
	require.NoError(t, err)
	assert.Equal(t, targetPath, got)
}

func TestRecreateTargetLocation(t *testing.T) {
	dir := t.TempDir()
	linkPath, _ := makeLink(t, dir, "doc", "payload")

	recPath, err := Serialize(linkPath, DefaultSerializeOptions())
	require.NoError(t, err)

	elsewhere := filepath.Join(dir, "elsewhere")
	opts := DefaultRecreateOptions()
	opts.TargetLocation = elsewhere

	created, err := Recreate(recPath, opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(elsewhere, "doc-link"), created)

	// The relative form is recomputed against the new directory so the
	// relocated link still resolves.
	got, err := os.Readlink(created)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", "doc.txt"), got)

	resolved, err := os.Stat(created)
	require.NoError(t, err)
	assert.Equal(t, int64(len("payload")), resolved.Size())
}

func TestRecreateReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	linkPath, _ := makeLink(t, dir, "doc", "payload")

	recPath, err := Serialize(linkPath, DefaultSerializeOptions())
	require.NoError(t, err)

	// Point the link somewhere else, then recreate from the record.
	require.NoError(t, os.Remove(linkPath))
	require.NoError(t, os.Symlink(filepath.Join(dir, "wrong"), linkPath))

	_, err = Recreate(recPath, DefaultRecreateOptions())
	require.NoError(t, err)

	got, err := os.Readlink(linkPath)
	require.NoError(t, err)
	assert.Equal(t, "doc.txt", got)
}

func TestRecreateAppliesStoredTimestamps(t *testing.T) {
	dir := t.TempDir()
	linkPath, _ := makeLink(t, dir, "doc", "payload")

	recPath, err := Serialize(linkPath, DefaultSerializeOptions())
	require.NoError(t, err)

	rec, err := record.Load(recPath)
	require.NoError(t, err)
	rec.Link.Timestamps = record.FromTriple(times.Triple{
		Modified: times.Stamp(1690000000),
		Accessed: times.Stamp(1690000000),
	})
	require.NoError(t, rec.Save(recPath))

	require.NoError(t, os.Remove(linkPath))

	opts := DefaultRecreateOptions()
	opts.Strategy = times.StrategySymlink

	_, err = Recreate(recPath, opts)
	require.NoError(t, err)

	info, err := os.Lstat(linkPath)
	require.NoError(t, err)
	assert.Equal(t, int64(1690000000), info.ModTime().Unix())
}

func TestRecreateUpdatesRecord(t *testing.T) {
	dir := t.TempDir()
	linkPath, _ := makeLink(t, dir, "doc", "payload")

	recPath, err := Serialize(linkPath, DefaultSerializeOptions())
	require.NoError(t, err)

	require.NoError(t, os.Remove(linkPath))

	opts := DefaultRecreateOptions()
	opts.UpdateRecord = true

	_, err = Recreate(recPath, opts)
	require.NoError(t, err)

	rec, err := record.Load(recPath)
	require.NoError(t, err)
	assert.Contains(t, rec.Meta.UpdateHistory, "recreated")
}

func TestRecreateMissingRecord(t *testing.T) {
	_, err := Recreate(filepath.Join(t.TempDir(), "absent.dazzlelink"), DefaultRecreateOptions())
	require.Error(t, err)
}
