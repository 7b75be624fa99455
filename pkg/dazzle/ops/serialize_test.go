//go:build !windows

package ops

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/record"
)

// makeLink creates target content and a symlink pointing at it, using a
// relative target path.
func makeLink(t *testing.T, dir, name, content string) (linkPath, targetPath string) {
	t.Helper()
	targetPath = filepath.Join(dir, name+".txt")
	require.NoError(t, os.WriteFile(targetPath, []byte(content), 0o644))
	linkPath = filepath.Join(dir, name+"-link")
	require.NoError(t, os.Symlink(name+".txt", linkPath))
	return linkPath, targetPath
}

func TestSerializeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	linkPath, targetPath := makeLink(t, dir, "doc", "hello world")

	recPath, err := Serialize(linkPath, DefaultSerializeOptions())
	require.NoError(t, err)
	assert.Equal(t, linkPath+record.Extension, recPath)

	rec, err := record.Load(recPath)
	require.NoError(t, err)

	assert.Equal(t, linkPath, rec.Link.OriginalPath)
	assert.Equal(t, targetPath, rec.Link.TargetPath)
	assert.True(t, rec.Link.RelativePath)
	assert.Equal(t, record.LinkSymlink, rec.Link.Type)
	assert.True(t, rec.Link.Timestamps.Triple().Usable())

	assert.True(t, rec.Target.Exists)
	assert.Equal(t, record.TargetFile, rec.Target.Kind)
	require.NotNil(t, rec.Target.Size)
	assert.Equal(t, int64(len("hello world")), *rec.Target.Size)
	assert.Equal(t, ".txt", rec.Target.Extension)

	sum := md5.Sum([]byte("hello world"))
	require.NotNil(t, rec.Target.Checksum)
	assert.Equal(t, hex.EncodeToString(sum[:]), *rec.Target.Checksum)

	require.NotNil(t, rec.Security.Permissions)
	require.NotNil(t, rec.Security.OwnerID)
	assert.Equal(t, os.Getuid(), *rec.Security.OwnerID)
}

func TestSerializeCanonicalizesLinkPath(t *testing.T) {
	dir := t.TempDir()
	linkPath, _ := makeLink(t, dir, "doc", "payload")

	// An unclean spelling of the same path serializes to the canonical
	// form, without dereferencing the link.
	unclean := dir + "/sub/../doc-link"
	recPath, err := Serialize(unclean, DefaultSerializeOptions())
	require.NoError(t, err)
	assert.Equal(t, linkPath+record.Extension, recPath)

	rec, err := record.Load(recPath)
	require.NoError(t, err)
	assert.Equal(t, linkPath, rec.Link.OriginalPath)
	assert.Equal(t, record.LinkSymlink, rec.Link.Type)
}

func TestSerializeAbsoluteTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "abs.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	linkPath := filepath.Join(dir, "abs-link")
	require.NoError(t, os.Symlink(target, linkPath))

	recPath, err := Serialize(linkPath, DefaultSerializeOptions())
	require.NoError(t, err)

	rec, err := record.Load(recPath)
	require.NoError(t, err)
	assert.Equal(t, target, rec.Link.TargetPath)
	assert.False(t, rec.Link.RelativePath)
}

func TestSerializeDirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "stuff")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "a"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "b"), nil, 0o644))
	linkPath := filepath.Join(dir, "stuff-link")
	require.NoError(t, os.Symlink(target, linkPath))

	recPath, err := Serialize(linkPath, DefaultSerializeOptions())
	require.NoError(t, err)

	rec, err := record.Load(recPath)
	require.NoError(t, err)
	assert.Equal(t, record.TargetDirectory, rec.Target.Kind)
	require.NotNil(t, rec.Target.ItemCount)
	assert.Equal(t, 2, *rec.Target.ItemCount)
	assert.Nil(t, rec.Target.Size)
}

func TestSerializeRequiresSymlink(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(plain, []byte("x"), 0o644))

	_, err := Serialize(plain, DefaultSerializeOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a symbolic link")

	opts := DefaultSerializeOptions()
	opts.RequireSymlink = false
	recPath, err := Serialize(plain, opts)
	require.NoError(t, err)

	rec, err := record.Load(recPath)
	require.NoError(t, err)
	assert.Equal(t, record.LinkFile, rec.Link.Type)
	assert.Equal(t, plain, rec.Link.TargetPath)
}

func TestSerializeExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	linkPath, _ := makeLink(t, dir, "doc", "data")

	out := filepath.Join(dir, "nested", "out", "doc.dazzlelink")
	opts := DefaultSerializeOptions()
	opts.Output = out

	recPath, err := Serialize(linkPath, opts)
	require.NoError(t, err)
	assert.Equal(t, out, recPath)

	_, err = record.Load(out)
	require.NoError(t, err)
}

func TestSerializeExecutableWrapper(t *testing.T) {
	dir := t.TempDir()
	linkPath, _ := makeLink(t, dir, "doc", "data")

	opts := DefaultSerializeOptions()
	opts.MakeExecutable = true

	recPath, err := Serialize(linkPath, opts)
	require.NoError(t, err)

	data, err := os.ReadFile(recPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), record.Sentinel)

	info, err := os.Stat(recPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111)

	rec, err := record.Load(recPath)
	require.NoError(t, err)
	assert.Equal(t, linkPath, rec.Link.OriginalPath)
}

func TestSerializeMissingTarget(t *testing.T) {
	dir := t.TempDir()
	linkPath := filepath.Join(dir, "dangling")
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone.txt"), linkPath))

	recPath, err := Serialize(linkPath, DefaultSerializeOptions())
	require.NoError(t, err)

	rec, err := record.Load(recPath)
	require.NoError(t, err)
	assert.False(t, rec.Target.Exists)
	assert.Equal(t, record.TargetUnknown, rec.Target.Kind)
	assert.Equal(t, ".txt", rec.Target.Extension)
}
