package record

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/times"
)

const nestedBody = `{
  "schema_version": 2,
  "created_by": "dazzlelink test",
  "creation_timestamp": 1700000000.5,
  "creation_date": "2023-11-14T22:13:20Z",
  "dazzlelink_metadata": {
    "last_updated_timestamp": 1700000000.5,
    "last_updated_date": "2023-11-14T22:13:20Z",
    "update_history": ["created"]
  },
  "link": {
    "original_path": "/home/u/docs/report.lnk",
    "target_path": "../shared/report.pdf",
    "target_representations": {"canonical": "/srv/shared/report.pdf"},
    "type": "symlink",
    "relative_path": true,
    "timestamps": {"created": null, "modified": 1690000000.0, "accessed": 1690000001.0},
    "attributes": {"hidden": false, "system": false, "readonly": false}
  },
  "target": {
    "exists": true,
    "type": "file",
    "size": 2048,
    "checksum": "d41d8cd98f00b204e9800998ecf8427e",
    "timestamps": {"created": null, "modified": 1680000000.0, "accessed": null}
  },
  "security": {"permissions": 493, "owner": "u", "group": "staff"},
  "config": {"default_mode": "info", "platform": "linux"}
}`

const flatBody = `{
  "schema_version": 1,
  "original_path": "/home/u/docs/report.lnk",
  "target_path": "/srv/shared/report.pdf",
  "type": "symlink",
  "relative_path": false,
  "timestamps": {"modified": 1690000000.0},
  "target": {"exists": true, "type": "file", "timestamps": {"modified": 1680000000.0}},
  "config": {"default_mode": "open"}
}`

func TestDecodeNested(t *testing.T) {
	r, err := Decode([]byte(nestedBody))
	require.NoError(t, err)

	assert.Equal(t, 2, r.SchemaVersion)
	assert.Equal(t, "../shared/report.pdf", r.Link.TargetPath)
	assert.True(t, r.Link.RelativePath)
	assert.Equal(t, LinkSymlink, r.Link.Type)
	assert.Equal(t, TargetFile, r.Target.Kind)
	require.NotNil(t, r.Target.Size)
	assert.Equal(t, int64(2048), *r.Target.Size)
	assert.Equal(t, float64(1690000000), *r.Link.Timestamps.Modified)
}

func TestDecodeFlatUpgrades(t *testing.T) {
	r, err := Decode([]byte(flatBody))
	require.NoError(t, err)

	assert.Equal(t, "/srv/shared/report.pdf", r.Link.TargetPath)
	assert.Equal(t, "/home/u/docs/report.lnk", r.Link.OriginalPath)
	assert.Equal(t, ModeOpen, r.Config.DefaultMode)
	assert.Equal(t, float64(1690000000), *r.Link.Timestamps.Modified)
	assert.Equal(t, float64(1680000000), *r.Target.Timestamps.Modified)
	assert.Equal(t, []string{"created"}, r.Meta.UpdateHistory)
}

func TestDecodeSkipsScriptHeader(t *testing.T) {
	wrapped := "#!/bin/sh\n# self-executing dazzlelink\nexit 0\n" +
		Sentinel + "\n" + nestedBody + "\n"
	r, err := Decode([]byte(wrapped))
	require.NoError(t, err)
	assert.Equal(t, "../shared/report.pdf", r.Link.TargetPath)
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":       "hello",
		"no target path": `{"schema_version": 2, "link": {"original_path": "/x"}}`,
		"empty object":   `{}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeNewerSchemaAccepted(t *testing.T) {
	body := `{
  "schema_version": 9,
  "some_future_field": {"x": 1},
  "link": {"target_path": "/srv/x", "type": "symlink", "timestamps": {}, "attributes": {}}
}`
	r, err := Decode([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, r.SchemaVersion)
	assert.Equal(t, "/srv/x", r.Link.TargetPath)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf"+Extension)

	r, err := Decode([]byte(nestedBody))
	require.NoError(t, err)
	r.Touch("imported")
	require.NoError(t, r.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, r.Link.TargetPath, got.Link.TargetPath)
	assert.Equal(t, []string{"created", "imported"}, got.Meta.UpdateHistory)
	assert.NotEmpty(t, got.Link.Timestamps.ModifiedISO)

	// Writers always emit the nested layout.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"link"`)
	assert.NotContains(t, string(raw), Sentinel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.dazzlelink"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformed)
}

func TestTargetCandidates(t *testing.T) {
	r := &Record{Link: Link{
		TargetPath: "/srv/shared/report.pdf",
		TargetRepresentations: map[string]string{
			"mapped":    "Z:/shared/report.pdf",
			"canonical": "/srv/shared/report.pdf",
			"unc":       "//fileserver/shared/report.pdf",
		},
	}}
	assert.Equal(t, []string{
		"/srv/shared/report.pdf",
		"//fileserver/shared/report.pdf",
		"Z:/shared/report.pdf",
	}, r.TargetCandidates())
}

func TestFromTriple(t *testing.T) {
	ts := FromTriple(times.Triple{Modified: times.Stamp(1690000000)})
	assert.Equal(t, "2023-07-22T05:06:40Z", ts.ModifiedISO)
	assert.Nil(t, ts.Created)
	assert.Empty(t, ts.CreatedISO)
}
