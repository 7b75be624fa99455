package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Sentinel separates an optional self-executing script header from the
// JSON body. Readers skip everything up to and including the line that
// carries it.
const Sentinel = "# DAZZLELINK_DATA_BEGIN"

// ErrMalformed marks records that parse under neither schema generation.
// Batch callers match on it to fail the one record instead of the run.
var ErrMalformed = errors.New("malformed link record")

// Load reads and normalizes a record file, transparently skipping a
// script header when present.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load record %s: %w", path, err)
	}
	r, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load record %s: %w", path, err)
	}
	return r, nil
}

// Decode parses raw record bytes. Both the nested layout and the earlier
// flat layout are accepted; the flat layout is upgraded in place so no
// caller ever sees it.
func Decode(data []byte) (*Record, error) {
	body := stripHeader(data)

	// The layouts are told apart by where target_path lives, not by the
	// version number: old writers were sloppy about bumping it.
	var probe struct {
		TargetPath *string         `json:"target_path"`
		Link       json.RawMessage `json:"link"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if probe.TargetPath != nil && len(probe.Link) == 0 {
		return decodeFlat(body)
	}

	var r Record
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if r.Link.TargetPath == "" {
		return nil, fmt.Errorf("%w: no target path", ErrMalformed)
	}
	if r.SchemaVersion > SchemaVersion {
		// Newer generations are accepted as long as the nested shape
		// still decodes; unknown fields are simply dropped.
		r.SchemaVersion = SchemaVersion
	}
	normalize(&r)
	return &r, nil
}

// flatRecord is the first on-disk generation: link fields at the root.
type flatRecord struct {
	SchemaVersion     int               `json:"schema_version"`
	CreatedBy         string            `json:"created_by"`
	CreationTimestamp float64           `json:"creation_timestamp"`
	CreationDate      string            `json:"creation_date"`
	OriginalPath      string            `json:"original_path"`
	TargetPath        string            `json:"target_path"`
	PathReprs         map[string]string `json:"path_representations"`
	TargetReprs       map[string]string `json:"target_representations"`
	Type              LinkType          `json:"type"`
	RelativePath      bool              `json:"relative_path"`
	Timestamps        Timestamps        `json:"timestamps"`
	Attributes        Attributes        `json:"attributes"`
	Target            Target            `json:"target"`
	Security          Security          `json:"security"`
	Config            Config            `json:"config"`
}

func decodeFlat(body []byte) (*Record, error) {
	var f flatRecord
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if f.TargetPath == "" {
		return nil, fmt.Errorf("%w: no target path", ErrMalformed)
	}
	r := &Record{
		SchemaVersion:     f.SchemaVersion,
		CreatedBy:         f.CreatedBy,
		CreationTimestamp: f.CreationTimestamp,
		CreationDate:      f.CreationDate,
		Link: Link{
			OriginalPath:          f.OriginalPath,
			PathRepresentations:   f.PathReprs,
			TargetPath:            f.TargetPath,
			TargetRepresentations: f.TargetReprs,
			Type:                  f.Type,
			RelativePath:          f.RelativePath,
			Timestamps:            f.Timestamps,
			Attributes:            f.Attributes,
		},
		Target:   f.Target,
		Security: f.Security,
		Config:   f.Config,
	}
	normalize(r)
	return r, nil
}

func normalize(r *Record) {
	if r.Link.Type == "" {
		r.Link.Type = LinkSymlink
	}
	if r.Target.Kind == "" {
		r.Target.Kind = TargetUnknown
	}
	if r.Config.DefaultMode == "" {
		r.Config.DefaultMode = ModeInfo
	}
	if len(r.Meta.UpdateHistory) == 0 {
		r.Meta.UpdateHistory = []string{"created"}
	}
	if r.Meta.LastUpdatedTimestamp == 0 {
		r.Meta.LastUpdatedTimestamp = r.CreationTimestamp
		r.Meta.LastUpdatedDate = r.CreationDate
	}
}

// stripHeader returns the JSON body, dropping any script wrapper before
// the sentinel line.
func stripHeader(data []byte) []byte {
	idx := bytes.Index(data, []byte(Sentinel))
	if idx < 0 {
		return data
	}
	rest := data[idx+len(Sentinel):]
	if nl := bytes.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	}
	return rest
}

// Encode renders the record in the nested layout, refreshing the ISO
// timestamp mirrors first.
func (r *Record) Encode() ([]byte, error) {
	r.Link.Timestamps.refreshISO()
	r.Target.Timestamps.refreshISO()
	return json.MarshalIndent(r, "", "  ")
}

// Save writes the record atomically: a temp file in the destination
// directory, then a rename over the final name.
func (r *Record) Save(path string) error {
	data, err := r.Encode()
	if err != nil {
		return fmt.Errorf("encode record %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dazzlelink-*")
	if err != nil {
		return fmt.Errorf("save record %s: %w", path, err)
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(append(data, '\n'))
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmpName)
		if werr != nil {
			return fmt.Errorf("save record %s: %w", path, werr)
		}
		return fmt.Errorf("save record %s: %w", path, cerr)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save record %s: %w", path, err)
	}
	return nil
}
