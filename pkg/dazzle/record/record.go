// Package record defines the persisted link record: the portable JSON
// document that captures everything needed to recreate a symbolic link
// on another machine. Two schema generations exist on disk; the codec
// normalizes both into the one in-memory shape defined here.
package record

import (
	"sort"
	"time"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/times"
)

// SchemaVersion is the generation this code writes. Readers accept this
// and the flat generation before it.
const SchemaVersion = 2

// Extension is the suffix link records carry on disk.
const Extension = ".dazzlelink"

// LinkType distinguishes records made from real symlinks from records
// made directly from plain files.
type LinkType string

const (
	LinkSymlink LinkType = "symlink"
	LinkFile    LinkType = "file"
)

// TargetKind describes what the target resolved to at capture time.
type TargetKind string

const (
	TargetFile      TargetKind = "file"
	TargetDirectory TargetKind = "directory"
	TargetUnknown   TargetKind = "unknown"
)

// Mode is the default action taken when an embedded record script runs.
type Mode string

const (
	ModeInfo Mode = "info"
	ModeOpen Mode = "open"
	ModeAuto Mode = "auto"
)

// Record is the canonical in-memory link record. JSON tags describe the
// nested on-disk layout; the earlier flat layout is translated into this
// shape at load time.
type Record struct {
	SchemaVersion     int     `json:"schema_version"`
	CreatedBy         string  `json:"created_by"`
	CreationTimestamp float64 `json:"creation_timestamp"`
	CreationDate      string  `json:"creation_date"`

	Meta     Meta     `json:"dazzlelink_metadata"`
	Link     Link     `json:"link"`
	Target   Target   `json:"target"`
	Security Security `json:"security"`
	Config   Config   `json:"config"`
}

// Meta tracks mutations to the record after its creation.
type Meta struct {
	LastUpdatedTimestamp float64  `json:"last_updated_timestamp"`
	LastUpdatedDate      string   `json:"last_updated_date"`
	UpdateHistory        []string `json:"update_history"`
}

// Link describes the link itself as captured.
type Link struct {
	OriginalPath          string            `json:"original_path"`
	PathRepresentations   map[string]string `json:"path_representations,omitempty"`
	TargetPath            string            `json:"target_path"`
	TargetRepresentations map[string]string `json:"target_representations,omitempty"`
	Type                  LinkType          `json:"type"`
	RelativePath          bool              `json:"relative_path"`
	Timestamps            Timestamps        `json:"timestamps"`
	Attributes            Attributes        `json:"attributes"`
}

// Attributes carries the three portable Windows file attribute flags.
// They are captured best effort and always false on POSIX hosts.
type Attributes struct {
	Hidden   bool `json:"hidden"`
	System   bool `json:"system"`
	Readonly bool `json:"readonly"`
}

// Target describes what the link pointed at when the record was made.
type Target struct {
	Exists     bool       `json:"exists"`
	Kind       TargetKind `json:"type"`
	Size       *int64     `json:"size"`
	Checksum   *string    `json:"checksum"`
	Extension  string     `json:"extension,omitempty"`
	ItemCount  *int       `json:"item_count,omitempty"`
	Timestamps Timestamps `json:"timestamps"`
}

// Security is best-effort POSIX ownership and permission capture. All
// fields are placeholders on hosts without POSIX semantics.
type Security struct {
	Permissions      *uint32 `json:"permissions"`
	PermissionsOctal string  `json:"permissions_octal,omitempty"`
	Owner            *string `json:"owner"`
	Group            *string `json:"group"`
	OwnerID          *int    `json:"owner_id,omitempty"`
	GroupID          *int    `json:"group_id,omitempty"`
}

// Config is per-record behavior configuration.
type Config struct {
	DefaultMode Mode   `json:"default_mode"`
	Platform    string `json:"platform"`
}

// Timestamps is a triple of epoch-second stamps with human-readable
// mirrors. The ISO mirrors are derived on write and ignored on read.
type Timestamps struct {
	Created     *float64 `json:"created"`
	Modified    *float64 `json:"modified"`
	Accessed    *float64 `json:"accessed"`
	CreatedISO  string   `json:"created_iso,omitempty"`
	ModifiedISO string   `json:"modified_iso,omitempty"`
	AccessedISO string   `json:"accessed_iso,omitempty"`
}

// Triple strips the ISO mirrors for strategy resolution and application.
func (t Timestamps) Triple() times.Triple {
	return times.Triple{Created: t.Created, Modified: t.Modified, Accessed: t.Accessed}
}

// FromTriple builds record timestamps, regenerating the ISO mirrors.
func FromTriple(tr times.Triple) Timestamps {
	ts := Timestamps{Created: tr.Created, Modified: tr.Modified, Accessed: tr.Accessed}
	ts.refreshISO()
	return ts
}

func (t *Timestamps) refreshISO() {
	t.CreatedISO = isoOf(t.Created)
	t.ModifiedISO = isoOf(t.Modified)
	t.AccessedISO = isoOf(t.Accessed)
}

func isoOf(v *float64) string {
	if v == nil {
		return ""
	}
	return times.AsTime(v).UTC().Format(time.RFC3339)
}

// New returns a record stamped with the current time and the writing
// schema generation. Capture code fills in the rest.
func New(createdBy string) *Record {
	now := time.Now()
	stamp := float64(now.UnixNano()) / float64(time.Second)
	date := now.UTC().Format(time.RFC3339)
	return &Record{
		SchemaVersion:     SchemaVersion,
		CreatedBy:         createdBy,
		CreationTimestamp: stamp,
		CreationDate:      date,
		Meta: Meta{
			LastUpdatedTimestamp: stamp,
			LastUpdatedDate:      date,
			UpdateHistory:        []string{"created"},
		},
		Config: Config{DefaultMode: ModeInfo},
	}
}

// Touch records a mutation reason and refreshes the update metadata.
func (r *Record) Touch(reason string) {
	now := time.Now()
	r.Meta.LastUpdatedTimestamp = float64(now.UnixNano()) / float64(time.Second)
	r.Meta.LastUpdatedDate = now.UTC().Format(time.RFC3339)
	r.Meta.UpdateHistory = append(r.Meta.UpdateHistory, reason)
}

// TargetCandidates returns the target path plus every alternate
// representation, primary first, deduplicated in order.
func (r *Record) TargetCandidates() []string {
	seen := make(map[string]struct{}, 1+len(r.Link.TargetRepresentations))
	out := make([]string, 0, 1+len(r.Link.TargetRepresentations))
	add := func(p string) {
		if p == "" {
			return
		}
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	add(r.Link.TargetPath)
	for _, p := range sortedValues(r.Link.TargetRepresentations) {
		add(p)
	}
	return out
}

// sortedValues walks a representation map in key order so candidate
// ordering is stable across runs.
func sortedValues(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]string, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, m[k])
	}
	return vals
}
