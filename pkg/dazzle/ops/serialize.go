// Package ops implements the high-level link operations: serializing
// live links to records, recreating links from records, and the batch
// forms used by the command surface.
package ops

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/link"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/logging"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/pathmap"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/record"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/script"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/times"
)

// checksumLimit caps checksum computation to small files.
const checksumLimit = 1 << 20

// createdBy is stamped into every record this build writes.
const createdBy = "dazzlelink-go"

// SerializeOptions controls a single link export.
type SerializeOptions struct {
	// Output overrides the default <link>.dazzlelink destination.
	Output string
	// MakeExecutable wraps the record in the self-executing script form.
	MakeExecutable bool
	// Mode is the default action embedded in the record.
	Mode record.Mode
	// RequireSymlink rejects paths that are not symlinks. When false, a
	// plain file or directory is recorded with itself as the target.
	RequireSymlink bool
	// Mapper supplies alternate path representations for network paths.
	Mapper *pathmap.Mapper
}

// DefaultSerializeOptions returns the options used when the caller has
// no configuration of its own.
func DefaultSerializeOptions() SerializeOptions {
	return SerializeOptions{
		Mode:           record.ModeInfo,
		RequireSymlink: true,
	}
}

// Serialize captures linkPath into a link record on disk and returns
// the path of the written record file.
func Serialize(linkPath string, opts SerializeOptions) (string, error) {
	log := logging.Get("export")

	// Canonical, never EvalSymlinks: the link itself must not be
	// dereferenced.
	absPath, err := pathmap.Canonical(linkPath)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", linkPath, err)
	}

	isLink := link.IsLink(absPath)
	if opts.RequireSymlink && !isLink {
		return "", fmt.Errorf("%s is not a symbolic link", absPath)
	}

	rec := record.New(createdBy)
	rec.Link.OriginalPath = absPath
	rec.Config.Platform = runtime.GOOS
	if opts.Mode != "" {
		rec.Config.DefaultMode = opts.Mode
	}

	if isLink {
		rec.Link.Type = record.LinkSymlink
		rawTarget, err := link.ReadTarget(absPath)
		if err != nil {
			return "", fmt.Errorf("read target of %s: %w", absPath, err)
		}
		rec.Link.RelativePath = !filepath.IsAbs(rawTarget)
		if rec.Link.RelativePath {
			rec.Link.TargetPath = filepath.Join(filepath.Dir(absPath), rawTarget)
		} else {
			rec.Link.TargetPath = rawTarget
		}
	} else {
		rec.Link.Type = record.LinkFile
		rec.Link.TargetPath = absPath
	}

	if opts.Mapper != nil {
		rec.Link.PathRepresentations = opts.Mapper.Representations(absPath)
		rec.Link.TargetRepresentations = opts.Mapper.Representations(rec.Link.TargetPath)
	}

	if ts, err := times.CaptureLink(absPath); err == nil {
		rec.Link.Timestamps = record.FromTriple(ts)
	} else {
		log.Warn("link timestamp capture failed", "path", absPath, "error", err)
	}

	rec.Link.Attributes = attrsToRecord(link.CaptureAttrs(absPath))
	rec.Target = captureTarget(rec.Link.TargetPath)
	rec.Security = captureSecurity(absPath)

	outPath := opts.Output
	if outPath == "" {
		outPath = absPath + record.Extension
	} else if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	if opts.MakeExecutable {
		err = script.Write(rec, outPath)
	} else {
		err = rec.Save(outPath)
	}
	if err != nil {
		return "", err
	}

	log.Debug("serialized link", "link", absPath, "target", rec.Link.TargetPath, "record", outPath)
	return outPath, nil
}

// captureTarget inspects the stored target path and fills the target
// section. Everything here is best effort.
func captureTarget(targetPath string) record.Target {
	t := record.Target{Kind: record.TargetUnknown}

	if ext := filepath.Ext(targetPath); ext != "" {
		t.Extension = strings.ToLower(ext)
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return t
	}
	t.Exists = true

	if ts, ok := times.CaptureTarget(targetPath); ok {
		t.Timestamps = record.FromTriple(ts)
	}

	if info.IsDir() {
		t.Kind = record.TargetDirectory
		if entries, err := os.ReadDir(targetPath); err == nil {
			n := len(entries)
			t.ItemCount = &n
		}
		return t
	}

	t.Kind = record.TargetFile
	size := info.Size()
	t.Size = &size
	if size < checksumLimit {
		if sum, err := fileChecksum(targetPath); err == nil {
			t.Checksum = &sum
		}
	}
	return t
}

// fileChecksum hashes small target files so a repair pass can tell
// candidates apart. MD5 is an identity check here, not a security one.
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func attrsToRecord(a link.Attrs) record.Attributes {
	return record.Attributes{Hidden: a.Hidden, System: a.System, Readonly: a.Readonly}
}

func attrsFromRecord(a record.Attributes) link.Attrs {
	return link.Attrs{Hidden: a.Hidden, System: a.System, Readonly: a.Readonly}
}
