package link

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// Scan returns the symbolic links under dir, sorted lexicographically.
// With recursive set it walks the whole tree, otherwise only the direct
// children are examined.
func Scan(dir string, recursive bool) ([]string, error) {
	if !recursive {
		return scanShallow(dir)
	}

	conf := fastwalk.Config{
		Follow: false, // Don't follow symlinks.
	}

	var mu sync.Mutex
	var links []string
	err := fastwalk.Walk(&conf, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			mu.Lock()
			links = append(links, path)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	// fastwalk visits concurrently; callers get a stable order.
	sort.Strings(links)
	return links, nil
}

func scanShallow(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var links []string
	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink != 0 {
			links = append(links, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(links)
	return links, nil
}

// ScanRecords returns the dazzlelink record files under dir, sorted
// lexicographically.
func ScanRecords(dir string, recursive bool, extension string) ([]string, error) {
	var mu sync.Mutex
	var records []string

	collect := func(path string, d fs.DirEntry) {
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), extension) {
			mu.Lock()
			records = append(records, path)
			mu.Unlock()
		}
	}

	if recursive {
		conf := fastwalk.Config{Follow: false}
		err := fastwalk.Walk(&conf, dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			collect(path, d)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan records %s: %w", dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("scan records %s: %w", dir, err)
		}
		for _, entry := range entries {
			collect(filepath.Join(dir, entry.Name()), entry)
		}
	}

	sort.Strings(records)
	return records, nil
}
