package index

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// excludedDirNames are pruned before descending: version control trees,
// caches, and dependency directories dwarf the user's own files.
var excludedDirNames = map[string]bool{
	"AppData":      true,
	"node_modules": true,
	".git":         true,
	"__pycache__":  true,
	".cache":       true,
	".vscode":      true,
}

// fallbackSubfolders are tried under the user home when the configured root
// yields nothing, in order, stopping at the first that produces files.
var fallbackSubfolders = []string{"Documents", "Desktop", "Downloads"}

// Build walks the tree under root and returns one FileEntry per regular
// file. Files that cannot be stat'd (permissions, transient OS errors) are
// silently skipped; a per-file failure never aborts the scan.
func Build(root string) []FileEntry {
	var entries []FileEntry

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && excludedDirNames[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		name := d.Name()
		ext := strings.ToLower(filepath.Ext(name))

		// Creation time is not portably available; the modification time
		// stands in for both fields.
		ts := timeToISO(info.ModTime())

		entries = append(entries, FileEntry{
			Path:      path,
			Basename:  name,
			Name:      strings.ToLower(name),
			Directory: filepath.Dir(path),
			Extension: ext,
			Kind:      KindForExt(ext),
			Created:   ts,
			Modified:  ts,
			SizeBytes: info.Size(),
		})
		return nil
	})

	return entries
}

// BuildWithFallback builds the index under root. If the result is empty it
// tries the common user subfolders, merging files into the index by unique
// path and stopping at the first folder that yields results.
func BuildWithFallback(root string) []FileEntry {
	entries := Build(root)
	if len(entries) > 0 {
		return entries
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return entries
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[NormPath(e.Path)] = true
	}

	for _, sub := range fallbackSubfolders {
		dir := filepath.Join(home, sub)
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		log.Printf("index: root empty, trying fallback folder %s", dir)
		for _, e := range Build(dir) {
			norm := NormPath(e.Path)
			if seen[norm] {
				continue
			}
			seen[norm] = true
			entries = append(entries, e)
		}
		if len(entries) > 0 {
			break
		}
	}

	return entries
}
