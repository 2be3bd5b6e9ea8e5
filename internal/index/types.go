package index

import (
	"path/filepath"
	"strings"
	"time"
)

// Kind is the coarse file category derived from a file's extension.
type Kind string

const (
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
	KindOther Kind = "other"
)

// TimeUnknown is recorded when the OS reports an invalid timestamp.
const TimeUnknown = "unknown"

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// KindForExt maps a dotted, lowercased extension to its Kind.
func KindForExt(ext string) Kind {
	ext = strings.ToLower(ext)
	switch {
	case ext == ".pdf":
		return KindPDF
	case imageExts[ext]:
		return KindImage
	default:
		return KindOther
	}
}

// FileEntry is one file's metadata record. Entries are keyed by Path,
// which is unique within a snapshot.
type FileEntry struct {
	Path      string `json:"path"`
	Basename  string `json:"basename"`
	Name      string `json:"name"` // lowercased basename
	Directory string `json:"directory"`
	Extension string `json:"extension"`
	Kind      Kind   `json:"kind"`
	Created   string `json:"created"`
	Modified  string `json:"modified"`
	SizeBytes int64  `json:"size_bytes"`
}

// NormPath normalizes separators and case so paths from different sources
// compare equal. Windows-style backslashes are folded to forward slashes.
func NormPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	return strings.ToLower(filepath.ToSlash(filepath.Clean(p)))
}

// timeToISO converts a timestamp to an ISO-8601 string. Some filesystems
// report garbage timestamps for system files; those become TimeUnknown
// instead of aborting the entry.
func timeToISO(t time.Time) string {
	if t.IsZero() || t.Year() < 1970 || t.Year() > 9999 {
		return TimeUnknown
	}
	return t.Format("2006-01-02T15:04:05")
}
