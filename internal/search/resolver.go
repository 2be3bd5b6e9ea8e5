package search

import (
	"path"
	"strings"

	"github.com/vamshidharreddye/llmlocalai/internal/index"
)

// Resolve disambiguates a command believed to reference one file (an
// absolute path or a bare/partial filename) to exactly one index entry.
//
// Resolution cascades through four tiers, each stopping the cascade when it
// produces exactly one match. A tier with zero matches falls through to the
// next; a tier with more than one match terminates with no result, because
// an ambiguous reference must never be auto-picked.
//
//  1. exact normalized absolute-path equality
//  2. exact lowercased basename equality
//  3. normalized path suffix match (partial tail paths)
//  4. lowercased name prefix match
func Resolve(entries []index.FileEntry, command string) (index.FileEntry, bool) {
	if len(entries) == 0 {
		return index.FileEntry{}, false
	}

	cmdNorm := index.NormPath(command)

	for i := range entries {
		if index.NormPath(entries[i].Path) == cmdNorm {
			return entries[i], true
		}
	}

	cmdName := strings.ToLower(path.Base(cmdNorm))

	tiers := []func(e *index.FileEntry) bool{
		func(e *index.FileEntry) bool { return e.Name == cmdName },
		func(e *index.FileEntry) bool { return strings.HasSuffix(index.NormPath(e.Path), cmdNorm) },
		func(e *index.FileEntry) bool { return strings.HasPrefix(e.Name, cmdName) },
	}

	for _, match := range tiers {
		found := -1
		for i := range entries {
			if !match(&entries[i]) {
				continue
			}
			if found >= 0 {
				// More than one candidate at this tier: ambiguous.
				return index.FileEntry{}, false
			}
			found = i
		}
		if found >= 0 {
			return entries[found], true
		}
	}

	return index.FileEntry{}, false
}
