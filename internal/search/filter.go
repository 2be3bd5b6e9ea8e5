package search

import (
	"strings"

	"github.com/vamshidharreddye/llmlocalai/internal/index"
)

// typeSynonyms maps query tokens (after stripping one trailing "s") to a
// dotted extension or an abstract kind.
var typeSynonyms = map[string]string{
	"txt":      ".txt",
	"text":     ".txt",
	"pdf":      ".pdf",
	"docx":     ".docx",
	"doc":      ".doc",
	"md":       ".md",
	"markdown": ".md",
	"image":    "image",
	"jpg":      ".jpg",
	"jpeg":     ".jpeg",
	"png":      ".png",
}

// stopWords are tokens that carry no search intent on their own.
var stopWords = map[string]bool{
	"where": true, "what": true, "which": true, "how": true,
	"are": true, "my": true, "the": true, "a": true, "an": true,
	"find": true, "show": true, "list": true, "files": true, "file": true,
}

// Filter holds type constraints extracted from a query plus the query with
// the recognized type tokens removed.
type Filter struct {
	Extensions map[string]bool
	Kinds      map[index.Kind]bool
	Cleaned    string
}

// ParseTypeFilter extracts extension/kind filters from a raw query.
// Unrecognized tokens are retained in order to form the cleaned query.
func ParseTypeFilter(query string) Filter {
	f := Filter{
		Extensions: make(map[string]bool),
		Kinds:      make(map[index.Kind]bool),
	}

	var remaining []string
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		key := strings.TrimSuffix(strings.TrimSpace(tok), "s")
		if val, ok := typeSynonyms[key]; ok {
			if strings.HasPrefix(val, ".") {
				f.Extensions[val] = true
			} else {
				f.Kinds[index.Kind(val)] = true
			}
			continue
		}
		remaining = append(remaining, tok)
	}

	f.Cleaned = strings.TrimSpace(strings.Join(remaining, " "))
	return f
}

// Active reports whether any extension or kind constraint is present.
func (f Filter) Active() bool {
	return len(f.Extensions) > 0 || len(f.Kinds) > 0
}

// Matches reports whether an entry satisfies the filter. An inactive filter
// matches everything.
func (f Filter) Matches(e index.FileEntry) bool {
	if !f.Active() {
		return true
	}
	if f.Extensions[e.Extension] {
		return true
	}
	return f.Kinds[e.Kind]
}

// MeaningfulTokens returns the tokens of s that are at least three
// characters long and not stop words. A query whose cleaned form has no
// meaningful tokens is a pure type listing, not a keyword search.
func MeaningfulTokens(s string) []string {
	var toks []string
	for _, t := range strings.Fields(s) {
		if len(t) >= 3 && !stopWords[t] {
			toks = append(toks, t)
		}
	}
	return toks
}
