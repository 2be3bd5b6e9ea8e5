package search

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vamshidharreddye/llmlocalai/internal/index"
)

var nonWord = regexp.MustCompile(`\W+`)

// Keywords builds the keyword set for a query: split on non-word characters,
// drop tokens under three characters, and add a singularized form of each
// token as primitive stemming. Order is first-seen, duplicates removed.
func Keywords(query string) []string {
	var keywords []string
	seen := make(map[string]bool)
	add := func(kw string) {
		if !seen[kw] {
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}

	for _, tok := range nonWord.Split(strings.ToLower(query), -1) {
		if len(tok) < 3 {
			continue
		}
		add(tok)
		if strings.HasSuffix(tok, "s") && len(tok) > 3 {
			add(tok[:len(tok)-1])
		}
	}
	return keywords
}

// MatchKeywords scans index entries in order and returns entries whose
// filename or parent folder contains one of the query keywords. The first
// matching keyword wins, with a name match preferred over a folder match.
// Collection stops at maxResults: this is a bounded linear scan, so output
// order reflects index order, not relevance.
func MatchKeywords(entries []index.FileEntry, query string, maxResults int) []Hit {
	keywords := Keywords(query)
	if len(keywords) == 0 {
		return nil
	}

	var hits []Hit
	for i := range entries {
		e := &entries[i]
		folder := strings.ToLower(filepath.Base(e.Directory))

		var reason, detail string
		for _, kw := range keywords {
			if strings.Contains(e.Name, kw) {
				reason = ReasonName
				detail = fmt.Sprintf("matched %q in filename", kw)
				break
			}
			if strings.Contains(folder, kw) {
				reason = ReasonFolder
				detail = fmt.Sprintf("matched %q in folder name", kw)
				break
			}
		}
		if reason == "" {
			continue
		}

		hits = append(hits, Hit{
			FileEntry:    *e,
			Reason:       reason,
			ReasonDetail: detail,
		})
		if maxResults > 0 && len(hits) >= maxResults {
			break
		}
	}
	return hits
}
