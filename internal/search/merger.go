package search

// Merge combines keyword and vector hits into one deduplicated result set
// keyed by path. Keyword hits are inserted first with their full metadata
// and match reason; vector hits then fold in, contributing only a snippet
// when the path is already present and a new vector-reason hit otherwise.
// If the filter is active the merged set is filtered again so that results
// honor the type constraints even when contributed by keyword matching.
// Output order is insertion order, not a relevance ranking.
func Merge(keyword, vector []Hit, filter Filter) []Hit {
	byPath := make(map[string]int, len(keyword))
	merged := make([]Hit, 0, len(keyword)+len(vector))

	for _, h := range keyword {
		if _, ok := byPath[h.Path]; ok {
			continue
		}
		byPath[h.Path] = len(merged)
		merged = append(merged, h)
	}

	for _, v := range vector {
		if i, ok := byPath[v.Path]; ok {
			if merged[i].Snippet == "" {
				merged[i].Snippet = v.Snippet
			}
			continue
		}
		if v.Reason == "" {
			v.Reason = ReasonVector
		}
		if v.ReasonDetail == "" {
			if v.Snippet != "" {
				v.ReasonDetail = v.Snippet
			} else {
				v.ReasonDetail = "vector match"
			}
		}
		byPath[v.Path] = len(merged)
		merged = append(merged, v)
	}

	if !filter.Active() {
		return merged
	}

	filtered := merged[:0]
	for _, h := range merged {
		if filter.Matches(h.FileEntry) {
			filtered = append(filtered, h)
		}
	}
	return filtered
}
