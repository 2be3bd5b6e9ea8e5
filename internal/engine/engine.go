// Package engine drives query resolution: classify the query, resolve
// explicit file references, run keyword and semantic search side by side,
// merge, and fall back to a generic model answer when nothing local
// matches.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vamshidharreddye/llmlocalai/internal/index"
	"github.com/vamshidharreddye/llmlocalai/internal/llm"
	"github.com/vamshidharreddye/llmlocalai/internal/search"
	"github.com/vamshidharreddye/llmlocalai/internal/searcher"
	"github.com/vamshidharreddye/llmlocalai/internal/summarizer"
)

// Error codes surfaced in structured answers. These are user-level
// conditions, not protocol failures.
const (
	CodeIndexEmpty   = "INDEX_EMPTY"
	CodeFileNotFound = "FILE_NOT_FOUND"
)

const (
	// keywordMaxAsk bounds name/folder matches on the ask path.
	keywordMaxAsk = 30

	// keywordMaxSearch bounds matches on the dedicated search path.
	keywordMaxSearch = 200

	// typeListMax bounds pure type listings ("pdf files").
	typeListMax = 100

	// vectorTopKAsk is the semantic candidate count on the ask path.
	vectorTopKAsk = 10
)

const genericPrompt = "You are a helpful assistant running locally. " +
	"No local files matched the user's keywords. " +
	"Answer the user's question based only on your general knowledge.\n\nUser: %s"

// Engine wires the snapshot store, the two search paths, the summarization
// pipeline, and the generation client.
type Engine struct {
	store      *index.Store
	vector     *searcher.Searcher
	summarizer *summarizer.Summarizer
	llm        *llm.Client
}

// New creates an Engine.
func New(store *index.Store, vector *searcher.Searcher, summ *summarizer.Summarizer, client *llm.Client) *Engine {
	return &Engine{
		store:      store,
		vector:     vector,
		summarizer: summ,
		llm:        client,
	}
}

// AskResult is the outcome of one resolve-or-search request.
type AskResult struct {
	Answer   string
	Sources  []search.Hit
	Markdown string
	ErrCode  string
}

// Ask classifies the query and runs the matching pipeline: direct-file
// summarization for explicit references, merged keyword+semantic search for
// everything else, and a generic model answer when no local file matches.
func (e *Engine) Ask(ctx context.Context, query, modelOverride string) *AskResult {
	query = strings.TrimSpace(query)
	filter := search.ParseTypeFilter(query)

	if command, ok := e.fileCommand(query); ok {
		return e.askFile(ctx, command, modelOverride)
	}

	hits := e.collectHits(ctx, query, filter)
	if len(hits) > 0 {
		return &AskResult{
			Answer:   fmt.Sprintf("I found %d matching file(s). See the table below.", len(hits)),
			Sources:  hits,
			Markdown: RenderTable(hits),
		}
	}

	// Nothing local matched: generic answer from the model.
	answer, err := e.llm.Generate(ctx, fmt.Sprintf(genericPrompt, query), modelOverride)
	if err != nil {
		answer = llm.ErrorLine(err)
	}
	return &AskResult{Answer: answer, Sources: []search.Hit{}}
}

// fileCommand decides whether the query is an explicit file reference:
// a leading slash, an absolute path, or a query exactly equal to an indexed
// path.
func (e *Engine) fileCommand(query string) (string, bool) {
	if strings.HasPrefix(query, "/") {
		return strings.TrimSpace(query[1:]), true
	}
	if filepath.IsAbs(query) || looksLikeWindowsPath(query) {
		return query, true
	}
	if _, ok := e.store.Lookup(query); ok {
		return query, true
	}
	return "", false
}

// looksLikeWindowsPath catches drive-letter paths the UI sends even when
// the service runs elsewhere.
func looksLikeWindowsPath(q string) bool {
	return len(q) > 2 && q[1] == ':' && (q[2] == '\\' || q[2] == '/')
}

func (e *Engine) askFile(ctx context.Context, command, modelOverride string) *AskResult {
	if e.store.Len() == 0 {
		return &AskResult{
			Answer:  "No files are indexed yet. Run a reindex first.",
			Sources: []search.Hit{},
			ErrCode: CodeIndexEmpty,
		}
	}

	entry, ok := search.Resolve(e.store.Snapshot(), command)
	if !ok {
		return &AskResult{
			Answer: fmt.Sprintf(
				"I couldn't find a unique file matching %q in the index. "+
					"Try reindexing or provide a more specific path or name.", command),
			Sources: []search.Hit{},
			ErrCode: CodeFileNotFound,
		}
	}

	summary := e.summarizer.Summarize(ctx, entry, modelOverride)
	return &AskResult{
		Answer:  summary,
		Sources: []search.Hit{{FileEntry: entry}},
	}
}

// collectHits runs the non-file pipelines: a pure type listing when the
// filter is active with no meaningful tokens left, otherwise keyword and
// (when eligible) vector search in parallel, merged by path.
func (e *Engine) collectHits(ctx context.Context, query string, filter search.Filter) []search.Hit {
	searchQuery := filter.Cleaned
	if searchQuery == "" {
		searchQuery = query
	}

	if filter.Active() && len(search.MeaningfulTokens(filter.Cleaned)) == 0 {
		return e.typeListing(filter, typeListMax)
	}

	snapshot := e.store.Snapshot()

	keywordCh := make(chan []search.Hit, 1)
	vectorCh := make(chan []search.Hit, 1)

	go func() {
		keywordCh <- search.MatchKeywords(snapshot, searchQuery, keywordMaxAsk)
	}()
	go func() {
		if !searcher.Eligible(searchQuery, filter.Active()) {
			vectorCh <- nil
			return
		}
		vectorCh <- e.vector.Search(ctx, searchQuery, vectorTopKAsk)
	}()

	keyword := <-keywordCh
	vector := <-vectorCh

	return search.Merge(keyword, vector, filter)
}

// typeListing returns index entries matching the active filter, in index
// order, up to max (0 means unbounded).
func (e *Engine) typeListing(filter search.Filter, max int) []search.Hit {
	var hits []search.Hit
	for _, entry := range e.store.Snapshot() {
		if !filter.Matches(entry) {
			continue
		}
		hits = append(hits, search.Hit{
			FileEntry:    entry,
			Reason:       search.ReasonType,
			ReasonDetail: fmt.Sprintf("matched type filter (%s)", entry.Extension),
		})
		if max > 0 && len(hits) >= max {
			break
		}
	}
	return hits
}

// SearchResult is one dedicated-search hit plus a file URL the client can
// hand to the OS opener.
type SearchResult struct {
	search.Hit
	OpenURL string `json:"open_url"`
}

// FileURL renders a path as a file:// URL with separators normalized.
func FileURL(path string) string {
	return "file:///" + strings.TrimPrefix(strings.ReplaceAll(path, "\\", "/"), "/")
}

// SearchFiles is the dedicated search operation: type listing or keyword
// matching only, no vector search and no summarization.
func (e *Engine) SearchFiles(query string) ([]SearchResult, string) {
	query = strings.TrimSpace(query)
	filter := search.ParseTypeFilter(query)

	var hits []search.Hit
	if filter.Active() && filter.Cleaned == "" {
		hits = e.typeListing(filter, 0)
	} else {
		searchQuery := filter.Cleaned
		if searchQuery == "" {
			searchQuery = query
		}
		hits = search.MatchKeywords(e.store.Snapshot(), searchQuery, keywordMaxSearch)
	}

	results := make([]SearchResult, len(hits))
	for i, h := range hits {
		results[i] = SearchResult{Hit: h, OpenURL: FileURL(h.Path)}
	}
	return results, RenderTable(hits)
}

// ResolvePath returns the index entry whose normalized path matches
// exactly. Paths outside the index are refused by construction: this is
// the allow-list gate for direct file access.
func (e *Engine) ResolvePath(path string) (index.FileEntry, bool) {
	return e.store.Lookup(path)
}

// Analyze summarizes the indexed file at path. The path must already be in
// the index.
func (e *Engine) Analyze(ctx context.Context, path, modelOverride string) (index.FileEntry, string, bool) {
	entry, ok := e.store.Lookup(path)
	if !ok {
		return index.FileEntry{}, "", false
	}
	return entry, e.summarizer.Summarize(ctx, entry, modelOverride), true
}

// ListAll returns the full current index snapshot.
func (e *Engine) ListAll() []index.FileEntry {
	return e.store.Snapshot()
}
