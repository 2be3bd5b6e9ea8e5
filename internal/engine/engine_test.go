package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vamshidharreddye/llmlocalai/internal/embedder"
	"github.com/vamshidharreddye/llmlocalai/internal/index"
	"github.com/vamshidharreddye/llmlocalai/internal/llm"
	"github.com/vamshidharreddye/llmlocalai/internal/search"
	"github.com/vamshidharreddye/llmlocalai/internal/searcher"
	"github.com/vamshidharreddye/llmlocalai/internal/storage"
	"github.com/vamshidharreddye/llmlocalai/internal/summarizer"
)

// emptyStorage is a chunk store with nothing in it.
type emptyStorage struct{}

func (emptyStorage) ReplaceAll(ctx context.Context, docs []storage.Document) error { return nil }
func (emptyStorage) SearchVector(ctx context.Context, vector []float32, limit int) ([]storage.ChunkHit, error) {
	return nil, nil
}
func (emptyStorage) Stats(ctx context.Context) (storage.Stats, error) { return storage.Stats{}, nil }
func (emptyStorage) Close() error                                     { return nil }

func fileEntry(path string) index.FileEntry {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))
	return index.FileEntry{
		Path:      path,
		Basename:  base,
		Name:      strings.ToLower(base),
		Directory: filepath.Dir(path),
		Extension: ext,
		Kind:      index.KindForExt(ext),
		Created:   "2024-01-01T00:00:00",
		Modified:  "2024-01-02T00:00:00",
		SizeBytes: 2048,
	}
}

// newTestEngine wires an engine over an in-memory index, an empty chunk
// store, and a generation endpoint (which may be unreachable).
func newTestEngine(t *testing.T, llmURL string, entries ...index.FileEntry) (*Engine, *index.Store) {
	t.Helper()

	store := index.NewStore()
	store.Replace(entries)

	emb, err := embedder.New(embedder.Config{Provider: "local"})
	require.NoError(t, err)

	client := llm.NewClient(llmURL, "tinyllama")
	eng := New(store, searcher.NewSearcher(emb, emptyStorage{}), summarizer.New(client), client)
	return eng, store
}

func newGenServer(t *testing.T, lastPrompt *string, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if lastPrompt != nil {
			*lastPrompt = body.Prompt
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": response})
	}))
}

func TestAskFileReference(t *testing.T) {
	ctx := context.Background()

	t.Run("empty index reports INDEX_EMPTY", func(t *testing.T) {
		eng, _ := newTestEngine(t, "http://127.0.0.1:1")
		res := eng.Ask(ctx, "/resume.pdf", "")
		assert.Equal(t, CodeIndexEmpty, res.ErrCode)
		assert.NotEmpty(t, res.Answer)
		assert.Empty(t, res.Sources)
	})

	t.Run("unresolvable reference reports FILE_NOT_FOUND", func(t *testing.T) {
		eng, _ := newTestEngine(t, "http://127.0.0.1:1", fileEntry("/docs/notes.txt"))
		res := eng.Ask(ctx, "/missing.pdf", "")
		assert.Equal(t, CodeFileNotFound, res.ErrCode)
		assert.Contains(t, res.Answer, "missing.pdf")
	})

	t.Run("slash command resolves and summarizes with one source", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "resume.txt")
		require.NoError(t, os.WriteFile(path, []byte("experienced gopher"), 0644))

		srv := newGenServer(t, nil, "summary of the resume")
		defer srv.Close()

		eng, _ := newTestEngine(t, srv.URL,
			fileEntry(path),
			fileEntry("/docs/cover.txt"),
		)

		res := eng.Ask(ctx, "/resume.txt", "")
		assert.Empty(t, res.ErrCode)
		assert.Equal(t, "summary of the resume", res.Answer)
		require.Len(t, res.Sources, 1)
		assert.Equal(t, path, res.Sources[0].Path)
	})

	t.Run("query equal to an indexed path is treated as a file reference", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("note body"), 0644))

		srv := newGenServer(t, nil, "notes summary")
		defer srv.Close()

		eng, _ := newTestEngine(t, srv.URL, fileEntry(path))
		res := eng.Ask(ctx, path, "")
		assert.Equal(t, "notes summary", res.Answer)
		require.Len(t, res.Sources, 1)
	})

	t.Run("windows drive path is treated as a file reference", func(t *testing.T) {
		eng, _ := newTestEngine(t, "http://127.0.0.1:1", fileEntry("/docs/notes.txt"))
		res := eng.Ask(ctx, `C:\Users\me\gone.pdf`, "")
		assert.Equal(t, CodeFileNotFound, res.ErrCode)
	})

	t.Run("summarization degrades but still answers", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.txt")
		require.NoError(t, os.WriteFile(path, []byte("raw text body"), 0644))

		eng, _ := newTestEngine(t, "http://127.0.0.1:1", fileEntry(path))
		res := eng.Ask(ctx, "/doc.txt", "")
		assert.Empty(t, res.ErrCode)
		assert.True(t, strings.HasPrefix(res.Answer, "ERROR:"))
		assert.Contains(t, res.Answer, "raw text body")
	})
}

func TestAskSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("keyword hits produce count answer and table", func(t *testing.T) {
		eng, _ := newTestEngine(t, "http://127.0.0.1:1",
			fileEntry("/docs/resume_2023.pdf"),
			fileEntry("/docs/todo.txt"),
		)

		res := eng.Ask(ctx, "resume", "")
		assert.Empty(t, res.ErrCode)
		assert.Equal(t, "I found 1 matching file(s). See the table below.", res.Answer)
		require.Len(t, res.Sources, 1)
		assert.Equal(t, search.ReasonName, res.Sources[0].Reason)
		assert.Contains(t, res.Markdown, "resume_2023.pdf")
		assert.Contains(t, res.Markdown, "Idx  Size(KB)")
	})

	t.Run("pure type query lists by type", func(t *testing.T) {
		eng, _ := newTestEngine(t, "http://127.0.0.1:1",
			fileEntry("/docs/a.pdf"),
			fileEntry("/docs/b.txt"),
			fileEntry("/docs/c.pdf"),
		)

		res := eng.Ask(ctx, "pdf files", "")
		require.Len(t, res.Sources, 2)
		for _, h := range res.Sources {
			assert.Equal(t, ".pdf", h.Extension)
			assert.Equal(t, search.ReasonType, h.Reason)
		}
	})

	t.Run("type listing is capped", func(t *testing.T) {
		var entries []index.FileEntry
		for i := 0; i < 150; i++ {
			entries = append(entries, fileEntry("/docs/"+strings.Repeat("x", i%7+1)+"-"+string(rune('a'+i%26))+".pdf"))
		}
		eng, _ := newTestEngine(t, "http://127.0.0.1:1", entries...)

		res := eng.Ask(ctx, "pdf files", "")
		assert.LessOrEqual(t, len(res.Sources), typeListMax)
	})

	t.Run("type filter constrains keyword results", func(t *testing.T) {
		eng, _ := newTestEngine(t, "http://127.0.0.1:1",
			fileEntry("/docs/resume.pdf"),
			fileEntry("/docs/resume.txt"),
		)

		res := eng.Ask(ctx, "resume pdf", "")
		require.Len(t, res.Sources, 1)
		assert.Equal(t, "/docs/resume.pdf", res.Sources[0].Path)
	})

	t.Run("no matches falls back to generic answer", func(t *testing.T) {
		var prompt string
		srv := newGenServer(t, &prompt, "general knowledge answer")
		defer srv.Close()

		eng, _ := newTestEngine(t, srv.URL, fileEntry("/docs/unrelated.txt"))

		res := eng.Ask(ctx, "what is the capital of france", "")
		assert.Equal(t, "general knowledge answer", res.Answer)
		assert.Empty(t, res.Sources)
		assert.Empty(t, res.Markdown)
		assert.Contains(t, prompt, "general knowledge")
		assert.Contains(t, prompt, "what is the capital of france")
	})

	t.Run("fallback with model down yields error line", func(t *testing.T) {
		eng, _ := newTestEngine(t, "http://127.0.0.1:1", fileEntry("/docs/unrelated.txt"))
		res := eng.Ask(ctx, "what is the capital of france", "")
		assert.True(t, strings.HasPrefix(res.Answer, "ERROR:"))
		assert.Empty(t, res.Sources)
	})
}

func TestSearchFiles(t *testing.T) {
	t.Run("keyword search with table", func(t *testing.T) {
		eng, _ := newTestEngine(t, "http://127.0.0.1:1",
			fileEntry("/docs/report_q1.pdf"),
			fileEntry("/docs/misc.txt"),
		)

		hits, markdown := eng.SearchFiles("report")
		require.Len(t, hits, 1)
		assert.Equal(t, "file:///docs/report_q1.pdf", hits[0].OpenURL)
		assert.Contains(t, markdown, "report_q1.pdf")
	})

	t.Run("pure type query lists all of that type", func(t *testing.T) {
		eng, _ := newTestEngine(t, "http://127.0.0.1:1",
			fileEntry("/docs/a.pdf"),
			fileEntry("/docs/b.pdf"),
			fileEntry("/docs/c.txt"),
		)

		hits, _ := eng.SearchFiles("pdf files")
		assert.Len(t, hits, 2)
	})

	t.Run("no hits yields empty table", func(t *testing.T) {
		eng, _ := newTestEngine(t, "http://127.0.0.1:1", fileEntry("/docs/a.txt"))
		hits, markdown := eng.SearchFiles("zzz-nothing")
		assert.Empty(t, hits)
		assert.Empty(t, markdown)
	})
}

func TestResolveAndList(t *testing.T) {
	ctx := context.Background()

	t.Run("resolve path is exact only", func(t *testing.T) {
		eng, _ := newTestEngine(t, "http://127.0.0.1:1", fileEntry("/docs/notes.txt"))

		e, ok := eng.ResolvePath("/DOCS/NOTES.TXT")
		require.True(t, ok)
		assert.Equal(t, "/docs/notes.txt", e.Path)

		_, ok = eng.ResolvePath("notes.txt")
		assert.False(t, ok)
	})

	t.Run("analyze refuses unindexed paths", func(t *testing.T) {
		eng, _ := newTestEngine(t, "http://127.0.0.1:1", fileEntry("/docs/notes.txt"))
		_, _, ok := eng.Analyze(ctx, "/etc/passwd", "")
		assert.False(t, ok)
	})

	t.Run("list all returns snapshot", func(t *testing.T) {
		eng, store := newTestEngine(t, "http://127.0.0.1:1",
			fileEntry("/docs/a.txt"),
			fileEntry("/docs/b.txt"),
		)
		assert.Len(t, eng.ListAll(), store.Len())
	})
}

func TestRenderTable(t *testing.T) {
	t.Run("empty hits render nothing", func(t *testing.T) {
		assert.Equal(t, "", RenderTable(nil))
	})

	t.Run("rows carry index size and timestamps", func(t *testing.T) {
		out := RenderTable([]search.Hit{{FileEntry: fileEntry("/docs/report.pdf")}})

		assert.True(t, strings.HasPrefix(out, "```text\n"))
		assert.True(t, strings.HasSuffix(out, "```"))
		assert.Contains(t, out, "Idx  Size(KB)  Created              Modified             Name")
		assert.Contains(t, out, "  1")
		assert.Contains(t, out, "2.0")
		assert.Contains(t, out, "2024-01-01T00:00:00")
		assert.Contains(t, out, "report.pdf")
	})

	t.Run("unknown timestamps render as-is", func(t *testing.T) {
		e := fileEntry("/docs/sys.bin")
		e.Created = index.TimeUnknown
		e.Modified = index.TimeUnknown
		out := RenderTable([]search.Hit{{FileEntry: e}})
		assert.Contains(t, out, "unknown")
	})
}
