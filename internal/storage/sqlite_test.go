package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func doc(path string, vectors ...[]float32) Document {
	d := Document{
		Path:      path,
		Basename:  filepath.Base(path),
		Directory: filepath.Dir(path),
		Extension: filepath.Ext(path),
		Kind:      "other",
		Created:   "2024-01-01T00:00:00",
		Modified:  "2024-01-01T00:00:00",
		SizeBytes: 100,
	}
	for i, v := range vectors {
		d.Chunks = append(d.Chunks, Chunk{Seq: i, Content: "chunk", Vector: v})
	}
	return d
}

func TestReplaceAll(t *testing.T) {
	ctx := context.Background()

	t.Run("stores documents and chunks", func(t *testing.T) {
		s := newTestStorage(t)

		err := s.ReplaceAll(ctx, []Document{
			doc("/a/one.txt", []float32{1, 0}, []float32{0, 1}),
			doc("/a/two.txt", []float32{1, 1}),
		})
		require.NoError(t, err)

		stats, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Documents)
		assert.Equal(t, 3, stats.Chunks)
	})

	t.Run("replaces wholesale, never merges", func(t *testing.T) {
		s := newTestStorage(t)

		require.NoError(t, s.ReplaceAll(ctx, []Document{doc("/a/old.txt", []float32{1, 0})}))
		require.NoError(t, s.ReplaceAll(ctx, []Document{doc("/a/new.txt", []float32{0, 1})}))

		stats, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Documents)
		assert.Equal(t, 1, stats.Chunks)

		hits, err := s.SearchVector(ctx, []float32{0, 1}, 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "/a/new.txt", hits[0].Path)
	})

	t.Run("empty rebuild clears everything", func(t *testing.T) {
		s := newTestStorage(t)

		require.NoError(t, s.ReplaceAll(ctx, []Document{doc("/a/x.txt", []float32{1})}))
		require.NoError(t, s.ReplaceAll(ctx, nil))

		stats, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.Documents)
		assert.Zero(t, stats.Chunks)
	})
}

func TestSearchVector(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by cosine similarity", func(t *testing.T) {
		s := newTestStorage(t)

		require.NoError(t, s.ReplaceAll(ctx, []Document{
			doc("/a/orthogonal.txt", []float32{0, 1}),
			doc("/a/aligned.txt", []float32{1, 0}),
			doc("/a/diagonal.txt", []float32{1, 1}),
		}))

		hits, err := s.SearchVector(ctx, []float32{1, 0}, 10)
		require.NoError(t, err)
		require.Len(t, hits, 3)
		assert.Equal(t, "/a/aligned.txt", hits[0].Path)
		assert.Equal(t, "/a/diagonal.txt", hits[1].Path)
		assert.Equal(t, "/a/orthogonal.txt", hits[2].Path)
		assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
	})

	t.Run("limit truncates", func(t *testing.T) {
		s := newTestStorage(t)

		require.NoError(t, s.ReplaceAll(ctx, []Document{
			doc("/a/1.txt", []float32{1, 0}),
			doc("/a/2.txt", []float32{0.9, 0.1}),
			doc("/a/3.txt", []float32{0, 1}),
		}))

		hits, err := s.SearchVector(ctx, []float32{1, 0}, 2)
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("nonpositive limit yields nothing", func(t *testing.T) {
		s := newTestStorage(t)
		hits, err := s.SearchVector(ctx, []float32{1}, 0)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("metadata rides along with hits", func(t *testing.T) {
		s := newTestStorage(t)

		require.NoError(t, s.ReplaceAll(ctx, []Document{doc("/docs/report.txt", []float32{1})}))

		hits, err := s.SearchVector(ctx, []float32{1}, 1)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "report.txt", hits[0].Basename)
		assert.Equal(t, "/docs", hits[0].Directory)
		assert.Equal(t, ".txt", hits[0].Extension)
		assert.Equal(t, int64(100), hits[0].SizeBytes)
		assert.Equal(t, "chunk", hits[0].Content)
	})
}
