package indexer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vamshidharreddye/llmlocalai/internal/embedder"
	"github.com/vamshidharreddye/llmlocalai/internal/index"
	"github.com/vamshidharreddye/llmlocalai/internal/storage"
)

func newTestIndexer(t *testing.T) (*Indexer, *index.Store, *storage.SQLiteStorage) {
	t.Helper()

	stor, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "idx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = stor.Close() })

	emb, err := embedder.New(embedder.Config{Provider: "local"})
	require.NoError(t, err)

	store := index.NewStore()
	return New(store, stor, emb), store, stor
}

func TestReindex(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes metadata and chunks text files", func(t *testing.T) {
		idx, store, stor := newTestIndexer(t)

		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("some note text"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "pic.png"), []byte{0x89, 0x50}, 0644))

		stats, err := idx.Reindex(ctx, root, nil)
		require.NoError(t, err)

		// Both files land in the metadata index.
		assert.Equal(t, 2, stats.FilesIndexed)
		assert.Equal(t, 2, store.Len())
		assert.Len(t, stats.SampleFiles, 2)

		// Only the text file contributes chunks.
		assert.Equal(t, 1, stats.ChunksIndexed)
		dbStats, err := stor.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, dbStats.Documents)
		assert.Equal(t, 1, dbStats.Chunks)
	})

	t.Run("reindex replaces prior state", func(t *testing.T) {
		idx, store, stor := newTestIndexer(t)

		rootA := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(rootA, "a.txt"), []byte("alpha"), 0644))
		_, err := idx.Reindex(ctx, rootA, nil)
		require.NoError(t, err)

		rootB := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(rootB, "b.txt"), []byte("beta"), 0644))
		_, err = idx.Reindex(ctx, rootB, nil)
		require.NoError(t, err)

		require.Equal(t, 1, store.Len())
		assert.Equal(t, "b.txt", store.Snapshot()[0].Basename)

		dbStats, err := stor.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, dbStats.Documents)
	})

	t.Run("long documents produce multiple chunks", func(t *testing.T) {
		idx, _, stor := newTestIndexer(t)

		root := t.TempDir()
		long := make([]byte, 2000)
		for i := range long {
			long[i] = 'a' + byte(i%26)
		}
		require.NoError(t, os.WriteFile(filepath.Join(root, "long.txt"), long, 0644))

		stats, err := idx.Reindex(ctx, root, nil)
		require.NoError(t, err)
		assert.Greater(t, stats.ChunksIndexed, 1)

		dbStats, err := stor.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, stats.ChunksIndexed, dbStats.Chunks)
	})

	t.Run("sample files capped", func(t *testing.T) {
		idx, _, _ := newTestIndexer(t)

		root := t.TempDir()
		for i := 0; i < 10; i++ {
			name := filepath.Join(root, string(rune('a'+i))+".txt")
			require.NoError(t, os.WriteFile(name, []byte("x y z content"), 0644))
		}

		stats, err := idx.Reindex(ctx, root, nil)
		require.NoError(t, err)
		assert.Equal(t, 10, stats.FilesIndexed)
		assert.Len(t, stats.SampleFiles, sampleFileCount)
	})

	t.Run("worker override accepted", func(t *testing.T) {
		idx, _, _ := newTestIndexer(t)

		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("content"), 0644))

		stats, err := idx.Reindex(ctx, root, &Config{Workers: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Workers)
	})

	t.Run("nil config falls back to NumCPU workers", func(t *testing.T) {
		idx, _, _ := newTestIndexer(t)

		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("content"), 0644))

		stats, err := idx.Reindex(ctx, root, nil)
		require.NoError(t, err)
		assert.Equal(t, runtime.NumCPU(), stats.Workers)
	})
}

func TestReindexLock(t *testing.T) {
	t.Run("second acquire fails until release", func(t *testing.T) {
		var lock ReindexLock
		require.True(t, lock.TryAcquire())
		assert.False(t, lock.TryAcquire())
		lock.Release()
		assert.True(t, lock.TryAcquire())
	})
}
