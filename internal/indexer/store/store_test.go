package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/errors"
	pkgredis "github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/redis"
)

func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"tree": func(*testing.T) Store { return NewTree(index.Options{}) },
		"hash": func(*testing.T) Store { return NewHash(0) },
		"redis": func(t *testing.T) Store {
			addr := os.Getenv("TFS_REDIS_ADDR")
			if addr == "" {
				t.Skip("TFS_REDIS_ADDR not set")
			}
			cfg := config.Default().Redis
			cfg.Addr = addr
			cfg.TTL = time.Minute
			client, err := pkgredis.NewClient(cfg)
			if err != nil {
				t.Skipf("redis unavailable: %v", err)
			}
			return NewRedis(client, cfg)
		},
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			adds := []struct {
				word string
				line int
			}{
				{"Cat", 1}, {"sat", 1}, {"on", 1}, {"the", 1}, {"cat", 1}, {"Cat", 2}, {"ran", 2},
			}
			for _, a := range adds {
				require.NoError(t, s.Add(ctx, a.word, a.line))
			}
			assert.Equal(t, 5, s.Terms())

			for _, q := range []string{"cat", "CAT", "cAt"} {
				e, ok, err := s.Lookup(ctx, q)
				require.NoError(t, err)
				require.True(t, ok)
				assert.Equal(t, "Cat", e.Word)
				assert.Equal(t, 3, e.Count)
				assert.Equal(t, []int{1, 1, 2}, e.Lines)
			}

			_, ok, err := s.Lookup(ctx, "xyzzy")
			require.NoError(t, err)
			assert.False(t, ok)

			entries, err := s.Entries(ctx)
			require.NoError(t, err)
			words := make([]string, 0, len(entries))
			for _, e := range entries {
				words = append(words, e.Word)
				assert.Len(t, e.Lines, e.Count)
			}
			assert.Equal(t, []string{"Cat", "on", "ran", "sat", "the"}, words)

			assert.ErrorIs(t, s.Add(ctx, "", 3), apperrors.ErrInvalidInput)
		})
	}
}

func TestStoreGrowsPastInitialCapacity(t *testing.T) {
	ctx := context.Background()
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			for line := 1; line <= 11; line++ {
				require.NoError(t, s.Add(ctx, "again", line))
			}
			e, ok, err := s.Lookup(ctx, "AGAIN")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 11, e.Count)
			assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, e.Lines)
		})
	}
}

func TestOpen(t *testing.T) {
	cfg := config.Default()
	s, err := Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &TreeStore{}, s)

	cfg.Index.Backend = config.BackendHash
	s, err = Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &HashStore{}, s)

	cfg.Index.Backend = "btree"
	_, err = Open(cfg)
	assert.Error(t, err)
}

func TestHashUsesConfiguredLineCapacity(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Index.Backend = config.BackendHash
	cfg.Index.InitialLineCapacity = 3
	s, err := Open(cfg)
	require.NoError(t, err)
	hs := s.(*HashStore)

	require.NoError(t, hs.Add(ctx, "word", 1))
	assert.Equal(t, 3, cap(hs.entries["word"].Lines))

	assert.Equal(t, index.DefaultLineCapacity, NewHash(0).lineCap)
}
