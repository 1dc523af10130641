// Package store puts the word index behind one contract so the indexing
// engine and the query session do not care where entries live. The default
// backend is the unbalanced tree from package index; the hash backend trades
// ordering for constant-time access; the redis backend keeps entries outside
// the process for the lifetime of one run.
package store

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/config"
	pkgredis "github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/redis"
)

// Store accumulates word occurrences and answers exact lookups. Every
// backend folds case the same way index.Compare does and keeps
// len(Lines) == Count for every entry.
type Store interface {
	// Add records one occurrence of word on line.
	Add(ctx context.Context, word string, line int) error
	// Lookup returns the entry for word. The boolean is false when the word
	// was never added.
	Lookup(ctx context.Context, word string) (index.Entry, bool, error)
	// Entries returns every entry in ascending case-insensitive order.
	Entries(ctx context.Context) ([]index.Entry, error)
	// Terms returns the number of distinct words.
	Terms() int
	Close() error
}

// Open builds the backend named by cfg.Index.Backend.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Index.Backend {
	case config.BackendTree, "":
		return NewTree(index.Options{
			InitialLineCapacity: cfg.Index.InitialLineCapacity,
			MemoryLimit:         cfg.Index.MemoryLimit,
		}), nil
	case config.BackendHash:
		return NewHash(cfg.Index.InitialLineCapacity), nil
	case config.BackendRedis:
		client, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connecting redis backend: %w", err)
		}
		return NewRedis(client, cfg.Redis), nil
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}
}
