package store

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/index"
)

// TreeStore is the in-process tree backend.
type TreeStore struct {
	tree *index.Tree
}

func NewTree(opts index.Options) *TreeStore {
	return &TreeStore{tree: index.NewTree(opts)}
}

func (s *TreeStore) Add(_ context.Context, word string, line int) error {
	return s.tree.Insert(word, line)
}

func (s *TreeStore) Lookup(_ context.Context, word string) (index.Entry, bool, error) {
	e, ok := s.tree.Find(word)
	return e, ok, nil
}

func (s *TreeStore) Entries(context.Context) ([]index.Entry, error) {
	return s.tree.Entries(), nil
}

func (s *TreeStore) Terms() int {
	return s.tree.Len()
}

// Tree exposes the underlying tree for shape and memory statistics.
func (s *TreeStore) Tree() *index.Tree {
	return s.tree
}

func (s *TreeStore) Close() error {
	return nil
}
