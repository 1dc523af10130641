package store

import (
	"context"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/errors"
)

// HashStore keeps entries in a map keyed by the folded word. Lookups do not
// depend on insertion order, so sorted input costs nothing extra.
type HashStore struct {
	entries map[string]*index.Entry
	lineCap int
}

// NewHash returns an empty HashStore. A lineCap of zero or less selects
// index.DefaultLineCapacity.
func NewHash(lineCap int) *HashStore {
	if lineCap <= 0 {
		lineCap = index.DefaultLineCapacity
	}
	return &HashStore{entries: make(map[string]*index.Entry), lineCap: lineCap}
}

func (s *HashStore) Add(_ context.Context, word string, line int) error {
	if word == "" {
		return apperrors.New(apperrors.ErrInvalidInput, apperrors.ExitFailure, "cannot index an empty word")
	}
	key := index.Fold(word)
	e, ok := s.entries[key]
	if !ok {
		e = &index.Entry{Word: word, Lines: make([]int, 0, s.lineCap)}
		s.entries[key] = e
	}
	e.Lines = append(e.Lines, line)
	e.Count++
	return nil
}

func (s *HashStore) Lookup(_ context.Context, word string) (index.Entry, bool, error) {
	e, ok := s.entries[index.Fold(word)]
	if !ok {
		return index.Entry{}, false, nil
	}
	return index.Entry{Word: e.Word, Count: e.Count, Lines: e.Lines[:e.Count:e.Count]}, true, nil
}

func (s *HashStore) Entries(context.Context) ([]index.Entry, error) {
	out := make([]index.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, index.Entry{Word: e.Word, Count: e.Count, Lines: e.Lines[:e.Count:e.Count]})
	}
	sort.Slice(out, func(i, j int) bool {
		return index.Compare(out[i].Word, out[j].Word) < 0
	})
	return out, nil
}

func (s *HashStore) Terms() int {
	return len(s.entries)
}

func (s *HashStore) Close() error {
	return nil
}
