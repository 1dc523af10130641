// Package indexer builds the word index for one file: it runs the tokenizer
// over the input, adds every word at the line it was read on, and reports
// how long the pass took.
package indexer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/store"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/metrics"
)

// How many words are indexed between cancellation checks.
const checkEvery = 4096

// Stats summarises one indexing pass.
type Stats struct {
	File    string
	Words   int64
	Terms   int
	Lines   int
	Elapsed time.Duration
}

type Engine struct {
	store   store.Store
	metrics *metrics.Metrics
	cfg     config.IndexConfig
	logger  *slog.Logger
}

func NewEngine(s store.Store, m *metrics.Metrics, cfg config.IndexConfig) *Engine {
	return &Engine{
		store:   s,
		metrics: m,
		cfg:     cfg,
		logger:  slog.Default().With("component", "indexer", "backend", cfg.Backend),
	}
}

// IndexFile opens path and indexes its contents.
func (e *Engine) IndexFile(ctx context.Context, path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, apperrors.Newf(apperrors.ErrFileOpen, apperrors.ExitFileOpen, "%s: %v", path, err)
	}
	defer f.Close()

	stats, err := e.IndexReader(ctx, f)
	stats.File = path
	if err != nil {
		return stats, fmt.Errorf("indexing %s: %w", path, err)
	}
	return stats, nil
}

// IndexReader adds every word read from r to the store. Any store error
// aborts the pass; the partially built index must not be queried.
func (e *Engine) IndexReader(ctx context.Context, r io.Reader) (Stats, error) {
	start := time.Now()
	cursor := tokenizer.NewCursor(r, e.cfg.MaxWordLength)
	var stats Stats

	for {
		tok, err := cursor.Next()
		if err != nil {
			return stats, err
		}
		if tok.Kind == tokenizer.EOF {
			break
		}
		if !tok.IsWord() {
			continue
		}
		if err := e.store.Add(ctx, tok.Text, cursor.Line()); err != nil {
			e.logger.Error("indexing aborted",
				"word", tok.Text,
				"line", cursor.Line(),
				"error", err,
			)
			return stats, err
		}
		stats.Words++
		if stats.Words%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return stats, fmt.Errorf("indexing interrupted: %w", err)
			}
			e.logger.Debug("indexing progress", "words", stats.Words, "line", cursor.Line())
		}
	}

	stats.Terms = e.store.Terms()
	stats.Lines = cursor.Line()
	stats.Elapsed = time.Since(start)
	e.record(stats)
	e.logger.Info("indexing complete",
		"words", stats.Words,
		"terms", stats.Terms,
		"lines", stats.Lines,
		"elapsed", stats.Elapsed,
	)
	return stats, nil
}

func (e *Engine) record(stats Stats) {
	if e.metrics == nil {
		return
	}
	e.metrics.WordsIndexedTotal.Add(float64(stats.Words))
	e.metrics.DistinctWords.Set(float64(stats.Terms))
	e.metrics.IndexDuration.Observe(stats.Elapsed.Seconds())
	if ts, ok := e.store.(*store.TreeStore); ok {
		tree := ts.Tree()
		e.metrics.IndexTreeHeight.Set(float64(tree.Height()))
		e.metrics.LineListGrowthsTotal.Add(float64(tree.Growths()))
	}
}

// Store returns the store the engine fills.
func (e *Engine) Store() store.Store {
	return e.store
}
