// Package session runs the interactive query loop: it reads words from a
// stream, drops noise words, looks the rest up in the index and prints the
// occurrence count and line numbers.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/noise"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/metrics"
)

const (
	promptSearch  = "Enter a word to search. Type '-' for options.\n>"
	promptOptions = ">Type q to quit or c to continue searching.\n>"
	farewell      = ">Thanks for searching."
	promptNext    = ">"

	optionsToken = "-"
	optionQuit   = "q"
	optionResume = "c"
)

// Searcher looks words up in a built index.
type Searcher interface {
	Lookup(ctx context.Context, word string) (index.Entry, bool, error)
}

type Options struct {
	// Filter suppresses noise words; nil selects the built-in list.
	Filter *noise.Filter
	// Metrics, when set, receives query counts and latencies.
	Metrics *metrics.Metrics
	// Tracker, when set, receives a SearchEvent per answered query.
	Tracker       analytics.Tracker
	MaxWordLength int
	SessionID     string
}

type Session struct {
	searcher Searcher
	w        *bufio.Writer
	opts     Options
	logger   *slog.Logger
}

func New(searcher Searcher, out io.Writer, opts Options) *Session {
	if opts.Filter == nil {
		opts.Filter = noise.Default()
	}
	if opts.Tracker == nil {
		opts.Tracker = analytics.Discard{}
	}
	return &Session{
		searcher: searcher,
		w:        bufio.NewWriter(out),
		opts:     opts,
		logger:   slog.Default().With("component", "session", "session_id", opts.SessionID),
	}
}

// Run reads queries from in until the user quits with "- q" or the input
// ends. Both are a normal exit and return nil.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	cursor := tokenizer.NewCursor(in, s.opts.MaxWordLength)
	if err := s.print(promptSearch); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := cursor.Next()
		if err != nil {
			return fmt.Errorf("reading query: %w", err)
		}
		if tok.Kind == tokenizer.EOF {
			break
		}

		if tok.Kind == tokenizer.Delim && tok.Text == optionsToken {
			quit, err := s.options(cursor)
			if err != nil {
				return err
			}
			if quit {
				break
			}
			continue
		}
		if !tok.IsWord() {
			continue
		}
		if err := s.answer(ctx, tok.Text); err != nil {
			return err
		}
	}
	return s.print("\n")
}

// options handles the token after "-". It reports whether the loop should
// end.
func (s *Session) options(cursor *tokenizer.Cursor) (bool, error) {
	if err := s.print(promptOptions); err != nil {
		return false, err
	}
	tok, err := cursor.Next()
	if err != nil {
		return false, fmt.Errorf("reading option: %w", err)
	}
	switch {
	case tok.Kind == tokenizer.EOF:
		return true, nil
	case tok.Text == optionQuit:
		return true, s.print(farewell)
	case tok.Text == optionResume:
		return false, s.print(promptSearch)
	default:
		s.logger.Debug("ignoring unknown option", "option", tok.Text)
		return false, nil
	}
}

func (s *Session) answer(ctx context.Context, word string) error {
	start := time.Now()
	event := analytics.SearchEvent{
		Type:      analytics.EventSearch,
		Query:     word,
		SessionID: s.opts.SessionID,
	}

	if s.opts.Filter.IsNoise(word) {
		fmt.Fprintf(s.w, "The word '%s' is removed as it occurs too often.\n", word)
		event.Result = metrics.ResultNoise
	} else {
		entry, ok, err := s.searcher.Lookup(ctx, word)
		if err != nil {
			return fmt.Errorf("looking up %q: %w", word, err)
		}
		if ok {
			fmt.Fprintf(s.w, "The word '%s' appears %d times.\n", word, entry.Count)
			fmt.Fprintln(s.w, "On lines:")
			for _, line := range entry.Lines {
				fmt.Fprintf(s.w, "%d\n", line)
			}
			event.Result = metrics.ResultFound
			event.Count = entry.Count
		} else {
			fmt.Fprintf(s.w, "The word '%s' does not appear.\n", word)
			event.Result = metrics.ResultNotFound
		}
	}
	if err := s.print(promptNext); err != nil {
		return err
	}

	elapsed := time.Since(start)
	if m := s.opts.Metrics; m != nil {
		m.SearchQueriesTotal.WithLabelValues(event.Result).Inc()
		m.SearchLatency.Observe(elapsed.Seconds())
	}
	event.LatencyUs = elapsed.Microseconds()
	event.Timestamp = time.Now().UTC()
	s.opts.Tracker.Track(event)
	s.logger.Debug("query answered", "query", word, "result", event.Result, "count", event.Count)
	return nil
}

// print writes text and flushes, so prompts appear before the next read
// blocks.
func (s *Session) print(text string) error {
	if _, err := s.w.WriteString(text); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
