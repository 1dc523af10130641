package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/noise"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/metrics"
)

// spySearcher wraps a tree and records every word it was asked for.
type spySearcher struct {
	tree    *index.Tree
	queries []string
	err     error
}

func (s *spySearcher) Lookup(_ context.Context, word string) (index.Entry, bool, error) {
	s.queries = append(s.queries, word)
	if s.err != nil {
		return index.Entry{}, false, s.err
	}
	e, ok := s.tree.Find(word)
	return e, ok, nil
}

func scenarioIndex(t *testing.T) *spySearcher {
	t.Helper()
	tree := index.NewTree(index.Options{})
	for _, o := range []struct {
		word string
		line int
	}{{"Cat", 1}, {"sat", 1}, {"on", 1}, {"the", 1}, {"cat", 1}, {"Cat", 2}, {"ran", 2}} {
		require.NoError(t, tree.Insert(o.word, o.line))
	}
	return &spySearcher{tree: tree}
}

func run(t *testing.T, searcher Searcher, input string, opts Options) string {
	t.Helper()
	var out strings.Builder
	err := New(searcher, &out, opts).Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	return out.String()
}

func TestRunTranscript(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "found",
			input: "cat\n",
			want: promptSearch +
				"The word 'cat' appears 3 times.\nOn lines:\n1\n1\n2\n>" +
				"\n",
		},
		{
			name:  "not found",
			input: "xyzzy\n",
			want:  promptSearch + "The word 'xyzzy' does not appear.\n>" + "\n",
		},
		{
			name:  "noise",
			input: "The\n",
			want:  promptSearch + "The word 'The' is removed as it occurs too often.\n>" + "\n",
		},
		{
			name:  "quit",
			input: "-\nq\nran\n",
			want:  promptSearch + promptOptions + farewell + "\n",
		},
		{
			name:  "continue",
			input: "- c RAN",
			want: promptSearch + promptOptions + promptSearch +
				"The word 'RAN' appears 1 times.\nOn lines:\n2\n>" + "\n",
		},
		{
			name:  "unknown option is ignored",
			input: "- x sat",
			want: promptSearch + promptOptions +
				"The word 'sat' appears 1 times.\nOn lines:\n1\n>" + "\n",
		},
		{
			name:  "end of input inside options",
			input: "-",
			want:  promptSearch + promptOptions + "\n",
		},
		{
			name:  "punctuation is ignored",
			input: "?! 42 .",
			want:  promptSearch + "\n",
		},
		{
			name:  "several words on one line",
			input: "sat on",
			want: promptSearch +
				"The word 'sat' appears 1 times.\nOn lines:\n1\n>" +
				"The word 'on' is removed as it occurs too often.\n>" + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, scenarioIndex(t), tt.input, Options{}))
		})
	}
}

func TestNoiseWordsNeverReachTheIndex(t *testing.T) {
	spy := scenarioIndex(t)
	run(t, spy, "the THE and cat I a", Options{})
	assert.Equal(t, []string{"cat"}, spy.queries)
}

func TestExtraNoiseWords(t *testing.T) {
	spy := scenarioIndex(t)
	out := run(t, spy, "cat", Options{Filter: noise.New([]string{"cat"})})
	assert.Contains(t, out, "The word 'cat' is removed as it occurs too often.")
	assert.Empty(t, spy.queries)
}

func TestLookupErrorsAbort(t *testing.T) {
	spy := scenarioIndex(t)
	spy.err = errors.New("backend gone")
	var out strings.Builder
	err := New(spy, &out, Options{}).Run(context.Background(), strings.NewReader("cat"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend gone")
}

type recordingTracker struct {
	events []any
}

func (r *recordingTracker) Track(event any) {
	r.events = append(r.events, event)
}

func TestQueriesAreMeasured(t *testing.T) {
	m := metrics.New()
	tracker := &recordingTracker{}
	run(t, scenarioIndex(t), "cat dog the", Options{Metrics: m, Tracker: tracker, SessionID: "s-1"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues(metrics.ResultFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues(metrics.ResultNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues(metrics.ResultNoise)))

	require.Len(t, tracker.events, 3)
	first, ok := tracker.events[0].(analytics.SearchEvent)
	require.True(t, ok)
	assert.Equal(t, "cat", first.Query)
	assert.Equal(t, metrics.ResultFound, first.Result)
	assert.Equal(t, 3, first.Count)
	assert.Equal(t, "s-1", first.SessionID)
}

func TestRunStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out strings.Builder
	err := New(scenarioIndex(t), &out, Options{}).Run(ctx, strings.NewReader("cat"))
	assert.ErrorIs(t, err, context.Canceled)
}
