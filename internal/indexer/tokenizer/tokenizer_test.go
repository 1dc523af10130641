package tokenizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lexed struct {
	kind Kind
	text string
	line int
}

func collect(t *testing.T, input string, maxWord int) []lexed {
	t.Helper()
	c := NewCursor(strings.NewReader(input), maxWord)
	var out []lexed
	for {
		tok, err := c.Next()
		require.NoError(t, err)
		if tok.Kind == EOF {
			return out
		}
		out = append(out, lexed{tok.Kind, tok.Text, c.Line()})
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []lexed
	}{
		{
			name:  "words and punctuation",
			input: "Cat sat on the cat.\nCat ran.",
			want: []lexed{
				{Word, "Cat", 1}, {Word, "sat", 1}, {Word, "on", 1}, {Word, "the", 1},
				{Word, "cat", 1}, {Delim, ".", 1},
				{Word, "Cat", 2}, {Word, "ran", 2}, {Delim, ".", 2},
			},
		},
		{
			name:  "word at end of line keeps its line",
			input: "alpha\nbeta\n\n\ngamma",
			want:  []lexed{{Word, "alpha", 1}, {Word, "beta", 2}, {Word, "gamma", 5}},
		},
		{
			name:  "digits inside words but not leading",
			input: "abc123 42x",
			want:  []lexed{{Word, "abc123", 1}, {Delim, "4", 1}, {Delim, "2", 1}, {Word, "x", 1}},
		},
		{
			name:  "apostrophe splits",
			input: "can't",
			want:  []lexed{{Word, "can", 1}, {Delim, "'", 1}, {Word, "t", 1}},
		},
		{
			name:  "other whitespace",
			input: "a\tb\r\nc\v\fd",
			want:  []lexed{{Word, "a", 1}, {Word, "b", 1}, {Word, "c", 2}, {Word, "d", 2}},
		},
		{
			name:  "non ascii bytes are delimiters",
			input: "caf\xc3\xa9",
			want:  []lexed{{Word, "caf", 1}, {Delim, "\xc3", 1}, {Delim, "\xa9", 1}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collect(t, tt.input, 0))
		})
	}
}

func TestNextTruncatesLongWords(t *testing.T) {
	got := collect(t, "abcdefghij next", 4)
	require.Len(t, got, 2)
	assert.Equal(t, "abcd", got[0].text)
	assert.Equal(t, "next", got[1].text)
}

func TestNextReturnsHighBytesUnchanged(t *testing.T) {
	for b := 0x80; b <= 0xff; b++ {
		tok, err := NewCursor(strings.NewReader(string([]byte{byte(b)})), 0).Next()
		require.NoError(t, err)
		require.Equal(t, Delim, tok.Kind)
		require.Len(t, tok.Text, 1, "byte %#x", b)
		assert.Equal(t, byte(b), tok.Text[0])
	}
}

func TestNextEOFIsSticky(t *testing.T) {
	c := NewCursor(strings.NewReader("word"), 0)
	tok, err := c.Next()
	require.NoError(t, err)
	assert.True(t, tok.IsWord())
	for i := 0; i < 3; i++ {
		tok, err = c.Next()
		require.NoError(t, err)
		assert.Equal(t, EOF, tok.Kind)
	}
}

func TestCursorsAreIndependent(t *testing.T) {
	a := NewCursor(strings.NewReader("one\ntwo\nthree"), 0)
	b := NewCursor(strings.NewReader("x\n"), 0)

	_, err := a.Next()
	require.NoError(t, err)
	_, err = a.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, a.Line())

	tok, err := b.Next()
	require.NoError(t, err)
	assert.Equal(t, "x", tok.Text)
	assert.Equal(t, 1, b.Line())

	tok, err = a.Next()
	require.NoError(t, err)
	assert.Equal(t, "three", tok.Text)
	assert.Equal(t, 3, a.Line())
}

func TestUnreadTwicePanics(t *testing.T) {
	c := NewCursor(strings.NewReader(""), 0)
	c.unread('a')
	assert.Panics(t, func() { c.unread('b') })
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestNextPropagatesReadErrors(t *testing.T) {
	c := NewCursor(failingReader{}, 0)
	_, err := c.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}
