// Package tokenizer splits a byte stream into words and single-character
// delimiters. Each stream is read through its own Cursor, which tracks the
// current line and holds at most one byte of lookahead.
package tokenizer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxWordLength bounds the number of bytes kept for one word.
const DefaultMaxWordLength = 100

// Kind classifies a Token.
type Kind int

const (
	EOF Kind = iota
	Word
	Delim
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Delim:
		return "delim"
	default:
		return "eof"
	}
}

// Token is a word (letters and digits, starting with a letter), a single
// delimiter byte, or the end of the stream.
type Token struct {
	Kind Kind
	Text string
}

// IsWord reports whether the token is an alphabetic word.
func (t Token) IsWord() bool {
	return t.Kind == Word
}

// Cursor reads tokens from one stream. It is not safe for concurrent use.
type Cursor struct {
	r       *bufio.Reader
	line    int
	maxWord int
	pending byte
	hasPend bool
}

// NewCursor returns a Cursor positioned on line 1 of r. A maxWord of zero or
// less selects DefaultMaxWordLength.
func NewCursor(r io.Reader, maxWord int) *Cursor {
	if maxWord <= 0 {
		maxWord = DefaultMaxWordLength
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Cursor{r: br, line: 1, maxWord: maxWord}
}

// Line returns the line the most recently returned token was read on.
func (c *Cursor) Line() int {
	return c.line
}

// Next returns the next token. Leading whitespace is skipped; every newline
// consumed advances the line counter.
func (c *Cursor) Next() (Token, error) {
	var b byte
	for {
		next, err := c.read()
		if errors.Is(err, io.EOF) {
			return Token{Kind: EOF}, nil
		}
		if err != nil {
			return Token{}, fmt.Errorf("reading token: %w", err)
		}
		if !isSpace(next) {
			b = next
			break
		}
	}

	if !isAlpha(b) {
		return Token{Kind: Delim, Text: string([]byte{b})}, nil
	}

	word := make([]byte, 1, 16)
	word[0] = b
	for {
		next, err := c.read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Token{}, fmt.Errorf("reading word: %w", err)
		}
		if !isAlnum(next) {
			c.unread(next)
			break
		}
		// Bytes past the limit are consumed but not kept.
		if len(word) < c.maxWord {
			word = append(word, next)
		}
	}
	return Token{Kind: Word, Text: string(word)}, nil
}

// read returns the next byte, counting every newline it hands out.
func (c *Cursor) read() (byte, error) {
	var b byte
	if c.hasPend {
		c.hasPend = false
		b = c.pending
	} else {
		next, err := c.r.ReadByte()
		if err != nil {
			return 0, err
		}
		b = next
	}
	if b == '\n' {
		c.line++
	}
	return b, nil
}

// unread pushes b back so the next read returns it, undoing the line count of
// a pushed-back newline. The tokenizer only ever pushes back the single byte
// it just read, so an occupied slot is a bug.
func (c *Cursor) unread(b byte) {
	if c.hasPend {
		panic("tokenizer: pushback slot already occupied")
	}
	c.pending = b
	c.hasPend = true
	if b == '\n' {
		c.line--
	}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlnum(b byte) bool {
	return isAlpha(b) || (b >= '0' && b <= '9')
}
