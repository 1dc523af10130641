// Package noise decides which words are too common to be worth searching.
package noise

import "strings"

// defaultWords are suppressed in every session. Duplicates are harmless.
var defaultWords = []string{
	"the", "I", "a", "and", "it", "of", "that", "to", "this", "from", "be",
	"in", "have", "for", "not", "on", "no", "with", "yes", "he", "she", "as",
	"you", "do", "at", "but", "his", "her", "hers", "by", "they", "them", "we", "get",
	"an", "or", "will", "so", "my", "one", "all", "would", "their", "go",
	"up", "down", "out", "me", "when", "be", "who", "left", "both", "let", "can",
	"can't", "give", "there", "they're", "may", "might", "are", "am", "man", "woman",
}

// Filter is an immutable noise word list.
type Filter struct {
	words []string
}

// Default returns a Filter holding only the built-in list.
func Default() *Filter {
	return &Filter{words: defaultWords}
}

// New returns a Filter holding the built-in list plus extra. Blank extras are
// ignored.
func New(extra []string) *Filter {
	words := make([]string, 0, len(defaultWords)+len(extra))
	words = append(words, defaultWords...)
	for _, w := range extra {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return &Filter{words: words}
}

// IsNoise reports whether word is on the list, ignoring case.
func (f *Filter) IsNoise(word string) bool {
	for _, w := range f.words {
		if strings.EqualFold(word, w) {
			return true
		}
	}
	return false
}

// Len returns the number of listed words, duplicates included.
func (f *Filter) Len() int {
	return len(f.words)
}

// IsNoise checks word against the built-in list.
func IsNoise(word string) bool {
	return Default().IsNoise(word)
}
