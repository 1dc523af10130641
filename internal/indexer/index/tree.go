// Package index holds the word index: an ordered binary search tree keyed by
// case-insensitive word, where each entry accumulates an occurrence count and
// the line of every occurrence.
//
// The tree is never rebalanced. Its shape follows insertion order, so input
// that arrives already sorted degrades Insert and Find to a linear walk. Both
// walks are iterative, so a degenerate tree costs time but not stack.
package index

import (
	"fmt"

	apperrors "github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/errors"
)

// DefaultLineCapacity is the initial size of a new entry's line list.
const DefaultLineCapacity = 10

// Approximate heap cost of a node without its word and line storage.
const nodeOverhead = 80

const intSize = 8

type node struct {
	word  string
	count int
	lines []int
	left  *node
	right *node
}

// Options tunes a Tree. Zero values select the defaults.
type Options struct {
	// InitialLineCapacity is the line list size of a new entry.
	InitialLineCapacity int
	// MemoryLimit caps the bytes the tree may account for; 0 means no cap.
	MemoryLimit int64
}

// Tree is not safe for concurrent use. It is built by a single indexing pass
// and read afterwards.
type Tree struct {
	root    *node
	size    int
	lineCap int
	limit   int64
	used    int64
	growths int64
}

func NewTree(opts Options) *Tree {
	lineCap := opts.InitialLineCapacity
	if lineCap <= 0 {
		lineCap = DefaultLineCapacity
	}
	return &Tree{lineCap: lineCap, limit: opts.MemoryLimit}
}

// Insert records an occurrence of word on line. A new word gets an entry
// with count 1; a known word has its count incremented and line appended,
// doubling the line list when it is full.
//
// When the memory limit would be exceeded, or the runtime refuses the
// allocation, Insert returns an error wrapping ErrOutOfMemory and the tree is
// left exactly as it was.
func (t *Tree) Insert(word string, line int) error {
	if word == "" {
		return apperrors.New(apperrors.ErrInvalidInput, apperrors.ExitFailure, "cannot index an empty word")
	}
	link := &t.root
	for *link != nil {
		n := *link
		cmp := Compare(word, n.word)
		switch {
		case cmp < 0:
			link = &n.left
		case cmp > 0:
			link = &n.right
		default:
			return t.appendLine(n, line)
		}
	}

	cost := int64(nodeOverhead + len(word) + t.lineCap*intSize)
	if err := t.reserve(cost); err != nil {
		return fmt.Errorf("adding %q: %w", word, err)
	}
	lines, err := allocLines(1, t.lineCap)
	if err != nil {
		t.used -= cost
		return fmt.Errorf("adding %q: %w", word, err)
	}
	lines[0] = line
	*link = &node{word: word, count: 1, lines: lines}
	t.size++
	return nil
}

func (t *Tree) appendLine(n *node, line int) error {
	if len(n.lines) == cap(n.lines) {
		newCap := cap(n.lines) * 2
		cost := int64((newCap - cap(n.lines)) * intSize)
		if err := t.reserve(cost); err != nil {
			return fmt.Errorf("growing lines of %q: %w", n.word, err)
		}
		grown, err := allocLines(len(n.lines), newCap)
		if err != nil {
			t.used -= cost
			return fmt.Errorf("growing lines of %q: %w", n.word, err)
		}
		copy(grown, n.lines)
		n.lines = grown
		t.growths++
	}
	n.lines = append(n.lines, line)
	n.count++
	return nil
}

func (t *Tree) reserve(cost int64) error {
	if t.limit > 0 && t.used+cost > t.limit {
		return apperrors.Newf(apperrors.ErrOutOfMemory, apperrors.ExitOutOfMemory,
			"index memory limit of %d bytes reached (%d in use, %d requested)", t.limit, t.used, cost)
	}
	t.used += cost
	return nil
}

// allocLines reports a capacity the runtime refuses to allocate (a makeslice
// panic) as ErrOutOfMemory. Exhausting the heap is fatal and not recoverable;
// MemoryLimit is what bounds the index.
func allocLines(length, capacity int) (lines []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = apperrors.Newf(apperrors.ErrOutOfMemory, apperrors.ExitOutOfMemory,
				"allocating %d line slots: %v", capacity, r)
		}
	}()
	return make([]int, length, capacity), nil
}

// Find returns the entry for word, ignoring case. The boolean is false when
// the word was never inserted.
func (t *Tree) Find(word string) (Entry, bool) {
	n := t.root
	for n != nil {
		cmp := Compare(word, n.word)
		switch {
		case cmp < 0:
			n = n.left
		case cmp > 0:
			n = n.right
		default:
			return n.entry(), true
		}
	}
	return Entry{}, false
}

func (n *node) entry() Entry {
	return Entry{
		Word:  n.word,
		Count: n.count,
		Lines: n.lines[:n.count:n.count],
	}
}

// Len returns the number of distinct words.
func (t *Tree) Len() int {
	return t.size
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree) Height() int {
	type frame struct {
		n     *node
		depth int
	}
	if t.root == nil {
		return 0
	}
	height := 0
	stack := []frame{{t.root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > height {
			height = f.depth
		}
		if f.n.left != nil {
			stack = append(stack, frame{f.n.left, f.depth + 1})
		}
		if f.n.right != nil {
			stack = append(stack, frame{f.n.right, f.depth + 1})
		}
	}
	return height
}

// Walk visits entries in ascending case-insensitive order until fn returns
// false.
func (t *Tree) Walk(fn func(Entry) bool) {
	var stack []*node
	n := t.root
	for n != nil || len(stack) > 0 {
		for n != nil {
			stack = append(stack, n)
			n = n.left
		}
		n = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n.entry()) {
			return
		}
		n = n.right
	}
}

// Entries returns every entry in ascending order.
func (t *Tree) Entries() []Entry {
	entries := make([]Entry, 0, t.size)
	t.Walk(func(e Entry) bool {
		entries = append(entries, e)
		return true
	})
	return entries
}

// Growths returns how many times a line list has been doubled.
func (t *Tree) Growths() int64 {
	return t.growths
}

// MemoryUsed returns the bytes accounted against the memory limit.
func (t *Tree) MemoryUsed() int64 {
	return t.used
}
