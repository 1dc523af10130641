package index

// Entry is the record for one distinct word. Word keeps the spelling of the
// first occurrence; Lines holds one line number per occurrence in the order
// they were seen, so len(Lines) == Count.
type Entry struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
	Lines []int  `json:"lines"`
}

// Compare orders two words by ASCII case-folded bytes. It returns a negative
// number when a sorts before b, zero when they are equal ignoring case, and a
// positive number otherwise.
func Compare(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ca, cb := lower(a[i]), lower(b[i])
		if ca != cb {
			return int(ca) - int(cb)
		}
	}
	return len(a) - len(b)
}

// Fold returns the key two words share when they compare equal.
func Fold(word string) string {
	b := []byte(word)
	for i, c := range b {
		b[i] = lower(c)
	}
	return string(b)
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
