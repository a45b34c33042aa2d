package keymap

import "time"

// NextByteFunc fetches the next byte of a prefix chord, waiting up to d
// before giving up. ok is false on timeout.
type NextByteFunc func(d time.Duration) (b byte, ok bool)

// Reader walks a Trie one byte at a time, applying the longest-match
// read rule: a node with no further children is a definite match; one
// with children waits out the escape timeout before falling back to the
// longest binding matched so far; an entirely unmapped byte resolves to
// def (the "unicode" default, normally SelfInsert).
type Reader struct {
	trie    *Trie
	timeout time.Duration
	def     Binding
}

// NewReader builds a Reader over trie. A non-positive timeout falls back
// to DefaultEscapeTimeout.
func NewReader(trie *Trie, timeout time.Duration, def Binding) *Reader {
	if timeout <= 0 {
		timeout = DefaultEscapeTimeout
	}
	return &Reader{trie: trie, timeout: timeout, def: def}
}

// Read consumes bytes from next until a chord resolves, returning the
// matched Binding.
func (r *Reader) Read(next NextByteFunc) Binding {
	cur := r.trie.Root()
	var longest *Binding

	for {
		b, ok := next(r.timeout)
		if !ok {
			if longest != nil {
				return *longest
			}
			return r.def
		}
		child, ok := cur.Child(b)
		if !ok {
			if longest != nil {
				return *longest
			}
			return r.def
		}
		cur = child

		if binding, has := cur.Binding(); has {
			longest = &binding
			if !cur.HasChildren() {
				return binding
			}
		}
	}
}
