package keymap

import "strings"

// Node is one state in the chord trie.
type Node struct {
	children map[byte]*Node
	binding  *Binding
}

// Child follows a single byte, reporting whether that edge exists.
func (n *Node) Child(b byte) (*Node, bool) {
	c, ok := n.children[b]
	return c, ok
}

// Binding returns the binding recorded at this node, if any.
func (n *Node) Binding() (Binding, bool) {
	if n.binding == nil {
		return Binding{}, false
	}
	return *n.binding, true
}

// HasChildren reports whether any longer chord extends this node — a
// node with a binding but no children is a definite match; one with
// children is ambiguous until a further byte arrives or the read times out.
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// Trie maps byte-sequence chords to Bindings. Keys are kept in a side map
// so Rebind can rewrite every key sharing an old prefix without walking
// the tree.
type Trie struct {
	bindings map[string]Binding
	root     *Node
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{bindings: map[string]Binding{}, root: &Node{}}
}

// Root returns the trie's entry node.
func (t *Trie) Root() *Node { return t.root }

// Bind records seq (as raw bytes, not a string escape) to b.
func (t *Trie) Bind(seq []byte, b Binding) {
	t.bindings[string(seq)] = b
	t.insert(string(seq), b)
}

func (t *Trie) insert(seq string, b Binding) {
	n := t.root
	for i := 0; i < len(seq); i++ {
		c := seq[i]
		if n.children == nil {
			n.children = map[byte]*Node{}
		}
		child, ok := n.children[c]
		if !ok {
			child = &Node{}
			n.children[c] = child
		}
		n = child
	}
	bb := b
	n.binding = &bb
}

// Rebind rewrites every chord beginning with oldPrefix to begin with
// newPrefix instead, preserving what each one does, then rebuilds the
// tree from scratch.
func (t *Trie) Rebind(oldPrefix, newPrefix []byte) {
	old, next := string(oldPrefix), string(newPrefix)
	rewritten := make(map[string]Binding, len(t.bindings))
	for k, v := range t.bindings {
		if strings.HasPrefix(k, old) {
			k = next + k[len(old):]
		}
		rewritten[k] = v
	}
	t.bindings = rewritten
	t.root = &Node{}
	for k, v := range t.bindings {
		t.insert(k, v)
	}
}
