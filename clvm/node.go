// Package clvm implements the expression-tree substrate for smart-coin
// puzzles: immutable atom/pair value trees with structural hashing, a
// deterministic wire serialization, and currying (partial application of a
// template program with fixed arguments).
//
// The package deliberately contains no evaluator. Everything the driver
// needs (recognizing curried templates, committing to program trees) is
// structural.
package clvm

import "bytes"

// Node is an immutable CLVM value: either an atom (a byte string, possibly
// empty) or a pair of two child nodes. Nodes are never mutated after
// construction; sharing subtrees is safe.
type Node struct {
	atom  []byte
	first *Node
	rest  *Node
	pair  bool
}

// Atom returns an atom node holding a copy of b.
func Atom(b []byte) *Node {
	cp := make([]byte, len(b))
	copy(cp, b)
	return &Node{atom: cp}
}

// Nil returns the empty atom, CLVM's nil / empty list terminator.
func Nil() *Node {
	return &Node{}
}

// One returns the atom 1, the environment terminator used by curried programs.
func One() *Node {
	return &Node{atom: []byte{0x01}}
}

// Pair returns the cons of first and rest.
func Pair(first, rest *Node) *Node {
	if first == nil || rest == nil {
		panic("clvm: Pair requires non-nil children")
	}
	return &Node{first: first, rest: rest, pair: true}
}

// List returns a proper list of items terminated by nil.
func List(items ...*Node) *Node {
	out := Nil()
	for i := len(items) - 1; i >= 0; i-- {
		out = Pair(items[i], out)
	}
	return out
}

// IsAtom reports whether n is an atom.
func (n *Node) IsAtom() bool { return !n.pair }

// IsPair reports whether n is a pair.
func (n *Node) IsPair() bool { return n.pair }

// AtomBytes returns the atom's bytes and true, or nil and false for a pair.
// The returned slice must not be modified.
func (n *Node) AtomBytes() ([]byte, bool) {
	if n.pair {
		return nil, false
	}
	return n.atom, true
}

// First returns the first element of a pair, or nil for an atom.
func (n *Node) First() *Node {
	if !n.pair {
		return nil
	}
	return n.first
}

// Rest returns the rest of a pair, or nil for an atom.
func (n *Node) Rest() *Node {
	if !n.pair {
		return nil
	}
	return n.rest
}

// IsNil reports whether n is the empty atom.
func (n *Node) IsNil() bool { return !n.pair && len(n.atom) == 0 }

// Equal reports structural equality of two trees.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.pair != b.pair {
		return false
	}
	if !a.pair {
		return bytes.Equal(a.atom, b.atom)
	}
	return Equal(a.first, b.first) && Equal(a.rest, b.rest)
}

// ListItems splits a proper list into its elements. It fails (ok=false) on
// an improper list, i.e. one not terminated by nil.
func ListItems(n *Node) ([]*Node, bool) {
	var items []*Node
	for n.IsPair() {
		items = append(items, n.First())
		n = n.Rest()
	}
	if !n.IsNil() {
		return nil, false
	}
	return items, true
}
